package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pennypet/pennypet-backend/internal/admin"
	handlers "github.com/pennypet/pennypet-backend/internal/http"
	"github.com/pennypet/pennypet-backend/internal/reports"
)

type Router struct {
	AuthHandler     *handlers.AuthHandler
	TxHandler       *handlers.TransactionsHandler
	PetHandler      *handlers.PetHandler
	MissionsHandler *handlers.MissionsHandler
	FriendsHandler  *handlers.FriendsHandler
	ReportsHandler  *reports.Handler
	AdminHandler    *admin.Handler

	AuthMW      fiber.Handler
	AdminMW     fiber.Handler
	AuthLimit   fiber.Handler
	WriteLimit  fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/api/auth/signup", r.AuthLimit, r.AuthHandler.Signup)
	app.Post("/api/auth/login", r.AuthLimit, r.AuthHandler.Login)
	app.Get("/api/me", r.AuthMW, r.AuthHandler.Me)

	app.Post("/api/transactions", r.AuthMW, r.WriteLimit, r.TxHandler.Create)
	app.Get("/api/transactions", r.AuthMW, r.TxHandler.List)
	app.Get("/api/transactions/summary", r.AuthMW, r.TxHandler.Summary)
	app.Put("/api/transactions/:id", r.AuthMW, r.WriteLimit, r.TxHandler.Update)
	app.Delete("/api/transactions/:id", r.AuthMW, r.WriteLimit, r.TxHandler.Delete)

	app.Get("/api/pet", r.AuthMW, r.PetHandler.Get)
	app.Post("/api/pet/visit", r.AuthMW, r.PetHandler.Visit)
	app.Post("/api/pet/pet", r.AuthMW, r.PetHandler.Pet)
	app.Post("/api/pet/feed", r.AuthMW, r.WriteLimit, r.PetHandler.Feed)
	app.Post("/api/pet/restart", r.AuthMW, r.WriteLimit, r.PetHandler.Restart)
	app.Get("/api/pet/inventory", r.AuthMW, r.PetHandler.Inventory)
	app.Get("/api/shop", r.AuthMW, r.PetHandler.Shop)
	app.Post("/api/shop/purchase", r.AuthMW, r.WriteLimit, r.PetHandler.Purchase)

	app.Get("/api/missions", r.AuthMW, r.MissionsHandler.List)
	app.Post("/api/missions/:id/claim", r.AuthMW, r.WriteLimit, r.MissionsHandler.Claim)

	app.Get("/api/friends", r.AuthMW, r.FriendsHandler.List)
	app.Post("/api/friends/:id/request", r.AuthMW, r.WriteLimit, r.FriendsHandler.Request)
	app.Post("/api/friends/:id/accept", r.AuthMW, r.WriteLimit, r.FriendsHandler.Accept)
	app.Post("/api/friends/:id/visit", r.AuthMW, r.FriendsHandler.Visit)
	app.Post("/api/friends/:id/pet", r.AuthMW, r.FriendsHandler.Pet)
	app.Post("/api/friends/:id/feed", r.AuthMW, r.FriendsHandler.Feed)

	app.Get("/api/reports/statement", r.AuthMW, r.ReportsHandler.Statement)
	app.Get("/api/reports/statement.pdf", r.AuthMW, r.ReportsHandler.StatementPDF)

	if r.AdminHandler != nil && r.AdminMW != nil {
		app.Get("/api/admin/overview", r.AdminMW, r.AdminHandler.Overview)
	}
}
