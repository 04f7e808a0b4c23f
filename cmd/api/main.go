package main

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/pennypet/pennypet-backend/internal/admin"
	"github.com/pennypet/pennypet-backend/internal/audit"
	"github.com/pennypet/pennypet-backend/internal/auth"
	"github.com/pennypet/pennypet-backend/internal/clock"
	"github.com/pennypet/pennypet-backend/internal/config"
	"github.com/pennypet/pennypet-backend/internal/economy"
	"github.com/pennypet/pennypet-backend/internal/friends"
	apphttp "github.com/pennypet/pennypet-backend/internal/http"
	"github.com/pennypet/pennypet-backend/internal/ledger"
	"github.com/pennypet/pennypet-backend/internal/logger"
	"github.com/pennypet/pennypet-backend/internal/missions"
	"github.com/pennypet/pennypet-backend/internal/pet"
	"github.com/pennypet/pennypet-backend/internal/reports"
	"github.com/pennypet/pennypet-backend/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.IsDev())
	defer logger.Log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		logger.Log.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}
	clk := clock.New(loc)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal("error creating pgx pool", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Log.Fatal("error pinging database", zap.Error(err))
	}

	ledgerSvc := ledger.NewService(ledger.NewPostgresStore(pool))
	friendStore := friends.NewPostgresStore(pool)
	friendSvc := friends.NewService(friendStore)
	petSvc := pet.NewService(pet.NewPostgresStore(pool), clk, friendStore)
	missionSvc := missions.NewService(missions.NewPostgresStore(pool), clk)
	economySvc := economy.NewService(ledgerSvc, petSvc, missionSvc, friendSvc, clk)

	auditLog := audit.NewLogger(pool)
	secret := []byte(cfg.JWTSecret)

	r := &router.Router{
		AuthHandler: &apphttp.AuthHandler{
			Users:    auth.NewUserStore(pool),
			Secret:   secret,
			TokenTTL: 24 * time.Hour,
		},
		TxHandler: &apphttp.TransactionsHandler{
			Economy: economySvc,
			Ledger:  ledgerSvc,
			Audit:   auditLog,
			Clock:   clk,
		},
		PetHandler:      &apphttp.PetHandler{Economy: economySvc, Audit: auditLog},
		MissionsHandler: &apphttp.MissionsHandler{Economy: economySvc, Audit: auditLog},
		FriendsHandler:  &apphttp.FriendsHandler{Economy: economySvc, Friends: friendSvc},
		ReportsHandler:  reports.NewHandler(reports.NewStore(pool), clk),
		AdminHandler:    admin.NewHandler(pool),

		AuthMW:     auth.Middleware(secret, pool),
		AdminMW:    admin.RequireAdminKey(cfg.AdminKey),
		AuthLimit:  router.RateLimitAuth(cfg.RateLimitAuthMax),
		WriteLimit: router.RateLimitWrite(cfg.RateLimitWriteMax),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	// Dev token endpoint
	if cfg.IsDev() {
		app.Get("/dev/token", apphttp.DevTokenHandler(secret, 24*time.Hour))
	}

	r.RegisterRoutes(app)

	logger.Log.Info("listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)))
		return err
	}
}
