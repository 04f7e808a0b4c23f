package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

type latestUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type OverviewResponse struct {
	UsersTotal        int64        `json:"users_total"`
	TransactionsTotal int64        `json:"transactions_total"`
	PetsTotal         int64        `json:"pets_total"`
	PetsDead          int64        `json:"pets_dead"`
	MissionsClaimed   int64        `json:"missions_claimed"`
	LatestUsers       []latestUser `json:"latest_users"`
}

func (h *Handler) Overview(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var resp OverviewResponse
	counts := []struct {
		query string
		dst   *int64
	}{
		{`SELECT COUNT(*) FROM users`, &resp.UsersTotal},
		{`SELECT COUNT(*) FROM transactions`, &resp.TransactionsTotal},
		{`SELECT COUNT(*) FROM pets`, &resp.PetsTotal},
		{`SELECT COUNT(*) FROM pets WHERE mood <= 0 OR fullness <= 0`, &resp.PetsDead},
		{`SELECT COUNT(*) FROM missions WHERE claimed = true`, &resp.MissionsClaimed},
	}
	for _, q := range counts {
		if err := h.Pool.QueryRow(ctx, q.query).Scan(q.dst); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "overview query failed")
		}
	}

	rows, err := h.Pool.Query(ctx, `
SELECT id::text, email, created_at::text
FROM users
ORDER BY created_at DESC
LIMIT 20`)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "overview query failed")
	}
	defer rows.Close()

	for rows.Next() {
		var u latestUser
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "overview scan failed")
		}
		resp.LatestUsers = append(resp.LatestUsers, u)
	}
	if err := rows.Err(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "overview query failed")
	}

	return c.JSON(resp)
}
