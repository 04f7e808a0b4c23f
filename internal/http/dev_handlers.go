package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pennypet/pennypet-backend/internal/auth"
)

// DevUserID is the fixed account dev tokens are minted for.
const DevUserID = "11111111-1111-1111-1111-111111111111"

// DevTokenHandler returns a signed token for DevUserID so the API can be
// exercised without going through signup. Registered only when ENV=dev.
func DevTokenHandler(secret []byte, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		signed, err := auth.IssueToken(secret, DevUserID, ttl)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"token": signed})
	}
}
