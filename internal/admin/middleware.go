package admin

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireAdminKey guards admin routes with a static header key. An empty
// configured key hard-fails rather than accidentally opening the surface.
func RequireAdminKey(key string) fiber.Handler {
	key = strings.TrimSpace(key)
	if key == "" {
		return func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusInternalServerError, "admin key not configured")
		}
	}

	return func(c *fiber.Ctx) error {
		got := strings.TrimSpace(c.Get("X-Admin-Key"))
		if got == "" || got != key {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid admin key")
		}
		return c.Next()
	}
}
