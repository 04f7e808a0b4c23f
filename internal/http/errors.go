package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pennypet/pennypet-backend/internal/apperr"
)

// statusFor translates the error taxonomy onto HTTP codes. Configuration
// faults are server-side and stay opaque to clients.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		return fiber.NewError(code, "internal server error")
	}
	return fiber.NewError(code, err.Error())
}
