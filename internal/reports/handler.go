package reports

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pennypet/pennypet-backend/internal/clock"
)

type Handler struct {
	Store *Store
	Clock clock.Clock
}

func NewHandler(store *Store, c clock.Clock) *Handler {
	return &Handler{Store: store, Clock: c}
}

func (h *Handler) monthStart(c *fiber.Ctx) (time.Time, error) {
	now := h.Clock.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.Clock.Location())
	if m := strings.TrimSpace(c.Query("month")); m != "" {
		parsed, err := time.ParseInLocation("2006-01", m, h.Clock.Location())
		if err != nil {
			return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "month must be YYYY-MM")
		}
		from = parsed
	}
	return from, nil
}

// Statement returns the monthly statement as JSON.
func (h *Handler) Statement(c *fiber.Ctx) error {
	from, err := h.monthStart(c)
	if err != nil {
		return err
	}

	userID, _ := c.Locals("user_id").(string)
	st, err := buildStatement(c.UserContext(), h.Store, userID, from)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed statement")
	}
	if st.Items == nil {
		st.Items = []Item{}
	}
	return c.JSON(st)
}
