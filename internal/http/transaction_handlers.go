package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pennypet/pennypet-backend/internal/audit"
	"github.com/pennypet/pennypet-backend/internal/auth"
	"github.com/pennypet/pennypet-backend/internal/clock"
	"github.com/pennypet/pennypet-backend/internal/economy"
	"github.com/pennypet/pennypet-backend/internal/ledger"
	"github.com/pennypet/pennypet-backend/internal/money"
)

type TransactionsHandler struct {
	Economy *economy.Service
	Ledger  *ledger.Service
	Audit   *audit.Logger
	Clock   clock.Clock
}

type transactionRequest struct {
	Amount     string `json:"amount"`
	Type       string `json:"type"`
	CategoryID int64  `json:"category_id"`
	Category   string `json:"category"`
	Date       string `json:"date"`
	Note       string `json:"note"`
}

func (h *TransactionsHandler) parse(c *fiber.Ctx) (ledger.UpdateInput, error) {
	var body transactionRequest
	if err := c.BodyParser(&body); err != nil {
		return ledger.UpdateInput{}, fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	amount, err := money.ParseAmount(body.Amount)
	if err != nil {
		return ledger.UpdateInput{}, respondError(c, err)
	}

	typeID, ok := ledger.ParseType(body.Type)
	if !ok {
		return ledger.UpdateInput{}, fiber.NewError(fiber.StatusBadRequest, "type must be expense, income or deposit")
	}

	date := h.Clock.Now()
	if body.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", body.Date, h.Clock.Location())
		if err != nil {
			return ledger.UpdateInput{}, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = parsed
	}

	return ledger.UpdateInput{
		Amount:       amount,
		TypeID:       typeID,
		CategoryID:   body.CategoryID,
		CategoryName: body.Category,
		Date:         date,
		Note:         body.Note,
	}, nil
}

func (h *TransactionsHandler) Create(c *fiber.Ctx) error {
	in, err := h.parse(c)
	if err != nil {
		return err
	}

	userID := auth.UserID(c)
	txn, err := h.Economy.RecordTransaction(userContext(c), ledger.RecordInput{
		UserID:       userID,
		Amount:       in.Amount,
		TypeID:       in.TypeID,
		CategoryID:   in.CategoryID,
		CategoryName: in.CategoryName,
		Date:         in.Date,
		Note:         in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}

	h.Audit.Record(userContext(c), audit.Entry{
		UserID:     userID,
		Action:     audit.ActionTransactionCreate,
		EntityType: "transaction",
		EntityID:   txn.ID,
		IP:         c.IP(),
	})

	return c.Status(fiber.StatusCreated).JSON(txn)
}

func (h *TransactionsHandler) Update(c *fiber.Ctx) error {
	in, err := h.parse(c)
	if err != nil {
		return err
	}

	userID := auth.UserID(c)
	txn, err := h.Economy.UpdateTransaction(userContext(c), userID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}

	h.Audit.Record(userContext(c), audit.Entry{
		UserID:     userID,
		Action:     audit.ActionTransactionUpdate,
		EntityType: "transaction",
		EntityID:   txn.ID,
		IP:         c.IP(),
	})

	return c.JSON(txn)
}

func (h *TransactionsHandler) Delete(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	id := c.Params("id")
	if err := h.Economy.DeleteTransaction(userContext(c), userID, id); err != nil {
		return respondError(c, err)
	}

	h.Audit.Record(userContext(c), audit.Entry{
		UserID:     userID,
		Action:     audit.ActionTransactionDelete,
		EntityType: "transaction",
		EntityID:   id,
		IP:         c.IP(),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TransactionsHandler) List(c *fiber.Ctx) error {
	txns, err := h.Ledger.List(userContext(c), auth.UserID(c), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	if txns == nil {
		txns = []ledger.Transaction{}
	}
	return c.JSON(fiber.Map{"transactions": txns})
}

// Summary reports totals for one calendar month (default: the current one)
// alongside the all-time balance.
func (h *TransactionsHandler) Summary(c *fiber.Ctx) error {
	now := h.Clock.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.Clock.Location())
	if m := c.Query("month"); m != "" {
		parsed, err := time.ParseInLocation("2006-01", m, h.Clock.Location())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "month must be YYYY-MM")
		}
		from = parsed
	}
	to := from.AddDate(0, 1, 0)

	ctx := userContext(c)
	userID := auth.UserID(c)

	totals, err := h.Ledger.Totals(ctx, userID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	balance, err := h.Ledger.Balance(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"month":   from.Format("2006-01"),
		"totals":  totals,
		"balance": balance,
	})
}
