package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pennypet/pennypet-backend/internal/audit"
	"github.com/pennypet/pennypet-backend/internal/auth"
	"github.com/pennypet/pennypet-backend/internal/economy"
	"github.com/pennypet/pennypet-backend/internal/pet"
)

type PetHandler struct {
	Economy *economy.Service
	Audit   *audit.Logger
}

// petView decorates the raw state with the derived flags clients render.
type petView struct {
	pet.Pet
	IsHungry  bool `json:"is_hungry"`
	IsUnhappy bool `json:"is_unhappy"`
	IsDead    bool `json:"is_dead"`
}

func viewOf(p pet.Pet) petView {
	return petView{Pet: p, IsHungry: p.IsHungry(), IsUnhappy: p.IsUnhappy(), IsDead: p.IsDead()}
}

func (h *PetHandler) Get(c *fiber.Ctx) error {
	p, err := h.Economy.Pet(userContext(c), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(p))
}

func (h *PetHandler) Visit(c *fiber.Ctx) error {
	p, err := h.Economy.VisitPetPage(userContext(c), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(p))
}

func (h *PetHandler) Pet(c *fiber.Ctx) error {
	p, err := h.Economy.PetPet(userContext(c), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(p))
}

type feedRequest struct {
	PurchaseID string `json:"purchase_id"`
}

func (h *PetHandler) Feed(c *fiber.Ctx) error {
	var body feedRequest
	if err := c.BodyParser(&body); err != nil || body.PurchaseID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "purchase_id is required")
	}

	p, err := h.Economy.FeedPet(userContext(c), auth.UserID(c), body.PurchaseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(p))
}

type purchaseRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (h *PetHandler) Purchase(c *fiber.Ctx) error {
	var body purchaseRequest
	if err := c.BodyParser(&body); err != nil || body.ItemID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "item_id is required")
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	userID := auth.UserID(c)
	pu, err := h.Economy.PurchaseItem(userContext(c), userID, body.ItemID, body.Quantity)
	if err != nil {
		return respondError(c, err)
	}

	h.Audit.Record(userContext(c), audit.Entry{
		UserID:     userID,
		Action:     audit.ActionShopPurchase,
		EntityType: "purchase",
		EntityID:   pu.ID,
		IP:         c.IP(),
		Metadata:   fiber.Map{"item_id": pu.ItemID, "quantity": body.Quantity},
	})

	return c.Status(fiber.StatusCreated).JSON(pu)
}

func (h *PetHandler) Restart(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	p, err := h.Economy.RestartPet(userContext(c), userID)
	if err != nil {
		return respondError(c, err)
	}

	h.Audit.Record(userContext(c), audit.Entry{
		UserID:     userID,
		Action:     audit.ActionPetRestart,
		EntityType: "pet",
		EntityID:   userID,
		IP:         c.IP(),
	})

	return c.JSON(viewOf(p))
}

func (h *PetHandler) Inventory(c *fiber.Ctx) error {
	items, err := h.Economy.Inventory(userContext(c), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []pet.Purchase{}
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *PetHandler) Shop(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"items": pet.Catalog()})
}
