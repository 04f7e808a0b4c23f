package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pennypet/pennypet-backend/internal/auth"
	"github.com/pennypet/pennypet-backend/internal/economy"
	"github.com/pennypet/pennypet-backend/internal/friends"
)

type FriendsHandler struct {
	Economy *economy.Service
	Friends *friends.Service
}

func (h *FriendsHandler) Request(c *fiber.Ctx) error {
	if err := h.Friends.Request(userContext(c), auth.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *FriendsHandler) Accept(c *fiber.Ctx) error {
	if err := h.Friends.Accept(userContext(c), auth.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FriendsHandler) List(c *fiber.Ctx) error {
	list, err := h.Friends.List(userContext(c), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if list == nil {
		list = []friends.Friendship{}
	}
	return c.JSON(fiber.Map{"friends": list})
}

func (h *FriendsHandler) Visit(c *fiber.Ctx) error {
	p, err := h.Economy.VisitFriend(userContext(c), auth.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(p))
}

func (h *FriendsHandler) Pet(c *fiber.Ctx) error {
	p, err := h.Economy.PetFriend(userContext(c), auth.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(p))
}

func (h *FriendsHandler) Feed(c *fiber.Ctx) error {
	p, err := h.Economy.FeedFriend(userContext(c), auth.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(viewOf(p))
}
