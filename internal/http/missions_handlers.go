package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pennypet/pennypet-backend/internal/audit"
	"github.com/pennypet/pennypet-backend/internal/auth"
	"github.com/pennypet/pennypet-backend/internal/economy"
)

type MissionsHandler struct {
	Economy *economy.Service
	Audit   *audit.Logger
}

func (h *MissionsHandler) List(c *fiber.Ctx) error {
	daily, weekly, err := h.Economy.Missions(userContext(c), auth.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"daily": daily, "weekly": weekly})
}

func (h *MissionsHandler) Claim(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	missionID := c.Params("id")

	def, err := h.Economy.ClaimMission(userContext(c), userID, missionID)
	if err != nil {
		return respondError(c, err)
	}

	h.Audit.Record(userContext(c), audit.Entry{
		UserID:     userID,
		Action:     audit.ActionMissionClaim,
		EntityType: "mission",
		EntityID:   missionID,
		IP:         c.IP(),
		Metadata:   fiber.Map{"reward": def.Reward},
	})

	return c.JSON(fiber.Map{"mission_id": def.ID, "reward": def.Reward})
}
