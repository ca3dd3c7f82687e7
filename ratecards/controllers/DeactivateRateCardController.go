package controllers

import (
	"invoiceflow-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (rc *RateCardController) DeactivateRateCard(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid rate card ID", err)
	}

	card, err := rc.RateCardService.Deactivate(c.Context(), user, id)
	if err != nil {
		return failure(c, "Failed to deactivate rate card", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Rate card deactivated",
		"data":    card,
	})
}
