package controllers

import (
	"invoiceflow-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (rc *RateCardController) GetFilteredRateCards(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return badRequest(c, "Invalid pagination parameters", err)
	}

	cards, total, err := rc.RateCardService.List(c.Context(), params)
	if err != nil {
		return failure(c, "Failed to fetch rate cards", err)
	}

	return c.JSON(pagination.NewPaginatedResponse(c, cards, total, params))
}

func (rc *RateCardController) GetRateCard(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid rate card ID", err)
	}

	card, err := rc.RateCardService.Get(c.Context(), id)
	if err != nil {
		return failure(c, "Failed to fetch rate card", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    card,
	})
}
