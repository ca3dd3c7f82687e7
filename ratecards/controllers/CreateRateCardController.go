package controllers

import (
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/ratecards/requests"

	"github.com/gofiber/fiber/v2"
)

func (rc *RateCardController) CreateRateCard(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req requests.CreateRateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	card, err := rc.RateCardService.Create(c.Context(), user, req)
	if err != nil {
		return failure(c, "Failed to create rate card", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Rate card created",
		"data":    card,
	})
}

// CreateRateCardFromDocument promotes a validated RATE_CARD upload.
func (rc *RateCardController) CreateRateCardFromDocument(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req requests.CreateRateCardFromDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	card, err := rc.RateCardService.CreateFromDocument(c.Context(), user, req)
	if err != nil {
		return failure(c, "Failed to create rate card from document", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Rate card created",
		"data":    card,
	})
}
