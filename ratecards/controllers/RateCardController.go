package controllers

import (
	"errors"

	"invoiceflow-backend/config"
	document_repositories "invoiceflow-backend/documents/repositories"
	"invoiceflow-backend/ratecards/repositories"
	"invoiceflow-backend/ratecards/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RateCardController struct {
	RateCardService *services.RateCardService
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRateCard), errors.Is(err, services.ErrSourceNotUsable):
		return fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrRateCardNotFound), errors.Is(err, document_repositories.ErrDocumentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrRateCardNotActive):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func failure(c *fiber.Ctx, message string, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		config.Logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Unauthorized",
		"error":   "Authentication required",
	})
}
