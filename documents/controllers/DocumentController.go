package controllers

import (
	"errors"

	"invoiceflow-backend/config"
	"invoiceflow-backend/documents/repositories"
	"invoiceflow-backend/documents/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DocumentController struct {
	DocumentService *services.DocumentService
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidUpload):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, repositories.ErrDocumentNotFound), errors.Is(err, services.ErrNoValidationReport):
		return fiber.StatusNotFound
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

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Unauthorized",
		"error":   "Authentication required",
	})
}

func invalidID(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid document ID",
		"error":   err.Error(),
	})
}
