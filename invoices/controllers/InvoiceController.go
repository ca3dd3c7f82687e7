package controllers

import (
	"errors"

	"invoiceflow-backend/config"
	invoice_repositories "invoiceflow-backend/invoices/repositories"
	"invoiceflow-backend/invoices/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type InvoiceController struct {
	Workflow *services.WorkflowService
	Invoices *services.InvoiceService
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnknownAction),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrCommentsRequired):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrRoleNotAllowed),
		errors.Is(err, services.ErrNotAssigned),
		errors.Is(err, services.ErrInvoiceHidden):
		return fiber.StatusForbidden
	case errors.Is(err, invoice_repositories.ErrInvoiceNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, invoice_repositories.ErrStatusChanged):
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
		"message": "Invalid invoice ID",
		"error":   err.Error(),
	})
}
