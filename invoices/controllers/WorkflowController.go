package controllers

import (
	"invoiceflow-backend/config"
	invoice_requests "invoiceflow-backend/invoices/requests"
	"invoiceflow-backend/invoices/services"
	"invoiceflow-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApplyWorkflowAction handles POST /api/v1/invoices/:id/workflow.
func (ic *InvoiceController) ApplyWorkflowAction(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c, err)
	}

	var req invoice_requests.WorkflowActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	action, err := services.ParseWorkflowAction(req.Action)
	if err != nil {
		return failure(c, "Invalid workflow action", err)
	}

	result, err := ic.Workflow.Transition(c.Context(), id, user, action, req.Comments)
	if err != nil {
		return failure(c, "Failed to update invoice status", err)
	}

	config.Logger.Info("Invoice workflow action applied",
		zap.String("invoice_id", id.String()),
		zap.String("action", string(action)),
		zap.String("from", string(result.From)),
		zap.String("to", string(result.To)),
		zap.String("user", user.Email))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Invoice status updated",
		"data":    result,
	})
}
