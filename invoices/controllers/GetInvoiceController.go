package controllers

import (
	"invoiceflow-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (ic *InvoiceController) GetInvoice(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c, err)
	}

	view, err := ic.Invoices.Get(c.Context(), user, id)
	if err != nil {
		return failure(c, "Failed to fetch invoice", err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"invoice":          view.Invoice,
		"availableActions": view.AvailableActions,
	})
}

func (ic *InvoiceController) GetInvoiceAuditTrail(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c, err)
	}

	entries, err := ic.Invoices.AuditTrail(c.Context(), user, id)
	if err != nil {
		return failure(c, "Failed to fetch audit trail", err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"auditTrail": entries,
	})
}
