package controllers

import (
	"invoiceflow-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (dc *DocumentController) DeleteDocument(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c, err)
	}

	if err := dc.DocumentService.Delete(c.Context(), user, id); err != nil {
		return failure(c, "Failed to delete document", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Document deleted successfully",
	})
}
