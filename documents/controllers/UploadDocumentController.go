package controllers

import (
	"io"
	"strings"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"
	documents_requests "invoiceflow-backend/documents/requests"
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadDocument handles POST /api/v1/documents (multipart/form-data).
func (dc *DocumentController) UploadDocument(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil || c.FormValue("type") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing required fields: file, type",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		config.Logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to read uploaded file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to read uploaded file",
			"error":   err.Error(),
		})
	}

	var invoiceID *uuid.UUID
	if raw := strings.TrimSpace(c.FormValue("invoiceId")); raw != "" {
		invoiceID = utils.StringToUUIDPtr(raw)
		if invoiceID == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid invoiceId",
			})
		}
	}

	req := &documents_requests.UploadDocumentRequest{
		Type:         models.DocumentKind(strings.ToUpper(strings.TrimSpace(c.FormValue("type")))),
		FileName:     fileHeader.Filename,
		MimeType:     fileHeader.Header.Get(fiber.HeaderContentType),
		Content:      content,
		ProjectID:    utils.OptionalString(c.FormValue("projectId")),
		InvoiceID:    invoiceID,
		BillingMonth: utils.OptionalString(c.FormValue("billingMonth")),
		RingiNumber:  utils.OptionalString(c.FormValue("ringiNumber")),
		ProjectName:  utils.OptionalString(c.FormValue("projectName")),
		VendorID:     utils.OptionalString(c.FormValue("vendorId")),
		Description:  utils.OptionalString(c.FormValue("description")),
		Uploader:     user,
	}

	resp, err := dc.DocumentService.Upload(c.Context(), req)
	if err != nil {
		return failure(c, "Failed to upload document", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"document":   resp.Document,
		"validation": resp.Validation,
	})
}
