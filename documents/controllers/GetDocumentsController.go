package controllers

import (
	"fmt"
	"strings"

	"invoiceflow-backend/db/models"
	documents_requests "invoiceflow-backend/documents/requests"
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (dc *DocumentController) ListDocuments(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	req := documents_requests.ListDocumentsRequest{
		ProjectID: utils.OptionalString(c.Query("projectId")),
		Limit:     c.QueryInt("limit", 0),
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		kind := models.DocumentKind(strings.ToUpper(raw))
		req.Type = &kind
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.DocumentStatus(strings.ToUpper(raw))
		req.Status = &status
	}

	documents, err := dc.DocumentService.List(c.Context(), user, req)
	if err != nil {
		return failure(c, "Failed to fetch documents", err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"documents": documents,
	})
}

func (dc *DocumentController) SearchDocuments(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	documents, err := dc.DocumentService.Search(c.Context(), user, documents_requests.SearchDocumentsRequest{
		Query: c.Query("q"),
		Limit: c.QueryInt("limit", 20),
	})
	if err != nil {
		return failure(c, "Failed to search documents", err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"documents": documents,
	})
}

func (dc *DocumentController) DownloadDocument(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c, err)
	}

	document, reader, err := dc.DocumentService.Download(c.Context(), user, id)
	if err != nil {
		return failure(c, "Failed to download document", err)
	}

	c.Set(fiber.HeaderContentType, document.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", document.FileName))
	return c.SendStream(reader, int(document.FileSize))
}

func (dc *DocumentController) ExportValidationReport(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidID(c, err)
	}

	name, content, err := dc.DocumentService.ExportValidationReport(c.Context(), user, id)
	if err != nil {
		return failure(c, "Failed to export validation report", err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(content)
}
