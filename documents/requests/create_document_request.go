package requests

import (
	"invoiceflow-backend/db/models"

	"github.com/google/uuid"
)

// UploadDocumentRequest is a parsed multipart upload.
type UploadDocumentRequest struct {
	Type      models.DocumentKind
	FileName  string
	MimeType  string
	Content   []byte
	ProjectID *string
	InvoiceID *uuid.UUID

	BillingMonth *string
	RingiNumber  *string
	ProjectName  *string
	VendorID     *string
	Description  *string

	Uploader *models.User
}

// ListDocumentsRequest narrows GET /documents.
type ListDocumentsRequest struct {
	ProjectID *string
	Type      *models.DocumentKind
	Status    *models.DocumentStatus
	Limit     int
}

// SearchDocumentsRequest is a bleve query over uploaded documents.
type SearchDocumentsRequest struct {
	Query string
	Limit int
}
