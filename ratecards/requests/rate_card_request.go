package requests

import (
	"time"

	"invoiceflow-backend/db/models"

	"github.com/google/uuid"
)

type CreateRateCardRequest struct {
	Name          string             `json:"name"`
	VendorID      string             `json:"vendor_id"`
	ProjectID     *string            `json:"project_id"`
	Rates         []models.RateEntry `json:"rates"`
	EffectiveFrom time.Time          `json:"effective_from"`
	EffectiveTo   *time.Time         `json:"effective_to"`
}

// CreateRateCardFromDocumentRequest promotes a validated RATE_CARD upload.
type CreateRateCardFromDocumentRequest struct {
	DocumentID    uuid.UUID  `json:"document_id"`
	Name          string     `json:"name"`
	VendorID      string     `json:"vendor_id"`
	ProjectID     *string    `json:"project_id"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to"`
}
