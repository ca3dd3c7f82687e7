package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentKind is the business type of an uploaded document
type DocumentKind string

const (
	RingiDocument     DocumentKind = "RINGI"
	AnnexDocument     DocumentKind = "ANNEX"
	TimesheetDocument DocumentKind = "TIMESHEET"
	RateCardDocument  DocumentKind = "RATE_CARD"
)

var DocumentKinds = []DocumentKind{RingiDocument, AnnexDocument, TimesheetDocument, RateCardDocument}

func (k DocumentKind) IsValid() bool {
	for _, kind := range DocumentKinds {
		if k == kind {
			return true
		}
	}
	return false
}

type DocumentStatus string

const (
	PendingDocument   DocumentStatus = "PENDING"
	ValidatedDocument DocumentStatus = "VALIDATED"
)

// DocumentMetadata is stored as a JSON column on the upload row
type DocumentMetadata struct {
	BillingMonth       *string  `json:"billingMonth"`
	Validated          bool     `json:"validated"`
	ValidationNotes    string   `json:"validationNotes"`
	ValidationErrors   []string `json:"validationErrors,omitempty"`
	ValidationWarnings []string `json:"validationWarnings,omitempty"`
	RingiNumber        *string  `json:"ringiNumber"`
	ProjectName        *string  `json:"projectName"`
	Description        *string  `json:"description"`
	VendorID           *string  `json:"vendorId"`
	ValidationData     *string  `json:"validationData"` // serialized validation payload
}

// DocumentUpload is a Ringi/Annex/Timesheet/Rate card file uploaded by a user.
// Rows are never edited in place; they are created by intake and removed by delete.
type DocumentUpload struct {
	ID         uuid.UUID                            `gorm:"type:uuid;primary_key;" json:"id"`
	Type       DocumentKind                         `gorm:"type:varchar(20);not null;index" json:"type"`
	FileName   string                               `gorm:"not null" json:"file_name"`
	FilePath   string                               `gorm:"not null" json:"file_path"`
	FileHash   string                               `gorm:"index" json:"file_hash"`
	MimeType   string                               `json:"mime_type"`
	FileSize   int64                                `gorm:"not null" json:"file_size"`
	UploadedBy uuid.UUID                            `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	ProjectID  *string                              `gorm:"index" json:"project_id"`
	InvoiceID  *uuid.UUID                           `gorm:"type:uuid;index" json:"invoice_id"`
	Metadata   datatypes.JSONType[DocumentMetadata] `json:"metadata"`
	Status     DocumentStatus                       `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (d *DocumentUpload) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
