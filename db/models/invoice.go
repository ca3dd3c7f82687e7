package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus defines the current state of an invoice in the workflow.
type InvoiceStatus string

const (
	ReceivedInvoice           InvoiceStatus = "RECEIVED"
	DigitizedInvoice          InvoiceStatus = "DIGITIZED"
	ValidationRequiredInvoice InvoiceStatus = "VALIDATION_REQUIRED"
	VerifiedInvoice           InvoiceStatus = "VERIFIED"
	MatchDiscrepancyInvoice   InvoiceStatus = "MATCH_DISCREPANCY"
	PendingApprovalInvoice    InvoiceStatus = "PENDING_APPROVAL"
	ApprovedInvoice           InvoiceStatus = "APPROVED"
	RejectedInvoice           InvoiceStatus = "REJECTED"
	PaidInvoice               InvoiceStatus = "PAID"
)

type Invoice struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	InvoiceNumber     string          `gorm:"index" json:"invoice_number"`
	VendorName        string          `json:"vendor_name"`
	VendorID          *string         `gorm:"index" json:"vendor_id"`
	Project           string          `gorm:"index" json:"project"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	Currency          string          `gorm:"type:varchar(3);default:'INR'" json:"currency"`
	Status            InvoiceStatus   `gorm:"type:varchar(30);not null;index" json:"status"`
	AssignedPMID      *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_pm_id"`
	SubmittedByUserID *uuid.UUID      `gorm:"type:uuid;index" json:"submitted_by_user_id"`
	OriginalName      string          `json:"original_name"`
	LastComment       *string         `gorm:"type:text" json:"last_comment"`

	// Relationships
	AssignedPM *User `gorm:"foreignKey:AssignedPMID" json:"assigned_pm,omitempty"`

	ReceivedAt time.Time      `json:"received_at"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.ReceivedAt.IsZero() {
		i.ReceivedAt = time.Now()
	}
	return nil
}
