package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	DocumentUploadedAction AuditAction = "DOCUMENT_UPLOADED"
	DocumentDeletedAction  AuditAction = "DOCUMENT_DELETED"
	RateCardCreatedAction  AuditAction = "RATE_CARD_CREATED"
	RateCardDisabledAction AuditAction = "RATE_CARD_DEACTIVATED"
)

// WorkflowAuditAction names the audit action for an invoice workflow step, e.g. WORKFLOW_APPROVE.
func WorkflowAuditAction(action string) AuditAction {
	return AuditAction("WORKFLOW_" + action)
}

// AuditTrailEntry is an append-only record of user actions
type AuditTrailEntry struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key;" json:"id"`
	InvoiceID *uuid.UUID  `gorm:"type:uuid;index" json:"invoice_id"`
	Username  string      `gorm:"not null" json:"username"`
	Action    AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`
	Details   string      `gorm:"type:text" json:"details"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
}

func (a *AuditTrailEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
