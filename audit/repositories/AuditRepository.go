package repositories

import (
	"context"
	"fmt"

	"invoiceflow-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository interface {
	CreateAuditTrailEntry(ctx context.Context, entry *models.AuditTrailEntry) error
	GetInvoiceAuditTrail(ctx context.Context, invoiceID uuid.UUID) ([]models.AuditTrailEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateAuditTrailEntry(ctx context.Context, entry *models.AuditTrailEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// GetInvoiceAuditTrail returns the invoice's entries oldest first.
func (r *auditRepository) GetInvoiceAuditTrail(ctx context.Context, invoiceID uuid.UUID) ([]models.AuditTrailEntry, error) {
	var entries []models.AuditTrailEntry
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}
	return entries, nil
}
