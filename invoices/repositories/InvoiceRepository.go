package repositories

import (
	"context"
	"errors"
	"fmt"

	"invoiceflow-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrStatusChanged means another request moved the invoice first.
	ErrStatusChanged = errors.New("invoice status changed concurrently")
)

// StatusUpdate is a single workflow step applied to an invoice.
type StatusUpdate struct {
	InvoiceID uuid.UUID
	From      models.InvoiceStatus
	To        models.InvoiceStatus
	Comment   *string
}

type InvoiceRepository interface {
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	GetInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]models.Invoice, error)
	UpdateStatusWithAudit(ctx context.Context, update StatusUpdate, entry *models.AuditTrailEntry) (*models.Invoice, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).Preload("AssignedPM").First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to load invoice %s: %w", id, err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("AssignedPM").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s invoices: %w", status, err)
	}
	return invoices, nil
}

// UpdateStatusWithAudit moves the invoice from update.From to update.To and
// appends the audit entry. The update only applies while the invoice is still
// in update.From.
func (r *invoiceRepository) UpdateStatusWithAudit(ctx context.Context, update StatusUpdate, entry *models.AuditTrailEntry) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changes := map[string]interface{}{"status": update.To}
		if update.Comment != nil {
			changes["last_comment"] = *update.Comment
		}

		result := tx.Model(&models.Invoice{}).
			Where("id = ? AND status = ?", update.InvoiceID, update.From).
			Updates(changes)
		if result.Error != nil {
			return fmt.Errorf("failed to update invoice status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrStatusChanged
		}

		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create audit entry: %w", err)
		}

		return tx.Preload("AssignedPM").First(&invoice, "id = ?", update.InvoiceID).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
