package repositories

import (
	"context"
	"errors"
	"fmt"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"
	documents_requests "invoiceflow-backend/documents/requests"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentFilter narrows a listing. UploadedBy restricts to one uploader.
type DocumentFilter struct {
	documents_requests.ListDocumentsRequest
	UploadedBy *uuid.UUID
}

type DocumentRepository interface {
	CreateDocumentWithAudit(ctx context.Context, document *models.DocumentUpload, entry *models.AuditTrailEntry) (*models.DocumentUpload, error)
	DeleteDocumentWithAudit(ctx context.Context, document *models.DocumentUpload, entry *models.AuditTrailEntry) error
	GetDocumentByID(ctx context.Context, id uuid.UUID) (*models.DocumentUpload, error)
	GetDocumentsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.DocumentUpload, error)
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]models.DocumentUpload, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// CreateDocumentWithAudit stores the upload row and its audit entry in one
// transaction.
func (r *documentRepository) CreateDocumentWithAudit(ctx context.Context, document *models.DocumentUpload, entry *models.AuditTrailEntry) (created *models.DocumentUpload, err error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			config.Logger.Error("Panic while creating document", zap.Any("panic", rec))
			err = fmt.Errorf("panic while creating document: %v", rec)
		}
	}()

	if err := tx.Create(document).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create audit entry: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit document: %w", err)
	}

	return document, nil
}

func (r *documentRepository) DeleteDocumentWithAudit(ctx context.Context, document *models.DocumentUpload, entry *models.AuditTrailEntry) (err error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			config.Logger.Error("Panic while deleting document", zap.Any("panic", rec))
			err = fmt.Errorf("panic while deleting document: %v", rec)
		}
	}()

	result := tx.Delete(&models.DocumentUpload{}, "id = ?", document.ID)
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return ErrDocumentNotFound
	}

	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return tx.Commit().Error
}

func (r *documentRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*models.DocumentUpload, error) {
	var document models.DocumentUpload
	err := r.db.WithContext(ctx).First(&document, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return &document, nil
}

func (r *documentRepository) GetDocumentsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.DocumentUpload, error) {
	var documents []models.DocumentUpload
	if len(ids) == 0 {
		return documents, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	return documents, nil
}

// ListDocuments returns matching uploads newest first.
func (r *documentRepository) ListDocuments(ctx context.Context, filter DocumentFilter) ([]models.DocumentUpload, error) {
	query := r.db.WithContext(ctx).Model(&models.DocumentUpload{})

	if filter.UploadedBy != nil {
		query = query.Where("uploaded_by = ?", *filter.UploadedBy)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var documents []models.DocumentUpload
	if err := query.Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}
