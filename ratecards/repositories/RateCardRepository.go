package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoiceflow-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRateCardNotFound = errors.New("rate card not found")

type RateCardRepository interface {
	FindActiveRateCards(ctx context.Context, vendorID string, projectID *string, now time.Time) ([]models.RateCard, error)
	CreateRateCardWithAudit(ctx context.Context, card *models.RateCard, entry *models.AuditTrailEntry) (*models.RateCard, error)
	GetRateCardByID(ctx context.Context, id uuid.UUID) (*models.RateCard, error)
	GetFilteredRateCards(ctx context.Context, pageSize, offset int, filters map[string]string) ([]models.RateCard, int64, error)
	DeactivateRateCardWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditTrailEntry) (*models.RateCard, error)
}

type rateCardRepository struct {
	db *gorm.DB
}

func NewRateCardRepository(db *gorm.DB) RateCardRepository {
	return &rateCardRepository{db: db}
}

// FindActiveRateCards returns the vendor's cards in force at now that are
// either general or scoped to projectID, newest first.
func (r *rateCardRepository) FindActiveRateCards(ctx context.Context, vendorID string, projectID *string, now time.Time) ([]models.RateCard, error) {
	query := r.db.WithContext(ctx).
		Where("vendor_id = ? AND status = ?", vendorID, models.ActiveRateCard).
		Where("effective_from <= ?", now).
		Where("(effective_to IS NULL OR effective_to >= ?)", now)

	if projectID != nil {
		query = query.Where("(project_id = ? OR project_id IS NULL)", *projectID)
	} else {
		query = query.Where("project_id IS NULL")
	}

	var cards []models.RateCard
	if err := query.Order("created_at DESC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to query rate cards: %w", err)
	}
	return cards, nil
}

func (r *rateCardRepository) CreateRateCardWithAudit(ctx context.Context, card *models.RateCard, entry *models.AuditTrailEntry) (*models.RateCard, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(card).Error; err != nil {
			return fmt.Errorf("failed to create rate card: %w", err)
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (r *rateCardRepository) GetRateCardByID(ctx context.Context, id uuid.UUID) (*models.RateCard, error) {
	var card models.RateCard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRateCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *rateCardRepository) GetFilteredRateCards(ctx context.Context, pageSize, offset int, filters map[string]string) ([]models.RateCard, int64, error) {
	var cards []models.RateCard
	var total int64

	db := r.db.WithContext(ctx).Model(&models.RateCard{})

	for key, value := range filters {
		if value == "" {
			continue
		}
		switch key {
		case "vendor_id":
			db = db.Where("vendor_id = ?", value)
		case "project_id":
			if strings.EqualFold(value, "none") {
				db = db.Where("project_id IS NULL")
			} else {
				db = db.Where("project_id = ?", value)
			}
		case "status":
			db = db.Where("status = ?", strings.ToUpper(value))
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Limit(pageSize).Offset(offset).Order("created_at desc").Find(&cards).Error; err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

func (r *rateCardRepository) DeactivateRateCardWithAudit(ctx context.Context, id uuid.UUID, entry *models.AuditTrailEntry) (*models.RateCard, error) {
	var card models.RateCard
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRateCardNotFound
			}
			return err
		}
		if err := tx.Model(&card).Update("status", models.InactiveRateCard).Error; err != nil {
			return fmt.Errorf("failed to deactivate rate card: %w", err)
		}
		card.Status = models.InactiveRateCard
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}
