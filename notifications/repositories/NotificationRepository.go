package repositories

import (
	"context"
	"fmt"

	"invoiceflow-backend/db/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotifications(ctx context.Context, relatedEntityID *string, limit int) ([]models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to log notification: %w", err)
	}
	return nil
}

// GetNotifications returns the newest notifications, optionally for one entity.
func (r *notificationRepository) GetNotifications(ctx context.Context, relatedEntityID *string, limit int) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{})
	if relatedEntityID != nil {
		query = query.Where("related_entity_id = ?", *relatedEntityID)
	}

	var notifications []models.Notification
	if err := query.Order("sent_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return notifications, nil
}
