package services

import (
	"context"
	"fmt"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"
	"invoiceflow-backend/notifications/repositories"

	"go.uber.org/zap"
)

type SendRequest struct {
	RecipientEmail  string                  `json:"recipient_email"`
	Subject         string                  `json:"subject"`
	Message         string                  `json:"message"`
	RelatedEntityID *string                 `json:"related_entity_id,omitempty"`
	Type            models.NotificationType `json:"notification_type"`
}

type NotificationService struct {
	Repo   repositories.NotificationRepository
	Mailer Mailer
}

func NewNotificationService(repo repositories.NotificationRepository, mailer Mailer) *NotificationService {
	return &NotificationService{Repo: repo, Mailer: mailer}
}

// Send delivers the email and records the attempt, SENT or FAILED. The
// delivery error is returned so queued sends can be retried.
func (s *NotificationService) Send(ctx context.Context, req SendRequest) (*models.Notification, error) {
	if req.RecipientEmail == "" {
		return nil, fmt.Errorf("recipient email is required")
	}

	notification := &models.Notification{
		RecipientEmail:   req.RecipientEmail,
		Subject:          req.Subject,
		Message:          req.Message,
		Status:           models.SentNotification,
		RelatedEntityID:  req.RelatedEntityID,
		NotificationType: req.Type,
	}

	sendErr := s.Mailer.Send(ctx, req.RecipientEmail, req.Subject, req.Message)
	if sendErr != nil {
		msg := sendErr.Error()
		notification.Status = models.FailedNotification
		notification.Error = &msg
		config.Logger.Warn("Notification delivery failed",
			zap.String("recipient", req.RecipientEmail),
			zap.String("type", string(req.Type)),
			zap.Error(sendErr))
	}

	if err := s.Repo.CreateNotification(ctx, notification); err != nil {
		config.Logger.Error("Failed to log notification",
			zap.String("recipient", req.RecipientEmail),
			zap.Error(err))
		if sendErr == nil {
			return notification, nil
		}
	}

	if sendErr != nil {
		return notification, sendErr
	}
	return notification, nil
}

func (s *NotificationService) List(ctx context.Context, relatedEntityID *string, limit int) ([]models.Notification, error) {
	return s.Repo.GetNotifications(ctx, relatedEntityID, limit)
}
