package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationStatus string

const (
	SentNotification   NotificationStatus = "SENT"
	FailedNotification NotificationStatus = "FAILED"
)

type NotificationType string

const (
	ReceivedNotification        NotificationType = "RECEIVED"
	RejectedNotification        NotificationType = "REJECTED"
	ApprovedNotification        NotificationType = "APPROVED"
	PaidNotification            NotificationType = "PAID"
	PendingApprovalNotification NotificationType = "PENDING_APPROVAL"
	ReminderNotification        NotificationType = "REMINDER"
	DocumentNotification        NotificationType = "DOCUMENT"
)

// Notification logs every email or reminder the system sends
type Notification struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key;" json:"id"`
	RecipientEmail   string             `gorm:"not null" json:"recipient_email"`
	Subject          string             `gorm:"not null" json:"subject"`
	Message          string             `gorm:"type:text" json:"message"`
	Status           NotificationStatus `gorm:"type:varchar(10);default:'SENT'" json:"status"`
	Error            *string            `gorm:"type:text" json:"error,omitempty"`
	SentAt           time.Time          `gorm:"index:,sort:desc" json:"sent_at"`
	RelatedEntityID  *string            `gorm:"index" json:"related_entity_id"`
	NotificationType NotificationType   `gorm:"type:varchar(30)" json:"notification_type"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	return nil
}
