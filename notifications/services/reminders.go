package services

import (
	"context"
	"fmt"
	"time"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type InvoiceLister interface {
	GetInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]models.Invoice, error)
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, req SendRequest) error
}

type ReminderResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type ReminderService struct {
	Invoices        InvoiceLister
	Dispatcher      NotificationDispatcher
	BaseFrontendURL string
}

func NewReminderService(invoices InvoiceLister, dispatcher NotificationDispatcher, baseFrontendURL string) *ReminderService {
	return &ReminderService{Invoices: invoices, Dispatcher: dispatcher, BaseFrontendURL: baseFrontendURL}
}

// SendPendingApprovalReminders queues one reminder per invoice awaiting
// approval, addressed to its assigned project manager.
func (r *ReminderService) SendPendingApprovalReminders(ctx context.Context) (*ReminderResult, error) {
	invoices, err := r.Invoices.GetInvoicesByStatus(ctx, models.PendingApprovalInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending invoices: %w", err)
	}

	result := &ReminderResult{}
	for _, invoice := range invoices {
		if invoice.AssignedPM == nil || invoice.AssignedPM.Email == "" {
			result.Skipped++
			continue
		}

		invoiceID := invoice.ID.String()
		req := SendRequest{
			RecipientEmail:  invoice.AssignedPM.Email,
			Subject:         fmt.Sprintf("Reminder: invoice %s awaiting your approval", invoiceLabel(invoice)),
			Message:         r.reminderMessage(invoice),
			RelatedEntityID: &invoiceID,
			Type:            models.ReminderNotification,
		}

		if err := r.Dispatcher.Dispatch(ctx, req); err != nil {
			result.Failed++
			config.Logger.Warn("Failed to queue approval reminder",
				zap.String("invoice_id", invoiceID),
				zap.Error(err))
			continue
		}
		result.Sent++
	}

	config.Logger.Info("Approval reminders processed",
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (r *ReminderService) reminderMessage(invoice models.Invoice) string {
	return fmt.Sprintf(
		"Invoice %s from %s for project %s (%s %s) is waiting for your approval.\n\nReview it at %s/invoices/%s",
		invoiceLabel(invoice), invoice.VendorName, invoice.Project,
		invoice.Currency, invoice.Amount.StringFixed(2),
		r.BaseFrontendURL, invoice.ID,
	)
}

func invoiceLabel(invoice models.Invoice) string {
	if invoice.InvoiceNumber != "" {
		return invoice.InvoiceNumber
	}
	return invoice.OriginalName
}

// StartReminderScheduler runs SendPendingApprovalReminders on the cron
// schedule until the returned scheduler is stopped.
func StartReminderScheduler(schedule string, reminders *ReminderService) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := reminders.SendPendingApprovalReminders(ctx); err != nil {
			config.Logger.Error("Scheduled approval reminders failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	c.Start()
	config.Logger.Info("Approval reminder scheduler started", zap.String("schedule", schedule))
	return c, nil
}
