package controllers

import (
	"context"
	"errors"
	"strings"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"
	invoice_repositories "invoiceflow-backend/invoices/repositories"
	invoice_services "invoiceflow-backend/invoices/services"
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/notifications/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

type InvoiceFinder interface {
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
}

type NotificationController struct {
	Notifications *services.NotificationService
	Reminders     *services.ReminderService
	Invoices      InvoiceFinder
}

// GetNotifications lists logged notifications. Without relatedEntityId only
// admins may read; with it, the caller must be able to see that invoice.
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "Authentication required",
		})
	}

	limit := c.QueryInt("limit", defaultNotificationLimit)
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	var relatedEntityID *string
	if raw := strings.TrimSpace(c.Query("relatedEntityId")); raw != "" {
		relatedEntityID = &raw
	}

	if status, message := nc.checkAccess(c.Context(), user, relatedEntityID); status != fiber.StatusOK {
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}

	notifications, err := nc.Notifications.List(c.Context(), relatedEntityID, limit)
	if err != nil {
		config.Logger.Error("Failed to fetch notifications", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch notifications",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
	})
}

func (nc *NotificationController) checkAccess(ctx context.Context, user *models.User, relatedEntityID *string) (int, string) {
	if user.HasRole(models.AdminRole) {
		return fiber.StatusOK, ""
	}
	if relatedEntityID == nil {
		return fiber.StatusForbidden, "Only administrators can list all notifications"
	}

	invoiceID, err := uuid.Parse(*relatedEntityID)
	if err != nil {
		return fiber.StatusNotFound, "Invoice not found"
	}
	invoice, err := nc.Invoices.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, invoice_repositories.ErrInvoiceNotFound) {
			return fiber.StatusNotFound, "Invoice not found"
		}
		config.Logger.Error("Failed to load invoice for notification access", zap.Error(err))
		return fiber.StatusInternalServerError, "Failed to check invoice access"
	}
	if !invoice_services.CanUserSeeInvoice(user, invoice) {
		return fiber.StatusForbidden, "Not authorized to view notifications for this invoice"
	}
	return fiber.StatusOK, ""
}

// SendReminders queues approval reminders; called by admins or the cron job.
func (nc *NotificationController) SendReminders(c *fiber.Ctx) error {
	result, err := nc.Reminders.SendPendingApprovalReminders(c.Context())
	if err != nil {
		config.Logger.Error("Failed to send approval reminders", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to send reminders",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Reminders queued",
		"data":    result,
	})
}
