package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"invoiceflow-backend/db/models"
	invoice_repositories "invoiceflow-backend/invoices/repositories"
	"invoiceflow-backend/middleware"
	"invoiceflow-backend/notifications/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type stubNotifications struct {
	relatedEntityID *string
	limit           int
}

func (s *stubNotifications) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return nil
}

func (s *stubNotifications) GetNotifications(ctx context.Context, relatedEntityID *string, limit int) ([]models.Notification, error) {
	s.relatedEntityID = relatedEntityID
	s.limit = limit
	return []models.Notification{}, nil
}

type stubInvoices map[uuid.UUID]*models.Invoice

func (s stubInvoices) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	if inv, ok := s[id]; ok {
		return inv, nil
	}
	return nil, invoice_repositories.ErrInvoiceNotFound
}

func newNotificationApp(user *models.User, invoices stubInvoices) (*fiber.App, *stubNotifications) {
	repo := &stubNotifications{}
	controller := &NotificationController{
		Notifications: services.NewNotificationService(repo, nil),
		Invoices:      invoices,
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserLocalsKey, user)
		return c.Next()
	})
	app.Get("/notifications", controller.GetNotifications)
	return app, repo
}

func TestGetNotificationsAccess(t *testing.T) {
	invoice := &models.Invoice{ID: uuid.New(), Project: "PRJ-1", VendorName: "Acme"}
	invoices := stubInvoices{invoice.ID: invoice}

	admin := &models.User{ID: uuid.New(), Role: models.AdminRole}
	assignedPM := &models.User{ID: uuid.New(), Role: models.ProjectManagerRole, AssignedProjects: datatypes.JSONSlice[string]{"PRJ-1"}}
	otherPM := &models.User{ID: uuid.New(), Role: models.ProjectManagerRole, AssignedProjects: datatypes.JSONSlice[string]{"PRJ-9"}}
	vendor := &models.User{ID: uuid.New(), Name: "acme", Role: models.VendorRole}

	tests := []struct {
		name  string
		user  *models.User
		query string
		want  int
	}{
		{"admin lists all", admin, "", http.StatusOK},
		{"pm cannot list all", assignedPM, "", http.StatusForbidden},
		{"assigned pm", assignedPM, "?relatedEntityId=" + invoice.ID.String(), http.StatusOK},
		{"other pm", otherPM, "?relatedEntityId=" + invoice.ID.String(), http.StatusForbidden},
		{"vendor by name", vendor, "?relatedEntityId=" + invoice.ID.String(), http.StatusOK},
		{"unknown invoice", assignedPM, "?relatedEntityId=" + uuid.NewString(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newNotificationApp(tt.user, invoices)
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notifications"+tt.query, nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestGetNotificationsClampsLimit(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Role: models.AdminRole}

	for query, want := range map[string]int{"": 50, "?limit=500": 100, "?limit=5": 5, "?limit=-1": 50} {
		app, repo := newNotificationApp(admin, stubInvoices{})
		if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/notifications"+query, nil)); err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if repo.limit != want {
			t.Errorf("%q: limit = %d, want %d", query, repo.limit, want)
		}
	}
}
