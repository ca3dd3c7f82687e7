package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoiceflow-backend/db/models"
	"invoiceflow-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const testSymmetricKey = "abcdefghijklmnopqrstuvwxyz012345"

type stubUsers map[uuid.UUID]*models.User

func (s stubUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func newAuthApp(t *testing.T, users stubUsers, guards ...fiber.Handler) (*fiber.App, token.Maker) {
	t.Helper()
	maker, err := token.NewPasetoMaker(testSymmetricKey)
	if err != nil {
		t.Fatalf("NewPasetoMaker() error = %v", err)
	}

	appCtx := &AppContext{PasetoMaker: maker, Ctx: context.Background(), Users: users, CronSecret: "s3cret"}
	app := fiber.New()

	handlers := append([]fiber.Handler{ProtectedRoute(appCtx)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		user, _ := CurrentUser(c)
		return c.SendString(string(user.Role))
	})
	app.Get("/protected", handlers...)

	app.Post("/cron", AdminOrCronSecret(appCtx), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})
	return app, maker
}

func issue(t *testing.T, maker token.Maker, user *models.User) string {
	t.Helper()
	tok, _, err := maker.CreateToken(user.ID, user.Email, string(user.Role), time.Minute)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}
	return tok
}

func TestProtectedRoute(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Email: "admin@example.com", Role: models.AdminRole, Active: true}
	app, maker := newAuthApp(t, stubUsers{admin.ID: admin})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer v2.local.nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + issue(t, maker, admin), http.StatusOK},
		{"unknown user", "Bearer " + issue(t, maker, &models.User{ID: uuid.New(), Email: "x@example.com", Role: models.AdminRole}), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestProtectedRouteReadsCookie(t *testing.T) {
	pm := &models.User{ID: uuid.New(), Email: "pm@example.com", Role: models.ProjectManagerRole}
	app, maker := newAuthApp(t, stubUsers{pm.ID: pm})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: issue(t, maker, pm)})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRoleAndPermissionGuards(t *testing.T) {
	vendor := &models.User{ID: uuid.New(), Email: "vendor@example.com", Role: models.VendorRole}
	finance := &models.User{ID: uuid.New(), Email: "finance@example.com", Role: models.FinanceUserRole}
	users := stubUsers{vendor.ID: vendor, finance.ID: finance}

	roleApp, roleMaker := newAuthApp(t, users, RequireRoles(models.AdminRole, models.FinanceUserRole))
	permApp, permMaker := newAuthApp(t, users, RequirePermission(models.ManageRateCardsPermission))

	tests := []struct {
		name  string
		app   *fiber.App
		maker token.Maker
		user  *models.User
		want  int
	}{
		{"finance passes role guard", roleApp, roleMaker, finance, http.StatusOK},
		{"vendor blocked by role guard", roleApp, roleMaker, vendor, http.StatusForbidden},
		{"finance lacks rate card permission", permApp, permMaker, finance, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+issue(t, tt.maker, tt.user))
			resp, err := tt.app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAdminOrCronSecret(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Email: "admin@example.com", Role: models.AdminRole}
	pm := &models.User{ID: uuid.New(), Email: "pm@example.com", Role: models.ProjectManagerRole}
	app, maker := newAuthApp(t, stubUsers{admin.ID: admin, pm.ID: pm})

	tests := []struct {
		name   string
		secret string
		user   *models.User
		want   int
	}{
		{"valid secret", "s3cret", nil, http.StatusAccepted},
		{"wrong secret", "nope", nil, http.StatusUnauthorized},
		{"admin session", "", admin, http.StatusAccepted},
		{"pm session", "", pm, http.StatusForbidden},
		{"anonymous", "", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cron", nil)
			if tt.secret != "" {
				req.Header.Set("X-Cron-Secret", tt.secret)
			}
			if tt.user != nil {
				req.Header.Set("Authorization", "Bearer "+issue(t, maker, tt.user))
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
