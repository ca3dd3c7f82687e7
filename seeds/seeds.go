package seeds

import (
	"errors"
	"fmt"
	"time"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	demoVendorID   = "V-ACME"
	demoVendorName = "Acme Consulting"
	demoProject    = "PRJ-ALPHA"
)

// SeedUsers creates one account per role. Existing accounts (matched on
// email) are updated in place.
func SeedUsers(db *gorm.DB) error {
	config.Logger.Info("Starting users seeding...")

	users := []models.User{
		{
			Name:   "System Administrator",
			Email:  "admin@invoiceflow.local",
			Role:   models.AdminRole,
			Active: true,
		},
		{
			Name:             "Priya Raman",
			Email:            "pm@invoiceflow.local",
			Role:             models.ProjectManagerRole,
			AssignedProjects: datatypes.JSONSlice[string]{demoProject},
			Active:           true,
		},
		{
			Name:       "Farid Khan",
			Email:      "finance@invoiceflow.local",
			Role:       models.FinanceUserRole,
			Department: stringPtr("Accounts Payable"),
			Active:     true,
		},
		{
			Name:     demoVendorName,
			Email:    "billing@acme.example.com",
			Role:     models.VendorRole,
			VendorID: stringPtr(demoVendorID),
			Active:   true,
		},
	}

	createdCount := 0
	updatedCount := 0

	for _, user := range users {
		var existingUser models.User
		result := db.Where("email = ?", user.Email).First(&existingUser)

		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				config.Logger.Error("Error checking for existing user",
					zap.String("email", user.Email),
					zap.Error(result.Error))
				return fmt.Errorf("error checking for user %s: %w", user.Email, result.Error)
			}
			if err := db.Create(&user).Error; err != nil {
				config.Logger.Error("Failed to create user",
					zap.String("email", user.Email),
					zap.Error(err))
				return fmt.Errorf("failed to create user %s: %w", user.Email, err)
			}
			createdCount++
			config.Logger.Info("Created user", zap.String("email", user.Email), zap.String("role", string(user.Role)))
			continue
		}

		user.ID = existingUser.ID
		if err := db.Model(&existingUser).Updates(user).Error; err != nil {
			config.Logger.Error("Failed to update user",
				zap.String("email", user.Email),
				zap.Error(err))
			return fmt.Errorf("failed to update user %s: %w", user.Email, err)
		}
		updatedCount++
		config.Logger.Info("Updated user", zap.String("email", user.Email))
	}

	config.Logger.Info("Users seeding completed",
		zap.Int("created", createdCount),
		zap.Int("updated", updatedCount))

	return nil
}

// SeedRateCards adds a general and a project card for the demo vendor unless
// the vendor already has cards.
func SeedRateCards(db *gorm.DB) error {
	config.Logger.Info("Starting rate cards seeding...")

	var count int64
	if err := db.Model(&models.RateCard{}).Where("vendor_id = ?", demoVendorID).Count(&count).Error; err != nil {
		return fmt.Errorf("error checking for rate cards: %w", err)
	}
	if count > 0 {
		config.Logger.Info("Rate cards already present, skipping", zap.Int64("count", count))
		return nil
	}

	effectiveFrom := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	cards := []models.RateCard{
		{
			Name:     "Acme general rates",
			VendorID: demoVendorID,
			Rates: datatypes.JSONSlice[models.RateEntry]{
				{Description: "Developer", Unit: models.HourRateUnit, Rate: decimal.NewFromInt(400), Currency: "INR"},
				{Description: "Consultant", Unit: models.DayRateUnit, Rate: decimal.NewFromInt(3200), Currency: "INR"},
			},
			Status:        models.ActiveRateCard,
			EffectiveFrom: effectiveFrom,
			CreatedBy:     models.SystemUserName,
		},
		{
			Name:      "Acme " + demoProject + " rates",
			VendorID:  demoVendorID,
			ProjectID: stringPtr(demoProject),
			Rates: datatypes.JSONSlice[models.RateEntry]{
				{Description: "Senior Developer", Unit: models.HourRateUnit, Rate: decimal.NewFromInt(500), Currency: "INR"},
			},
			Status:        models.ActiveRateCard,
			EffectiveFrom: effectiveFrom,
			CreatedBy:     models.SystemUserName,
		},
	}

	for _, card := range cards {
		if err := db.Create(&card).Error; err != nil {
			config.Logger.Error("Failed to create rate card", zap.String("name", card.Name), zap.Error(err))
			return fmt.Errorf("failed to create rate card %s: %w", card.Name, err)
		}
		config.Logger.Info("Created rate card", zap.String("name", card.Name))
	}
	return nil
}

// SeedInvoices adds a few demo invoices spread over the workflow.
func SeedInvoices(db *gorm.DB) error {
	config.Logger.Info("Starting invoices seeding...")

	var pm, vendor models.User
	if err := db.Where("email = ?", "pm@invoiceflow.local").First(&pm).Error; err != nil {
		return fmt.Errorf("project manager not seeded: %w", err)
	}
	if err := db.Where("email = ?", "billing@acme.example.com").First(&vendor).Error; err != nil {
		return fmt.Errorf("vendor not seeded: %w", err)
	}

	invoices := []models.Invoice{
		{InvoiceNumber: "ACME-0001", Amount: decimal.NewFromInt(88000), Status: models.ReceivedInvoice},
		{InvoiceNumber: "ACME-0002", Amount: decimal.NewFromInt(64000), Status: models.VerifiedInvoice},
		{InvoiceNumber: "ACME-0003", Amount: decimal.NewFromInt(11000), Status: models.PendingApprovalInvoice},
	}

	createdCount := 0
	for _, invoice := range invoices {
		var existing models.Invoice
		err := db.Where("invoice_number = ?", invoice.InvoiceNumber).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("error checking for invoice %s: %w", invoice.InvoiceNumber, err)
		}

		invoice.VendorName = demoVendorName
		invoice.VendorID = stringPtr(demoVendorID)
		invoice.Project = demoProject
		invoice.Currency = "INR"
		invoice.AssignedPMID = &pm.ID
		invoice.SubmittedByUserID = &vendor.ID
		invoice.OriginalName = invoice.InvoiceNumber + ".pdf"

		if err := db.Create(&invoice).Error; err != nil {
			config.Logger.Error("Failed to create invoice", zap.String("invoice_number", invoice.InvoiceNumber), zap.Error(err))
			return fmt.Errorf("failed to create invoice %s: %w", invoice.InvoiceNumber, err)
		}
		createdCount++
	}

	config.Logger.Info("Invoices seeding completed", zap.Int("created", createdCount))
	return nil
}

// SeedAll runs all seeding functions in dependency order.
func SeedAll(db *gorm.DB) error {
	config.Logger.Info("Starting database seeding...")

	if err := SeedUsers(db); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := SeedRateCards(db); err != nil {
		return fmt.Errorf("failed to seed rate cards: %w", err)
	}

	if err := SeedInvoices(db); err != nil {
		return fmt.Errorf("failed to seed invoices: %w", err)
	}

	config.Logger.Info("All database seeding completed successfully")
	return nil
}

func stringPtr(s string) *string {
	return &s
}
