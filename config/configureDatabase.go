package config

import (
	"fmt"
	"log"
	"time"

	"invoiceflow-backend/db/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// allModels defines all models that should be migrated
// This is the only place you need to add new models
var allModels = []interface{}{
	// Users and invoices
	&models.User{},
	&models.Invoice{},

	// Documents and rate cards
	&models.DocumentUpload{},
	&models.RateCard{},

	// Audit trail and notifications
	&models.AuditTrailEntry{},
	&models.Notification{},
}

func ConfigureDatabase(cfg *AppConfig) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBTimezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[DB-CONNECT] Failed to connect to database: %v", err)
	}

	// Auto-migrate all models using the allModels slice
	err = db.AutoMigrate(allModels...)
	if err != nil {
		log.Fatalf("failed to migrate tables: %v", err)
	}
	Logger.Info("Tables migrated successfully", zap.Int("models", len(allModels)))

	// Rate card lookups always filter on vendor + status
	if err := db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_rate_cards_lookup ON rate_cards (vendor_id, status, project_id, created_at DESC)",
	).Error; err != nil {
		Logger.Warn("Failed to create rate card lookup index", zap.Error(err))
	}

	// Connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[DB-POOL] Failed to get underlying DB connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	Logger.Info("[DB-STATUS] Database setup complete")
	return db
}
