package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RateUnit string

const (
	HourRateUnit  RateUnit = "HOUR"
	DayRateUnit   RateUnit = "DAY"
	OtherRateUnit RateUnit = "OTHER"
)

type RateCardStatus string

const (
	ActiveRateCard   RateCardStatus = "ACTIVE"
	InactiveRateCard RateCardStatus = "INACTIVE"
)

// RateEntry is a single line of a rate card
type RateEntry struct {
	Description string          `json:"description"`
	Unit        RateUnit        `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	Currency    string          `json:"currency"`
}

// RateCard is a vendor (and optionally project) scoped table of unit rates.
// ProjectID nil marks a general card used as a fallback.
type RateCard struct {
	ID            uuid.UUID                      `gorm:"type:uuid;primary_key;" json:"id"`
	Name          string                         `gorm:"type:varchar(200);not null" json:"name"`
	VendorID      string                         `gorm:"not null;index" json:"vendor_id"`
	ProjectID     *string                        `gorm:"index" json:"project_id"`
	Rates         datatypes.JSONSlice[RateEntry] `json:"rates"`
	Status        RateCardStatus                 `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	EffectiveFrom time.Time                      `gorm:"not null;index" json:"effective_from"`
	EffectiveTo   *time.Time                     `gorm:"index" json:"effective_to"` // NULL means open-ended
	SourceDocID   *uuid.UUID                     `gorm:"type:uuid" json:"source_document_id"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (rc *RateCard) BeforeCreate(tx *gorm.DB) error {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return nil
}

// CoversDate reports whether the effective window includes t.
func (rc *RateCard) CoversDate(t time.Time) bool {
	if rc.EffectiveFrom.After(t) {
		return false
	}
	return rc.EffectiveTo == nil || !rc.EffectiveTo.Before(t)
}

// IsApplicableAt reports whether the card is active and in its window at t.
func (rc *RateCard) IsApplicableAt(t time.Time) bool {
	return rc.Status == ActiveRateCard && rc.CoversDate(t)
}

// FirstHourlyRate returns the first HOUR entry in stored order.
func (rc *RateCard) FirstHourlyRate() (RateEntry, bool) {
	for _, r := range rc.Rates {
		if r.Unit == HourRateUnit {
			return r, true
		}
	}
	return RateEntry{}, false
}
