package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoiceflow-backend/db/models"
	"invoiceflow-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var checkTime = time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)

type stubSource struct {
	cards []models.RateCard
	err   error
	calls int
}

func (s *stubSource) FindActiveRateCards(_ context.Context, _ string, _ *string, _ time.Time) ([]models.RateCard, error) {
	s.calls++
	return s.cards, s.err
}

func strPtr(s string) *string { return &s }

func rateCard(name, vendor string, project *string, created time.Time, rates ...models.RateEntry) models.RateCard {
	return models.RateCard{
		ID:            uuid.New(),
		Name:          name,
		VendorID:      vendor,
		ProjectID:     project,
		Rates:         rates,
		Status:        models.ActiveRateCard,
		EffectiveFrom: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:     created,
	}
}

func hourly(rate int64) models.RateEntry {
	return models.RateEntry{Description: "Developer", Unit: models.HourRateUnit, Rate: decimal.NewFromInt(rate), Currency: "INR"}
}

func daily(rate int64) models.RateEntry {
	return models.RateEntry{Description: "Developer", Unit: models.DayRateUnit, Rate: decimal.NewFromInt(rate), Currency: "INR"}
}

func TestCrossCheckEstimatesFromProjectCard(t *testing.T) {
	source := &stubSource{cards: []models.RateCard{
		rateCard("general", "v-001", nil, checkTime.Add(-time.Hour), hourly(300)),
		rateCard("projA", "v-001", strPtr("ProjA"), checkTime.Add(-48*time.Hour), hourly(500)),
	}}
	checker := NewCrossChecker(source, utils.FixedClock{At: checkTime})

	got, err := checker.CrossCheck(context.Background(), "v-001", strPtr("ProjA"), decimal.NewFromInt(22))
	if err != nil {
		t.Fatalf("CrossCheck: %v", err)
	}
	if !got.EstimatedAmount.Equal(decimal.NewFromInt(11000)) {
		t.Errorf("EstimatedAmount = %s, want 11000", got.EstimatedAmount)
	}
	if got.RateCardName != "projA" {
		t.Errorf("RateCardName = %q, want projA", got.RateCardName)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", got.Warnings)
	}
}

func TestCrossCheckFallsBackToGeneralCard(t *testing.T) {
	source := &stubSource{cards: []models.RateCard{
		rateCard("other project", "v-001", strPtr("ProjB"), checkTime.Add(-time.Hour), hourly(900)),
		rateCard("general", "v-001", nil, checkTime.Add(-2*time.Hour), hourly(400)),
	}}
	checker := NewCrossChecker(source, utils.FixedClock{At: checkTime})

	got, err := checker.CrossCheck(context.Background(), "v-001", strPtr("ProjA"), decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("CrossCheck: %v", err)
	}
	if got.RateCardName != "general" || !got.EstimatedAmount.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("got %s / %s, want general / 4000", got.RateCardName, got.EstimatedAmount)
	}
}

func TestCrossCheckWithoutProjectUsesGeneralCardsOnly(t *testing.T) {
	source := &stubSource{cards: []models.RateCard{
		rateCard("projA", "v-001", strPtr("ProjA"), checkTime.Add(-time.Hour), hourly(500)),
	}}
	checker := NewCrossChecker(source, utils.FixedClock{At: checkTime})

	got, err := checker.CrossCheck(context.Background(), "v-001", nil, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("CrossCheck: %v", err)
	}
	if len(got.Warnings) != 1 || got.Warnings[0] != NoActiveRateCardWarning {
		t.Errorf("warnings = %v", got.Warnings)
	}
	if !got.EstimatedAmount.IsZero() || got.RateCardID != nil {
		t.Errorf("expected no match, got %+v", got)
	}
}

func TestCrossCheckNoCard(t *testing.T) {
	checker := NewCrossChecker(&stubSource{}, utils.FixedClock{At: checkTime})

	got, err := checker.CrossCheck(context.Background(), "v-404", strPtr("ProjA"), decimal.NewFromInt(8))
	if err != nil {
		t.Fatalf("CrossCheck: %v", err)
	}
	if len(got.Warnings) != 1 || got.Warnings[0] != NoActiveRateCardWarning {
		t.Errorf("warnings = %v", got.Warnings)
	}
	if !got.EstimatedAmount.IsZero() {
		t.Errorf("EstimatedAmount = %s, want 0", got.EstimatedAmount)
	}
}

// A matched card with no HOUR entry is silent: no estimate and no warning.
// Kept deliberately until product decides whether it should warn.
func TestCrossCheckCardWithoutHourlyRateIsSilent(t *testing.T) {
	source := &stubSource{cards: []models.RateCard{
		rateCard("daily only", "v-001", nil, checkTime.Add(-time.Hour), daily(4000)),
	}}
	checker := NewCrossChecker(source, utils.FixedClock{At: checkTime})

	got, err := checker.CrossCheck(context.Background(), "v-001", nil, decimal.NewFromInt(16))
	if err != nil {
		t.Fatalf("CrossCheck: %v", err)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", got.Warnings)
	}
	if !got.EstimatedAmount.IsZero() || got.HourlyRate != nil {
		t.Errorf("expected no estimate, got %+v", got)
	}
	if got.RateCardName != "daily only" {
		t.Errorf("RateCardName = %q", got.RateCardName)
	}
}

func TestCrossCheckUsesFirstHourlyEntry(t *testing.T) {
	source := &stubSource{cards: []models.RateCard{
		rateCard("mixed", "v-001", nil, checkTime.Add(-time.Hour), daily(4000), hourly(700), hourly(900)),
	}}
	checker := NewCrossChecker(source, utils.FixedClock{At: checkTime})

	got, err := checker.CrossCheck(context.Background(), "v-001", nil, decimal.RequireFromString("2.5"))
	if err != nil {
		t.Fatalf("CrossCheck: %v", err)
	}
	if !got.EstimatedAmount.Equal(decimal.NewFromInt(1750)) {
		t.Errorf("EstimatedAmount = %s, want 1750", got.EstimatedAmount)
	}
}

func TestCrossCheckLookupError(t *testing.T) {
	lookupErr := errors.New("connection refused")
	checker := NewCrossChecker(&stubSource{err: lookupErr}, utils.FixedClock{At: checkTime})

	_, err := checker.CrossCheck(context.Background(), "v-001", nil, decimal.NewFromInt(8))
	if !errors.Is(err, lookupErr) {
		t.Fatalf("err = %v, want wrapped lookup error", err)
	}
}

func TestSelectApplicable(t *testing.T) {
	older := rateCard("older", "v-001", strPtr("ProjA"), checkTime.Add(-72*time.Hour), hourly(100))
	newer := rateCard("newer", "v-001", strPtr("ProjA"), checkTime.Add(-24*time.Hour), hourly(200))
	general := rateCard("general", "v-001", nil, checkTime.Add(-time.Hour), hourly(300))

	expired := rateCard("expired", "v-001", strPtr("ProjA"), checkTime, hourly(999))
	ended := checkTime.Add(-time.Minute)
	expired.EffectiveTo = &ended

	future := rateCard("future", "v-001", strPtr("ProjA"), checkTime, hourly(999))
	future.EffectiveFrom = checkTime.Add(time.Hour)

	inactive := rateCard("inactive", "v-001", strPtr("ProjA"), checkTime, hourly(999))
	inactive.Status = models.InactiveRateCard

	otherVendor := rateCard("other vendor", "v-002", strPtr("ProjA"), checkTime, hourly(999))

	endsNow := rateCard("ends now", "v-001", nil, checkTime.Add(-30*time.Minute), hourly(350))
	endsNow.EffectiveTo = &checkTime

	tie1 := rateCard("tie first", "v-001", strPtr("ProjT"), checkTime.Add(-time.Hour), hourly(1))
	tie2 := rateCard("tie second", "v-001", strPtr("ProjT"), checkTime.Add(-time.Hour), hourly(2))

	tests := []struct {
		name    string
		cards   []models.RateCard
		project *string
		want    string
	}{
		{"project card beats newer general", []models.RateCard{general, older}, strPtr("ProjA"), "older"},
		{"most recent project card", []models.RateCard{older, newer, general}, strPtr("ProjA"), "newer"},
		{"order does not matter", []models.RateCard{newer, older}, strPtr("ProjA"), "newer"},
		{"out of window and inactive ignored", []models.RateCard{expired, future, inactive, otherVendor, older}, strPtr("ProjA"), "older"},
		{"effective to is inclusive", []models.RateCard{endsNow}, nil, "ends now"},
		{"general when no project given", []models.RateCard{newer, general}, nil, "general"},
		{"tie keeps first candidate", []models.RateCard{tie1, tie2}, strPtr("ProjT"), "tie first"},
		{"nothing applicable", []models.RateCard{expired, future, inactive}, strPtr("ProjA"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectApplicable(tt.cards, "v-001", tt.project, checkTime)
			name := ""
			if got != nil {
				name = got.Name
			}
			if name != tt.want {
				t.Errorf("selected %q, want %q", name, tt.want)
			}
		})
	}
}
