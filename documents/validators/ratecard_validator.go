package validators

import (
	"fmt"
	"strings"

	"invoiceflow-backend/db/models"
	"invoiceflow-backend/documents/extractors"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Plausibility thresholds apply to the raw rate whatever its currency.
const (
	HighHourlyRateThreshold = 50000
	LowDailyRateThreshold   = 100
)

const noRateEntriesError = "No valid rate entries found"

var (
	highHourlyRate = decimal.NewFromInt(HighHourlyRateThreshold)
	lowDailyRate   = decimal.NewFromInt(LowDailyRateThreshold)
)

type RateCardSummary struct {
	TotalRates int               `json:"totalRates"`
	Units      []models.RateUnit `json:"units"`
	Currencies []string          `json:"currencies"`
}

type RateCardValidationData struct {
	Rates   []models.RateEntry `json:"rates"`
	Summary RateCardSummary    `json:"summary"`
}

type RateCardValidator struct {
	extract func([]byte) *extractors.RateCardExtraction
}

func NewRateCardValidator() *RateCardValidator {
	return &RateCardValidator{extract: extractors.ExtractRateCard}
}

func (v *RateCardValidator) Validate(content []byte) *ValidationResult {
	extraction := v.extract(content)
	if !extraction.Success {
		return failedExtraction(extraction.Error)
	}

	errs := append([]string{}, extraction.Validation.Errors...)
	warnings := []string{}
	rates := extraction.Data.Rates

	for _, rate := range rates {
		if rate.Unit == models.HourRateUnit && rate.Rate.GreaterThan(highHourlyRate) {
			warnings = append(warnings, fmt.Sprintf("Rate for \"%s\" seems unusually high (%s/hour)", rate.Description, rate.Rate))
		}
		if rate.Unit == models.DayRateUnit && rate.Rate.LessThan(lowDailyRate) {
			warnings = append(warnings, fmt.Sprintf("Rate for \"%s\" seems unusually low (%s/day)", rate.Description, rate.Rate))
		}
	}

	fold := cases.Fold()
	seen := make(map[string]bool, len(rates))
	for _, rate := range rates {
		key := fold.String(strings.TrimSpace(rate.Description))
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("Duplicate rate entry: \"%s\"", rate.Description))
		}
		seen[key] = true
	}

	if len(rates) == 0 && len(errs) == 0 {
		errs = append(errs, noRateEntriesError)
	}

	summary := RateCardSummary{TotalRates: len(rates), Units: []models.RateUnit{}, Currencies: []string{}}
	seenUnits := make(map[models.RateUnit]bool)
	seenCurrencies := make(map[string]bool)
	for _, rate := range rates {
		if !seenUnits[rate.Unit] {
			seenUnits[rate.Unit] = true
			summary.Units = append(summary.Units, rate.Unit)
		}
		if !seenCurrencies[rate.Currency] {
			seenCurrencies[rate.Currency] = true
			summary.Currencies = append(summary.Currencies, rate.Currency)
		}
	}

	return &ValidationResult{
		IsValid:  len(errs) == 0 && len(rates) > 0,
		Errors:   errs,
		Warnings: warnings,
		Data:     &RateCardValidationData{Rates: rates, Summary: summary},
	}
}
