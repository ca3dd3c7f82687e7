package validators

import (
	"context"
	"fmt"

	"invoiceflow-backend/config"
	"invoiceflow-backend/documents/extractors"
	ratecard_services "invoiceflow-backend/ratecards/services"
	"invoiceflow-backend/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StaleTimesheetMonths is how far back a timesheet may start before it is
// flagged for review.
const StaleTimesheetMonths = 3

type RateCrossChecker interface {
	CrossCheck(ctx context.Context, vendorID string, projectID *string, totalHours decimal.Decimal) (*ratecard_services.CrossCheckResult, error)
}

type TimesheetOptions struct {
	VendorID  string
	ProjectID *string
}

type TimesheetSummary struct {
	TotalHours   decimal.Decimal      `json:"totalHours"`
	TotalEntries int                  `json:"totalEntries"`
	Employees    int                  `json:"employees"`
	Projects     int                  `json:"projects"`
	DateRange    extractors.DateRange `json:"dateRange"`
}

// TimesheetValidationData is the extraction with the summary and, when a
// rate card matched, the estimated amount.
type TimesheetValidationData struct {
	*extractors.TimesheetData
	EstimatedAmount *decimal.Decimal `json:"estimatedAmount,omitempty"`
	Summary         TimesheetSummary `json:"summary"`
}

type TimesheetValidator struct {
	Clock        utils.Clock
	CrossChecker RateCrossChecker
}

func NewTimesheetValidator(clock utils.Clock, crossChecker RateCrossChecker) *TimesheetValidator {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &TimesheetValidator{Clock: clock, CrossChecker: crossChecker}
}

func (v *TimesheetValidator) Validate(ctx context.Context, content []byte, opts TimesheetOptions) *ValidationResult {
	extraction := extractors.ExtractTimesheet(content)
	if !extraction.Success {
		return failedExtraction(extraction.Error)
	}

	errs := append([]string{}, extraction.Validation.Errors...)
	warnings := append([]string{}, extraction.Validation.Warnings...)
	data := extraction.Data

	if start := data.DateRange.Start; start != nil {
		threshold := utils.NewDateOnly(v.Clock.Now().AddDate(0, -StaleTimesheetMonths, 0))
		if start.Before(threshold) {
			warnings = append(warnings, fmt.Sprintf("Timesheet contains dates older than %d months (%s)", StaleTimesheetMonths, start))
		}
	}

	seen := make(map[string]bool, len(data.Entries))
	for _, entry := range data.Entries {
		key := entry.Employee + "\x00" + entry.Date.String() + "\x00" + entry.Project
		if seen[key] {
			warnings = append(warnings, fmt.Sprintf("Potential duplicate entry for %s on %s", entry.Employee, entry.Date))
		}
		seen[key] = true
	}

	result := &TimesheetValidationData{
		TimesheetData: data,
		Summary: TimesheetSummary{
			TotalHours:   data.TotalHours,
			TotalEntries: data.TotalEntries,
			Employees:    len(data.Employees),
			Projects:     len(data.Projects),
			DateRange:    data.DateRange,
		},
	}

	if opts.VendorID != "" && data.TotalHours.IsPositive() && v.CrossChecker != nil {
		if check := v.crossCheck(ctx, opts, data.TotalHours); check != nil {
			warnings = append(warnings, check.Warnings...)
			if !check.EstimatedAmount.IsZero() {
				estimate := check.EstimatedAmount
				result.EstimatedAmount = &estimate
			}
		}
	}

	return &ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
		Data:     result,
	}
}

// crossCheck runs the rate card lookup and swallows any failure, panics
// included. A nil result means nothing is added to the validation.
func (v *TimesheetValidator) crossCheck(ctx context.Context, opts TimesheetOptions, totalHours decimal.Decimal) (result *ratecard_services.CrossCheckResult) {
	defer func() {
		if r := recover(); r != nil {
			config.Logger.Warn("Rate card cross-check panicked",
				zap.String("vendor_id", opts.VendorID),
				zap.Any("panic", r))
			result = nil
		}
	}()

	check, err := v.CrossChecker.CrossCheck(ctx, opts.VendorID, opts.ProjectID, totalHours)
	if err != nil {
		config.Logger.Warn("Rate card cross-check failed",
			zap.String("vendor_id", opts.VendorID),
			zap.Error(err))
		return nil
	}
	return check
}
