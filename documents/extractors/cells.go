package extractors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoiceflow-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// cellResult is the outcome of parsing one cell. When ok is false, issue
// describes the problem without the row prefix.
type cellResult[T any] struct {
	value T
	ok    bool
	issue string
}

func parsed[T any](v T) cellResult[T] {
	return cellResult[T]{value: v, ok: true}
}

func failed[T any](format string, args ...interface{}) cellResult[T] {
	return cellResult[T]{issue: fmt.Sprintf(format, args...)}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"2-Jan-06",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// Serial numbers outside this window are treated as plain numbers, not dates.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465 // 9999-12-31
)

func parseText(raw, field string) cellResult[string] {
	if raw == "" {
		return failed[string]("missing %s", field)
	}
	return parsed(raw)
}

func parseDate(raw string) cellResult[utils.DateOnly] {
	if raw == "" {
		return failed[utils.DateOnly]("missing date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return parsed(utils.NewDateOnly(t))
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return parsed(utils.NewDateOnly(t))
		}
	}

	return failed[utils.DateOnly]("unrecognised date %q", raw)
}

var (
	currencyMarkers = strings.NewReplacer("₹", "", "Rs.", "", "rs.", "", "RS.", "", "Rs", "", "INR", "", "inr", "", "$", "")
	// Optional sign, digits with well-formed thousands commas, optional
	// fraction and exponent.
	amountPattern = regexp.MustCompile(`^-?(\d{1,3}(,\d{3})+|\d*)(\.\d+)?([eE][-+]?\d+)?$`)
)

// parseAmount accepts plain numbers plus thousands separators and currency
// markers, e.g. "1,250.50", "₹500" or "Rs. 500". Anything else ("8:30",
// "(1200)", "1.250,50") is reported rather than guessed at.
func parseAmount(raw, field string) cellResult[decimal.Decimal] {
	if raw == "" {
		return failed[decimal.Decimal]("missing %s", field)
	}

	cleaned := strings.Join(strings.Fields(currencyMarkers.Replace(raw)), "")
	if !amountPattern.MatchString(cleaned) || !strings.ContainsAny(cleaned, "0123456789") {
		return failed[decimal.Decimal]("invalid %s %q", field, raw)
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(cleaned, ",", ""))
	if err != nil {
		return failed[decimal.Decimal]("invalid %s %q", field, raw)
	}
	return parsed(d)
}
