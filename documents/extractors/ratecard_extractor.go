package extractors

import (
	"strings"

	"invoiceflow-backend/db/models"
)

// DefaultCurrency applies to rate rows that leave the currency blank.
const DefaultCurrency = "INR"

var rateCardColumns = columnAliases{
	"description": {"description", "desc", "role", "item", "service", "designation", "particulars"},
	"unit":        {"unit", "uom", "per", "billing unit", "rate unit"},
	"rate":        {"rate", "amount", "price", "unit rate", "unit price"},
	"currency":    {"currency", "ccy", "cur"},
}

var requiredRateCardColumns = []string{"description", "unit", "rate"}

var unitSynonyms = map[string]models.RateUnit{
	"hour":     models.HourRateUnit,
	"hours":    models.HourRateUnit,
	"hourly":   models.HourRateUnit,
	"hr":       models.HourRateUnit,
	"hrs":      models.HourRateUnit,
	"per hour": models.HourRateUnit,
	"day":      models.DayRateUnit,
	"days":     models.DayRateUnit,
	"daily":    models.DayRateUnit,
	"per day":  models.DayRateUnit,
	"man day":  models.DayRateUnit,
}

type RateCardData struct {
	Rates []models.RateEntry `json:"rates"`
}

type RateCardExtraction struct {
	Success    bool                 `json:"success"`
	Error      string               `json:"error,omitempty"`
	Data       *RateCardData        `json:"data"`
	Validation StructuralValidation `json:"validation"`
}

// ExtractRateCard reads description/unit/rate/currency rows from the first
// worksheet. A row without a description or a positive rate is an error.
func ExtractRateCard(content []byte) *RateCardExtraction {
	s, err := readSheet(content, rateCardColumns, requiredRateCardColumns)
	if err != nil {
		return &RateCardExtraction{Success: false, Error: err.Error(), Validation: newStructuralValidation()}
	}

	validation := newStructuralValidation()
	data := &RateCardData{Rates: []models.RateEntry{}}
	if !s.hasColumn("currency") {
		validation.addWarning("Currency column not found; assuming %s", DefaultCurrency)
	}

	for _, row := range s.rows {
		description := parseText(row.cell(s.column("description")), "description")
		if !description.ok {
			validation.addError("Row %d: %s", row.number, description.issue)
			continue
		}

		rate := parseAmount(row.cell(s.column("rate")), "rate")
		if !rate.ok {
			validation.addError("Row %d: %s", row.number, rate.issue)
			continue
		}
		if !rate.value.IsPositive() {
			validation.addError("Row %d: rate must be a positive number (%s)", row.number, rate.value.String())
			continue
		}

		unit := normalizeUnit(row.cell(s.column("unit")))
		if !unit.ok {
			validation.addWarning("Row %d: %s", row.number, unit.issue)
		}

		currency := strings.ToUpper(row.cell(s.column("currency")))
		if currency == "" {
			currency = DefaultCurrency
			if s.hasColumn("currency") {
				validation.addWarning("Row %d: missing currency, assuming %s", row.number, DefaultCurrency)
			}
		}

		data.Rates = append(data.Rates, models.RateEntry{
			Description: description.value,
			Unit:        unit.value,
			Rate:        rate.value,
			Currency:    currency,
		})
	}

	return &RateCardExtraction{Success: true, Data: data, Validation: validation}
}

// normalizeUnit maps common spellings to HOUR/DAY and upper-cases anything
// else. A blank unit still yields OTHER so the row is kept.
func normalizeUnit(raw string) cellResult[models.RateUnit] {
	if raw == "" {
		return cellResult[models.RateUnit]{value: models.OtherRateUnit, issue: "missing unit, recorded as OTHER"}
	}

	key := strings.Join(strings.Fields(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "/"))), " ")
	if unit, ok := unitSynonyms[key]; ok {
		return parsed(unit)
	}
	return parsed(models.RateUnit(strings.ToUpper(strings.TrimSpace(raw))))
}

// NormalizeUnit applies the spreadsheet unit rules to a unit typed by hand.
func NormalizeUnit(raw string) models.RateUnit {
	return normalizeUnit(strings.TrimSpace(raw)).value
}
