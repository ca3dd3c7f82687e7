package services

import (
	"context"
	"fmt"
	"time"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"
	"invoiceflow-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const NoActiveRateCardWarning = "No active rate card found for this vendor"

// RateCardSource returns candidate rate cards for a vendor. Implementations
// may over-fetch; SelectApplicable makes the final choice.
type RateCardSource interface {
	FindActiveRateCards(ctx context.Context, vendorID string, projectID *string, now time.Time) ([]models.RateCard, error)
}

type CrossCheckResult struct {
	Warnings        []string         `json:"warnings"`
	EstimatedAmount decimal.Decimal  `json:"estimatedAmount"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate,omitempty"`
	RateCardID      *uuid.UUID       `json:"rateCardId,omitempty"`
	RateCardName    string           `json:"rateCardName,omitempty"`
}

type CrossChecker struct {
	Source RateCardSource
	Clock  utils.Clock
}

func NewCrossChecker(source RateCardSource, clock utils.Clock) *CrossChecker {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &CrossChecker{Source: source, Clock: clock}
}

// CrossCheck estimates the billable amount for totalHours against the rate
// card that applies to the vendor and project right now.
func (c *CrossChecker) CrossCheck(ctx context.Context, vendorID string, projectID *string, totalHours decimal.Decimal) (*CrossCheckResult, error) {
	now := c.Clock.Now()

	candidates, err := c.Source.FindActiveRateCards(ctx, vendorID, projectID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rate cards for vendor %s: %w", vendorID, err)
	}

	result := &CrossCheckResult{Warnings: []string{}, EstimatedAmount: decimal.Zero}

	card := SelectApplicable(candidates, vendorID, projectID, now)
	if card == nil {
		result.Warnings = append(result.Warnings, NoActiveRateCardWarning)
		return result, nil
	}

	id := card.ID
	result.RateCardID = &id
	result.RateCardName = card.Name

	hourly, ok := card.FirstHourlyRate()
	if !ok {
		// A matched card without an HOUR line yields no estimate and no warning.
		config.Logger.Debug("Rate card has no hourly entry",
			zap.String("rate_card_id", card.ID.String()),
			zap.String("vendor_id", vendorID))
		return result, nil
	}

	rate := hourly.Rate
	result.HourlyRate = &rate
	result.EstimatedAmount = totalHours.Mul(rate)
	return result, nil
}

// SelectApplicable picks the rate card in force at now. A card for the given
// project wins over a general card; among equals the most recently created
// wins, and the earlier candidate wins an exact tie.
func SelectApplicable(cards []models.RateCard, vendorID string, projectID *string, now time.Time) *models.RateCard {
	var projectMatch, generalMatch *models.RateCard

	for i := range cards {
		card := &cards[i]
		if card.VendorID != vendorID || !card.IsApplicableAt(now) {
			continue
		}

		switch {
		case card.ProjectID == nil:
			if generalMatch == nil || card.CreatedAt.After(generalMatch.CreatedAt) {
				generalMatch = card
			}
		case projectID != nil && *card.ProjectID == *projectID:
			if projectMatch == nil || card.CreatedAt.After(projectMatch.CreatedAt) {
				projectMatch = card
			}
		}
	}

	if projectMatch != nil {
		return projectMatch
	}
	return generalMatch
}
