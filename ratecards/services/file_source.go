package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invoiceflow-backend/db/models"
	"invoiceflow-backend/documents/extractors"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fileRateCards struct {
	RateCards []fileRateCard `toml:"rate_card"`
}

type fileRateCard struct {
	Name          string          `toml:"name"`
	VendorID      string          `toml:"vendor_id"`
	ProjectID     string          `toml:"project_id"`
	Status        string          `toml:"status"`
	EffectiveFrom time.Time       `toml:"effective_from"`
	EffectiveTo   *time.Time      `toml:"effective_to"`
	CreatedAt     time.Time       `toml:"created_at"`
	Rates         []fileRateEntry `toml:"rates"`
}

type fileRateEntry struct {
	Description string          `toml:"description"`
	Unit        string          `toml:"unit"`
	Rate        decimal.Decimal `toml:"rate"`
	Currency    string          `toml:"currency"`
}

// FileRateCardSource serves rate cards from a TOML file, for offline checks
// where no database is available.
type FileRateCardSource struct {
	cards []models.RateCard
}

func LoadFileRateCardSource(path string) (*FileRateCardSource, error) {
	var doc fileRateCards
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to read rate cards from %s: %w", path, err)
	}
	return newFileRateCardSource(doc)
}

func ParseFileRateCardSource(data string) (*FileRateCardSource, error) {
	var doc fileRateCards
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rate cards: %w", err)
	}
	return newFileRateCardSource(doc)
}

func newFileRateCardSource(doc fileRateCards) (*FileRateCardSource, error) {
	source := &FileRateCardSource{}
	for i, fc := range doc.RateCards {
		if fc.VendorID == "" {
			return nil, fmt.Errorf("rate_card %d: vendor_id is required", i+1)
		}
		if fc.EffectiveFrom.IsZero() {
			return nil, fmt.Errorf("rate_card %d: effective_from is required", i+1)
		}

		card := models.RateCard{
			ID:            uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("ratecard:%s:%s:%d", fc.VendorID, fc.Name, i))),
			Name:          fc.Name,
			VendorID:      fc.VendorID,
			Status:        models.ActiveRateCard,
			EffectiveFrom: fc.EffectiveFrom,
			EffectiveTo:   fc.EffectiveTo,
			CreatedBy:     "file",
			CreatedAt:     fc.CreatedAt,
		}
		if fc.ProjectID != "" {
			projectID := fc.ProjectID
			card.ProjectID = &projectID
		}
		if fc.Status != "" {
			card.Status = models.RateCardStatus(strings.ToUpper(fc.Status))
		}
		if card.CreatedAt.IsZero() {
			card.CreatedAt = fc.EffectiveFrom
		}
		for _, r := range fc.Rates {
			card.Rates = append(card.Rates, models.RateEntry{
				Description: r.Description,
				Unit:        extractors.NormalizeUnit(r.Unit),
				Rate:        r.Rate,
				Currency:    strings.ToUpper(r.Currency),
			})
		}
		source.cards = append(source.cards, card)
	}
	return source, nil
}

func (s *FileRateCardSource) FindActiveRateCards(_ context.Context, vendorID string, _ *string, now time.Time) ([]models.RateCard, error) {
	var out []models.RateCard
	for _, card := range s.cards {
		if card.VendorID == vendorID && card.IsApplicableAt(now) {
			out = append(out, card)
		}
	}
	return out, nil
}

// RateCards returns every card loaded from the file.
func (s *FileRateCardSource) RateCards() []models.RateCard {
	return append([]models.RateCard(nil), s.cards...)
}
