package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"
	"invoiceflow-backend/documents/extractors"
	"invoiceflow-backend/ratecards/repositories"
	"invoiceflow-backend/ratecards/requests"
	"invoiceflow-backend/utils"
	"invoiceflow-backend/utils/pagination"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCurrency = "INR"

var (
	ErrInvalidRateCard   = errors.New("invalid rate card")
	ErrSourceNotUsable   = errors.New("document cannot be used as a rate card source")
	ErrRateCardNotActive = errors.New("rate card is already inactive")
)

// storedRates is the part of a rate card upload's validation payload that
// becomes the card.
type storedRates struct {
	Rates []models.RateEntry `json:"rates"`
}

// SourceDocuments loads the upload a rate card is promoted from.
type SourceDocuments interface {
	GetDocumentByID(ctx context.Context, id uuid.UUID) (*models.DocumentUpload, error)
}

type RateCardService struct {
	Repo      repositories.RateCardRepository
	Documents SourceDocuments
	Clock     utils.Clock
}

func NewRateCardService(repo repositories.RateCardRepository, documents SourceDocuments, clock utils.Clock) *RateCardService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &RateCardService{Repo: repo, Documents: documents, Clock: clock}
}

func (s *RateCardService) Create(ctx context.Context, user *models.User, req requests.CreateRateCardRequest) (*models.RateCard, error) {
	card, err := s.buildCard(req)
	if err != nil {
		return nil, err
	}
	card.CreatedBy = user.DisplayName()
	return s.persist(ctx, card, user)
}

// CreateFromDocument turns the rates of a validated RATE_CARD upload into a
// rate card. Vendor and project default to the upload's own.
func (s *RateCardService) CreateFromDocument(ctx context.Context, user *models.User, req requests.CreateRateCardFromDocumentRequest) (*models.RateCard, error) {
	document, err := s.Documents.GetDocumentByID(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if document.Type != models.RateCardDocument {
		return nil, fmt.Errorf("%w: document type is %s", ErrSourceNotUsable, document.Type)
	}
	if document.Status != models.ValidatedDocument {
		return nil, fmt.Errorf("%w: document has not passed validation", ErrSourceNotUsable)
	}

	meta := document.Metadata.Data()
	if meta.ValidationData == nil {
		return nil, fmt.Errorf("%w: no extracted rates stored", ErrSourceNotUsable)
	}
	var data storedRates
	if err := json.Unmarshal([]byte(*meta.ValidationData), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotUsable, err)
	}

	vendorID := req.VendorID
	if vendorID == "" {
		vendorID = utils.DerefString(meta.VendorID)
	}
	projectID := req.ProjectID
	if projectID == nil {
		projectID = document.ProjectID
	}
	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(document.FileName, filepath.Ext(document.FileName))
	}

	card, err := s.buildCard(requests.CreateRateCardRequest{
		Name:          name,
		VendorID:      vendorID,
		ProjectID:     projectID,
		Rates:         data.Rates,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	})
	if err != nil {
		return nil, err
	}
	sourceID := document.ID
	card.SourceDocID = &sourceID
	card.CreatedBy = user.DisplayName()
	return s.persist(ctx, card, user)
}

func (s *RateCardService) buildCard(req requests.CreateRateCardRequest) (*models.RateCard, error) {
	name := strings.TrimSpace(req.Name)
	vendorID := strings.TrimSpace(req.VendorID)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRateCard)
	}
	if vendorID == "" {
		return nil, fmt.Errorf("%w: vendor_id is required", ErrInvalidRateCard)
	}
	if len(req.Rates) == 0 {
		return nil, fmt.Errorf("%w: at least one rate is required", ErrInvalidRateCard)
	}

	rates := make([]models.RateEntry, 0, len(req.Rates))
	for i, r := range req.Rates {
		description := strings.TrimSpace(r.Description)
		if description == "" {
			return nil, fmt.Errorf("%w: rate %d has no description", ErrInvalidRateCard, i+1)
		}
		if !r.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: rate for \"%s\" must be greater than zero", ErrInvalidRateCard, description)
		}
		currency := strings.ToUpper(strings.TrimSpace(r.Currency))
		if currency == "" {
			currency = defaultCurrency
		}
		rates = append(rates, models.RateEntry{
			Description: description,
			Unit:        extractors.NormalizeUnit(string(r.Unit)),
			Rate:        r.Rate,
			Currency:    currency,
		})
	}

	effectiveFrom := req.EffectiveFrom
	if effectiveFrom.IsZero() {
		effectiveFrom = s.Clock.Now()
	}
	if req.EffectiveTo != nil && req.EffectiveTo.Before(effectiveFrom) {
		return nil, fmt.Errorf("%w: effective_to is before effective_from", ErrInvalidRateCard)
	}

	var projectID *string
	if req.ProjectID != nil && strings.TrimSpace(*req.ProjectID) != "" {
		p := strings.TrimSpace(*req.ProjectID)
		projectID = &p
	}

	return &models.RateCard{
		Name:          name,
		VendorID:      vendorID,
		ProjectID:     projectID,
		Rates:         rates,
		Status:        models.ActiveRateCard,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	}, nil
}

func (s *RateCardService) persist(ctx context.Context, card *models.RateCard, user *models.User) (*models.RateCard, error) {
	scope := "general"
	if card.ProjectID != nil {
		scope = "project " + *card.ProjectID
	}
	entry := &models.AuditTrailEntry{
		Username: user.DisplayName(),
		Action:   models.RateCardCreatedAction,
		Details:  fmt.Sprintf("Created rate card %s for vendor %s (%s, %d rates)", card.Name, card.VendorID, scope, len(card.Rates)),
	}

	created, err := s.Repo.CreateRateCardWithAudit(ctx, card, entry)
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Rate card created",
		zap.String("rate_card_id", created.ID.String()),
		zap.String("vendor_id", created.VendorID),
		zap.Int("rates", len(created.Rates)),
		zap.String("created_by", user.Email))
	return created, nil
}

func (s *RateCardService) List(ctx context.Context, params pagination.PaginationParams) ([]models.RateCard, int64, error) {
	filters := map[string]string{
		"vendor_id":  params.Filters["vendor_id"],
		"project_id": params.Filters["project_id"],
		"status":     params.Filters["status"],
	}
	return s.Repo.GetFilteredRateCards(ctx, params.PageSize, params.Offset(), filters)
}

func (s *RateCardService) Get(ctx context.Context, id uuid.UUID) (*models.RateCard, error) {
	return s.Repo.GetRateCardByID(ctx, id)
}

func (s *RateCardService) Deactivate(ctx context.Context, user *models.User, id uuid.UUID) (*models.RateCard, error) {
	card, err := s.Repo.GetRateCardByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.Status != models.ActiveRateCard {
		return nil, ErrRateCardNotActive
	}

	entry := &models.AuditTrailEntry{
		Username: user.DisplayName(),
		Action:   models.RateCardDisabledAction,
		Details:  fmt.Sprintf("Deactivated rate card %s for vendor %s", card.Name, card.VendorID),
	}
	updated, err := s.Repo.DeactivateRateCardWithAudit(ctx, id, entry)
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Rate card deactivated",
		zap.String("rate_card_id", id.String()),
		zap.String("deactivated_by", user.Email))
	return updated, nil
}
