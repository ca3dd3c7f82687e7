package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	bleve_models "invoiceflow-backend/bleve/models"
	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"
	"invoiceflow-backend/documents/repositories"
	documents_requests "invoiceflow-backend/documents/requests"
	"invoiceflow-backend/documents/validators"
	"invoiceflow-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	ErrInvalidUpload = errors.New("invalid upload")
	ErrNotAuthorized = errors.New("not authorized to access this document")
)

const maxNotedErrors = 3

// DocumentIndexer is the search side of document intake.
type DocumentIndexer interface {
	IndexDocumentUpload(document models.DocumentUpload) error
	DeleteDocumentUpload(documentID string) error
	SearchDocumentUploads(queryString string, limit int) (*bleve_models.SearchResponse, error)
}

type EventPublisher interface {
	PublishToUser(userID uuid.UUID, eventType string, payload interface{})
}

// ValidationFlagger moves an invoice back to review when its supporting
// timesheet fails validation.
type ValidationFlagger interface {
	FlagValidationRequired(ctx context.Context, invoiceID uuid.UUID, reason string) error
}

type DocumentService struct {
	Validator    *validators.DocumentValidator
	Timesheets   *validators.TimesheetValidator
	RateCards    *validators.RateCardValidator
	DocumentRepo repositories.DocumentRepository
	FileStorage  utils.FileStorage
	Index        DocumentIndexer
	Events       EventPublisher
	Workflow     ValidationFlagger
}

func NewDocumentService(
	repo repositories.DocumentRepository,
	fileStorage utils.FileStorage,
	timesheets *validators.TimesheetValidator,
	maxUploadBytes int64,
) *DocumentService {
	return &DocumentService{
		Validator:    validators.NewDocumentValidator(maxUploadBytes),
		Timesheets:   timesheets,
		RateCards:    validators.NewRateCardValidator(),
		DocumentRepo: repo,
		FileStorage:  fileStorage,
	}
}

type UploadValidation struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Notes    string   `json:"notes"`
}

type UploadResponse struct {
	Document   *models.DocumentUpload `json:"document"`
	Validation UploadValidation       `json:"validation"`
}

// contentCheck is what intake learned about the file's contents.
type contentCheck struct {
	validated bool
	notes     string
	errors    []string
	warnings  []string
	data      interface{}
}

// Upload admits a document. Failed validation is recorded on the document,
// it never rejects the upload.
func (s *DocumentService) Upload(ctx context.Context, req *documents_requests.UploadDocumentRequest) (*UploadResponse, error) {
	if err := s.Validator.ValidateUploadRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}

	// Vendors are always priced against their own rate cards.
	vendorID := req.VendorID
	if vendorID == nil || req.Uploader.Role == models.VendorRole {
		vendorID = req.Uploader.VendorID
	}

	check := s.checkContent(ctx, req, vendorID)

	documentID := uuid.New()
	key := fmt.Sprintf("documents/%s/%s_%s", strings.ToLower(string(req.Type)), documentID, utils.CleanStringForFilename(req.FileName))
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	if _, err := s.FileStorage.UploadFileFromReader(ctx, bytes.NewReader(req.Content), key, mimeType); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	metadata := models.DocumentMetadata{
		BillingMonth:       req.BillingMonth,
		Validated:          check.validated,
		ValidationNotes:    check.notes,
		ValidationErrors:   check.errors,
		ValidationWarnings: check.warnings,
		RingiNumber:        req.RingiNumber,
		ProjectName:        req.ProjectName,
		Description:        req.Description,
		VendorID:           vendorID,
	}
	if check.data != nil {
		encoded, err := json.Marshal(check.data)
		if err != nil {
			config.Logger.Warn("Failed to serialize validation data", zap.Error(err))
		} else {
			payload := string(encoded)
			metadata.ValidationData = &payload
		}
	}

	status := models.PendingDocument
	outcome := "Pending"
	if check.validated {
		status = models.ValidatedDocument
		outcome = "Validated"
	}

	document := &models.DocumentUpload{
		ID:         documentID,
		Type:       req.Type,
		FileName:   req.FileName,
		FilePath:   key,
		FileHash:   utils.HashContent(req.Content),
		MimeType:   mimeType,
		FileSize:   int64(len(req.Content)),
		UploadedBy: req.Uploader.ID,
		ProjectID:  req.ProjectID,
		InvoiceID:  req.InvoiceID,
		Metadata:   datatypes.NewJSONType(metadata),
		Status:     status,
	}
	entry := &models.AuditTrailEntry{
		InvoiceID: req.InvoiceID,
		Username:  req.Uploader.DisplayName(),
		Action:    models.DocumentUploadedAction,
		Details:   fmt.Sprintf("Uploaded %s: %s (%s)", req.Type, req.FileName, outcome),
	}

	created, err := s.DocumentRepo.CreateDocumentWithAudit(ctx, document, entry)
	if err != nil {
		if delErr := s.FileStorage.DeleteFile(ctx, key); delErr != nil {
			config.Logger.Error("Failed to remove orphaned upload",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, err
	}

	config.Logger.Info("Document uploaded",
		zap.String("document_id", created.ID.String()),
		zap.String("type", string(created.Type)),
		zap.String("status", string(created.Status)),
		zap.String("uploaded_by", req.Uploader.ID.String()))

	s.afterUpload(ctx, created, check)

	return &UploadResponse{
		Document: created,
		Validation: UploadValidation{
			IsValid:  check.validated,
			Errors:   check.errors,
			Warnings: check.warnings,
			Notes:    check.notes,
		},
	}, nil
}

func (s *DocumentService) checkContent(ctx context.Context, req *documents_requests.UploadDocumentRequest, vendorID *string) contentCheck {
	check := contentCheck{errors: []string{}, warnings: []string{}}

	switch req.Type {
	case models.TimesheetDocument:
		if !validators.IsSpreadsheet(req.FileName) || s.Timesheets == nil {
			check.notes = "PDF timesheet requires manual review"
			return check
		}
		result := s.Timesheets.Validate(ctx, req.Content, validators.TimesheetOptions{
			VendorID:  utils.DerefString(vendorID),
			ProjectID: req.ProjectID,
		})
		check.apply(result)
		if data, ok := result.Data.(*validators.TimesheetValidationData); ok && check.validated {
			check.notes = fmt.Sprintf("Validated: %s hours across %d entries", data.Summary.TotalHours, data.Summary.TotalEntries)
		}

	case models.RateCardDocument:
		if !validators.IsSpreadsheet(req.FileName) {
			check.notes = "PDF rate card requires manual review"
			return check
		}
		result := s.RateCards.Validate(req.Content)
		check.apply(result)
		if data, ok := result.Data.(*validators.RateCardValidationData); ok && check.validated {
			check.notes = fmt.Sprintf("Validated: %d rate entries", data.Summary.TotalRates)
		}

	default:
		check.validated = len(req.Content) > 0
		if check.validated {
			check.notes = "Document received"
		} else {
			check.notes = "Empty file detected"
		}
	}

	return check
}

func (c *contentCheck) apply(result *validators.ValidationResult) {
	c.validated = result.IsValid
	c.errors = result.Errors
	c.warnings = result.Warnings
	c.data = result.Data
	if !result.IsValid {
		shown := result.Errors
		if len(shown) > maxNotedErrors {
			shown = shown[:maxNotedErrors]
		}
		c.notes = "Validation failed: " + strings.Join(shown, "; ")
	}
}

// afterUpload runs the side effects that must not fail an admitted upload.
func (s *DocumentService) afterUpload(ctx context.Context, document *models.DocumentUpload, check contentCheck) {
	if s.Index != nil {
		if err := s.Index.IndexDocumentUpload(*document); err != nil {
			config.Logger.Warn("Failed to index document", zap.String("document_id", document.ID.String()), zap.Error(err))
		}
	}

	if s.Events != nil {
		s.Events.PublishToUser(document.UploadedBy, "document.uploaded", uploadEvent(document, check))
	}

	if s.Workflow != nil && document.InvoiceID != nil && document.Type == models.TimesheetDocument &&
		validators.IsSpreadsheet(document.FileName) && !check.validated {
		if err := s.Workflow.FlagValidationRequired(ctx, *document.InvoiceID, check.notes); err != nil {
			config.Logger.Warn("Failed to flag invoice for validation",
				zap.String("invoice_id", document.InvoiceID.String()),
				zap.Error(err))
		}
	}
}

func uploadEvent(document *models.DocumentUpload, check contentCheck) map[string]interface{} {
	return map[string]interface{}{
		"documentId": document.ID,
		"type":       document.Type,
		"fileName":   document.FileName,
		"status":     document.Status,
		"notes":      check.notes,
	}
}

// CanAccessDocument reports whether user may read or download a document.
func CanAccessDocument(user *models.User, document *models.DocumentUpload) bool {
	if user == nil {
		return false
	}
	if user.HasRole(models.AdminRole, models.FinanceUserRole) {
		return true
	}
	return document.UploadedBy == user.ID
}

// List returns uploads newest first. Project managers only see their own.
func (s *DocumentService) List(ctx context.Context, user *models.User, req documents_requests.ListDocumentsRequest) ([]models.DocumentUpload, error) {
	filter := repositories.DocumentFilter{ListDocumentsRequest: req}
	if !user.HasRole(models.AdminRole, models.FinanceUserRole) {
		filter.UploadedBy = &user.ID
	}
	return s.DocumentRepo.ListDocuments(ctx, filter)
}

func (s *DocumentService) Get(ctx context.Context, user *models.User, id uuid.UUID) (*models.DocumentUpload, error) {
	document, err := s.DocumentRepo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAccessDocument(user, document) {
		return nil, ErrNotAuthorized
	}
	return document, nil
}

// Delete removes the row and its stored file. Only the uploader or an admin
// may delete.
func (s *DocumentService) Delete(ctx context.Context, user *models.User, id uuid.UUID) error {
	document, err := s.DocumentRepo.GetDocumentByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != models.AdminRole && document.UploadedBy != user.ID {
		return ErrNotAuthorized
	}

	entry := &models.AuditTrailEntry{
		InvoiceID: document.InvoiceID,
		Username:  user.DisplayName(),
		Action:    models.DocumentDeletedAction,
		Details:   fmt.Sprintf("Deleted %s: %s", document.Type, document.FileName),
	}
	if err := s.DocumentRepo.DeleteDocumentWithAudit(ctx, document, entry); err != nil {
		return err
	}

	if err := s.FileStorage.DeleteFile(ctx, document.FilePath); err != nil {
		config.Logger.Warn("Failed to delete stored file",
			zap.String("document_id", document.ID.String()),
			zap.String("key", document.FilePath),
			zap.Error(err))
	}
	if s.Index != nil {
		if err := s.Index.DeleteDocumentUpload(document.ID.String()); err != nil {
			config.Logger.Warn("Failed to remove document from index", zap.String("document_id", document.ID.String()), zap.Error(err))
		}
	}
	if s.Events != nil {
		s.Events.PublishToUser(document.UploadedBy, "document.deleted", map[string]interface{}{"documentId": document.ID})
	}

	config.Logger.Info("Document deleted",
		zap.String("document_id", document.ID.String()),
		zap.String("deleted_by", user.ID.String()))
	return nil
}

// Search runs a full-text query and returns the matching documents the user
// may see, best match first.
func (s *DocumentService) Search(ctx context.Context, user *models.User, req documents_requests.SearchDocumentsRequest) ([]models.DocumentUpload, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: search query cannot be empty", ErrInvalidUpload)
	}
	if s.Index == nil {
		return []models.DocumentUpload{}, nil
	}

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	hits, err := s.Index.SearchDocumentUploads(req.Query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(hits.Hits))
	for _, hit := range hits.Hits {
		if id, err := uuid.Parse(hit.ID); err == nil {
			ids = append(ids, id)
		}
	}

	found, err := s.DocumentRepo.GetDocumentsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.DocumentUpload, len(found))
	for _, document := range found {
		byID[document.ID] = document
	}

	results := make([]models.DocumentUpload, 0, len(found))
	for _, id := range ids {
		document, ok := byID[id]
		if !ok || !CanAccessDocument(user, &document) {
			continue
		}
		results = append(results, document)
	}
	return results, nil
}

// Download opens the stored file. The caller closes the reader.
func (s *DocumentService) Download(ctx context.Context, user *models.User, id uuid.UUID) (*models.DocumentUpload, io.ReadCloser, error) {
	document, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.FileStorage.DownloadFile(ctx, document.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return document, reader, nil
}
