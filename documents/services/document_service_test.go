package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	bleve_models "invoiceflow-backend/bleve/models"
	"invoiceflow-backend/db/models"
	"invoiceflow-backend/documents/repositories"
	documents_requests "invoiceflow-backend/documents/requests"
	"invoiceflow-backend/documents/validators"
	"invoiceflow-backend/internal/testutil"
	ratecard_services "invoiceflow-backend/ratecards/services"
	"invoiceflow-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var intakeTime = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

type memoryStorage struct {
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (m *memoryStorage) UploadFileFromReader(_ context.Context, src io.Reader, key, _ string) (string, error) {
	content, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	m.files[key] = content
	return key, nil
}

func (m *memoryStorage) DownloadFile(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := m.files[key]
	if !ok {
		return nil, errors.New("no such file")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (m *memoryStorage) DeleteFile(_ context.Context, key string) error {
	delete(m.files, key)
	return nil
}

func (m *memoryStorage) FileExists(_ context.Context, key string) (bool, error) {
	_, ok := m.files[key]
	return ok, nil
}

type memoryDocumentRepo struct {
	documents map[uuid.UUID]models.DocumentUpload
	audit     []*models.AuditTrailEntry
	failNext  error
}

func newMemoryDocumentRepo() *memoryDocumentRepo {
	return &memoryDocumentRepo{documents: map[uuid.UUID]models.DocumentUpload{}}
}

func (r *memoryDocumentRepo) CreateDocumentWithAudit(_ context.Context, document *models.DocumentUpload, entry *models.AuditTrailEntry) (*models.DocumentUpload, error) {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return nil, err
	}
	document.CreatedAt = intakeTime.Add(time.Duration(len(r.documents)) * time.Minute)
	r.documents[document.ID] = *document
	r.audit = append(r.audit, entry)
	return document, nil
}

func (r *memoryDocumentRepo) DeleteDocumentWithAudit(_ context.Context, document *models.DocumentUpload, entry *models.AuditTrailEntry) error {
	if _, ok := r.documents[document.ID]; !ok {
		return repositories.ErrDocumentNotFound
	}
	delete(r.documents, document.ID)
	r.audit = append(r.audit, entry)
	return nil
}

func (r *memoryDocumentRepo) GetDocumentByID(_ context.Context, id uuid.UUID) (*models.DocumentUpload, error) {
	document, ok := r.documents[id]
	if !ok {
		return nil, repositories.ErrDocumentNotFound
	}
	return &document, nil
}

func (r *memoryDocumentRepo) GetDocumentsByIDs(_ context.Context, ids []uuid.UUID) ([]models.DocumentUpload, error) {
	var out []models.DocumentUpload
	for _, id := range ids {
		if document, ok := r.documents[id]; ok {
			out = append(out, document)
		}
	}
	return out, nil
}

func (r *memoryDocumentRepo) ListDocuments(_ context.Context, filter repositories.DocumentFilter) ([]models.DocumentUpload, error) {
	var out []models.DocumentUpload
	for _, document := range r.documents {
		if filter.UploadedBy != nil && document.UploadedBy != *filter.UploadedBy {
			continue
		}
		if filter.Type != nil && document.Type != *filter.Type {
			continue
		}
		out = append(out, document)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type recordingIndex struct {
	indexed []uuid.UUID
	deleted []string
	hits    []string
	err     error
}

func (i *recordingIndex) IndexDocumentUpload(document models.DocumentUpload) error {
	i.indexed = append(i.indexed, document.ID)
	return i.err
}

func (i *recordingIndex) DeleteDocumentUpload(documentID string) error {
	i.deleted = append(i.deleted, documentID)
	return nil
}

func (i *recordingIndex) SearchDocumentUploads(_ string, _ int) (*bleve_models.SearchResponse, error) {
	response := &bleve_models.SearchResponse{Total: uint64(len(i.hits))}
	for _, id := range i.hits {
		response.Hits = append(response.Hits, bleve_models.SearchHit{ID: id})
	}
	return response, nil
}

type recordingEvents struct {
	events []string
}

func (e *recordingEvents) PublishToUser(_ uuid.UUID, eventType string, _ interface{}) {
	e.events = append(e.events, eventType)
}

type recordingFlagger struct {
	invoiceIDs []uuid.UUID
	reasons    []string
}

func (f *recordingFlagger) FlagValidationRequired(_ context.Context, invoiceID uuid.UUID, reason string) error {
	f.invoiceIDs = append(f.invoiceIDs, invoiceID)
	f.reasons = append(f.reasons, reason)
	return nil
}

type intakeFixture struct {
	service *DocumentService
	repo    *memoryDocumentRepo
	storage *memoryStorage
	index   *recordingIndex
	events  *recordingEvents
	flagger *recordingFlagger
	pm      *models.User
	admin   *models.User
	vendor  *models.User
}

func newIntakeFixture() *intakeFixture {
	vendorID := "V-100"
	f := &intakeFixture{
		repo:    newMemoryDocumentRepo(),
		storage: newMemoryStorage(),
		index:   &recordingIndex{},
		events:  &recordingEvents{},
		flagger: &recordingFlagger{},
		pm:      &models.User{ID: uuid.New(), Name: "Priya PM", Email: "pm@example.com", Role: models.ProjectManagerRole},
		admin:   &models.User{ID: uuid.New(), Name: "Asha Admin", Email: "admin@example.com", Role: models.AdminRole},
		vendor:  &models.User{ID: uuid.New(), Name: "Acme", Email: "vendor@example.com", Role: models.VendorRole, VendorID: &vendorID},
	}

	timesheets := validators.NewTimesheetValidator(utils.FixedClock{At: intakeTime}, nil)
	f.service = NewDocumentService(f.repo, f.storage, timesheets, validators.DefaultMaxUploadBytes)
	f.service.Index = f.index
	f.service.Events = f.events
	f.service.Workflow = f.flagger
	return f
}

func validTimesheet(t *testing.T) []byte {
	return testutil.BuildWorkbook(t, [][]interface{}{
		testutil.TimesheetHeader,
		{"alice", "2024-01-05", "ProjA", 8},
		{"bob", "2024-01-06", "ProjA", 6},
		{"carol", "2024-01-08", "ProjA", 8},
	})
}

func TestUploadValidTimesheet(t *testing.T) {
	f := newIntakeFixture()
	projectID := "ProjA"

	resp, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
		Type:      models.TimesheetDocument,
		FileName:  "Acme March timesheet.xlsx",
		MimeType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:   validTimesheet(t),
		ProjectID: &projectID,
		Uploader:  f.pm,
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if !resp.Validation.IsValid {
		t.Fatalf("expected valid timesheet, errors = %v", resp.Validation.Errors)
	}
	if resp.Validation.Notes != "Validated: 22 hours across 3 entries" {
		t.Errorf("notes = %q", resp.Validation.Notes)
	}

	doc := resp.Document
	if doc.Status != models.ValidatedDocument {
		t.Errorf("status = %s", doc.Status)
	}
	wantKey := "documents/timesheet/" + doc.ID.String() + "_Acme_March_timesheet.xlsx"
	if doc.FilePath != wantKey {
		t.Errorf("file path = %q, want %q", doc.FilePath, wantKey)
	}
	if _, ok := f.storage.files[wantKey]; !ok {
		t.Error("file was not stored")
	}
	if doc.FileHash != utils.HashContent(f.storage.files[wantKey]) {
		t.Errorf("file hash = %q", doc.FileHash)
	}

	meta := doc.Metadata.Data()
	if !meta.Validated || meta.ValidationData == nil || !strings.Contains(*meta.ValidationData, `"totalEntries":3`) {
		t.Errorf("metadata = %+v", meta)
	}

	if len(f.repo.audit) != 1 || f.repo.audit[0].Details != "Uploaded TIMESHEET: Acme March timesheet.xlsx (Validated)" {
		t.Errorf("audit = %+v", f.repo.audit)
	}
	if f.repo.audit[0].Action != models.DocumentUploadedAction || f.repo.audit[0].Username != "Priya PM" {
		t.Errorf("audit entry = %+v", f.repo.audit[0])
	}
	if len(f.index.indexed) != 1 || len(f.events.events) != 1 || f.events.events[0] != "document.uploaded" {
		t.Errorf("side effects: indexed=%v events=%v", f.index.indexed, f.events.events)
	}
	if len(f.flagger.invoiceIDs) != 0 {
		t.Error("valid timesheet must not flag an invoice")
	}
}

func TestUploadInvalidTimesheetIsAdmittedAndFlagsInvoice(t *testing.T) {
	f := newIntakeFixture()
	invoiceID := uuid.New()
	content := testutil.BuildWorkbook(t, [][]interface{}{
		{"Name", "Hours"},
		{"alice", 8},
	})

	resp, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
		Type:      models.TimesheetDocument,
		FileName:  "broken.xlsx",
		Content:   content,
		InvoiceID: &invoiceID,
		Uploader:  f.vendor,
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if resp.Validation.IsValid || resp.Document.Status != models.PendingDocument {
		t.Errorf("expected pending document, got %s", resp.Document.Status)
	}
	if resp.Validation.Notes != "Validation failed: Missing required columns: date, project" {
		t.Errorf("notes = %q", resp.Validation.Notes)
	}
	if resp.Document.Metadata.Data().ValidationData != nil {
		t.Error("failed extraction should not store validation data")
	}
	if f.repo.audit[0].Details != "Uploaded TIMESHEET: broken.xlsx (Pending)" {
		t.Errorf("audit details = %q", f.repo.audit[0].Details)
	}
	if got := resp.Document.Metadata.Data().VendorID; got == nil || *got != "V-100" {
		t.Errorf("vendor should default to the uploader's vendor, got %v", got)
	}

	if len(f.flagger.invoiceIDs) != 1 || f.flagger.invoiceIDs[0] != invoiceID {
		t.Fatalf("flagged = %v", f.flagger.invoiceIDs)
	}
	if f.flagger.reasons[0] != resp.Validation.Notes {
		t.Errorf("flag reason = %q", f.flagger.reasons[0])
	}
}

func TestUploadNotesShowFirstThreeErrors(t *testing.T) {
	f := newIntakeFixture()
	content := testutil.BuildWorkbook(t, [][]interface{}{
		testutil.RateCardHeader,
		{"", "hour", 100, "INR"},
		{"QA", "hour", "abc", "INR"},
		{"Dev", "hour", -5, "INR"},
		{"", "day", 200, "INR"},
	})

	resp, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
		Type:     models.RateCardDocument,
		FileName: "rates.xlsx",
		Content:  content,
		Uploader: f.admin,
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if len(resp.Validation.Errors) != 4 {
		t.Fatalf("errors = %v", resp.Validation.Errors)
	}
	want := "Validation failed: " + strings.Join(resp.Validation.Errors[:3], "; ")
	if resp.Validation.Notes != want {
		t.Errorf("notes = %q, want %q", resp.Validation.Notes, want)
	}
}

func TestUploadNotesByKind(t *testing.T) {
	rateCard := func(t *testing.T) []byte {
		return testutil.BuildWorkbook(t, [][]interface{}{
			testutil.RateCardHeader,
			{"Developer", "hour", 500, "INR"},
			{"Tester", "day", 3000, "INR"},
		})
	}

	tests := []struct {
		name      string
		kind      models.DocumentKind
		fileName  string
		content   func(t *testing.T) []byte
		validated bool
		notes     string
	}{
		{"pdf timesheet", models.TimesheetDocument, "ts.pdf", func(*testing.T) []byte { return []byte("%PDF-1.4") }, false, "PDF timesheet requires manual review"},
		{"pdf rate card", models.RateCardDocument, "rates.pdf", func(*testing.T) []byte { return []byte("%PDF-1.4") }, false, "PDF rate card requires manual review"},
		{"spreadsheet rate card", models.RateCardDocument, "rates.xlsx", rateCard, true, "Validated: 2 rate entries"},
		{"ringi", models.RingiDocument, "ringi.pdf", func(*testing.T) []byte { return []byte("%PDF-1.4") }, true, "Document received"},
		{"empty annex", models.AnnexDocument, "annex.pdf", func(*testing.T) []byte { return nil }, false, "Empty file detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIntakeFixture()
			resp, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
				Type:     tt.kind,
				FileName: tt.fileName,
				Content:  tt.content(t),
				Uploader: f.pm,
			})
			if err != nil {
				t.Fatalf("Upload() error = %v", err)
			}
			if resp.Validation.IsValid != tt.validated || resp.Validation.Notes != tt.notes {
				t.Errorf("validation = %+v, want validated=%v notes=%q", resp.Validation, tt.validated, tt.notes)
			}
		})
	}
}

func TestUploadRejectsBadRequests(t *testing.T) {
	f := newIntakeFixture()

	_, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
		Type:     models.TimesheetDocument,
		FileName: "timesheet.docx",
		Content:  []byte("x"),
		Uploader: f.pm,
	})
	if !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("expected ErrInvalidUpload, got %v", err)
	}
	if len(f.storage.files) != 0 || len(f.repo.documents) != 0 {
		t.Error("rejected upload must not store anything")
	}
}

func TestUploadRemovesStoredFileWhenPersistFails(t *testing.T) {
	f := newIntakeFixture()
	f.repo.failNext = errors.New("database unavailable")

	_, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
		Type:     models.RingiDocument,
		FileName: "ringi.pdf",
		Content:  []byte("%PDF-1.4"),
		Uploader: f.pm,
	})
	if err == nil {
		t.Fatal("expected persist error")
	}
	if len(f.storage.files) != 0 {
		t.Errorf("stored files = %d, want 0", len(f.storage.files))
	}
	if len(f.index.indexed) != 0 || len(f.events.events) != 0 {
		t.Error("failed upload must not be indexed or announced")
	}
}

func TestUploadSurvivesIndexFailure(t *testing.T) {
	f := newIntakeFixture()
	f.index.err = errors.New("index closed")

	resp, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
		Type:     models.AnnexDocument,
		FileName: "annex.pdf",
		Content:  []byte("%PDF-1.4"),
		Uploader: f.pm,
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if resp.Document == nil {
		t.Fatal("document missing")
	}
}

func uploadAs(t *testing.T, f *intakeFixture, user *models.User, kind models.DocumentKind, name string) *models.DocumentUpload {
	t.Helper()
	resp, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
		Type:     kind,
		FileName: name,
		Content:  []byte("%PDF-1.4"),
		Uploader: user,
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	return resp.Document
}

func TestListScopesProjectManagersToOwnUploads(t *testing.T) {
	f := newIntakeFixture()
	otherPM := &models.User{ID: uuid.New(), Name: "Omar", Role: models.ProjectManagerRole}
	first := uploadAs(t, f, f.pm, models.RingiDocument, "first.pdf")
	second := uploadAs(t, f, f.pm, models.AnnexDocument, "second.pdf")
	uploadAs(t, f, otherPM, models.RingiDocument, "other.pdf")

	own, err := f.service.List(context.Background(), f.pm, documents_requests.ListDocumentsRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(own) != 2 || own[0].ID != second.ID || own[1].ID != first.ID {
		t.Errorf("pm list = %v", own)
	}

	all, err := f.service.List(context.Background(), f.admin, documents_requests.ListDocumentsRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("admin list has %d documents, want 3", len(all))
	}
}

func TestDelete(t *testing.T) {
	f := newIntakeFixture()
	doc := uploadAs(t, f, f.pm, models.RingiDocument, "ringi.pdf")
	otherPM := &models.User{ID: uuid.New(), Name: "Omar", Role: models.ProjectManagerRole}

	if err := f.service.Delete(context.Background(), otherPM, doc.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if err := f.service.Delete(context.Background(), f.admin, uuid.New()); !errors.Is(err, repositories.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}

	if err := f.service.Delete(context.Background(), f.admin, doc.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(f.repo.documents) != 0 || len(f.storage.files) != 0 {
		t.Error("document row and file should be removed")
	}
	last := f.repo.audit[len(f.repo.audit)-1]
	if last.Action != models.DocumentDeletedAction || last.Details != "Deleted RINGI: ringi.pdf" || last.Username != "Asha Admin" {
		t.Errorf("audit = %+v", last)
	}
	if len(f.index.deleted) != 1 || f.index.deleted[0] != doc.ID.String() {
		t.Errorf("index deletes = %v", f.index.deleted)
	}
}

func TestSearchFiltersInaccessibleHits(t *testing.T) {
	f := newIntakeFixture()
	mine := uploadAs(t, f, f.pm, models.RingiDocument, "ringi_mine.pdf")
	theirs := uploadAs(t, f, f.vendor, models.RingiDocument, "ringi_theirs.pdf")
	f.index.hits = []string{theirs.ID.String(), mine.ID.String(), uuid.New().String()}

	results, err := f.service.Search(context.Background(), f.pm, documents_requests.SearchDocumentsRequest{Query: "ringi"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].ID != mine.ID {
		t.Errorf("pm results = %v", results)
	}

	results, err = f.service.Search(context.Background(), f.admin, documents_requests.SearchDocumentsRequest{Query: "ringi"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 || results[0].ID != theirs.ID {
		t.Errorf("admin results should keep hit order, got %v", results)
	}

	if _, err := f.service.Search(context.Background(), f.admin, documents_requests.SearchDocumentsRequest{Query: "  "}); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestDownload(t *testing.T) {
	f := newIntakeFixture()
	doc := uploadAs(t, f, f.pm, models.AnnexDocument, "annex.pdf")

	_, reader, err := f.service.Download(context.Background(), f.pm, doc.ID)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	defer reader.Close()
	content, _ := io.ReadAll(reader)
	if string(content) != "%PDF-1.4" {
		t.Errorf("content = %q", content)
	}

	if _, _, err := f.service.Download(context.Background(), f.vendor, doc.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestExportValidationReport(t *testing.T) {
	f := newIntakeFixture()
	content := testutil.BuildWorkbook(t, [][]interface{}{
		testutil.TimesheetHeader,
		{"alice", "2024-01-05", "ProjA", 8},
		{"alice", "2024-01-05", "ProjA", 8},
	})
	resp, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
		Type:     models.TimesheetDocument,
		FileName: "dupes.xlsx",
		Content:  content,
		Uploader: f.pm,
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	name, report, err := f.service.ExportValidationReport(context.Background(), f.pm, resp.Document.ID)
	if err != nil {
		t.Fatalf("ExportValidationReport() error = %v", err)
	}
	if name != "validation_report_dupes.xlsx" {
		t.Errorf("name = %q", name)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(report))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer wb.Close()

	if got := wb.GetSheetList(); strings.Join(got, ",") != "Summary,Errors,Warnings,Entries" {
		t.Errorf("sheets = %v", got)
	}
	warnings, _ := wb.GetRows("Warnings")
	if len(warnings) != 2 || !strings.Contains(warnings[1][1], "Potential duplicate entry for alice") {
		t.Errorf("warnings sheet = %v", warnings)
	}
	entries, _ := wb.GetRows("Entries")
	if len(entries) != 3 {
		t.Errorf("entries sheet has %d rows, want 3", len(entries))
	}

	ringi := uploadAs(t, f, f.pm, models.RingiDocument, "ringi.pdf")
	if _, _, err := f.service.ExportValidationReport(context.Background(), f.pm, ringi.ID); !errors.Is(err, ErrNoValidationReport) {
		t.Errorf("expected ErrNoValidationReport, got %v", err)
	}
}

func TestExportValidationReportNameDropsUploadExtension(t *testing.T) {
	f := newIntakeFixture()
	resp, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
		Type:     models.TimesheetDocument,
		FileName: "March 2024.v2.xlsx",
		Content:  validTimesheet(t),
		Uploader: f.pm,
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	name, _, err := f.service.ExportValidationReport(context.Background(), f.pm, resp.Document.ID)
	if err != nil {
		t.Fatalf("ExportValidationReport() error = %v", err)
	}
	if name != "validation_report_March_2024.v2.xlsx" {
		t.Errorf("name = %q", name)
	}
}

type recordingCrossChecker struct {
	vendors []string
}

func (c *recordingCrossChecker) CrossCheck(_ context.Context, vendorID string, _ *string, _ decimal.Decimal) (*ratecard_services.CrossCheckResult, error) {
	c.vendors = append(c.vendors, vendorID)
	return &ratecard_services.CrossCheckResult{}, nil
}

func TestUploadPricesAgainstUploaderVendor(t *testing.T) {
	other := "V-999"
	tests := []struct {
		name       string
		uploader   func(f *intakeFixture) *models.User
		vendorID   *string
		wantVendor string
	}{
		{"vendor cannot borrow another vendor's cards", func(f *intakeFixture) *models.User { return f.vendor }, &other, "V-100"},
		{"vendor without form field", func(f *intakeFixture) *models.User { return f.vendor }, nil, "V-100"},
		{"internal user picks the vendor", func(f *intakeFixture) *models.User { return f.pm }, &other, "V-999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIntakeFixture()
			checker := &recordingCrossChecker{}
			f.service.Timesheets = validators.NewTimesheetValidator(utils.FixedClock{At: intakeTime}, checker)

			resp, err := f.service.Upload(context.Background(), &documents_requests.UploadDocumentRequest{
				Type:     models.TimesheetDocument,
				FileName: "march.xlsx",
				Content:  validTimesheet(t),
				VendorID: tt.vendorID,
				Uploader: tt.uploader(f),
			})
			if err != nil {
				t.Fatalf("Upload() error = %v", err)
			}
			if len(checker.vendors) != 1 || checker.vendors[0] != tt.wantVendor {
				t.Errorf("cross-checked vendors = %v, want [%s]", checker.vendors, tt.wantVendor)
			}
			if got := resp.Document.Metadata.Data().VendorID; got == nil || *got != tt.wantVendor {
				t.Errorf("stored vendor = %v, want %s", got, tt.wantVendor)
			}
		})
	}
}
