package services

import (
	"context"
	"errors"

	audit_repositories "invoiceflow-backend/audit/repositories"
	"invoiceflow-backend/db/models"
	invoice_repositories "invoiceflow-backend/invoices/repositories"

	"github.com/google/uuid"
)

var ErrInvoiceHidden = errors.New("not authorized to view this invoice")

// InvoiceView is an invoice together with the actions the viewer may take.
type InvoiceView struct {
	Invoice          *models.Invoice  `json:"invoice"`
	AvailableActions []WorkflowAction `json:"availableActions"`
}

type InvoiceService struct {
	Invoices invoice_repositories.InvoiceRepository
	Audit    audit_repositories.AuditRepository
}

func NewInvoiceService(invoices invoice_repositories.InvoiceRepository, audit audit_repositories.AuditRepository) *InvoiceService {
	return &InvoiceService{Invoices: invoices, Audit: audit}
}

func (s *InvoiceService) visibleInvoice(ctx context.Context, user *models.User, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.Invoices.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanUserSeeInvoice(user, invoice) {
		return nil, ErrInvoiceHidden
	}
	return invoice, nil
}

func (s *InvoiceService) Get(ctx context.Context, user *models.User, id uuid.UUID) (*InvoiceView, error) {
	invoice, err := s.visibleInvoice(ctx, user, id)
	if err != nil {
		return nil, err
	}

	actions := AvailableActions(invoice.Status, user.Role)
	if user.Role == models.ProjectManagerRole && !user.IsAssignedTo(invoice.Project) {
		actions = []WorkflowAction{}
	}
	return &InvoiceView{Invoice: invoice, AvailableActions: actions}, nil
}

// AuditTrail returns the invoice's history, oldest first.
func (s *InvoiceService) AuditTrail(ctx context.Context, user *models.User, id uuid.UUID) ([]models.AuditTrailEntry, error) {
	if _, err := s.visibleInvoice(ctx, user, id); err != nil {
		return nil, err
	}
	return s.Audit.GetInvoiceAuditTrail(ctx, id)
}
