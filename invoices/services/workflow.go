package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invoiceflow-backend/config"
	"invoiceflow-backend/db/models"
	invoice_repositories "invoiceflow-backend/invoices/repositories"
	notification_services "invoiceflow-backend/notifications/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WorkflowAction string

const (
	DigitizeAction        WorkflowAction = "DIGITIZE"
	VerifyAction          WorkflowAction = "VERIFY"
	FlagValidationAction  WorkflowAction = "FLAG_VALIDATION"
	FlagDiscrepancyAction WorkflowAction = "FLAG_DISCREPANCY"
	SubmitAction          WorkflowAction = "SUBMIT"
	ApproveAction         WorkflowAction = "APPROVE"
	RejectAction          WorkflowAction = "REJECT"
	PayAction             WorkflowAction = "PAY"
	RestoreAction         WorkflowAction = "RESTORE"
)

var (
	ErrUnknownAction     = errors.New("unknown workflow action")
	ErrInvalidTransition = errors.New("action not allowed from current status")
	ErrRoleNotAllowed    = errors.New("role not allowed to perform this action")
	ErrNotAssigned       = errors.New("project manager is not assigned to this project")
	ErrCommentsRequired  = errors.New("comments are required for this action")
)

const restoredComment = "Restored to review by admin"

type transition struct {
	from             []models.InvoiceStatus
	to               models.InvoiceStatus
	roles            []models.Role
	requiresComments bool
}

var reviewStatuses = []models.InvoiceStatus{
	models.ReceivedInvoice,
	models.DigitizedInvoice,
	models.ValidationRequiredInvoice,
	models.VerifiedInvoice,
	models.MatchDiscrepancyInvoice,
	models.PendingApprovalInvoice,
}

var transitions = map[WorkflowAction]transition{
	DigitizeAction: {
		from:  []models.InvoiceStatus{models.ReceivedInvoice},
		to:    models.DigitizedInvoice,
		roles: []models.Role{models.AdminRole, models.FinanceUserRole},
	},
	VerifyAction: {
		from:  []models.InvoiceStatus{models.DigitizedInvoice, models.ValidationRequiredInvoice, models.MatchDiscrepancyInvoice},
		to:    models.VerifiedInvoice,
		roles: []models.Role{models.AdminRole, models.FinanceUserRole},
	},
	FlagValidationAction: {
		from:  []models.InvoiceStatus{models.DigitizedInvoice, models.VerifiedInvoice},
		to:    models.ValidationRequiredInvoice,
		roles: []models.Role{models.AdminRole, models.FinanceUserRole, models.ProjectManagerRole},
	},
	FlagDiscrepancyAction: {
		from:  []models.InvoiceStatus{models.VerifiedInvoice, models.DigitizedInvoice},
		to:    models.MatchDiscrepancyInvoice,
		roles: []models.Role{models.AdminRole, models.FinanceUserRole},
	},
	SubmitAction: {
		from:  []models.InvoiceStatus{models.VerifiedInvoice},
		to:    models.PendingApprovalInvoice,
		roles: []models.Role{models.AdminRole, models.FinanceUserRole},
	},
	ApproveAction: {
		from:  []models.InvoiceStatus{models.PendingApprovalInvoice},
		to:    models.ApprovedInvoice,
		roles: []models.Role{models.AdminRole, models.ProjectManagerRole, models.FinanceUserRole},
	},
	RejectAction: {
		from:             reviewStatuses,
		to:               models.RejectedInvoice,
		roles:            []models.Role{models.AdminRole, models.ProjectManagerRole, models.FinanceUserRole},
		requiresComments: true,
	},
	PayAction: {
		from:  []models.InvoiceStatus{models.ApprovedInvoice},
		to:    models.PaidInvoice,
		roles: []models.Role{models.AdminRole, models.FinanceUserRole},
	},
	RestoreAction: {
		from:  []models.InvoiceStatus{models.ApprovedInvoice, models.RejectedInvoice},
		to:    models.PendingApprovalInvoice,
		roles: []models.Role{models.AdminRole},
	},
}

func ParseWorkflowAction(s string) (WorkflowAction, error) {
	action := WorkflowAction(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := transitions[action]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return action, nil
}

// NextStatus resolves the status an invoice moves to when role performs
// action on it. It does not check project assignment.
func NextStatus(current models.InvoiceStatus, action WorkflowAction, role models.Role) (models.InvoiceStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if !containsRole(t.roles, role) {
		return "", fmt.Errorf("%w: %s cannot %s", ErrRoleNotAllowed, role, action)
	}
	if !containsStatus(t.from, current) {
		return "", fmt.Errorf("%w: cannot %s an invoice in %s", ErrInvalidTransition, action, current)
	}
	return t.to, nil
}

// AvailableActions lists what role may do next with an invoice in current.
func AvailableActions(current models.InvoiceStatus, role models.Role) []WorkflowAction {
	order := []WorkflowAction{
		DigitizeAction, VerifyAction, FlagValidationAction, FlagDiscrepancyAction,
		SubmitAction, ApproveAction, RejectAction, PayAction, RestoreAction,
	}
	actions := []WorkflowAction{}
	for _, action := range order {
		if _, err := NextStatus(current, action, role); err == nil {
			actions = append(actions, action)
		}
	}
	return actions
}

func containsRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func containsStatus(statuses []models.InvoiceStatus, status models.InvoiceStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type EventPublisher interface {
	PublishToUser(userID uuid.UUID, eventType string, payload interface{})
}

type TransitionResult struct {
	Invoice *models.Invoice      `json:"invoice"`
	From    models.InvoiceStatus `json:"from"`
	To      models.InvoiceStatus `json:"to"`
	Action  WorkflowAction       `json:"action"`
}

type WorkflowService struct {
	Invoices   invoice_repositories.InvoiceRepository
	Users      UserLookup
	Dispatcher notification_services.NotificationDispatcher
	Events     EventPublisher
}

func NewWorkflowService(
	invoices invoice_repositories.InvoiceRepository,
	users UserLookup,
	dispatcher notification_services.NotificationDispatcher,
	events EventPublisher,
) *WorkflowService {
	return &WorkflowService{Invoices: invoices, Users: users, Dispatcher: dispatcher, Events: events}
}

// Transition applies action to the invoice on behalf of user, records the
// audit entry and queues the notification for the affected party.
func (s *WorkflowService) Transition(ctx context.Context, invoiceID uuid.UUID, user *models.User, action WorkflowAction, comments string) (*TransitionResult, error) {
	invoice, err := s.Invoices.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if user.Role == models.ProjectManagerRole && !user.IsAssignedTo(invoice.Project) {
		return nil, ErrNotAssigned
	}

	return s.apply(ctx, invoice, user.DisplayName(), user.Role, action, comments)
}

// FlagValidationRequired moves an invoice to VALIDATION_REQUIRED after a
// supporting timesheet fails validation. Invoices in other statuses are left
// alone.
func (s *WorkflowService) FlagValidationRequired(ctx context.Context, invoiceID uuid.UUID, reason string) error {
	invoice, err := s.Invoices.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return err
	}

	if _, err := NextStatus(invoice.Status, FlagValidationAction, models.AdminRole); err != nil {
		config.Logger.Debug("Invoice not flagged for validation",
			zap.String("invoice_id", invoiceID.String()),
			zap.String("status", string(invoice.Status)))
		return nil
	}

	_, err = s.apply(ctx, invoice, models.SystemUserName, models.AdminRole, FlagValidationAction, reason)
	return err
}

func (s *WorkflowService) apply(ctx context.Context, invoice *models.Invoice, actor string, role models.Role, action WorkflowAction, comments string) (*TransitionResult, error) {
	to, err := NextStatus(invoice.Status, action, role)
	if err != nil {
		return nil, err
	}

	comments = strings.TrimSpace(comments)
	if transitions[action].requiresComments && comments == "" {
		return nil, ErrCommentsRequired
	}
	if action == RestoreAction && comments == "" {
		comments = restoredComment
	}

	details := fmt.Sprintf("%s: %s -> %s", action, invoice.Status, to)
	var comment *string
	if comments != "" {
		details += " (" + comments + ")"
		comment = &comments
	}

	id := invoice.ID
	entry := &models.AuditTrailEntry{
		InvoiceID: &id,
		Username:  actor,
		Action:    models.WorkflowAuditAction(string(action)),
		Details:   details,
	}

	updated, err := s.Invoices.UpdateStatusWithAudit(ctx, invoice_repositories.StatusUpdate{
		InvoiceID: invoice.ID,
		From:      invoice.Status,
		To:        to,
		Comment:   comment,
	}, entry)
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Invoice workflow transition",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("action", string(action)),
		zap.String("from", string(invoice.Status)),
		zap.String("to", string(to)),
		zap.String("actor", actor))

	result := &TransitionResult{Invoice: updated, From: invoice.Status, To: to, Action: action}
	s.notify(ctx, result, comments)
	return result, nil
}

// notify is best effort; the transition is already committed.
func (s *WorkflowService) notify(ctx context.Context, result *TransitionResult, comments string) {
	invoice := result.Invoice
	recipient, notificationType := s.recipientFor(ctx, result)

	if s.Events != nil && recipient != nil {
		s.Events.PublishToUser(recipient.ID, "invoice.status_changed", result)
	}
	if s.Dispatcher == nil || recipient == nil || recipient.Email == "" {
		return
	}

	invoiceID := invoice.ID.String()
	message := fmt.Sprintf("Invoice %s for project %s is now %s.", invoiceNumber(invoice), invoice.Project, result.To)
	if comments != "" {
		message += "\n\nComments: " + comments
	}

	err := s.Dispatcher.Dispatch(ctx, notification_services.SendRequest{
		RecipientEmail:  recipient.Email,
		Subject:         fmt.Sprintf("Invoice %s %s", invoiceNumber(invoice), strings.ToLower(strings.ReplaceAll(string(result.To), "_", " "))),
		Message:         message,
		RelatedEntityID: &invoiceID,
		Type:            notificationType,
	})
	if err != nil {
		config.Logger.Warn("Failed to queue workflow notification",
			zap.String("invoice_id", invoiceID),
			zap.Error(err))
	}
}

// recipientFor picks who hears about a transition: the submitter for outcomes,
// the assigned project manager for anything waiting on approval.
func (s *WorkflowService) recipientFor(ctx context.Context, result *TransitionResult) (*models.User, models.NotificationType) {
	invoice := result.Invoice

	switch result.To {
	case models.PendingApprovalInvoice:
		if invoice.AssignedPM != nil {
			return invoice.AssignedPM, models.PendingApprovalNotification
		}
		if invoice.AssignedPMID != nil {
			return s.lookupUser(ctx, *invoice.AssignedPMID), models.PendingApprovalNotification
		}
	case models.ApprovedInvoice, models.RejectedInvoice, models.PaidInvoice:
		if invoice.SubmittedByUserID != nil {
			t := models.ApprovedNotification
			if result.To == models.RejectedInvoice {
				t = models.RejectedNotification
			} else if result.To == models.PaidInvoice {
				t = models.PaidNotification
			}
			return s.lookupUser(ctx, *invoice.SubmittedByUserID), t
		}
	}
	return nil, ""
}

func (s *WorkflowService) lookupUser(ctx context.Context, id uuid.UUID) *models.User {
	if s.Users == nil {
		return nil
	}
	user, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		config.Logger.Warn("Notification recipient not found", zap.String("user_id", id.String()), zap.Error(err))
		return nil
	}
	return user
}

func invoiceNumber(invoice *models.Invoice) string {
	if invoice.InvoiceNumber != "" {
		return invoice.InvoiceNumber
	}
	return invoice.ID.String()
}
