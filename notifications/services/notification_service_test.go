package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"invoiceflow-backend/db/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

type memoryNotifications struct {
	saved []models.Notification
	err   error
}

func (m *memoryNotifications) CreateNotification(_ context.Context, n *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, *n)
	return nil
}

func (m *memoryNotifications) GetNotifications(_ context.Context, _ *string, limit int) ([]models.Notification, error) {
	if limit < len(m.saved) {
		return m.saved[:limit], nil
	}
	return m.saved, nil
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type()}, nil
}

func TestSendLogsSentNotification(t *testing.T) {
	repo := &memoryNotifications{}
	mailer := &recordingMailer{}
	svc := NewNotificationService(repo, mailer)

	n, err := svc.Send(context.Background(), SendRequest{
		RecipientEmail: "pm@example.com",
		Subject:        "Invoice approved",
		Message:        "INV-1 approved",
		Type:           models.ApprovedNotification,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n.Status != models.SentNotification || len(repo.saved) != 1 || len(mailer.sent) != 1 {
		t.Errorf("status=%s saved=%d sent=%d", n.Status, len(repo.saved), len(mailer.sent))
	}
}

func TestSendLogsFailedNotification(t *testing.T) {
	repo := &memoryNotifications{}
	svc := NewNotificationService(repo, &recordingMailer{err: errors.New("smtp: 421 try later")})

	n, err := svc.Send(context.Background(), SendRequest{RecipientEmail: "pm@example.com", Subject: "s"})
	if err == nil {
		t.Fatal("expected delivery error to be returned")
	}
	if n.Status != models.FailedNotification || n.Error == nil || !strings.Contains(*n.Error, "421") {
		t.Errorf("notification = %+v", n)
	}
	if len(repo.saved) != 1 || repo.saved[0].Status != models.FailedNotification {
		t.Errorf("failed attempt must be logged, saved = %+v", repo.saved)
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	svc := NewNotificationService(&memoryNotifications{}, &recordingMailer{})
	if _, err := svc.Send(context.Background(), SendRequest{Subject: "s"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDispatchAndHandleEmailTask(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	dispatcher := NewDispatcher(enqueuer)
	related := "inv-1"

	err := dispatcher.Dispatch(context.Background(), SendRequest{
		RecipientEmail:  "vendor@example.com",
		Subject:         "Invoice paid",
		Message:         "paid",
		RelatedEntityID: &related,
		Type:            models.PaidNotification,
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(enqueuer.tasks) != 1 || enqueuer.tasks[0].Type() != TypeEmailNotification {
		t.Fatalf("tasks = %+v", enqueuer.tasks)
	}

	repo := &memoryNotifications{}
	mailer := &recordingMailer{}
	svc := NewNotificationService(repo, mailer)
	if err := svc.HandleEmailTask(context.Background(), enqueuer.tasks[0]); err != nil {
		t.Fatalf("HandleEmailTask: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "vendor@example.com|Invoice paid" {
		t.Errorf("sent = %v", mailer.sent)
	}
	if repo.saved[0].RelatedEntityID == nil || *repo.saved[0].RelatedEntityID != "inv-1" {
		t.Errorf("related entity lost: %+v", repo.saved[0])
	}
}

func TestHandleEmailTaskRejectsBadPayload(t *testing.T) {
	svc := NewNotificationService(&memoryNotifications{}, &recordingMailer{})
	err := svc.HandleEmailTask(context.Background(), asynq.NewTask(TypeEmailNotification, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want SkipRetry", err)
	}
}

type fixedInvoices struct {
	invoices []models.Invoice
}

func (f fixedInvoices) GetInvoicesByStatus(_ context.Context, status models.InvoiceStatus) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, inv := range f.invoices {
		if inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func TestSendPendingApprovalReminders(t *testing.T) {
	pm := &models.User{ID: uuid.New(), Name: "Priya", Email: "priya@example.com", Role: models.ProjectManagerRole}
	invoices := fixedInvoices{invoices: []models.Invoice{
		{ID: uuid.New(), InvoiceNumber: "INV-1", Status: models.PendingApprovalInvoice, AssignedPM: pm, Amount: decimal.NewFromInt(1000), Currency: "INR"},
		{ID: uuid.New(), InvoiceNumber: "INV-2", Status: models.PendingApprovalInvoice},
		{ID: uuid.New(), InvoiceNumber: "INV-3", Status: models.ApprovedInvoice, AssignedPM: pm},
	}}
	enqueuer := &recordingEnqueuer{}
	reminders := NewReminderService(invoices, NewDispatcher(enqueuer), "https://app.example.com")

	result, err := reminders.SendPendingApprovalReminders(context.Background())
	if err != nil {
		t.Fatalf("SendPendingApprovalReminders: %v", err)
	}
	if result.Sent != 1 || result.Skipped != 1 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}

	var req SendRequest
	if err := json.Unmarshal(enqueuer.tasks[0].Payload(), &req); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if req.RecipientEmail != pm.Email || req.Type != models.ReminderNotification {
		t.Errorf("request = %+v", req)
	}
	if !strings.Contains(req.Subject, "INV-1") || !strings.Contains(req.Message, "INR 1000.00") {
		t.Errorf("subject=%q message=%q", req.Subject, req.Message)
	}
}

func TestSendPendingApprovalRemindersCountsQueueFailures(t *testing.T) {
	pm := &models.User{Email: "priya@example.com"}
	invoices := fixedInvoices{invoices: []models.Invoice{
		{ID: uuid.New(), Status: models.PendingApprovalInvoice, AssignedPM: pm},
	}}
	reminders := NewReminderService(invoices, NewDispatcher(&recordingEnqueuer{err: errors.New("redis down")}), "")

	result, err := reminders.SendPendingApprovalReminders(context.Background())
	if err != nil {
		t.Fatalf("SendPendingApprovalReminders: %v", err)
	}
	if result.Failed != 1 || result.Sent != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestStartReminderSchedulerRejectsBadSchedule(t *testing.T) {
	if _, err := StartReminderScheduler("not a schedule", &ReminderService{}); err == nil {
		t.Fatal("expected error")
	}
}
