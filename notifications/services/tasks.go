package services

import (
	"context"
	"encoding/json"
	"fmt"

	"invoiceflow-backend/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeEmailNotification = "notification:email"
	NotificationQueue     = "notifications"
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewEmailNotificationTask(req SendRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification: %w", err)
	}
	return asynq.NewTask(TypeEmailNotification, payload, asynq.MaxRetry(3), asynq.Queue(NotificationQueue)), nil
}

// Dispatcher queues notifications for the background worker.
type Dispatcher struct {
	Client TaskEnqueuer
}

func NewDispatcher(client TaskEnqueuer) *Dispatcher {
	return &Dispatcher{Client: client}
}

func (d *Dispatcher) Dispatch(ctx context.Context, req SendRequest) error {
	task, err := NewEmailNotificationTask(req)
	if err != nil {
		return err
	}

	info, err := d.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	config.Logger.Debug("Notification queued",
		zap.String("task_id", info.ID),
		zap.String("recipient", req.RecipientEmail),
		zap.String("type", string(req.Type)))
	return nil
}

// HandleEmailTask is the asynq handler for TypeEmailNotification.
func (s *NotificationService) HandleEmailTask(ctx context.Context, t *asynq.Task) error {
	var req SendRequest
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		return fmt.Errorf("invalid notification payload: %v: %w", err, asynq.SkipRetry)
	}
	_, err := s.Send(ctx, req)
	return err
}

func NewWorkerMux(s *NotificationService) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailNotification, s.HandleEmailTask)
	return mux
}
