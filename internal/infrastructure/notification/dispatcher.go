package notification

import (
	"context"
	"fmt"

	appinventory "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/inventory"
	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the dispatcher uses
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher hands notices over to the asynq queue. A nil error means the
// task was enqueued, not that anyone read it.
type AsynqDispatcher struct {
	client   Enqueuer
	queue    string
	maxRetry int
	logger   *zap.Logger
}

// NewAsynqDispatcher creates a dispatcher enqueuing on queue
func NewAsynqDispatcher(client Enqueuer, queue string, maxRetry int, logger *zap.Logger) *AsynqDispatcher {
	if queue == "" {
		queue = "default"
	}
	return &AsynqDispatcher{client: client, queue: queue, maxRetry: maxRetry, logger: logger}
}

// Notify enqueues a job status notice
func (d *AsynqDispatcher) Notify(ctx context.Context, tenantID uuid.UUID, payload appproduction.NotificationPayload, targetUserIDs ...uuid.UUID) error {
	targets := make([]string, 0, len(targetUserIDs))
	for _, id := range targetUserIDs {
		targets = append(targets, id.String())
	}
	task, err := NewJobStatusNotificationTask(JobStatusNotificationPayload{
		TenantID:      tenantID.String(),
		TargetUserIDs: targets,
		Notice:        payload,
	})
	if err != nil {
		return err
	}

	info, err := d.client.EnqueueContext(ctx, task, d.options()...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskJobStatusNotification, err)
	}
	d.logger.Debug("notification enqueued",
		zap.String("task_id", info.ID),
		zap.String("job_id", payload.JobID.String()),
		zap.String("type", payload.Type),
	)
	return nil
}

// SendAlert enqueues a restocking alert
func (d *AsynqDispatcher) SendAlert(ctx context.Context, alert appinventory.StockAlert) error {
	task, err := NewStockAlertTask(alert)
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, task, d.options()...); err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskStockAlert, err)
	}
	return nil
}

func (d *AsynqDispatcher) options() []asynq.Option {
	opts := []asynq.Option{asynq.Queue(d.queue)}
	if d.maxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(d.maxRetry))
	}
	return opts
}

// LogDispatcher writes notices to the log; used when the queue is disabled
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a LogDispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Notify logs the notice
func (d *LogDispatcher) Notify(_ context.Context, tenantID uuid.UUID, payload appproduction.NotificationPayload, targetUserIDs ...uuid.UUID) error {
	d.logger.Info("job notification",
		zap.String("tenant_id", tenantID.String()),
		zap.String("job_id", payload.JobID.String()),
		zap.String("job_number", payload.JobNumber),
		zap.String("type", payload.Type),
		zap.String("title", payload.Title),
		zap.String("message", payload.Message),
		zap.Int("targets", len(targetUserIDs)),
	)
	return nil
}

// SendAlert logs the alert
func (d *LogDispatcher) SendAlert(_ context.Context, alert appinventory.StockAlert) error {
	d.logger.Warn("stock alert",
		zap.String("tenant_id", alert.TenantID),
		zap.String("reference", alert.Reference),
		zap.String("stock_real_kg", alert.StockRealKg),
		zap.String("min_stock_kg", alert.MinStockKg),
		zap.String("alert_type", alert.AlertType),
	)
	return nil
}

var (
	_ appproduction.NotificationDispatcher = (*AsynqDispatcher)(nil)
	_ appinventory.StockAlertNotifier      = (*AsynqDispatcher)(nil)
	_ appproduction.NotificationDispatcher = (*LogDispatcher)(nil)
	_ appinventory.StockAlertNotifier      = (*LogDispatcher)(nil)
)
