package notification

import (
	"context"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/config"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Sink receives decoded notices; the in-app inbox implements it outside this service
type Sink interface {
	DeliverJobStatus(ctx context.Context, payload JobStatusNotificationPayload) error
	DeliverStockAlert(ctx context.Context, payload StockAlertPayload) error
}

// LogSink writes delivered notices to the log
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// DeliverJobStatus logs the notice
func (s *LogSink) DeliverJobStatus(_ context.Context, p JobStatusNotificationPayload) error {
	s.logger.Info("job notification delivered",
		zap.String("tenant_id", p.TenantID),
		zap.String("job_number", p.Notice.JobNumber),
		zap.String("type", p.Notice.Type),
		zap.Strings("targets", p.TargetUserIDs),
	)
	return nil
}

// DeliverStockAlert logs the alert
func (s *LogSink) DeliverStockAlert(_ context.Context, p StockAlertPayload) error {
	s.logger.Warn("stock alert delivered",
		zap.String("tenant_id", p.Alert.TenantID),
		zap.String("reference", p.Alert.Reference),
		zap.String("alert_type", p.Alert.AlertType),
	)
	return nil
}

// Worker consumes notification tasks from the queue
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sink   Sink
	logger *zap.Logger
}

// NewWorker creates a worker reading the configured queue
func NewWorker(redisCfg config.RedisConfig, cfg config.NotificationConfig, sink Sink, logger *zap.Logger) *Worker {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 5
	}
	server := asynq.NewServer(RedisOpt(redisCfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{cfg.Queue: 1},
	})

	w := &Worker{server: server, mux: asynq.NewServeMux(), sink: sink, logger: logger}
	w.mux.HandleFunc(TaskJobStatusNotification, w.handleJobStatus)
	w.mux.HandleFunc(TaskStockAlert, w.handleStockAlert)
	return w
}

// RedisOpt converts the Redis settings into asynq's connection option
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB}
}

func (w *Worker) handleJobStatus(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseJobStatusNotificationPayload(task)
	if err != nil {
		// malformed payloads never succeed on retry
		w.logger.Error("dropping notification task", zap.Error(err))
		return asynq.SkipRetry
	}
	return w.sink.DeliverJobStatus(ctx, payload)
}

func (w *Worker) handleStockAlert(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseStockAlertPayload(task)
	if err != nil {
		w.logger.Error("dropping stock alert task", zap.Error(err))
		return asynq.SkipRetry
	}
	return w.sink.DeliverStockAlert(ctx, payload)
}

// Run processes tasks until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		w.logger.Error("notification worker failed to start", zap.Error(err))
		return err
	}
	<-ctx.Done()
	w.server.Shutdown()
	return nil
}
