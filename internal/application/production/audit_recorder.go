package production

import (
	"context"
	"fmt"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"go.uber.org/zap"
)

// AuditRecorder appends one entry per transition. Failures are returned to the
// coordinator, which reports them as warnings.
type AuditRecorder struct {
	sink   AuditSink
	logger *zap.Logger
}

// NewAuditRecorder creates an audit recorder over a sink
func NewAuditRecorder(sink AuditSink, logger *zap.Logger) *AuditRecorder {
	return &AuditRecorder{sink: sink, logger: logger}
}

// Record appends the entry
func (r *AuditRecorder) Record(ctx context.Context, entry *production.AuditLogEntry) error {
	if entry.IsNonLinear() {
		r.logger.Warn("non-linear job transition",
			zap.String("tenant_id", entry.TenantID.String()),
			zap.String("job_id", entry.JobID.String()),
			zap.String("from", entry.OldStatus.String()),
			zap.String("to", entry.NewStatus.String()),
		)
	}

	if r.sink == nil {
		return nil
	}
	if err := r.sink.Append(ctx, entry); err != nil {
		r.logger.Error("failed to append audit entry",
			zap.String("job_id", entry.JobID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}
