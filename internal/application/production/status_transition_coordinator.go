package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "thermogestion/production"

// DefaultStepTimeout bounds each automation when no timeout is configured
const DefaultStepTimeout = 10 * time.Second

const auditStepName = "audit"

// CoordinatorConfig tunes the transition coordinator
type CoordinatorConfig struct {
	// StepTimeout bounds each automation and the audit write
	StepTimeout time.Duration
	// StrictTransitions rejects transitions that leave the pipeline
	StrictTransitions bool
}

// StatusTransitionCoordinator persists a job status change and runs the automations.
// The status write is authoritative: automation failures are reported as warnings
// and never undo it.
type StatusTransitionCoordinator struct {
	scope     TransactionScope
	policies  []AutomationPolicy
	audit     *AuditRecorder
	publisher shared.EventPublisher
	metrics   TransitionMetrics
	logger    *zap.Logger
	cfg       CoordinatorConfig
	tracer    trace.Tracer
	now       func() time.Time
}

// NewStatusTransitionCoordinator creates a coordinator running the given policies in order
func NewStatusTransitionCoordinator(
	scope TransactionScope,
	policies []AutomationPolicy,
	audit *AuditRecorder,
	cfg CoordinatorConfig,
	logger *zap.Logger,
) *StatusTransitionCoordinator {
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = DefaultStepTimeout
	}
	return &StatusTransitionCoordinator{
		scope:    scope,
		policies: policies,
		audit:    audit,
		logger:   logger,
		cfg:      cfg,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// WithEventPublisher publishes job events after the status write commits
func (c *StatusTransitionCoordinator) WithEventPublisher(publisher shared.EventPublisher) *StatusTransitionCoordinator {
	c.publisher = publisher
	return c
}

// WithMetrics records transition counters
func (c *StatusTransitionCoordinator) WithMetrics(metrics TransitionMetrics) *StatusTransitionCoordinator {
	c.metrics = metrics
	return c
}

// WithClock overrides the time source
func (c *StatusTransitionCoordinator) WithClock(now func() time.Time) *StatusTransitionCoordinator {
	c.now = now
	return c
}

// Transition moves a job to the requested status and runs the automations.
// Errors are returned only when the status could not be written; everything
// after that ends up in TransitionResult.Warnings.
func (c *StatusTransitionCoordinator) Transition(ctx context.Context, cmd TransitionCommand) (*TransitionResult, error) {
	target, err := production.ParseJobStatus(cmd.TargetStatus)
	if err != nil {
		return nil, err
	}
	if cmd.TenantID == uuid.Nil || cmd.JobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant ID and job ID are required")
	}

	ctx, span := c.tracer.Start(ctx, "job.transition", trace.WithAttributes(
		attribute.String("tenant_id", cmd.TenantID.String()),
		attribute.String("job_id", cmd.JobID.String()),
		attribute.String("target_status", target.String()),
	))
	defer span.End()

	now := c.now()
	snap, tr, warnings, err := c.commitStatus(ctx, cmd, target, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	job := snap.Job
	span.SetAttributes(
		attribute.String("previous_status", tr.From.String()),
		attribute.String("transition_kind", string(tr.Kind)),
	)

	c.logger.Info("job status updated",
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("job_id", job.ID.String()),
		zap.String("job_number", job.Number),
		zap.String("from", tr.From.String()),
		zap.String("to", tr.To.String()),
		zap.String("kind", string(tr.Kind)),
	)

	c.publishEvents(ctx, job)
	if c.metrics != nil {
		c.metrics.RecordTransition(ctx, job.TenantID, tr.From, tr.To, tr.Kind)
	}

	result := &TransitionResult{
		JobID:          job.ID,
		JobNumber:      job.Number,
		PreviousStatus: tr.From,
		Status:         job.Status,
		WorkflowStep:   job.WorkflowStep,
		Kind:           tr.Kind,
		StatusUpdated:  true,
		Warnings:       warnings,
	}

	entry := production.NewAuditLogEntry(job, tr.From, cmd.ActorID, now)

	for _, policy := range c.policies {
		if !policy.AppliesTo(snap, tr) {
			continue
		}
		outcome, err := c.runStep(ctx, policy.Name(), func(stepCtx context.Context) (StepOutcome, error) {
			return policy.Apply(stepCtx, snap, tr)
		})
		c.recordAutomation(ctx, job.TenantID, policy.Name(), outcome, err)
		if err != nil {
			c.logger.Warn("automation failed",
				zap.String("automation", policy.Name()),
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
			result.Warnings = append(result.Warnings, warning(policy.Name(), err))
			continue
		}
		c.merge(snap, tr, result, outcome)
		if outcome.StockUpdated && c.metrics != nil {
			c.metrics.RecordConsumption(ctx, job.TenantID, snap.Material, outcome.ConsumedKg)
		}
		if outcome.Fired {
			entry.Fired(policy.Name())
		}
	}

	entry.Warnings = append(entry.Warnings, result.Warnings...)
	if c.audit != nil {
		_, err := c.runStep(ctx, auditStepName, func(stepCtx context.Context) (StepOutcome, error) {
			return StepOutcome{}, c.audit.Record(stepCtx, entry)
		})
		if err != nil {
			result.Warnings = append(result.Warnings, warning(auditStepName, err))
		}
	}

	if result.HasWarnings() {
		span.SetAttributes(attribute.Int("warnings", len(result.Warnings)))
	}
	return result, nil
}

// commitStatus loads the snapshot and writes the new status in one transaction
func (c *StatusTransitionCoordinator) commitStatus(
	ctx context.Context,
	cmd TransitionCommand,
	target production.JobStatus,
	now time.Time,
) (*JobSnapshot, Transition, []string, error) {
	var (
		snap     *JobSnapshot
		tr       Transition
		warnings []string
	)

	err := c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var loadWarnings []string
		var err error
		snap, loadWarnings, err = loadSnapshot(ctx, repos, cmd.TenantID, cmd.JobID)
		if err != nil {
			return err
		}

		job := snap.Job
		kind := production.ClassifyTransition(job.Status, target)
		if kind == production.TransitionNonLinear && c.cfg.StrictTransitions {
			return shared.NewDomainError("INVALID_TRANSITION",
				fmt.Sprintf("Cannot move job %s from %s to %s", job.Number, job.Status, target))
		}

		previous, err := job.ApplyStatus(target, now)
		if err != nil {
			return err
		}
		if err := repos.JobRepo().UpdateStatus(ctx, job, previous); err != nil {
			return fmt.Errorf("update job status: %w", err)
		}

		tr = Transition{From: previous, To: target, Kind: kind, ActorID: cmd.ActorID, At: now}
		warnings = loadWarnings
		return nil
	})
	if err != nil {
		return nil, Transition{}, nil, err
	}
	if warnings == nil {
		warnings = []string{}
	}
	return snap, tr, warnings, nil
}

// loadSnapshot reads the job and its related records. Only a missing job is fatal;
// missing related records are reported as warnings and left nil.
func loadSnapshot(ctx context.Context, repos TransactionalRepositories, tenantID, jobID uuid.UUID) (*JobSnapshot, []string, error) {
	job, err := repos.JobRepo().FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, nil, err
	}

	snap := &JobSnapshot{Job: job}
	var warnings []string

	client, err := repos.ClientRepo().FindByIDForTenant(ctx, tenantID, job.ClientID)
	switch {
	case err == nil:
		snap.Client = client
	case errors.Is(err, shared.ErrNotFound):
		warnings = append(warnings, warning("snapshot", fmt.Errorf("client %s not found", job.ClientID)))
	default:
		return nil, nil, fmt.Errorf("load client: %w", err)
	}

	if job.HasMaterial() {
		material, err := repos.MaterialRepo().FindByIDForTenant(ctx, tenantID, *job.MaterialID)
		switch {
		case err == nil:
			snap.Material = material
		case errors.Is(err, shared.ErrNotFound):
			// the stock policy reports it when it runs
		default:
			return nil, nil, fmt.Errorf("load material: %w", err)
		}
	}

	if job.HasQuote() {
		quote, err := repos.QuoteRepo().FindByIDForTenant(ctx, tenantID, *job.QuoteID)
		switch {
		case err == nil:
			snap.Quote = quote
		case errors.Is(err, shared.ErrNotFound):
			warnings = append(warnings, warning("snapshot", fmt.Errorf("quote %s not found", *job.QuoteID)))
		default:
			return nil, nil, fmt.Errorf("load quote: %w", err)
		}
	}

	return snap, warnings, nil
}

// runStep runs fn under the step timeout. A step that overruns is abandoned and
// reported as failed even if it later completes.
func (c *StatusTransitionCoordinator) runStep(ctx context.Context, name string, fn func(context.Context) (StepOutcome, error)) (StepOutcome, error) {
	stepCtx, cancel := context.WithTimeout(ctx, c.cfg.StepTimeout)
	defer cancel()

	stepCtx, span := c.tracer.Start(stepCtx, "job.automation."+name)
	defer span.End()

	type stepResult struct {
		outcome StepOutcome
		err     error
	}
	done := make(chan stepResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- stepResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		outcome, err := fn(stepCtx)
		done <- stepResult{outcome: outcome, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			span.RecordError(res.err)
			span.SetStatus(codes.Error, res.err.Error())
		}
		return res.outcome, res.err
	case <-stepCtx.Done():
		err := fmt.Errorf("timed out after %s: %w", c.cfg.StepTimeout, stepCtx.Err())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return StepOutcome{}, err
	}
}

// merge folds a policy outcome into the result and the snapshot
func (c *StatusTransitionCoordinator) merge(snap *JobSnapshot, tr Transition, result *TransitionResult, outcome StepOutcome) {
	if outcome.StockUpdated {
		result.StockUpdated = true
		snap.Job.MarkConsumptionBooked(tr.At)
	}
	if outcome.InvoiceCreated {
		result.InvoiceCreated = true
	}
	if outcome.InvoiceID != nil {
		result.InvoiceID = outcome.InvoiceID
		snap.Job.MarkInvoiced(tr.At)
	}
	if outcome.NotificationSent {
		result.NotificationSent = true
	}
}

func (c *StatusTransitionCoordinator) recordAutomation(ctx context.Context, tenantID uuid.UUID, name string, outcome StepOutcome, err error) {
	if c.metrics == nil {
		return
	}
	status := "skipped"
	switch {
	case err != nil:
		status = "failed"
	case outcome.Fired:
		status = "fired"
	}
	c.metrics.RecordAutomation(ctx, tenantID, name, status)
}

func (c *StatusTransitionCoordinator) publishEvents(ctx context.Context, job *production.Job) {
	events := job.GetDomainEvents()
	job.ClearDomainEvents()
	if c.publisher == nil || len(events) == 0 {
		return
	}
	if err := c.publisher.Publish(ctx, events...); err != nil {
		c.logger.Warn("failed to publish job events",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}

func warning(step string, err error) string {
	return fmt.Sprintf("%s: %v", step, err)
}
