package production

import (
	"context"
	"fmt"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AutomationPolicy is one side effect reacting to a committed status change.
// Policies run in order; a failing policy never affects the others.
type AutomationPolicy interface {
	// Name identifies the automation in audit entries and warnings
	Name() string
	// AppliesTo decides from the snapshot whether the automation should run
	AppliesTo(snap *JobSnapshot, tr Transition) bool
	// Apply performs the side effect
	Apply(ctx context.Context, snap *JobSnapshot, tr Transition) (StepOutcome, error)
}

// StepOutcome is what a policy reports back to the coordinator
type StepOutcome struct {
	Fired            bool
	StockUpdated     bool
	ConsumedKg       decimal.Decimal
	InvoiceCreated   bool
	InvoiceID        *uuid.UUID
	NotificationSent bool
}

// DefaultPolicies returns the stock, invoice and notification automations in execution order
func DefaultPolicies(
	estimator production.ConsumptionEstimator,
	booker ConsumptionBooker,
	invoices InvoiceCreator,
	dispatcher NotificationDispatcher,
) []AutomationPolicy {
	return []AutomationPolicy{
		NewStockDecrementPolicy(estimator, booker),
		NewAutoInvoicePolicy(invoices),
		NewNotificationPolicy(dispatcher),
	}
}

// StockDecrementPolicy books powder consumption the first time a job enters curing
type StockDecrementPolicy struct {
	estimator production.ConsumptionEstimator
	booker    ConsumptionBooker
}

// NewStockDecrementPolicy creates the stock decrement automation
func NewStockDecrementPolicy(estimator production.ConsumptionEstimator, booker ConsumptionBooker) *StockDecrementPolicy {
	return &StockDecrementPolicy{estimator: estimator, booker: booker}
}

// Name implements AutomationPolicy
func (p *StockDecrementPolicy) Name() string {
	return production.AutomationStockDecrement
}

// AppliesTo implements AutomationPolicy
func (p *StockDecrementPolicy) AppliesTo(snap *JobSnapshot, tr Transition) bool {
	return tr.To == production.JobStatusCuring &&
		tr.From != production.JobStatusCuring &&
		snap.Job.HasMaterial() &&
		!snap.Job.IsConsumptionBooked()
}

// Apply implements AutomationPolicy. The snapshot must not be mutated here;
// the coordinator folds the outcome back into it.
func (p *StockDecrementPolicy) Apply(ctx context.Context, snap *JobSnapshot, tr Transition) (StepOutcome, error) {
	job := snap.Job
	qty := p.estimator.EstimateJob(job, snap.Material, production.GeometryFromQuote(snap.Quote))

	outcome, err := p.booker.BookCuringConsumption(ctx, ConsumptionBooking{
		TenantID:   job.TenantID,
		MaterialID: *job.MaterialID,
		JobID:      job.ID,
		Quantity:   qty,
		ActorID:    tr.ActorID,
		Reason:     fmt.Sprintf("Cuisson %s", job.Number),
	})
	if err != nil {
		return StepOutcome{}, err
	}
	if outcome.Skipped {
		return StepOutcome{}, nil
	}
	return StepOutcome{Fired: true, StockUpdated: true, ConsumedKg: qty}, nil
}

// AutoInvoicePolicy issues the invoice when the client's trigger status is reached
type AutoInvoicePolicy struct {
	invoices InvoiceCreator
}

// NewAutoInvoicePolicy creates the auto invoice automation
func NewAutoInvoicePolicy(invoices InvoiceCreator) *AutoInvoicePolicy {
	return &AutoInvoicePolicy{invoices: invoices}
}

// Name implements AutomationPolicy
func (p *AutoInvoicePolicy) Name() string {
	return production.AutomationAutoInvoice
}

// TriggerMatches reports whether entering status fires the client's invoice trigger
func TriggerMatches(trigger partner.InvoiceTrigger, status production.JobStatus) bool {
	switch trigger {
	case partner.InvoiceTriggerOnReady:
		return status == production.JobStatusReady
	case partner.InvoiceTriggerOnDelivered:
		return status == production.JobStatusDelivered
	}
	return false
}

// AppliesTo implements AutomationPolicy
func (p *AutoInvoicePolicy) AppliesTo(snap *JobSnapshot, tr Transition) bool {
	return snap.Client != nil &&
		TriggerMatches(snap.Client.InvoiceTrigger, tr.To) &&
		!snap.Job.IsInvoiced()
}

// Apply implements AutomationPolicy
func (p *AutoInvoicePolicy) Apply(ctx context.Context, snap *JobSnapshot, tr Transition) (StepOutcome, error) {
	outcome, err := p.invoices.CreateForJob(ctx, InvoiceRequest{
		Job:     snap.Job,
		Client:  snap.Client,
		Quote:   snap.Quote,
		ActorID: tr.ActorID,
	})
	if err != nil {
		return StepOutcome{}, err
	}

	step := StepOutcome{Fired: outcome.Created, InvoiceCreated: outcome.Created}
	if outcome.Invoice != nil {
		id := outcome.Invoice.ID
		step.InvoiceID = &id
	}
	return step, nil
}

// NotificationPolicy tells the workshop when a job is ready or delivered
type NotificationPolicy struct {
	dispatcher NotificationDispatcher
}

// NewNotificationPolicy creates the notification automation
func NewNotificationPolicy(dispatcher NotificationDispatcher) *NotificationPolicy {
	return &NotificationPolicy{dispatcher: dispatcher}
}

// Name implements AutomationPolicy
func (p *NotificationPolicy) Name() string {
	return production.AutomationNotification
}

// AppliesTo implements AutomationPolicy
func (p *NotificationPolicy) AppliesTo(_ *JobSnapshot, tr Transition) bool {
	return p.dispatcher != nil && tr.To.NotifiesCustomer()
}

// Apply implements AutomationPolicy
func (p *NotificationPolicy) Apply(ctx context.Context, snap *JobSnapshot, tr Transition) (StepOutcome, error) {
	if err := p.dispatcher.Notify(ctx, snap.Job.TenantID, BuildStatusNotification(snap, tr.To)); err != nil {
		return StepOutcome{}, err
	}
	return StepOutcome{Fired: true, NotificationSent: true}, nil
}

// BuildStatusNotification renders the notice for a job reaching status
func BuildStatusNotification(snap *JobSnapshot, status production.JobStatus) NotificationPayload {
	job := snap.Job
	payload := NotificationPayload{
		Type:      "job_status",
		JobID:     job.ID,
		JobNumber: job.Number,
		ClientID:  job.ClientID,
		Status:    status.String(),
		Link:      fmt.Sprintf("/jobs/%s", job.ID),
	}

	clientName := ""
	if snap.Client != nil {
		clientName = snap.Client.Name
	}

	switch status {
	case production.JobStatusReady:
		payload.Title = fmt.Sprintf("Projet %s prêt", job.Number)
		payload.Message = fmt.Sprintf("Le projet %s est prêt à être livré", job.Number)
	case production.JobStatusDelivered:
		payload.Title = fmt.Sprintf("Projet %s livré", job.Number)
		payload.Message = fmt.Sprintf("Le projet %s a été livré", job.Number)
	default:
		payload.Title = fmt.Sprintf("Projet %s: %s", job.Number, status)
		payload.Message = payload.Title
	}
	if clientName != "" {
		payload.Message += " (" + clientName + ")"
	}
	return payload
}

var (
	_ AutomationPolicy = (*StockDecrementPolicy)(nil)
	_ AutomationPolicy = (*AutoInvoicePolicy)(nil)
	_ AutomationPolicy = (*NotificationPolicy)(nil)
)
