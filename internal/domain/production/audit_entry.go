package production

import (
	"time"

	"github.com/google/uuid"
)

// Automation names recorded in audit entries
const (
	AutomationStockDecrement = "stock_decrement"
	AutomationAutoInvoice    = "auto_invoice"
	AutomationNotification   = "notification"
)

// AuditLogEntry is the append-only record of one transition
type AuditLogEntry struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	JobID            uuid.UUID
	JobNumber        string
	ActorID          *uuid.UUID
	OldStatus        JobStatus
	NewStatus        JobStatus
	OldStep          int
	NewStep          int
	Kind             TransitionKind
	FiredAutomations []string
	Warnings         []string
	OccurredAt       time.Time
}

// NewAuditLogEntry builds the entry for a status change
func NewAuditLogEntry(job *Job, oldStatus JobStatus, actorID *uuid.UUID, at time.Time) *AuditLogEntry {
	return &AuditLogEntry{
		ID:               uuid.New(),
		TenantID:         job.TenantID,
		JobID:            job.ID,
		JobNumber:        job.Number,
		ActorID:          actorID,
		OldStatus:        oldStatus,
		NewStatus:        job.Status,
		OldStep:          oldStatus.WorkflowStep(),
		NewStep:          job.WorkflowStep,
		Kind:             ClassifyTransition(oldStatus, job.Status),
		FiredAutomations: []string{},
		Warnings:         []string{},
		OccurredAt:       at,
	}
}

// Fired records that an automation ran
func (e *AuditLogEntry) Fired(automation string) {
	e.FiredAutomations = append(e.FiredAutomations, automation)
}

// IsNonLinear reports whether the transition left the pipeline
func (e *AuditLogEntry) IsNonLinear() bool {
	return e.Kind == TransitionNonLinear
}
