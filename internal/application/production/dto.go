package production

import (
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/google/uuid"
)

// TransitionCommand requests a status change for a job
type TransitionCommand struct {
	TenantID     uuid.UUID
	JobID        uuid.UUID
	TargetStatus string
	ActorID      *uuid.UUID
}

// TransitionResult aggregates the outcome of a transition and its automations
type TransitionResult struct {
	JobID            uuid.UUID                 `json:"job_id"`
	JobNumber        string                    `json:"job_number"`
	PreviousStatus   production.JobStatus      `json:"previous_status"`
	Status           production.JobStatus      `json:"status"`
	WorkflowStep     int                       `json:"workflow_step"`
	Kind             production.TransitionKind `json:"kind"`
	StatusUpdated    bool                      `json:"status_updated"`
	StockUpdated     bool                      `json:"stock_updated"`
	InvoiceCreated   bool                      `json:"invoice_created"`
	InvoiceID        *uuid.UUID                `json:"invoice_id,omitempty"`
	NotificationSent bool                      `json:"notification_sent"`
	Warnings         []string                  `json:"warnings"`
}

// HasWarnings reports whether any automation failed
func (r *TransitionResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Transition describes the status change automations react to
type Transition struct {
	From    production.JobStatus
	To      production.JobStatus
	Kind    production.TransitionKind
	ActorID *uuid.UUID
	At      time.Time
}

// JobSnapshot is the consistent view of a job and its related records.
// Material and Quote are nil when the job has none.
type JobSnapshot struct {
	Job      *production.Job
	Client   *partner.Client
	Material *inventory.Material
	Quote    *trade.Quote
}

// NotificationPayload is the notice sent when a job becomes ready or is delivered
type NotificationPayload struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	JobID     uuid.UUID `json:"job_id"`
	JobNumber string    `json:"job_number"`
	ClientID  uuid.UUID `json:"client_id"`
	Status    string    `json:"status"`
	Link      string    `json:"link,omitempty"`
}
