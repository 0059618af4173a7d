package production

import (
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// EventTypeJobStatusChanged is raised on every committed status write
const EventTypeJobStatusChanged = "JobStatusChanged"

// JobStatusChangedEvent carries the before/after status of a job
type JobStatusChangedEvent struct {
	shared.BaseDomainEvent
	JobID          uuid.UUID      `json:"job_id"`
	JobNumber      string         `json:"job_number"`
	ClientID       uuid.UUID      `json:"client_id"`
	PreviousStatus JobStatus      `json:"previous_status"`
	Status         JobStatus      `json:"status"`
	WorkflowStep   int            `json:"workflow_step"`
	Kind           TransitionKind `json:"kind"`
}

// NewJobStatusChangedEvent creates the event from the job's current state
func NewJobStatusChangedEvent(j *Job, previous JobStatus) *JobStatusChangedEvent {
	return &JobStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobStatusChanged, AggregateTypeJob, j.ID, j.TenantID),
		JobID:           j.ID,
		JobNumber:       j.Number,
		ClientID:        j.ClientID,
		PreviousStatus:  previous,
		Status:          j.Status,
		WorkflowStep:    j.WorkflowStep,
		Kind:            ClassifyTransition(previous, j.Status),
	}
}
