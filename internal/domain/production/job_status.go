package production

import (
	"strings"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
)

// JobStatus is the production state of a job
type JobStatus string

const (
	JobStatusQuote      JobStatus = "quote"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCuring     JobStatus = "curing"
	JobStatusQC         JobStatus = "qc"
	JobStatusReady      JobStatus = "ready"
	JobStatusDelivered  JobStatus = "delivered"
	JobStatusCancelled  JobStatus = "cancelled"
)

// CancelledStep is the workflow step stored for cancelled jobs
const CancelledStep = -1

// workflowSteps is the single status <-> step table; stepStatuses is its inverse.
var (
	workflowSteps = map[JobStatus]int{
		JobStatusQuote:      0,
		JobStatusInProgress: 1,
		JobStatusCuring:     2,
		JobStatusQC:         3,
		JobStatusReady:      4,
		JobStatusDelivered:  5,
		JobStatusCancelled:  CancelledStep,
	}
	stepStatuses = func() map[int]JobStatus {
		m := make(map[int]JobStatus, len(workflowSteps))
		for status, step := range workflowSteps {
			m[step] = status
		}
		return m
	}()
)

// AllJobStatuses lists statuses in pipeline order, cancelled last
func AllJobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusQuote,
		JobStatusInProgress,
		JobStatusCuring,
		JobStatusQC,
		JobStatusReady,
		JobStatusDelivered,
		JobStatusCancelled,
	}
}

// ParseJobStatus validates a status received from a caller
func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Invalid job status: "+s)
	}
	return status, nil
}

// IsValid checks if the status is a known JobStatus
func (s JobStatus) IsValid() bool {
	_, ok := workflowSteps[s]
	return ok
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// WorkflowStep returns the canonical step index of the status
func (s JobStatus) WorkflowStep() int {
	step, ok := workflowSteps[s]
	if !ok {
		return 0
	}
	return step
}

// StatusForStep maps a workflow step back to its status
func StatusForStep(step int) (JobStatus, bool) {
	status, ok := stepStatuses[step]
	return status, ok
}

// IsTerminal reports whether no further transition is expected
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDelivered || s == JobStatusCancelled
}

// NotifiesCustomer reports whether reaching the status warrants a notification
func (s JobStatus) NotifiesCustomer() bool {
	return s == JobStatusReady || s == JobStatusDelivered
}

// TransitionKind classifies a requested status change against the pipeline
type TransitionKind string

const (
	// TransitionLinear follows the pipeline: next step, or cancellation of a live job
	TransitionLinear TransitionKind = "linear"
	// TransitionRepeat re-applies the current status
	TransitionRepeat TransitionKind = "repeat"
	// TransitionNonLinear skips steps, goes backwards or leaves a terminal state
	TransitionNonLinear TransitionKind = "non_linear"
)

// ClassifyTransition compares a move with the quote → delivered pipeline
func ClassifyTransition(from, to JobStatus) TransitionKind {
	switch {
	case from == to:
		return TransitionRepeat
	case from.IsTerminal():
		return TransitionNonLinear
	case to == JobStatusCancelled:
		return TransitionLinear
	case to.WorkflowStep() == from.WorkflowStep()+1:
		return TransitionLinear
	}
	return TransitionNonLinear
}

// CanTransitionTo reports whether the move follows the pipeline (or repeats the current status)
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	return target.IsValid() && ClassifyTransition(s, target) != TransitionNonLinear
}
