package dto

import (
	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/google/uuid"
)

// TransitionJobRequest is the body of POST /jobs/:id/transition
type TransitionJobRequest struct {
	Status string `json:"status" binding:"required,oneof=quote in_progress curing qc ready delivered cancelled"`
}

// TransitionJobResponse reports the committed status and what the automations did
type TransitionJobResponse struct {
	JobID            uuid.UUID  `json:"job_id"`
	JobNumber        string     `json:"job_number"`
	PreviousStatus   string     `json:"previous_status"`
	Status           string     `json:"status"`
	WorkflowStep     int        `json:"workflow_step"`
	Kind             string     `json:"kind"`
	StatusUpdated    bool       `json:"status_updated"`
	StockUpdated     bool       `json:"stock_updated"`
	InvoiceCreated   bool       `json:"invoice_created"`
	InvoiceID        *uuid.UUID `json:"invoice_id,omitempty"`
	NotificationSent bool       `json:"notification_sent"`
	Warnings         []string   `json:"warnings"`
}

// NewTransitionJobResponse converts the coordinator result
func NewTransitionJobResponse(r *appproduction.TransitionResult) TransitionJobResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return TransitionJobResponse{
		JobID:            r.JobID,
		JobNumber:        r.JobNumber,
		PreviousStatus:   r.PreviousStatus.String(),
		Status:           r.Status.String(),
		WorkflowStep:     r.WorkflowStep,
		Kind:             string(r.Kind),
		StatusUpdated:    r.StatusUpdated,
		StockUpdated:     r.StockUpdated,
		InvoiceCreated:   r.InvoiceCreated,
		InvoiceID:        r.InvoiceID,
		NotificationSent: r.NotificationSent,
		Warnings:         warnings,
	}
}
