package models

import (
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobModel is the persistence model for the Job aggregate root.
// Geometry is stored as a JSON document on the job row.
type JobModel struct {
	TenantAggregateModel
	ClientID          uuid.UUID                 `gorm:"type:uuid;not null;index"`
	MaterialID        *uuid.UUID                `gorm:"type:uuid;index"`
	QuoteID           *uuid.UUID                `gorm:"type:uuid;index"`
	Number            string                    `gorm:"type:varchar(50);not null"`
	Status            string                    `gorm:"type:varchar(20);not null;default:'quote';index"`
	WorkflowStep      int                       `gorm:"not null;default:0"`
	LayerCount        int                       `gorm:"not null;default:1"`
	PricePerM2        decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	GeometryItems     []production.GeometryItem `gorm:"serializer:json;type:jsonb"`
	ConsumptionMarker *time.Time
	InvoiceMarker     *time.Time
	DeliveredDate     *time.Time
}

// TableName returns the table name for GORM
func (JobModel) TableName() string {
	return "jobs"
}

// ToDomain converts the persistence model to a domain Job
func (m *JobModel) ToDomain() *production.Job {
	return &production.Job{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ClientID:            m.ClientID,
		MaterialID:          m.MaterialID,
		QuoteID:             m.QuoteID,
		Number:              m.Number,
		Status:              production.JobStatus(m.Status),
		WorkflowStep:        m.WorkflowStep,
		LayerCount:          m.LayerCount,
		PricePerM2:          m.PricePerM2,
		GeometryItems:       m.GeometryItems,
		ConsumptionMarker:   m.ConsumptionMarker,
		InvoiceMarker:       m.InvoiceMarker,
		DeliveredDate:       m.DeliveredDate,
	}
}

// FromDomain populates the persistence model from a domain Job
func (m *JobModel) FromDomain(j *production.Job) {
	m.FromDomainTenantAggregateRoot(j.TenantAggregateRoot)
	m.ClientID = j.ClientID
	m.MaterialID = j.MaterialID
	m.QuoteID = j.QuoteID
	m.Number = j.Number
	m.Status = string(j.Status)
	m.WorkflowStep = j.WorkflowStep
	m.LayerCount = j.LayerCount
	m.PricePerM2 = j.PricePerM2
	m.GeometryItems = j.GeometryItems
	m.ConsumptionMarker = j.ConsumptionMarker
	m.InvoiceMarker = j.InvoiceMarker
	m.DeliveredDate = j.DeliveredDate
}

// JobModelFromDomain creates a new persistence model from a domain Job
func JobModelFromDomain(j *production.Job) *JobModel {
	m := &JobModel{}
	m.FromDomain(j)
	return m
}

// JobAuditLogModel is the persistence model for transition audit entries
type JobAuditLogModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	JobID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	JobNumber        string     `gorm:"type:varchar(50)"`
	ActorID          *uuid.UUID `gorm:"type:uuid"`
	OldStatus        string     `gorm:"type:varchar(20);not null"`
	NewStatus        string     `gorm:"type:varchar(20);not null"`
	OldStep          int        `gorm:"not null"`
	NewStep          int        `gorm:"not null"`
	TransitionKind   string     `gorm:"type:varchar(20);not null"`
	FiredAutomations []string   `gorm:"serializer:json;type:jsonb"`
	Warnings         []string   `gorm:"serializer:json;type:jsonb"`
	OccurredAt       time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (JobAuditLogModel) TableName() string {
	return "job_audit_log"
}

// ToDomain converts the persistence model to a domain AuditLogEntry
func (m *JobAuditLogModel) ToDomain() *production.AuditLogEntry {
	return &production.AuditLogEntry{
		ID:               m.ID,
		TenantID:         m.TenantID,
		JobID:            m.JobID,
		JobNumber:        m.JobNumber,
		ActorID:          m.ActorID,
		OldStatus:        production.JobStatus(m.OldStatus),
		NewStatus:        production.JobStatus(m.NewStatus),
		OldStep:          m.OldStep,
		NewStep:          m.NewStep,
		Kind:             production.TransitionKind(m.TransitionKind),
		FiredAutomations: m.FiredAutomations,
		Warnings:         m.Warnings,
		OccurredAt:       m.OccurredAt,
	}
}

// JobAuditLogModelFromDomain creates a new persistence model from a domain AuditLogEntry
func JobAuditLogModelFromDomain(e *production.AuditLogEntry) *JobAuditLogModel {
	return &JobAuditLogModel{
		ID:               e.ID,
		TenantID:         e.TenantID,
		JobID:            e.JobID,
		JobNumber:        e.JobNumber,
		ActorID:          e.ActorID,
		OldStatus:        string(e.OldStatus),
		NewStatus:        string(e.NewStatus),
		OldStep:          e.OldStep,
		NewStep:          e.NewStep,
		TransitionKind:   string(e.Kind),
		FiredAutomations: e.FiredAutomations,
		Warnings:         e.Warnings,
		OccurredAt:       e.OccurredAt,
	}
}
