package persistence

import (
	"context"
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJobRepository implements JobRepository using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// FindByIDForTenant finds a job by ID within a tenant
func (r *GormJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Job, error) {
	var model models.JobModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or fully overwrites a job
func (r *GormJobRepository) Save(ctx context.Context, job *production.Job) error {
	return r.db.WithContext(ctx).Save(models.JobModelFromDomain(job)).Error
}

// UpdateStatus writes the status columns only, guarded by the expected current status.
// Markers are never touched here.
func (r *GormJobRepository) UpdateStatus(ctx context.Context, job *production.Job, expected production.JobStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("tenant_id = ? AND id = ? AND status = ?", job.TenantID, job.ID, string(expected)).
		Updates(map[string]interface{}{
			"status":         string(job.Status),
			"workflow_step":  job.WorkflowStep,
			"delivered_date": job.DeliveredDate,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     job.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ClaimConsumptionMarker sets consumption_marker where it is still null
func (r *GormJobRepository) ClaimConsumptionMarker(ctx context.Context, tenantID, jobID uuid.UUID, at time.Time) (bool, error) {
	return r.claimMarker(ctx, "consumption_marker", tenantID, jobID, at)
}

// ClaimInvoiceMarker sets invoice_marker where it is still null
func (r *GormJobRepository) ClaimInvoiceMarker(ctx context.Context, tenantID, jobID uuid.UUID, at time.Time) (bool, error) {
	return r.claimMarker(ctx, "invoice_marker", tenantID, jobID, at)
}

// claimMarker is a compare-and-set on a nullable timestamp column: exactly one
// concurrent caller sees RowsAffected == 1.
func (r *GormJobRepository) claimMarker(ctx context.Context, column string, tenantID, jobID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("tenant_id = ? AND id = ? AND "+column+" IS NULL", tenantID, jobID).
		Update(column, at)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// GormAuditLogRepository implements AuditLogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append inserts an audit entry
func (r *GormAuditLogRepository) Append(ctx context.Context, entry *production.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(models.JobAuditLogModelFromDomain(entry)).Error
}

// FindByJob lists a job's audit entries, oldest first
func (r *GormAuditLogRepository) FindByJob(ctx context.Context, tenantID, jobID uuid.UUID) ([]production.AuditLogEntry, error) {
	var rows []models.JobAuditLogModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND job_id = ?", tenantID, jobID).
		Order("occurred_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]production.AuditLogEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

var (
	_ production.JobRepository      = (*GormJobRepository)(nil)
	_ production.AuditLogRepository = (*GormAuditLogRepository)(nil)
)
