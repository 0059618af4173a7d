package persistence

import (
	"context"
	"errors"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/billing"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByJob returns the invoice referencing a job
func (r *GormInvoiceRepository) FindByJob(ctx context.Context, tenantID, jobID uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND job_id = ?", tenantID, jobID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindLatestNumber returns the highest invoice number with the given prefix.
// Longer numbers sort first so the sequence keeps working past its zero padding.
func (r *GormInvoiceRepository) FindLatestNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Select("number").
		Where("tenant_id = ? AND number LIKE ?", tenantID, prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		Limit(1).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", translateError(err)
	}
	return model.Number, nil
}

// Create inserts an invoice and its items
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	return translateError(r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(invoice)).Error)
}

// CountByJob counts invoices referencing a job
func (r *GormInvoiceRepository) CountByJob(ctx context.Context, tenantID, jobID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND job_id = ?", tenantID, jobID).
		Count(&count).Error
	return count, translateError(err)
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
