package persistence

import (
	"context"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMaterialRepository implements MaterialRepository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByIDForTenant finds a material by ID within a tenant
func (r *GormMaterialRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Material, error) {
	var model models.MaterialModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or fully overwrites a material
func (r *GormMaterialRepository) Save(ctx context.Context, material *inventory.Material) error {
	return r.db.WithContext(ctx).Save(models.MaterialModelFromDomain(material)).Error
}

// SaveWithLock saves the stock level with optimistic locking (checks version)
func (r *GormMaterialRepository) SaveWithLock(ctx context.Context, material *inventory.Material) error {
	result := r.db.WithContext(ctx).
		Model(&models.MaterialModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", material.TenantID, material.ID, material.Version-1).
		Updates(map[string]interface{}{
			"stock_real_kg": material.StockRealKg,
			"version":       material.Version,
			"updated_at":    material.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append inserts a movement
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(models.StockMovementModelFromDomain(movement)).Error
}

// FindByJob lists movements recorded for a job
func (r *GormStockMovementRepository) FindByJob(ctx context.Context, tenantID, jobID uuid.UUID) ([]inventory.StockMovement, error) {
	return r.find(ctx, "tenant_id = ? AND job_id = ?", tenantID, jobID)
}

// FindByMaterial lists movements for a material
func (r *GormStockMovementRepository) FindByMaterial(ctx context.Context, tenantID, materialID uuid.UUID) ([]inventory.StockMovement, error) {
	return r.find(ctx, "tenant_id = ? AND material_id = ?", tenantID, materialID)
}

func (r *GormStockMovementRepository) find(ctx context.Context, query string, args ...interface{}) ([]inventory.StockMovement, error) {
	var rows []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("occurred_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	movements := make([]inventory.StockMovement, len(rows))
	for i := range rows {
		movements[i] = *rows[i].ToDomain()
	}
	return movements, nil
}

var (
	_ inventory.MaterialRepository      = (*GormMaterialRepository)(nil)
	_ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
)
