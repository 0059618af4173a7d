package persistence

import (
	"context"

	appbilling "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/billing"
	appinventory "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/inventory"
	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/billing"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"gorm.io/gorm"
)

// gormTransactionalRepositories provides access to all repositories within a transaction.
// It satisfies the TransactionalRepositories of every application package.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// JobRepo returns the job repository scoped to the current transaction.
func (r *gormTransactionalRepositories) JobRepo() production.JobRepository {
	return NewGormJobRepository(r.tx)
}

// ClientRepo returns the client repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ClientRepo() partner.ClientRepository {
	return NewGormClientRepository(r.tx)
}

// MaterialRepo returns the material repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MaterialRepo() inventory.MaterialRepository {
	return NewGormMaterialRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// QuoteRepo returns the quote repository scoped to the current transaction.
func (r *gormTransactionalRepositories) QuoteRepo() trade.QuoteRepository {
	return NewGormQuoteRepository(r.tx)
}

// InvoiceRepo returns the invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// GormProductionScope implements the transition coordinator's TransactionScope.
type GormProductionScope struct {
	db *gorm.DB
}

// NewGormProductionScope creates a new GormProductionScope.
func NewGormProductionScope(db *gorm.DB) *GormProductionScope {
	return &GormProductionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormProductionScope) Execute(ctx context.Context, fn func(repos appproduction.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormStockScope implements the stock ledger's TransactionScope.
type GormStockScope struct {
	db *gorm.DB
}

// NewGormStockScope creates a new GormStockScope.
func NewGormStockScope(db *gorm.DB) *GormStockScope {
	return &GormStockScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormStockScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormBillingScope implements the invoice generator's TransactionScope.
type GormBillingScope struct {
	db *gorm.DB
}

// NewGormBillingScope creates a new GormBillingScope.
func NewGormBillingScope(db *gorm.DB) *GormBillingScope {
	return &GormBillingScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormBillingScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

var (
	_ appproduction.TransactionScope          = (*GormProductionScope)(nil)
	_ appinventory.TransactionScope           = (*GormStockScope)(nil)
	_ appbilling.TransactionScope             = (*GormBillingScope)(nil)
	_ appproduction.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appinventory.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
	_ appbilling.TransactionalRepositories    = (*gormTransactionalRepositories)(nil)
)
