package inventory

import (
	"context"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
)

// TransactionScope provides transactional access to the stock repositories.
// The material write, the movement and the job's consumption marker commit together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a transaction.
//   - MaterialRepo: stock level, written with a version check.
//   - MovementRepo: append-only stock movements.
//   - JobRepo: used only to claim the consumption marker.
type TransactionalRepositories interface {
	MaterialRepo() inventory.MaterialRepository
	MovementRepo() inventory.StockMovementRepository
	JobRepo() production.JobRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
type NoOpTransactionScope struct {
	materialRepo inventory.MaterialRepository
	movementRepo inventory.StockMovementRepository
	jobRepo      production.JobRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	materialRepo inventory.MaterialRepository,
	movementRepo inventory.StockMovementRepository,
	jobRepo production.JobRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		materialRepo: materialRepo,
		movementRepo: movementRepo,
		jobRepo:      jobRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// MaterialRepo returns the material repository.
func (s *NoOpTransactionScope) MaterialRepo() inventory.MaterialRepository {
	return s.materialRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// JobRepo returns the job repository.
func (s *NoOpTransactionScope) JobRepo() production.JobRepository {
	return s.jobRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
