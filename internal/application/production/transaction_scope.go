package production

import (
	"context"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
)

// TransactionScope runs the snapshot read and the status write in one database transaction.
type TransactionScope interface {
	// Execute runs fn within a transaction; an error from fn rolls it back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories bound to the current transaction.
type TransactionalRepositories interface {
	JobRepo() production.JobRepository
	ClientRepo() partner.ClientRepository
	MaterialRepo() inventory.MaterialRepository
	QuoteRepo() trade.QuoteRepository
}

// NoOpTransactionScope runs the function directly against the given repositories.
// Useful in tests where no database is involved.
type NoOpTransactionScope struct {
	jobRepo      production.JobRepository
	clientRepo   partner.ClientRepository
	materialRepo inventory.MaterialRepository
	quoteRepo    trade.QuoteRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	jobRepo production.JobRepository,
	clientRepo partner.ClientRepository,
	materialRepo inventory.MaterialRepository,
	quoteRepo trade.QuoteRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		jobRepo:      jobRepo,
		clientRepo:   clientRepo,
		materialRepo: materialRepo,
		quoteRepo:    quoteRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// JobRepo returns the job repository.
func (s *NoOpTransactionScope) JobRepo() production.JobRepository { return s.jobRepo }

// ClientRepo returns the client repository.
func (s *NoOpTransactionScope) ClientRepo() partner.ClientRepository { return s.clientRepo }

// MaterialRepo returns the material repository.
func (s *NoOpTransactionScope) MaterialRepo() inventory.MaterialRepository { return s.materialRepo }

// QuoteRepo returns the quote repository.
func (s *NoOpTransactionScope) QuoteRepo() trade.QuoteRepository { return s.quoteRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
