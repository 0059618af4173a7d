package billing

import (
	"context"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/billing"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
)

// TransactionScope provides transactional access to the invoicing repositories.
// The invoice marker claim and the invoice insert commit together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a transaction.
type TransactionalRepositories interface {
	InvoiceRepo() billing.InvoiceRepository
	JobRepo() production.JobRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
type NoOpTransactionScope struct {
	invoiceRepo billing.InvoiceRepository
	jobRepo     production.JobRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(invoiceRepo billing.InvoiceRepository, jobRepo production.JobRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{invoiceRepo: invoiceRepo, jobRepo: jobRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

// JobRepo returns the job repository.
func (s *NoOpTransactionScope) JobRepo() production.JobRepository {
	return s.jobRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
