package finance

import (
	"context"

	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a
// finance action touches. A sale deducts inventory and may open a loan;
// a loan payment moves the loan and the customer together. Each action
// commits or rolls back as one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to finance and inventory
// repositories sharing one underlying database transaction.
type TransactionalRepositories interface {
	// SalesRepo returns the sales transaction repository scoped to the current transaction
	SalesRepo() finance.SalesTransactionRepository
	// LoanRepo returns the loan repository scoped to the current transaction
	LoanRepo() finance.LoanRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() finance.CustomerRepository
	// ReconciliationRepo returns the reconciliation repository scoped to the current transaction
	ReconciliationRepo() finance.ReconciliationRepository
	// ItemRepo returns the inventory item repository scoped to the current transaction
	ItemRepo() inventory.InventoryItemRepository
	// LedgerRepo returns the inventory transaction repository scoped to the current transaction
	LedgerRepo() inventory.InventoryTransactionRepository
	// ActivityRepo returns the action-trail repository scoped to the current transaction
	ActivityRepo() audit.ActivityRepository
}

// NoOpTransactionScope runs actions without a real transaction, for tests.
type NoOpTransactionScope struct {
	salesRepo          finance.SalesTransactionRepository
	loanRepo           finance.LoanRepository
	customerRepo       finance.CustomerRepository
	reconciliationRepo finance.ReconciliationRepository
	itemRepo           inventory.InventoryItemRepository
	ledgerRepo         inventory.InventoryTransactionRepository
	activityRepo       audit.ActivityRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	salesRepo finance.SalesTransactionRepository,
	loanRepo finance.LoanRepository,
	customerRepo finance.CustomerRepository,
	reconciliationRepo finance.ReconciliationRepository,
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
	activityRepo audit.ActivityRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		salesRepo:          salesRepo,
		loanRepo:           loanRepo,
		customerRepo:       customerRepo,
		reconciliationRepo: reconciliationRepo,
		itemRepo:           itemRepo,
		ledgerRepo:         ledgerRepo,
		activityRepo:       activityRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SalesRepo returns the sales transaction repository.
func (s *NoOpTransactionScope) SalesRepo() finance.SalesTransactionRepository {
	return s.salesRepo
}

// LoanRepo returns the loan repository.
func (s *NoOpTransactionScope) LoanRepo() finance.LoanRepository {
	return s.loanRepo
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() finance.CustomerRepository {
	return s.customerRepo
}

// ReconciliationRepo returns the reconciliation repository.
func (s *NoOpTransactionScope) ReconciliationRepo() finance.ReconciliationRepository {
	return s.reconciliationRepo
}

// ItemRepo returns the inventory item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository {
	return s.itemRepo
}

// LedgerRepo returns the inventory transaction repository.
func (s *NoOpTransactionScope) LedgerRepo() inventory.InventoryTransactionRepository {
	return s.ledgerRepo
}

// ActivityRepo returns the action-trail repository.
func (s *NoOpTransactionScope) ActivityRepo() audit.ActivityRepository {
	return s.activityRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
