package inventory

import (
	"context"

	"github.com/kushukushu/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all inventory repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Aggregate boundary notes:
//   - ItemRepo: repository for the InventoryItem aggregate root. Every stock
//     state change goes through this repository.
//   - LedgerRepo: append-only repository for InventoryTransaction records.
//     Exactly one record is appended per stock mutation.
//   - AdjustmentRepo: repository for StockAdjustment approval records.
type TransactionalRepositories interface {
	// ItemRepo returns the inventory item repository scoped to the current transaction
	ItemRepo() inventory.InventoryItemRepository
	// LedgerRepo returns the inventory transaction repository scoped to the current transaction
	LedgerRepo() inventory.InventoryTransactionRepository
	// AdjustmentRepo returns the stock adjustment repository scoped to the current transaction
	AdjustmentRepo() inventory.StockAdjustmentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	itemRepo       inventory.InventoryItemRepository
	ledgerRepo     inventory.InventoryTransactionRepository
	adjustmentRepo inventory.StockAdjustmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:       itemRepo,
		ledgerRepo:     ledgerRepo,
		adjustmentRepo: adjustmentRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository {
	return s.itemRepo
}

// LedgerRepo returns the inventory transaction repository.
func (s *NoOpTransactionScope) LedgerRepo() inventory.InventoryTransactionRepository {
	return s.ledgerRepo
}

// AdjustmentRepo returns the stock adjustment repository.
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return s.adjustmentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
