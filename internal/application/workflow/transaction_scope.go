package workflow

import (
	"context"

	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

// TransactionScope provides transactional access to the repositories an
// approval action touches. A stock-request approval advances the request
// AND moves inventory; both land in one database transaction so "status
// advanced" and "ledger mutated" are never observably separated.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to workflow and inventory
// repositories sharing one underlying database transaction.
type TransactionalRepositories interface {
	// StockRequestRepo returns the stock request repository scoped to the current transaction
	StockRequestRepo() workflow.StockRequestRepository
	// RequisitionRepo returns the purchase requisition repository scoped to the current transaction
	RequisitionRepo() workflow.PurchaseRequisitionRepository
	// ItemRepo returns the inventory item repository scoped to the current transaction
	ItemRepo() inventory.InventoryItemRepository
	// LedgerRepo returns the inventory transaction repository scoped to the current transaction
	LedgerRepo() inventory.InventoryTransactionRepository
	// ActivityRepo returns the action-trail repository scoped to the current transaction
	ActivityRepo() audit.ActivityRepository
}

// NoOpTransactionScope runs actions without a real transaction, for tests.
type NoOpTransactionScope struct {
	stockRequestRepo workflow.StockRequestRepository
	requisitionRepo  workflow.PurchaseRequisitionRepository
	itemRepo         inventory.InventoryItemRepository
	ledgerRepo       inventory.InventoryTransactionRepository
	activityRepo     audit.ActivityRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	stockRequestRepo workflow.StockRequestRepository,
	requisitionRepo workflow.PurchaseRequisitionRepository,
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
	activityRepo audit.ActivityRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRequestRepo: stockRequestRepo,
		requisitionRepo:  requisitionRepo,
		itemRepo:         itemRepo,
		ledgerRepo:       ledgerRepo,
		activityRepo:     activityRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRequestRepo returns the stock request repository.
func (s *NoOpTransactionScope) StockRequestRepo() workflow.StockRequestRepository {
	return s.stockRequestRepo
}

// RequisitionRepo returns the purchase requisition repository.
func (s *NoOpTransactionScope) RequisitionRepo() workflow.PurchaseRequisitionRepository {
	return s.requisitionRepo
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
