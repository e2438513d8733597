package production

import (
	"context"

	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/production"
)

// TransactionScope provides transactional access to the repositories a
// production action touches. Starting a milling run deducts wheat and
// writes the order; completing it adds the outputs. Each action is atomic.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to production and inventory
// repositories sharing one underlying database transaction.
type TransactionalRepositories interface {
	// MillingRepo returns the milling order repository scoped to the current transaction
	MillingRepo() production.MillingOrderRepository
	// DeliveryRepo returns the wheat delivery repository scoped to the current transaction
	DeliveryRepo() production.WheatDeliveryRepository
	// ItemRepo returns the inventory item repository scoped to the current transaction
	ItemRepo() inventory.InventoryItemRepository
	// LedgerRepo returns the inventory transaction repository scoped to the current transaction
	LedgerRepo() inventory.InventoryTransactionRepository
	// ActivityRepo returns the action-trail repository scoped to the current transaction
	ActivityRepo() audit.ActivityRepository
}

// NoOpTransactionScope runs actions without a real transaction, for tests.
type NoOpTransactionScope struct {
	millingRepo  production.MillingOrderRepository
	deliveryRepo production.WheatDeliveryRepository
	itemRepo     inventory.InventoryItemRepository
	ledgerRepo   inventory.InventoryTransactionRepository
	activityRepo audit.ActivityRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	millingRepo production.MillingOrderRepository,
	deliveryRepo production.WheatDeliveryRepository,
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
	activityRepo audit.ActivityRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		millingRepo:  millingRepo,
		deliveryRepo: deliveryRepo,
		itemRepo:     itemRepo,
		ledgerRepo:   ledgerRepo,
		activityRepo: activityRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// MillingRepo returns the milling order repository.
func (s *NoOpTransactionScope) MillingRepo() production.MillingOrderRepository {
	return s.millingRepo
}

// DeliveryRepo returns the wheat delivery repository.
func (s *NoOpTransactionScope) DeliveryRepo() production.WheatDeliveryRepository {
	return s.deliveryRepo
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
