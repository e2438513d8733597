package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// InventoryItemRepository persists InventoryItem aggregates
type InventoryItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindByProductAndBranch(ctx context.Context, productName string, branch valueobject.Branch) (*InventoryItem, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryItem, error)
	FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]InventoryItem, error)
	FindBelowThreshold(ctx context.Context, filter shared.Filter) ([]InventoryItem, error)
	Save(ctx context.Context, item *InventoryItem) error
	// SaveWithLock performs a compare-and-set on the aggregate version.
	// Returns shared.ErrConcurrencyConflict when another writer got there first.
	SaveWithLock(ctx context.Context, item *InventoryItem) error
}

// InventoryTransactionRepository is the append-only store for audit records
type InventoryTransactionRepository interface {
	Append(ctx context.Context, tx *InventoryTransaction) error
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, error)
	FindByReference(ctx context.Context, reference string) ([]InventoryTransaction, error)
	FindByBranch(ctx context.Context, branch valueobject.Branch, from, to time.Time) ([]InventoryTransaction, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryTransaction, error)
}

// StockAdjustmentRepository persists StockAdjustment aggregates
type StockAdjustmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockAdjustment, error)
	FindByStatus(ctx context.Context, status AdjustmentStatus, filter shared.Filter) ([]StockAdjustment, error)
	Save(ctx context.Context, adjustment *StockAdjustment) error
	SaveWithLock(ctx context.Context, adjustment *StockAdjustment) error
}
