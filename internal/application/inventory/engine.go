package inventory

import (
	"context"
	"errors"

	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// maxMoveRetries bounds the reload-and-retry loop on version conflicts.
// A mover conflicts at most once per competing winner, so the bound only
// trips when more writers than this race one item between reloads.
const maxMoveRetries = 8

// Engine executes the four ledger primitives against an inventory item.
// Every call mutates exactly one item row, appends exactly one transaction
// record, and recomputes the derived stock level, all inside whatever
// repository transaction the caller passes in. Services in other packages
// share one Engine so the mutation discipline cannot drift.
type Engine struct {
	publisher shared.EventPublisher
}

// NewEngine creates an inventory mutation engine
func NewEngine(publisher shared.EventPublisher) *Engine {
	return &Engine{publisher: publisher}
}

// Move applies one primitive to the (product, branch) item and appends the
// matching ledger record. On a version conflict it reloads the item and
// retries, so a loser of a concurrent race is re-evaluated against fresh
// state and fails with the real business error (such as insufficient
// stock) rather than a spurious conflict.
func (e *Engine) Move(
	ctx context.Context,
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
	productName string,
	branch valueobject.Branch,
	txType inventory.TransactionType,
	quantity decimal.Decimal,
	reference, performedBy string,
) (*inventory.InventoryTransaction, error) {
	var lastErr error
	for attempt := 0; attempt < maxMoveRetries; attempt++ {
		item, err := itemRepo.FindByProductAndBranch(ctx, productName, branch)
		if err != nil {
			return nil, err
		}

		if err := applyPrimitive(item, txType, quantity); err != nil {
			return nil, err
		}

		record, err := inventory.NewInventoryTransaction(item, txType, quantity, reference, performedBy)
		if err != nil {
			return nil, err
		}

		if err := itemRepo.SaveWithLock(ctx, item); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		if err := ledgerRepo.Append(ctx, record); err != nil {
			return nil, err
		}

		e.publishEvents(ctx, item)
		return record, nil
	}
	return nil, lastErr
}

// MoveByItem applies one primitive to an already-loaded item. The caller
// owns saving order for any other aggregates in the same transaction.
func (e *Engine) MoveByItem(
	ctx context.Context,
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
	item *inventory.InventoryItem,
	txType inventory.TransactionType,
	quantity decimal.Decimal,
	reference, performedBy string,
) (*inventory.InventoryTransaction, error) {
	if err := applyPrimitive(item, txType, quantity); err != nil {
		return nil, err
	}

	record, err := inventory.NewInventoryTransaction(item, txType, quantity, reference, performedBy)
	if err != nil {
		return nil, err
	}

	if err := itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	if err := ledgerRepo.Append(ctx, record); err != nil {
		return nil, err
	}

	e.publishEvents(ctx, item)
	return record, nil
}

func applyPrimitive(item *inventory.InventoryItem, txType inventory.TransactionType, quantity decimal.Decimal) error {
	switch txType {
	case inventory.TransactionTypeReserve:
		return item.Reserve(quantity)
	case inventory.TransactionTypeRelease:
		return item.Release(quantity)
	case inventory.TransactionTypeDeduct:
		return item.Deduct(quantity)
	case inventory.TransactionTypeAdd:
		return item.Add(quantity)
	default:
		return shared.NewDomainErrorf("VALIDATION_ERROR", "Unknown transaction type %q", txType)
	}
}

// publishEvents drains the item's domain events onto the bus. Publish
// errors are logged by the bus, not propagated.
func (e *Engine) publishEvents(ctx context.Context, item *inventory.InventoryItem) {
	if e.publisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = e.publisher.Publish(ctx, events...)
	item.ClearDomainEvents()
}
