package production

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/production"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// In-memory repositories backing the service tests. SaveWithLock keeps
// real compare-and-set semantics so optimistic-locking paths behave as
// they would against the database.

type memMillingRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*production.MillingOrder
}

func newMemMillingRepo() *memMillingRepo {
	return &memMillingRepo{orders: map[uuid.UUID]*production.MillingOrder{}}
}

func (r *memMillingRepo) FindByID(_ context.Context, id uuid.UUID) (*production.MillingOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *order
	return &c, nil
}

func (r *memMillingRepo) FindByStatus(_ context.Context, status production.MillingStatus, _ shared.Filter) ([]*production.MillingOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*production.MillingOrder
	for _, order := range r.orders {
		if order.Status == status {
			c := *order
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memMillingRepo) FindByBranch(_ context.Context, branch valueobject.Branch, _ shared.Filter) ([]*production.MillingOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*production.MillingOrder
	for _, order := range r.orders {
		if order.BranchID == branch {
			c := *order
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memMillingRepo) FindAll(_ context.Context, _ shared.Filter) ([]*production.MillingOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*production.MillingOrder
	for _, order := range r.orders {
		c := *order
		out = append(out, &c)
	}
	return out, nil
}

func (r *memMillingRepo) Save(_ context.Context, order *production.MillingOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *order
	r.orders[order.ID] = &c
	return nil
}

func (r *memMillingRepo) SaveWithLock(_ context.Context, order *production.MillingOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != order.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	c := *order
	r.orders[order.ID] = &c
	return nil
}

type memDeliveryRepo struct {
	mu         sync.Mutex
	deliveries map[uuid.UUID]*production.WheatDelivery
}

func newMemDeliveryRepo() *memDeliveryRepo {
	return &memDeliveryRepo{deliveries: map[uuid.UUID]*production.WheatDelivery{}}
}

func (r *memDeliveryRepo) FindByID(_ context.Context, id uuid.UUID) (*production.WheatDelivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delivery, ok := r.deliveries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *delivery
	return &c, nil
}

func (r *memDeliveryRepo) FindByBranch(_ context.Context, branch valueobject.Branch, _ shared.Filter) ([]*production.WheatDelivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*production.WheatDelivery
	for _, delivery := range r.deliveries {
		if delivery.BranchID == branch {
			c := *delivery
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memDeliveryRepo) FindAll(_ context.Context, _ shared.Filter) ([]*production.WheatDelivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*production.WheatDelivery
	for _, delivery := range r.deliveries {
		c := *delivery
		out = append(out, &c)
	}
	return out, nil
}

func (r *memDeliveryRepo) Save(_ context.Context, delivery *production.WheatDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *delivery
	r.deliveries[delivery.ID] = &c
	return nil
}

type memItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]inventory.InventoryItem
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: map[uuid.UUID]inventory.InventoryItem{}}
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := item
	return &c, nil
}

func (r *memItemRepo) FindByProductAndBranch(_ context.Context, productName string, branch valueobject.Branch) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ProductName == productName && item.BranchID == branch {
			c := item
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memItemRepo) FindByBranch(_ context.Context, _ valueobject.Branch, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memItemRepo) FindBelowThreshold(_ context.Context, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) SaveWithLock(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != item.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.items[item.ID] = *item
	return nil
}

type memLedgerRepo struct {
	mu      sync.Mutex
	records []inventory.InventoryTransaction
}

func (r *memLedgerRepo) Append(_ context.Context, tx *inventory.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *tx)
	return nil
}

func (r *memLedgerRepo) FindByItem(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]inventory.InventoryTransaction, error) {
	return nil, nil
}

func (r *memLedgerRepo) FindByReference(_ context.Context, reference string) ([]inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.InventoryTransaction
	for _, rec := range r.records {
		if rec.Reference == reference {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) FindByBranch(_ context.Context, _ valueobject.Branch, _, _ time.Time) ([]inventory.InventoryTransaction, error) {
	return nil, nil
}

func (r *memLedgerRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]inventory.InventoryTransaction(nil), r.records...), nil
}
