package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// MillingOrderRepository defines the persistence interface for milling orders
type MillingOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MillingOrder, error)
	FindByStatus(ctx context.Context, status MillingStatus, filter shared.Filter) ([]*MillingOrder, error)
	FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*MillingOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*MillingOrder, error)
	Save(ctx context.Context, order *MillingOrder) error
	SaveWithLock(ctx context.Context, order *MillingOrder) error
}

// WheatDeliveryRepository defines the persistence interface for deliveries
type WheatDeliveryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WheatDelivery, error)
	FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*WheatDelivery, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*WheatDelivery, error)
	Save(ctx context.Context, delivery *WheatDelivery) error
}
