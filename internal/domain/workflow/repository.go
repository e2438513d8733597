package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// StockRequestRepository defines the persistence interface for stock requests
type StockRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockRequest, error)
	FindByRequestNumber(ctx context.Context, number string) (*StockRequest, error)
	FindByStatus(ctx context.Context, status StockRequestStatus, filter shared.Filter) ([]*StockRequest, error)
	FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*StockRequest, error)
	FindCustomerDeliveries(ctx context.Context, status DispatchStatus, filter shared.Filter) ([]*StockRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*StockRequest, error)
	Save(ctx context.Context, request *StockRequest) error
	SaveWithLock(ctx context.Context, request *StockRequest) error
}

// PurchaseRequisitionRepository defines the persistence interface for requisitions
type PurchaseRequisitionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseRequisition, error)
	FindByRequestNumber(ctx context.Context, number string) (*PurchaseRequisition, error)
	FindByStatus(ctx context.Context, status PurchaseStatus, filter shared.Filter) ([]*PurchaseRequisition, error)
	FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*PurchaseRequisition, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*PurchaseRequisition, error)
	Save(ctx context.Context, requisition *PurchaseRequisition) error
	SaveWithLock(ctx context.Context, requisition *PurchaseRequisition) error
}
