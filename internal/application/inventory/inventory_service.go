package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

// InventoryService handles inventory reads, item registration, and the
// stock adjustment approval flow. All stock mutations funnel through the
// Engine inside a transaction scope.
type InventoryService struct {
	scope        TransactionScope
	itemRepo     inventory.InventoryItemRepository
	ledgerRepo   inventory.InventoryTransactionRepository
	adjustRepo   inventory.StockAdjustmentRepository
	activityRepo audit.ActivityRepository
	engine       *Engine
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	scope TransactionScope,
	itemRepo inventory.InventoryItemRepository,
	ledgerRepo inventory.InventoryTransactionRepository,
	adjustRepo inventory.StockAdjustmentRepository,
	engine *Engine,
) *InventoryService {
	return &InventoryService{
		scope:      scope,
		itemRepo:   itemRepo,
		ledgerRepo: ledgerRepo,
		adjustRepo: adjustRepo,
		engine:     engine,
	}
}

// SetActivityRepository enables action-trail recording
func (s *InventoryService) SetActivityRepository(repo audit.ActivityRepository) {
	s.activityRepo = repo
}

// CreateItem registers a product at a branch, optionally with opening stock
func (s *InventoryService) CreateItem(ctx context.Context, req CreateItemRequest, actor workflow.Actor) (*InventoryItemResponse, error) {
	branch, err := valueobject.NewBranch(req.BranchID)
	if err != nil {
		return nil, err
	}

	unit := inventory.UnitKilogram
	if req.Unit != "" {
		unit = inventory.Unit(req.Unit)
	}

	item, err := inventory.NewInventoryItem(req.ProductName, branch, unit, req.Category)
	if err != nil {
		return nil, err
	}
	if err := item.SetThresholds(req.LowThreshold, req.CriticalThreshold); err != nil {
		return nil, err
	}
	if err := item.SetPricing(req.UnitCost, req.UnitSellingPrice); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if existing, err := repos.ItemRepo().FindByProductAndBranch(ctx, req.ProductName, branch); err == nil && existing != nil {
			return shared.NewDomainErrorf("ALREADY_EXISTS",
				"Product %s already exists at branch %s", req.ProductName, branch)
		}
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if req.InitialQuantity.IsPositive() {
			_, err := s.engine.MoveByItem(ctx, repos.ItemRepo(), repos.LedgerRepo(),
				item, inventory.TransactionTypeAdd, req.InitialQuantity, "opening-stock", actor.Name)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actor, "inventory_item_created", "Registered "+req.ProductName, branch, item.ID.String())
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// GetByID retrieves one inventory item
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// List retrieves inventory items with optional branch and level filtering
func (s *InventoryService) List(ctx context.Context, filter ListFilter) ([]InventoryItemResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.StockLevel != "" {
		domainFilter.Filters["stock_level"] = filter.StockLevel
	}

	var (
		items []inventory.InventoryItem
		err   error
	)
	switch {
	case filter.BelowThreshold:
		items, err = s.itemRepo.FindBelowThreshold(ctx, domainFilter)
	case filter.BranchID != "":
		branch, berr := valueobject.NewBranch(filter.BranchID)
		if berr != nil {
			return nil, berr
		}
		items, err = s.itemRepo.FindByBranch(ctx, branch, domainFilter)
	default:
		items, err = s.itemRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}
	return ToInventoryItemResponses(items), nil
}

// ListTransactions retrieves ledger records, optionally narrowed by
// reference or product/branch.
func (s *InventoryService) ListTransactions(ctx context.Context, filter TransactionListFilter) ([]TransactionResponse, error) {
	if filter.Reference != "" {
		txs, err := s.ledgerRepo.FindByReference(ctx, filter.Reference)
		if err != nil {
			return nil, err
		}
		return ToTransactionResponses(txs), nil
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.BranchID != "" {
		domainFilter.Filters["branch_id"] = filter.BranchID
	}
	if filter.ProductName != "" {
		domainFilter.Filters["product_name"] = filter.ProductName
	}

	txs, err := s.ledgerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

// CreateAdjustment proposes a manual correction awaiting approval. Stock
// is untouched until the adjustment is approved.
func (s *InventoryService) CreateAdjustment(ctx context.Context, req CreateAdjustmentRequest, actor workflow.Actor) (*AdjustmentResponse, error) {
	branch, err := valueobject.NewBranch(req.BranchID)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByProductAndBranch(ctx, req.ProductName, branch)
	if err != nil {
		return nil, err
	}

	adjustment, err := inventory.NewStockAdjustment(item.ID, req.SignedAmount, req.Reason, actor.Name)
	if err != nil {
		return nil, err
	}
	if err := s.adjustRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actor, "stock_adjustment_requested", req.Reason, branch, adjustment.ID.String())
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// ApproveAdjustment applies the signed amount to the item and closes the
// adjustment, both in one transaction.
func (s *InventoryService) ApproveAdjustment(ctx context.Context, adjustmentID uuid.UUID, actor workflow.Actor) (*AdjustmentResponse, error) {
	var adjustment *inventory.StockAdjustment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		adjustment, err = repos.AdjustmentRepo().FindByID(ctx, adjustmentID)
		if err != nil {
			return err
		}
		if err := adjustment.Approve(actor.Name); err != nil {
			return err
		}

		item, err := repos.ItemRepo().FindByID(ctx, adjustment.ItemID)
		if err != nil {
			return err
		}
		if err := item.ApplyAdjustment(adjustment.SignedAmount); err != nil {
			return err
		}

		txType := inventory.TransactionTypeAdd
		quantity := adjustment.SignedAmount
		if quantity.IsNegative() {
			txType = inventory.TransactionTypeDeduct
			quantity = quantity.Neg()
		}
		record, err := inventory.NewInventoryTransaction(item, txType, quantity, "adjustment:"+adjustment.ID.String(), actor.Name)
		if err != nil {
			return err
		}

		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		if err := repos.LedgerRepo().Append(ctx, record); err != nil {
			return err
		}
		return repos.AdjustmentRepo().SaveWithLock(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actor, "stock_adjustment_approved", adjustment.Reason, "", adjustment.ID.String())
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// RejectAdjustment closes the adjustment without touching stock
func (s *InventoryService) RejectAdjustment(ctx context.Context, adjustmentID uuid.UUID, actor workflow.Actor, reason string) (*AdjustmentResponse, error) {
	adjustment, err := s.adjustRepo.FindByID(ctx, adjustmentID)
	if err != nil {
		return nil, err
	}
	if err := adjustment.Reject(actor.Name, reason); err != nil {
		return nil, err
	}
	if err := s.adjustRepo.SaveWithLock(ctx, adjustment); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, actor, "stock_adjustment_rejected", reason, "", adjustment.ID.String())
	response := ToAdjustmentResponse(adjustment)
	return &response, nil
}

// ListAdjustments retrieves adjustments by status
func (s *InventoryService) ListAdjustments(ctx context.Context, status inventory.AdjustmentStatus) ([]AdjustmentResponse, error) {
	adjustments, err := s.adjustRepo.FindByStatus(ctx, status, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := make([]AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		responses[i] = ToAdjustmentResponse(&adjustments[i])
	}
	return responses, nil
}

func (s *InventoryService) recordActivity(ctx context.Context, actor workflow.Actor, action, description string, branch valueobject.Branch, reference string) {
	if s.activityRepo == nil {
		return
	}
	_ = s.activityRepo.Append(ctx, audit.NewActivity(actor.Name, string(actor.Role), action, description, branch, reference))
}
