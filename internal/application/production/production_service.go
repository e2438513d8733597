package production

import (
	"context"

	"github.com/google/uuid"
	invapp "github.com/kushukushu/backend/internal/application/inventory"
	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/production"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

// RawWheatProduct is the inventory item name milling runs draw from
const RawWheatProduct = "Raw Wheat"

// ProductionService handles wheat intake and milling runs. Wheat is
// deducted when a run starts and the flour outputs are added when it
// completes, both through the inventory engine in the run's transaction.
type ProductionService struct {
	scope       TransactionScope
	millingRepo production.MillingOrderRepository
	engine      *invapp.Engine
}

// NewProductionService creates a new ProductionService
func NewProductionService(scope TransactionScope, millingRepo production.MillingOrderRepository, engine *invapp.Engine) *ProductionService {
	return &ProductionService{
		scope:       scope,
		millingRepo: millingRepo,
		engine:      engine,
	}
}

// RecordWheatDelivery books a supplier delivery and adds the wheat to stock
func (s *ProductionService) RecordWheatDelivery(ctx context.Context, req WheatDeliveryRequest, actor workflow.Actor) (*WheatDeliveryResponse, error) {
	branch, err := valueobject.NewBranch(req.BranchID)
	if err != nil {
		return nil, err
	}

	delivery, err := production.NewWheatDelivery(req.SupplierName, branch, req.Quantity,
		production.WheatQuality(req.Quality), actor.Name, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.ensureWheatItem(ctx, repos, branch); err != nil {
			return err
		}
		if _, err := s.engine.Move(ctx, repos.ItemRepo(), repos.LedgerRepo(),
			RawWheatProduct, branch,
			inventory.TransactionTypeAdd, delivery.Quantity,
			delivery.Reference(), actor.Name); err != nil {
			return err
		}
		if err := repos.DeliveryRepo().Save(ctx, delivery); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "wheat_delivery_recorded",
			delivery.Quantity.String()+"kg from "+req.SupplierName, branch, delivery.Reference())
	})
	if err != nil {
		return nil, err
	}

	response := ToWheatDeliveryResponse(delivery)
	return &response, nil
}

// CreateMillingOrder starts a run, deducting the wheat input immediately.
// Not enough wheat on hand fails the creation outright.
func (s *ProductionService) CreateMillingOrder(ctx context.Context, req CreateMillingOrderRequest, actor workflow.Actor) (*MillingOrderResponse, error) {
	branch, err := valueobject.NewBranch(req.BranchID)
	if err != nil {
		return nil, err
	}

	order, err := production.NewMillingOrder(branch, req.RawWheatInput, actor.Name, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := s.engine.Move(ctx, repos.ItemRepo(), repos.LedgerRepo(),
			RawWheatProduct, branch,
			inventory.TransactionTypeDeduct, order.RawWheatInput,
			order.Reference(), actor.Name); err != nil {
			return err
		}
		if err := repos.MillingRepo().Save(ctx, order); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "milling_order_created",
			"Milling "+order.RawWheatInput.String()+"kg", branch, order.Reference())
	})
	if err != nil {
		return nil, err
	}

	response := ToMillingOrderResponse(order)
	return &response, nil
}

// CompleteMillingOrder records the outputs and adds them to stock
func (s *ProductionService) CompleteMillingOrder(ctx context.Context, id uuid.UUID, req CompleteMillingOrderRequest, actor workflow.Actor) (*MillingOrderResponse, error) {
	outputs := make(production.MillingOutputs, len(req.Outputs))
	for i, out := range req.Outputs {
		outputs[i] = production.MillingOutput{ProductName: out.ProductName, Quantity: out.Quantity}
	}

	var order *production.MillingOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.MillingRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Complete(outputs, actor.Name); err != nil {
			return err
		}

		for _, out := range order.Outputs {
			if err := s.ensureItem(ctx, repos, out.ProductName, order.BranchID); err != nil {
				return err
			}
			if _, err := s.engine.Move(ctx, repos.ItemRepo(), repos.LedgerRepo(),
				out.ProductName, order.BranchID,
				inventory.TransactionTypeAdd, out.Quantity,
				order.Reference(), actor.Name); err != nil {
				return err
			}
		}

		if err := repos.MillingRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "milling_order_completed",
			"Produced "+order.TotalOutput().String()+"kg", order.BranchID, order.Reference())
	})
	if err != nil {
		return nil, err
	}

	response := ToMillingOrderResponse(order)
	return &response, nil
}

// ListMillingOrders retrieves milling orders, optionally by status
func (s *ProductionService) ListMillingOrders(ctx context.Context, status string) ([]MillingOrderResponse, error) {
	filter := shared.DefaultFilter()
	var (
		orders []*production.MillingOrder
		err    error
	)
	if status != "" {
		orders, err = s.millingRepo.FindByStatus(ctx, production.MillingStatus(status), filter)
	} else {
		orders, err = s.millingRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	return ToMillingOrderResponses(orders), nil
}

func (s *ProductionService) ensureWheatItem(ctx context.Context, repos TransactionalRepositories, branch valueobject.Branch) error {
	return s.ensureItem(ctx, repos, RawWheatProduct, branch)
}

func (s *ProductionService) ensureItem(ctx context.Context, repos TransactionalRepositories, productName string, branch valueobject.Branch) error {
	_, err := repos.ItemRepo().FindByProductAndBranch(ctx, productName, branch)
	if err == nil {
		return nil
	}
	if !shared.IsNotFound(err) {
		return err
	}

	item, err := inventory.NewInventoryItem(productName, branch, inventory.UnitKilogram, "")
	if err != nil {
		return err
	}
	return repos.ItemRepo().Save(ctx, item)
}

func (s *ProductionService) logActivity(ctx context.Context, repos TransactionalRepositories, actor workflow.Actor, action, description string, branch valueobject.Branch, reference string) error {
	if repos.ActivityRepo() == nil {
		return nil
	}
	return repos.ActivityRepo().Append(ctx, audit.NewActivity(actor.Name, string(actor.Role), action, description, branch, reference))
}
