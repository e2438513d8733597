package workflow

import (
	"context"

	"github.com/google/uuid"
	invapp "github.com/kushukushu/backend/internal/application/inventory"
	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

// StockRequestService drives the stock-request pipeline. Each action loads
// the request, applies the domain transition, performs the matching
// inventory movement, and commits everything in one transaction. Inventory
// movements at a glance:
//
//	admin approval    reserve TotalWeight at the source branch
//	rejection         release the reservation, or add back deducted weight
//	fulfillment       release the reservation, deduct actual qty x package size
//	gate / delivery   no inventory movement, logistics state only
type StockRequestService struct {
	scope       TransactionScope
	requestRepo workflow.StockRequestRepository
	engine      *invapp.Engine
	publisher   shared.EventPublisher
}

// NewStockRequestService creates a new StockRequestService
func NewStockRequestService(
	scope TransactionScope,
	requestRepo workflow.StockRequestRepository,
	engine *invapp.Engine,
	publisher shared.EventPublisher,
) *StockRequestService {
	return &StockRequestService{
		scope:       scope,
		requestRepo: requestRepo,
		engine:      engine,
		publisher:   publisher,
	}
}

// Create opens a stock request awaiting admin approval. No inventory moves
// until the admin approves.
func (s *StockRequestService) Create(ctx context.Context, req CreateStockRequestRequest, actor workflow.Actor) (*StockRequestResponse, error) {
	source, err := valueobject.NewBranch(req.SourceBranch)
	if err != nil {
		return nil, err
	}
	var destination valueobject.Branch
	if req.DestinationBranch != "" {
		destination, err = valueobject.NewBranch(req.DestinationBranch)
		if err != nil {
			return nil, err
		}
	}

	request, err := workflow.NewStockRequest(workflow.NewStockRequestParams{
		RequestedBy:        actor.Name,
		SourceBranch:       source,
		DestinationBranch:  destination,
		ProductName:        req.ProductName,
		PackageSize:        req.PackageSize,
		Quantity:           req.Quantity,
		Reason:             req.Reason,
		IsCustomerDelivery: req.IsCustomerDelivery,
		CustomerInfo:       req.CustomerInfo,
		BatchID:            req.BatchID,
	})
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.StockRequestRepo().Save(ctx, request); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "stock_request_created",
			"Requested "+req.ProductName, source, request.RequestNumber)
	})
	if err != nil {
		return nil, err
	}

	response := ToStockRequestResponse(request)
	return &response, nil
}

// ApproveAdmin advances the request past the admin and reserves the total
// weight at the source branch. Insufficient available stock fails the
// approval outright; nothing is committed.
func (s *StockRequestService) ApproveAdmin(ctx context.Context, id uuid.UUID, actor workflow.Actor, notes string) (*StockRequestResponse, error) {
	var request *workflow.StockRequest
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		request, err = repos.StockRequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := request.ApproveAdmin(actor, notes); err != nil {
			return err
		}
		if _, err := s.engine.Move(ctx, repos.ItemRepo(), repos.LedgerRepo(),
			request.ProductName, request.SourceBranch,
			inventory.TransactionTypeReserve, request.TotalWeight,
			request.Reference(), actor.Name); err != nil {
			return err
		}
		if err := repos.StockRequestRepo().SaveWithLock(ctx, request); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "stock_request_admin_approved",
			notes, request.SourceBranch, request.RequestNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)
	response := ToStockRequestResponse(request)
	return &response, nil
}

// ApproveManager advances the request to fulfillment. The reservation made
// at admin approval stays in place.
func (s *StockRequestService) ApproveManager(ctx context.Context, id uuid.UUID, actor workflow.Actor, notes string) (*StockRequestResponse, error) {
	var request *workflow.StockRequest
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		request, err = repos.StockRequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := request.ApproveManager(actor, notes); err != nil {
			return err
		}
		if err := repos.StockRequestRepo().SaveWithLock(ctx, request); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "stock_request_manager_approved",
			notes, request.SourceBranch, request.RequestNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)
	response := ToStockRequestResponse(request)
	return &response, nil
}

// Fulfill records the storekeeper's packaging and settles the reservation:
// the full reserved weight is released, then the actual packed weight
// (actual quantity times package size) is deducted. Packing 8 of 10
// requested 50kg bags deducts 400kg, not 500kg.
func (s *StockRequestService) Fulfill(ctx context.Context, id uuid.UUID, actor workflow.Actor, req FulfillRequest) (*StockRequestResponse, error) {
	var request *workflow.StockRequest
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		request, err = repos.StockRequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		reservedWeight := request.TotalWeight
		if err := request.Fulfill(actor, workflow.FulfillParams{
			PackingSlipNumber: req.PackingSlipNumber,
			ActualQuantity:    req.ActualQuantity,
			VehicleNumber:     req.VehicleNumber,
			DriverName:        req.DriverName,
			Notes:             req.Notes,
		}); err != nil {
			return err
		}

		item, err := repos.ItemRepo().FindByProductAndBranch(ctx, request.ProductName, request.SourceBranch)
		if err != nil {
			return err
		}
		if _, err := s.engine.MoveByItem(ctx, repos.ItemRepo(), repos.LedgerRepo(),
			item, inventory.TransactionTypeRelease, reservedWeight,
			request.Reference(), actor.Name); err != nil {
			return err
		}
		if _, err := s.engine.MoveByItem(ctx, repos.ItemRepo(), repos.LedgerRepo(),
			item, inventory.TransactionTypeDeduct, request.ActualWeight(),
			request.Reference(), actor.Name); err != nil {
			return err
		}

		if err := repos.StockRequestRepo().SaveWithLock(ctx, request); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "stock_request_fulfilled",
			"Packed "+req.ActualQuantity.String()+" packages", request.SourceBranch, request.RequestNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)
	response := ToStockRequestResponse(request)
	return &response, nil
}

// GateVerify records the guard checkpoint; inventory is untouched
func (s *StockRequestService) GateVerify(ctx context.Context, id uuid.UUID, actor workflow.Actor, req GateVerifyRequest) (*StockRequestResponse, error) {
	var request *workflow.StockRequest
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		request, err = repos.StockRequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := request.GateVerify(actor, req.GatePassNumber, req.VehicleNumber, req.DriverName, req.Notes); err != nil {
			return err
		}
		if err := repos.StockRequestRepo().SaveWithLock(ctx, request); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "stock_request_gate_verified",
			req.GatePassNumber, request.SourceBranch, request.RequestNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)
	response := ToStockRequestResponse(request)
	return &response, nil
}

// ConfirmDelivery closes the pipeline. Branch transfers add the received
// quantity's weight to the destination branch; customer deliveries leave
// inventory alone, the goods left the business at fulfillment.
func (s *StockRequestService) ConfirmDelivery(ctx context.Context, id uuid.UUID, actor workflow.Actor, req ConfirmDeliveryRequest) (*StockRequestResponse, error) {
	var request *workflow.StockRequest
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		request, err = repos.StockRequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := request.ConfirmDelivery(actor, req.ReceivedQuantity, req.Condition, req.Notes); err != nil {
			return err
		}

		if !request.IsCustomerDelivery {
			receivedWeight := req.ReceivedQuantity.Mul(request.PackageSize)
			if receivedWeight.IsPositive() {
				if err := s.ensureDestinationItem(ctx, repos, request); err != nil {
					return err
				}
				if _, err := s.engine.Move(ctx, repos.ItemRepo(), repos.LedgerRepo(),
					request.ProductName, request.BranchID,
					inventory.TransactionTypeAdd, receivedWeight,
					request.Reference(), actor.Name); err != nil {
					return err
				}
			}
		}

		if err := repos.StockRequestRepo().SaveWithLock(ctx, request); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "stock_request_delivered",
			"Received "+req.ReceivedQuantity.String()+" packages", request.BranchID, request.RequestNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)
	response := ToStockRequestResponse(request)
	return &response, nil
}

// Dispatch marks a customer delivery as on the road
func (s *StockRequestService) Dispatch(ctx context.Context, id uuid.UUID, actor workflow.Actor, req DispatchRequest) (*StockRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := request.Dispatch(actor, req.DriverName, req.VehicleNumber, req.Notes); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)
	response := ToStockRequestResponse(request)
	return &response, nil
}

// Reject terminates the request and unwinds whatever inventory state it
// holds: a live reservation is released; already-deducted weight is added
// back. Requests rejected before admin approval carry no inventory state.
func (s *StockRequestService) Reject(ctx context.Context, id uuid.UUID, actor workflow.Actor, reason string) (*StockRequestResponse, error) {
	var request *workflow.StockRequest
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		request, err = repos.StockRequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		hadReservation := request.HasOutstandingReservation()
		wasDeducted := request.WasDeducted() && !request.Status.IsTerminal() &&
			(request.Status == workflow.StockRequestReadyForPickup || request.Status == workflow.StockRequestInTransit)
		deductedWeight := request.ActualWeight()

		if err := request.Reject(actor, reason); err != nil {
			return err
		}

		switch {
		case hadReservation:
			if _, err := s.engine.Move(ctx, repos.ItemRepo(), repos.LedgerRepo(),
				request.ProductName, request.SourceBranch,
				inventory.TransactionTypeRelease, request.TotalWeight,
				request.Reference(), actor.Name); err != nil {
				return err
			}
		case wasDeducted:
			if _, err := s.engine.Move(ctx, repos.ItemRepo(), repos.LedgerRepo(),
				request.ProductName, request.SourceBranch,
				inventory.TransactionTypeAdd, deductedWeight,
				request.Reference(), actor.Name); err != nil {
				return err
			}
		}

		if err := repos.StockRequestRepo().SaveWithLock(ctx, request); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "stock_request_rejected",
			reason, request.SourceBranch, request.RequestNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)
	response := ToStockRequestResponse(request)
	return &response, nil
}

// GetByID retrieves one stock request
func (s *StockRequestService) GetByID(ctx context.Context, id uuid.UUID) (*StockRequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToStockRequestResponse(request)
	return &response, nil
}

// List retrieves stock requests with optional filtering
func (s *StockRequestService) List(ctx context.Context, filter StockRequestListFilter) ([]StockRequestResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	var (
		requests []*workflow.StockRequest
		err      error
	)
	switch {
	case filter.CustomerDelivery:
		requests, err = s.requestRepo.FindCustomerDeliveries(ctx, workflow.DispatchStatus(filter.DispatchStatus), domainFilter)
	case filter.Status != "":
		requests, err = s.requestRepo.FindByStatus(ctx, workflow.StockRequestStatus(filter.Status), domainFilter)
	case filter.BranchID != "":
		branch, berr := valueobject.NewBranch(filter.BranchID)
		if berr != nil {
			return nil, berr
		}
		requests, err = s.requestRepo.FindByBranch(ctx, branch, domainFilter)
	default:
		requests, err = s.requestRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}
	return ToStockRequestResponses(requests), nil
}

// ensureDestinationItem creates the destination item row on first transfer
// of a product into a branch.
func (s *StockRequestService) ensureDestinationItem(ctx context.Context, repos TransactionalRepositories, request *workflow.StockRequest) error {
	_, err := repos.ItemRepo().FindByProductAndBranch(ctx, request.ProductName, request.BranchID)
	if err == nil {
		return nil
	}
	if !shared.IsNotFound(err) {
		return err
	}

	item, err := inventory.NewInventoryItem(request.ProductName, request.BranchID, inventory.UnitKilogram, "")
	if err != nil {
		return err
	}
	return repos.ItemRepo().Save(ctx, item)
}

func (s *StockRequestService) publishEvents(ctx context.Context, request *workflow.StockRequest) {
	if s.publisher == nil || request == nil {
		return
	}
	events := request.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	request.ClearDomainEvents()
}

func (s *StockRequestService) logActivity(ctx context.Context, repos TransactionalRepositories, actor workflow.Actor, action, description string, branch valueobject.Branch, reference string) error {
	if repos.ActivityRepo() == nil {
		return nil
	}
	return repos.ActivityRepo().Append(ctx, audit.NewActivity(actor.Name, string(actor.Role), action, description, branch, reference))
}
