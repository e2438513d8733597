package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
	"github.com/shopspring/decimal"
)

// PurchaseService drives purchase requisitions through the amount-routed
// approval chain and the finance payout steps.
type PurchaseService struct {
	scope           TransactionScope
	requisitionRepo workflow.PurchaseRequisitionRepository
	publisher       shared.EventPublisher
	adminThreshold  decimal.Decimal
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	scope TransactionScope,
	requisitionRepo workflow.PurchaseRequisitionRepository,
	publisher shared.EventPublisher,
	adminThreshold decimal.Decimal,
) *PurchaseService {
	return &PurchaseService{
		scope:           scope,
		requisitionRepo: requisitionRepo,
		publisher:       publisher,
		adminThreshold:  adminThreshold,
	}
}

// Create opens a requisition routed by its estimated cost against the
// configured admin threshold.
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest, actor workflow.Actor) (*PurchaseResponse, error) {
	branch, err := valueobject.NewBranch(req.BranchID)
	if err != nil {
		return nil, err
	}

	requiresFunds := true
	if req.RequiresFundRequest != nil {
		requiresFunds = *req.RequiresFundRequest
	}

	requisition, err := workflow.NewPurchaseRequisition(workflow.NewPurchaseRequisitionParams{
		RequestedBy:         actor.Name,
		BranchID:            branch,
		Description:         req.Description,
		Category:            workflow.PurchaseCategory(req.Category),
		PurchaseType:        workflow.PurchaseType(req.PurchaseType),
		EstimatedCost:       req.EstimatedCost,
		RequiresFundRequest: requiresFunds,
		AdminThreshold:      s.adminThreshold,
	})
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.RequisitionRepo().Save(ctx, requisition); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, "purchase_requisition_created",
			req.Description, branch, requisition.RequestNumber)
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(requisition)
	return &response, nil
}

// ApproveAdmin records the admin decision on an admin-routed requisition
func (s *PurchaseService) ApproveAdmin(ctx context.Context, id uuid.UUID, actor workflow.Actor, notes string) (*PurchaseResponse, error) {
	return s.transition(ctx, id, actor, "purchase_admin_approved", notes, func(r *workflow.PurchaseRequisition) error {
		return r.ApproveAdmin(actor, notes)
	})
}

// ApproveOwner records the owner decision on an owner-routed requisition
func (s *PurchaseService) ApproveOwner(ctx context.Context, id uuid.UUID, actor workflow.Actor, notes string) (*PurchaseResponse, error) {
	return s.transition(ctx, id, actor, "purchase_owner_approved", notes, func(r *workflow.PurchaseRequisition) error {
		return r.ApproveOwner(actor, notes)
	})
}

// RequestFunds records the finance funds authorization
func (s *PurchaseService) RequestFunds(ctx context.Context, id uuid.UUID, actor workflow.Actor, notes string) (*PurchaseResponse, error) {
	return s.transition(ctx, id, actor, "purchase_funds_requested", notes, func(r *workflow.PurchaseRequisition) error {
		return r.RequestFunds(actor, notes)
	})
}

// ProcessPayment records the payout and completes the requisition
func (s *PurchaseService) ProcessPayment(ctx context.Context, id uuid.UUID, actor workflow.Actor, req ProcessPaymentRequest) (*PurchaseResponse, error) {
	return s.transition(ctx, id, actor, "purchase_payment_processed", req.Notes, func(r *workflow.PurchaseRequisition) error {
		return r.ProcessPayment(actor, workflow.ProcessPaymentParams{
			Amount:    req.Amount,
			Method:    req.Method,
			Reference: req.Reference,
			Notes:     req.Notes,
		})
	})
}

// Reject terminates the requisition
func (s *PurchaseService) Reject(ctx context.Context, id uuid.UUID, actor workflow.Actor, reason string) (*PurchaseResponse, error) {
	return s.transition(ctx, id, actor, "purchase_rejected", reason, func(r *workflow.PurchaseRequisition) error {
		return r.Reject(actor, reason)
	})
}

// Repair re-derives routing and status from the estimated cost for every
// requisition still sitting in a pending-approval stage, stripping legacy
// manager fields. Safe to run repeatedly.
func (s *PurchaseService) Repair(ctx context.Context) (int, error) {
	requisitions, err := s.requisitionRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10000})
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, requisition := range requisitions {
		if !requisition.Normalize(s.adminThreshold) {
			continue
		}
		if err := s.requisitionRepo.SaveWithLock(ctx, requisition); err != nil {
			return repaired, err
		}
		repaired++
	}
	return repaired, nil
}

// GetByID retrieves one requisition
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	requisition, err := s.requisitionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(requisition)
	return &response, nil
}

// List retrieves requisitions with optional filtering
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) ([]PurchaseResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Routing != "" {
		domainFilter.Filters["routing"] = filter.Routing
	}

	var (
		requisitions []*workflow.PurchaseRequisition
		err          error
	)
	switch {
	case filter.Status != "":
		requisitions, err = s.requisitionRepo.FindByStatus(ctx, workflow.PurchaseStatus(filter.Status), domainFilter)
	case filter.BranchID != "":
		branch, berr := valueobject.NewBranch(filter.BranchID)
		if berr != nil {
			return nil, berr
		}
		requisitions, err = s.requisitionRepo.FindByBranch(ctx, branch, domainFilter)
	default:
		requisitions, err = s.requisitionRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, err
	}
	return ToPurchaseResponses(requisitions), nil
}

// FinanceQueue lists requisitions waiting on a finance action
func (s *PurchaseService) FinanceQueue(ctx context.Context) ([]PurchaseResponse, error) {
	filter := shared.DefaultFilter()
	pending, err := s.requisitionRepo.FindByStatus(ctx, workflow.PurchasePendingFinance, filter)
	if err != nil {
		return nil, err
	}
	requested, err := s.requisitionRepo.FindByStatus(ctx, workflow.PurchaseFundsRequested, filter)
	if err != nil {
		return nil, err
	}
	return ToPurchaseResponses(append(pending, requested...)), nil
}

// transition loads, mutates, and persists one requisition under the CAS
// lock, recording the action trail in the same transaction.
func (s *PurchaseService) transition(ctx context.Context, id uuid.UUID, actor workflow.Actor, action, description string, mutate func(*workflow.PurchaseRequisition) error) (*PurchaseResponse, error) {
	var requisition *workflow.PurchaseRequisition
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		requisition, err = repos.RequisitionRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := mutate(requisition); err != nil {
			return err
		}
		if err := repos.RequisitionRepo().SaveWithLock(ctx, requisition); err != nil {
			return err
		}
		return s.logActivity(ctx, repos, actor, action, description,
			requisition.BranchID, requisition.RequestNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, requisition)
	response := ToPurchaseResponse(requisition)
	return &response, nil
}

func (s *PurchaseService) publishEvents(ctx context.Context, requisition *workflow.PurchaseRequisition) {
	if s.publisher == nil {
		return
	}
	events := requisition.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	requisition.ClearDomainEvents()
}

func (s *PurchaseService) logActivity(ctx context.Context, repos TransactionalRepositories, actor workflow.Actor, action, description string, branch valueobject.Branch, reference string) error {
	if repos.ActivityRepo() == nil {
		return nil
	}
	return repos.ActivityRepo().Append(ctx, audit.NewActivity(actor.Name, string(actor.Role), action, description, branch, reference))
}
