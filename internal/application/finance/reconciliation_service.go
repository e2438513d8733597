package finance

import (
	"context"

	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
	"github.com/shopspring/decimal"
)

// ReconciliationService compares counted cash against the day's cash
// sales. Expected cash is derived from the sales log on every call, so
// re-running the read before submission always yields the same number.
type ReconciliationService struct {
	scope     TransactionScope
	salesRepo finance.SalesTransactionRepository
	reconRepo finance.ReconciliationRepository
	publisher shared.EventPublisher
	tolerance decimal.Decimal
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	scope TransactionScope,
	salesRepo finance.SalesTransactionRepository,
	reconRepo finance.ReconciliationRepository,
	publisher shared.EventPublisher,
	tolerance decimal.Decimal,
) *ReconciliationService {
	return &ReconciliationService{
		scope:     scope,
		salesRepo: salesRepo,
		reconRepo: reconRepo,
		publisher: publisher,
		tolerance: tolerance,
	}
}

// ExpectedCash sums the cash-type sales for a branch/date
func (s *ReconciliationService) ExpectedCash(ctx context.Context, branchID, date string) (*ExpectedCashResponse, error) {
	branch, err := valueobject.NewBranch(branchID)
	if err != nil {
		return nil, err
	}
	expected, err := s.salesRepo.SumCashByBranchAndDate(ctx, branch, date)
	if err != nil {
		return nil, err
	}
	return &ExpectedCashResponse{
		BranchID:     branch.String(),
		Date:         date,
		ExpectedCash: expected,
	}, nil
}

// Reconcile submits an actual cash count, classifies the variance, and
// stores the immutable record. A correction references the record it
// supersedes instead of editing it.
func (s *ReconciliationService) Reconcile(ctx context.Context, req ReconcileRequest, actor workflow.Actor) (*ReconciliationResponse, error) {
	branch, err := valueobject.NewBranch(req.BranchID)
	if err != nil {
		return nil, err
	}

	var record *finance.Reconciliation
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		expected, err := repos.SalesRepo().SumCashByBranchAndDate(ctx, branch, req.Date)
		if err != nil {
			return err
		}

		record, err = finance.NewReconciliation(finance.NewReconciliationParams{
			BranchID:     branch,
			Date:         req.Date,
			ExpectedCash: expected,
			ActualCash:   req.ActualCash,
			Tolerance:    s.tolerance,
			ReconciledBy: actor.Name,
			Notes:        req.Notes,
			Corrects:     req.Corrects,
		})
		if err != nil {
			return err
		}
		if err := repos.ReconciliationRepo().Save(ctx, record); err != nil {
			return err
		}

		if repos.ActivityRepo() != nil {
			return repos.ActivityRepo().Append(ctx, audit.NewActivity(
				actor.Name, string(actor.Role), "reconciliation_submitted",
				string(record.Status)+" with variance "+record.Variance.String(),
				branch, record.Number))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, record)
	response := ToReconciliationResponse(record)
	return &response, nil
}

// ListByBranchAndDate retrieves the reconciliation history for one bucket
func (s *ReconciliationService) ListByBranchAndDate(ctx context.Context, branchID, date string) ([]ReconciliationResponse, error) {
	branch, err := valueobject.NewBranch(branchID)
	if err != nil {
		return nil, err
	}
	records, err := s.reconRepo.FindByBranchAndDate(ctx, branch, date)
	if err != nil {
		return nil, err
	}
	return ToReconciliationResponses(records), nil
}

// List retrieves reconciliations, optionally only flagged ones
func (s *ReconciliationService) List(ctx context.Context, flaggedOnly bool) ([]ReconciliationResponse, error) {
	filter := shared.DefaultFilter()
	if flaggedOnly {
		records, err := s.reconRepo.FindFlagged(ctx, filter)
		if err != nil {
			return nil, err
		}
		return ToReconciliationResponses(records), nil
	}
	records, err := s.reconRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToReconciliationResponses(records), nil
}

func (s *ReconciliationService) publishEvents(ctx context.Context, record *finance.Reconciliation) {
	if s.publisher == nil || record == nil {
		return
	}
	events := record.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	record.ClearDomainEvents()
}
