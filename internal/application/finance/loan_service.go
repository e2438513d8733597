package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

// LoanService applies settlements to loans. A payment moves the loan and
// the customer's outstanding balance in one transaction so the two never
// diverge.
type LoanService struct {
	scope        TransactionScope
	loanRepo     finance.LoanRepository
	customerRepo finance.CustomerRepository
	publisher    shared.EventPublisher
}

// NewLoanService creates a new LoanService
func NewLoanService(
	scope TransactionScope,
	loanRepo finance.LoanRepository,
	customerRepo finance.CustomerRepository,
	publisher shared.EventPublisher,
) *LoanService {
	return &LoanService{
		scope:        scope,
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

// RecordPayment settles part or all of a loan. Paying more than the
// balance is rejected with EXCESS_PAYMENT before anything is written.
func (s *LoanService) RecordPayment(ctx context.Context, loanID uuid.UUID, req RecordPaymentRequest, actor workflow.Actor) (*LoanResponse, error) {
	var loan *finance.Loan
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		loan, err = repos.LoanRepo().FindByID(ctx, loanID)
		if err != nil {
			return err
		}
		if err := loan.RecordPayment(req.Amount, req.Method, req.Reference, actor.Name, req.Notes); err != nil {
			return err
		}

		customer, err := repos.CustomerRepo().FindByID(ctx, loan.CustomerID)
		if err != nil {
			return err
		}
		if err := customer.SettleCredit(req.Amount); err != nil {
			return err
		}

		if err := repos.LoanRepo().SaveWithLock(ctx, loan); err != nil {
			return err
		}
		if err := repos.CustomerRepo().SaveWithLock(ctx, customer); err != nil {
			return err
		}

		if repos.ActivityRepo() != nil {
			return repos.ActivityRepo().Append(ctx, audit.NewActivity(
				actor.Name, string(actor.Role), "loan_payment_recorded",
				"Payment of "+req.Amount.String()+" on "+loan.LoanNumber,
				loan.BranchID, loan.LoanNumber))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, loan)
	response := ToLoanResponse(loan)
	return &response, nil
}

// GetByID retrieves one loan
func (s *LoanService) GetByID(ctx context.Context, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLoanResponse(loan)
	return &response, nil
}

// List retrieves loans, optionally by status
func (s *LoanService) List(ctx context.Context, status string) ([]LoanResponse, error) {
	filter := shared.DefaultFilter()
	if status != "" {
		loans, err := s.loanRepo.FindByStatus(ctx, finance.LoanStatus(status), filter)
		if err != nil {
			return nil, err
		}
		return ToLoanResponses(loans), nil
	}
	loans, err := s.loanRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToLoanResponses(loans), nil
}

// ListByCustomer retrieves one customer's loans
func (s *LoanService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]LoanResponse, error) {
	loans, err := s.loanRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToLoanResponses(loans), nil
}

// GetCustomer retrieves one customer with their credit position
func (s *LoanService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// ListCustomers retrieves customers, optionally by branch
func (s *LoanService) ListCustomers(ctx context.Context, branchID string) ([]CustomerResponse, error) {
	filter := shared.DefaultFilter()
	if branchID != "" {
		branch, err := valueobject.NewBranch(branchID)
		if err != nil {
			return nil, err
		}
		customers, err := s.customerRepo.FindByBranch(ctx, branch, filter)
		if err != nil {
			return nil, err
		}
		return ToCustomerResponses(customers), nil
	}
	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(customers), nil
}

func (s *LoanService) publishEvents(ctx context.Context, loan *finance.Loan) {
	if s.publisher == nil || loan == nil {
		return
	}
	events := loan.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	loan.ClearDomainEvents()
}
