package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SalesTransactionRepository defines the persistence interface for sales
type SalesTransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesTransaction, error)
	FindByTransactionNumber(ctx context.Context, number string) (*SalesTransaction, error)
	FindByBranchAndDate(ctx context.Context, branch valueobject.Branch, date string) ([]*SalesTransaction, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*SalesTransaction, error)
	// SumCashByBranchAndDate totals the cash-type sales for one branch on
	// one date, the expected-cash input to reconciliation.
	SumCashByBranchAndDate(ctx context.Context, branch valueobject.Branch, date string) (decimal.Decimal, error)
	Save(ctx context.Context, transaction *SalesTransaction) error
}

// LoanRepository defines the persistence interface for loans
type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindByLoanNumber(ctx context.Context, number string) (*Loan, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Loan, error)
	FindByStatus(ctx context.Context, status LoanStatus, filter shared.Filter) ([]*Loan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Loan, error)
	Save(ctx context.Context, loan *Loan) error
	SaveWithLock(ctx context.Context, loan *Loan) error
}

// CustomerRepository defines the persistence interface for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByName(ctx context.Context, name string) (*Customer, error)
	FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Customer, error)
	Save(ctx context.Context, customer *Customer) error
	SaveWithLock(ctx context.Context, customer *Customer) error
}

// ReconciliationRepository defines the persistence interface for cash counts
type ReconciliationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reconciliation, error)
	FindByBranchAndDate(ctx context.Context, branch valueobject.Branch, date string) ([]*Reconciliation, error)
	FindFlagged(ctx context.Context, filter shared.Filter) ([]*Reconciliation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Reconciliation, error)
	Save(ctx context.Context, reconciliation *Reconciliation) error
}
