package finance

import (
	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	EventLoanPaymentRecorded   = "finance.loan_payment_recorded"
	EventReconciliationFlagged = "finance.reconciliation_flagged"
)

// LoanPaymentRecordedEvent fires when a settlement lands on a loan
type LoanPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	LoanID     uuid.UUID
	LoanNumber string
	CustomerID uuid.UUID
	Amount     decimal.Decimal
	Method     string
	Balance    decimal.Decimal
	Status     LoanStatus
}

// NewLoanPaymentRecordedEvent creates a loan payment event
func NewLoanPaymentRecordedEvent(l *Loan, amount decimal.Decimal, method string) *LoanPaymentRecordedEvent {
	return &LoanPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLoanPaymentRecorded, l.ID, "Loan"),
		LoanID:          l.ID,
		LoanNumber:      l.LoanNumber,
		CustomerID:      l.CustomerID,
		Amount:          amount,
		Method:          method,
		Balance:         l.Balance,
		Status:          l.Status,
	}
}

// ReconciliationFlaggedEvent fires when a cash count misses the tolerance
type ReconciliationFlaggedEvent struct {
	shared.BaseDomainEvent
	ReconciliationID uuid.UUID
	Number           string
	BranchID         valueobject.Branch
	Date             string
	ExpectedCash     decimal.Decimal
	ActualCash       decimal.Decimal
	Variance         decimal.Decimal
}

// NewReconciliationFlaggedEvent creates a flagged-variance event
func NewReconciliationFlaggedEvent(r *Reconciliation) *ReconciliationFlaggedEvent {
	return &ReconciliationFlaggedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventReconciliationFlagged, r.ID, "Reconciliation"),
		ReconciliationID: r.ID,
		Number:           r.Number,
		BranchID:         r.BranchID,
		Date:             r.Date,
		ExpectedCash:     r.ExpectedCash,
		ActualCash:       r.ActualCash,
		Variance:         r.Variance,
	}
}
