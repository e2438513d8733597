package finance

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ErrExcessPayment is returned when a payment would drive a loan balance
// below zero. Overpayments are rejected outright, never stored as credit.
var ErrExcessPayment = shared.NewDomainError("EXCESS_PAYMENT", "Payment exceeds outstanding loan balance")

// LoanStatus is derived from balance and due date, never set directly
type LoanStatus string

const (
	LoanActive  LoanStatus = "active"
	LoanOverdue LoanStatus = "overdue"
	LoanPaid    LoanStatus = "paid"
)

// LoanPayment is one settlement applied against a loan
type LoanPayment struct {
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	ReceivedBy string          `json:"received_by"`
	PaidAt     time.Time       `json:"paid_at"`
	Notes      string          `json:"notes,omitempty"`
}

// LoanPayments is the append-only settlement trail stored as JSONB
type LoanPayments []LoanPayment

// Value implements driver.Valuer for JSONB storage
func (p LoanPayments) Value() (driver.Value, error) {
	if p == nil {
		p = LoanPayments{}
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB storage
func (p *LoanPayments) Scan(value interface{}) error { return scanJSON(value, p) }

// Total sums all payment amounts
func (p LoanPayments) Total() decimal.Decimal {
	total := decimal.Zero
	for _, payment := range p {
		total = total.Add(payment.Amount)
	}
	return total
}

// Loan tracks customer credit extended at sale time. Balance equals the
// initial amount minus the sum of payments and is never negative.
type Loan struct {
	shared.BaseAggregateRoot
	LoanNumber    string             `gorm:"not null;uniqueIndex"`
	CustomerID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	CustomerName  string             `gorm:"not null;default:''"`
	BranchID      valueobject.Branch `gorm:"not null;index"`
	TransactionID *uuid.UUID         `gorm:"type:uuid;index"` // Originating loan-type sale
	InitialAmount decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	PaidAmount    decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Balance       decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	DueDate       time.Time          `gorm:"not null;index"`
	Status        LoanStatus         `gorm:"not null;index"`
	Payments      LoanPayments       `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (Loan) TableName() string {
	return "loans"
}

// NewLoan opens a loan for a customer, usually from a loan-type sale
func NewLoan(customerID uuid.UUID, customerName string, branch valueobject.Branch, transactionID *uuid.UUID, amount decimal.Decimal, dueDate time.Time) (*Loan, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer is required")
	}
	if branch.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Loan amount must be positive")
	}

	root := shared.NewBaseAggregateRoot()
	l := &Loan{
		BaseAggregateRoot: root,
		LoanNumber:        fmt.Sprintf("LOAN-%s-%s", time.Now().Format("20060102150405"), root.ID.String()[:4]),
		CustomerID:        customerID,
		CustomerName:      customerName,
		BranchID:          branch,
		TransactionID:     transactionID,
		InitialAmount:     amount,
		PaidAmount:        decimal.Zero,
		Balance:           amount,
		DueDate:           dueDate,
		Payments:          LoanPayments{},
	}
	l.RecomputeStatus(time.Now())
	return l, nil
}

// RecordPayment appends a settlement and recomputes the balance. The
// customer's outstanding balance must be decremented by the same amount in
// the same transaction, which the caller coordinates.
func (l *Loan) RecordPayment(amount decimal.Decimal, method, reference, receivedBy, notes string) error {
	if l.Status == LoanPaid {
		return shared.NewDomainErrorf("INVALID_STAGE", "Loan %s is already paid in full", l.LoanNumber)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if method == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment method is required")
	}
	if amount.GreaterThan(l.Balance) {
		return ErrExcessPayment
	}

	now := time.Now()
	l.Payments = append(l.Payments, LoanPayment{
		Amount:     amount,
		Method:     method,
		Reference:  reference,
		ReceivedBy: receivedBy,
		PaidAt:     now,
		Notes:      notes,
	})
	l.PaidAmount = l.Payments.Total()
	l.Balance = l.InitialAmount.Sub(l.PaidAmount)
	l.RecomputeStatus(now)
	l.UpdatedAt = now
	l.IncrementVersion()
	l.AddDomainEvent(NewLoanPaymentRecordedEvent(l, amount, method))
	return nil
}

// RecomputeStatus derives the loan status from balance and due date
func (l *Loan) RecomputeStatus(now time.Time) {
	switch {
	case l.Balance.LessThanOrEqual(decimal.Zero):
		l.Status = LoanPaid
	case now.After(l.DueDate):
		l.Status = LoanOverdue
	default:
		l.Status = LoanActive
	}
}

// IsOverdue reports whether the loan has an unpaid balance past due
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.Balance.GreaterThan(decimal.Zero) && now.After(l.DueDate)
}
