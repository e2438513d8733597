package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest records a point-of-sale transaction
type CreateSaleRequest struct {
	BranchID     string             `json:"branch_id" binding:"required"`
	PaymentType  string             `json:"payment_type" binding:"required,oneof=cash check transfer loan"`
	CustomerID   *uuid.UUID         `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	Items        []SaleItemRequest  `json:"items" binding:"required,min=1,dive"`
	DueDate      *time.Time         `json:"due_date"`
	Notes        string             `json:"notes"`
}

// SaleItemRequest is one line of a sale submission
type SaleItemRequest struct {
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// SaleResponse represents a sales transaction in API responses
type SaleResponse struct {
	ID                uuid.UUID         `json:"id"`
	TransactionNumber string            `json:"transaction_number"`
	BranchID          string            `json:"branch_id"`
	SoldBy            string            `json:"sold_by"`
	PaymentType       string            `json:"payment_type"`
	CustomerID        *uuid.UUID        `json:"customer_id,omitempty"`
	CustomerName      string            `json:"customer_name,omitempty"`
	Items             finance.SaleItems `json:"items"`
	TotalAmount       decimal.Decimal   `json:"total_amount"`
	SaleDate          string            `json:"sale_date"`
	LoanID            *uuid.UUID        `json:"loan_id,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ToSaleResponse converts a domain sale to a response DTO
func ToSaleResponse(t *finance.SalesTransaction, loanID *uuid.UUID) SaleResponse {
	return SaleResponse{
		ID:                t.ID,
		TransactionNumber: t.TransactionNumber,
		BranchID:          t.BranchID.String(),
		SoldBy:            t.SoldBy,
		PaymentType:       string(t.PaymentType),
		CustomerID:        t.CustomerID,
		CustomerName:      t.CustomerName,
		Items:             t.Items,
		TotalAmount:       t.TotalAmount,
		SaleDate:          t.SaleDate,
		LoanID:            loanID,
		CreatedAt:         t.CreatedAt,
	}
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID            uuid.UUID            `json:"id"`
	LoanNumber    string               `json:"loan_number"`
	CustomerID    uuid.UUID            `json:"customer_id"`
	CustomerName  string               `json:"customer_name"`
	BranchID      string               `json:"branch_id"`
	InitialAmount decimal.Decimal      `json:"initial_amount"`
	PaidAmount    decimal.Decimal      `json:"paid_amount"`
	Balance       decimal.Decimal      `json:"balance"`
	DueDate       time.Time            `json:"due_date"`
	Status        string               `json:"status"`
	Payments      finance.LoanPayments `json:"payments"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Version       int                  `json:"version"`
}

// ToLoanResponse converts a domain loan to a response DTO. Status is
// derived from balance and due date at read time, so a loan that
// crossed its due date untouched reads back overdue without waiting
// for the next payment to recompute it.
func ToLoanResponse(l *finance.Loan) LoanResponse {
	if l.IsOverdue(time.Now()) {
		l.Status = finance.LoanOverdue
	}
	return LoanResponse{
		ID:            l.ID,
		LoanNumber:    l.LoanNumber,
		CustomerID:    l.CustomerID,
		CustomerName:  l.CustomerName,
		BranchID:      l.BranchID.String(),
		InitialAmount: l.InitialAmount,
		PaidAmount:    l.PaidAmount,
		Balance:       l.Balance,
		DueDate:       l.DueDate,
		Status:        string(l.Status),
		Payments:      l.Payments,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
		Version:       l.Version,
	}
}

// ToLoanResponses converts a slice of domain loans
func ToLoanResponses(loans []*finance.Loan) []LoanResponse {
	responses := make([]LoanResponse, len(loans))
	for i, l := range loans {
		responses[i] = ToLoanResponse(l)
	}
	return responses
}

// RecordPaymentRequest applies a settlement to a loan
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone,omitempty"`
	Address            string          `json:"address,omitempty"`
	BranchID           string          `json:"branch_id"`
	CreditLimit        decimal.Decimal `json:"credit_limit"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CreditAvailable    decimal.Decimal `json:"credit_available"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *finance.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Phone:              c.Phone,
		Address:            c.Address,
		BranchID:           c.BranchID.String(),
		CreditLimit:        c.CreditLimit,
		OutstandingBalance: c.OutstandingBalance,
		CreditAvailable:    c.CreditAvailable(),
		CreatedAt:          c.CreatedAt,
	}
}

// ToCustomerResponses converts a slice of domain customers
func ToCustomerResponses(customers []*finance.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerResponse(c)
	}
	return responses
}

// ExpectedCashResponse is the read side of reconciliation
type ExpectedCashResponse struct {
	BranchID     string          `json:"branch_id"`
	Date         string          `json:"date"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
}

// ReconcileRequest submits an actual cash count for a branch/date
type ReconcileRequest struct {
	BranchID   string          `json:"branch_id" binding:"required"`
	Date       string          `json:"date" binding:"required"`
	ActualCash decimal.Decimal `json:"actual_cash"`
	Notes      string          `json:"notes"`
	Corrects   *string         `json:"corrects"`
}

// ReconciliationResponse represents a reconciliation in API responses
type ReconciliationResponse struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	BranchID     string          `json:"branch_id"`
	Date         string          `json:"date"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	ActualCash   decimal.Decimal `json:"actual_cash"`
	Variance     decimal.Decimal `json:"variance"`
	Tolerance    decimal.Decimal `json:"tolerance"`
	Status       string          `json:"status"`
	ReconciledBy string          `json:"reconciled_by"`
	Notes        string          `json:"notes,omitempty"`
	Corrects     *string         `json:"corrects,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToReconciliationResponse converts a domain reconciliation to a response DTO
func ToReconciliationResponse(r *finance.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ID:           r.ID,
		Number:       r.Number,
		BranchID:     r.BranchID.String(),
		Date:         r.Date,
		ExpectedCash: r.ExpectedCash,
		ActualCash:   r.ActualCash,
		Variance:     r.Variance,
		Tolerance:    r.Tolerance,
		Status:       string(r.Status),
		ReconciledBy: r.ReconciledBy,
		Notes:        r.Notes,
		Corrects:     r.Corrects,
		CreatedAt:    r.CreatedAt,
	}
}

// ToReconciliationResponses converts a slice of domain reconciliations
func ToReconciliationResponses(items []*finance.Reconciliation) []ReconciliationResponse {
	responses := make([]ReconciliationResponse, len(items))
	for i, r := range items {
		responses[i] = ToReconciliationResponse(r)
	}
	return responses
}
