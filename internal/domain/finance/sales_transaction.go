package finance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentType is how a sale was settled
type PaymentType string

const (
	PaymentTypeCash     PaymentType = "cash"
	PaymentTypeCheck    PaymentType = "check"
	PaymentTypeTransfer PaymentType = "transfer"
	PaymentTypeLoan     PaymentType = "loan"
)

// IsValid checks if the payment type is recognized
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentTypeCash, PaymentTypeCheck, PaymentTypeTransfer, PaymentTypeLoan:
		return true
	}
	return false
}

// CountsTowardCash reports whether the sale contributes to the physical
// cash drawer a branch reconciles at close. Checks and transfers settle
// through the bank; loan sales collect nothing at sale time.
func (p PaymentType) CountsTowardCash() bool {
	return p == PaymentTypeCash
}

// SaleItem is one line of a sales transaction
type SaleItem struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleItems is stored as a JSONB array on the transaction row
type SaleItems []SaleItem

// Value implements driver.Valuer for JSONB storage
func (s SaleItems) Value() (driver.Value, error) {
	if s == nil {
		s = SaleItems{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage
func (s *SaleItems) Scan(value interface{}) error { return scanJSON(value, s) }

// Total sums the line subtotals
func (s SaleItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s {
		total = total.Add(item.Subtotal)
	}
	return total
}

// SalesTransaction is a point-of-sale record. It is written once at sale
// time and never mutated; reconciliation reads it as ledger input.
type SalesTransaction struct {
	shared.BaseAggregateRoot
	TransactionNumber string             `gorm:"not null;uniqueIndex"`
	BranchID          valueobject.Branch `gorm:"not null;index"`
	SoldBy            string             `gorm:"not null"`
	PaymentType       PaymentType        `gorm:"not null;index"`
	CustomerID        *uuid.UUID         `gorm:"type:uuid;index"`
	CustomerName      string             `gorm:"not null;default:''"`
	Items             SaleItems          `gorm:"type:jsonb;not null"`
	TotalAmount       decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	SaleDate          string             `gorm:"not null;index"` // YYYY-MM-DD, the reconciliation bucket
	Notes             string             `gorm:"not null;default:''"`
}

// TableName returns the table name for GORM
func (SalesTransaction) TableName() string {
	return "sales_transactions"
}

// NewSalesTransactionParams carries creation input for a sale
type NewSalesTransactionParams struct {
	BranchID     valueobject.Branch
	SoldBy       string
	PaymentType  PaymentType
	CustomerID   *uuid.UUID
	CustomerName string
	Items        SaleItems
	Notes        string
}

// NewSalesTransaction creates an immutable sale record. Loan sales require
// an identified customer so the credit can be tracked against them.
func NewSalesTransaction(p NewSalesTransactionParams) (*SalesTransaction, error) {
	if p.BranchID.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch is required")
	}
	if p.SoldBy == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Seller is required")
	}
	if !p.PaymentType.IsValid() {
		return nil, shared.NewDomainErrorf("VALIDATION_ERROR", "Unknown payment type %q", p.PaymentType)
	}
	if len(p.Items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "At least one sale item is required")
	}
	for _, item := range p.Items {
		if item.ProductName == "" {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale item product name is required")
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Sale item quantity must be positive")
		}
		if !item.Subtotal.Equal(item.Quantity.Mul(item.UnitPrice)) {
			return nil, shared.NewDomainErrorf("VALIDATION_ERROR",
				"Subtotal for %s does not match quantity and unit price", item.ProductName)
		}
	}
	if p.PaymentType == PaymentTypeLoan && p.CustomerID == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Loan sales require a customer")
	}

	now := time.Now()
	root := shared.NewBaseAggregateRoot()
	return &SalesTransaction{
		BaseAggregateRoot: root,
		TransactionNumber: fmt.Sprintf("TXN-%s-%s", now.Format("20060102150405"), root.ID.String()[:4]),
		BranchID:          p.BranchID,
		SoldBy:            p.SoldBy,
		PaymentType:       p.PaymentType,
		CustomerID:        p.CustomerID,
		CustomerName:      p.CustomerName,
		Items:             p.Items,
		TotalAmount:       p.Items.Total(),
		SaleDate:          now.Format("2006-01-02"),
		Notes:             p.Notes,
	}, nil
}

// scanJSON is the shared sql.Scanner body for JSONB columns in this package
func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan JSON column: unsupported type")
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dest)
}
