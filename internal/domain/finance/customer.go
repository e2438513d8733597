package finance

import (
	"time"

	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Customer holds the credit position of a buyer. Outstanding balance moves
// in lockstep with their loans and never exceeds the credit limit.
type Customer struct {
	shared.BaseAggregateRoot
	Name               string             `gorm:"not null;index"`
	Phone              string             `gorm:"not null;default:''"`
	Address            string             `gorm:"not null;default:''"`
	BranchID           valueobject.Branch `gorm:"not null;index"`
	CreditLimit        decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	OutstandingBalance decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer registers a customer with a credit limit
func NewCustomer(name, phone, address string, branch valueobject.Branch, creditLimit decimal.Decimal) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer name is required")
	}
	if branch.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch is required")
	}
	if creditLimit.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Credit limit cannot be negative")
	}

	return &Customer{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Name:               name,
		Phone:              phone,
		Address:            address,
		BranchID:           branch,
		CreditLimit:        creditLimit,
		OutstandingBalance: decimal.Zero,
	}, nil
}

// CreditAvailable returns how much further credit can be extended
func (c *Customer) CreditAvailable() decimal.Decimal {
	return c.CreditLimit.Sub(c.OutstandingBalance)
}

// ExtendCredit raises the outstanding balance when a loan sale is made
func (c *Customer) ExtendCredit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit amount must be positive")
	}
	if amount.GreaterThan(c.CreditAvailable()) {
		return shared.NewDomainErrorf("CREDIT_LIMIT_EXCEEDED",
			"Customer %s has %s credit available, requested %s",
			c.Name, c.CreditAvailable(), amount)
	}

	c.OutstandingBalance = c.OutstandingBalance.Add(amount)
	c.touch()
	return nil
}

// SettleCredit lowers the outstanding balance when a loan payment lands
func (c *Customer) SettleCredit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Settlement amount must be positive")
	}
	if amount.GreaterThan(c.OutstandingBalance) {
		return shared.NewDomainErrorf("VALIDATION_ERROR",
			"Settlement %s exceeds outstanding balance %s", amount, c.OutstandingBalance)
	}

	c.OutstandingBalance = c.OutstandingBalance.Sub(amount)
	c.touch()
	return nil
}

// SetCreditLimit changes the limit; it may not drop below what is owed
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.LessThan(c.OutstandingBalance) {
		return shared.NewDomainError("VALIDATION_ERROR",
			"Credit limit cannot be below the outstanding balance")
	}

	c.CreditLimit = limit
	c.touch()
	return nil
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
