package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustmentStatus represents the approval state of a stock adjustment
type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "pending"
	AdjustmentStatusApproved AdjustmentStatus = "approved"
	AdjustmentStatusRejected AdjustmentStatus = "rejected"
)

// IsTerminal returns true if the adjustment can no longer change state
func (s AdjustmentStatus) IsTerminal() bool {
	return s == AdjustmentStatusApproved || s == AdjustmentStatusRejected
}

// StockAdjustment is a requested correction to an inventory item's quantity.
// It never touches the ledger directly: only an approval applies the delta,
// through the transaction engine, in the same database transaction.
type StockAdjustment struct {
	shared.BaseAggregateRoot
	ItemID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	SignedAmount    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Reason          string           `gorm:"not null"`
	RequestedBy     string           `gorm:"not null"`
	Status          AdjustmentStatus `gorm:"not null;default:'pending'"`
	DecidedBy       string           `gorm:"not null;default:''"`
	DecidedAt       *time.Time
	RejectionReason string `gorm:"not null;default:''"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewStockAdjustment creates a pending stock adjustment request
func NewStockAdjustment(itemID uuid.UUID, signedAmount decimal.Decimal, reason, requestedBy string) (*StockAdjustment, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Inventory item ID cannot be empty")
	}
	if signedAmount.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment amount cannot be zero")
	}
	if reason == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment reason is required")
	}
	if requestedBy == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requester is required")
	}

	return &StockAdjustment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemID:            itemID,
		SignedAmount:      signedAmount,
		Reason:            reason,
		RequestedBy:       requestedBy,
		Status:            AdjustmentStatusPending,
	}, nil
}

// Approve marks the adjustment approved. The caller is responsible for
// applying the delta to the item in the same transaction.
func (a *StockAdjustment) Approve(approvedBy string) error {
	if a.Status != AdjustmentStatusPending {
		return shared.NewDomainErrorf("INVALID_STAGE", "Adjustment is %s, not pending", a.Status)
	}
	if approvedBy == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Approver is required")
	}

	now := time.Now()
	a.Status = AdjustmentStatusApproved
	a.DecidedBy = approvedBy
	a.DecidedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}

// Reject marks the adjustment rejected with a mandatory reason
func (a *StockAdjustment) Reject(rejectedBy, reason string) error {
	if a.Status != AdjustmentStatusPending {
		return shared.NewDomainErrorf("INVALID_STAGE", "Adjustment is %s, not pending", a.Status)
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection reason is required")
	}

	now := time.Now()
	a.Status = AdjustmentStatusRejected
	a.DecidedBy = rejectedBy
	a.DecidedAt = &now
	a.RejectionReason = reason
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}
