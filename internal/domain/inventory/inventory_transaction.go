package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TransactionType identifies which ledger primitive produced a transaction
type TransactionType string

const (
	TransactionTypeReserve TransactionType = "reserve"
	TransactionTypeRelease TransactionType = "release"
	TransactionTypeDeduct  TransactionType = "deduct"
	TransactionTypeAdd     TransactionType = "add"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeReserve, TransactionTypeRelease, TransactionTypeDeduct, TransactionTypeAdd:
		return true
	}
	return false
}

// Direction returns whether the movement is into or out of available stock
func (t TransactionType) Direction() TransactionDirection {
	switch t {
	case TransactionTypeRelease, TransactionTypeAdd:
		return DirectionIn
	default:
		return DirectionOut
	}
}

// TransactionDirection is the sign of the movement on available stock
type TransactionDirection string

const (
	DirectionIn  TransactionDirection = "in"
	DirectionOut TransactionDirection = "out"
)

// InventoryTransaction is the immutable, append-only audit record created
// once per ledger mutation. Records are never updated or deleted.
type InventoryTransaction struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey"`
	ItemID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductName string               `gorm:"not null"`
	BranchID    valueobject.Branch   `gorm:"not null;index"`
	Type        TransactionType      `gorm:"not null"`
	Direction   TransactionDirection `gorm:"not null"`
	Delta       decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // Signed effect on available quantity
	Reference   string               `gorm:"not null;index"`              // Originating request/order identifier
	PerformedBy string               `gorm:"not null"`
	CreatedAt   time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates an audit record for a ledger mutation.
// quantity is the unsigned magnitude; the stored delta carries the sign
// implied by the transaction type.
func NewInventoryTransaction(item *InventoryItem, txType TransactionType, quantity decimal.Decimal, reference, performedBy string) (*InventoryTransaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid transaction type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transaction quantity must be positive")
	}
	if performedBy == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transaction actor cannot be empty")
	}

	delta := quantity
	if txType.Direction() == DirectionOut {
		delta = quantity.Neg()
	}

	return &InventoryTransaction{
		ID:          uuid.New(),
		ItemID:      item.ID,
		ProductName: item.ProductName,
		BranchID:    item.BranchID,
		Type:        txType,
		Direction:   txType.Direction(),
		Delta:       delta,
		Reference:   reference,
		PerformedBy: performedBy,
		CreatedAt:   time.Now(),
	}, nil
}
