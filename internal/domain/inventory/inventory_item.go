package inventory

import (
	"time"

	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Unit is the unit of measure for an inventory item
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitPieces   Unit = "pcs"
)

// IsValid checks if the unit is a valid Unit
func (u Unit) IsValid() bool {
	return u == UnitKilogram || u == UnitPieces
}

// StockLevel classifies an item's quantity against its thresholds
type StockLevel string

const (
	StockLevelOK       StockLevel = "ok"
	StockLevelLow      StockLevel = "low"
	StockLevelCritical StockLevel = "critical"
)

// InventoryItem represents stock of one product at one branch.
// It is the aggregate root for all ledger operations; quantity is never
// mutated outside the four primitives below, so StockLevel can never go
// stale relative to Quantity and the thresholds.
type InventoryItem struct {
	shared.BaseAggregateRoot
	ProductName       string             `gorm:"not null;uniqueIndex:idx_inventory_item_product_branch,priority:1"`
	BranchID          valueobject.Branch `gorm:"not null;uniqueIndex:idx_inventory_item_product_branch,priority:2"`
	Category          string             `gorm:"not null;default:''"`
	Quantity          decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"` // Available for use
	ReservedQuantity  decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"` // Held for pending requests
	Unit              Unit               `gorm:"not null;default:'kg'"`
	UnitCost          decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	UnitSellingPrice  decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	LowThreshold      decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	CriticalThreshold decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	StockLevel        StockLevel         `gorm:"not null;default:'ok'"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item for a product-branch combination
func NewInventoryItem(productName string, branch valueobject.Branch, unit Unit, category string) (*InventoryItem, error) {
	if productName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if branch.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch ID cannot be empty")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit must be kg or pcs")
	}

	item := &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductName:       productName,
		BranchID:          branch,
		Category:          category,
		Quantity:          decimal.Zero,
		ReservedQuantity:  decimal.Zero,
		Unit:              unit,
		StockLevel:        StockLevelOK,
	}
	item.recomputeStockLevel()
	return item, nil
}

// TotalQuantity returns available plus reserved stock
func (i *InventoryItem) TotalQuantity() decimal.Decimal {
	return i.Quantity.Add(i.ReservedQuantity)
}

// Reserve moves quantity from available to reserved for a pending request
func (i *InventoryItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Reserve quantity must be positive")
	}
	if i.Quantity.LessThan(quantity) {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Insufficient stock of %s at %s: available %s, requested %s",
			i.ProductName, i.BranchID, i.Quantity.String(), quantity.String())
	}

	i.Quantity = i.Quantity.Sub(quantity)
	i.ReservedQuantity = i.ReservedQuantity.Add(quantity)
	i.touch()

	i.AddDomainEvent(NewStockReservedEvent(i, quantity))
	return nil
}

// Release returns previously reserved quantity back to available stock
func (i *InventoryItem) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Release quantity must be positive")
	}
	if i.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainErrorf("VALIDATION_ERROR",
			"Cannot release %s of %s at %s: only %s reserved",
			quantity.String(), i.ProductName, i.BranchID, i.ReservedQuantity.String())
	}

	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	i.Quantity = i.Quantity.Add(quantity)
	i.touch()

	i.AddDomainEvent(NewStockReleasedEvent(i, quantity))
	return nil
}

// Deduct removes quantity from available stock (shipment, sale, consumption).
// Fails if the resulting quantity would be negative.
func (i *InventoryItem) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Deduct quantity must be positive")
	}
	if i.Quantity.LessThan(quantity) {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Insufficient stock of %s at %s: available %s, requested %s",
			i.ProductName, i.BranchID, i.Quantity.String(), quantity.String())
	}

	i.Quantity = i.Quantity.Sub(quantity)
	i.touch()

	i.AddDomainEvent(NewStockDeductedEvent(i, quantity))
	if i.StockLevel != StockLevelOK {
		i.AddDomainEvent(NewStockBelowThresholdEvent(i))
	}
	return nil
}

// Add increases available stock (delivery, production output, replenishment)
func (i *InventoryItem) Add(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Add quantity must be positive")
	}

	i.Quantity = i.Quantity.Add(quantity)
	i.touch()

	i.AddDomainEvent(NewStockAddedEvent(i, quantity))
	return nil
}

// ApplyAdjustment applies a signed correction from an approved stock adjustment
func (i *InventoryItem) ApplyAdjustment(signedAmount decimal.Decimal) error {
	if signedAmount.IsZero() {
		return shared.NewDomainError("VALIDATION_ERROR", "Adjustment amount cannot be zero")
	}
	if signedAmount.IsNegative() && i.Quantity.LessThan(signedAmount.Neg()) {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Adjustment would drive %s at %s negative", i.ProductName, i.BranchID)
	}

	i.Quantity = i.Quantity.Add(signedAmount)
	i.touch()

	if signedAmount.IsNegative() {
		i.AddDomainEvent(NewStockDeductedEvent(i, signedAmount.Neg()))
	} else {
		i.AddDomainEvent(NewStockAddedEvent(i, signedAmount))
	}
	if i.StockLevel != StockLevelOK {
		i.AddDomainEvent(NewStockBelowThresholdEvent(i))
	}
	return nil
}

// SetThresholds updates the low/critical alert thresholds
func (i *InventoryItem) SetThresholds(low, critical decimal.Decimal) error {
	if low.IsNegative() || critical.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Thresholds cannot be negative")
	}
	if critical.GreaterThan(low) && !low.IsZero() {
		return shared.NewDomainError("VALIDATION_ERROR", "Critical threshold cannot exceed low threshold")
	}

	i.LowThreshold = low
	i.CriticalThreshold = critical
	i.touch()
	return nil
}

// SetPricing updates cost and selling price
func (i *InventoryItem) SetPricing(unitCost, unitSellingPrice decimal.Decimal) error {
	if unitCost.IsNegative() || unitSellingPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Prices cannot be negative")
	}

	i.UnitCost = unitCost
	i.UnitSellingPrice = unitSellingPrice
	i.touch()
	return nil
}

// CanFulfill returns true if available stock covers the requested quantity
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.Quantity.GreaterThanOrEqual(quantity)
}

// TotalValue returns the inventory value (total quantity * unit cost)
func (i *InventoryItem) TotalValue() valueobject.Money {
	return valueobject.NewMoneyETB(i.TotalQuantity().Mul(i.UnitCost))
}

// touch bumps version, refreshes the timestamp and recomputes the stock
// level, so every mutation path leaves the derived field consistent.
func (i *InventoryItem) touch() {
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	i.recomputeStockLevel()
}

func (i *InventoryItem) recomputeStockLevel() {
	total := i.TotalQuantity()
	switch {
	case i.CriticalThreshold.GreaterThan(decimal.Zero) && total.LessThanOrEqual(i.CriticalThreshold):
		i.StockLevel = StockLevelCritical
	case i.LowThreshold.GreaterThan(decimal.Zero) && total.LessThanOrEqual(i.LowThreshold):
		i.StockLevel = StockLevelLow
	default:
		i.StockLevel = StockLevelOK
	}
}
