package inventory

import (
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Event types for the inventory aggregate
const (
	EventTypeStockReserved       = "inventory.stock_reserved"
	EventTypeStockReleased       = "inventory.stock_released"
	EventTypeStockDeducted       = "inventory.stock_deducted"
	EventTypeStockAdded          = "inventory.stock_added"
	EventTypeStockBelowThreshold = "inventory.stock_below_threshold"
)

const aggregateTypeInventoryItem = "InventoryItem"

// StockMovedEvent is the common payload for reserve/release/deduct/add events
type StockMovedEvent struct {
	shared.BaseDomainEvent
	ProductName string             `json:"product_name"`
	BranchID    valueobject.Branch `json:"branch_id"`
	Quantity    decimal.Decimal    `json:"quantity"`
	Remaining   decimal.Decimal    `json:"remaining"`
}

func newStockMovedEvent(eventType string, item *InventoryItem, quantity decimal.Decimal) *StockMovedEvent {
	return &StockMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, item.ID, aggregateTypeInventoryItem),
		ProductName:     item.ProductName,
		BranchID:        item.BranchID,
		Quantity:        quantity,
		Remaining:       item.Quantity,
	}
}

// NewStockReservedEvent creates a stock reserved event
func NewStockReservedEvent(item *InventoryItem, quantity decimal.Decimal) *StockMovedEvent {
	return newStockMovedEvent(EventTypeStockReserved, item, quantity)
}

// NewStockReleasedEvent creates a stock released event
func NewStockReleasedEvent(item *InventoryItem, quantity decimal.Decimal) *StockMovedEvent {
	return newStockMovedEvent(EventTypeStockReleased, item, quantity)
}

// NewStockDeductedEvent creates a stock deducted event
func NewStockDeductedEvent(item *InventoryItem, quantity decimal.Decimal) *StockMovedEvent {
	return newStockMovedEvent(EventTypeStockDeducted, item, quantity)
}

// NewStockAddedEvent creates a stock added event
func NewStockAddedEvent(item *InventoryItem, quantity decimal.Decimal) *StockMovedEvent {
	return newStockMovedEvent(EventTypeStockAdded, item, quantity)
}

// StockBelowThresholdEvent signals that an item dropped to low or critical level
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductName string             `json:"product_name"`
	BranchID    valueobject.Branch `json:"branch_id"`
	Quantity    decimal.Decimal    `json:"quantity"`
	StockLevel  StockLevel         `json:"stock_level"`
}

// NewStockBelowThresholdEvent creates a below-threshold alert event
func NewStockBelowThresholdEvent(item *InventoryItem) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, item.ID, aggregateTypeInventoryItem),
		ProductName:     item.ProductName,
		BranchID:        item.BranchID,
		Quantity:        item.TotalQuantity(),
		StockLevel:      item.StockLevel,
	}
}
