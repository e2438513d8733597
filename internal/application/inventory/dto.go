package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// InventoryItemResponse represents an inventory item in API responses
type InventoryItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductName       string          `json:"product_name"`
	BranchID          string          `json:"branch_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	Unit              string          `json:"unit"`
	Category          string          `json:"category"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	UnitSellingPrice  decimal.Decimal `json:"unit_selling_price"`
	LowThreshold      decimal.Decimal `json:"low_threshold"`
	CriticalThreshold decimal.Decimal `json:"critical_threshold"`
	StockLevel        string          `json:"stock_level"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToInventoryItemResponse converts a domain item to a response DTO
func ToInventoryItemResponse(item *inventory.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:                item.ID,
		ProductName:       item.ProductName,
		BranchID:          item.BranchID.String(),
		Quantity:          item.Quantity,
		ReservedQuantity:  item.ReservedQuantity,
		TotalQuantity:     item.TotalQuantity(),
		Unit:              string(item.Unit),
		Category:          item.Category,
		UnitCost:          item.UnitCost,
		UnitSellingPrice:  item.UnitSellingPrice,
		LowThreshold:      item.LowThreshold,
		CriticalThreshold: item.CriticalThreshold,
		StockLevel:        string(item.StockLevel),
		UpdatedAt:         item.UpdatedAt,
		Version:           item.Version,
	}
}

// ToInventoryItemResponses converts a slice of domain items
func ToInventoryItemResponses(items []inventory.InventoryItem) []InventoryItemResponse {
	responses := make([]InventoryItemResponse, len(items))
	for i := range items {
		responses[i] = ToInventoryItemResponse(&items[i])
	}
	return responses
}

// TransactionResponse represents a ledger record in API responses
type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	ItemID      uuid.UUID       `json:"item_id"`
	ProductName string          `json:"product_name"`
	BranchID    string          `json:"branch_id"`
	Type        string          `json:"type"`
	Direction   string          `json:"direction"`
	Delta       decimal.Decimal `json:"delta"`
	Reference   string          `json:"reference"`
	PerformedBy string          `json:"performed_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a ledger record to a response DTO
func ToTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		ItemID:      tx.ItemID,
		ProductName: tx.ProductName,
		BranchID:    tx.BranchID.String(),
		Type:        string(tx.Type),
		Direction:   string(tx.Direction),
		Delta:       tx.Delta,
		Reference:   tx.Reference,
		PerformedBy: tx.PerformedBy,
		CreatedAt:   tx.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of ledger records
func ToTransactionResponses(txs []inventory.InventoryTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}

// CreateItemRequest registers a product at a branch
type CreateItemRequest struct {
	ProductName       string          `json:"product_name" binding:"required"`
	BranchID          string          `json:"branch_id" binding:"required"`
	Unit              string          `json:"unit" binding:"omitempty,oneof=kg pcs"`
	Category          string          `json:"category"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	UnitSellingPrice  decimal.Decimal `json:"unit_selling_price"`
	LowThreshold      decimal.Decimal `json:"low_threshold"`
	CriticalThreshold decimal.Decimal `json:"critical_threshold"`
}

// ListFilter represents filter options for inventory listing
type ListFilter struct {
	BranchID       string `form:"branch_id"`
	StockLevel     string `form:"stock_level" binding:"omitempty,oneof=ok low critical"`
	BelowThreshold bool   `form:"below_threshold"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TransactionListFilter represents filter options for the ledger listing
type TransactionListFilter struct {
	BranchID    string `form:"branch_id"`
	ProductName string `form:"product"`
	Reference   string `form:"reference"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateAdjustmentRequest proposes a manual stock correction
type CreateAdjustmentRequest struct {
	ProductName  string          `json:"product_name" binding:"required"`
	BranchID     string          `json:"branch_id" binding:"required"`
	SignedAmount decimal.Decimal `json:"signed_amount" binding:"required"`
	Reason       string          `json:"reason" binding:"required"`
}

// AdjustmentResponse represents a stock adjustment in API responses
type AdjustmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	ItemID          uuid.UUID       `json:"item_id"`
	SignedAmount    decimal.Decimal `json:"signed_amount"`
	Reason          string          `json:"reason"`
	RequestedBy     string          `json:"requested_by"`
	Status          string          `json:"status"`
	DecidedBy       string          `json:"decided_by,omitempty"`
	DecidedAt       *time.Time      `json:"decided_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToAdjustmentResponse converts a domain adjustment to a response DTO
func ToAdjustmentResponse(adj *inventory.StockAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:              adj.ID,
		ItemID:          adj.ItemID,
		SignedAmount:    adj.SignedAmount,
		Reason:          adj.Reason,
		RequestedBy:     adj.RequestedBy,
		Status:          string(adj.Status),
		DecidedBy:       adj.DecidedBy,
		DecidedAt:       adj.DecidedAt,
		RejectionReason: adj.RejectionReason,
		CreatedAt:       adj.CreatedAt,
	}
}
