package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/production"
	"github.com/shopspring/decimal"
)

// WheatDeliveryRequest books an incoming supplier delivery
type WheatDeliveryRequest struct {
	SupplierName string          `json:"supplier_name" binding:"required"`
	BranchID     string          `json:"branch_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Quality      string          `json:"quality" binding:"omitempty,oneof=excellent good average poor"`
	Notes        string          `json:"notes"`
}

// WheatDeliveryResponse represents a wheat delivery in API responses
type WheatDeliveryResponse struct {
	ID             uuid.UUID       `json:"id"`
	DeliveryNumber string          `json:"delivery_number"`
	SupplierName   string          `json:"supplier_name"`
	BranchID       string          `json:"branch_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Quality        string          `json:"quality"`
	ReceivedBy     string          `json:"received_by"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToWheatDeliveryResponse converts a domain delivery to a response DTO
func ToWheatDeliveryResponse(d *production.WheatDelivery) WheatDeliveryResponse {
	return WheatDeliveryResponse{
		ID:             d.ID,
		DeliveryNumber: d.DeliveryNumber,
		SupplierName:   d.SupplierName,
		BranchID:       d.BranchID.String(),
		Quantity:       d.Quantity,
		Quality:        string(d.Quality),
		ReceivedBy:     d.ReceivedBy,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
	}
}

// CreateMillingOrderRequest starts a milling run
type CreateMillingOrderRequest struct {
	BranchID      string          `json:"branch_id" binding:"required"`
	RawWheatInput decimal.Decimal `json:"raw_wheat_input" binding:"required"`
	Notes         string          `json:"notes"`
}

// MillingOutputRequest is one produced product on completion
type MillingOutputRequest struct {
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

// CompleteMillingOrderRequest closes a milling run with its outputs
type CompleteMillingOrderRequest struct {
	Outputs []MillingOutputRequest `json:"outputs" binding:"required,min=1,dive"`
}

// MillingOrderResponse represents a milling order in API responses
type MillingOrderResponse struct {
	ID            uuid.UUID                 `json:"id"`
	OrderNumber   string                    `json:"order_number"`
	BranchID      string                    `json:"branch_id"`
	RawWheatInput decimal.Decimal           `json:"raw_wheat_input"`
	Outputs       production.MillingOutputs `json:"outputs"`
	TotalOutput   decimal.Decimal           `json:"total_output"`
	Status        string                    `json:"status"`
	CreatedBy     string                    `json:"created_by"`
	CompletedBy   string                    `json:"completed_by,omitempty"`
	CompletedAt   *time.Time                `json:"completed_at,omitempty"`
	Notes         string                    `json:"notes,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// ToMillingOrderResponse converts a domain order to a response DTO
func ToMillingOrderResponse(m *production.MillingOrder) MillingOrderResponse {
	return MillingOrderResponse{
		ID:            m.ID,
		OrderNumber:   m.OrderNumber,
		BranchID:      m.BranchID.String(),
		RawWheatInput: m.RawWheatInput,
		Outputs:       m.Outputs,
		TotalOutput:   m.TotalOutput(),
		Status:        string(m.Status),
		CreatedBy:     m.CreatedBy,
		CompletedBy:   m.CompletedBy,
		CompletedAt:   m.CompletedAt,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMillingOrderResponses converts a slice of domain orders
func ToMillingOrderResponses(orders []*production.MillingOrder) []MillingOrderResponse {
	responses := make([]MillingOrderResponse, len(orders))
	for i, m := range orders {
		responses[i] = ToMillingOrderResponse(m)
	}
	return responses
}
