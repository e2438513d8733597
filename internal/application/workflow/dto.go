package workflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/workflow"
	"github.com/shopspring/decimal"
)

// CreateStockRequestRequest opens a stock transfer request
type CreateStockRequestRequest struct {
	SourceBranch       string                 `json:"source_branch" binding:"required"`
	DestinationBranch  string                 `json:"destination_branch"`
	ProductName        string                 `json:"product_name" binding:"required"`
	PackageSize        decimal.Decimal        `json:"package_size" binding:"required"`
	Quantity           decimal.Decimal        `json:"quantity" binding:"required"`
	Reason             string                 `json:"reason"`
	IsCustomerDelivery bool                   `json:"is_customer_delivery"`
	CustomerInfo       *workflow.CustomerInfo `json:"customer_info"`
	BatchID            string                 `json:"batch_id"`
}

// ApprovalRequest carries optional notes on an approve action
type ApprovalRequest struct {
	Notes string `json:"notes"`
}

// RejectRequest carries the mandatory rejection reason
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FulfillRequest carries the storekeeper's packaging input
type FulfillRequest struct {
	PackingSlipNumber string          `json:"packing_slip_number"`
	ActualQuantity    decimal.Decimal `json:"actual_quantity" binding:"required"`
	VehicleNumber     string          `json:"vehicle_number"`
	DriverName        string          `json:"driver_name"`
	Notes             string          `json:"notes"`
}

// GateVerifyRequest carries the guard checkpoint input
type GateVerifyRequest struct {
	GatePassNumber string `json:"gate_pass_number" binding:"required"`
	VehicleNumber  string `json:"vehicle_number"`
	DriverName     string `json:"driver_name"`
	Notes          string `json:"notes"`
}

// ConfirmDeliveryRequest carries the receipt confirmation input
type ConfirmDeliveryRequest struct {
	ReceivedQuantity decimal.Decimal `json:"received_quantity" binding:"required"`
	Condition        string          `json:"condition"`
	Notes            string          `json:"notes"`
}

// DispatchRequest carries the customer-delivery dispatch input
type DispatchRequest struct {
	DriverName    string `json:"driver_name" binding:"required"`
	VehicleNumber string `json:"vehicle_number" binding:"required"`
	Notes         string `json:"notes"`
}

// StockRequestResponse represents a stock request in API responses
type StockRequestResponse struct {
	ID                 uuid.UUID                           `json:"id"`
	RequestNumber      string                              `json:"request_number"`
	RequestedBy        string                              `json:"requested_by"`
	SourceBranch       string                              `json:"source_branch"`
	DestinationBranch  string                              `json:"destination_branch"`
	ProductName        string                              `json:"product_name"`
	PackageSize        decimal.Decimal                     `json:"package_size"`
	Quantity           decimal.Decimal                     `json:"quantity"`
	TotalWeight        decimal.Decimal                     `json:"total_weight"`
	Reason             string                              `json:"reason"`
	Status             string                              `json:"status"`
	IsCustomerDelivery bool                                `json:"is_customer_delivery"`
	CustomerInfo       *workflow.CustomerInfo              `json:"customer_info,omitempty"`
	DispatchStatus     string                              `json:"dispatch_status,omitempty"`
	BatchID            string                              `json:"batch_id,omitempty"`
	AdminApproval      *workflow.Approval                  `json:"admin_approval,omitempty"`
	ManagerApproval    *workflow.Approval                  `json:"manager_approval,omitempty"`
	Fulfillment        *workflow.FulfillmentRecord         `json:"fulfillment,omitempty"`
	GateVerification   *workflow.GateVerificationRecord    `json:"gate_verification,omitempty"`
	Delivery           *workflow.DeliveryConfirmationRecord `json:"delivery,omitempty"`
	RejectedBy         string                              `json:"rejected_by,omitempty"`
	RejectionReason    string                              `json:"rejection_reason,omitempty"`
	History            workflow.WorkflowHistory            `json:"workflow_history"`
	CreatedAt          time.Time                           `json:"created_at"`
	UpdatedAt          time.Time                           `json:"updated_at"`
	Version            int                                 `json:"version"`
}

// ToStockRequestResponse converts a domain request to a response DTO
func ToStockRequestResponse(r *workflow.StockRequest) StockRequestResponse {
	resp := StockRequestResponse{
		ID:                 r.ID,
		RequestNumber:      r.RequestNumber,
		RequestedBy:        r.RequestedBy,
		SourceBranch:       r.SourceBranch.String(),
		DestinationBranch:  r.BranchID.String(),
		ProductName:        r.ProductName,
		PackageSize:        r.PackageSize,
		Quantity:           r.Quantity,
		TotalWeight:        r.TotalWeight,
		Reason:             r.Reason,
		Status:             string(r.Status),
		IsCustomerDelivery: r.IsCustomerDelivery,
		CustomerInfo:       r.CustomerInfo,
		DispatchStatus:     string(r.DispatchStatus),
		BatchID:            r.BatchID,
		RejectedBy:         r.RejectedBy,
		RejectionReason:    r.RejectionReason,
		History:            r.History,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		Version:            r.Version,
	}
	if r.AdminApproval.IsSet() {
		a := r.AdminApproval
		resp.AdminApproval = &a
	}
	if r.ManagerApproval.IsSet() {
		a := r.ManagerApproval
		resp.ManagerApproval = &a
	}
	if r.Fulfillment.IsSet() {
		f := r.Fulfillment
		resp.Fulfillment = &f
	}
	if r.GateVerification.IsSet() {
		g := r.GateVerification
		resp.GateVerification = &g
	}
	if r.Delivery.IsSet() {
		d := r.Delivery
		resp.Delivery = &d
	}
	return resp
}

// ToStockRequestResponses converts a slice of domain requests
func ToStockRequestResponses(requests []*workflow.StockRequest) []StockRequestResponse {
	responses := make([]StockRequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = ToStockRequestResponse(r)
	}
	return responses
}

// StockRequestListFilter represents filter options for stock request listing
type StockRequestListFilter struct {
	Status           string `form:"status"`
	BranchID         string `form:"branch_id"`
	CustomerDelivery bool   `form:"customer_delivery"`
	DispatchStatus   string `form:"dispatch_status"`
	Page             int    `form:"page" binding:"omitempty,min=1"`
	PageSize         int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreatePurchaseRequest opens a purchase requisition
type CreatePurchaseRequest struct {
	BranchID            string          `json:"branch_id" binding:"required"`
	Description         string          `json:"description" binding:"required"`
	Category            string          `json:"category"`
	PurchaseType        string          `json:"purchase_type" binding:"omitempty,oneof=cash credit"`
	EstimatedCost       decimal.Decimal `json:"estimated_cost" binding:"required"`
	RequiresFundRequest *bool           `json:"requires_fund_request"`
}

// ProcessPaymentRequest carries the finance payout input
type ProcessPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
}

// PurchaseResponse represents a purchase requisition in API responses
type PurchaseResponse struct {
	ID                  uuid.UUID                 `json:"id"`
	RequestNumber       string                    `json:"request_number"`
	RequestedBy         string                    `json:"requested_by"`
	BranchID            string                    `json:"branch_id"`
	Description         string                    `json:"description"`
	Category            string                    `json:"category"`
	PurchaseType        string                    `json:"purchase_type"`
	EstimatedCost       decimal.Decimal           `json:"estimated_cost"`
	RequiresFundRequest bool                      `json:"requires_fund_request"`
	Routing             string                    `json:"routing"`
	Status              string                    `json:"status"`
	AdminApproval       *workflow.Approval        `json:"admin_approval,omitempty"`
	OwnerApproval       *workflow.Approval        `json:"owner_approval,omitempty"`
	FundsApproval       *workflow.Approval        `json:"funds_approval,omitempty"`
	PaymentDetails      *workflow.PaymentDetails  `json:"payment_details,omitempty"`
	RejectedBy          string                    `json:"rejected_by,omitempty"`
	RejectionReason     string                    `json:"rejection_reason,omitempty"`
	History             workflow.WorkflowHistory  `json:"workflow_history"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
	Version             int                       `json:"version"`
}

// ToPurchaseResponse converts a domain requisition to a response DTO
func ToPurchaseResponse(r *workflow.PurchaseRequisition) PurchaseResponse {
	resp := PurchaseResponse{
		ID:                  r.ID,
		RequestNumber:       r.RequestNumber,
		RequestedBy:         r.RequestedBy,
		BranchID:            r.BranchID.String(),
		Description:         r.Description,
		Category:            string(r.Category),
		PurchaseType:        string(r.PurchaseType),
		EstimatedCost:       r.EstimatedCost,
		RequiresFundRequest: r.RequiresFundRequest,
		Routing:             string(r.Routing),
		Status:              string(r.Status),
		RejectedBy:          r.RejectedBy,
		RejectionReason:     r.RejectionReason,
		History:             r.History,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		Version:             r.Version,
	}
	if r.AdminApproval.IsSet() {
		a := r.AdminApproval
		resp.AdminApproval = &a
	}
	if r.OwnerApproval.IsSet() {
		a := r.OwnerApproval
		resp.OwnerApproval = &a
	}
	if r.FundsApproval.IsSet() {
		a := r.FundsApproval
		resp.FundsApproval = &a
	}
	if r.PaymentDetails.IsSet() {
		p := r.PaymentDetails
		resp.PaymentDetails = &p
	}
	return resp
}

// ToPurchaseResponses converts a slice of domain requisitions
func ToPurchaseResponses(requisitions []*workflow.PurchaseRequisition) []PurchaseResponse {
	responses := make([]PurchaseResponse, len(requisitions))
	for i, r := range requisitions {
		responses[i] = ToPurchaseResponse(r)
	}
	return responses
}

// PurchaseListFilter represents filter options for requisition listing
type PurchaseListFilter struct {
	Status   string `form:"status"`
	BranchID string `form:"branch_id"`
	Routing  string `form:"routing"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
