package workflow

import (
	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventStockRequestStageChanged = "workflow.stock_request_stage_changed"
	EventStockRequestRejected     = "workflow.stock_request_rejected"
	EventPurchaseStageChanged     = "workflow.purchase_stage_changed"
)

// StockRequestStageChangedEvent fires on every pipeline transition
type StockRequestStageChangedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID
	RequestNumber string
	FromStatus    StockRequestStatus
	ToStatus      StockRequestStatus
	ActorName     string
	ActorRole     Role
}

// NewStockRequestStageChangedEvent creates a stage-change event
func NewStockRequestStageChangedEvent(r *StockRequest, from StockRequestStatus, actor Actor) *StockRequestStageChangedEvent {
	return &StockRequestStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockRequestStageChanged, r.ID, "StockRequest"),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		FromStatus:      from,
		ToStatus:        r.Status,
		ActorName:       actor.Name,
		ActorRole:       actor.Role,
	}
}

// StockRequestRejectedEvent fires when a request is terminally rejected
type StockRequestRejectedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID
	RequestNumber string
	FromStatus    StockRequestStatus
	RejectedBy    string
	Reason        string
}

// NewStockRequestRejectedEvent creates a rejection event
func NewStockRequestRejectedEvent(r *StockRequest, from StockRequestStatus, actor Actor, reason string) *StockRequestRejectedEvent {
	return &StockRequestRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockRequestRejected, r.ID, "StockRequest"),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		FromStatus:      from,
		RejectedBy:      actor.Name,
		Reason:          reason,
	}
}

// PurchaseStageChangedEvent fires on every requisition transition
type PurchaseStageChangedEvent struct {
	shared.BaseDomainEvent
	RequisitionID uuid.UUID
	RequestNumber string
	FromStatus    PurchaseStatus
	ToStatus      PurchaseStatus
	EstimatedCost decimal.Decimal
	ActorName     string
}

// NewPurchaseStageChangedEvent creates a requisition stage-change event
func NewPurchaseStageChangedEvent(r *PurchaseRequisition, from PurchaseStatus, actor Actor) *PurchaseStageChangedEvent {
	return &PurchaseStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseStageChanged, r.ID, "PurchaseRequisition"),
		RequisitionID:   r.ID,
		RequestNumber:   r.RequestNumber,
		FromStatus:      from,
		ToStatus:        r.Status,
		EstimatedCost:   r.EstimatedCost,
		ActorName:       actor.Name,
	}
}
