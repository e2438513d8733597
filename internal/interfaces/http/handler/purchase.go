package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	wfapp "github.com/kushukushu/backend/internal/application/workflow"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

// PurchaseHandler handles the purchase requisition endpoints
type PurchaseHandler struct {
	BaseHandler
	service *wfapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(service *wfapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

// RegisterRoutes registers purchase requisition routes
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requisitions := rg.Group("/purchase-requisitions")
	{
		requisitions.GET("", h.List)
		requisitions.POST("", h.Create)
		requisitions.GET("/finance-queue", h.FinanceQueue)
		requisitions.POST("/repair", h.Repair)
		requisitions.GET("/:id", h.GetByID)
		requisitions.PUT("/:id/approve-admin", h.ApproveAdmin)
		requisitions.PUT("/:id/approve-owner", h.ApproveOwner)
		requisitions.PUT("/:id/request-funds", h.RequestFunds)
		requisitions.PUT("/:id/process-payment", h.ProcessPayment)
		requisitions.PUT("/:id/reject", h.Reject)
	}
}

// Create opens a requisition routed by amount
func (h *PurchaseHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req wfapp.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.requireKnownBranches(c, req.BranchID) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns requisitions matching the filter
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter wfapp.PurchaseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	responses, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// GetByID returns a single requisition
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// FinanceQueue lists requisitions awaiting payment
func (h *PurchaseHandler) FinanceQueue(c *gin.Context) {
	responses, err := h.service.FinanceQueue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// Repair backfills routing and status on legacy requisitions
func (h *PurchaseHandler) Repair(c *gin.Context) {
	repaired, err := h.service.Repair(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"repaired": repaired})
}

// ApproveAdmin approves an under-threshold requisition
func (h *PurchaseHandler) ApproveAdmin(c *gin.Context) {
	h.approve(c, h.service.ApproveAdmin)
}

// ApproveOwner approves an over-threshold requisition
func (h *PurchaseHandler) ApproveOwner(c *gin.Context) {
	h.approve(c, h.service.ApproveOwner)
}

// RequestFunds moves an approved requisition into the funding stage
func (h *PurchaseHandler) RequestFunds(c *gin.Context) {
	h.approve(c, h.service.RequestFunds)
}

// ProcessPayment records the finance payout and completes the requisition
func (h *PurchaseHandler) ProcessPayment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID")
		return
	}

	var req wfapp.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.ProcessPayment(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reject terminates the requisition
func (h *PurchaseHandler) Reject(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID")
		return
	}

	var req wfapp.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), id, actor, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PurchaseHandler) approve(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, actor workflow.Actor, notes string) (*wfapp.PurchaseResponse, error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid requisition ID")
		return
	}

	var req wfapp.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := fn(c.Request.Context(), id, actor, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
