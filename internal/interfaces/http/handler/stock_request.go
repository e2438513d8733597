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

// StockRequestHandler handles the stock request workflow endpoints
type StockRequestHandler struct {
	BaseHandler
	service *wfapp.StockRequestService
}

// NewStockRequestHandler creates a new StockRequestHandler
func NewStockRequestHandler(service *wfapp.StockRequestService) *StockRequestHandler {
	return &StockRequestHandler{service: service}
}

// RegisterRoutes registers stock request routes
func (h *StockRequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/stock-requests")
	{
		requests.GET("", h.List)
		requests.POST("", h.Create)
		requests.GET("/:id", h.GetByID)
		requests.PUT("/:id/approve-admin", h.ApproveAdmin)
		requests.PUT("/:id/approve-manager", h.ApproveManager)
		requests.PUT("/:id/fulfill", h.Fulfill)
		requests.PUT("/:id/gate-verify", h.GateVerify)
		requests.PUT("/:id/confirm-delivery", h.ConfirmDelivery)
		requests.PUT("/:id/dispatch", h.Dispatch)
		requests.PUT("/:id/reject", h.Reject)
	}
}

// Create opens a new stock request
func (h *StockRequestHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req wfapp.CreateStockRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.requireKnownBranches(c, req.SourceBranch, req.DestinationBranch) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns stock requests matching the filter
func (h *StockRequestHandler) List(c *gin.Context) {
	var filter wfapp.StockRequestListFilter
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

// GetByID returns a single stock request
func (h *StockRequestHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApproveAdmin performs the first approval and reserves source stock
func (h *StockRequestHandler) ApproveAdmin(c *gin.Context) {
	h.approve(c, h.service.ApproveAdmin)
}

// ApproveManager performs the second approval
func (h *StockRequestHandler) ApproveManager(c *gin.Context) {
	h.approve(c, h.service.ApproveManager)
}

// Fulfill records packaging and moves stock out of the source branch
func (h *StockRequestHandler) Fulfill(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req wfapp.FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Fulfill(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GateVerify records the guard checkpoint
func (h *StockRequestHandler) GateVerify(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req wfapp.GateVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.GateVerify(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ConfirmDelivery records receipt at the destination branch
func (h *StockRequestHandler) ConfirmDelivery(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req wfapp.ConfirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.ConfirmDelivery(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Dispatch marks a customer delivery as on the road
func (h *StockRequestHandler) Dispatch(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req wfapp.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Dispatch(c.Request.Context(), id, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reject terminates the request, releasing any reservation
func (h *StockRequestHandler) Reject(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
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

func (h *StockRequestHandler) approve(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, actor workflow.Actor, notes string) (*wfapp.StockRequestResponse, error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	// Approvals may carry optional notes; an empty body is fine.
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
