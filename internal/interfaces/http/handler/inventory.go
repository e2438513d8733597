package handler

import (
	"github.com/gin-gonic/gin"

	invapp "github.com/kushukushu/backend/internal/application/inventory"
	"github.com/kushukushu/backend/internal/domain/inventory"
)

// InventoryHandler handles inventory and stock adjustment endpoints
type InventoryHandler struct {
	BaseHandler
	service *invapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *invapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.GET("", h.List)
		inv.POST("", h.CreateItem)
		inv.GET("/transactions", h.ListTransactions)
		inv.GET("/:id", h.GetByID)
	}

	adjustments := rg.Group("/stock-adjustments")
	{
		adjustments.GET("", h.ListAdjustments)
		adjustments.POST("", h.CreateAdjustment)
		adjustments.PUT("/:id/approve", h.ApproveAdjustment)
		adjustments.PUT("/:id/reject", h.RejectAdjustment)
	}
}

// CreateItem registers a new product-branch ledger row
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req invapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.requireKnownBranches(c, req.BranchID) {
		return
	}

	resp, err := h.service.CreateItem(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns inventory items, optionally scoped to a branch
func (h *InventoryHandler) List(c *gin.Context) {
	var filter invapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetByID returns a single inventory item
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListTransactions returns the append-only movement ledger
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	var filter invapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	records, err := h.service.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// CreateAdjustment proposes a manual stock correction
func (h *InventoryHandler) CreateAdjustment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req invapp.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.requireKnownBranches(c, req.BranchID) {
		return
	}

	resp, err := h.service.CreateAdjustment(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListAdjustments lists adjustments, optionally by status
func (h *InventoryHandler) ListAdjustments(c *gin.Context) {
	status := inventory.AdjustmentStatus(c.Query("status"))

	responses, err := h.service.ListAdjustments(c.Request.Context(), status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// ApproveAdjustment applies the signed delta through the ledger
func (h *InventoryHandler) ApproveAdjustment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	resp, err := h.service.ApproveAdjustment(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RejectAdjustment declines the correction with a reason
func (h *InventoryHandler) RejectAdjustment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid adjustment ID")
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.RejectAdjustment(c.Request.Context(), id, actor, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
