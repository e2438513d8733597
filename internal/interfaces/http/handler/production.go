package handler

import (
	"github.com/gin-gonic/gin"

	prodapp "github.com/kushukushu/backend/internal/application/production"
)

// ProductionHandler handles wheat delivery and milling order endpoints
type ProductionHandler struct {
	BaseHandler
	service *prodapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(service *prodapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: service}
}

// RegisterRoutes registers production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/wheat-deliveries", h.RecordWheatDelivery)

	milling := rg.Group("/milling-orders")
	{
		milling.GET("", h.ListMillingOrders)
		milling.POST("", h.CreateMillingOrder)
		milling.POST("/:id/complete", h.CompleteMillingOrder)
	}
}

// RecordWheatDelivery adds supplier wheat to the branch stock
func (h *ProductionHandler) RecordWheatDelivery(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req prodapp.WheatDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.requireKnownBranches(c, req.BranchID) {
		return
	}

	resp, err := h.service.RecordWheatDelivery(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateMillingOrder starts a milling run, deducting raw wheat
func (h *ProductionHandler) CreateMillingOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req prodapp.CreateMillingOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.requireKnownBranches(c, req.BranchID) {
		return
	}

	resp, err := h.service.CreateMillingOrder(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CompleteMillingOrder closes a run and adds its outputs to stock
func (h *ProductionHandler) CompleteMillingOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req prodapp.CompleteMillingOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.CompleteMillingOrder(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMillingOrders lists milling orders, optionally by status
func (h *ProductionHandler) ListMillingOrders(c *gin.Context) {
	responses, err := h.service.ListMillingOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}
