package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	finapp "github.com/kushukushu/backend/internal/application/finance"
)

// FinanceHandler handles sales, loan and reconciliation endpoints
type FinanceHandler struct {
	BaseHandler
	sales          *finapp.SalesService
	loans          *finapp.LoanService
	reconciliation *finapp.ReconciliationService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(sales *finapp.SalesService, loans *finapp.LoanService, reconciliation *finapp.ReconciliationService) *FinanceHandler {
	return &FinanceHandler{
		sales:          sales,
		loans:          loans,
		reconciliation: reconciliation,
	}
}

// RegisterRoutes registers finance routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales-transactions")
	{
		sales.GET("", h.ListSales)
		sales.POST("", h.CreateSale)
		sales.GET("/:id", h.GetSale)
	}

	loans := rg.Group("/loans")
	{
		loans.GET("", h.ListLoans)
		loans.GET("/:id", h.GetLoan)
		loans.GET("/:id/payments", h.ListLoanPayments)
		loans.POST("/:id/payments", h.RecordLoanPayment)
	}

	customers := rg.Group("/customers")
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.GET("/:id/loans", h.ListCustomerLoans)
	}

	recon := rg.Group("/reconciliations")
	{
		recon.GET("", h.ListReconciliations)
		recon.POST("", h.Reconcile)
		recon.GET("/expected", h.ExpectedCash)
	}
}

// CreateSale records a sale and deducts sold stock
func (h *FinanceHandler) CreateSale(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req finapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.requireKnownBranches(c, req.BranchID) {
		return
	}

	resp, err := h.sales.CreateSale(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListSales lists sales, scoped by branch/date when given
func (h *FinanceHandler) ListSales(c *gin.Context) {
	branchID := c.Query("branch_id")
	date := c.Query("date")

	if branchID != "" && date != "" {
		responses, err := h.sales.ListByBranchAndDate(c.Request.Context(), branchID, date)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, responses)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	responses, err := h.sales.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// GetSale returns a single sale
func (h *FinanceHandler) GetSale(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	resp, err := h.sales.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListLoans lists loans, optionally by status
func (h *FinanceHandler) ListLoans(c *gin.Context) {
	responses, err := h.loans.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// GetLoan returns a single loan with its payment history
func (h *FinanceHandler) GetLoan(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	resp, err := h.loans.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListLoanPayments returns the loan's append-only payment trail
func (h *FinanceHandler) ListLoanPayments(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	resp, err := h.loans.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp.Payments)
}

// RecordLoanPayment settles part or all of a loan
func (h *FinanceHandler) RecordLoanPayment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	var req finapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.loans.RecordPayment(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCustomers lists credit customers, optionally by branch
func (h *FinanceHandler) ListCustomers(c *gin.Context) {
	responses, err := h.loans.ListCustomers(c.Request.Context(), c.Query("branch_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// GetCustomer returns a single customer
func (h *FinanceHandler) GetCustomer(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.loans.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCustomerLoans returns a customer's loans oldest first
func (h *FinanceHandler) ListCustomerLoans(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	responses, err := h.loans.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}

// ExpectedCash returns the drawer expectation for a branch/date
func (h *FinanceHandler) ExpectedCash(c *gin.Context) {
	branchID := c.Query("branch_id")
	date := c.Query("date")
	if branchID == "" || date == "" {
		h.BadRequest(c, "branch_id and date are required")
		return
	}

	resp, err := h.reconciliation.ExpectedCash(c.Request.Context(), branchID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reconcile submits a day-end cash count
func (h *FinanceHandler) Reconcile(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Actor identity is required")
		return
	}

	var req finapp.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.requireKnownBranches(c, req.BranchID) {
		return
	}

	resp, err := h.reconciliation.Reconcile(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListReconciliations lists reconciliation records
func (h *FinanceHandler) ListReconciliations(c *gin.Context) {
	branchID := c.Query("branch_id")
	date := c.Query("date")
	if branchID != "" && date != "" {
		responses, err := h.reconciliation.ListByBranchAndDate(c.Request.Context(), branchID, date)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, responses)
		return
	}

	flaggedOnly := c.Query("flagged") == "true"
	responses, err := h.reconciliation.List(c.Request.Context(), flaggedOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, responses)
}
