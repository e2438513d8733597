package workflow

import (
	"testing"

	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ownerActor   = Actor{Name: "gebre", Role: RoleOwner}
	financeActor = Actor{Name: "hanna", Role: RoleFinance}
)

var defaultThreshold = decimal.NewFromInt(50000)

func newRequisition(t *testing.T, cost int64, requiresFunds bool) *PurchaseRequisition {
	t.Helper()
	r, err := NewPurchaseRequisition(NewPurchaseRequisitionParams{
		RequestedBy:         "dawit",
		BranchID:            valueobject.BranchBerhane,
		Description:         "packaging bags",
		Category:            PurchaseCategorySupplies,
		EstimatedCost:       decimal.NewFromInt(cost),
		RequiresFundRequest: requiresFunds,
		AdminThreshold:      defaultThreshold,
	})
	require.NoError(t, err)
	return r
}

// Test RouteByAmount

func TestRouteByAmount(t *testing.T) {
	tests := []struct {
		name     string
		cost     int64
		routing  Routing
		status   PurchaseStatus
	}{
		{"small amount", 1000, RoutingAdmin, PurchasePendingAdminApproval},
		{"just below threshold", 49999, RoutingAdmin, PurchasePendingAdminApproval},
		{"exactly at threshold", 50000, RoutingAdmin, PurchasePendingAdminApproval},
		{"just above threshold", 50001, RoutingOwner, PurchasePendingOwnerApproval},
		{"large amount", 500000, RoutingOwner, PurchasePendingOwnerApproval},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			routing, status := RouteByAmount(decimal.NewFromInt(tc.cost), defaultThreshold)
			assert.Equal(t, tc.routing, routing)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestRouteByAmount_FractionalBoundary(t *testing.T) {
	routing, _ := RouteByAmount(decimal.RequireFromString("50000.01"), defaultThreshold)
	assert.Equal(t, RoutingOwner, routing)
}

// Test NewPurchaseRequisition

func TestNewPurchaseRequisition(t *testing.T) {
	r := newRequisition(t, 30000, true)

	assert.Equal(t, RoutingAdmin, r.Routing)
	assert.Equal(t, PurchasePendingAdminApproval, r.Status)
	assert.Equal(t, PurchaseCategorySupplies, r.Category)
	assert.Equal(t, PurchaseTypeCash, r.PurchaseType)
	assert.NotEmpty(t, r.RequestNumber)
	require.Len(t, r.History, 1)
}

func TestNewPurchaseRequisition_OwnerRouted(t *testing.T) {
	r := newRequisition(t, 120000, true)

	assert.Equal(t, RoutingOwner, r.Routing)
	assert.Equal(t, PurchasePendingOwnerApproval, r.Status)
}

func TestNewPurchaseRequisition_Validation(t *testing.T) {
	base := NewPurchaseRequisitionParams{
		RequestedBy:    "dawit",
		BranchID:       valueobject.BranchBerhane,
		Description:    "packaging bags",
		EstimatedCost:  decimal.NewFromInt(1000),
		AdminThreshold: defaultThreshold,
	}

	tests := []struct {
		name   string
		mutate func(*NewPurchaseRequisitionParams)
	}{
		{"missing requester", func(p *NewPurchaseRequisitionParams) { p.RequestedBy = "" }},
		{"missing branch", func(p *NewPurchaseRequisitionParams) { p.BranchID = "" }},
		{"missing description", func(p *NewPurchaseRequisitionParams) { p.Description = "" }},
		{"zero cost", func(p *NewPurchaseRequisitionParams) { p.EstimatedCost = decimal.Zero }},
		{"negative cost", func(p *NewPurchaseRequisitionParams) { p.EstimatedCost = decimal.NewFromInt(-50) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			_, err := NewPurchaseRequisition(p)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

// Test the admin-routed chain

func TestPurchaseRequisition_AdminChain(t *testing.T) {
	r := newRequisition(t, 30000, true)

	require.NoError(t, r.ApproveAdmin(adminActor, "ok"))
	assert.Equal(t, PurchasePendingFinance, r.Status)
	assert.True(t, r.AdminApproval.IsSet())

	require.NoError(t, r.RequestFunds(financeActor, ""))
	assert.Equal(t, PurchaseFundsRequested, r.Status)
	assert.True(t, r.FundsApproval.IsSet())

	require.NoError(t, r.ProcessPayment(financeActor, ProcessPaymentParams{
		Amount: decimal.NewFromInt(29500),
		Method: "cash",
	}))
	assert.Equal(t, PurchaseCompleted, r.Status)
	assert.True(t, r.PaymentDetails.IsSet())
	assert.True(t, r.PaymentDetails.Amount.Equal(decimal.NewFromInt(29500)))
}

func TestPurchaseRequisition_OwnerChain(t *testing.T) {
	r := newRequisition(t, 120000, true)

	// the admin step is skipped entirely on the owner route
	assert.ErrorIs(t, r.ApproveAdmin(adminActor, ""), shared.ErrInvalidStage)

	require.NoError(t, r.ApproveOwner(ownerActor, "approved"))
	assert.Equal(t, PurchasePendingFinance, r.Status)
	assert.False(t, r.AdminApproval.IsSet())
	assert.True(t, r.OwnerApproval.IsSet())
}

func TestPurchaseRequisition_SkipsFundRequest(t *testing.T) {
	r := newRequisition(t, 30000, false)

	require.NoError(t, r.ApproveAdmin(adminActor, ""))
	assert.Equal(t, PurchasePendingFinance, r.Status)

	assert.ErrorIs(t, r.RequestFunds(financeActor, ""), shared.ErrValidation,
		"fund request refused when not required")

	// payment lands directly from pending_finance
	require.NoError(t, r.ProcessPayment(financeActor, ProcessPaymentParams{
		Amount: decimal.NewFromInt(30000),
		Method: "transfer",
	}))
	assert.Equal(t, PurchaseCompleted, r.Status)
}

func TestPurchaseRequisition_PaymentBeforeFunds(t *testing.T) {
	r := newRequisition(t, 30000, true)
	require.NoError(t, r.ApproveAdmin(adminActor, ""))

	err := r.ProcessPayment(financeActor, ProcessPaymentParams{
		Amount: decimal.NewFromInt(30000),
		Method: "cash",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidStage, "funds must be requested first")
}

func TestPurchaseRequisition_RoleChecks(t *testing.T) {
	r := newRequisition(t, 30000, true)

	assert.ErrorIs(t, r.ApproveAdmin(financeActor, ""), shared.ErrForbidden)
	assert.ErrorIs(t, r.ApproveOwner(adminActor, ""), shared.ErrForbidden)

	require.NoError(t, r.ApproveAdmin(adminActor, ""))
	assert.ErrorIs(t, r.RequestFunds(adminActor, ""), shared.ErrForbidden)

	require.NoError(t, r.RequestFunds(financeActor, ""))
	assert.ErrorIs(t, r.ProcessPayment(ownerActor, ProcessPaymentParams{
		Amount: decimal.NewFromInt(100),
		Method: "cash",
	}), shared.ErrForbidden)
}

func TestPurchaseRequisition_ProcessPayment_Validation(t *testing.T) {
	r := newRequisition(t, 30000, false)
	require.NoError(t, r.ApproveAdmin(adminActor, ""))

	err := r.ProcessPayment(financeActor, ProcessPaymentParams{Amount: decimal.Zero, Method: "cash"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	err = r.ProcessPayment(financeActor, ProcessPaymentParams{Amount: decimal.NewFromInt(100), Method: ""})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestPurchaseRequisition_Reject(t *testing.T) {
	r := newRequisition(t, 30000, true)

	assert.ErrorIs(t, r.Reject(adminActor, ""), shared.ErrValidation)

	require.NoError(t, r.Reject(adminActor, "over budget"))
	assert.Equal(t, PurchaseRejected, r.Status)
	assert.Equal(t, "over budget", r.RejectionReason)

	assert.ErrorIs(t, r.Reject(adminActor, "again"), shared.ErrInvalidStage)
}

// Test Normalize

func TestPurchaseRequisition_Normalize_LegacyManagerStage(t *testing.T) {
	r := newRequisition(t, 30000, true)
	// simulate a row written by the retired three-step chain
	r.Status = PurchasePendingManagerApproval
	r.ManagerApproval = Approval{ApprovedBy: "old-manager"}

	changed := r.Normalize(defaultThreshold)
	assert.True(t, changed)
	assert.Equal(t, PurchasePendingAdminApproval, r.Status)
	assert.Equal(t, RoutingAdmin, r.Routing)
	assert.False(t, r.ManagerApproval.IsSet())
}

func TestPurchaseRequisition_Normalize_MisroutedPending(t *testing.T) {
	r := newRequisition(t, 120000, true)
	// stale routing from a threshold change
	r.Routing = RoutingAdmin
	r.Status = PurchasePendingAdminApproval

	changed := r.Normalize(defaultThreshold)
	assert.True(t, changed)
	assert.Equal(t, RoutingOwner, r.Routing)
	assert.Equal(t, PurchasePendingOwnerApproval, r.Status)
}

func TestPurchaseRequisition_Normalize_PastApprovalKeepsStatus(t *testing.T) {
	r := newRequisition(t, 120000, true)
	require.NoError(t, r.ApproveOwner(ownerActor, ""))
	r.Routing = RoutingAdmin // corrupted label

	changed := r.Normalize(defaultThreshold)
	assert.True(t, changed)
	assert.Equal(t, RoutingOwner, r.Routing, "label corrected")
	assert.Equal(t, PurchasePendingFinance, r.Status, "status untouched past approval")
	assert.True(t, r.OwnerApproval.IsSet())
}

func TestPurchaseRequisition_Normalize_Idempotent(t *testing.T) {
	r := newRequisition(t, 30000, true)
	r.Status = PurchasePendingManagerApproval
	r.ManagerApproval = Approval{ApprovedBy: "old-manager"}

	require.True(t, r.Normalize(defaultThreshold))
	statusAfter := r.Status
	routingAfter := r.Routing
	versionAfter := r.Version

	assert.False(t, r.Normalize(defaultThreshold), "second pass is a no-op")
	assert.Equal(t, statusAfter, r.Status)
	assert.Equal(t, routingAfter, r.Routing)
	assert.Equal(t, versionAfter, r.Version)
}

func TestPurchaseRequisition_Normalize_CleanRequestUntouched(t *testing.T) {
	r := newRequisition(t, 30000, true)
	assert.False(t, r.Normalize(defaultThreshold))

	completed := newRequisition(t, 30000, false)
	require.NoError(t, completed.ApproveAdmin(adminActor, ""))
	require.NoError(t, completed.ProcessPayment(financeActor, ProcessPaymentParams{
		Amount: decimal.NewFromInt(30000),
		Method: "cash",
	}))
	assert.False(t, completed.Normalize(defaultThreshold))
	assert.Equal(t, PurchaseCompleted, completed.Status)
}
