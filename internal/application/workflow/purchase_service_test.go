package workflow

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ownerActor   = workflow.Actor{Name: "gebre", Role: workflow.RoleOwner}
	financeActor = workflow.Actor{Name: "hanna", Role: workflow.RoleFinance}
)

type memRequisitionRepo struct {
	mu           sync.Mutex
	requisitions map[uuid.UUID]*workflow.PurchaseRequisition
}

func newMemRequisitionRepo() *memRequisitionRepo {
	return &memRequisitionRepo{requisitions: map[uuid.UUID]*workflow.PurchaseRequisition{}}
}

func (r *memRequisitionRepo) FindByID(_ context.Context, id uuid.UUID) (*workflow.PurchaseRequisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requisitions[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *req
	return &c, nil
}

func (r *memRequisitionRepo) FindByRequestNumber(_ context.Context, number string) (*workflow.PurchaseRequisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requisitions {
		if req.RequestNumber == number {
			c := *req
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memRequisitionRepo) FindByStatus(_ context.Context, status workflow.PurchaseStatus, _ shared.Filter) ([]*workflow.PurchaseRequisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*workflow.PurchaseRequisition
	for _, req := range r.requisitions {
		if req.Status == status {
			c := *req
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memRequisitionRepo) FindByBranch(_ context.Context, branch valueobject.Branch, _ shared.Filter) ([]*workflow.PurchaseRequisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*workflow.PurchaseRequisition
	for _, req := range r.requisitions {
		if req.BranchID == branch {
			c := *req
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memRequisitionRepo) FindAll(_ context.Context, _ shared.Filter) ([]*workflow.PurchaseRequisition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*workflow.PurchaseRequisition
	for _, req := range r.requisitions {
		c := *req
		out = append(out, &c)
	}
	return out, nil
}

func (r *memRequisitionRepo) Save(_ context.Context, requisition *workflow.PurchaseRequisition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *requisition
	r.requisitions[requisition.ID] = &c
	return nil
}

func (r *memRequisitionRepo) SaveWithLock(_ context.Context, requisition *workflow.PurchaseRequisition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requisitions[requisition.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != requisition.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	c := *requisition
	r.requisitions[requisition.ID] = &c
	return nil
}

type memActivityRepo struct {
	mu         sync.Mutex
	activities []*audit.Activity
}

func (r *memActivityRepo) Append(_ context.Context, activity *audit.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, activity)
	return nil
}

func (r *memActivityRepo) FindByActor(_ context.Context, _ string, _ shared.Filter) ([]*audit.Activity, error) {
	return nil, nil
}

func (r *memActivityRepo) FindByBranch(_ context.Context, _ valueobject.Branch, _ shared.Filter) ([]*audit.Activity, error) {
	return nil, nil
}

func (r *memActivityRepo) FindByReference(_ context.Context, reference string) ([]*audit.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*audit.Activity
	for _, activity := range r.activities {
		if activity.Reference == reference {
			out = append(out, activity)
		}
	}
	return out, nil
}

func (r *memActivityRepo) FindAll(_ context.Context, _ shared.Filter) ([]*audit.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*audit.Activity(nil), r.activities...), nil
}

func newPurchaseFixture(t *testing.T) (*PurchaseService, *memRequisitionRepo) {
	t.Helper()
	service, repo, _ := newPurchaseFixtureWithActivities(t)
	return service, repo
}

func newPurchaseFixtureWithActivities(t *testing.T) (*PurchaseService, *memRequisitionRepo, *memActivityRepo) {
	t.Helper()
	repo := newMemRequisitionRepo()
	activities := &memActivityRepo{}
	scope := NewNoOpTransactionScope(nil, repo, nil, nil, activities)
	service := NewPurchaseService(scope, repo, nil, decimal.NewFromInt(50000))
	return service, repo, activities
}

func createRequisition(t *testing.T, service *PurchaseService, cost int64, requiresFunds bool) *PurchaseResponse {
	t.Helper()
	resp, err := service.Create(context.Background(), CreatePurchaseRequest{
		BranchID:            "berhane",
		Description:         "spare rollers for mill B",
		Category:            "equipment",
		EstimatedCost:       decimal.NewFromInt(cost),
		RequiresFundRequest: &requiresFunds,
	}, managerActor)
	require.NoError(t, err)
	return resp
}

func TestPurchaseService_Create_RoutesByAmount(t *testing.T) {
	service, _ := newPurchaseFixture(t)

	small := createRequisition(t, service, 30000, true)
	assert.Equal(t, "admin", small.Routing)
	assert.Equal(t, "pending_admin_approval", small.Status)

	large := createRequisition(t, service, 120000, true)
	assert.Equal(t, "owner", large.Routing)
	assert.Equal(t, "pending_owner_approval", large.Status)
}

func TestPurchaseService_FullChain(t *testing.T) {
	service, _ := newPurchaseFixture(t)
	ctx := context.Background()
	created := createRequisition(t, service, 30000, true)

	resp, err := service.ApproveAdmin(ctx, created.ID, adminActor, "ok")
	require.NoError(t, err)
	assert.Equal(t, "pending_finance", resp.Status)

	resp, err = service.RequestFunds(ctx, created.ID, financeActor, "")
	require.NoError(t, err)
	assert.Equal(t, "funds_requested", resp.Status)

	resp, err = service.ProcessPayment(ctx, created.ID, financeActor, ProcessPaymentRequest{
		Amount: decimal.NewFromInt(29500),
		Method: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
}

func TestPurchaseService_OwnerChainSkipsAdmin(t *testing.T) {
	service, _ := newPurchaseFixture(t)
	ctx := context.Background()
	created := createRequisition(t, service, 120000, true)

	_, err := service.ApproveAdmin(ctx, created.ID, adminActor, "")
	assert.ErrorIs(t, err, shared.ErrInvalidStage)

	resp, err := service.ApproveOwner(ctx, created.ID, ownerActor, "")
	require.NoError(t, err)
	assert.Equal(t, "pending_finance", resp.Status)
}

func TestPurchaseService_FinanceQueue(t *testing.T) {
	service, _ := newPurchaseFixture(t)
	ctx := context.Background()

	first := createRequisition(t, service, 10000, true)
	second := createRequisition(t, service, 20000, true)
	createRequisition(t, service, 30000, true) // stays pending admin

	_, err := service.ApproveAdmin(ctx, first.ID, adminActor, "")
	require.NoError(t, err)
	_, err = service.ApproveAdmin(ctx, second.ID, adminActor, "")
	require.NoError(t, err)
	_, err = service.RequestFunds(ctx, second.ID, financeActor, "")
	require.NoError(t, err)

	queue, err := service.FinanceQueue(ctx)
	require.NoError(t, err)
	assert.Len(t, queue, 2, "both finance stages are queued")
}

func TestPurchaseService_Repair(t *testing.T) {
	service, repo := newPurchaseFixture(t)
	ctx := context.Background()

	// a requisition stranded in the retired manager stage
	legacy, err := workflow.NewPurchaseRequisition(workflow.NewPurchaseRequisitionParams{
		RequestedBy:    "dawit",
		BranchID:       valueobject.BranchBerhane,
		Description:    "legacy row",
		EstimatedCost:  decimal.NewFromInt(30000),
		AdminThreshold: decimal.NewFromInt(50000),
	})
	require.NoError(t, err)
	legacy.Status = workflow.PurchasePendingManagerApproval
	legacy.ManagerApproval = workflow.Approval{ApprovedBy: "old-manager"}
	require.NoError(t, repo.Save(ctx, legacy))

	// a clean requisition that needs no repair
	createRequisition(t, service, 10000, true)

	repaired, err := service.Repair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	fixed, err := repo.FindByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.PurchasePendingAdminApproval, fixed.Status)
	assert.False(t, fixed.ManagerApproval.IsSet())

	// running it again finds nothing left to fix
	repaired, err = service.Repair(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, repaired)
}

func TestPurchaseService_ActivityTrailThroughScope(t *testing.T) {
	service, _, activities := newPurchaseFixtureWithActivities(t)
	ctx := context.Background()

	created := createRequisition(t, service, 30000, false)
	_, err := service.ApproveAdmin(ctx, created.ID, adminActor, "ok")
	require.NoError(t, err)

	trail, err := activities.FindByReference(ctx, created.RequestNumber)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, "purchase_requisition_created", trail[0].Action)
	assert.Equal(t, "purchase_admin_approved", trail[1].Action)
	assert.Equal(t, adminActor.Name, trail[1].ActorName)
}
