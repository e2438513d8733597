package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appwf "github.com/kushukushu/backend/internal/application/workflow"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

func timeNowDate() string {
	return time.Now().Format("2006-01-02")
}

func timeNowPlusDays(days int) time.Time {
	return time.Now().AddDate(0, 0, days)
}

func newScopeTestRequest(t *testing.T) *workflow.StockRequest {
	t.Helper()
	request, err := workflow.NewStockRequest(workflow.NewStockRequestParams{
		RequestedBy:       "selam",
		SourceBranch:      valueobject.BranchBerhane,
		DestinationBranch: valueobject.BranchGirmay,
		ProductName:       "1st Quality 50kg",
		PackageSize:       decimal.NewFromInt(50),
		Quantity:          decimal.NewFromInt(8),
		Reason:            "restock",
	})
	require.NoError(t, err)
	return request
}

func TestGormWorkflowScope_Commit(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormWorkflowScope(db)
	ctx := context.Background()

	request := newScopeTestRequest(t)
	item := newTestItem(t, valueobject.BranchBerhane, 500)

	err := scope.Execute(ctx, func(repos appwf.TransactionalRepositories) error {
		if err := repos.StockRequestRepo().Save(ctx, request); err != nil {
			return err
		}
		return repos.ItemRepo().Save(ctx, item)
	})
	require.NoError(t, err)

	found, err := NewGormStockRequestRepository(db).FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StockRequestPendingAdminApproval, found.Status)

	_, err = NewGormInventoryItemRepository(db).FindByID(ctx, item.ID)
	require.NoError(t, err)
}

func TestGormWorkflowScope_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormWorkflowScope(db)
	ctx := context.Background()

	request := newScopeTestRequest(t)
	item := newTestItem(t, valueobject.BranchBerhane, 500)

	err := scope.Execute(ctx, func(repos appwf.TransactionalRepositories) error {
		if err := repos.StockRequestRepo().Save(ctx, request); err != nil {
			return err
		}
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		return item.Reserve(decimal.NewFromInt(10000))
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	_, findErr := NewGormStockRequestRepository(db).FindByID(ctx, request.ID)
	assert.ErrorIs(t, findErr, shared.ErrNotFound)

	_, findErr = NewGormInventoryItemRepository(db).FindByID(ctx, item.ID)
	assert.ErrorIs(t, findErr, shared.ErrNotFound)
}
