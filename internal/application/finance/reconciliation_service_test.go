package finance

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

var reconcilerActor = workflow.Actor{Name: "hanna", Role: workflow.RoleFinance}

// recordDaySales records two cash sales and one transfer sale and returns
// the sale date bucket and the expected cash total (cash sales only).
func recordDaySales(t *testing.T, f *financeFixture) (string, decimal.Decimal) {
	t.Helper()
	ctx := context.Background()

	first, err := f.salesService.CreateSale(ctx, CreateSaleRequest{
		BranchID:    "berhane",
		PaymentType: "cash",
		Items:       saleLines(100),
	}, cashierActor)
	require.NoError(t, err)
	_, err = f.salesService.CreateSale(ctx, CreateSaleRequest{
		BranchID:    "berhane",
		PaymentType: "cash",
		Items:       saleLines(50),
	}, cashierActor)
	require.NoError(t, err)
	_, err = f.salesService.CreateSale(ctx, CreateSaleRequest{
		BranchID:    "berhane",
		PaymentType: "transfer",
		Items:       saleLines(200),
	}, cashierActor)
	require.NoError(t, err)

	// 100*30 + 50*30; the transfer sale is not counted
	return first.SaleDate, decimal.NewFromInt(4500)
}

func TestReconciliationService_ExpectedCash(t *testing.T) {
	f := newFinanceFixture(t, 100000)
	date, expected := recordDaySales(t, f)

	resp, err := f.reconService.ExpectedCash(context.Background(), "berhane", date)
	require.NoError(t, err)
	assert.True(t, resp.ExpectedCash.Equal(expected))
}

func TestReconciliationService_Reconcile_WithinTolerance(t *testing.T) {
	f := newFinanceFixture(t, 100000)
	date, expected := recordDaySales(t, f)

	resp, err := f.reconService.Reconcile(context.Background(), ReconcileRequest{
		BranchID:   "berhane",
		Date:       date,
		ActualCash: expected.Add(decimal.NewFromInt(5)),
	}, reconcilerActor)
	require.NoError(t, err)

	assert.Equal(t, string(finance.ReconciliationMatched), resp.Status)
	assert.True(t, resp.Variance.Equal(decimal.NewFromInt(5)))
	assert.True(t, resp.ExpectedCash.Equal(expected))
	assert.Equal(t, "hanna", resp.ReconciledBy)
}

func TestReconciliationService_Reconcile_FlagsLargeVariance(t *testing.T) {
	f := newFinanceFixture(t, 100000)
	date, expected := recordDaySales(t, f)
	ctx := context.Background()

	resp, err := f.reconService.Reconcile(ctx, ReconcileRequest{
		BranchID:   "berhane",
		Date:       date,
		ActualCash: expected.Sub(decimal.NewFromInt(500)),
		Notes:      "drawer short at close",
	}, reconcilerActor)
	require.NoError(t, err)

	assert.Equal(t, string(finance.ReconciliationFlagged), resp.Status)
	assert.True(t, resp.Variance.Equal(decimal.NewFromInt(-500)))

	flagged, err := f.reconService.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, resp.Number, flagged[0].Number)
}

func TestReconciliationService_Reconcile_CorrectionReferencesOriginal(t *testing.T) {
	f := newFinanceFixture(t, 100000)
	date, expected := recordDaySales(t, f)
	ctx := context.Background()

	original, err := f.reconService.Reconcile(ctx, ReconcileRequest{
		BranchID:   "berhane",
		Date:       date,
		ActualCash: expected.Sub(decimal.NewFromInt(500)),
	}, reconcilerActor)
	require.NoError(t, err)

	correction, err := f.reconService.Reconcile(ctx, ReconcileRequest{
		BranchID:   "berhane",
		Date:       date,
		ActualCash: expected,
		Notes:      "recount after locating the missing bundle",
		Corrects:   &original.Number,
	}, reconcilerActor)
	require.NoError(t, err)

	assert.Equal(t, string(finance.ReconciliationMatched), correction.Status)
	require.NotNil(t, correction.Corrects)
	assert.Equal(t, original.Number, *correction.Corrects)

	// Both records survive; the original is never edited
	history, err := f.reconService.ListByBranchAndDate(ctx, "berhane", date)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestReconciliationService_Reconcile_BadBranch(t *testing.T) {
	f := newFinanceFixture(t, 0)

	_, err := f.reconService.Reconcile(context.Background(), ReconcileRequest{
		BranchID:   "",
		Date:       "2025-01-15",
		ActualCash: decimal.NewFromInt(1000),
	}, reconcilerActor)
	require.Error(t, err)
}
