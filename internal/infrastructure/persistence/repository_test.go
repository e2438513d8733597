package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = AutoMigrate(db)
	require.NoError(t, err)

	return db
}

func newTestItem(t *testing.T, branch valueobject.Branch, quantity int64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem("1st Quality 50kg", branch, inventory.UnitKilogram, "flour")
	require.NoError(t, err)
	if quantity > 0 {
		require.NoError(t, item.Add(decimal.NewFromInt(quantity)))
	}
	return item
}

func TestInventoryItemRepository_FindByProductAndBranch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInventoryItemRepository(db)
	ctx := context.Background()

	item := newTestItem(t, valueobject.BranchBerhane, 200)
	require.NoError(t, repo.Save(ctx, item))

	t.Run("finds the ledger row for the branch", func(t *testing.T) {
		found, err := repo.FindByProductAndBranch(ctx, "1st Quality 50kg", valueobject.BranchBerhane)
		require.NoError(t, err)
		assert.Equal(t, item.ID, found.ID)
		assert.True(t, found.Quantity.Equal(decimal.NewFromInt(200)))
	})

	t.Run("same product at the other branch is not found", func(t *testing.T) {
		_, err := repo.FindByProductAndBranch(ctx, "1st Quality 50kg", valueobject.BranchGirmay)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInventoryItemRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInventoryItemRepository(db)
	ctx := context.Background()

	item := newTestItem(t, valueobject.BranchBerhane, 100)
	require.NoError(t, repo.Save(ctx, item))

	t.Run("persists a version bump", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)

		require.NoError(t, loaded.Reserve(decimal.NewFromInt(30)))
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		reloaded, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, loaded.Version, reloaded.Version)
		assert.True(t, reloaded.Quantity.Equal(decimal.NewFromInt(70)))
		assert.True(t, reloaded.ReservedQuantity.Equal(decimal.NewFromInt(30)))
	})

	t.Run("stale copy loses the race", func(t *testing.T) {
		first, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)

		require.NoError(t, first.Reserve(decimal.NewFromInt(10)))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.Reserve(decimal.NewFromInt(10)))
		err = repo.SaveWithLock(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestInventoryItemRepository_FindBelowThreshold(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInventoryItemRepository(db)
	ctx := context.Background()

	healthy := newTestItem(t, valueobject.BranchBerhane, 500)
	healthy.LowThreshold = decimal.NewFromInt(50)
	require.NoError(t, repo.Save(ctx, healthy))

	low, err := inventory.NewInventoryItem("Bread Flour", valueobject.BranchGirmay, inventory.UnitKilogram, "flour")
	require.NoError(t, err)
	low.LowThreshold = decimal.NewFromInt(100)
	require.NoError(t, low.Add(decimal.NewFromInt(80)))
	require.NoError(t, repo.Save(ctx, low))

	items, err := repo.FindBelowThreshold(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bread Flour", items[0].ProductName)
}

func TestInventoryTransactionRepository_AppendOnly(t *testing.T) {
	db := setupTestDB(t)
	itemRepo := NewGormInventoryItemRepository(db)
	ledger := NewGormInventoryTransactionRepository(db)
	ctx := context.Background()

	item := newTestItem(t, valueobject.BranchBerhane, 100)
	require.NoError(t, itemRepo.Save(ctx, item))

	reference := "SR-20250101-" + uuid.New().String()[:4]
	for _, txType := range []inventory.TransactionType{
		inventory.TransactionTypeReserve,
		inventory.TransactionTypeDeduct,
	} {
		record, err := inventory.NewInventoryTransaction(item, txType, decimal.NewFromInt(10), reference, "selam")
		require.NoError(t, err)
		require.NoError(t, ledger.Append(ctx, record))
	}

	t.Run("returns records for a reference oldest first", func(t *testing.T) {
		records, err := ledger.FindByReference(ctx, reference)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, inventory.TransactionTypeReserve, records[0].Type)
		assert.Equal(t, inventory.TransactionTypeDeduct, records[1].Type)
	})

	t.Run("outbound entries carry a negative delta", func(t *testing.T) {
		records, err := ledger.FindByItem(ctx, item.ID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, record := range records {
			assert.True(t, record.Delta.IsNegative(), "type %s", record.Type)
		}
	})
}

func TestStockRequestRepository_FindCustomerDeliveries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRequestRepository(db)
	ctx := context.Background()

	transfer, err := workflow.NewStockRequest(workflow.NewStockRequestParams{
		RequestedBy:       "selam",
		SourceBranch:      valueobject.BranchBerhane,
		DestinationBranch: valueobject.BranchGirmay,
		ProductName:       "1st Quality 50kg",
		PackageSize:       decimal.NewFromInt(50),
		Quantity:          decimal.NewFromInt(10),
		Reason:            "restock",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, transfer))

	delivery, err := workflow.NewStockRequest(workflow.NewStockRequestParams{
		RequestedBy:        "selam",
		SourceBranch:       valueobject.BranchBerhane,
		ProductName:        "Bread Flour 25kg",
		PackageSize:        decimal.NewFromInt(25),
		Quantity:           decimal.NewFromInt(4),
		Reason:             "customer order",
		IsCustomerDelivery: true,
		CustomerInfo:       &workflow.CustomerInfo{Name: "Abeba Trading", Phone: "0914000000"},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, delivery))

	found, err := repo.FindCustomerDeliveries(ctx, workflow.DispatchPending, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, delivery.RequestNumber, found[0].RequestNumber)
	require.NotNil(t, found[0].CustomerInfo)
	assert.Equal(t, "Abeba Trading", found[0].CustomerInfo.Name)
}

func TestStockRequestRepository_FindByRequestNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRequestRepository(db)
	ctx := context.Background()

	request, err := workflow.NewStockRequest(workflow.NewStockRequestParams{
		RequestedBy:       "selam",
		SourceBranch:      valueobject.BranchBerhane,
		DestinationBranch: valueobject.BranchGirmay,
		ProductName:       "1st Quality 50kg",
		PackageSize:       decimal.NewFromInt(50),
		Quantity:          decimal.NewFromInt(6),
		Reason:            "restock",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, request))

	found, err := repo.FindByRequestNumber(ctx, request.RequestNumber)
	require.NoError(t, err)
	assert.Equal(t, request.ID, found.ID)
	assert.NotEmpty(t, found.History)

	_, err = repo.FindByRequestNumber(ctx, "SR-00000000000000-xxxx")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSalesTransactionRepository_SumCashByBranchAndDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesTransactionRepository(db)
	ctx := context.Background()

	saveSale := func(branch valueobject.Branch, paymentType finance.PaymentType, amount int64) {
		t.Helper()
		params := finance.NewSalesTransactionParams{
			BranchID:    branch,
			SoldBy:      "fatuma",
			PaymentType: paymentType,
			Items: finance.SaleItems{{
				ProductName: "1st Quality 50kg",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   decimal.NewFromInt(amount),
				Subtotal:    decimal.NewFromInt(amount),
			}},
		}
		if paymentType == finance.PaymentTypeLoan {
			id := uuid.New()
			params.CustomerID = &id
			params.CustomerName = "Abeba Trading"
		}
		sale, err := finance.NewSalesTransaction(params)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, sale))
	}

	saveSale(valueobject.BranchBerhane, finance.PaymentTypeCash, 445000)
	saveSale(valueobject.BranchBerhane, finance.PaymentTypeCash, 445000)
	saveSale(valueobject.BranchBerhane, finance.PaymentTypeLoan, 120000)
	saveSale(valueobject.BranchGirmay, finance.PaymentTypeCash, 99000)

	today := timeNowDate()

	t.Run("sums only cash sales for the branch", func(t *testing.T) {
		total, err := repo.SumCashByBranchAndDate(ctx, valueobject.BranchBerhane, today)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(890000)), "got %s", total)
	})

	t.Run("returns zero when the day has no cash sales", func(t *testing.T) {
		total, err := repo.SumCashByBranchAndDate(ctx, valueobject.BranchGirmay, "2020-01-01")
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestReconciliationRepository_InsertOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReconciliationRepository(db)
	ctx := context.Background()

	matched, err := finance.NewReconciliation(finance.NewReconciliationParams{
		BranchID:     valueobject.BranchBerhane,
		Date:         "2025-01-15",
		ExpectedCash: decimal.NewFromInt(890000),
		ActualCash:   decimal.NewFromInt(890005),
		Tolerance:    decimal.NewFromInt(10),
		ReconciledBy: "haben",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, matched))

	flagged, err := finance.NewReconciliation(finance.NewReconciliationParams{
		BranchID:     valueobject.BranchBerhane,
		Date:         "2025-01-16",
		ExpectedCash: decimal.NewFromInt(890000),
		ActualCash:   decimal.NewFromInt(890500),
		Tolerance:    decimal.NewFromInt(10),
		ReconciledBy: "haben",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, flagged))

	t.Run("finds records for a branch and date", func(t *testing.T) {
		records, err := repo.FindByBranchAndDate(ctx, valueobject.BranchBerhane, "2025-01-15")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, finance.ReconciliationMatched, records[0].Status)
	})

	t.Run("flagged listing excludes matched days", func(t *testing.T) {
		records, err := repo.FindFlagged(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "2025-01-16", records[0].Date)
		assert.True(t, records[0].Variance.Equal(decimal.NewFromInt(500)))
	})
}

func TestLoanRepository_FindByCustomer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoanRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	for _, amount := range []int64{120000, 45000} {
		loan, err := finance.NewLoan(customerID, "Abeba Trading", valueobject.BranchBerhane, nil,
			decimal.NewFromInt(amount), timeNowPlusDays(30))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, loan))
	}

	other, err := finance.NewLoan(uuid.New(), "Mekelle Bakery", valueobject.BranchGirmay, nil,
		decimal.NewFromInt(60000), timeNowPlusDays(30))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	loans, err := repo.FindByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	for _, loan := range loans {
		assert.Equal(t, customerID, loan.CustomerID)
		assert.Equal(t, finance.LoanActive, loan.Status)
	}
}

func TestApplyFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInventoryItemRepository(db)
	ctx := context.Background()

	for _, name := range []string{"1st Quality 50kg", "Bread Flour 25kg", "Fruska"} {
		item, err := inventory.NewInventoryItem(name, valueobject.BranchBerhane, inventory.UnitKilogram, "flour")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, item))
	}

	t.Run("paginates", func(t *testing.T) {
		items, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("ignores order columns outside the whitelist", func(t *testing.T) {
		items, err := repo.FindAll(ctx, shared.Filter{OrderBy: "quantity; DROP TABLE inventory_items"})
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("applies equality filters", func(t *testing.T) {
		items, err := repo.FindAll(ctx, shared.Filter{
			Filters: map[string]interface{}{"product_name": "Fruska"},
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Fruska", items[0].ProductName)
	})
}
