package persistence

import (
	"context"

	"gorm.io/gorm"

	appfin "github.com/kushukushu/backend/internal/application/finance"
	appinv "github.com/kushukushu/backend/internal/application/inventory"
	appprod "github.com/kushukushu/backend/internal/application/production"
	appwf "github.com/kushukushu/backend/internal/application/workflow"
	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/production"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

// GormInventoryScope implements the inventory TransactionScope using GORM transactions
type GormInventoryScope struct {
	db *gorm.DB
}

// NewGormInventoryScope creates a new GormInventoryScope
func NewGormInventoryScope(db *gorm.DB) *GormInventoryScope {
	return &GormInventoryScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepos{tx: tx})
	})
}

type gormInventoryRepos struct {
	tx *gorm.DB
}

func (r *gormInventoryRepos) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormInventoryRepos) LedgerRepo() inventory.InventoryTransactionRepository {
	return NewGormInventoryTransactionRepository(r.tx)
}

func (r *gormInventoryRepos) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return NewGormStockAdjustmentRepository(r.tx)
}

// GormWorkflowScope implements the workflow TransactionScope using GORM transactions
type GormWorkflowScope struct {
	db *gorm.DB
}

// NewGormWorkflowScope creates a new GormWorkflowScope
func NewGormWorkflowScope(db *gorm.DB) *GormWorkflowScope {
	return &GormWorkflowScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormWorkflowScope) Execute(ctx context.Context, fn func(repos appwf.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormWorkflowRepos{tx: tx})
	})
}

type gormWorkflowRepos struct {
	tx *gorm.DB
}

func (r *gormWorkflowRepos) StockRequestRepo() workflow.StockRequestRepository {
	return NewGormStockRequestRepository(r.tx)
}

func (r *gormWorkflowRepos) RequisitionRepo() workflow.PurchaseRequisitionRepository {
	return NewGormPurchaseRequisitionRepository(r.tx)
}

func (r *gormWorkflowRepos) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormWorkflowRepos) LedgerRepo() inventory.InventoryTransactionRepository {
	return NewGormInventoryTransactionRepository(r.tx)
}

func (r *gormWorkflowRepos) ActivityRepo() audit.ActivityRepository {
	return NewGormActivityRepository(r.tx)
}

// GormFinanceScope implements the finance TransactionScope using GORM transactions
type GormFinanceScope struct {
	db *gorm.DB
}

// NewGormFinanceScope creates a new GormFinanceScope
func NewGormFinanceScope(db *gorm.DB) *GormFinanceScope {
	return &GormFinanceScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormFinanceScope) Execute(ctx context.Context, fn func(repos appfin.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormFinanceRepos{tx: tx})
	})
}

type gormFinanceRepos struct {
	tx *gorm.DB
}

func (r *gormFinanceRepos) SalesRepo() finance.SalesTransactionRepository {
	return NewGormSalesTransactionRepository(r.tx)
}

func (r *gormFinanceRepos) LoanRepo() finance.LoanRepository {
	return NewGormLoanRepository(r.tx)
}

func (r *gormFinanceRepos) CustomerRepo() finance.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormFinanceRepos) ReconciliationRepo() finance.ReconciliationRepository {
	return NewGormReconciliationRepository(r.tx)
}

func (r *gormFinanceRepos) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormFinanceRepos) LedgerRepo() inventory.InventoryTransactionRepository {
	return NewGormInventoryTransactionRepository(r.tx)
}

func (r *gormFinanceRepos) ActivityRepo() audit.ActivityRepository {
	return NewGormActivityRepository(r.tx)
}

// GormProductionScope implements the production TransactionScope using GORM transactions
type GormProductionScope struct {
	db *gorm.DB
}

// NewGormProductionScope creates a new GormProductionScope
func NewGormProductionScope(db *gorm.DB) *GormProductionScope {
	return &GormProductionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormProductionScope) Execute(ctx context.Context, fn func(repos appprod.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormProductionRepos{tx: tx})
	})
}

type gormProductionRepos struct {
	tx *gorm.DB
}

func (r *gormProductionRepos) MillingRepo() production.MillingOrderRepository {
	return NewGormMillingOrderRepository(r.tx)
}

func (r *gormProductionRepos) DeliveryRepo() production.WheatDeliveryRepository {
	return NewGormWheatDeliveryRepository(r.tx)
}

func (r *gormProductionRepos) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormProductionRepos) LedgerRepo() inventory.InventoryTransactionRepository {
	return NewGormInventoryTransactionRepository(r.tx)
}

func (r *gormProductionRepos) ActivityRepo() audit.ActivityRepository {
	return NewGormActivityRepository(r.tx)
}

var (
	_ appinv.TransactionScope  = (*GormInventoryScope)(nil)
	_ appwf.TransactionScope   = (*GormWorkflowScope)(nil)
	_ appfin.TransactionScope  = (*GormFinanceScope)(nil)
	_ appprod.TransactionScope = (*GormProductionScope)(nil)

	_ appinv.TransactionalRepositories  = (*gormInventoryRepos)(nil)
	_ appwf.TransactionalRepositories   = (*gormWorkflowRepos)(nil)
	_ appfin.TransactionalRepositories  = (*gormFinanceRepos)(nil)
	_ appprod.TransactionalRepositories = (*gormProductionRepos)(nil)
)
