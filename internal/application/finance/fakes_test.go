package finance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// In-memory repositories backing the service tests. SaveWithLock keeps
// real compare-and-set semantics so optimistic-locking paths behave as
// they would against the database.

type memSalesRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*finance.SalesTransaction
}

func newMemSalesRepo() *memSalesRepo {
	return &memSalesRepo{sales: map[uuid.UUID]*finance.SalesTransaction{}}
}

func (r *memSalesRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.SalesTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *sale
	return &c, nil
}

func (r *memSalesRepo) FindByTransactionNumber(_ context.Context, number string) (*finance.SalesTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sale := range r.sales {
		if sale.TransactionNumber == number {
			c := *sale
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSalesRepo) FindByBranchAndDate(_ context.Context, branch valueobject.Branch, date string) ([]*finance.SalesTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.SalesTransaction
	for _, sale := range r.sales {
		if sale.BranchID == branch && sale.SaleDate == date {
			c := *sale
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memSalesRepo) FindAll(_ context.Context, _ shared.Filter) ([]*finance.SalesTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.SalesTransaction
	for _, sale := range r.sales {
		c := *sale
		out = append(out, &c)
	}
	return out, nil
}

func (r *memSalesRepo) SumCashByBranchAndDate(_ context.Context, branch valueobject.Branch, date string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, sale := range r.sales {
		if sale.BranchID == branch && sale.SaleDate == date && sale.PaymentType.CountsTowardCash() {
			total = total.Add(sale.TotalAmount)
		}
	}
	return total, nil
}

func (r *memSalesRepo) Save(_ context.Context, sale *finance.SalesTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *sale
	r.sales[sale.ID] = &c
	return nil
}

type memLoanRepo struct {
	mu    sync.Mutex
	loans map[uuid.UUID]*finance.Loan
}

func newMemLoanRepo() *memLoanRepo {
	return &memLoanRepo{loans: map[uuid.UUID]*finance.Loan{}}
}

func (r *memLoanRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.loans[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *loan
	return &c, nil
}

func (r *memLoanRepo) FindByLoanNumber(_ context.Context, number string) (*finance.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, loan := range r.loans {
		if loan.LoanNumber == number {
			c := *loan
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLoanRepo) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]*finance.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.Loan
	for _, loan := range r.loans {
		if loan.CustomerID == customerID {
			c := *loan
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memLoanRepo) FindByStatus(_ context.Context, status finance.LoanStatus, _ shared.Filter) ([]*finance.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.Loan
	for _, loan := range r.loans {
		if loan.Status == status {
			c := *loan
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memLoanRepo) FindAll(_ context.Context, _ shared.Filter) ([]*finance.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.Loan
	for _, loan := range r.loans {
		c := *loan
		out = append(out, &c)
	}
	return out, nil
}

func (r *memLoanRepo) Save(_ context.Context, loan *finance.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *loan
	r.loans[loan.ID] = &c
	return nil
}

func (r *memLoanRepo) SaveWithLock(_ context.Context, loan *finance.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.loans[loan.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != loan.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	c := *loan
	r.loans[loan.ID] = &c
	return nil
}

type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*finance.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: map[uuid.UUID]*finance.Customer{}}
}

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *customer
	return &c, nil
}

func (r *memCustomerRepo) FindByName(_ context.Context, name string) (*finance.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.Name == name {
			c := *customer
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindByBranch(_ context.Context, branch valueobject.Branch, _ shared.Filter) ([]*finance.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.Customer
	for _, customer := range r.customers {
		if customer.BranchID == branch {
			c := *customer
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]*finance.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.Customer
	for _, customer := range r.customers {
		c := *customer
		out = append(out, &c)
	}
	return out, nil
}

func (r *memCustomerRepo) Save(_ context.Context, customer *finance.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *customer
	r.customers[customer.ID] = &c
	return nil
}

func (r *memCustomerRepo) SaveWithLock(_ context.Context, customer *finance.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.customers[customer.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != customer.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	c := *customer
	r.customers[customer.ID] = &c
	return nil
}

type memReconRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*finance.Reconciliation
}

func newMemReconRepo() *memReconRepo {
	return &memReconRepo{records: map[uuid.UUID]*finance.Reconciliation{}}
}

func (r *memReconRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Reconciliation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := *record
	return &c, nil
}

func (r *memReconRepo) FindByBranchAndDate(_ context.Context, branch valueobject.Branch, date string) ([]*finance.Reconciliation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.Reconciliation
	for _, record := range r.records {
		if record.BranchID == branch && record.Date == date {
			c := *record
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memReconRepo) FindFlagged(_ context.Context, _ shared.Filter) ([]*finance.Reconciliation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.Reconciliation
	for _, record := range r.records {
		if record.Status == finance.ReconciliationFlagged {
			c := *record
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memReconRepo) FindAll(_ context.Context, _ shared.Filter) ([]*finance.Reconciliation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*finance.Reconciliation
	for _, record := range r.records {
		c := *record
		out = append(out, &c)
	}
	return out, nil
}

func (r *memReconRepo) Save(_ context.Context, record *finance.Reconciliation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *record
	r.records[record.ID] = &c
	return nil
}

type memItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]inventory.InventoryItem
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: map[uuid.UUID]inventory.InventoryItem{}}
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c := item
	return &c, nil
}

func (r *memItemRepo) FindByProductAndBranch(_ context.Context, productName string, branch valueobject.Branch) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ProductName == productName && item.BranchID == branch {
			c := item
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memItemRepo) FindByBranch(_ context.Context, _ valueobject.Branch, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memItemRepo) FindBelowThreshold(_ context.Context, _ shared.Filter) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *memItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) SaveWithLock(_ context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != item.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.items[item.ID] = *item
	return nil
}

type memLedgerRepo struct {
	mu      sync.Mutex
	records []inventory.InventoryTransaction
}

func (r *memLedgerRepo) Append(_ context.Context, tx *inventory.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *tx)
	return nil
}

func (r *memLedgerRepo) FindByItem(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]inventory.InventoryTransaction, error) {
	return nil, nil
}

func (r *memLedgerRepo) FindByReference(_ context.Context, reference string) ([]inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.InventoryTransaction
	for _, rec := range r.records {
		if rec.Reference == reference {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) FindByBranch(_ context.Context, _ valueobject.Branch, _, _ time.Time) ([]inventory.InventoryTransaction, error) {
	return nil, nil
}

func (r *memLedgerRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]inventory.InventoryTransaction(nil), r.records...), nil
}
