package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// GormSalesTransactionRepository implements SalesTransactionRepository using GORM
type GormSalesTransactionRepository struct {
	db *gorm.DB
}

// NewGormSalesTransactionRepository creates a new GormSalesTransactionRepository
func NewGormSalesTransactionRepository(db *gorm.DB) *GormSalesTransactionRepository {
	return &GormSalesTransactionRepository{db: db}
}

// FindByID finds a sales transaction by its ID
func (r *GormSalesTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.SalesTransaction, error) {
	var sale finance.SalesTransaction
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByTransactionNumber finds a sale by its human-readable number
func (r *GormSalesTransactionRepository) FindByTransactionNumber(ctx context.Context, number string) (*finance.SalesTransaction, error) {
	var sale finance.SalesTransaction
	if err := r.db.WithContext(ctx).
		Where("transaction_number = ?", number).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByBranchAndDate finds all sales for a branch on a date
func (r *GormSalesTransactionRepository) FindByBranchAndDate(ctx context.Context, branch valueobject.Branch, date string) ([]*finance.SalesTransaction, error) {
	var sales []*finance.SalesTransaction
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND sale_date = ?", branch, date).
		Order("created_at ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindAll finds sales with filtering
func (r *GormSalesTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.SalesTransaction, error) {
	var sales []*finance.SalesTransaction
	query := applyFilter(r.db.WithContext(ctx).Model(&finance.SalesTransaction{}), filter)
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// SumCashByBranchAndDate totals cash-type sales for one branch on one date.
// Check, transfer and loan sales are excluded from the drawer expectation.
func (r *GormSalesTransactionRepository) SumCashByBranchAndDate(ctx context.Context, branch valueobject.Branch, date string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&finance.SalesTransaction{}).
		Select("SUM(total_amount)").
		Where("branch_id = ? AND sale_date = ? AND payment_type = ?", branch, date, finance.PaymentTypeCash).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save creates or updates a sales transaction
func (r *GormSalesTransactionRepository) Save(ctx context.Context, transaction *finance.SalesTransaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}
