package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/shared"
)

// GormLoanRepository implements LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Loan, error) {
	var loan finance.Loan
	if err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// FindByLoanNumber finds a loan by its human-readable number
func (r *GormLoanRepository) FindByLoanNumber(ctx context.Context, number string) (*finance.Loan, error) {
	var loan finance.Loan
	if err := r.db.WithContext(ctx).
		Where("loan_number = ?", number).
		First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// FindByCustomer finds all loans for a customer, oldest first
func (r *GormLoanRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*finance.Loan, error) {
	var loans []*finance.Loan
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// FindByStatus finds loans by status
func (r *GormLoanRepository) FindByStatus(ctx context.Context, status finance.LoanStatus, filter shared.Filter) ([]*finance.Loan, error) {
	var loans []*finance.Loan
	query := r.db.WithContext(ctx).Model(&finance.Loan{}).
		Where("status = ?", status)
	if err := applyFilter(query, filter).Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// FindAll finds loans with filtering
func (r *GormLoanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.Loan, error) {
	var loans []*finance.Loan
	query := applyFilter(r.db.WithContext(ctx).Model(&finance.Loan{}), filter)
	if err := query.Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// Save creates or updates a loan
func (r *GormLoanRepository) Save(ctx context.Context, loan *finance.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormLoanRepository) SaveWithLock(ctx context.Context, loan *finance.Loan) error {
	result := r.db.WithContext(ctx).
		Model(loan).
		Where("id = ? AND version = ?", loan.ID, loan.Version-1).
		Select("*").
		Updates(loan)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
