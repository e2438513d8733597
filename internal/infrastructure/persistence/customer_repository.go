package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kushukushu/backend/internal/domain/finance"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by their ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Customer, error) {
	var customer finance.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByName finds a customer by exact name
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) (*finance.Customer, error) {
	var customer finance.Customer
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByBranch finds customers registered at a branch
func (r *GormCustomerRepository) FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*finance.Customer, error) {
	var customers []*finance.Customer
	query := r.db.WithContext(ctx).Model(&finance.Customer{}).
		Where("branch_id = ?", branch)
	if err := applyFilter(query, filter).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindAll finds customers with filtering
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.Customer, error) {
	var customers []*finance.Customer
	query := applyFilter(r.db.WithContext(ctx).Model(&finance.Customer{}), filter)
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *finance.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *finance.Customer) error {
	result := r.db.WithContext(ctx).
		Model(customer).
		Where("id = ? AND version = ?", customer.ID, customer.Version-1).
		Select("*").
		Updates(customer)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
