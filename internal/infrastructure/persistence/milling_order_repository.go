package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kushukushu/backend/internal/domain/production"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// GormMillingOrderRepository implements MillingOrderRepository using GORM
type GormMillingOrderRepository struct {
	db *gorm.DB
}

// NewGormMillingOrderRepository creates a new GormMillingOrderRepository
func NewGormMillingOrderRepository(db *gorm.DB) *GormMillingOrderRepository {
	return &GormMillingOrderRepository{db: db}
}

// FindByID finds a milling order by its ID
func (r *GormMillingOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.MillingOrder, error) {
	var order production.MillingOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByStatus finds milling orders by status
func (r *GormMillingOrderRepository) FindByStatus(ctx context.Context, status production.MillingStatus, filter shared.Filter) ([]*production.MillingOrder, error) {
	var orders []*production.MillingOrder
	query := r.db.WithContext(ctx).Model(&production.MillingOrder{}).
		Where("status = ?", status)
	if err := applyFilter(query, filter).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByBranch finds milling orders for a branch
func (r *GormMillingOrderRepository) FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*production.MillingOrder, error) {
	var orders []*production.MillingOrder
	query := r.db.WithContext(ctx).Model(&production.MillingOrder{}).
		Where("branch_id = ?", branch)
	if err := applyFilter(query, filter).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds milling orders with filtering
func (r *GormMillingOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*production.MillingOrder, error) {
	var orders []*production.MillingOrder
	query := applyFilter(r.db.WithContext(ctx).Model(&production.MillingOrder{}), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a milling order
func (r *GormMillingOrderRepository) Save(ctx context.Context, order *production.MillingOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormMillingOrderRepository) SaveWithLock(ctx context.Context, order *production.MillingOrder) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Select("*").
		Updates(order)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
