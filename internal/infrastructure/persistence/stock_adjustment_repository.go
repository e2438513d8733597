package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
)

// GormStockAdjustmentRepository implements StockAdjustmentRepository using GORM
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormStockAdjustmentRepository creates a new GormStockAdjustmentRepository
func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

// FindByID finds a stock adjustment by its ID
func (r *GormStockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAdjustment, error) {
	var adjustment inventory.StockAdjustment
	if err := r.db.WithContext(ctx).First(&adjustment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindByStatus finds stock adjustments by status
func (r *GormStockAdjustmentRepository) FindByStatus(ctx context.Context, status inventory.AdjustmentStatus, filter shared.Filter) ([]inventory.StockAdjustment, error) {
	var adjustments []inventory.StockAdjustment
	query := r.db.WithContext(ctx).Model(&inventory.StockAdjustment{}).
		Where("status = ?", status)
	if err := applyFilter(query, filter).Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Save creates or updates a stock adjustment
func (r *GormStockAdjustmentRepository) Save(ctx context.Context, adjustment *inventory.StockAdjustment) error {
	return r.db.WithContext(ctx).Save(adjustment).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormStockAdjustmentRepository) SaveWithLock(ctx context.Context, adjustment *inventory.StockAdjustment) error {
	result := r.db.WithContext(ctx).
		Model(adjustment).
		Where("id = ? AND version = ?", adjustment.ID, adjustment.Version-1).
		Select("*").
		Updates(adjustment)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
