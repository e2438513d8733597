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

// GormWheatDeliveryRepository implements WheatDeliveryRepository using GORM
type GormWheatDeliveryRepository struct {
	db *gorm.DB
}

// NewGormWheatDeliveryRepository creates a new GormWheatDeliveryRepository
func NewGormWheatDeliveryRepository(db *gorm.DB) *GormWheatDeliveryRepository {
	return &GormWheatDeliveryRepository{db: db}
}

// FindByID finds a wheat delivery by its ID
func (r *GormWheatDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.WheatDelivery, error) {
	var delivery production.WheatDelivery
	if err := r.db.WithContext(ctx).First(&delivery, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &delivery, nil
}

// FindByBranch finds wheat deliveries received at a branch
func (r *GormWheatDeliveryRepository) FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*production.WheatDelivery, error) {
	var deliveries []*production.WheatDelivery
	query := r.db.WithContext(ctx).Model(&production.WheatDelivery{}).
		Where("branch_id = ?", branch)
	if err := applyFilter(query, filter).Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindAll finds wheat deliveries with filtering
func (r *GormWheatDeliveryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*production.WheatDelivery, error) {
	var deliveries []*production.WheatDelivery
	query := applyFilter(r.db.WithContext(ctx).Model(&production.WheatDelivery{}), filter)
	if err := query.Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Save creates or updates a wheat delivery
func (r *GormWheatDeliveryRepository) Save(ctx context.Context, delivery *production.WheatDelivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}
