package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/kushukushu/backend/internal/domain/workflow"
)

// GormPurchaseRequisitionRepository implements PurchaseRequisitionRepository using GORM
type GormPurchaseRequisitionRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRequisitionRepository creates a new GormPurchaseRequisitionRepository
func NewGormPurchaseRequisitionRepository(db *gorm.DB) *GormPurchaseRequisitionRepository {
	return &GormPurchaseRequisitionRepository{db: db}
}

// FindByID finds a purchase requisition by its ID
func (r *GormPurchaseRequisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.PurchaseRequisition, error) {
	var requisition workflow.PurchaseRequisition
	if err := r.db.WithContext(ctx).First(&requisition, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &requisition, nil
}

// FindByRequestNumber finds a requisition by its human-readable number
func (r *GormPurchaseRequisitionRepository) FindByRequestNumber(ctx context.Context, number string) (*workflow.PurchaseRequisition, error) {
	var requisition workflow.PurchaseRequisition
	if err := r.db.WithContext(ctx).
		Where("request_number = ?", number).
		First(&requisition).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &requisition, nil
}

// FindByStatus finds requisitions at an approval stage
func (r *GormPurchaseRequisitionRepository) FindByStatus(ctx context.Context, status workflow.PurchaseStatus, filter shared.Filter) ([]*workflow.PurchaseRequisition, error) {
	var requisitions []*workflow.PurchaseRequisition
	query := r.db.WithContext(ctx).Model(&workflow.PurchaseRequisition{}).
		Where("status = ?", status)
	if err := applyFilter(query, filter).Find(&requisitions).Error; err != nil {
		return nil, err
	}
	return requisitions, nil
}

// FindByBranch finds requisitions raised by a branch
func (r *GormPurchaseRequisitionRepository) FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*workflow.PurchaseRequisition, error) {
	var requisitions []*workflow.PurchaseRequisition
	query := r.db.WithContext(ctx).Model(&workflow.PurchaseRequisition{}).
		Where("branch_id = ?", branch)
	if err := applyFilter(query, filter).Find(&requisitions).Error; err != nil {
		return nil, err
	}
	return requisitions, nil
}

// FindAll finds requisitions with filtering
func (r *GormPurchaseRequisitionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*workflow.PurchaseRequisition, error) {
	var requisitions []*workflow.PurchaseRequisition
	query := applyFilter(r.db.WithContext(ctx).Model(&workflow.PurchaseRequisition{}), filter)
	if err := query.Find(&requisitions).Error; err != nil {
		return nil, err
	}
	return requisitions, nil
}

// Save creates or updates a purchase requisition
func (r *GormPurchaseRequisitionRepository) Save(ctx context.Context, requisition *workflow.PurchaseRequisition) error {
	return r.db.WithContext(ctx).Save(requisition).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormPurchaseRequisitionRepository) SaveWithLock(ctx context.Context, requisition *workflow.PurchaseRequisition) error {
	result := r.db.WithContext(ctx).
		Model(requisition).
		Where("id = ? AND version = ?", requisition.ID, requisition.Version-1).
		Select("*").
		Updates(requisition)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
