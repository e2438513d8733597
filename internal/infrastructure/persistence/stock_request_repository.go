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

// GormStockRequestRepository implements StockRequestRepository using GORM
type GormStockRequestRepository struct {
	db *gorm.DB
}

// NewGormStockRequestRepository creates a new GormStockRequestRepository
func NewGormStockRequestRepository(db *gorm.DB) *GormStockRequestRepository {
	return &GormStockRequestRepository{db: db}
}

// FindByID finds a stock request by its ID
func (r *GormStockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.StockRequest, error) {
	var request workflow.StockRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByRequestNumber finds a stock request by its human-readable number
func (r *GormStockRequestRepository) FindByRequestNumber(ctx context.Context, number string) (*workflow.StockRequest, error) {
	var request workflow.StockRequest
	if err := r.db.WithContext(ctx).
		Where("request_number = ?", number).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByStatus finds stock requests at a pipeline stage
func (r *GormStockRequestRepository) FindByStatus(ctx context.Context, status workflow.StockRequestStatus, filter shared.Filter) ([]*workflow.StockRequest, error) {
	var requests []*workflow.StockRequest
	query := r.db.WithContext(ctx).Model(&workflow.StockRequest{}).
		Where("status = ?", status)
	if err := applyFilter(query, filter).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByBranch finds stock requests destined for a branch
func (r *GormStockRequestRepository) FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*workflow.StockRequest, error) {
	var requests []*workflow.StockRequest
	query := r.db.WithContext(ctx).Model(&workflow.StockRequest{}).
		Where("branch_id = ?", branch)
	if err := applyFilter(query, filter).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindCustomerDeliveries finds customer delivery requests by dispatch state
func (r *GormStockRequestRepository) FindCustomerDeliveries(ctx context.Context, status workflow.DispatchStatus, filter shared.Filter) ([]*workflow.StockRequest, error) {
	var requests []*workflow.StockRequest
	query := r.db.WithContext(ctx).Model(&workflow.StockRequest{}).
		Where("is_customer_delivery = ? AND dispatch_status = ?", true, status)
	if err := applyFilter(query, filter).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindAll finds stock requests with filtering
func (r *GormStockRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*workflow.StockRequest, error) {
	var requests []*workflow.StockRequest
	query := applyFilter(r.db.WithContext(ctx).Model(&workflow.StockRequest{}), filter)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates a stock request
func (r *GormStockRequestRepository) Save(ctx context.Context, request *workflow.StockRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormStockRequestRepository) SaveWithLock(ctx context.Context, request *workflow.StockRequest) error {
	result := r.db.WithContext(ctx).
		Model(request).
		Where("id = ? AND version = ?", request.ID, request.Version-1).
		Select("*").
		Updates(request)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
