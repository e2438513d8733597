package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// GormInventoryTransactionRepository implements the append-only audit store
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// Append inserts an audit record. Records are never updated or deleted.
func (r *GormInventoryTransactionRepository) Append(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByItem finds audit records for one inventory item
func (r *GormInventoryTransactionRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var records []inventory.InventoryTransaction
	query := r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).
		Where("item_id = ?", itemID)
	if err := applyFilter(query, filter).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByReference finds audit records for an originating document
func (r *GormInventoryTransactionRepository) FindByReference(ctx context.Context, reference string) ([]inventory.InventoryTransaction, error) {
	var records []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByBranch finds audit records for a branch within a time window
func (r *GormInventoryTransactionRepository) FindByBranch(ctx context.Context, branch valueobject.Branch, from, to time.Time) ([]inventory.InventoryTransaction, error) {
	var records []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND created_at >= ? AND created_at < ?", branch, from, to).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll finds audit records with filtering
func (r *GormInventoryTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var records []inventory.InventoryTransaction
	query := applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}), filter)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
