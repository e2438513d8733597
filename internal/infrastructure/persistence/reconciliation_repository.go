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

// GormReconciliationRepository implements ReconciliationRepository using GORM.
// Reconciliation records are append-only; corrections reference the superseded
// record instead of editing it.
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRepository creates a new GormReconciliationRepository
func NewGormReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

// FindByID finds a reconciliation by its ID
func (r *GormReconciliationRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Reconciliation, error) {
	var rec finance.Reconciliation
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByBranchAndDate finds reconciliations for a branch on a date,
// oldest first so corrections follow what they supersede
func (r *GormReconciliationRepository) FindByBranchAndDate(ctx context.Context, branch valueobject.Branch, date string) ([]*finance.Reconciliation, error) {
	var recs []*finance.Reconciliation
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date = ?", branch, date).
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// FindFlagged finds reconciliations whose variance exceeded tolerance
func (r *GormReconciliationRepository) FindFlagged(ctx context.Context, filter shared.Filter) ([]*finance.Reconciliation, error) {
	var recs []*finance.Reconciliation
	query := r.db.WithContext(ctx).Model(&finance.Reconciliation{}).
		Where("status = ?", finance.ReconciliationFlagged)
	if err := applyFilter(query, filter).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// FindAll finds reconciliations with filtering
func (r *GormReconciliationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*finance.Reconciliation, error) {
	var recs []*finance.Reconciliation
	query := applyFilter(r.db.WithContext(ctx).Model(&finance.Reconciliation{}), filter)
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Save inserts a reconciliation record
func (r *GormReconciliationRepository) Save(ctx context.Context, reconciliation *finance.Reconciliation) error {
	return r.db.WithContext(ctx).Create(reconciliation).Error
}
