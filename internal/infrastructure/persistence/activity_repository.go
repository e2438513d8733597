package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/kushukushu/backend/internal/domain/audit"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// GormActivityRepository implements the append-only action trail
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Append inserts an activity record
func (r *GormActivityRepository) Append(ctx context.Context, activity *audit.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// FindByActor finds activities performed by one actor
func (r *GormActivityRepository) FindByActor(ctx context.Context, actorName string, filter shared.Filter) ([]*audit.Activity, error) {
	var activities []*audit.Activity
	query := r.db.WithContext(ctx).Model(&audit.Activity{}).
		Where("actor_name = ?", actorName)
	if err := applyFilter(query, filter).Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// FindByBranch finds activities for a branch
func (r *GormActivityRepository) FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*audit.Activity, error) {
	var activities []*audit.Activity
	query := r.db.WithContext(ctx).Model(&audit.Activity{}).
		Where("branch_id = ?", branch)
	if err := applyFilter(query, filter).Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// FindByReference finds activities tied to one document
func (r *GormActivityRepository) FindByReference(ctx context.Context, reference string) ([]*audit.Activity, error) {
	var activities []*audit.Activity
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("created_at ASC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// FindAll finds activities with filtering
func (r *GormActivityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*audit.Activity, error) {
	var activities []*audit.Activity
	query := applyFilter(r.db.WithContext(ctx).Model(&audit.Activity{}), filter)
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
