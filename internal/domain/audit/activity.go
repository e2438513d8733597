package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
)

// Activity is one line of the append-only action trail. Entries are never
// updated or deleted.
type Activity struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey"`
	ActorName   string             `gorm:"not null;index"`
	ActorRole   string             `gorm:"not null"`
	Action      string             `gorm:"not null;index"`
	Description string             `gorm:"not null;default:''"`
	BranchID    valueobject.Branch `gorm:"not null;index"`
	Reference   string             `gorm:"not null;default:'';index"`
	CreatedAt   time.Time          `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Activity) TableName() string {
	return "activities"
}

// NewActivity records who did what, where
func NewActivity(actorName, actorRole, action, description string, branch valueobject.Branch, reference string) *Activity {
	return &Activity{
		ID:          uuid.New(),
		ActorName:   actorName,
		ActorRole:   actorRole,
		Action:      action,
		Description: description,
		BranchID:    branch,
		Reference:   reference,
		CreatedAt:   time.Now(),
	}
}

// ActivityRepository defines the persistence interface for the action trail
type ActivityRepository interface {
	Append(ctx context.Context, activity *Activity) error
	FindByActor(ctx context.Context, actorName string, filter shared.Filter) ([]*Activity, error)
	FindByBranch(ctx context.Context, branch valueobject.Branch, filter shared.Filter) ([]*Activity, error)
	FindByReference(ctx context.Context, reference string) ([]*Activity, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Activity, error)
}
