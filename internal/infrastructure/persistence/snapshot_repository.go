package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/analytics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSnapshotRepository implements SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Upsert writes a snapshot, replacing any existing row for the same
// space and date. Reruns of the rollup overwrite rather than duplicate.
func (r *GormSnapshotRepository) Upsert(ctx context.Context, snapshot *analytics.SpaceSnapshot) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "space_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"active_members",
				"chores_completed",
				"points_awarded",
				"tasks_completed",
				"messages_sent",
				"expenses_recorded",
				"updated_at",
			}),
		}).
		Create(snapshot).Error
}

// FindBySpaceRange returns snapshots for a space over a date range,
// oldest first
func (r *GormSnapshotRepository) FindBySpaceRange(ctx context.Context, spaceID uuid.UUID, from, to time.Time) ([]*analytics.SpaceSnapshot, error) {
	var snapshots []*analytics.SpaceSnapshot
	if err := r.db.WithContext(ctx).
		Where("space_id = ? AND date >= ? AND date < ?", spaceID, from, to).
		Order("date ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Ensure GormSnapshotRepository implements SnapshotRepository
var _ analytics.SnapshotRepository = (*GormSnapshotRepository)(nil)
