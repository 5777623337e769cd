package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/analytics"
	"github.com/homehub/backend/internal/domain/chore"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/homehub/backend/internal/domain/task"
	"gorm.io/gorm"
)

// GormStatsReader implements StatsReader with live counting queries.
// Dashboards that can tolerate day-old numbers should read the rollup
// snapshots instead.
type GormStatsReader struct {
	db *gorm.DB
}

// NewGormStatsReader creates a new GormStatsReader
func NewGormStatsReader(db *gorm.DB) *GormStatsReader {
	return &GormStatsReader{db: db}
}

// CountActiveMembers counts members of the space whose user was active
// since the given time
func (r *GormStatsReader) CountActiveMembers(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Membership{}).
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.space_id = ? AND users.last_active_at >= ?", spaceID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCompletions counts chore completions in the space since the time
func (r *GormStatsReader) CountCompletions(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&chore.Completion{}).
		Where("space_id = ? AND completed_at >= ?", spaceID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumPointsAwarded sums positive ledger entries since the time.
// Redemptions are negative and excluded.
func (r *GormStatsReader) SumPointsAwarded(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error) {
	var row struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&rewards.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("space_id = ? AND amount > 0 AND created_at >= ?", spaceID, since).
		Scan(&row).Error; err != nil {
		return 0, err
	}
	return row.Total, nil
}

// CountOpenTasks counts tasks not yet done in the space
func (r *GormStatsReader) CountOpenTasks(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&task.Task{}).
		Where("space_id = ? AND status IN ?", spaceID, []task.TaskStatus{task.TaskStatusTodo, task.TaskStatusInProgress}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOverdueChores counts active chores past due at the given time
func (r *GormStatsReader) CountOverdueChores(ctx context.Context, spaceID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&chore.Chore{}).
		Where("space_id = ? AND status = ? AND due_at IS NOT NULL AND due_at < ?", spaceID, chore.ChoreStatusActive, now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStatsReader implements StatsReader
var _ analytics.StatsReader = (*GormStatsReader)(nil)
