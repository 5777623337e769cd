package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	appanalytics "github.com/homehub/backend/internal/application/analytics"
	"github.com/homehub/backend/internal/domain/budget"
	"github.com/homehub/backend/internal/domain/chore"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/messaging"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/homehub/backend/internal/domain/task"
	"gorm.io/gorm"
)

// GormSnapshotSource feeds the nightly rollup from the raw activity
// tables. Every query is bounded to one space and one day, so the rollup
// stays cheap even on large installs.
type GormSnapshotSource struct {
	db *gorm.DB
}

// NewGormSnapshotSource creates a new GormSnapshotSource
func NewGormSnapshotSource(db *gorm.DB) *GormSnapshotSource {
	return &GormSnapshotSource{db: db}
}

// ListActiveSpaceIDs returns the IDs of all active spaces
func (s *GormSnapshotSource) ListActiveSpaceIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).
		Model(&identity.Space{}).
		Where("status = ?", identity.SpaceStatusActive).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountActiveMembers counts members whose user was active in the range
func (s *GormSnapshotSource) CountActiveMembers(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&identity.Membership{}).
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.space_id = ? AND users.last_active_at >= ? AND users.last_active_at < ?", spaceID, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCompletions counts chore completions in the range
func (s *GormSnapshotSource) CountCompletions(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&chore.Completion{}).
		Where("space_id = ? AND completed_at >= ? AND completed_at < ?", spaceID, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumPointsAwarded sums positive point ledger entries in the range
func (s *GormSnapshotSource) SumPointsAwarded(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	var row struct {
		Total int64
	}
	if err := s.db.WithContext(ctx).
		Model(&rewards.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("space_id = ? AND amount > 0 AND created_at >= ? AND created_at < ?", spaceID, from, to).
		Scan(&row).Error; err != nil {
		return 0, err
	}
	return row.Total, nil
}

// CountTasksCompleted counts tasks completed in the range
func (s *GormSnapshotSource) CountTasksCompleted(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&task.Task{}).
		Where("space_id = ? AND completed_at >= ? AND completed_at < ?", spaceID, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountMessagesSent counts messages sent in the range
func (s *GormSnapshotSource) CountMessagesSent(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&messaging.Message{}).
		Where("space_id = ? AND created_at >= ? AND created_at < ?", spaceID, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountExpenses counts expenses recorded in the range
func (s *GormSnapshotSource) CountExpenses(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&budget.Expense{}).
		Where("space_id = ? AND created_at >= ? AND created_at < ?", spaceID, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormSnapshotSource implements SnapshotSource
var _ appanalytics.SnapshotSource = (*GormSnapshotSource)(nil)
