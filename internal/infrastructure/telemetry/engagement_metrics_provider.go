// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEngagementMetricsProvider implements EngagementMetricsProvider using
// GORM. It queries the tasks and chores tables directly for aggregated
// metrics.
type GormEngagementMetricsProvider struct {
	db *gorm.DB
}

// NewGormEngagementMetricsProvider creates a new GormEngagementMetricsProvider.
func NewGormEngagementMetricsProvider(db *gorm.DB) *GormEngagementMetricsProvider {
	return &GormEngagementMetricsProvider{db: db}
}

// GetOpenTaskCount returns the number of tasks not yet done in a space.
func (p *GormEngagementMetricsProvider) GetOpenTaskCount(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("tasks").
		Where("space_id = ? AND status IN ?", spaceID, []string{"todo", "in_progress"}).
		Count(&count).Error

	return count, err
}

// GetOverdueChoreCount returns the number of active chores past due in a space.
func (p *GormEngagementMetricsProvider) GetOverdueChoreCount(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("chores").
		Where("space_id = ? AND status = ?", spaceID, "active").
		Where("due_at IS NOT NULL AND due_at < CURRENT_TIMESTAMP").
		Count(&count).Error

	return count, err
}

// GormSpaceProvider implements SpaceProvider using GORM.
type GormSpaceProvider struct {
	db *gorm.DB
}

// NewGormSpaceProvider creates a new GormSpaceProvider.
func NewGormSpaceProvider(db *gorm.DB) *GormSpaceProvider {
	return &GormSpaceProvider{db: db}
}

// GetActiveSpaceIDs returns all active space IDs.
func (p *GormSpaceProvider) GetActiveSpaceIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("spaces").
		Select("id").
		Where("status = ?", "active").
		Find(&ids).Error

	return ids, err
}
