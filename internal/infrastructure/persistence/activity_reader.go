package persistence

import (
	"context"
	"time"

	"github.com/homehub/backend/internal/domain/analytics"
	"github.com/homehub/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormActivityReader implements ActivityReader over the users table
type GormActivityReader struct {
	db *gorm.DB
}

// NewGormActivityReader creates a new GormActivityReader
func NewGormActivityReader(db *gorm.DB) *GormActivityReader {
	return &GormActivityReader{db: db}
}

// ReadUserActivity returns signup/last-active pairs for users who signed
// up in the given range. Only the two timestamps are selected; the
// retention aggregator never needs the rest of the user row.
func (r *GormActivityReader) ReadUserActivity(ctx context.Context, from, to time.Time) ([]analytics.UserActivity, error) {
	var rows []struct {
		CreatedAt    time.Time
		LastActiveAt *time.Time
	}
	if err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Select("created_at", "last_active_at").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	activity := make([]analytics.UserActivity, 0, len(rows))
	for _, row := range rows {
		activity = append(activity, analytics.UserActivity{
			SignedUpAt:   row.CreatedAt,
			LastActiveAt: row.LastActiveAt,
		})
	}
	return activity, nil
}

// Ensure GormActivityReader implements ActivityReader
var _ analytics.ActivityReader = (*GormActivityReader)(nil)
