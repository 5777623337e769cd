package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// SpaceSnapshot is one day of activity counters for a space, written by
// the nightly rollup so dashboards do not scan raw tables.
type SpaceSnapshot struct {
	shared.SpaceAggregateRoot
	Date             time.Time `gorm:"type:date;not null;index"`
	ActiveMembers    int       `gorm:"not null;default:0"`
	ChoresCompleted  int       `gorm:"not null;default:0"`
	PointsAwarded    int       `gorm:"not null;default:0"`
	TasksCompleted   int       `gorm:"not null;default:0"`
	MessagesSent     int       `gorm:"not null;default:0"`
	ExpensesRecorded int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SpaceSnapshot) TableName() string {
	return "space_snapshots"
}

// NewSpaceSnapshot creates a snapshot for a space and calendar day
func NewSpaceSnapshot(spaceID uuid.UUID, date time.Time) *SpaceSnapshot {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return &SpaceSnapshot{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Date:               day,
	}
}
