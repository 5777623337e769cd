package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityReader loads the two-timestamp projection the retention
// aggregator runs on. Implementations keep the query narrow: one row per
// user, two columns.
type ActivityReader interface {
	// ReadUserActivity returns signup/last-active pairs for users who
	// signed up in the given range
	ReadUserActivity(ctx context.Context, from, to time.Time) ([]UserActivity, error)
}

// SnapshotRepository defines the interface for snapshot persistence
type SnapshotRepository interface {
	// Upsert writes a snapshot, replacing any existing row for the same
	// space and date
	Upsert(ctx context.Context, snapshot *SpaceSnapshot) error

	// FindBySpaceRange returns snapshots for a space over a date range,
	// oldest first
	FindBySpaceRange(ctx context.Context, spaceID uuid.UUID, from, to time.Time) ([]*SpaceSnapshot, error)
}

// StatsReader aggregates live counters for the dashboard
type StatsReader interface {
	// CountActiveMembers counts members active in the space since the time
	CountActiveMembers(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error)

	// CountCompletions counts chore completions in the space since the time
	CountCompletions(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error)

	// SumPointsAwarded sums positive ledger entries since the time
	SumPointsAwarded(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error)

	// CountOpenTasks counts tasks not yet done in the space
	CountOpenTasks(ctx context.Context, spaceID uuid.UUID) (int64, error)

	// CountOverdueChores counts active chores past due at the given time
	CountOverdueChores(ctx context.Context, spaceID uuid.UUID, now time.Time) (int64, error)
}
