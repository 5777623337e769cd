package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/analytics"
	"go.uber.org/zap"
)

// SnapshotSource provides the per-day counters the rollup aggregates.
// All ranges are half-open: from inclusive, to exclusive.
type SnapshotSource interface {
	// ListActiveSpaceIDs returns the IDs of all active spaces
	ListActiveSpaceIDs(ctx context.Context) ([]uuid.UUID, error)

	// CountActiveMembers counts members active in the range
	CountActiveMembers(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error)

	// CountCompletions counts chore completions in the range
	CountCompletions(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error)

	// SumPointsAwarded sums positive point ledger entries in the range
	SumPointsAwarded(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error)

	// CountTasksCompleted counts tasks completed in the range
	CountTasksCompleted(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error)

	// CountMessagesSent counts messages sent in the range
	CountMessagesSent(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error)

	// CountExpenses counts expenses recorded in the range
	CountExpenses(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error)
}

// RollupService writes the nightly per-space snapshots. It runs from the
// scheduler; a failing space is logged and skipped so one bad space never
// blocks the rest of the run.
type RollupService struct {
	source       SnapshotSource
	snapshotRepo analytics.SnapshotRepository
	logger       *zap.Logger
}

// NewRollupService creates a new rollup service
func NewRollupService(source SnapshotSource, snapshotRepo analytics.SnapshotRepository, logger *zap.Logger) *RollupService {
	return &RollupService{
		source:       source,
		snapshotRepo: snapshotRepo,
		logger:       logger,
	}
}

// RollupDay aggregates one calendar day (UTC) for every active space.
// Re-running a day overwrites the previous snapshots, so the job is safe
// to retry.
func (s *RollupService) RollupDay(ctx context.Context, day time.Time) error {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	spaceIDs, err := s.source.ListActiveSpaceIDs(ctx)
	if err != nil {
		return err
	}

	var failures int
	for _, spaceID := range spaceIDs {
		if err := s.rollupSpace(ctx, spaceID, from, to); err != nil {
			failures++
			s.logger.Error("snapshot rollup failed for space",
				zap.String("space_id", spaceID.String()),
				zap.Time("day", from),
				zap.Error(err))
		}
	}

	s.logger.Info("snapshot rollup finished",
		zap.Time("day", from),
		zap.Int("spaces", len(spaceIDs)),
		zap.Int("failures", failures))

	return nil
}

func (s *RollupService) rollupSpace(ctx context.Context, spaceID uuid.UUID, from, to time.Time) error {
	snapshot := analytics.NewSpaceSnapshot(spaceID, from)

	members, err := s.source.CountActiveMembers(ctx, spaceID, from, to)
	if err != nil {
		return err
	}
	completions, err := s.source.CountCompletions(ctx, spaceID, from, to)
	if err != nil {
		return err
	}
	points, err := s.source.SumPointsAwarded(ctx, spaceID, from, to)
	if err != nil {
		return err
	}
	tasks, err := s.source.CountTasksCompleted(ctx, spaceID, from, to)
	if err != nil {
		return err
	}
	messages, err := s.source.CountMessagesSent(ctx, spaceID, from, to)
	if err != nil {
		return err
	}
	expenses, err := s.source.CountExpenses(ctx, spaceID, from, to)
	if err != nil {
		return err
	}

	snapshot.ActiveMembers = int(members)
	snapshot.ChoresCompleted = int(completions)
	snapshot.PointsAwarded = int(points)
	snapshot.TasksCompleted = int(tasks)
	snapshot.MessagesSent = int(messages)
	snapshot.ExpensesRecorded = int(expenses)

	return s.snapshotRepo.Upsert(ctx, snapshot)
}
