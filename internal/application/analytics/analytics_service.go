package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/analytics"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultRetentionWeeks = 8

// AnalyticsService produces the retention report, the live dashboard,
// and historical snapshots
type AnalyticsService struct {
	activityReader analytics.ActivityReader
	statsReader    analytics.StatsReader
	snapshotRepo   analytics.SnapshotRepository
	guard          *appbilling.FeatureGuard
	logger         *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	activityReader analytics.ActivityReader,
	statsReader analytics.StatsReader,
	snapshotRepo analytics.SnapshotRepository,
	guard *appbilling.FeatureGuard,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		activityReader: activityReader,
		statsReader:    statsReader,
		snapshotRepo:   snapshotRepo,
		guard:          guard,
		logger:         logger,
	}
}

// GetRetention computes weekly-cohort retention for users who signed up
// in the given range. The aggregation runs in memory over one narrow
// query, so the range is capped by the caller's patience, not by the
// service.
func (s *AnalyticsService) GetRetention(ctx context.Context, input RetentionInput) (*RetentionReport, error) {
	if !input.To.After(input.From) {
		return nil, shared.NewDomainError("INVALID_RANGE", "End of range must be after start")
	}

	maxWeeks := input.MaxWeeks
	if maxWeeks <= 0 {
		maxWeeks = defaultRetentionWeeks
	}
	if maxWeeks > 52 {
		maxWeeks = 52
	}

	users, err := s.activityReader.ReadUserActivity(ctx, input.From, input.To)
	if err != nil {
		s.logger.Error("failed to read user activity", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load activity data")
	}

	cohorts := analytics.ComputeRetention(users, maxWeeks)

	s.logger.Info("retention report computed",
		zap.Time("from", input.From),
		zap.Time("to", input.To),
		zap.Int("users", len(users)),
		zap.Int("cohorts", len(cohorts)))

	return &RetentionReport{
		From:     input.From,
		To:       input.To,
		MaxWeeks: maxWeeks,
		Cohorts:  cohorts,
	}, nil
}

// GetDashboard returns the live counters for a space. The five counts
// run concurrently; one failing query fails the dashboard.
func (s *AnalyticsService) GetDashboard(ctx context.Context, spaceID uuid.UUID) (*Dashboard, error) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)

	var dashboard Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.statsReader.CountActiveMembers(gctx, spaceID, weekAgo)
		dashboard.ActiveMembers = n
		return err
	})
	g.Go(func() error {
		n, err := s.statsReader.CountCompletions(gctx, spaceID, weekAgo)
		dashboard.CompletionsWeek = n
		return err
	})
	g.Go(func() error {
		n, err := s.statsReader.SumPointsAwarded(gctx, spaceID, weekAgo)
		dashboard.PointsWeek = n
		return err
	})
	g.Go(func() error {
		n, err := s.statsReader.CountOpenTasks(gctx, spaceID)
		dashboard.OpenTasks = n
		return err
	})
	g.Go(func() error {
		n, err := s.statsReader.CountOverdueChores(gctx, spaceID, now)
		dashboard.OverdueChores = n
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to build dashboard",
			zap.String("space_id", spaceID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load dashboard")
	}

	return &dashboard, nil
}

// GetHistory returns daily snapshots over a date range. Trend history is
// a paid feature.
func (s *AnalyticsService) GetHistory(ctx context.Context, spaceID uuid.UUID, from, to time.Time) ([]SnapshotInfo, error) {
	if err := s.guard.RequireFeature(ctx, spaceID, billing.FeatureAdvancedAnalytics); err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "End of range must be after start")
	}

	snapshots, err := s.snapshotRepo.FindBySpaceRange(ctx, spaceID, from, to)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load history")
	}

	infos := make([]SnapshotInfo, 0, len(snapshots))
	for _, snap := range snapshots {
		infos = append(infos, toSnapshotInfo(snap))
	}
	return infos, nil
}
