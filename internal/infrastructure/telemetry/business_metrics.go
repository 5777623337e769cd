// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the household platform.
// It tracks chore completions, point activity, assistant usage, and chat
// volume.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	choreCompletionTotal  *Counter
	pointsAwardedTotal    *Counter
	assistantRequestTotal *Counter
	messageTotal          *Counter

	// Gauge metrics (point-in-time values)
	openTaskCount     *Gauge
	overdueChoreCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	engagementProvider EngagementMetricsProvider
}

// EngagementMetricsProvider provides per-space workload data for periodic
// metrics collection. This interface allows the telemetry layer to query
// chore and task state without depending on those domains directly.
type EngagementMetricsProvider interface {
	// GetOpenTaskCount returns the number of tasks not yet done in a space
	GetOpenTaskCount(ctx context.Context, spaceID uuid.UUID) (int64, error)

	// GetOverdueChoreCount returns the number of active chores past due in a space
	GetOverdueChoreCount(ctx context.Context, spaceID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter              metric.Meter
	Logger             *zap.Logger
	CollectInterval    time.Duration // Default: 5 minutes
	EngagementProvider EngagementMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:              cfg.Meter,
		logger:             logger,
		stopChan:           make(chan struct{}),
		engagementProvider: cfg.EngagementProvider,
	}

	// Initialize counter metrics
	var err error

	// Chore metrics
	bm.choreCompletionTotal, err = NewCounter(
		cfg.Meter,
		"homehub_chore_completion_total",
		"Total number of chore completions recorded",
		"{completions}",
	)
	if err != nil {
		return nil, err
	}

	bm.pointsAwardedTotal, err = NewCounter(
		cfg.Meter,
		"homehub_points_awarded_total",
		"Total points credited through the reward pipeline",
		"{points}",
	)
	if err != nil {
		return nil, err
	}

	// Assistant metrics
	bm.assistantRequestTotal, err = NewCounter(
		cfg.Meter,
		"homehub_assistant_request_total",
		"Total number of assistant chat requests",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	// Chat metrics
	bm.messageTotal, err = NewCounter(
		cfg.Meter,
		"homehub_message_total",
		"Total number of chat messages sent",
		"{messages}",
	)
	if err != nil {
		return nil, err
	}

	// Workload gauge metrics
	bm.openTaskCount, err = NewGauge(
		cfg.Meter,
		"homehub_open_task_count",
		"Number of tasks not yet done",
		"{tasks}",
	)
	if err != nil {
		return nil, err
	}

	bm.overdueChoreCount, err = NewGauge(
		cfg.Meter,
		"homehub_overdue_chore_count",
		"Number of active chores past their due time",
		"{chores}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Chore Metrics
// =============================================================================

// RecordChoreCompletion records one chore completion.
// This should be called from the application layer when a completion is saved.
func (bm *BusinessMetrics) RecordChoreCompletion(ctx context.Context, spaceID uuid.UUID, late bool) {
	bm.choreCompletionTotal.Inc(ctx,
		AttrSpaceID.String(spaceID.String()),
		AttrCompletionLate.Bool(late),
	)
}

// RecordPointsAwarded records points credited to a member. Only positive
// ledger entries are counted here; redemptions do not reduce the counter.
func (bm *BusinessMetrics) RecordPointsAwarded(ctx context.Context, spaceID uuid.UUID, txType string, points int64) {
	if points <= 0 {
		return
	}
	bm.pointsAwardedTotal.Add(ctx, points,
		AttrSpaceID.String(spaceID.String()),
		AttrTransactionType.String(txType),
	)
}

// =============================================================================
// Assistant Metrics
// =============================================================================

// AssistantStatus represents the outcome of an assistant request for
// metrics labeling.
type AssistantStatus string

const (
	AssistantStatusSuccess      AssistantStatus = "success"
	AssistantStatusFailed       AssistantStatus = "failed"
	AssistantStatusQuotaDenied  AssistantStatus = "quota_denied"
	AssistantStatusPlanDisabled AssistantStatus = "plan_disabled"
)

// RecordAssistantRequest records an assistant chat request and its outcome.
func (bm *BusinessMetrics) RecordAssistantRequest(ctx context.Context, spaceID uuid.UUID, status AssistantStatus) {
	bm.assistantRequestTotal.Inc(ctx,
		AttrSpaceID.String(spaceID.String()),
		AttrAssistantStatus.String(string(status)),
	)
}

// =============================================================================
// Chat Metrics
// =============================================================================

// RecordMessageSent records a chat message posted to a space.
func (bm *BusinessMetrics) RecordMessageSent(ctx context.Context, spaceID uuid.UUID, kind string) {
	bm.messageTotal.Inc(ctx,
		AttrSpaceID.String(spaceID.String()),
		AttrMessageKind.String(kind),
	)
}

// =============================================================================
// Workload Metrics
// =============================================================================

// RecordOpenTaskCount records the current number of open tasks for a space.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenTaskCount(ctx context.Context, spaceID uuid.UUID, count int64) {
	bm.openTaskCount.Record(ctx, count,
		AttrSpaceID.String(spaceID.String()),
	)
}

// RecordOverdueChoreCount records the number of overdue chores for a space.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOverdueChoreCount(ctx context.Context, spaceID uuid.UUID, count int64) {
	bm.overdueChoreCount.Record(ctx, count,
		AttrSpaceID.String(spaceID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// SpaceProvider provides space IDs for periodic metrics collection.
type SpaceProvider interface {
	GetActiveSpaceIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects workload metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, spaceProvider SpaceProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, spaceProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, spaceProvider SpaceProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectWorkloadMetrics(ctx, spaceProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectWorkloadMetrics(ctx, spaceProvider)
		}
	}
}

// collectWorkloadMetrics collects workload gauge metrics for all spaces.
func (bm *BusinessMetrics) collectWorkloadMetrics(ctx context.Context, spaceProvider SpaceProvider) {
	if bm.engagementProvider == nil {
		bm.logger.Debug("No engagement provider configured, skipping workload metrics collection")
		return
	}

	spaceIDs, err := spaceProvider.GetActiveSpaceIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get space IDs for metrics collection", zap.Error(err))
		return
	}

	for _, spaceID := range spaceIDs {
		bm.collectSpaceWorkloadMetrics(ctx, spaceID)
	}
}

// collectSpaceWorkloadMetrics collects workload metrics for a single space.
func (bm *BusinessMetrics) collectSpaceWorkloadMetrics(ctx context.Context, spaceID uuid.UUID) {
	openTasks, err := bm.engagementProvider.GetOpenTaskCount(ctx, spaceID)
	if err != nil {
		bm.logger.Warn("Failed to get open task count for space",
			zap.String("space_id", spaceID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOpenTaskCount(ctx, spaceID, openTasks)
	}

	overdueChores, err := bm.engagementProvider.GetOverdueChoreCount(ctx, spaceID)
	if err != nil {
		bm.logger.Warn("Failed to get overdue chore count for space",
			zap.String("space_id", spaceID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOverdueChoreCount(ctx, spaceID, overdueChores)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Attribute Key Constants
// =============================================================================

// Business metrics attribute keys not already defined in metrics.go
var (
	AttrCompletionLate = attribute.Key("late")
)
