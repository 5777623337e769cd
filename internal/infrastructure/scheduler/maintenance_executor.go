package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/chore"
	"github.com/homehub/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// RollupRunner rolls up one day of activity into per-space snapshots
type RollupRunner interface {
	RollupDay(ctx context.Context, day time.Time) error
}

// MessagePruner removes a space's chat history past its retention window
type MessagePruner interface {
	PruneHistory(ctx context.Context, spaceID uuid.UUID) (int64, error)
}

// NotificationPruner removes stale notifications across all spaces
type NotificationPruner interface {
	Prune(ctx context.Context, now time.Time) (int64, error)
}

// OverdueChoreSource lists active chores past their due time
type OverdueChoreSource interface {
	FindDueBefore(ctx context.Context, before time.Time) ([]*chore.Chore, error)
}

// Notifier delivers a notification to a space member
type Notifier interface {
	Notify(ctx context.Context, spaceID, recipientID uuid.UUID, nType notification.NotificationType, title, body string, referenceID *uuid.UUID) error
}

// MaintenanceExecutor executes nightly maintenance jobs against the
// application services.
type MaintenanceExecutor struct {
	rollup        RollupRunner
	messagePruner MessagePruner
	notifPruner   NotificationPruner
	overdueSource OverdueChoreSource
	notifier      Notifier
	logger        *zap.Logger
}

// NewMaintenanceExecutor creates a new maintenance executor
func NewMaintenanceExecutor(
	rollup RollupRunner,
	messagePruner MessagePruner,
	notifPruner NotificationPruner,
	overdueSource OverdueChoreSource,
	notifier Notifier,
	logger *zap.Logger,
) *MaintenanceExecutor {
	return &MaintenanceExecutor{
		rollup:        rollup,
		messagePruner: messagePruner,
		notifPruner:   notifPruner,
		overdueSource: overdueSource,
		notifier:      notifier,
		logger:        logger,
	}
}

// Execute runs a single maintenance job
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeAnalyticsRollup:
		return e.executeRollup(ctx, job)
	case JobTypeMessagePrune:
		return e.executeMessagePrune(ctx, job)
	case JobTypeNotificationPrune:
		return e.executeNotificationPrune(ctx, job)
	case JobTypeOverdueChoreScan:
		return e.executeOverdueChoreScan(ctx, job)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}
}

func (e *MaintenanceExecutor) executeRollup(ctx context.Context, job *Job) error {
	if err := e.rollup.RollupDay(ctx, job.Day); err != nil {
		return fmt.Errorf("analytics rollup for %s: %w", job.Day.Format("2006-01-02"), err)
	}
	e.logger.Info("Analytics rollup completed",
		zap.String("day", job.Day.Format("2006-01-02")),
	)
	return nil
}

func (e *MaintenanceExecutor) executeMessagePrune(ctx context.Context, job *Job) error {
	if job.SpaceID == nil {
		return ErrMissingSpaceID
	}
	pruned, err := e.messagePruner.PruneHistory(ctx, *job.SpaceID)
	if err != nil {
		return fmt.Errorf("message prune for space %s: %w", job.SpaceID, err)
	}
	if pruned > 0 {
		e.logger.Info("Pruned message history",
			zap.String("space_id", job.SpaceID.String()),
			zap.Int64("pruned", pruned),
		)
	}
	return nil
}

func (e *MaintenanceExecutor) executeNotificationPrune(ctx context.Context, job *Job) error {
	pruned, err := e.notifPruner.Prune(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("notification prune: %w", err)
	}
	e.logger.Info("Pruned notifications", zap.Int64("pruned", pruned))
	return nil
}

// executeOverdueChoreScan notifies the assigned member of each chore past
// its due time. Unassigned chores are skipped since there is no single
// recipient.
func (e *MaintenanceExecutor) executeOverdueChoreScan(ctx context.Context, job *Job) error {
	overdue, err := e.overdueSource.FindDueBefore(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("overdue chore scan: %w", err)
	}

	var notified int
	for _, c := range overdue {
		if c.AssignedTo == nil {
			continue
		}
		choreID := c.ID
		title := fmt.Sprintf("%s is overdue", c.Name)
		if err := e.notifier.Notify(ctx, c.SpaceID, *c.AssignedTo, notification.TypeChoreOverdue, title, "", &choreID); err != nil {
			e.logger.Warn("Failed to send overdue chore notification",
				zap.String("chore_id", c.ID.String()),
				zap.String("space_id", c.SpaceID.String()),
				zap.Error(err),
			)
			continue
		}
		notified++
	}

	e.logger.Info("Overdue chore scan completed",
		zap.Int("overdue", len(overdue)),
		zap.Int("notified", notified),
	)
	return nil
}

// Ensure MaintenanceExecutor implements JobExecutor
var _ JobExecutor = (*MaintenanceExecutor)(nil)
