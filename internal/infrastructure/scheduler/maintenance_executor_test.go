package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/chore"
	"github.com/homehub/backend/internal/domain/notification"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRollupRunner struct {
	mock.Mock
}

func (m *MockRollupRunner) RollupDay(ctx context.Context, day time.Time) error {
	args := m.Called(ctx, day)
	return args.Error(0)
}

type MockMessagePruner struct {
	mock.Mock
}

func (m *MockMessagePruner) PruneHistory(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, spaceID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationPruner struct {
	mock.Mock
}

func (m *MockNotificationPruner) Prune(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockOverdueChoreSource struct {
	mock.Mock
}

func (m *MockOverdueChoreSource) FindDueBefore(ctx context.Context, before time.Time) ([]*chore.Chore, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*chore.Chore), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, spaceID, recipientID uuid.UUID, nType notification.NotificationType, title, body string, referenceID *uuid.UUID) error {
	args := m.Called(ctx, spaceID, recipientID, nType, title, body, referenceID)
	return args.Error(0)
}

func newTestExecutor() (*MaintenanceExecutor, *MockRollupRunner, *MockMessagePruner, *MockNotificationPruner, *MockOverdueChoreSource, *MockNotifier) {
	rollup := new(MockRollupRunner)
	messagePruner := new(MockMessagePruner)
	notifPruner := new(MockNotificationPruner)
	overdueSource := new(MockOverdueChoreSource)
	notifier := new(MockNotifier)
	executor := NewMaintenanceExecutor(rollup, messagePruner, notifPruner, overdueSource, notifier, zap.NewNop())
	return executor, rollup, messagePruner, notifPruner, overdueSource, notifier
}

func overdueChore(spaceID uuid.UUID, assignedTo *uuid.UUID, name string) *chore.Chore {
	c := &chore.Chore{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Name:               name,
		Status:             chore.ChoreStatusActive,
		AssignedTo:         assignedTo,
	}
	due := time.Now().Add(-2 * time.Hour)
	c.DueAt = &due
	return c
}

func TestMaintenanceExecutor_AnalyticsRollup(t *testing.T) {
	executor, rollup, _, _, _, _ := newTestExecutor()
	ctx := context.Background()

	day := testDay()
	rollup.On("RollupDay", ctx, day).Return(nil)

	job := NewJob(nil, JobTypeAnalyticsRollup, day, 0)
	require.NoError(t, executor.Execute(ctx, job))

	rollup.AssertExpectations(t)
}

func TestMaintenanceExecutor_AnalyticsRollup_Error(t *testing.T) {
	executor, rollup, _, _, _, _ := newTestExecutor()
	ctx := context.Background()

	rollup.On("RollupDay", ctx, mock.Anything).Return(errors.New("snapshot upsert failed"))

	job := NewJob(nil, JobTypeAnalyticsRollup, testDay(), 0)
	err := executor.Execute(ctx, job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analytics rollup")
}

func TestMaintenanceExecutor_MessagePrune(t *testing.T) {
	executor, _, messagePruner, _, _, _ := newTestExecutor()
	ctx := context.Background()

	spaceID := uuid.New()
	messagePruner.On("PruneHistory", ctx, spaceID).Return(int64(42), nil)

	job := NewJob(&spaceID, JobTypeMessagePrune, testDay(), 0)
	require.NoError(t, executor.Execute(ctx, job))

	messagePruner.AssertExpectations(t)
}

func TestMaintenanceExecutor_MessagePrune_MissingSpace(t *testing.T) {
	executor, _, _, _, _, _ := newTestExecutor()

	job := NewJob(nil, JobTypeMessagePrune, testDay(), 0)
	err := executor.Execute(context.Background(), job)
	assert.ErrorIs(t, err, ErrMissingSpaceID)
}

func TestMaintenanceExecutor_NotificationPrune(t *testing.T) {
	executor, _, _, notifPruner, _, _ := newTestExecutor()
	ctx := context.Background()

	notifPruner.On("Prune", ctx, mock.AnythingOfType("time.Time")).Return(int64(7), nil)

	job := NewJob(nil, JobTypeNotificationPrune, testDay(), 0)
	require.NoError(t, executor.Execute(ctx, job))

	notifPruner.AssertExpectations(t)
}

func TestMaintenanceExecutor_OverdueChoreScan(t *testing.T) {
	executor, _, _, _, overdueSource, notifier := newTestExecutor()
	ctx := context.Background()

	spaceID := uuid.New()
	assignee := uuid.New()
	assigned := overdueChore(spaceID, &assignee, "Take out the trash")
	unassigned := overdueChore(spaceID, nil, "Water the plants")

	overdueSource.On("FindDueBefore", ctx, mock.AnythingOfType("time.Time")).
		Return([]*chore.Chore{assigned, unassigned}, nil)
	notifier.On("Notify", ctx, spaceID, assignee, notification.TypeChoreOverdue,
		"Take out the trash is overdue", "", &assigned.ID).Return(nil)

	job := NewJob(nil, JobTypeOverdueChoreScan, testDay(), 0)
	require.NoError(t, executor.Execute(ctx, job))

	// Only the assigned chore produces a notification
	notifier.AssertNumberOfCalls(t, "Notify", 1)
	overdueSource.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestMaintenanceExecutor_OverdueChoreScan_NotifyFailureContinues(t *testing.T) {
	executor, _, _, _, overdueSource, notifier := newTestExecutor()
	ctx := context.Background()

	spaceID := uuid.New()
	firstAssignee := uuid.New()
	secondAssignee := uuid.New()
	first := overdueChore(spaceID, &firstAssignee, "Dishes")
	second := overdueChore(spaceID, &secondAssignee, "Laundry")

	overdueSource.On("FindDueBefore", ctx, mock.AnythingOfType("time.Time")).
		Return([]*chore.Chore{first, second}, nil)
	notifier.On("Notify", ctx, spaceID, firstAssignee, notification.TypeChoreOverdue,
		mock.Anything, "", mock.Anything).Return(errors.New("delivery failed"))
	notifier.On("Notify", ctx, spaceID, secondAssignee, notification.TypeChoreOverdue,
		mock.Anything, "", mock.Anything).Return(nil)

	job := NewJob(nil, JobTypeOverdueChoreScan, testDay(), 0)
	// A single failed delivery does not fail the scan
	require.NoError(t, executor.Execute(ctx, job))

	notifier.AssertNumberOfCalls(t, "Notify", 2)
}

func TestMaintenanceExecutor_UnknownJobType(t *testing.T) {
	executor, _, _, _, _, _ := newTestExecutor()

	job := NewJob(nil, JobType("REINDEX"), testDay(), 0)
	err := executor.Execute(context.Background(), job)
	assert.ErrorIs(t, err, ErrInvalidJobType)
}
