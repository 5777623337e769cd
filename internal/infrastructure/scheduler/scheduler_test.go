package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingExecutor records executed jobs and can be told to fail
type recordingExecutor struct {
	mu       sync.Mutex
	executed []*Job
	failures map[JobType]error
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{failures: make(map[JobType]error)}
}

func (e *recordingExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, job)
	if err, ok := e.failures[job.Type]; ok {
		return err
	}
	return nil
}

func (e *recordingExecutor) executedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.executed)
}

func (e *recordingExecutor) executedTypes() map[JobType]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	counts := make(map[JobType]int)
	for _, job := range e.executed {
		counts[job.Type]++
	}
	return counts
}

func testDay() time.Time {
	return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(nil, JobTypeAnalyticsRollup, testDay(), 3)

	assert.Equal(t, JobStatusPending, job.Status)
	assert.Nil(t, job.StartedAt)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	require.NotNil(t, job.CompletedAt)
}

func TestJob_FailAndRetry(t *testing.T) {
	job := NewJob(nil, JobTypeNotificationPrune, testDay(), 2)

	job.Start()
	job.Fail("database unavailable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "database unavailable", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	require.NotNil(t, job.NextRetryAt)
	assert.Empty(t, job.Error)

	// Exhaust retries
	job.Fail("still down")
	job.ScheduleRetry(time.Minute)
	job.Fail("still down")
	assert.False(t, job.ShouldRetry())
}

func TestScheduler_SubmitJob_NotRunning(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), newRecordingExecutor(), zap.NewNop())

	err := s.SubmitJob(NewJob(nil, JobTypeAnalyticsRollup, testDay(), 0))
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_SubmitJob_MessagePruneRequiresSpace(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), newRecordingExecutor(), zap.NewNop())
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	defer func() { _ = s.Stop(context.Background()) }()

	err := s.SubmitJob(NewJob(nil, JobTypeMessagePrune, testDay(), 0))
	assert.ErrorIs(t, err, ErrMissingSpaceID)
}

func TestScheduler_ExecutesSubmittedJobs(t *testing.T) {
	executor := newRecordingExecutor()
	s := NewScheduler(DefaultSchedulerConfig(), executor, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	require.NoError(t, s.SubmitJob(NewJob(nil, JobTypeAnalyticsRollup, testDay(), 0)))
	spaceID := uuid.New()
	require.NoError(t, s.SubmitJob(NewJob(&spaceID, JobTypeMessagePrune, testDay(), 0)))

	assert.Eventually(t, func() bool {
		return executor.executedCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	executor := newRecordingExecutor()
	executor.failures[JobTypeNotificationPrune] = errors.New("transient failure")

	config := DefaultSchedulerConfig()
	config.RetryAttempts = 2
	config.RetryDelay = 0 // retry immediately

	s := NewScheduler(config, executor, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	job := NewJob(nil, JobTypeNotificationPrune, testDay(), config.RetryAttempts)
	require.NoError(t, s.SubmitJob(job))

	// Initial attempt plus two retries
	assert.Eventually(t, func() bool {
		return executor.executedCount() == 3
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, 2, job.RetryCount)
}

func TestScheduler_ScheduleNightlyMaintenance(t *testing.T) {
	executor := newRecordingExecutor()
	s := NewScheduler(DefaultSchedulerConfig(), executor, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	spaceIDs := []uuid.UUID{uuid.New(), uuid.New()}
	require.NoError(t, s.ScheduleNightlyMaintenance(spaceIDs))

	// Three global jobs plus one message prune per space
	assert.Eventually(t, func() bool {
		return executor.executedCount() == 5
	}, 2*time.Second, 10*time.Millisecond)

	counts := executor.executedTypes()
	assert.Equal(t, 1, counts[JobTypeAnalyticsRollup])
	assert.Equal(t, 1, counts[JobTypeNotificationPrune])
	assert.Equal(t, 1, counts[JobTypeOverdueChoreScan])
	assert.Equal(t, 2, counts[JobTypeMessagePrune])

	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_StartStop_Idempotent(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), newRecordingExecutor(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))

	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}

func TestParseCronSchedule(t *testing.T) {
	tests := []struct {
		name       string
		expr       string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{name: "empty uses defaults", expr: "", wantHour: 3, wantMinute: 0},
		{name: "standard daily", expr: "30 4 * * *", wantHour: 4, wantMinute: 30},
		{name: "midnight", expr: "0 0 * * *", wantHour: 0, wantMinute: 0},
		{name: "wildcard minute", expr: "* 5 * * *", wantHour: 5, wantMinute: 0},
		{name: "single field falls back", expr: "15", wantHour: 3, wantMinute: 0},
		{name: "hour out of range", expr: "0 24 * * *", wantErr: true},
		{name: "minute out of range", expr: "60 1 * * *", wantErr: true},
		{name: "non numeric ignored", expr: "abc def * * *", wantHour: 3, wantMinute: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := ParseCronSchedule(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHour, hour)
			assert.Equal(t, tt.wantMinute, minute)
		})
	}
}
