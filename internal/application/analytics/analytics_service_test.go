package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/analytics"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockActivityReader is a mock implementation of analytics.ActivityReader
type MockActivityReader struct {
	mock.Mock
}

func (m *MockActivityReader) ReadUserActivity(ctx context.Context, from, to time.Time) ([]analytics.UserActivity, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.UserActivity), args.Error(1)
}

// MockStatsReader is a mock implementation of analytics.StatsReader
type MockStatsReader struct {
	mock.Mock
}

func (m *MockStatsReader) CountActiveMembers(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsReader) CountCompletions(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsReader) SumPointsAwarded(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsReader) CountOpenTasks(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, spaceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsReader) CountOverdueChores(ctx context.Context, spaceID uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSnapshotRepository is a mock implementation of analytics.SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Upsert(ctx context.Context, snapshot *analytics.SpaceSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) FindBySpaceRange(ctx context.Context, spaceID uuid.UUID, from, to time.Time) ([]*analytics.SpaceSnapshot, error) {
	args := m.Called(ctx, spaceID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*analytics.SpaceSnapshot), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of billing.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *billing.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, s *billing.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByStripeSubscriptionID(ctx context.Context, stripeID string) (*billing.Subscription, error) {
	args := m.Called(ctx, stripeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*billing.Subscription, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

type analyticsMocks struct {
	activityReader   *MockActivityReader
	statsReader      *MockStatsReader
	snapshotRepo     *MockSnapshotRepository
	subscriptionRepo *MockSubscriptionRepository
}

func newAnalyticsService() (*AnalyticsService, *analyticsMocks) {
	m := &analyticsMocks{
		activityReader:   new(MockActivityReader),
		statsReader:      new(MockStatsReader),
		snapshotRepo:     new(MockSnapshotRepository),
		subscriptionRepo: new(MockSubscriptionRepository),
	}
	guard := appbilling.NewFeatureGuard(m.subscriptionRepo, nil, zap.NewNop())
	svc := NewAnalyticsService(m.activityReader, m.statsReader, m.snapshotRepo, guard, zap.NewNop())
	return svc, m
}

func TestAnalyticsService_GetRetention(t *testing.T) {
	svc, m := newAnalyticsService()
	ctx := context.Background()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	signup := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	active := signup.AddDate(0, 0, 8)
	users := []analytics.UserActivity{
		{SignedUpAt: signup, LastActiveAt: &active},
		{SignedUpAt: signup, LastActiveAt: &signup},
	}

	m.activityReader.On("ReadUserActivity", ctx, from, to).Return(users, nil)

	report, err := svc.GetRetention(ctx, RetentionInput{From: from, To: to, MaxWeeks: 4})

	require.NoError(t, err)
	assert.Equal(t, 4, report.MaxWeeks)
	require.Len(t, report.Cohorts, 1)
	assert.Equal(t, 2, report.Cohorts[0].Size)
	assert.Equal(t, 100.0, report.Cohorts[0].Retention[0])
	assert.Equal(t, 50.0, report.Cohorts[0].Retention[1])
}

func TestAnalyticsService_GetRetention_DefaultHorizon(t *testing.T) {
	svc, m := newAnalyticsService()
	ctx := context.Background()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	m.activityReader.On("ReadUserActivity", ctx, from, to).Return([]analytics.UserActivity{}, nil)

	report, err := svc.GetRetention(ctx, RetentionInput{From: from, To: to})

	require.NoError(t, err)
	assert.Equal(t, defaultRetentionWeeks, report.MaxWeeks)
	assert.Empty(t, report.Cohorts)
}

func TestAnalyticsService_GetRetention_InvalidRange(t *testing.T) {
	svc, _ := newAnalyticsService()
	now := time.Now()

	_, err := svc.GetRetention(context.Background(), RetentionInput{From: now, To: now.Add(-time.Hour)})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_RANGE", domainErr.Code)
}

func TestAnalyticsService_GetDashboard(t *testing.T) {
	svc, m := newAnalyticsService()
	ctx := context.Background()
	spaceID := uuid.New()

	m.statsReader.On("CountActiveMembers", mock.Anything, spaceID, mock.Anything).Return(int64(4), nil)
	m.statsReader.On("CountCompletions", mock.Anything, spaceID, mock.Anything).Return(int64(12), nil)
	m.statsReader.On("SumPointsAwarded", mock.Anything, spaceID, mock.Anything).Return(int64(160), nil)
	m.statsReader.On("CountOpenTasks", mock.Anything, spaceID).Return(int64(3), nil)
	m.statsReader.On("CountOverdueChores", mock.Anything, spaceID, mock.Anything).Return(int64(1), nil)

	dashboard, err := svc.GetDashboard(ctx, spaceID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), dashboard.ActiveMembers)
	assert.Equal(t, int64(12), dashboard.CompletionsWeek)
	assert.Equal(t, int64(160), dashboard.PointsWeek)
	assert.Equal(t, int64(3), dashboard.OpenTasks)
	assert.Equal(t, int64(1), dashboard.OverdueChores)
}

func TestAnalyticsService_GetDashboard_QueryFailure(t *testing.T) {
	svc, m := newAnalyticsService()
	spaceID := uuid.New()

	m.statsReader.On("CountActiveMembers", mock.Anything, spaceID, mock.Anything).Return(int64(0), errors.New("db down"))
	m.statsReader.On("CountCompletions", mock.Anything, spaceID, mock.Anything).Return(int64(0), nil)
	m.statsReader.On("SumPointsAwarded", mock.Anything, spaceID, mock.Anything).Return(int64(0), nil)
	m.statsReader.On("CountOpenTasks", mock.Anything, spaceID).Return(int64(0), nil)
	m.statsReader.On("CountOverdueChores", mock.Anything, spaceID, mock.Anything).Return(int64(0), nil)

	_, err := svc.GetDashboard(context.Background(), spaceID)

	require.Error(t, err)
}

func TestAnalyticsService_GetHistory_RequiresPaidPlan(t *testing.T) {
	svc, m := newAnalyticsService()
	ctx := context.Background()
	spaceID := uuid.New()

	sub, err := billing.NewFreeSubscription(spaceID)
	require.NoError(t, err)
	m.subscriptionRepo.On("FindBySpaceID", ctx, spaceID).Return(sub, nil)

	_, err = svc.GetHistory(ctx, spaceID, time.Now().AddDate(0, 0, -30), time.Now())

	assert.ErrorIs(t, err, shared.ErrPlanLimitReached)
	m.snapshotRepo.AssertNotCalled(t, "FindBySpaceRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsService_GetHistory(t *testing.T) {
	svc, m := newAnalyticsService()
	ctx := context.Background()
	spaceID := uuid.New()

	sub, err := billing.NewFreeSubscription(spaceID)
	require.NoError(t, err)
	require.NoError(t, sub.Upgrade(billing.PlanPremium, "cus_1", "sub_1", time.Now().AddDate(0, 1, 0)))
	m.subscriptionRepo.On("FindBySpaceID", ctx, spaceID).Return(sub, nil)

	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	snap := analytics.NewSpaceSnapshot(spaceID, day)
	snap.ChoresCompleted = 7
	m.snapshotRepo.On("FindBySpaceRange", ctx, spaceID, mock.Anything, mock.Anything).
		Return([]*analytics.SpaceSnapshot{snap}, nil)

	infos, err := svc.GetHistory(ctx, spaceID, day, day.AddDate(0, 0, 7))

	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 7, infos[0].ChoresCompleted)
}

// MockSnapshotSource is a mock implementation of SnapshotSource
type MockSnapshotSource struct {
	mock.Mock
}

func (m *MockSnapshotSource) ListActiveSpaceIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockSnapshotSource) CountActiveMembers(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSnapshotSource) CountCompletions(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSnapshotSource) SumPointsAwarded(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSnapshotSource) CountTasksCompleted(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSnapshotSource) CountMessagesSent(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSnapshotSource) CountExpenses(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func TestRollupService_RollupDay(t *testing.T) {
	source := new(MockSnapshotSource)
	snapshotRepo := new(MockSnapshotRepository)
	svc := NewRollupService(source, snapshotRepo, zap.NewNop())

	ctx := context.Background()
	day := time.Date(2026, 8, 24, 15, 30, 0, 0, time.UTC)
	from := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	spaceID := uuid.New()

	source.On("ListActiveSpaceIDs", ctx).Return([]uuid.UUID{spaceID}, nil)
	source.On("CountActiveMembers", ctx, spaceID, from, to).Return(int64(3), nil)
	source.On("CountCompletions", ctx, spaceID, from, to).Return(int64(9), nil)
	source.On("SumPointsAwarded", ctx, spaceID, from, to).Return(int64(95), nil)
	source.On("CountTasksCompleted", ctx, spaceID, from, to).Return(int64(2), nil)
	source.On("CountMessagesSent", ctx, spaceID, from, to).Return(int64(14), nil)
	source.On("CountExpenses", ctx, spaceID, from, to).Return(int64(4), nil)
	snapshotRepo.On("Upsert", ctx, mock.MatchedBy(func(s *analytics.SpaceSnapshot) bool {
		return s.SpaceID == spaceID && s.Date.Equal(from) &&
			s.ActiveMembers == 3 && s.ChoresCompleted == 9 && s.PointsAwarded == 95
	})).Return(nil)

	err := svc.RollupDay(ctx, day)

	require.NoError(t, err)
	snapshotRepo.AssertExpectations(t)
}

func TestRollupService_RollupDay_FailingSpaceSkipped(t *testing.T) {
	source := new(MockSnapshotSource)
	snapshotRepo := new(MockSnapshotRepository)
	svc := NewRollupService(source, snapshotRepo, zap.NewNop())

	ctx := context.Background()
	bad := uuid.New()
	good := uuid.New()

	source.On("ListActiveSpaceIDs", ctx).Return([]uuid.UUID{bad, good}, nil)
	source.On("CountActiveMembers", ctx, bad, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
	source.On("CountActiveMembers", ctx, good, mock.Anything, mock.Anything).Return(int64(1), nil)
	source.On("CountCompletions", ctx, good, mock.Anything, mock.Anything).Return(int64(0), nil)
	source.On("SumPointsAwarded", ctx, good, mock.Anything, mock.Anything).Return(int64(0), nil)
	source.On("CountTasksCompleted", ctx, good, mock.Anything, mock.Anything).Return(int64(0), nil)
	source.On("CountMessagesSent", ctx, good, mock.Anything, mock.Anything).Return(int64(0), nil)
	source.On("CountExpenses", ctx, good, mock.Anything, mock.Anything).Return(int64(0), nil)
	snapshotRepo.On("Upsert", ctx, mock.Anything).Return(nil)

	err := svc.RollupDay(ctx, time.Now())

	require.NoError(t, err)
	snapshotRepo.AssertNumberOfCalls(t, "Upsert", 1)
}
