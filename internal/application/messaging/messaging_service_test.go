package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/messaging"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockMessageRepository is a mock implementation of messaging.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *messaging.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) Update(ctx context.Context, msg *messaging.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.Message), args.Error(1)
}

func (m *MockMessageRepository) FindBySpace(ctx context.Context, spaceID uuid.UUID, before time.Time, limit int) ([]*messaging.Message, error) {
	args := m.Called(ctx, spaceID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messaging.Message), args.Error(1)
}

func (m *MockMessageRepository) CountBySpaceSince(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) DeleteOlderThan(ctx context.Context, spaceID uuid.UUID, before time.Time) (int64, error) {
	args := m.Called(ctx, spaceID, before)
	return args.Get(0).(int64), args.Error(1)
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

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newMessagingService() (*MessagingService, *MockMessageRepository, *MockSubscriptionRepository, *MockEventPublisher) {
	messageRepo := new(MockMessageRepository)
	subRepo := new(MockSubscriptionRepository)
	publisher := new(MockEventPublisher)
	guard := appbilling.NewFeatureGuard(subRepo, nil, zap.NewNop())
	svc := NewMessagingService(messageRepo, guard, publisher, zap.NewNop())
	return svc, messageRepo, subRepo, publisher
}

func expectFreePlan(subRepo *MockSubscriptionRepository, spaceID uuid.UUID) {
	subRepo.On("FindBySpaceID", mock.Anything, spaceID).Return(nil, errors.New("not found"))
}

func premiumSubscription(t *testing.T, spaceID uuid.UUID) *billing.Subscription {
	t.Helper()
	sub, err := billing.NewFreeSubscription(spaceID)
	require.NoError(t, err)
	require.NoError(t, sub.Upgrade(billing.PlanPremium, "cus_123", "sub_123", time.Now().Add(30*24*time.Hour)))
	return sub
}

func messageAt(t *testing.T, spaceID uuid.UUID, age time.Duration) *messaging.Message {
	t.Helper()
	m, err := messaging.NewMessage(spaceID, uuid.New(), "hello")
	require.NoError(t, err)
	m.CreatedAt = time.Now().Add(-age)
	m.ClearDomainEvents()
	return m
}

func TestMessagingService_SendMessage(t *testing.T) {
	svc, messageRepo, _, publisher := newMessagingService()
	ctx := context.Background()
	spaceID := uuid.New()
	senderID := uuid.New()

	messageRepo.On("Create", ctx, mock.MatchedBy(func(m *messaging.Message) bool {
		return m.Body == "dinner at 7" && m.Kind == messaging.MessageKindText
	})).Return(nil)
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == messaging.EventTypeMessageSent
	})).Return(nil)

	info, err := svc.SendMessage(ctx, SendMessageInput{
		SpaceID:  spaceID,
		SenderID: senderID,
		Body:     "dinner at 7",
	})

	require.NoError(t, err)
	assert.Equal(t, senderID, info.SenderID)
	assert.False(t, info.Deleted)
	publisher.AssertExpectations(t)
}

func TestMessagingService_SendMessage_PublishFailureDoesNotFailSend(t *testing.T) {
	svc, messageRepo, _, publisher := newMessagingService()
	ctx := context.Background()

	messageRepo.On("Create", ctx, mock.Anything).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("bus down"))

	_, err := svc.SendMessage(ctx, SendMessageInput{
		SpaceID:  uuid.New(),
		SenderID: uuid.New(),
		Body:     "still goes through",
	})

	require.NoError(t, err)
}

func TestMessagingService_PostSystemMessage(t *testing.T) {
	svc, messageRepo, _, publisher := newMessagingService()
	ctx := context.Background()
	spaceID := uuid.New()

	messageRepo.On("Create", ctx, mock.MatchedBy(func(m *messaging.Message) bool {
		return m.Kind == messaging.MessageKindSystem && m.SenderID == uuid.Nil
	})).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	err := svc.PostSystemMessage(ctx, spaceID, "Alex joined the space")

	require.NoError(t, err)
	messageRepo.AssertExpectations(t)
}

func TestMessagingService_ListMessages_HidesBeyondRetention(t *testing.T) {
	svc, messageRepo, subRepo, _ := newMessagingService()
	ctx := context.Background()
	spaceID := uuid.New()

	recent := messageAt(t, spaceID, 24*time.Hour)
	stale := messageAt(t, spaceID, 45*24*time.Hour) // Past the free plan's 30 days

	expectFreePlan(subRepo, spaceID)
	messageRepo.On("FindBySpace", ctx, spaceID, mock.Anything, defaultPageSize).
		Return([]*messaging.Message{recent, stale}, nil)

	result, err := svc.ListMessages(ctx, ListMessagesInput{SpaceID: spaceID})

	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, recent.ID, result.Messages[0].ID)
}

func TestMessagingService_ListMessages_UnlimitedHistoryOnPremium(t *testing.T) {
	svc, messageRepo, subRepo, _ := newMessagingService()
	ctx := context.Background()
	spaceID := uuid.New()

	old := messageAt(t, spaceID, 400*24*time.Hour)

	subRepo.On("FindBySpaceID", mock.Anything, spaceID).Return(premiumSubscription(t, spaceID), nil)
	messageRepo.On("FindBySpace", ctx, spaceID, mock.Anything, defaultPageSize).
		Return([]*messaging.Message{old}, nil)

	result, err := svc.ListMessages(ctx, ListMessagesInput{SpaceID: spaceID})

	require.NoError(t, err)
	assert.Len(t, result.Messages, 1)
}

func TestMessagingService_ListMessages_CursorOnFullPage(t *testing.T) {
	svc, messageRepo, subRepo, _ := newMessagingService()
	ctx := context.Background()
	spaceID := uuid.New()

	page := make([]*messaging.Message, 0, 2)
	page = append(page, messageAt(t, spaceID, time.Hour), messageAt(t, spaceID, 2*time.Hour))

	subRepo.On("FindBySpaceID", mock.Anything, spaceID).Return(premiumSubscription(t, spaceID), nil)
	messageRepo.On("FindBySpace", ctx, spaceID, mock.Anything, 2).Return(page, nil)

	result, err := svc.ListMessages(ctx, ListMessagesInput{SpaceID: spaceID, Limit: 2})

	require.NoError(t, err)
	require.NotNil(t, result.NextCursor)
	assert.Equal(t, page[1].CreatedAt, *result.NextCursor)
}

func TestMessagingService_EditMessage(t *testing.T) {
	svc, messageRepo, _, _ := newMessagingService()
	ctx := context.Background()
	senderID := uuid.New()
	m, err := messaging.NewMessage(uuid.New(), senderID, "dinner at 7")
	require.NoError(t, err)

	messageRepo.On("FindByID", ctx, m.ID).Return(m, nil)
	messageRepo.On("Update", ctx, m).Return(nil)

	info, err := svc.EditMessage(ctx, EditMessageInput{
		MessageID: m.ID,
		EditorID:  senderID,
		Body:      "dinner at 8, sorry",
	})

	require.NoError(t, err)
	assert.Equal(t, "dinner at 8, sorry", info.Body)
	assert.NotNil(t, info.EditedAt)
}

func TestMessagingService_EditMessage_NotTheSender(t *testing.T) {
	svc, messageRepo, _, _ := newMessagingService()
	ctx := context.Background()
	m, err := messaging.NewMessage(uuid.New(), uuid.New(), "dinner at 7")
	require.NoError(t, err)

	messageRepo.On("FindByID", ctx, m.ID).Return(m, nil)

	_, err = svc.EditMessage(ctx, EditMessageInput{
		MessageID: m.ID,
		EditorID:  uuid.New(),
		Body:      "hijacked",
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	messageRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMessagingService_DeleteMessage_ManagerForce(t *testing.T) {
	svc, messageRepo, _, _ := newMessagingService()
	ctx := context.Background()
	m, err := messaging.NewMessage(uuid.New(), uuid.New(), "rude message")
	require.NoError(t, err)

	messageRepo.On("FindByID", ctx, m.ID).Return(m, nil)
	messageRepo.On("Update", ctx, m).Return(nil)

	require.NoError(t, svc.DeleteMessage(ctx, m.ID, uuid.New(), true))
	assert.True(t, m.IsDeleted())
	assert.Empty(t, m.Body)
}

func TestMessagingService_PruneHistory_FreePlan(t *testing.T) {
	svc, messageRepo, subRepo, _ := newMessagingService()
	ctx := context.Background()
	spaceID := uuid.New()

	expectFreePlan(subRepo, spaceID)
	messageRepo.On("DeleteOlderThan", ctx, spaceID, mock.MatchedBy(func(before time.Time) bool {
		expected := time.Now().AddDate(0, 0, -30)
		return before.Sub(expected) < time.Minute && expected.Sub(before) < time.Minute
	})).Return(int64(12), nil)

	removed, err := svc.PruneHistory(ctx, spaceID)

	require.NoError(t, err)
	assert.Equal(t, int64(12), removed)
}

func TestMessagingService_PruneHistory_UnlimitedPlanIsNoop(t *testing.T) {
	svc, messageRepo, subRepo, _ := newMessagingService()
	ctx := context.Background()
	spaceID := uuid.New()

	subRepo.On("FindBySpaceID", mock.Anything, spaceID).Return(premiumSubscription(t, spaceID), nil)

	removed, err := svc.PruneHistory(ctx, spaceID)

	require.NoError(t, err)
	assert.Zero(t, removed)
	messageRepo.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything, mock.Anything)
}
