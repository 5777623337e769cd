package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/notification"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEventHandler() (*NotificationEventHandler, *MockNotificationRepository, *MockMembershipRepository, *MockUserRepository) {
	notificationRepo := new(MockNotificationRepository)
	membershipRepo := new(MockMembershipRepository)
	userRepo := new(MockUserRepository)
	service := NewNotificationService(notificationRepo, zap.NewNop())
	handler := NewNotificationEventHandler(service, membershipRepo, userRepo, zap.NewNop())
	return handler, notificationRepo, membershipRepo, userRepo
}

func membershipFor(t *testing.T, spaceID, userID uuid.UUID) *identity.Membership {
	t.Helper()
	m, err := identity.NewMembership(spaceID, userID, identity.MemberRoleMember)
	require.NoError(t, err)
	return m
}

func TestNotificationEventHandler_EventTypes(t *testing.T) {
	handler, _, _, _ := newEventHandler()

	types := handler.EventTypes()

	assert.ElementsMatch(t, []string{"MemberJoined", "PointsAwarded", "PlanChanged"}, types)
}

func TestNotificationEventHandler_MemberJoined_NotifiesOthers(t *testing.T) {
	handler, notificationRepo, membershipRepo, userRepo := newEventHandler()
	ctx := context.Background()
	spaceID := uuid.New()
	newUserID := uuid.New()
	existingID := uuid.New()

	joiner, err := identity.NewUser("alex", "alex@example.com", "password123!")
	require.NoError(t, err)
	require.NoError(t, joiner.SetDisplayName("Alex"))

	newMembership := membershipFor(t, spaceID, newUserID)
	event := identity.NewMemberJoinedEvent(newMembership)

	userRepo.On("FindByID", ctx, newUserID).Return(joiner, nil)
	membershipRepo.On("FindBySpaceID", ctx, spaceID).Return([]*identity.Membership{
		membershipFor(t, spaceID, existingID),
		newMembership,
	}, nil)
	notificationRepo.On("Create", ctx, mock.MatchedBy(func(ns []*notification.Notification) bool {
		return len(ns) == 1 &&
			ns[0].RecipientID == existingID &&
			ns[0].Type == notification.TypeMemberJoined &&
			ns[0].Title == "Alex joined the household"
	})).Return(nil)

	require.NoError(t, handler.Handle(ctx, event))
	notificationRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestNotificationEventHandler_PointsAwarded_NotifiesEarner(t *testing.T) {
	handler, notificationRepo, _, _ := newEventHandler()
	ctx := context.Background()
	spaceID := uuid.New()
	userID := uuid.New()
	completionID := uuid.New()

	account, err := rewards.NewPointsAccount(spaceID, userID)
	require.NoError(t, err)
	event := rewards.NewPointsAwardedEvent(account, rewards.AwardResult{
		BasePoints:  10,
		StreakBonus: 5,
		Total:       15,
		NewStreak:   5,
	}, completionID)

	notificationRepo.On("Create", ctx, mock.MatchedBy(func(ns []*notification.Notification) bool {
		return len(ns) == 1 &&
			ns[0].RecipientID == userID &&
			ns[0].Title == "You earned 15 points" &&
			ns[0].ReferenceID != nil && *ns[0].ReferenceID == completionID
	})).Return(nil)

	require.NoError(t, handler.Handle(ctx, event))
	notificationRepo.AssertExpectations(t)
}

func TestNotificationEventHandler_PlanChanged_NotifiesEveryone(t *testing.T) {
	handler, notificationRepo, membershipRepo, _ := newEventHandler()
	ctx := context.Background()
	spaceID := uuid.New()

	sub, err := billing.NewFreeSubscription(spaceID)
	require.NoError(t, err)
	require.NoError(t, sub.Upgrade(billing.PlanPremium, "cus_123", "sub_123", time.Now().Add(30*24*time.Hour)))
	event := billing.NewPlanChangedEvent(sub, billing.PlanFree, billing.PlanPremium)

	membershipRepo.On("FindBySpaceID", ctx, spaceID).Return([]*identity.Membership{
		membershipFor(t, spaceID, uuid.New()),
		membershipFor(t, spaceID, uuid.New()),
	}, nil)
	notificationRepo.On("Create", ctx, mock.MatchedBy(func(ns []*notification.Notification) bool {
		return len(ns) == 1 && ns[0].Type == notification.TypePlanChanged
	})).Return(nil)

	require.NoError(t, handler.Handle(ctx, event))
	notificationRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestNotificationEventHandler_FailuresAreSwallowed(t *testing.T) {
	handler, notificationRepo, membershipRepo, _ := newEventHandler()
	ctx := context.Background()
	spaceID := uuid.New()

	sub, err := billing.NewFreeSubscription(spaceID)
	require.NoError(t, err)
	event := billing.NewPlanChangedEvent(sub, billing.PlanFree, billing.PlanFamily)

	membershipRepo.On("FindBySpaceID", ctx, spaceID).Return(nil, errors.New("db down"))

	require.NoError(t, handler.Handle(ctx, event))
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
