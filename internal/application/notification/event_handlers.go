package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/notification"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationEventHandler turns domain events into in-app notification
// rows. Notifications are best effort: every failure is logged and
// swallowed so the originating operation is never retried for a missing
// notification.
type NotificationEventHandler struct {
	service        *NotificationService
	membershipRepo identity.MembershipRepository
	userRepo       identity.UserRepository
	logger         *zap.Logger
}

// NewNotificationEventHandler creates a new notification event handler
func NewNotificationEventHandler(
	service *NotificationService,
	membershipRepo identity.MembershipRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		service:        service,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *NotificationEventHandler) EventTypes() []string {
	return []string{
		identity.EventTypeMemberJoined,
		rewards.EventTypePointsAwarded,
		billing.EventTypePlanChanged,
	}
}

// Handle processes one event. Always returns nil.
func (h *NotificationEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *identity.MemberJoinedEvent:
		h.handleMemberJoined(ctx, e)
	case *rewards.PointsAwardedEvent:
		h.handlePointsAwarded(ctx, e)
	case *billing.PlanChangedEvent:
		h.handlePlanChanged(ctx, e)
	default:
		h.logger.Warn("unexpected event type for notification handler",
			zap.String("event_type", event.EventType()))
	}
	return nil
}

func (h *NotificationEventHandler) handleMemberJoined(ctx context.Context, event *identity.MemberJoinedEvent) {
	name := h.displayName(ctx, event.UserID)
	title := fmt.Sprintf("%s joined the household", name)

	h.notifyMembers(ctx, event.SpaceID(), title, "", notification.TypeMemberJoined, &event.UserID,
		func(memberID uuid.UUID) bool { return memberID != event.UserID })
}

func (h *NotificationEventHandler) handlePointsAwarded(ctx context.Context, event *rewards.PointsAwardedEvent) {
	title := fmt.Sprintf("You earned %d points", event.Total)
	body := ""
	if event.StreakBonus > 0 {
		body = fmt.Sprintf("Includes a %d point streak bonus, %d days in a row!", event.StreakBonus, event.NewStreak)
	}
	if event.LatePenalty > 0 {
		body = fmt.Sprintf("A late penalty of %d points was applied.", event.LatePenalty)
	}

	if err := h.service.Notify(ctx, event.SpaceID(), event.UserID, notification.TypePointsAwarded, title, body, &event.CompletionID); err != nil {
		h.logger.Error("failed to notify points award",
			zap.String("user_id", event.UserID.String()),
			zap.Error(err))
	}
}

func (h *NotificationEventHandler) handlePlanChanged(ctx context.Context, event *billing.PlanChangedEvent) {
	title := fmt.Sprintf("Your space is now on the %s plan", event.NewPlan)

	h.notifyMembers(ctx, event.SpaceID(), title, "", notification.TypePlanChanged, nil,
		func(uuid.UUID) bool { return true })
}

// notifyMembers fans one notification out to every member of a space
// matching the filter
func (h *NotificationEventHandler) notifyMembers(ctx context.Context, spaceID uuid.UUID, title, body string, nType notification.NotificationType, referenceID *uuid.UUID, include func(uuid.UUID) bool) {
	memberships, err := h.membershipRepo.FindBySpaceID(ctx, spaceID)
	if err != nil {
		h.logger.Error("failed to load members for notification",
			zap.String("space_id", spaceID.String()),
			zap.Error(err))
		return
	}

	for _, m := range memberships {
		if !include(m.UserID) {
			continue
		}
		if err := h.service.Notify(ctx, spaceID, m.UserID, nType, title, body, referenceID); err != nil {
			h.logger.Error("failed to create member notification",
				zap.String("recipient_id", m.UserID.String()),
				zap.Error(err))
		}
	}
}

func (h *NotificationEventHandler) displayName(ctx context.Context, userID uuid.UUID) string {
	user, err := h.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "A new member"
	}
	return user.GetDisplayNameOrUsername()
}

var _ shared.EventHandler = (*NotificationEventHandler)(nil)
