package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/notification"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Notifications older than this are removed by the nightly prune job
const retentionDays = 90

// NotificationService manages each member's in-app notification feed
type NotificationService struct {
	notificationRepo notification.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo notification.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Notify creates a notification for one recipient. Used by the event
// handlers and the overdue-chore scan.
func (s *NotificationService) Notify(ctx context.Context, spaceID, recipientID uuid.UUID, nType notification.NotificationType, title, body string, referenceID *uuid.UUID) error {
	n, err := notification.NewNotification(spaceID, recipientID, nType, title, body)
	if err != nil {
		return err
	}
	if referenceID != nil {
		n.WithReference(*referenceID)
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error("failed to create notification",
			zap.String("space_id", spaceID.String()),
			zap.String("recipient_id", recipientID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to create notification")
	}
	return nil
}

// ListNotifications returns a member's notifications, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, input ListNotificationsInput) ([]NotificationInfo, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	notifications, err := s.notificationRepo.FindByRecipient(ctx, input.SpaceID, input.RecipientID, input.UnreadOnly, limit)
	if err != nil {
		s.logger.Error("failed to list notifications", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list notifications")
	}

	infos := make([]NotificationInfo, 0, len(notifications))
	for _, n := range notifications {
		infos = append(infos, toNotificationInfo(n))
	}
	return infos, nil
}

// CountUnread returns a member's unread notification count for the badge
func (s *NotificationService) CountUnread(ctx context.Context, spaceID, recipientID uuid.UUID) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, spaceID, recipientID)
	if err != nil {
		s.logger.Error("failed to count unread notifications", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to count notifications")
	}
	return count, nil
}

// MarkRead marks one notification read. Members only touch their own.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, recipientID uuid.UUID) error {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return shared.NewDomainError("NOTIFICATION_NOT_FOUND", "Notification not found")
	}
	if n.RecipientID != recipientID {
		return shared.ErrForbidden
	}
	if n.IsRead() {
		return nil
	}

	n.MarkRead()
	if err := s.notificationRepo.Update(ctx, n); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to mark notification read")
	}
	return nil
}

// MarkAllRead marks all of a member's notifications read
func (s *NotificationService) MarkAllRead(ctx context.Context, spaceID, recipientID uuid.UUID) error {
	if err := s.notificationRepo.MarkAllRead(ctx, spaceID, recipientID); err != nil {
		s.logger.Error("failed to mark notifications read", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to mark notifications read")
	}
	return nil
}

// Prune removes notifications past the retention window. Runs from the
// scheduler.
func (s *NotificationService) Prune(ctx context.Context, now time.Time) (int64, error) {
	removed, err := s.notificationRepo.DeleteOlderThan(ctx, now.AddDate(0, 0, -retentionDays))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("pruned notifications", zap.Int64("removed", removed))
	}
	return removed, nil
}
