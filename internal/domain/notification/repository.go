package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// Create creates notifications
	Create(ctx context.Context, notifications ...*Notification) error

	// Update updates an existing notification
	Update(ctx context.Context, n *Notification) error

	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByRecipient returns a recipient's notifications, newest first
	FindByRecipient(ctx context.Context, spaceID, recipientID uuid.UUID, unreadOnly bool, limit int) ([]*Notification, error)

	// CountUnread counts a recipient's unread notifications
	CountUnread(ctx context.Context, spaceID, recipientID uuid.UUID) (int64, error)

	// MarkAllRead marks all of a recipient's notifications read
	MarkAllRead(ctx context.Context, spaceID, recipientID uuid.UUID) error

	// DeleteOlderThan removes old notifications
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
