package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/notification"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates notifications
func (r *GormNotificationRepository) Create(ctx context.Context, notifications ...*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(notifications).Error
}

// Update updates an existing notification
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindByRecipient returns a recipient's notifications, newest first
func (r *GormNotificationRepository) FindByRecipient(ctx context.Context, spaceID, recipientID uuid.UUID, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("space_id = ? AND recipient_id = ?", spaceID, recipientID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var notifications []*notification.Notification
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts a recipient's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, spaceID, recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("space_id = ? AND recipient_id = ? AND read_at IS NULL", spaceID, recipientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkAllRead marks all of a recipient's notifications read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, spaceID, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("space_id = ? AND recipient_id = ? AND read_at IS NULL", spaceID, recipientID).
		Update("read_at", time.Now()).Error
}

// DeleteOlderThan removes old notifications
func (r *GormNotificationRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&notification.Notification{})
	return result.RowsAffected, result.Error
}

// Ensure GormNotificationRepository implements NotificationRepository
var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)
