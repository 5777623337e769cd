package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/messaging"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMessageRepository implements MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Create creates a new message
func (r *GormMessageRepository) Create(ctx context.Context, m *messaging.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Update updates an existing message
func (r *GormMessageRepository) Update(ctx context.Context, m *messaging.Message) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// FindByID finds a message by ID
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*messaging.Message, error) {
	var m messaging.Message
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindBySpace returns messages for a space, newest first, using cursor
// pagination on creation time
func (r *GormMessageRepository) FindBySpace(ctx context.Context, spaceID uuid.UUID, before time.Time, limit int) ([]*messaging.Message, error) {
	var messages []*messaging.Message
	if err := r.db.WithContext(ctx).
		Where("space_id = ? AND created_at < ?", spaceID, before).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CountBySpaceSince counts messages in a space since the given time
func (r *GormMessageRepository) CountBySpaceSince(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&messaging.Message{}).
		Where("space_id = ? AND created_at >= ?", spaceID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOlderThan hard-deletes messages beyond the plan's retention
// window, returning the number removed. Soft-deleted rows go too.
func (r *GormMessageRepository) DeleteOlderThan(ctx context.Context, spaceID uuid.UUID, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("space_id = ? AND created_at < ?", spaceID, before).
		Delete(&messaging.Message{})
	return result.RowsAffected, result.Error
}

// Ensure GormMessageRepository implements MessageRepository
var _ messaging.MessageRepository = (*GormMessageRepository)(nil)
