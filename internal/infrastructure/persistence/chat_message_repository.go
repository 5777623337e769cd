package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/assistant"
	"gorm.io/gorm"
)

// GormChatMessageRepository implements ChatMessageRepository using GORM
type GormChatMessageRepository struct {
	db *gorm.DB
}

// NewGormChatMessageRepository creates a new GormChatMessageRepository
func NewGormChatMessageRepository(db *gorm.DB) *GormChatMessageRepository {
	return &GormChatMessageRepository{db: db}
}

// Create creates chat messages
func (r *GormChatMessageRepository) Create(ctx context.Context, msgs ...*assistant.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(msgs).Error
}

// FindByConversation returns a conversation's messages, oldest first
func (r *GormChatMessageRepository) FindByConversation(ctx context.Context, conversationID uuid.UUID, limit int) ([]*assistant.ChatMessage, error) {
	var msgs []*assistant.ChatMessage
	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// CountUserMessagesSince counts a user's prompts in a space since the
// given time, for plan metering. Assistant replies don't count against
// the quota.
func (r *GormChatMessageRepository) CountUserMessagesSince(ctx context.Context, spaceID, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&assistant.ChatMessage{}).
		Joins("JOIN assistant_conversations ON assistant_conversations.id = assistant_messages.conversation_id").
		Where("assistant_conversations.space_id = ? AND assistant_conversations.user_id = ?", spaceID, userID).
		Where("assistant_messages.role = ? AND assistant_messages.created_at >= ?", assistant.RoleUser, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormChatMessageRepository implements ChatMessageRepository
var _ assistant.ChatMessageRepository = (*GormChatMessageRepository)(nil)
