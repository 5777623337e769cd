package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/assistant"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormConversationRepository implements ConversationRepository using GORM
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// Create creates a new conversation
func (r *GormConversationRepository) Create(ctx context.Context, c *assistant.Conversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update updates an existing conversation
func (r *GormConversationRepository) Update(ctx context.Context, c *assistant.Conversation) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete deletes a conversation and its messages
func (r *GormConversationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&assistant.ChatMessage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&assistant.Conversation{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a conversation by ID
func (r *GormConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*assistant.Conversation, error) {
	var c assistant.Conversation
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByUser returns a user's conversations in a space, most recent
// activity first
func (r *GormConversationRepository) FindByUser(ctx context.Context, spaceID, userID uuid.UUID, includeArchived bool) ([]*assistant.Conversation, error) {
	query := r.db.WithContext(ctx).
		Where("space_id = ? AND user_id = ?", spaceID, userID)
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}

	var conversations []*assistant.Conversation
	if err := query.
		Order("updated_at DESC").
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// Ensure GormConversationRepository implements ConversationRepository
var _ assistant.ConversationRepository = (*GormConversationRepository)(nil)
