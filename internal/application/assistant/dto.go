package assistant

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/assistant"
)

// ChatInput contains one prompt from a member. A nil ConversationID
// starts a new thread.
type ChatInput struct {
	SpaceID        uuid.UUID
	UserID         uuid.UUID
	ConversationID *uuid.UUID `json:"conversation_id"`
	Message        string     `json:"message" binding:"required,max=4000"`
}

// ChatResult contains the assistant's reply
type ChatResult struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Reply          string    `json:"reply"`
	TokensUsed     int       `json:"tokens_used"`
}

// ConversationInfo is the API representation of a conversation
type ConversationInfo struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	Archived      bool       `json:"archived"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ChatMessageInfo is one turn of a conversation
type ChatMessageInfo struct {
	ID        uuid.UUID      `json:"id"`
	Role      assistant.Role `json:"role"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

// ConversationDetail is a conversation with its messages, oldest first
type ConversationDetail struct {
	Conversation ConversationInfo  `json:"conversation"`
	Messages     []ChatMessageInfo `json:"messages"`
}

func toConversationInfo(c *assistant.Conversation) ConversationInfo {
	return ConversationInfo{
		ID:            c.ID,
		Title:         c.Title,
		LastMessageAt: c.LastMessageAt,
		Archived:      c.Archived,
		CreatedAt:     c.CreatedAt,
	}
}

func toChatMessageInfo(m *assistant.ChatMessage) ChatMessageInfo {
	return ChatMessageInfo{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
