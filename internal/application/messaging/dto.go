package messaging

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/messaging"
)

// SendMessageInput contains input for sending a chat message
type SendMessageInput struct {
	SpaceID  uuid.UUID
	SenderID uuid.UUID
	Body     string `json:"body" binding:"required,max=4000"`
}

// EditMessageInput contains input for editing a message
type EditMessageInput struct {
	MessageID uuid.UUID
	EditorID  uuid.UUID
	Body      string `json:"body" binding:"required,max=4000"`
}

// ListMessagesInput pages backwards through a space's chat. Before is
// the cursor; zero means "from now".
type ListMessagesInput struct {
	SpaceID uuid.UUID
	Before  time.Time `form:"before"`
	Limit   int       `form:"limit" binding:"omitempty,min=1,max=100"`
}

// MessageInfo is the API representation of a chat message
type MessageInfo struct {
	ID        uuid.UUID             `json:"id"`
	SenderID  uuid.UUID             `json:"sender_id"`
	Kind      messaging.MessageKind `json:"kind"`
	Body      string                `json:"body"`
	EditedAt  *time.Time            `json:"edited_at,omitempty"`
	Deleted   bool                  `json:"deleted"`
	CreatedAt time.Time             `json:"created_at"`
}

// MessageListResult contains one page of messages, newest first
type MessageListResult struct {
	Messages   []MessageInfo `json:"messages"`
	NextCursor *time.Time    `json:"next_cursor,omitempty"`
}

func toMessageInfo(m *messaging.Message) MessageInfo {
	return MessageInfo{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Kind:      m.Kind,
		Body:      m.Body,
		EditedAt:  m.EditedAt,
		Deleted:   m.IsDeleted(),
		CreatedAt: m.CreatedAt,
	}
}
