package assistant

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// Role identifies who produced a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is one member's chat thread with the household companion
type Conversation struct {
	shared.SpaceAggregateRoot
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Title         string    `gorm:"type:varchar(200)"`
	LastMessageAt *time.Time
	Archived      bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Conversation) TableName() string {
	return "assistant_conversations"
}

// ChatMessage is one turn in a conversation. Token counts come back from
// the model API and feed usage metering.
type ChatMessage struct {
	shared.SpaceAggregateRoot
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           Role      `gorm:"type:varchar(10);not null"`
	Content        string    `gorm:"type:text;not null"`
	TokensUsed     int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ChatMessage) TableName() string {
	return "assistant_messages"
}

// NewConversation starts a chat thread for a member
func NewConversation(spaceID, userID uuid.UUID, title string) (*Conversation, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	title = strings.TrimSpace(title)
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}

	return &Conversation{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		UserID:             userID,
		Title:              title,
	}, nil
}

// AppendMessage creates a message in the conversation and bumps the
// last-message timestamp
func (c *Conversation) AppendMessage(role Role, content string, tokensUsed int) (*ChatMessage, error) {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
	default:
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid chat role")
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Message content cannot be empty")
	}
	if tokensUsed < 0 {
		tokensUsed = 0
	}

	now := time.Now()
	c.LastMessageAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	return &ChatMessage{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(c.SpaceID),
		ConversationID:     c.ID,
		Role:               role,
		Content:            content,
		TokensUsed:         tokensUsed,
	}, nil
}

// SetTitle sets the conversation title, typically from the first prompt
func (c *Conversation) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if len(title) > 200 {
		title = title[:200]
	}

	c.Title = title
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Archive hides the conversation from the active list
func (c *Conversation) Archive() {
	c.Archived = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
