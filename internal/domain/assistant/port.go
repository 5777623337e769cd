package assistant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Prompt is one turn handed to the model API
type Prompt struct {
	Role    Role
	Content string
}

// Completion is the model's reply plus its token accounting
type Completion struct {
	Content      string
	PromptTokens int
	ReplyTokens  int
}

// TotalTokens returns the combined token count for metering
func (c Completion) TotalTokens() int {
	return c.PromptTokens + c.ReplyTokens
}

// ChatCompleter is the outbound port to a chat model. The infrastructure
// layer provides an OpenAI-compatible implementation.
type ChatCompleter interface {
	Complete(ctx context.Context, prompts []Prompt) (*Completion, error)
}

// ConversationRepository defines the interface for conversation persistence
type ConversationRepository interface {
	// Create creates a new conversation
	Create(ctx context.Context, c *Conversation) error

	// Update updates an existing conversation
	Update(ctx context.Context, c *Conversation) error

	// Delete deletes a conversation and its messages
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a conversation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error)

	// FindByUser returns a user's conversations in a space, most recent
	// activity first
	FindByUser(ctx context.Context, spaceID, userID uuid.UUID, includeArchived bool) ([]*Conversation, error)
}

// ChatMessageRepository defines the interface for chat message persistence
type ChatMessageRepository interface {
	// Create creates chat messages
	Create(ctx context.Context, msgs ...*ChatMessage) error

	// FindByConversation returns a conversation's messages, oldest first
	FindByConversation(ctx context.Context, conversationID uuid.UUID, limit int) ([]*ChatMessage, error)

	// CountUserMessagesSince counts a user's prompts in a space since the
	// given time, for plan metering
	CountUserMessagesSince(ctx context.Context, spaceID, userID uuid.UUID, since time.Time) (int64, error)
}
