package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	// Create creates a new message
	Create(ctx context.Context, m *Message) error

	// Update updates an existing message
	Update(ctx context.Context, m *Message) error

	// FindByID finds a message by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)

	// FindBySpace returns messages for a space, newest first, using
	// cursor pagination on creation time
	FindBySpace(ctx context.Context, spaceID uuid.UUID, before time.Time, limit int) ([]*Message, error)

	// CountBySpaceSince counts messages in a space since the given time
	CountBySpaceSince(ctx context.Context, spaceID uuid.UUID, since time.Time) (int64, error)

	// DeleteOlderThan hard-deletes messages beyond the plan's retention
	// window, returning the number removed
	DeleteOlderThan(ctx context.Context, spaceID uuid.UUID, before time.Time) (int64, error)
}
