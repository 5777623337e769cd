package messaging

import (
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// Aggregate type constant for Message
const AggregateTypeMessage = "Message"

// Messaging domain event types
const (
	EventTypeMessageSent = "MessageSent"
)

// MessageSentEvent is published when a chat message is created. The
// realtime hub fans it out to connected members.
type MessageSentEvent struct {
	shared.BaseDomainEvent
	SenderID uuid.UUID   `json:"sender_id"`
	Kind     MessageKind `json:"kind"`
	Body     string      `json:"body"`
}

// NewMessageSentEvent creates a new MessageSentEvent
func NewMessageSentEvent(m *Message) *MessageSentEvent {
	return &MessageSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageSent, AggregateTypeMessage, m.ID, m.SpaceID),
		SenderID:        m.SenderID,
		Kind:            m.Kind,
		Body:            m.Body,
	}
}
