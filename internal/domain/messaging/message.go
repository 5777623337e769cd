package messaging

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// MessageKind distinguishes member messages from system announcements
type MessageKind string

const (
	MessageKindText   MessageKind = "text"
	MessageKindSystem MessageKind = "system" // Generated by the app, no sender edits
)

// Maximum message body length
const maxBodyLength = 4000

// Message is one entry in a space's shared chat
type Message struct {
	shared.SpaceAggregateRoot
	SenderID  uuid.UUID   `gorm:"type:uuid;not null;index"`
	Kind      MessageKind `gorm:"type:varchar(10);not null;default:'text'"`
	Body      string      `gorm:"type:text;not null"`
	EditedAt  *time.Time
	DeletedAt *time.Time `gorm:"index"` // Soft delete keeps thread continuity
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// NewMessage creates a member message in the space chat
func NewMessage(spaceID, senderID uuid.UUID, body string) (*Message, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if senderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "Sender ID cannot be empty")
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}

	m := &Message{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		SenderID:           senderID,
		Kind:               MessageKindText,
		Body:               strings.TrimSpace(body),
	}

	m.AddDomainEvent(NewMessageSentEvent(m))

	return m, nil
}

// NewSystemMessage creates an app-generated announcement in the chat
func NewSystemMessage(spaceID uuid.UUID, body string) (*Message, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}

	m := &Message{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		SenderID:           uuid.Nil,
		Kind:               MessageKindSystem,
		Body:               strings.TrimSpace(body),
	}

	m.AddDomainEvent(NewMessageSentEvent(m))

	return m, nil
}

// Edit replaces the body. Only the sender edits, and only text messages.
func (m *Message) Edit(editorID uuid.UUID, body string) error {
	if m.Kind != MessageKindText {
		return shared.NewDomainError("INVALID_STATE", "System messages cannot be edited")
	}
	if m.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Deleted messages cannot be edited")
	}
	if editorID != m.SenderID {
		return shared.ErrForbidden
	}
	if err := validateBody(body); err != nil {
		return err
	}

	m.Body = strings.TrimSpace(body)
	now := time.Now()
	m.EditedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()

	return nil
}

// Delete soft-deletes the message. Senders delete their own; admins pass
// force=true.
func (m *Message) Delete(deleterID uuid.UUID, force bool) error {
	if m.IsDeleted() {
		return shared.NewDomainError("ALREADY_DELETED", "Message is already deleted")
	}
	if !force && deleterID != m.SenderID {
		return shared.ErrForbidden
	}

	now := time.Now()
	m.DeletedAt = &now
	m.Body = ""
	m.UpdatedAt = now
	m.IncrementVersion()

	return nil
}

// IsDeleted returns true if the message is soft-deleted
func (m *Message) IsDeleted() bool {
	return m.DeletedAt != nil
}

func validateBody(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return shared.NewDomainError("INVALID_BODY", "Message body cannot be empty")
	}
	if len(body) > maxBodyLength {
		return shared.NewDomainError("INVALID_BODY", "Message body cannot exceed 4000 characters")
	}
	return nil
}
