package chore

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// Aggregate type constant for Chore
const AggregateTypeChore = "Chore"

// Chore domain event types
const (
	EventTypeChoreCreated   = "ChoreCreated"
	EventTypeChoreCompleted = "ChoreCompleted"
)

// ChoreCreatedEvent is published when a chore is created
type ChoreCreatedEvent struct {
	shared.BaseDomainEvent
	Name       string     `json:"name"`
	Recurrence Recurrence `json:"recurrence"`
}

// NewChoreCreatedEvent creates a new ChoreCreatedEvent
func NewChoreCreatedEvent(c *Chore) *ChoreCreatedEvent {
	return &ChoreCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChoreCreated, AggregateTypeChore, c.ID, c.SpaceID),
		Name:            c.Name,
		Recurrence:      c.Recurrence,
	}
}

// ChoreCompletedEvent is published when a member completes a chore.
// It carries everything the rewards pipeline needs so the handler never
// reloads the chore.
type ChoreCompletedEvent struct {
	shared.BaseDomainEvent
	CompletionID uuid.UUID  `json:"completion_id"`
	ChoreName    string     `json:"chore_name"`
	CompletedBy  uuid.UUID  `json:"completed_by"`
	CompletedAt  time.Time  `json:"completed_at"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	ChorePoints  int        `json:"chore_points"` // 0 means use the space's base points
}

// NewChoreCompletedEvent creates a new ChoreCompletedEvent
func NewChoreCompletedEvent(c *Chore, completion *Completion) *ChoreCompletedEvent {
	return &ChoreCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChoreCompleted, AggregateTypeChore, c.ID, c.SpaceID),
		CompletionID:    completion.ID,
		ChoreName:       c.Name,
		CompletedBy:     completion.CompletedBy,
		CompletedAt:     completion.CompletedAt,
		DueAt:           completion.DueAt,
		ChorePoints:     c.Points,
	}
}
