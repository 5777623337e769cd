package chore

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// ChoreStatus represents the status of a chore
type ChoreStatus string

const (
	ChoreStatusActive   ChoreStatus = "active"
	ChoreStatusPaused   ChoreStatus = "paused"   // Temporarily not due (e.g., vacation)
	ChoreStatusArchived ChoreStatus = "archived" // Kept for history, no longer scheduled
)

// Recurrence represents how often a chore repeats
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none" // One-shot chore
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Chore represents a recurring household duty. Completing it earns reward
// points; the scoring itself lives in the rewards context and reacts to
// the completion event.
type Chore struct {
	shared.SpaceAggregateRoot
	Name            string      `gorm:"type:varchar(200);not null"`
	Description     string      `gorm:"type:text"`
	Icon            string      `gorm:"type:varchar(50)"`
	Points          int         `gorm:"not null;default:0"` // 0 means use the space's base points
	Recurrence      Recurrence  `gorm:"type:varchar(20);not null;default:'none'"`
	Status          ChoreStatus `gorm:"type:varchar(20);not null;default:'active'"`
	AssignedTo      *uuid.UUID  `gorm:"type:uuid;index"` // Member responsible, nil = anyone
	DueAt           *time.Time  `gorm:"index"`
	LastCompletedAt *time.Time
	LastCompletedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Chore) TableName() string {
	return "chores"
}

// NewChore creates a new chore in a space
func NewChore(spaceID uuid.UUID, name string, recurrence Recurrence) (*Chore, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if err := validateChoreName(name); err != nil {
		return nil, err
	}
	if err := validateRecurrence(recurrence); err != nil {
		return nil, err
	}

	chore := &Chore{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Name:               strings.TrimSpace(name),
		Recurrence:         recurrence,
		Status:             ChoreStatusActive,
	}

	chore.AddDomainEvent(NewChoreCreatedEvent(chore))

	return chore, nil
}

// Update updates the chore's descriptive fields
func (c *Chore) Update(name, description, icon string) error {
	if err := validateChoreName(name); err != nil {
		return err
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	if len(icon) > 50 {
		return shared.NewDomainError("INVALID_ICON", "Icon cannot exceed 50 characters")
	}

	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.Icon = icon
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPoints sets a point override for this chore. Zero restores the
// space default.
func (c *Chore) SetPoints(points int) error {
	if points < 0 {
		return shared.NewDomainError("INVALID_POINTS", "Points cannot be negative")
	}

	c.Points = points
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetRecurrence changes how often the chore repeats
func (c *Chore) SetRecurrence(recurrence Recurrence) error {
	if err := validateRecurrence(recurrence); err != nil {
		return err
	}

	c.Recurrence = recurrence
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Assign assigns the chore to a member, nil clears the assignment
func (c *Chore) Assign(userID *uuid.UUID) {
	c.AssignedTo = userID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetDueAt sets the next due time
func (c *Chore) SetDueAt(dueAt *time.Time) {
	c.DueAt = dueAt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Complete records a completion by a member and returns the completion
// record. For recurring chores the due date advances one period. The
// caller persists both and publishes the chore's pending events.
func (c *Chore) Complete(userID uuid.UUID, completedAt time.Time) (*Completion, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if c.Status != ChoreStatusActive {
		return nil, shared.NewDomainError("CHORE_NOT_ACTIVE", "Only active chores can be completed")
	}
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	completion := newCompletion(c, userID, completedAt)

	c.LastCompletedAt = &completedAt
	c.LastCompletedBy = &userID
	if c.Recurrence != RecurrenceNone && c.DueAt != nil {
		next := nextDueDate(*c.DueAt, c.Recurrence, completedAt)
		c.DueAt = &next
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewChoreCompletedEvent(c, completion))

	return completion, nil
}

// Pause pauses the chore
func (c *Chore) Pause() error {
	if c.Status != ChoreStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active chores can be paused")
	}

	c.Status = ChoreStatusPaused
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Resume resumes a paused chore
func (c *Chore) Resume() error {
	if c.Status != ChoreStatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Only paused chores can be resumed")
	}

	c.Status = ChoreStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Archive archives the chore, keeping its history
func (c *Chore) Archive() error {
	if c.Status == ChoreStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Chore is already archived")
	}

	c.Status = ChoreStatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsOverdue returns true if the chore is past due at the given time
func (c *Chore) IsOverdue(now time.Time) bool {
	if c.Status != ChoreStatusActive || c.DueAt == nil {
		return false
	}
	return now.After(*c.DueAt)
}

// nextDueDate advances the due date by whole periods until it is after
// the completion time. Skipping several periods does not pile up past
// due dates.
func nextDueDate(due time.Time, recurrence Recurrence, completedAt time.Time) time.Time {
	next := due
	for !next.After(completedAt) {
		switch recurrence {
		case RecurrenceDaily:
			next = next.AddDate(0, 0, 1)
		case RecurrenceWeekly:
			next = next.AddDate(0, 0, 7)
		case RecurrenceMonthly:
			next = next.AddDate(0, 1, 0)
		default:
			return due
		}
	}
	return next
}

func validateChoreName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Chore name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Chore name cannot exceed 200 characters")
	}
	return nil
}

func validateRecurrence(r Recurrence) error {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return nil
	default:
		return shared.NewDomainError("INVALID_RECURRENCE", "Invalid recurrence")
	}
}
