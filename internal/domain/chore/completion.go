package chore

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// Completion is the immutable record of one chore completion. The points
// and scored-at columns are written after the fact by the rewards
// pipeline; a completion whose scoring failed stays unscored and is
// still valid.
type Completion struct {
	shared.SpaceAggregateRoot
	ChoreID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompletedBy   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CompletedAt   time.Time  `gorm:"not null;index"`
	DueAt         *time.Time // Due date at the moment of completion, for late checks
	PointsAwarded int        `gorm:"not null;default:0"`
	ScoredAt      *time.Time // Set once the rewards pipeline has processed this row
	Note          string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Completion) TableName() string {
	return "chore_completions"
}

func newCompletion(c *Chore, userID uuid.UUID, completedAt time.Time) *Completion {
	var dueAt *time.Time
	if c.DueAt != nil {
		due := *c.DueAt
		dueAt = &due
	}
	return &Completion{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(c.SpaceID),
		ChoreID:            c.ID,
		CompletedBy:        userID,
		CompletedAt:        completedAt,
		DueAt:              dueAt,
	}
}

// SetNote attaches an optional note to the completion
func (c *Completion) SetNote(note string) error {
	if len(note) > 500 {
		return shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 500 characters")
	}
	c.Note = note
	return nil
}

// RecordAward stores the points the rewards pipeline granted and marks
// the completion scored. A zero-total award still marks the row, so a
// redelivered completion event never scores it twice.
func (c *Completion) RecordAward(points int) {
	now := time.Now()
	c.PointsAwarded = points
	c.ScoredAt = &now
	c.UpdatedAt = now
}

// Scored reports whether the rewards pipeline has processed this completion
func (c *Completion) Scored() bool {
	return c.ScoredAt != nil
}
