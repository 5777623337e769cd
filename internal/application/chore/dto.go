package chore

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/chore"
)

// CreateChoreInput contains input for creating a chore
type CreateChoreInput struct {
	SpaceID     uuid.UUID
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description" binding:"omitempty,max=2000"`
	Icon        string           `json:"icon" binding:"omitempty,max=50"`
	Points      int              `json:"points" binding:"omitempty,min=0"`
	Recurrence  chore.Recurrence `json:"recurrence" binding:"omitempty"`
	AssignedTo  *uuid.UUID       `json:"assigned_to"`
	DueAt       *time.Time       `json:"due_at"`
}

// UpdateChoreInput contains input for updating a chore. Nil fields are
// left unchanged.
type UpdateChoreInput struct {
	ChoreID     uuid.UUID
	Name        *string           `json:"name" binding:"omitempty,max=200"`
	Description *string           `json:"description" binding:"omitempty,max=2000"`
	Icon        *string           `json:"icon" binding:"omitempty,max=50"`
	Points      *int              `json:"points" binding:"omitempty,min=0"`
	Recurrence  *chore.Recurrence `json:"recurrence"`
	DueAt       *time.Time        `json:"due_at"`
}

// AssignChoreInput contains input for assigning a chore
type AssignChoreInput struct {
	ChoreID    uuid.UUID
	AssignedTo *uuid.UUID `json:"assigned_to"` // nil clears the assignment
}

// CompleteChoreInput contains input for completing a chore
type CompleteChoreInput struct {
	ChoreID     uuid.UUID
	UserID      uuid.UUID
	Note        string     `json:"note" binding:"omitempty,max=500"`
	CompletedAt *time.Time `json:"completed_at"` // nil means now
}

// ListChoresInput contains filter options for listing chores
type ListChoresInput struct {
	Keyword    string             `form:"keyword"`
	Status     *chore.ChoreStatus `form:"status"`
	AssignedTo *uuid.UUID         `form:"assigned_to"`
	Page       int                `form:"page"`
	PageSize   int                `form:"page_size"`
}

// ChoreInfo is the API representation of a chore
type ChoreInfo struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Icon            string            `json:"icon,omitempty"`
	Points          int               `json:"points"`
	Recurrence      chore.Recurrence  `json:"recurrence"`
	Status          chore.ChoreStatus `json:"status"`
	AssignedTo      *uuid.UUID        `json:"assigned_to,omitempty"`
	DueAt           *time.Time        `json:"due_at,omitempty"`
	Overdue         bool              `json:"overdue"`
	LastCompletedAt *time.Time        `json:"last_completed_at,omitempty"`
	LastCompletedBy *uuid.UUID        `json:"last_completed_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ChoreListResult contains a page of chores
type ChoreListResult struct {
	Chores   []ChoreInfo `json:"chores"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// CompletionInfo is the API representation of a completion record.
// PointsAwarded is zero until the rewards pipeline has scored it.
type CompletionInfo struct {
	ID            uuid.UUID  `json:"id"`
	ChoreID       uuid.UUID  `json:"chore_id"`
	CompletedBy   uuid.UUID  `json:"completed_by"`
	CompletedAt   time.Time  `json:"completed_at"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	PointsAwarded int        `json:"points_awarded"`
	Note          string     `json:"note,omitempty"`
}

func toChoreInfo(c *chore.Chore, now time.Time) ChoreInfo {
	return ChoreInfo{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Icon:            c.Icon,
		Points:          c.Points,
		Recurrence:      c.Recurrence,
		Status:          c.Status,
		AssignedTo:      c.AssignedTo,
		DueAt:           c.DueAt,
		Overdue:         c.IsOverdue(now),
		LastCompletedAt: c.LastCompletedAt,
		LastCompletedBy: c.LastCompletedBy,
		CreatedAt:       c.CreatedAt,
	}
}

func toCompletionInfo(c *chore.Completion) CompletionInfo {
	return CompletionInfo{
		ID:            c.ID,
		ChoreID:       c.ChoreID,
		CompletedBy:   c.CompletedBy,
		CompletedAt:   c.CompletedAt,
		DueAt:         c.DueAt,
		PointsAwarded: c.PointsAwarded,
		Note:          c.Note,
	}
}
