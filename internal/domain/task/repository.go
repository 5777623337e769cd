package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, t *Task) error

	// Update updates an existing task
	Update(ctx context.Context, t *Task) error

	// Delete deletes a task by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindAll returns tasks for the current space with pagination
	FindAll(ctx context.Context, filter TaskFilter) ([]*Task, int64, error)

	// CountOpenBySpace counts open tasks in a space
	CountOpenBySpace(ctx context.Context, spaceID uuid.UUID) (int64, error)
}

// TaskFilter contains filter options for querying tasks
type TaskFilter struct {
	Keyword    string
	Status     *TaskStatus
	Priority   *TaskPriority
	AssignedTo *uuid.UUID
	DueBefore  *time.Time

	Page     int
	PageSize int

	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewTaskFilter creates a new TaskFilter with default values
func NewTaskFilter() TaskFilter {
	return TaskFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f TaskFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f TaskFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
