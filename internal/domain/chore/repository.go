package chore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChoreRepository defines the interface for chore persistence
type ChoreRepository interface {
	// Create creates a new chore
	Create(ctx context.Context, c *Chore) error

	// Update updates an existing chore
	Update(ctx context.Context, c *Chore) error

	// Delete deletes a chore by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a chore by ID within the current space
	FindByID(ctx context.Context, id uuid.UUID) (*Chore, error)

	// FindAll returns chores for the current space with pagination
	FindAll(ctx context.Context, filter ChoreFilter) ([]*Chore, int64, error)

	// FindDueBefore returns active chores due before the given time
	FindDueBefore(ctx context.Context, before time.Time) ([]*Chore, error)

	// CountBySpace returns the number of non-archived chores in the space
	CountBySpace(ctx context.Context, spaceID uuid.UUID) (int64, error)
}

// CompletionRepository defines the interface for completion persistence
type CompletionRepository interface {
	// Create creates a new completion record
	Create(ctx context.Context, c *Completion) error

	// Update updates an existing completion record
	Update(ctx context.Context, c *Completion) error

	// FindByID finds a completion by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Completion, error)

	// FindByChoreID returns completions for a chore, newest first
	FindByChoreID(ctx context.Context, choreID uuid.UUID, limit int) ([]*Completion, error)

	// FindByUser returns a user's completions in a time range, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Completion, error)

	// CountByUserSince counts a user's completions since the given time
	CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
}

// ChoreFilter contains filter options for querying chores
type ChoreFilter struct {
	// Search keyword for name or description
	Keyword string

	// Filter by status
	Status *ChoreStatus

	// Filter by assignee
	AssignedTo *uuid.UUID

	// Only chores due before this time
	DueBefore *time.Time

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewChoreFilter creates a new ChoreFilter with default values
func NewChoreFilter() ChoreFilter {
	return ChoreFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "due_at",
		SortOrder: "asc",
	}
}

// WithStatus sets the status filter
func (f ChoreFilter) WithStatus(status ChoreStatus) ChoreFilter {
	f.Status = &status
	return f
}

// WithAssignee sets the assignee filter
func (f ChoreFilter) WithAssignee(userID uuid.UUID) ChoreFilter {
	f.AssignedTo = &userID
	return f
}

// WithPagination sets pagination parameters
func (f ChoreFilter) WithPagination(page, pageSize int) ChoreFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f ChoreFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f ChoreFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
