package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	// Create creates a new budget
	Create(ctx context.Context, b *Budget) error

	// Update updates an existing budget
	Update(ctx context.Context, b *Budget) error

	// Delete deletes a budget by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a budget by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// FindBySpaceID returns budgets in a space, active first
	FindBySpaceID(ctx context.Context, spaceID uuid.UUID, includeArchived bool) ([]*Budget, error)

	// FindBySpaceAndCategory finds the active budget for a category
	FindBySpaceAndCategory(ctx context.Context, spaceID uuid.UUID, category string) (*Budget, error)
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// Create creates a new expense
	Create(ctx context.Context, e *Expense) error

	// Update updates an existing expense
	Update(ctx context.Context, e *Expense) error

	// Delete deletes an expense by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an expense by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// FindAll returns expenses for the current space with pagination
	FindAll(ctx context.Context, filter ExpenseFilter) ([]*Expense, int64, error)

	// SumByCategory sums expenses for a category within a time range
	SumByCategory(ctx context.Context, spaceID uuid.UUID, category string, from, to time.Time) (decimal.Decimal, error)

	// SumBySpace sums all expenses in a space within a time range
	SumBySpace(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// ExpenseFilter contains filter options for querying expenses
type ExpenseFilter struct {
	Keyword  string
	Category string
	PaidBy   *uuid.UUID
	From     *time.Time
	To       *time.Time

	Page     int
	PageSize int

	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewExpenseFilter creates a new ExpenseFilter with default values
func NewExpenseFilter() ExpenseFilter {
	return ExpenseFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "spent_at",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f ExpenseFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f ExpenseFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
