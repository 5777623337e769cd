package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCanceled   TaskStatus = "canceled"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is a one-off to-do in a space. Unlike chores, tasks do not recur
// and earn no reward points.
type Task struct {
	shared.SpaceAggregateRoot
	Title       string       `gorm:"type:varchar(200);not null"`
	Description string       `gorm:"type:text"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'"`
	AssignedTo  *uuid.UUID   `gorm:"type:uuid;index"`
	DueAt       *time.Time   `gorm:"index"`
	CompletedAt *time.Time
	CompletedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a new task in a space
func NewTask(spaceID uuid.UUID, title string) (*Task, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	return &Task{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Title:              strings.TrimSpace(title),
		Status:             TaskStatusTodo,
		Priority:           TaskPriorityMedium,
	}, nil
}

// Update updates the task's descriptive fields
func (t *Task) Update(title, description string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}

	t.Title = strings.TrimSpace(title)
	t.Description = description
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetPriority sets the task priority
func (t *Task) SetPriority(priority TaskPriority) error {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
	default:
		return shared.NewDomainError("INVALID_PRIORITY", "Invalid task priority")
	}

	t.Priority = priority
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Assign assigns the task to a member, nil clears the assignment
func (t *Task) Assign(userID *uuid.UUID) {
	t.AssignedTo = userID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetDueAt sets the due time
func (t *Task) SetDueAt(dueAt *time.Time) {
	t.DueAt = dueAt
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Start moves the task to in progress
func (t *Task) Start() error {
	if t.Status != TaskStatusTodo {
		return shared.NewDomainError("INVALID_STATE", "Only todo tasks can be started")
	}

	t.Status = TaskStatusInProgress
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Complete marks the task done
func (t *Task) Complete(userID uuid.UUID, at time.Time) error {
	if t.Status == TaskStatusDone {
		return shared.NewDomainError("ALREADY_DONE", "Task is already done")
	}
	if t.Status == TaskStatusCanceled {
		return shared.NewDomainError("INVALID_STATE", "Canceled tasks cannot be completed")
	}
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if at.IsZero() {
		at = time.Now()
	}

	t.Status = TaskStatusDone
	t.CompletedAt = &at
	t.CompletedBy = &userID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Reopen moves a done or canceled task back to todo
func (t *Task) Reopen() error {
	if t.Status == TaskStatusTodo || t.Status == TaskStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Task is already open")
	}

	t.Status = TaskStatusTodo
	t.CompletedAt = nil
	t.CompletedBy = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Cancel cancels the task
func (t *Task) Cancel() error {
	if t.Status == TaskStatusDone {
		return shared.NewDomainError("INVALID_STATE", "Done tasks cannot be canceled")
	}
	if t.Status == TaskStatusCanceled {
		return shared.NewDomainError("ALREADY_CANCELED", "Task is already canceled")
	}

	t.Status = TaskStatusCanceled
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsOpen returns true if the task still needs doing
func (t *Task) IsOpen() bool {
	return t.Status == TaskStatusTodo || t.Status == TaskStatusInProgress
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	return nil
}
