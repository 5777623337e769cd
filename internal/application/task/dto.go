package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/task"
)

// CreateTaskInput contains input for creating a task
type CreateTaskInput struct {
	SpaceID     uuid.UUID
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description" binding:"omitempty,max=2000"`
	Priority    task.TaskPriority `json:"priority" binding:"omitempty"`
	AssignedTo  *uuid.UUID        `json:"assigned_to"`
	DueAt       *time.Time        `json:"due_at"`
}

// UpdateTaskInput contains input for updating a task. Nil fields are
// left unchanged.
type UpdateTaskInput struct {
	TaskID      uuid.UUID
	Title       *string            `json:"title" binding:"omitempty,max=200"`
	Description *string            `json:"description" binding:"omitempty,max=2000"`
	Priority    *task.TaskPriority `json:"priority"`
	AssignedTo  *uuid.UUID         `json:"assigned_to"`
	DueAt       *time.Time         `json:"due_at"`
}

// ListTasksInput contains filter options for listing tasks
type ListTasksInput struct {
	Keyword    string             `form:"keyword"`
	Status     *task.TaskStatus   `form:"status"`
	Priority   *task.TaskPriority `form:"priority"`
	AssignedTo *uuid.UUID         `form:"assigned_to"`
	Page       int                `form:"page"`
	PageSize   int                `form:"page_size"`
}

// TaskInfo is the API representation of a task
type TaskInfo struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      task.TaskStatus   `json:"status"`
	Priority    task.TaskPriority `json:"priority"`
	AssignedTo  *uuid.UUID        `json:"assigned_to,omitempty"`
	DueAt       *time.Time        `json:"due_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID        `json:"completed_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// TaskListResult contains a page of tasks
type TaskListResult struct {
	Tasks    []TaskInfo `json:"tasks"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

func toTaskInfo(t *task.Task) TaskInfo {
	return TaskInfo{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssignedTo:  t.AssignedTo,
		DueAt:       t.DueAt,
		CompletedAt: t.CompletedAt,
		CompletedBy: t.CompletedBy,
		CreatedAt:   t.CreatedAt,
	}
}
