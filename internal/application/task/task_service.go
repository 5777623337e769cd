package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/homehub/backend/internal/domain/task"
	"go.uber.org/zap"
)

// TaskService handles one-off to-dos. Tasks have no reward pipeline:
// completing one just flips its status.
type TaskService struct {
	taskRepo task.TaskRepository
	logger   *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo task.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, logger: logger}
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*TaskInfo, error) {
	t, err := task.NewTask(input.SpaceID, input.Title)
	if err != nil {
		return nil, err
	}
	if input.Description != "" {
		if err := t.Update(input.Title, input.Description); err != nil {
			return nil, err
		}
	}
	if input.Priority != "" {
		if err := t.SetPriority(input.Priority); err != nil {
			return nil, err
		}
	}
	if input.AssignedTo != nil {
		t.Assign(input.AssignedTo)
	}
	if input.DueAt != nil {
		t.SetDueAt(input.DueAt)
	}

	if err := s.taskRepo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create task")
	}

	s.logger.Info("task created",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("task_id", t.ID.String()))

	info := toTaskInfo(t)
	return &info, nil
}

// GetTask returns a single task
func (s *TaskService) GetTask(ctx context.Context, taskID uuid.UUID) (*TaskInfo, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, shared.NewDomainError("TASK_NOT_FOUND", "Task not found")
	}

	info := toTaskInfo(t)
	return &info, nil
}

// ListTasks returns tasks matching the filter, paginated
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) (*TaskListResult, error) {
	filter := task.NewTaskFilter()
	filter.Keyword = input.Keyword
	filter.Status = input.Status
	filter.Priority = input.Priority
	filter.AssignedTo = input.AssignedTo
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}

	tasks, total, err := s.taskRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tasks")
	}

	infos := make([]TaskInfo, 0, len(tasks))
	for _, t := range tasks {
		infos = append(infos, toTaskInfo(t))
	}

	return &TaskListResult{
		Tasks:    infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// UpdateTask updates a task's fields. Nil inputs are left unchanged.
func (s *TaskService) UpdateTask(ctx context.Context, input UpdateTaskInput) (*TaskInfo, error) {
	t, err := s.taskRepo.FindByID(ctx, input.TaskID)
	if err != nil {
		return nil, shared.NewDomainError("TASK_NOT_FOUND", "Task not found")
	}

	if input.Title != nil || input.Description != nil {
		title := t.Title
		if input.Title != nil {
			title = *input.Title
		}
		description := t.Description
		if input.Description != nil {
			description = *input.Description
		}
		if err := t.Update(title, description); err != nil {
			return nil, err
		}
	}
	if input.Priority != nil {
		if err := t.SetPriority(*input.Priority); err != nil {
			return nil, err
		}
	}
	if input.AssignedTo != nil {
		t.Assign(input.AssignedTo)
	}
	if input.DueAt != nil {
		t.SetDueAt(input.DueAt)
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update task")
	}

	info := toTaskInfo(t)
	return &info, nil
}

// StartTask moves a task to in progress
func (s *TaskService) StartTask(ctx context.Context, taskID uuid.UUID) error {
	return s.transition(ctx, taskID, (*task.Task).Start)
}

// CompleteTask marks a task done
func (s *TaskService) CompleteTask(ctx context.Context, taskID, userID uuid.UUID) (*TaskInfo, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, shared.NewDomainError("TASK_NOT_FOUND", "Task not found")
	}

	if err := t.Complete(userID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to complete task")
	}

	s.logger.Info("task completed",
		zap.String("task_id", taskID.String()),
		zap.String("completed_by", userID.String()))

	info := toTaskInfo(t)
	return &info, nil
}

// ReopenTask moves a done or canceled task back to todo
func (s *TaskService) ReopenTask(ctx context.Context, taskID uuid.UUID) error {
	return s.transition(ctx, taskID, (*task.Task).Reopen)
}

// CancelTask cancels a task
func (s *TaskService) CancelTask(ctx context.Context, taskID uuid.UUID) error {
	return s.transition(ctx, taskID, (*task.Task).Cancel)
}

// DeleteTask permanently deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		return shared.NewDomainError("TASK_NOT_FOUND", "Task not found")
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete task")
	}
	return nil
}

func (s *TaskService) transition(ctx context.Context, taskID uuid.UUID, op func(*task.Task) error) error {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return shared.NewDomainError("TASK_NOT_FOUND", "Task not found")
	}

	if err := op(t); err != nil {
		return err
	}
	if err := s.taskRepo.Update(ctx, t); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update task")
	}
	return nil
}
