package chore

import (
	"context"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/chore"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ChoreService handles chore management and completion. Completing a
// chore publishes an event; the rewards context scores it asynchronously
// so a broken reward pipeline never blocks the completion itself.
type ChoreService struct {
	choreRepo      chore.ChoreRepository
	completionRepo chore.CompletionRepository
	guard          *appbilling.FeatureGuard
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewChoreService creates a new chore service
func NewChoreService(
	choreRepo chore.ChoreRepository,
	completionRepo chore.CompletionRepository,
	guard *appbilling.FeatureGuard,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ChoreService {
	return &ChoreService{
		choreRepo:      choreRepo,
		completionRepo: completionRepo,
		guard:          guard,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateChore creates a new chore, subject to the space's plan limit
func (s *ChoreService) CreateChore(ctx context.Context, input CreateChoreInput) (*ChoreInfo, error) {
	count, err := s.choreRepo.CountBySpace(ctx, input.SpaceID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check chore count")
	}
	if err := s.guard.CheckLimit(ctx, input.SpaceID, billing.FeatureMaxChores, count); err != nil {
		return nil, err
	}

	recurrence := input.Recurrence
	if recurrence == "" {
		recurrence = chore.RecurrenceNone
	}

	c, err := chore.NewChore(input.SpaceID, input.Name, recurrence)
	if err != nil {
		return nil, err
	}
	if input.Description != "" || input.Icon != "" {
		if err := c.Update(input.Name, input.Description, input.Icon); err != nil {
			return nil, err
		}
	}
	if input.Points > 0 {
		if err := c.SetPoints(input.Points); err != nil {
			return nil, err
		}
	}
	if input.AssignedTo != nil {
		c.Assign(input.AssignedTo)
	}
	if input.DueAt != nil {
		c.SetDueAt(input.DueAt)
	}

	if err := s.choreRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create chore", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create chore")
	}

	if err := s.eventPublisher.Publish(ctx, c.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish chore events", zap.Error(err))
	}
	c.ClearDomainEvents()

	s.logger.Info("chore created",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("chore_id", c.ID.String()),
		zap.String("name", c.Name))

	info := toChoreInfo(c, time.Now())
	return &info, nil
}

// GetChore returns a single chore
func (s *ChoreService) GetChore(ctx context.Context, choreID uuid.UUID) (*ChoreInfo, error) {
	c, err := s.choreRepo.FindByID(ctx, choreID)
	if err != nil {
		return nil, shared.NewDomainError("CHORE_NOT_FOUND", "Chore not found")
	}

	info := toChoreInfo(c, time.Now())
	return &info, nil
}

// ListChores returns chores matching the filter, paginated
func (s *ChoreService) ListChores(ctx context.Context, input ListChoresInput) (*ChoreListResult, error) {
	filter := chore.NewChoreFilter()
	filter.Keyword = input.Keyword
	filter.Status = input.Status
	filter.AssignedTo = input.AssignedTo
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}

	chores, total, err := s.choreRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list chores", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list chores")
	}

	now := time.Now()
	infos := make([]ChoreInfo, 0, len(chores))
	for _, c := range chores {
		infos = append(infos, toChoreInfo(c, now))
	}

	return &ChoreListResult{
		Chores:   infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// UpdateChore updates a chore's fields. Nil inputs are left unchanged.
func (s *ChoreService) UpdateChore(ctx context.Context, input UpdateChoreInput) (*ChoreInfo, error) {
	c, err := s.choreRepo.FindByID(ctx, input.ChoreID)
	if err != nil {
		return nil, shared.NewDomainError("CHORE_NOT_FOUND", "Chore not found")
	}

	if input.Name != nil || input.Description != nil || input.Icon != nil {
		name := c.Name
		if input.Name != nil {
			name = *input.Name
		}
		description := c.Description
		if input.Description != nil {
			description = *input.Description
		}
		icon := c.Icon
		if input.Icon != nil {
			icon = *input.Icon
		}
		if err := c.Update(name, description, icon); err != nil {
			return nil, err
		}
	}
	if input.Points != nil {
		if err := c.SetPoints(*input.Points); err != nil {
			return nil, err
		}
	}
	if input.Recurrence != nil {
		if err := c.SetRecurrence(*input.Recurrence); err != nil {
			return nil, err
		}
	}
	if input.DueAt != nil {
		c.SetDueAt(input.DueAt)
	}

	if err := s.choreRepo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update chore", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update chore")
	}

	info := toChoreInfo(c, time.Now())
	return &info, nil
}

// AssignChore assigns a chore to a member, or clears the assignment
func (s *ChoreService) AssignChore(ctx context.Context, input AssignChoreInput) error {
	c, err := s.choreRepo.FindByID(ctx, input.ChoreID)
	if err != nil {
		return shared.NewDomainError("CHORE_NOT_FOUND", "Chore not found")
	}

	c.Assign(input.AssignedTo)
	if err := s.choreRepo.Update(ctx, c); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to assign chore")
	}
	return nil
}

// CompleteChore records a completion and publishes the completion event.
// The returned record shows zero points; the award lands asynchronously.
func (s *ChoreService) CompleteChore(ctx context.Context, input CompleteChoreInput) (*CompletionInfo, error) {
	c, err := s.choreRepo.FindByID(ctx, input.ChoreID)
	if err != nil {
		return nil, shared.NewDomainError("CHORE_NOT_FOUND", "Chore not found")
	}

	completedAt := time.Now()
	if input.CompletedAt != nil {
		completedAt = *input.CompletedAt
		if completedAt.After(time.Now()) {
			return nil, shared.NewDomainError("INVALID_COMPLETION_TIME", "Completion time cannot be in the future")
		}
	}

	completion, err := c.Complete(input.UserID, completedAt)
	if err != nil {
		return nil, err
	}
	if input.Note != "" {
		if err := completion.SetNote(input.Note); err != nil {
			return nil, err
		}
	}

	if err := s.completionRepo.Create(ctx, completion); err != nil {
		s.logger.Error("failed to create completion", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record completion")
	}
	if err := s.choreRepo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update chore after completion", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record completion")
	}

	if err := s.eventPublisher.Publish(ctx, c.GetDomainEvents()...); err != nil {
		// The completion is already persisted, don't fail it
		s.logger.Error("failed to publish completion event",
			zap.String("completion_id", completion.ID.String()),
			zap.Error(err))
	}
	c.ClearDomainEvents()

	s.logger.Info("chore completed",
		zap.String("chore_id", c.ID.String()),
		zap.String("completion_id", completion.ID.String()),
		zap.String("completed_by", input.UserID.String()))

	info := toCompletionInfo(completion)
	return &info, nil
}

// ListCompletions returns a chore's completion history, newest first
func (s *ChoreService) ListCompletions(ctx context.Context, choreID uuid.UUID, limit int) ([]CompletionInfo, error) {
	if _, err := s.choreRepo.FindByID(ctx, choreID); err != nil {
		return nil, shared.NewDomainError("CHORE_NOT_FOUND", "Chore not found")
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	completions, err := s.completionRepo.FindByChoreID(ctx, choreID, limit)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list completions")
	}

	infos := make([]CompletionInfo, 0, len(completions))
	for _, completion := range completions {
		infos = append(infos, toCompletionInfo(completion))
	}
	return infos, nil
}

// PauseChore pauses a chore so it stops coming due
func (s *ChoreService) PauseChore(ctx context.Context, choreID uuid.UUID) error {
	return s.transition(ctx, choreID, (*chore.Chore).Pause)
}

// ResumeChore resumes a paused chore
func (s *ChoreService) ResumeChore(ctx context.Context, choreID uuid.UUID) error {
	return s.transition(ctx, choreID, (*chore.Chore).Resume)
}

// ArchiveChore archives a chore, keeping its completion history
func (s *ChoreService) ArchiveChore(ctx context.Context, choreID uuid.UUID) error {
	return s.transition(ctx, choreID, (*chore.Chore).Archive)
}

// DeleteChore permanently deletes a chore
func (s *ChoreService) DeleteChore(ctx context.Context, choreID uuid.UUID) error {
	if _, err := s.choreRepo.FindByID(ctx, choreID); err != nil {
		return shared.NewDomainError("CHORE_NOT_FOUND", "Chore not found")
	}

	if err := s.choreRepo.Delete(ctx, choreID); err != nil {
		s.logger.Error("failed to delete chore", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete chore")
	}

	s.logger.Info("chore deleted", zap.String("chore_id", choreID.String()))
	return nil
}

// FindOverdue returns active chores past due at the given time. Used by
// the scheduler to send overdue notifications.
func (s *ChoreService) FindOverdue(ctx context.Context, now time.Time) ([]ChoreInfo, error) {
	chores, err := s.choreRepo.FindDueBefore(ctx, now)
	if err != nil {
		return nil, err
	}

	infos := make([]ChoreInfo, 0, len(chores))
	for _, c := range chores {
		infos = append(infos, toChoreInfo(c, now))
	}
	return infos, nil
}

func (s *ChoreService) transition(ctx context.Context, choreID uuid.UUID, op func(*chore.Chore) error) error {
	c, err := s.choreRepo.FindByID(ctx, choreID)
	if err != nil {
		return shared.NewDomainError("CHORE_NOT_FOUND", "Chore not found")
	}

	if err := op(c); err != nil {
		return err
	}
	if err := s.choreRepo.Update(ctx, c); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update chore")
	}
	return nil
}
