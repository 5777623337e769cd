package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/chore"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCompletionRepository implements CompletionRepository using GORM
type GormCompletionRepository struct {
	db *gorm.DB
}

// NewGormCompletionRepository creates a new GormCompletionRepository
func NewGormCompletionRepository(db *gorm.DB) *GormCompletionRepository {
	return &GormCompletionRepository{db: db}
}

// Create creates a new completion record
func (r *GormCompletionRepository) Create(ctx context.Context, c *chore.Completion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update updates an existing completion record
func (r *GormCompletionRepository) Update(ctx context.Context, c *chore.Completion) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// FindByID finds a completion by ID
func (r *GormCompletionRepository) FindByID(ctx context.Context, id uuid.UUID) (*chore.Completion, error) {
	var c chore.Completion
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByChoreID returns completions for a chore, newest first
func (r *GormCompletionRepository) FindByChoreID(ctx context.Context, choreID uuid.UUID, limit int) ([]*chore.Completion, error) {
	var completions []*chore.Completion
	if err := r.db.WithContext(ctx).
		Where("chore_id = ?", choreID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

// FindByUser returns a user's completions in a time range, newest first
func (r *GormCompletionRepository) FindByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*chore.Completion, error) {
	var completions []*chore.Completion
	if err := r.db.WithContext(ctx).
		Where("completed_by = ? AND completed_at >= ? AND completed_at < ?", userID, from, to).
		Order("completed_at DESC").
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

// CountByUserSince counts a user's completions since the given time
func (r *GormCompletionRepository) CountByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&chore.Completion{}).
		Where("completed_by = ? AND completed_at >= ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormCompletionRepository implements CompletionRepository
var _ chore.CompletionRepository = (*GormCompletionRepository)(nil)
