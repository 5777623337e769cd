package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/budget"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBudgetRepository implements BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// Create creates a new budget
func (r *GormBudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// Update updates an existing budget
func (r *GormBudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// Delete deletes a budget by ID
func (r *GormBudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&budget.Budget{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a budget by ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	var b budget.Budget
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindBySpaceID returns budgets in a space, active first
func (r *GormBudgetRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID, includeArchived bool) ([]*budget.Budget, error) {
	query := r.db.WithContext(ctx).Where("space_id = ?", spaceID)
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}

	var budgets []*budget.Budget
	if err := query.
		Order("archived ASC, category ASC").
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// FindBySpaceAndCategory finds the active budget for a category
func (r *GormBudgetRepository) FindBySpaceAndCategory(ctx context.Context, spaceID uuid.UUID, category string) (*budget.Budget, error) {
	var b budget.Budget
	if err := r.db.WithContext(ctx).
		Where("space_id = ? AND category = ? AND archived = ?", spaceID, category, false).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Ensure GormBudgetRepository implements BudgetRepository
var _ budget.BudgetRepository = (*GormBudgetRepository)(nil)
