package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/meal"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMealPlanRepository implements MealPlanRepository using GORM
type GormMealPlanRepository struct {
	db *gorm.DB
}

// NewGormMealPlanRepository creates a new GormMealPlanRepository
func NewGormMealPlanRepository(db *gorm.DB) *GormMealPlanRepository {
	return &GormMealPlanRepository{db: db}
}

// Create creates a new meal plan
func (r *GormMealPlanRepository) Create(ctx context.Context, p *meal.MealPlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update updates an existing meal plan
func (r *GormMealPlanRepository) Update(ctx context.Context, p *meal.MealPlan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete deletes a meal plan by ID
func (r *GormMealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&meal.MealPlan{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a meal plan by ID
func (r *GormMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*meal.MealPlan, error) {
	var p meal.MealPlan
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByWeek finds the plan for a space and ISO week
func (r *GormMealPlanRepository) FindByWeek(ctx context.Context, spaceID uuid.UUID, year, week int) (*meal.MealPlan, error) {
	var p meal.MealPlan
	if err := r.db.WithContext(ctx).
		Where("space_id = ? AND year = ? AND week = ?", spaceID, year, week).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Ensure GormMealPlanRepository implements MealPlanRepository
var _ meal.MealPlanRepository = (*GormMealPlanRepository)(nil)
