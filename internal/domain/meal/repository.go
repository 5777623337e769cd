package meal

import (
	"context"

	"github.com/google/uuid"
)

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	// Create creates a new recipe
	Create(ctx context.Context, r *Recipe) error

	// Update updates an existing recipe
	Update(ctx context.Context, r *Recipe) error

	// Delete deletes a recipe by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a recipe by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Recipe, error)

	// FindByIDs finds recipes by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Recipe, error)

	// FindBySpaceID returns recipes in a space, optionally filtered by
	// keyword against name and tags
	FindBySpaceID(ctx context.Context, spaceID uuid.UUID, keyword string, page, pageSize int) ([]*Recipe, int64, error)
}

// MealPlanRepository defines the interface for meal plan persistence
type MealPlanRepository interface {
	// Create creates a new meal plan
	Create(ctx context.Context, p *MealPlan) error

	// Update updates an existing meal plan
	Update(ctx context.Context, p *MealPlan) error

	// Delete deletes a meal plan by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a meal plan by ID
	FindByID(ctx context.Context, id uuid.UUID) (*MealPlan, error)

	// FindByWeek finds the plan for a space and ISO week
	FindByWeek(ctx context.Context, spaceID uuid.UUID, year, week int) (*MealPlan, error)
}
