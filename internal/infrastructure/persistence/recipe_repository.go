package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/meal"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRecipeRepository implements RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// Create creates a new recipe
func (r *GormRecipeRepository) Create(ctx context.Context, recipe *meal.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// Update updates an existing recipe
func (r *GormRecipeRepository) Update(ctx context.Context, recipe *meal.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

// Delete deletes a recipe by ID
func (r *GormRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&meal.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a recipe by ID
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*meal.Recipe, error) {
	var recipe meal.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// FindByIDs finds recipes by a set of IDs
func (r *GormRecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*meal.Recipe, error) {
	if len(ids) == 0 {
		return []*meal.Recipe{}, nil
	}
	var recipes []*meal.Recipe
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindBySpaceID returns recipes in a space, optionally filtered by
// keyword against name and tags
func (r *GormRecipeRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID, keyword string, page, pageSize int) ([]*meal.Recipe, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&meal.Recipe{}).
		Where("space_id = ?", spaceID)
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR tags LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var recipes []*meal.Recipe
	if err := query.
		Order("name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// Ensure GormRecipeRepository implements RecipeRepository
var _ meal.RecipeRepository = (*GormRecipeRepository)(nil)
