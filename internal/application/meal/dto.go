package meal

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/meal"
)

// CreateRecipeInput contains input for creating a recipe
type CreateRecipeInput struct {
	SpaceID      uuid.UUID
	Name         string            `json:"name" binding:"required,max=200"`
	Instructions string            `json:"instructions"`
	Servings     int               `json:"servings" binding:"omitempty,min=1"`
	PrepMinutes  int               `json:"prep_minutes" binding:"omitempty,min=0"`
	Tags         []string          `json:"tags"`
	Ingredients  []meal.Ingredient `json:"ingredients"`
}

// UpdateRecipeInput contains input for updating a recipe. Nil fields are
// left unchanged.
type UpdateRecipeInput struct {
	RecipeID     uuid.UUID
	Name         *string            `json:"name" binding:"omitempty,max=200"`
	Instructions *string            `json:"instructions"`
	Servings     *int               `json:"servings" binding:"omitempty,min=1"`
	PrepMinutes  *int               `json:"prep_minutes" binding:"omitempty,min=0"`
	Tags         *[]string          `json:"tags"`
	Ingredients  *[]meal.Ingredient `json:"ingredients"`
}

// ListRecipesInput contains filter options for listing recipes
type ListRecipesInput struct {
	SpaceID  uuid.UUID
	Keyword  string `form:"keyword"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// RecipeInfo is the API representation of a recipe
type RecipeInfo struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Instructions string            `json:"instructions,omitempty"`
	Servings     int               `json:"servings"`
	PrepMinutes  int               `json:"prep_minutes"`
	Tags         []string          `json:"tags,omitempty"`
	Ingredients  []meal.Ingredient `json:"ingredients,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// RecipeListResult contains a page of recipes
type RecipeListResult struct {
	Recipes  []RecipeInfo `json:"recipes"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// SetPlanEntryInput assigns a recipe to a slot in a week's plan
type SetPlanEntryInput struct {
	SpaceID  uuid.UUID
	Year     int       `json:"year" binding:"required"`
	Week     int       `json:"week" binding:"required,min=1,max=53"`
	Weekday  int       `json:"weekday" binding:"required,min=1,max=7"`
	Slot     meal.Slot `json:"slot" binding:"required,oneof=breakfast lunch dinner"`
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Note     string    `json:"note" binding:"omitempty,max=200"`
}

// ClearPlanEntryInput removes a slot assignment from a week's plan
type ClearPlanEntryInput struct {
	SpaceID uuid.UUID
	Year    int       `json:"year" binding:"required"`
	Week    int       `json:"week" binding:"required,min=1,max=53"`
	Weekday int       `json:"weekday" binding:"required,min=1,max=7"`
	Slot    meal.Slot `json:"slot" binding:"required,oneof=breakfast lunch dinner"`
}

// PlanEntryInfo is one slot assignment with its recipe name resolved
type PlanEntryInfo struct {
	Weekday    int       `json:"weekday"`
	Slot       meal.Slot `json:"slot"`
	RecipeID   uuid.UUID `json:"recipe_id"`
	RecipeName string    `json:"recipe_name"`
	Note       string    `json:"note,omitempty"`
}

// WeekPlanInfo is the API representation of a week's meal plan
type WeekPlanInfo struct {
	Year    int             `json:"year"`
	Week    int             `json:"week"`
	Entries []PlanEntryInfo `json:"entries"`
}

// ShoppingListResult is the aggregated shopping list for a week
type ShoppingListResult struct {
	Year  int                 `json:"year"`
	Week  int                 `json:"week"`
	Items []meal.ShoppingItem `json:"items"`
}

func toRecipeInfo(r *meal.Recipe) RecipeInfo {
	return RecipeInfo{
		ID:           r.ID,
		Name:         r.Name,
		Instructions: r.Instructions,
		Servings:     r.Servings,
		PrepMinutes:  r.PrepMinutes,
		Tags:         r.TagList(),
		Ingredients:  r.Ingredients,
		CreatedAt:    r.CreatedAt,
	}
}
