package meal

import (
	"context"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/meal"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MealService manages recipes, weekly plans and shopping lists. Planning
// operations run through the feature guard so plan rows in the database
// can switch the feature off per plan.
type MealService struct {
	recipeRepo meal.RecipeRepository
	planRepo   meal.MealPlanRepository
	guard      *appbilling.FeatureGuard
	logger     *zap.Logger
}

// NewMealService creates a new meal service
func NewMealService(
	recipeRepo meal.RecipeRepository,
	planRepo meal.MealPlanRepository,
	guard *appbilling.FeatureGuard,
	logger *zap.Logger,
) *MealService {
	return &MealService{
		recipeRepo: recipeRepo,
		planRepo:   planRepo,
		guard:      guard,
		logger:     logger,
	}
}

// CreateRecipe creates a recipe
func (s *MealService) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*RecipeInfo, error) {
	r, err := meal.NewRecipe(input.SpaceID, input.Name, input.Servings)
	if err != nil {
		return nil, err
	}
	if input.Instructions != "" || input.PrepMinutes > 0 {
		if err := r.Update(r.Name, input.Instructions, r.Servings, input.PrepMinutes); err != nil {
			return nil, err
		}
	}
	if len(input.Ingredients) > 0 {
		if err := r.SetIngredients(input.Ingredients); err != nil {
			return nil, err
		}
	}
	if len(input.Tags) > 0 {
		r.SetTags(input.Tags)
	}

	if err := s.recipeRepo.Create(ctx, r); err != nil {
		s.logger.Error("failed to create recipe", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create recipe")
	}

	s.logger.Info("recipe created",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("recipe_id", r.ID.String()))

	info := toRecipeInfo(r)
	return &info, nil
}

// GetRecipe returns a single recipe
func (s *MealService) GetRecipe(ctx context.Context, recipeID uuid.UUID) (*RecipeInfo, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, shared.NewDomainError("RECIPE_NOT_FOUND", "Recipe not found")
	}

	info := toRecipeInfo(r)
	return &info, nil
}

// ListRecipes returns recipes in a space, paginated
func (s *MealService) ListRecipes(ctx context.Context, input ListRecipesInput) (*RecipeListResult, error) {
	page := input.Page
	if page <= 0 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	recipes, total, err := s.recipeRepo.FindBySpaceID(ctx, input.SpaceID, input.Keyword, page, pageSize)
	if err != nil {
		s.logger.Error("failed to list recipes", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list recipes")
	}

	infos := make([]RecipeInfo, 0, len(recipes))
	for _, r := range recipes {
		infos = append(infos, toRecipeInfo(r))
	}

	return &RecipeListResult{
		Recipes:  infos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateRecipe updates a recipe's fields. Nil inputs are left unchanged.
func (s *MealService) UpdateRecipe(ctx context.Context, input UpdateRecipeInput) (*RecipeInfo, error) {
	r, err := s.recipeRepo.FindByID(ctx, input.RecipeID)
	if err != nil {
		return nil, shared.NewDomainError("RECIPE_NOT_FOUND", "Recipe not found")
	}

	name := r.Name
	if input.Name != nil {
		name = *input.Name
	}
	instructions := r.Instructions
	if input.Instructions != nil {
		instructions = *input.Instructions
	}
	servings := r.Servings
	if input.Servings != nil {
		servings = *input.Servings
	}
	prepMinutes := r.PrepMinutes
	if input.PrepMinutes != nil {
		prepMinutes = *input.PrepMinutes
	}
	if err := r.Update(name, instructions, servings, prepMinutes); err != nil {
		return nil, err
	}
	if input.Ingredients != nil {
		if err := r.SetIngredients(*input.Ingredients); err != nil {
			return nil, err
		}
	}
	if input.Tags != nil {
		r.SetTags(*input.Tags)
	}

	if err := s.recipeRepo.Update(ctx, r); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update recipe")
	}

	info := toRecipeInfo(r)
	return &info, nil
}

// DeleteRecipe deletes a recipe. Plan entries referencing it keep their
// recipe ID; the plan view simply shows them as unknown.
func (s *MealService) DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error {
	if _, err := s.recipeRepo.FindByID(ctx, recipeID); err != nil {
		return shared.NewDomainError("RECIPE_NOT_FOUND", "Recipe not found")
	}
	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete recipe")
	}
	return nil
}

// GetWeekPlan returns the plan for a week with recipe names resolved. A
// week with no plan yet returns an empty plan rather than an error.
func (s *MealService) GetWeekPlan(ctx context.Context, spaceID uuid.UUID, year, week int) (*WeekPlanInfo, error) {
	plan, err := s.planRepo.FindByWeek(ctx, spaceID, year, week)
	if err != nil {
		return &WeekPlanInfo{Year: year, Week: week, Entries: []PlanEntryInfo{}}, nil
	}
	return s.toWeekPlanInfo(ctx, plan)
}

// SetPlanEntry assigns a recipe to a weekday and slot, creating the
// week's plan on first use
func (s *MealService) SetPlanEntry(ctx context.Context, input SetPlanEntryInput) (*WeekPlanInfo, error) {
	if err := s.guard.RequireFeature(ctx, input.SpaceID, billing.FeatureMealPlanning); err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepo.FindByID(ctx, input.RecipeID)
	if err != nil {
		return nil, shared.NewDomainError("RECIPE_NOT_FOUND", "Recipe not found")
	}
	if recipe.SpaceID != input.SpaceID {
		return nil, shared.ErrForbidden
	}

	plan, err := s.planRepo.FindByWeek(ctx, input.SpaceID, input.Year, input.Week)
	created := false
	if err != nil {
		plan, err = meal.NewMealPlan(input.SpaceID, input.Year, input.Week)
		if err != nil {
			return nil, err
		}
		created = true
	}

	if err := plan.SetEntry(input.Weekday, input.Slot, input.RecipeID, input.Note); err != nil {
		return nil, err
	}

	if created {
		err = s.planRepo.Create(ctx, plan)
	} else {
		err = s.planRepo.Update(ctx, plan)
	}
	if err != nil {
		s.logger.Error("failed to save meal plan", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save meal plan")
	}

	return s.toWeekPlanInfo(ctx, plan)
}

// ClearPlanEntry removes a slot assignment from a week's plan
func (s *MealService) ClearPlanEntry(ctx context.Context, input ClearPlanEntryInput) (*WeekPlanInfo, error) {
	if err := s.guard.RequireFeature(ctx, input.SpaceID, billing.FeatureMealPlanning); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByWeek(ctx, input.SpaceID, input.Year, input.Week)
	if err != nil {
		return nil, shared.NewDomainError("PLAN_NOT_FOUND", "No plan exists for this week")
	}

	if err := plan.ClearEntry(input.Weekday, input.Slot); err != nil {
		return nil, shared.NewDomainError("ENTRY_NOT_FOUND", "No entry exists for this slot")
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save meal plan")
	}

	return s.toWeekPlanInfo(ctx, plan)
}

// GetShoppingList aggregates the ingredient lists of a week's planned
// recipes into one shopping list
func (s *MealService) GetShoppingList(ctx context.Context, spaceID uuid.UUID, year, week int) (*ShoppingListResult, error) {
	if err := s.guard.RequireFeature(ctx, spaceID, billing.FeatureMealPlanning); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByWeek(ctx, spaceID, year, week)
	if err != nil {
		return &ShoppingListResult{Year: year, Week: week, Items: []meal.ShoppingItem{}}, nil
	}

	recipes, err := s.recipeRepo.FindByIDs(ctx, plan.RecipeIDs())
	if err != nil {
		s.logger.Error("failed to load plan recipes", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build shopping list")
	}

	return &ShoppingListResult{
		Year:  year,
		Week:  week,
		Items: meal.BuildShoppingList(recipes),
	}, nil
}

func (s *MealService) toWeekPlanInfo(ctx context.Context, plan *meal.MealPlan) (*WeekPlanInfo, error) {
	names := make(map[uuid.UUID]string)
	if ids := plan.RecipeIDs(); len(ids) > 0 {
		recipes, err := s.recipeRepo.FindByIDs(ctx, ids)
		if err != nil {
			s.logger.Warn("failed to resolve plan recipe names", zap.Error(err))
		} else {
			for _, r := range recipes {
				names[r.ID] = r.Name
			}
		}
	}

	entries := make([]PlanEntryInfo, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		entries = append(entries, PlanEntryInfo{
			Weekday:    e.Weekday,
			Slot:       e.Slot,
			RecipeID:   e.RecipeID,
			RecipeName: names[e.RecipeID],
			Note:       e.Note,
		})
	}

	return &WeekPlanInfo{
		Year:    plan.Year,
		Week:    plan.Week,
		Entries: entries,
	}, nil
}
