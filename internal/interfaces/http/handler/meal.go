package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/meal"
)

// MealHandler handles recipe and meal plan HTTP requests
type MealHandler struct {
	BaseHandler
	mealService *meal.MealService
}

// NewMealHandler creates a new meal handler
func NewMealHandler(mealService *meal.MealService) *MealHandler {
	return &MealHandler{
		mealService: mealService,
	}
}

// CreateRecipe godoc
// @Summary      Create a recipe
// @Tags         meals
// @Accept       json
// @Produce      json
// @Param        request body meal.CreateRecipeInput true "Recipe details"
// @Success      201 {object} dto.Response{data=meal.RecipeInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /meals/recipes [post]
func (h *MealHandler) CreateRecipe(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input meal.CreateRecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID

	info, err := h.mealService.CreateRecipe(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// ListRecipes godoc
// @Summary      List recipes
// @Tags         meals
// @Produce      json
// @Param        keyword query string false "Search keyword"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]meal.RecipeInfo}
// @Security     BearerAuth
// @Router       /meals/recipes [get]
func (h *MealHandler) ListRecipes(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input meal.ListRecipesInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	input.SpaceID = spaceID

	result, err := h.mealService.ListRecipes(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Recipes, result.Total, result.Page, result.PageSize)
}

// GetRecipe godoc
// @Summary      Get a recipe
// @Tags         meals
// @Produce      json
// @Param        id path string true "Recipe ID"
// @Success      200 {object} dto.Response{data=meal.RecipeInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /meals/recipes/{id} [get]
func (h *MealHandler) GetRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	info, err := h.mealService.GetRecipe(c.Request.Context(), recipeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UpdateRecipe godoc
// @Summary      Update a recipe
// @Tags         meals
// @Accept       json
// @Produce      json
// @Param        id path string true "Recipe ID"
// @Param        request body meal.UpdateRecipeInput true "Fields to update"
// @Success      200 {object} dto.Response{data=meal.RecipeInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /meals/recipes/{id} [put]
func (h *MealHandler) UpdateRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	var input meal.UpdateRecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.RecipeID = recipeID

	info, err := h.mealService.UpdateRecipe(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// DeleteRecipe godoc
// @Summary      Delete a recipe
// @Description  Delete a recipe that no meal plan references
// @Tags         meals
// @Produce      json
// @Param        id path string true "Recipe ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /meals/recipes/{id} [delete]
func (h *MealHandler) DeleteRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid recipe ID")
		return
	}

	if err := h.mealService.DeleteRecipe(c.Request.Context(), recipeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// weekParams parses year/week query params, defaulting to the current ISO week
func weekParams(c *gin.Context) (int, int) {
	year, _ := strconv.Atoi(c.Query("year"))
	week, _ := strconv.Atoi(c.Query("week"))
	return year, week
}

// GetWeekPlan godoc
// @Summary      Get a week's meal plan
// @Description  Get the plan for an ISO week; empty plan when nothing is scheduled
// @Tags         meals
// @Produce      json
// @Param        year query int true "ISO year"
// @Param        week query int true "ISO week (1-53)"
// @Success      200 {object} dto.Response{data=meal.WeekPlanInfo}
// @Security     BearerAuth
// @Router       /meals/plan [get]
func (h *MealHandler) GetWeekPlan(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	year, week := weekParams(c)

	info, err := h.mealService.GetWeekPlan(c.Request.Context(), spaceID, year, week)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// SetPlanEntry godoc
// @Summary      Schedule a recipe
// @Description  Put a recipe into a weekday/slot of the week's plan, replacing any existing entry
// @Tags         meals
// @Accept       json
// @Produce      json
// @Param        request body meal.SetPlanEntryInput true "Plan entry"
// @Success      200 {object} dto.Response{data=meal.WeekPlanInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /meals/plan/entries [put]
func (h *MealHandler) SetPlanEntry(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input meal.SetPlanEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID

	info, err := h.mealService.SetPlanEntry(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ClearPlanEntry godoc
// @Summary      Clear a plan slot
// @Tags         meals
// @Accept       json
// @Produce      json
// @Param        request body meal.ClearPlanEntryInput true "Slot to clear"
// @Success      200 {object} dto.Response{data=meal.WeekPlanInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /meals/plan/entries [delete]
func (h *MealHandler) ClearPlanEntry(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input meal.ClearPlanEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID

	info, err := h.mealService.ClearPlanEntry(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// GetShoppingList godoc
// @Summary      Get a week's shopping list
// @Description  Aggregate ingredients across the week's planned recipes
// @Tags         meals
// @Produce      json
// @Param        year query int true "ISO year"
// @Param        week query int true "ISO week (1-53)"
// @Success      200 {object} dto.Response{data=meal.ShoppingListResult}
// @Security     BearerAuth
// @Router       /meals/plan/shopping-list [get]
func (h *MealHandler) GetShoppingList(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	year, week := weekParams(c)

	result, err := h.mealService.GetShoppingList(c.Request.Context(), spaceID, year, week)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
