package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/budget"
)

// BudgetHandler handles budget envelope HTTP requests
type BudgetHandler struct {
	BaseHandler
	budgetService *budget.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService *budget.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// CreateBudget godoc
// @Summary      Create a budget
// @Description  Create a spending envelope for a category with a periodic limit
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        request body budget.CreateBudgetInput true "Budget details"
// @Success      201 {object} dto.Response{data=budget.BudgetInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input budget.CreateBudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID

	info, err := h.budgetService.CreateBudget(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// ListBudgets godoc
// @Summary      List budgets
// @Description  List the space's budgets with current-period usage
// @Tags         budgets
// @Produce      json
// @Param        include_archived query bool false "Include archived budgets"
// @Success      200 {object} dto.Response{data=[]budget.BudgetInfo}
// @Security     BearerAuth
// @Router       /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	includeArchived := c.Query("include_archived") == "true"

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), spaceID, includeArchived)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, budgets)
}

// GetBudget godoc
// @Summary      Get a budget
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID"
// @Success      200 {object} dto.Response{data=budget.BudgetInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	info, err := h.budgetService.GetBudget(c.Request.Context(), budgetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UpdateBudget godoc
// @Summary      Update a budget
// @Description  Change a budget's name or limit; only provided fields change
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID"
// @Param        request body budget.UpdateBudgetInput true "Fields to update"
// @Success      200 {object} dto.Response{data=budget.BudgetInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	var input budget.UpdateBudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.BudgetID = budgetID

	info, err := h.budgetService.UpdateBudget(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ArchiveBudget godoc
// @Summary      Archive a budget
// @Description  Stop tracking the budget; recorded expenses are kept
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /budgets/{id} [delete]
func (h *BudgetHandler) ArchiveBudget(c *gin.Context) {
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	if err := h.budgetService.ArchiveBudget(c.Request.Context(), budgetID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
