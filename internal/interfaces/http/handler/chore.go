package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/chore"
)

// ChoreHandler handles chore HTTP requests
type ChoreHandler struct {
	BaseHandler
	choreService *chore.ChoreService
}

// NewChoreHandler creates a new chore handler
func NewChoreHandler(choreService *chore.ChoreService) *ChoreHandler {
	return &ChoreHandler{
		choreService: choreService,
	}
}

// CreateChore godoc
// @Summary      Create a chore
// @Description  Create a chore in the active space, optionally assigned and recurring
// @Tags         chores
// @Accept       json
// @Produce      json
// @Param        request body chore.CreateChoreInput true "Chore details"
// @Success      201 {object} dto.Response{data=chore.ChoreInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores [post]
func (h *ChoreHandler) CreateChore(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input chore.CreateChoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID

	info, err := h.choreService.CreateChore(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// ListChores godoc
// @Summary      List chores
// @Description  List chores in the active space with optional filters
// @Tags         chores
// @Produce      json
// @Param        keyword query string false "Search keyword"
// @Param        status query string false "Chore status filter"
// @Param        assigned_to query string false "Assignee user ID"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]chore.ChoreInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores [get]
func (h *ChoreHandler) ListChores(c *gin.Context) {
	var input chore.ListChoresInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.choreService.ListChores(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Chores, result.Total, result.Page, result.PageSize)
}

// GetChore godoc
// @Summary      Get a chore
// @Tags         chores
// @Produce      json
// @Param        id path string true "Chore ID"
// @Success      200 {object} dto.Response{data=chore.ChoreInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores/{id} [get]
func (h *ChoreHandler) GetChore(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid chore ID")
		return
	}

	info, err := h.choreService.GetChore(c.Request.Context(), choreID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UpdateChore godoc
// @Summary      Update a chore
// @Description  Update a chore's fields; only provided fields change
// @Tags         chores
// @Accept       json
// @Produce      json
// @Param        id path string true "Chore ID"
// @Param        request body chore.UpdateChoreInput true "Fields to update"
// @Success      200 {object} dto.Response{data=chore.ChoreInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores/{id} [put]
func (h *ChoreHandler) UpdateChore(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid chore ID")
		return
	}

	var input chore.UpdateChoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.ChoreID = choreID

	info, err := h.choreService.UpdateChore(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// AssignChore godoc
// @Summary      Assign a chore
// @Description  Assign the chore to a member, or clear the assignment
// @Tags         chores
// @Accept       json
// @Produce      json
// @Param        id path string true "Chore ID"
// @Param        request body chore.AssignChoreInput true "Assignee (null to clear)"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores/{id}/assign [put]
func (h *ChoreHandler) AssignChore(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid chore ID")
		return
	}

	var input chore.AssignChoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.ChoreID = choreID

	if err := h.choreService.AssignChore(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Chore assigned"})
}

// CompleteChore godoc
// @Summary      Complete a chore
// @Description  Record a completion for the chore; points are awarded asynchronously
// @Tags         chores
// @Accept       json
// @Produce      json
// @Param        id path string true "Chore ID"
// @Param        request body chore.CompleteChoreInput false "Completion details"
// @Success      201 {object} dto.Response{data=chore.CompletionInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores/{id}/complete [post]
func (h *ChoreHandler) CompleteChore(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	choreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid chore ID")
		return
	}

	// Body is optional; an empty completion is valid
	var input chore.CompleteChoreInput
	_ = c.ShouldBindJSON(&input)
	input.ChoreID = choreID
	input.UserID = userID

	info, err := h.choreService.CompleteChore(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// ListCompletions godoc
// @Summary      List completions
// @Description  List recent completion records for the chore
// @Tags         chores
// @Produce      json
// @Param        id path string true "Chore ID"
// @Param        limit query int false "Maximum records to return"
// @Success      200 {object} dto.Response{data=[]chore.CompletionInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores/{id}/completions [get]
func (h *ChoreHandler) ListCompletions(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid chore ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	completions, err := h.choreService.ListCompletions(c.Request.Context(), choreID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, completions)
}

// PauseChore godoc
// @Summary      Pause a chore
// @Description  Pause the chore so it stops generating due dates
// @Tags         chores
// @Produce      json
// @Param        id path string true "Chore ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores/{id}/pause [post]
func (h *ChoreHandler) PauseChore(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid chore ID")
		return
	}

	if err := h.choreService.PauseChore(c.Request.Context(), choreID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Chore paused"})
}

// ResumeChore godoc
// @Summary      Resume a chore
// @Tags         chores
// @Produce      json
// @Param        id path string true "Chore ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores/{id}/resume [post]
func (h *ChoreHandler) ResumeChore(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid chore ID")
		return
	}

	if err := h.choreService.ResumeChore(c.Request.Context(), choreID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Chore resumed"})
}

// ArchiveChore godoc
// @Summary      Archive a chore
// @Description  Archive the chore; its history remains for analytics
// @Tags         chores
// @Produce      json
// @Param        id path string true "Chore ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores/{id}/archive [post]
func (h *ChoreHandler) ArchiveChore(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid chore ID")
		return
	}

	if err := h.choreService.ArchiveChore(c.Request.Context(), choreID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeleteChore godoc
// @Summary      Delete a chore
// @Description  Permanently delete a chore that has no completion history
// @Tags         chores
// @Produce      json
// @Param        id path string true "Chore ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /chores/{id} [delete]
func (h *ChoreHandler) DeleteChore(c *gin.Context) {
	choreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid chore ID")
		return
	}

	if err := h.choreService.DeleteChore(c.Request.Context(), choreID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
