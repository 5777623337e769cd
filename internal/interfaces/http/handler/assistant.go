package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/assistant"
)

// AssistantHandler handles AI companion HTTP requests
type AssistantHandler struct {
	BaseHandler
	assistantService *assistant.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService *assistant.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
	}
}

// Chat godoc
// @Summary      Chat with the assistant
// @Description  Send a prompt; omit conversation_id to start a new thread. Monthly quota applies per plan
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        request body assistant.ChatInput true "Prompt"
// @Success      200 {object} dto.Response{data=assistant.ChatResult}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assistant/chat [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input assistant.ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID
	input.UserID = userID

	result, err := h.assistantService.Chat(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListConversations godoc
// @Summary      List my conversations
// @Tags         assistant
// @Produce      json
// @Param        include_archived query bool false "Include archived conversations"
// @Success      200 {object} dto.Response{data=[]assistant.ConversationInfo}
// @Security     BearerAuth
// @Router       /assistant/conversations [get]
func (h *AssistantHandler) ListConversations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	includeArchived := c.Query("include_archived") == "true"

	conversations, err := h.assistantService.ListConversations(c.Request.Context(), spaceID, userID, includeArchived)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, conversations)
}

// GetConversation godoc
// @Summary      Get a conversation
// @Description  Get a conversation with its full message history, oldest first
// @Tags         assistant
// @Produce      json
// @Param        id path string true "Conversation ID"
// @Success      200 {object} dto.Response{data=assistant.ConversationDetail}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assistant/conversations/{id} [get]
func (h *AssistantHandler) GetConversation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID")
		return
	}

	detail, err := h.assistantService.GetConversation(c.Request.Context(), conversationID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, detail)
}

// ArchiveConversation godoc
// @Summary      Archive a conversation
// @Tags         assistant
// @Produce      json
// @Param        id path string true "Conversation ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assistant/conversations/{id}/archive [post]
func (h *AssistantHandler) ArchiveConversation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID")
		return
	}

	if err := h.assistantService.ArchiveConversation(c.Request.Context(), conversationID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeleteConversation godoc
// @Summary      Delete a conversation
// @Description  Remove the conversation and its messages permanently
// @Tags         assistant
// @Produce      json
// @Param        id path string true "Conversation ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /assistant/conversations/{id} [delete]
func (h *AssistantHandler) DeleteConversation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid conversation ID")
		return
	}

	if err := h.assistantService.DeleteConversation(c.Request.Context(), conversationID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
