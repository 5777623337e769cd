package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/messaging"
)

// MessageHandler handles space chat HTTP requests
type MessageHandler struct {
	BaseHandler
	messagingService *messaging.MessagingService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messagingService *messaging.MessagingService) *MessageHandler {
	return &MessageHandler{
		messagingService: messagingService,
	}
}

// SendMessage godoc
// @Summary      Send a chat message
// @Description  Post a message to the space chat; broadcast to connected members
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request body messaging.SendMessageInput true "Message body"
// @Success      201 {object} dto.Response{data=messaging.MessageInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
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

	var input messaging.SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID
	input.SenderID = userID

	info, err := h.messagingService.SendMessage(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// ListMessages godoc
// @Summary      List chat messages
// @Description  Page backwards through the space chat, newest first; use next_cursor as the before param
// @Tags         messages
// @Produce      json
// @Param        before query string false "Cursor (RFC3339); omit for most recent"
// @Param        limit query int false "Page size (1-100)"
// @Success      200 {object} dto.Response{data=messaging.MessageListResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input messaging.ListMessagesInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	input.SpaceID = spaceID

	result, err := h.messagingService.ListMessages(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// EditMessage godoc
// @Summary      Edit a message
// @Description  Replace the body of the caller's own message within the edit window
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id path string true "Message ID"
// @Param        request body messaging.EditMessageInput true "New body"
// @Success      200 {object} dto.Response{data=messaging.MessageInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messages/{id} [put]
func (h *MessageHandler) EditMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	var input messaging.EditMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.MessageID = messageID
	input.EditorID = userID

	info, err := h.messagingService.EditMessage(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// DeleteMessage godoc
// @Summary      Delete a message
// @Description  Soft-delete the caller's own message; admins pass force=true to remove any message
// @Tags         messages
// @Produce      json
// @Param        id path string true "Message ID"
// @Param        force query bool false "Admin force delete"
// @Success      204 "No Content"
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	force := c.Query("force") == "true"

	if err := h.messagingService.DeleteMessage(c.Request.Context(), messageID, userID, force); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
