package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/notification"
)

// NotificationHandler handles in-app notification HTTP requests
type NotificationHandler struct {
	BaseHandler
	notificationService *notification.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications godoc
// @Summary      List my notifications
// @Description  Newest first; filter to unread with unread_only
// @Tags         notifications
// @Produce      json
// @Param        unread_only query bool false "Unread notifications only"
// @Param        limit query int false "Max results (1-100)"
// @Success      200 {object} dto.Response{data=[]notification.NotificationInfo}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
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

	var input notification.ListNotificationsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	input.SpaceID = spaceID
	input.RecipientID = userID

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, notifications)
}

// unreadCountResponse carries the unread notification counter
type unreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// CountUnread godoc
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} dto.Response{data=unreadCountResponse}
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) CountUnread(c *gin.Context) {
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

	count, err := h.notificationService.CountUnread(c.Request.Context(), spaceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unreadCountResponse{Unread: count})
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      204 "No Content"
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
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

	if err := h.notificationService.MarkAllRead(c.Request.Context(), spaceID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
