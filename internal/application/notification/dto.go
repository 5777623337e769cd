package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/notification"
)

// ListNotificationsInput contains filter options for listing notifications
type ListNotificationsInput struct {
	SpaceID     uuid.UUID
	RecipientID uuid.UUID
	UnreadOnly  bool `form:"unread_only"`
	Limit       int  `form:"limit" binding:"omitempty,min=1,max=100"`
}

// NotificationInfo is the API representation of a notification
type NotificationInfo struct {
	ID          uuid.UUID                     `json:"id"`
	Type        notification.NotificationType `json:"type"`
	Title       string                        `json:"title"`
	Body        string                        `json:"body,omitempty"`
	ReferenceID *uuid.UUID                    `json:"reference_id,omitempty"`
	Read        bool                          `json:"read"`
	CreatedAt   time.Time                     `json:"created_at"`
}

func toNotificationInfo(n *notification.Notification) NotificationInfo {
	return NotificationInfo{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Body:        n.Body,
		ReferenceID: n.ReferenceID,
		Read:        n.IsRead(),
		CreatedAt:   n.CreatedAt,
	}
}
