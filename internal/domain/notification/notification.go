package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// NotificationType categorizes in-app notifications
type NotificationType string

const (
	TypeMemberJoined   NotificationType = "member_joined"
	TypePointsAwarded  NotificationType = "points_awarded"
	TypeChoreAssigned  NotificationType = "chore_assigned"
	TypeChoreOverdue   NotificationType = "chore_overdue"
	TypeBudgetExceeded NotificationType = "budget_exceeded"
	TypeMessageSent    NotificationType = "message_sent"
	TypePlanChanged    NotificationType = "plan_changed"
)

// Notification is an in-app notification row for one recipient
type Notification struct {
	shared.SpaceAggregateRoot
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type        NotificationType `gorm:"type:varchar(30);not null"`
	Title       string           `gorm:"type:varchar(200);not null"`
	Body        string           `gorm:"type:text"`
	ReferenceID *uuid.UUID       `gorm:"type:uuid"`
	ReadAt      *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a notification for a recipient
func NewNotification(spaceID, recipientID uuid.UUID, nType NotificationType, title, body string) (*Notification, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient ID cannot be empty")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	if len(title) > 200 {
		title = title[:200]
	}

	return &Notification{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		RecipientID:        recipientID,
		Type:               nType,
		Title:              title,
		Body:               strings.TrimSpace(body),
	}, nil
}

// WithReference attaches the ID of the entity the notification points at
func (n *Notification) WithReference(id uuid.UUID) *Notification {
	n.ReferenceID = &id
	return n
}

// MarkRead marks the notification as read. Marking twice is a no-op.
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}

	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now
	n.IncrementVersion()
}

// IsRead returns whether the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
