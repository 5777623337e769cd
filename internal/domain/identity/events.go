package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeUser       = "User"
	AggregateTypeSpace      = "Space"
	AggregateTypeMembership = "Membership"
)

// Identity domain event types
const (
	EventTypeUserCreated          = "UserCreated"
	EventTypeUserDeactivated      = "UserDeactivated"
	EventTypeUserPasswordChanged  = "UserPasswordChanged"
	EventTypeSpaceCreated         = "SpaceCreated"
	EventTypeSpaceSettingsUpdated = "SpaceSettingsUpdated"
	EventTypeMemberJoined         = "MemberJoined"
	EventTypeMemberLeft           = "MemberLeft"
)

// UserCreatedEvent is published when a user registers
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Status   UserStatus `json:"status"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, uuid.Nil),
		Username:        user.Username,
		Email:           user.Email,
		Status:          user.Status,
	}
}

// UserDeactivatedEvent is published when a user is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, user.ID, uuid.Nil),
		Username:        user.Username,
	}
}

// UserPasswordChangedEvent is published when a user's password is changed
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Username  string    `json:"username"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	changedAt := time.Now()
	if user.PasswordChangedAt != nil {
		changedAt = *user.PasswordChangedAt
	}
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, user.ID, uuid.Nil),
		Username:        user.Username,
		ChangedAt:       changedAt,
	}
}

// SpaceCreatedEvent is published when a household space is created
type SpaceCreatedEvent struct {
	shared.BaseDomainEvent
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// NewSpaceCreatedEvent creates a new SpaceCreatedEvent
func NewSpaceCreatedEvent(space *Space) *SpaceCreatedEvent {
	return &SpaceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSpaceCreated, AggregateTypeSpace, space.ID, space.ID),
		Name:            space.Name,
		OwnerID:         space.OwnerID,
	}
}

// SpaceSettingsUpdatedEvent is published when reward settings change
type SpaceSettingsUpdatedEvent struct {
	shared.BaseDomainEvent
	Settings ChoreSettings `json:"settings"`
}

// NewSpaceSettingsUpdatedEvent creates a new SpaceSettingsUpdatedEvent
func NewSpaceSettingsUpdatedEvent(space *Space) *SpaceSettingsUpdatedEvent {
	return &SpaceSettingsUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSpaceSettingsUpdated, AggregateTypeSpace, space.ID, space.ID),
		Settings:        space.ChoreSettings,
	}
}

// MemberJoinedEvent is published when a user joins a space
type MemberJoinedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID  `json:"user_id"`
	Role   MemberRole `json:"role"`
}

// NewMemberJoinedEvent creates a new MemberJoinedEvent
func NewMemberJoinedEvent(m *Membership) *MemberJoinedEvent {
	return &MemberJoinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberJoined, AggregateTypeMembership, m.ID, m.SpaceID),
		UserID:          m.UserID,
		Role:            m.Role,
	}
}

// MemberLeftEvent is published when a member leaves or is removed
type MemberLeftEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewMemberLeftEvent creates a new MemberLeftEvent
func NewMemberLeftEvent(m *Membership) *MemberLeftEvent {
	return &MemberLeftEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberLeft, AggregateTypeMembership, m.ID, m.SpaceID),
		UserID:          m.UserID,
	}
}
