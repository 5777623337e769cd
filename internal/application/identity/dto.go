package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/identity"
)

// RegisterInput contains input for user registration
type RegisterInput struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200"`
}

// LoginInput contains input for user login
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string     `json:"access_token"`
	RefreshToken          string     `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time  `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time  `json:"refresh_token_expires_at"`
	TokenType             string     `json:"token_type"`
	User                  UserInfo   `json:"user"`
	Spaces                []SpaceRef `json:"spaces"`
}

// RefreshTokenInput contains input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult contains refreshed tokens
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains input for logout
type LogoutInput struct {
	UserID      uuid.UUID
	AccessJTI   string
	AccessTTL   time.Duration
	AllSessions bool
}

// SelectSpaceInput switches the session to a household space
type SelectSpaceInput struct {
	UserID  uuid.UUID
	SpaceID uuid.UUID
}

// ChangePasswordInput contains input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UpdateProfileInput contains input for profile updates
type UpdateProfileInput struct {
	UserID      uuid.UUID
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
	Avatar      *string `json:"avatar" binding:"omitempty,max=500"`
	Timezone    *string `json:"timezone" binding:"omitempty,max=100"`
}

// UserInfo is the API representation of a user
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar,omitempty"`
	Timezone    string    `json:"timezone"`
}

// SpaceRef is a compact space reference with the caller's role
type SpaceRef struct {
	ID   uuid.UUID           `json:"id"`
	Name string              `json:"name"`
	Role identity.MemberRole `json:"role"`
}

// CreateSpaceInput contains input for space creation
type CreateSpaceInput struct {
	Name     string `json:"name" binding:"required,max=200"`
	Timezone string `json:"timezone" binding:"omitempty,max=100"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
	OwnerID  uuid.UUID
}

// UpdateSpaceInput contains input for space updates
type UpdateSpaceInput struct {
	SpaceID   uuid.UUID
	ActorID   uuid.UUID
	Name      *string `json:"name" binding:"omitempty,max=200"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=500"`
	Timezone  *string `json:"timezone" binding:"omitempty,max=100"`
	Currency  *string `json:"currency" binding:"omitempty,len=3"`
}

// UpdateChoreSettingsInput replaces the space's reward settings
type UpdateChoreSettingsInput struct {
	SpaceID  uuid.UUID
	ActorID  uuid.UUID
	Settings identity.ChoreSettings `json:"settings" binding:"required"`
}

// JoinSpaceInput contains input for joining a space via invite code
type JoinSpaceInput struct {
	InviteCode string `json:"invite_code" binding:"required"`
	UserID     uuid.UUID
}

// ChangeMemberRoleInput contains input for changing a member's role
type ChangeMemberRoleInput struct {
	SpaceID uuid.UUID
	ActorID uuid.UUID
	UserID  uuid.UUID
	Role    identity.MemberRole `json:"role" binding:"required"`
}

// RemoveMemberInput contains input for removing a member from a space
type RemoveMemberInput struct {
	SpaceID uuid.UUID
	ActorID uuid.UUID
	UserID  uuid.UUID
}

// TransferOwnershipInput contains input for ownership transfer
type TransferOwnershipInput struct {
	SpaceID    uuid.UUID
	ActorID    uuid.UUID
	NewOwnerID uuid.UUID `json:"new_owner_id" binding:"required"`
}

// SpaceInfo is the API representation of a space
type SpaceInfo struct {
	ID            uuid.UUID              `json:"id"`
	Name          string                 `json:"name"`
	InviteCode    string                 `json:"invite_code,omitempty"` // Only for admins
	Status        identity.SpaceStatus   `json:"status"`
	OwnerID       uuid.UUID              `json:"owner_id"`
	AvatarURL     string                 `json:"avatar_url,omitempty"`
	Timezone      string                 `json:"timezone"`
	Currency      string                 `json:"currency"`
	ChoreSettings identity.ChoreSettings `json:"chore_settings"`
	MemberCount   int64                  `json:"member_count"`
	CreatedAt     time.Time              `json:"created_at"`
}

// MemberInfo is the API representation of a space member
type MemberInfo struct {
	UserID      uuid.UUID           `json:"user_id"`
	Username    string              `json:"username"`
	DisplayName string              `json:"display_name"`
	Avatar      string              `json:"avatar,omitempty"`
	Nickname    string              `json:"nickname,omitempty"`
	Role        identity.MemberRole `json:"role"`
	JoinedAt    time.Time           `json:"joined_at"`
}

// toUserInfo maps a user aggregate to its API shape
func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.GetDisplayNameOrUsername(),
		Avatar:      u.Avatar,
		Timezone:    u.Timezone,
	}
}
