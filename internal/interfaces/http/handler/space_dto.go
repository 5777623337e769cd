package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/identity"
	domainidentity "github.com/homehub/backend/internal/domain/identity"
)

// CreateSpaceRequest represents the space creation request body
// @Description Household space creation request
type CreateSpaceRequest struct {
	Name     string `json:"name" binding:"required,max=200" example:"Our Home"`
	Timezone string `json:"timezone" binding:"omitempty,max=100" example:"Europe/Berlin"`
	Currency string `json:"currency" binding:"omitempty,len=3" example:"EUR"`
}

// UpdateSpaceRequest represents the space update request body
// @Description Space update request; only provided fields change
type UpdateSpaceRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=200"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=500"`
	Timezone  *string `json:"timezone" binding:"omitempty,max=100"`
	Currency  *string `json:"currency" binding:"omitempty,len=3"`
}

// UpdateChoreSettingsRequest represents the chore settings update body
// @Description Reward settings for chores in the space
type UpdateChoreSettingsRequest struct {
	BasePoints          int  `json:"base_points" binding:"min=0,max=1000"`
	MaxPointsPerChore   int  `json:"max_points_per_chore" binding:"min=0,max=10000"`
	StreakBonusPoints   int  `json:"streak_bonus_points" binding:"min=0,max=1000"`
	StreakBonusInterval int  `json:"streak_bonus_interval" binding:"min=0,max=365"`
	LatePenaltyPoints   int  `json:"late_penalty_points" binding:"min=0,max=1000"`
	GracePeriodHours    int  `json:"grace_period_hours" binding:"min=0,max=168"`
	PenaltyEnabled      bool `json:"penalty_enabled"`
}

// JoinSpaceRequest represents the join-by-invite request body
// @Description Join space via invite code
type JoinSpaceRequest struct {
	InviteCode string `json:"invite_code" binding:"required" example:"HX7K2M9Q"`
}

// ChangeMemberRoleRequest represents the role change request body
// @Description Member role change request
type ChangeMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member" example:"admin"`
}

// TransferOwnershipRequest represents the ownership transfer request body
// @Description Ownership transfer request
type TransferOwnershipRequest struct {
	NewOwnerID uuid.UUID `json:"new_owner_id" binding:"required"`
}

// ChoreSettingsResponse represents chore reward settings in responses
// @Description Chore reward settings
type ChoreSettingsResponse struct {
	BasePoints          int  `json:"base_points"`
	MaxPointsPerChore   int  `json:"max_points_per_chore"`
	StreakBonusPoints   int  `json:"streak_bonus_points"`
	StreakBonusInterval int  `json:"streak_bonus_interval"`
	LatePenaltyPoints   int  `json:"late_penalty_points"`
	GracePeriodHours    int  `json:"grace_period_hours"`
	PenaltyEnabled      bool `json:"penalty_enabled"`
}

// SpaceResponse represents a space in responses
// @Description Household space information
type SpaceResponse struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	InviteCode    string                `json:"invite_code,omitempty"`
	Status        string                `json:"status"`
	OwnerID       uuid.UUID             `json:"owner_id"`
	AvatarURL     string                `json:"avatar_url,omitempty"`
	Timezone      string                `json:"timezone"`
	Currency      string                `json:"currency"`
	ChoreSettings ChoreSettingsResponse `json:"chore_settings"`
	MemberCount   int64                 `json:"member_count"`
	CreatedAt     time.Time             `json:"created_at"`
}

// MemberResponse represents a space member in responses
// @Description Space member information
type MemberResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar,omitempty"`
	Nickname    string    `json:"nickname,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// InviteCodeResponse represents a regenerated invite code
// @Description Invite code response
type InviteCodeResponse struct {
	InviteCode string `json:"invite_code"`
}

// toSpaceResponse maps the application space info to the API shape
func toSpaceResponse(info *identity.SpaceInfo) SpaceResponse {
	return SpaceResponse{
		ID:         info.ID,
		Name:       info.Name,
		InviteCode: info.InviteCode,
		Status:     string(info.Status),
		OwnerID:    info.OwnerID,
		AvatarURL:  info.AvatarURL,
		Timezone:   info.Timezone,
		Currency:   info.Currency,
		ChoreSettings: ChoreSettingsResponse{
			BasePoints:          info.ChoreSettings.BasePoints,
			MaxPointsPerChore:   info.ChoreSettings.MaxPointsPerChore,
			StreakBonusPoints:   info.ChoreSettings.StreakBonusPoints,
			StreakBonusInterval: info.ChoreSettings.StreakBonusInterval,
			LatePenaltyPoints:   info.ChoreSettings.LatePenaltyPoints,
			GracePeriodHours:    info.ChoreSettings.GracePeriodHours,
			PenaltyEnabled:      info.ChoreSettings.PenaltyEnabled,
		},
		MemberCount: info.MemberCount,
		CreatedAt:   info.CreatedAt,
	}
}

// toMemberResponses maps member infos to the API shape
func toMemberResponses(members []identity.MemberInfo) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = MemberResponse{
			UserID:      m.UserID,
			Username:    m.Username,
			DisplayName: m.DisplayName,
			Avatar:      m.Avatar,
			Nickname:    m.Nickname,
			Role:        string(m.Role),
			JoinedAt:    m.JoinedAt,
		}
	}
	return out
}

// toChoreSettings maps the request body to the domain settings value
func toChoreSettings(req UpdateChoreSettingsRequest) domainidentity.ChoreSettings {
	return domainidentity.ChoreSettings{
		BasePoints:          req.BasePoints,
		MaxPointsPerChore:   req.MaxPointsPerChore,
		StreakBonusPoints:   req.StreakBonusPoints,
		StreakBonusInterval: req.StreakBonusInterval,
		LatePenaltyPoints:   req.LatePenaltyPoints,
		GracePeriodHours:    req.GracePeriodHours,
		PenaltyEnabled:      req.PenaltyEnabled,
	}
}
