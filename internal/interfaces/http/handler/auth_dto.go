package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/identity"
)

// RegisterRequest represents the registration request body
// @Description User registration request
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100" example:"alex"`
	Email       string `json:"email" binding:"required,email" example:"alex@example.com"`
	Password    string `json:"password" binding:"required,min=8,max=128" example:"s3cret-pass"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200" example:"Alex"`
}

// LoginRequest represents the login request body
// @Description User login request
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"alex"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// RefreshTokenRequest represents the token refresh request body
// @Description Token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SelectSpaceRequest represents the space selection request body
// @Description Space selection request; issues tokens scoped to the space
type SelectSpaceRequest struct {
	SpaceID uuid.UUID `json:"space_id" binding:"required"`
}

// LogoutRequest represents the optional logout request body
// @Description Logout request
type LogoutRequest struct {
	AllSessions bool `json:"all_sessions"`
}

// ChangePasswordRequest represents the password change request body
// @Description Password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UpdateProfileRequest represents the profile update request body
// @Description Profile update request
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
	Avatar      *string `json:"avatar" binding:"omitempty,max=500"`
	Timezone    *string `json:"timezone" binding:"omitempty,max=100"`
}

// TokenResponse represents an issued token pair
// @Description Access and refresh token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// AuthUserResponse represents the authenticated user in responses
// @Description Authenticated user information
type AuthUserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar,omitempty"`
	Timezone    string    `json:"timezone"`
}

// SpaceRefResponse represents a space the user belongs to
// @Description Space reference with the caller's role
type SpaceRefResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// LoginResponse represents the login response
// @Description Login response with tokens, user info and available spaces
type LoginResponse struct {
	Token  TokenResponse      `json:"token"`
	User   AuthUserResponse   `json:"user"`
	Spaces []SpaceRefResponse `json:"spaces"`
}

// RegisterResponse represents the registration response
// @Description Registration response
type RegisterResponse struct {
	User AuthUserResponse `json:"user"`
}

// RefreshTokenResponse represents the token refresh response
// @Description Token refresh response
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// CurrentUserResponse represents the current user response
// @Description Current user information
type CurrentUserResponse struct {
	User AuthUserResponse `json:"user"`
}

// LogoutResponse represents the logout response
// @Description Logout confirmation
type LogoutResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// toAuthUserResponse maps the application user info to the API shape
func toAuthUserResponse(info identity.UserInfo) AuthUserResponse {
	return AuthUserResponse{
		ID:          info.ID,
		Username:    info.Username,
		Email:       info.Email,
		DisplayName: info.DisplayName,
		Avatar:      info.Avatar,
		Timezone:    info.Timezone,
	}
}

// toSpaceRefResponses maps space references to the API shape
func toSpaceRefResponses(refs []identity.SpaceRef) []SpaceRefResponse {
	out := make([]SpaceRefResponse, len(refs))
	for i, r := range refs {
		out[i] = SpaceRefResponse{ID: r.ID, Name: r.Name, Role: string(r.Role)}
	}
	return out
}

// toRefreshTokenResponse maps a token result to the API shape
func toRefreshTokenResponse(result *identity.RefreshTokenResult) RefreshTokenResponse {
	return RefreshTokenResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
	}
}
