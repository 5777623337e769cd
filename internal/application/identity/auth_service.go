package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/homehub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles registration and authentication
type AuthService struct {
	userRepo       identity.UserRepository
	membershipRepo identity.MembershipRepository
	spaceRepo      identity.SpaceRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	config         AuthServiceConfig
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	membershipRepo identity.MembershipRepository,
	spaceRepo identity.SpaceRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	eventPublisher shared.EventPublisher,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		spaceRepo:      spaceRepo,
		jwtService:     jwtService,
		blacklist:      blacklist,
		eventPublisher: eventPublisher,
		config:         config,
		logger:         logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	if exists, err := s.userRepo.ExistsByUsername(ctx, input.Username); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username")
	} else if exists {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already taken")
	}
	if exists, err := s.userRepo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email")
	} else if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	if err := s.eventPublisher.Publish(ctx, user.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish user events", zap.Error(err))
	}
	user.ClearDomainEvents()

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	info := toUserInfo(user)
	return &info, nil
}

// Login authenticates a user and returns tokens. The token carries no
// space context; the client selects a space afterwards.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("login attempt", zap.String("username", input.Username))

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("user not found during login", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("login attempt for locked account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("failed to update user after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("account locked after too many failed attempts",
				zap.String("username", input.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		s.logger.Warn("invalid password attempt",
			zap.String("username", input.Username),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Don't fail the login, just log
		s.logger.Error("failed to update user after successful login", zap.Error(err))
	}

	spaces, err := s.listSpaceRefs(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to list user spaces", zap.Error(err))
		spaces = []SpaceRef{}
	}

	s.logger.Info("user logged in",
		zap.String("username", input.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  toUserInfo(user),
		Spaces:                spaces,
	}, nil
}

// SelectSpace issues a token pair scoped to a household the user belongs to
func (s *AuthService) SelectSpace(ctx context.Context, input SelectSpaceInput) (*RefreshTokenResult, error) {
	membership, err := s.membershipRepo.FindBySpaceAndUser(ctx, input.SpaceID, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_A_MEMBER", "You are not a member of this space")
	}

	space, err := s.spaceRepo.FindByID(ctx, input.SpaceID)
	if err != nil {
		return nil, shared.NewDomainError("SPACE_NOT_FOUND", "Space not found")
	}
	if !space.IsActive() {
		return nil, shared.NewDomainError("SPACE_INACTIVE", "Space is not active")
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		SpaceID:  input.SpaceID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(membership.Role),
	})
	if err != nil {
		s.logger.Error("failed to generate space-scoped tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("space selected",
		zap.String("user_id", input.UserID.String()),
		zap.String("space_id", input.SpaceID.String()),
		zap.String("role", string(membership.Role)))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// RefreshToken refreshes the access token using a valid refresh token.
// Role changes take effect here because the new token carries the
// membership's current role.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := refreshClaims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	if invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, refreshClaims.UserID, refreshClaims.GetIssuedAtTime()); err == nil && invalidated {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Token has been revoked")
	}

	role := ""
	if spaceID, err := refreshClaims.GetSpaceUUID(); err == nil && spaceID != uuid.Nil {
		membership, err := s.membershipRepo.FindBySpaceAndUser(ctx, spaceID, userID)
		if err != nil {
			return nil, shared.NewDomainError("NOT_A_MEMBER", "You are no longer a member of this space")
		}
		role = string(membership.Role)
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Username, role)
	if err != nil {
		s.logger.Warn("token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the current access token; with AllSessions set, every
// token issued to the user so far is invalidated
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.AccessJTI != "" {
		if err := s.blacklist.AddToBlacklist(ctx, input.AccessJTI, input.AccessTTL); err != nil {
			s.logger.Error("failed to blacklist token", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
		}
	}

	if input.AllSessions {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), ttl); err != nil {
			s.logger.Error("failed to invalidate user sessions", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke sessions")
		}
	}

	s.logger.Info("user logged out",
		zap.String("user_id", input.UserID.String()),
		zap.Bool("all_sessions", input.AllSessions))

	return nil
}

// GetCurrentUser retrieves the current user's information
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := toUserInfo(user)
	return &info, nil
}

// ChangePassword changes a user's password and revokes other sessions
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if err := s.eventPublisher.Publish(ctx, user.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish password change events", zap.Error(err))
	}
	user.ClearDomainEvents()

	// Force other sessions to re-authenticate
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), ttl); err != nil {
		s.logger.Error("failed to invalidate sessions after password change", zap.Error(err))
	}

	s.logger.Info("user password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

// UpdateProfile updates the user's profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if input.DisplayName != nil {
		if err := user.SetDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.Avatar != nil {
		if err := user.SetAvatar(*input.Avatar); err != nil {
			return nil, err
		}
	}
	if input.Timezone != nil {
		if err := user.SetTimezone(*input.Timezone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("failed to update profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	info := toUserInfo(user)
	return &info, nil
}

// TouchActivity records that the user was active now. Callers throttle
// this so it is not a write per request.
func (s *AuthService) TouchActivity(ctx context.Context, userID uuid.UUID) {
	if err := s.userRepo.TouchLastActive(ctx, userID, time.Now()); err != nil {
		s.logger.Debug("failed to touch last active", zap.Error(err))
	}
}

func (s *AuthService) listSpaceRefs(ctx context.Context, userID uuid.UUID) ([]SpaceRef, error) {
	memberships, err := s.membershipRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	refs := make([]SpaceRef, 0, len(memberships))
	for _, m := range memberships {
		space, err := s.spaceRepo.FindByID(ctx, m.SpaceID)
		if err != nil {
			continue
		}
		refs = append(refs, SpaceRef{ID: space.ID, Name: space.Name, Role: m.Role})
	}
	return refs, nil
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate token")
	}
}
