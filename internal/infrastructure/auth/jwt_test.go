package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-access-tokens",
		RefreshSecret:          "test-secret-for-refresh-tokens",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "homehub-test",
		MaxRefreshCount:        3,
	})
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	spaceID := uuid.New()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		SpaceID:  spaceID,
		UserID:   userID,
		Username: "alice",
		Role:     "owner",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, spaceID.String(), claims.SpaceID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestJWTService_NoSpaceSelected(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "bob",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Empty(t, claims.SpaceID)

	spaceID, err := claims.GetSpaceUUID()
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, spaceID)
}

func TestJWTService_TokenTypeMismatch(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "alice",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret",
		AccessTokenExpiration:  -1 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "homehub-test",
		MaxRefreshCount:        3,
	})

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "alice",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		SpaceID:  uuid.New(),
		UserID:   userID,
		Username: "alice",
		Role:     "member",
	})
	require.NoError(t, err)

	t.Run("refresh produces new pair with updated role", func(t *testing.T) {
		refreshed, err := svc.RefreshTokenPair(pair.RefreshToken, "alice", "admin")
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(refreshed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, userID.String(), claims.UserID)

		refreshClaims, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, refreshClaims.RefreshCount)
	})

	t.Run("refresh count is limited", func(t *testing.T) {
		current := pair.RefreshToken
		for i := 0; i < 3; i++ {
			refreshed, err := svc.RefreshTokenPair(current, "alice", "member")
			require.NoError(t, err)
			current = refreshed.RefreshToken
		}

		_, err := svc.RefreshTokenPair(current, "alice", "member")
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})
}
