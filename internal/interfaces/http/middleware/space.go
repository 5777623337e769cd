package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Space context keys
const (
	SpaceIDKey     = "space_id"
	SpaceRoleKey   = "space_role"
	SpaceHeaderKey = "X-Space-ID"
)

// SpaceInfo holds the resolved space membership
type SpaceInfo struct {
	ID   uuid.UUID `json:"id"`
	Role string    `json:"role"`
}

// SpaceValidator checks that a user belongs to a space.
// Implemented by the identity application service.
type SpaceValidator interface {
	ValidateMembership(spaceID, userID string) (*SpaceInfo, error)
}

// SpaceMiddlewareConfig holds configuration for space middleware
type SpaceMiddlewareConfig struct {
	// HeaderEnabled enables X-Space-ID header extraction
	HeaderEnabled bool
	// JWTEnabled enables JWT claim extraction (requires JWT middleware to run first)
	JWTEnabled bool
	// SkipPaths are paths that don't require space context (e.g., health check)
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require space context
	SkipPathPrefixes []string
	// Required determines if space context is mandatory
	Required bool
	// Validator is an optional validator to check the user's membership
	Validator SpaceValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultSpaceConfig returns default space middleware configuration
func DefaultSpaceConfig() SpaceMiddlewareConfig {
	return SpaceMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths: []string{
			"/health", "/healthz", "/ready", "/metrics",
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/auth/logout",
			"/api/v1/spaces",
			"/api/v1/spaces/join",
			"/api/v1/billing/webhook",
		},
		SkipPathPrefixes: []string{"/swagger", "/api-docs"},
		Required:         true,
		Validator:        nil,
		Logger:           nil,
	}
}

// SpaceMiddleware extracts the active household space from the request.
// Extraction order: JWT claims > X-Space-ID header
func SpaceMiddleware() gin.HandlerFunc {
	return SpaceMiddlewareWithConfig(DefaultSpaceConfig())
}

// SpaceMiddlewareWithConfig returns space middleware with custom configuration
func SpaceMiddlewareWithConfig(cfg SpaceMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if path should be skipped
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		var spaceID string
		var extractionMethod string

		// Priority 1: JWT claims (if JWT middleware has already run)
		if cfg.JWTEnabled {
			if jwtSpaceID := GetJWTSpaceID(c); jwtSpaceID != "" {
				spaceID = jwtSpaceID
				extractionMethod = "jwt"
			}
		}

		// Priority 2: X-Space-ID header
		if spaceID == "" && cfg.HeaderEnabled {
			if headerSpaceID := c.GetHeader(SpaceHeaderKey); headerSpaceID != "" {
				spaceID = headerSpaceID
				extractionMethod = "header"
			}
		}

		// Validate space ID format if present
		if spaceID != "" {
			if _, err := uuid.Parse(spaceID); err != nil {
				respondSpaceError(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid space ID format")
				return
			}
		}

		// Check if space is required
		if spaceID == "" && cfg.Required {
			respondSpaceError(c, http.StatusForbidden, "NOT_A_MEMBER", "Space context required")
			return
		}

		// Optional: Validate the user is a member of this space
		var spaceInfo *SpaceInfo
		if spaceID != "" && cfg.Validator != nil {
			userID := GetJWTUserID(c)
			var err error
			spaceInfo, err = cfg.Validator.ValidateMembership(spaceID, userID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Space membership validation failed",
					zap.String("space_id", spaceID),
					zap.String("user_id", userID),
					zap.Error(err),
				)
				respondSpaceError(c, http.StatusForbidden, "NOT_A_MEMBER", "Not a member of this space")
				return
			}
		}

		// Set space information in context
		if spaceID != "" {
			// Set in gin context for easy access in handlers
			c.Set(SpaceIDKey, spaceID)
			if spaceInfo != nil {
				c.Set(SpaceRoleKey, spaceInfo.Role)
			}

			// Set in request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithSpaceID(ctx, log, spaceID)
			c.Request = c.Request.WithContext(ctx)

			// Log extraction method for debugging
			if cfg.Logger != nil {
				cfg.Logger.Debug("Space identified",
					zap.String("space_id", spaceID),
					zap.String("method", extractionMethod),
				)
			}
		}

		c.Next()
	}
}

// respondSpaceError sends an aborting error response
func respondSpaceError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetSpaceID retrieves the space ID from gin.Context
func GetSpaceID(c *gin.Context) string {
	if spaceID, exists := c.Get(SpaceIDKey); exists {
		if sid, ok := spaceID.(string); ok {
			return sid
		}
	}
	return ""
}

// GetSpaceUUID retrieves the space ID as UUID from gin.Context
func GetSpaceUUID(c *gin.Context) (uuid.UUID, error) {
	spaceID := GetSpaceID(c)
	if spaceID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(spaceID)
}

// GetSpaceRole retrieves the caller's role in the active space from gin.Context
func GetSpaceRole(c *gin.Context) string {
	if role, exists := c.Get(SpaceRoleKey); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}

// MustGetSpaceID retrieves the space ID from gin.Context or panics if not found
// Use this only in handlers where space context is guaranteed to exist
func MustGetSpaceID(c *gin.Context) string {
	spaceID := GetSpaceID(c)
	if spaceID == "" {
		panic("space_id not found in context")
	}
	return spaceID
}

// MustGetSpaceUUID retrieves the space ID as UUID or panics if not found
func MustGetSpaceUUID(c *gin.Context) uuid.UUID {
	spaceUUID, err := GetSpaceUUID(c)
	if err != nil || spaceUUID == uuid.Nil {
		panic("valid space_id not found in context")
	}
	return spaceUUID
}

// OptionalSpaceMiddleware creates middleware that doesn't require space context
func OptionalSpaceMiddleware() gin.HandlerFunc {
	cfg := DefaultSpaceConfig()
	cfg.Required = false
	return SpaceMiddlewareWithConfig(cfg)
}
