package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homehub/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRole identity.MemberRole)
}

// roleRank orders space roles from least to most privileged
func roleRank(role identity.MemberRole) int {
	switch role {
	case identity.MemberRoleOwner:
		return 3
	case identity.MemberRoleAdmin:
		return 2
	case identity.MemberRoleMember:
		return 1
	default:
		return 0
	}
}

// roleSatisfies reports whether the caller's role meets the required role.
// Roles are hierarchical: owner > admin > member.
func roleSatisfies(have, required identity.MemberRole) bool {
	haveRank := roleRank(have)
	requiredRank := roleRank(required)
	if haveRank == 0 || requiredRank == 0 {
		return false
	}
	return haveRank >= requiredRank
}

// callerRole resolves the caller's role in the active space.
// The space middleware's validated role wins over the JWT claim, which
// may be stale after a role change.
func callerRole(c *gin.Context) identity.MemberRole {
	if role := GetSpaceRole(c); role != "" {
		return identity.MemberRole(role)
	}
	return identity.MemberRole(GetJWTRole(c))
}

// RequireRole creates middleware that requires at least the given space role
func RequireRole(required identity.MemberRole) gin.HandlerFunc {
	return RequireRoleWithConfig(required, RoleConfig{})
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(required identity.MemberRole, cfg RoleConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := callerRole(c)
		if role == "" {
			handleRoleDenied(c, cfg, required, "No role found in context")
			return
		}

		if !roleSatisfies(role, required) {
			handleRoleDenied(c, cfg, required, "User role is insufficient")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Role check passed",
				zap.String("user_id", GetJWTUserID(c)),
				zap.String("role", string(role)),
				zap.String("required_role", string(required)),
			)
		}

		c.Next()
	}
}

// RequireAdmin creates middleware that requires the admin role or above.
// Admins and the owner can manage members, chores, and budgets.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.MemberRoleAdmin)
}

// RequireOwner creates middleware that requires the space owner.
// Only the owner can delete the space or change billing.
func RequireOwner() gin.HandlerFunc {
	return RequireRole(identity.MemberRoleOwner)
}

// handleRoleDenied handles role denied scenarios
func handleRoleDenied(c *gin.Context, cfg RoleConfig, required identity.MemberRole, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Role check denied",
			zap.String("reason", reason),
			zap.String("user_id", GetJWTUserID(c)),
			zap.String("role", string(callerRole(c))),
			zap.String("required_role", string(required)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
}
