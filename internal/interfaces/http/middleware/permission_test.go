package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
)

// setupRoleRouter wires a router with the caller's role pre-set in context
func setupRoleRouter(role string, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role != "" {
			c.Set(SpaceRoleKey, role)
		}
		c.Next()
	})
	router.GET("/test", handler, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doRoleRequest(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRoleSatisfies(t *testing.T) {
	tests := []struct {
		name     string
		have     identity.MemberRole
		required identity.MemberRole
		want     bool
	}{
		{"owner satisfies owner", identity.MemberRoleOwner, identity.MemberRoleOwner, true},
		{"owner satisfies admin", identity.MemberRoleOwner, identity.MemberRoleAdmin, true},
		{"owner satisfies member", identity.MemberRoleOwner, identity.MemberRoleMember, true},
		{"admin satisfies admin", identity.MemberRoleAdmin, identity.MemberRoleAdmin, true},
		{"admin satisfies member", identity.MemberRoleAdmin, identity.MemberRoleMember, true},
		{"admin does not satisfy owner", identity.MemberRoleAdmin, identity.MemberRoleOwner, false},
		{"member does not satisfy admin", identity.MemberRoleMember, identity.MemberRoleAdmin, false},
		{"member satisfies member", identity.MemberRoleMember, identity.MemberRoleMember, true},
		{"unknown role never satisfies", identity.MemberRole("guest"), identity.MemberRoleMember, false},
		{"unknown requirement never satisfied", identity.MemberRoleOwner, identity.MemberRole("guest"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roleSatisfies(tt.have, tt.required))
		})
	}
}

func TestRequireRole_Allowed(t *testing.T) {
	router := setupRoleRouter("admin", RequireRole(identity.MemberRoleAdmin))

	rec := doRoleRequest(router)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_HigherRoleAllowed(t *testing.T) {
	router := setupRoleRouter("owner", RequireRole(identity.MemberRoleMember))

	rec := doRoleRequest(router)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Insufficient(t *testing.T) {
	router := setupRoleRouter("member", RequireRole(identity.MemberRoleAdmin))

	rec := doRoleRequest(router)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_FORBIDDEN")
}

func TestRequireRole_NoRoleInContext(t *testing.T) {
	router := setupRoleRouter("", RequireRole(identity.MemberRoleMember))

	rec := doRoleRequest(router)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_FallsBackToJWTRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		// No validated space role, only the JWT claim
		c.Set(JWTRoleKey, "admin")
		c.Next()
	})
	router.GET("/test", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := doRoleRequest(router)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_ValidatedRoleWinsOverJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		// JWT claim is stale, the membership check demoted the user
		c.Set(JWTRoleKey, "admin")
		c.Set(SpaceRoleKey, "member")
		c.Next()
	})
	router.GET("/test", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := doRoleRequest(router)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	t.Run("admin allowed", func(t *testing.T) {
		rec := doRoleRequest(setupRoleRouter("admin", RequireAdmin()))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member denied", func(t *testing.T) {
		rec := doRoleRequest(setupRoleRouter("member", RequireAdmin()))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireOwner(t *testing.T) {
	t.Run("owner allowed", func(t *testing.T) {
		rec := doRoleRequest(setupRoleRouter("owner", RequireOwner()))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin denied", func(t *testing.T) {
		rec := doRoleRequest(setupRoleRouter("admin", RequireOwner()))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireRole_OnDeniedCallback(t *testing.T) {
	var deniedRole identity.MemberRole
	cfg := RoleConfig{
		OnDenied: func(c *gin.Context, required identity.MemberRole) {
			deniedRole = required
			c.AbortWithStatus(http.StatusTeapot)
		},
	}

	router := setupRoleRouter("member", RequireRoleWithConfig(identity.MemberRoleOwner, cfg))

	rec := doRoleRequest(router)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, identity.MemberRoleOwner, deniedRole)
}
