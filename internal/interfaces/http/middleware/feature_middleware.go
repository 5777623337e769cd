package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homehub/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// Feature middleware context keys
const (
	// SpacePlanKey is the key for storing the space's plan in context
	SpacePlanKey = "space_plan"
	// FeatureCheckCachePrefix is the Redis key prefix for feature check cache
	FeatureCheckCachePrefix = "feature_check:"
)

// FeatureChecker defines the interface for checking plan features
type FeatureChecker interface {
	// HasFeature checks if a plan has a specific feature enabled
	HasFeature(ctx context.Context, plan billing.Plan, featureKey billing.FeatureKey) (bool, error)
	// GetFeatureLimit returns the limit for a feature in a plan (nil if unlimited)
	GetFeatureLimit(ctx context.Context, plan billing.Plan, featureKey billing.FeatureKey) (*int, error)
}

// SpacePlanProvider defines the interface for resolving a space's plan
type SpacePlanProvider interface {
	// GetSpacePlan returns the effective subscription plan for a space
	GetSpacePlan(ctx context.Context, spaceID string) (billing.Plan, error)
}

// FeatureCache defines the interface for caching feature check results
type FeatureCache interface {
	// Get retrieves a cached feature check result
	Get(ctx context.Context, key string) (bool, bool, error) // value, found, error
	// Set stores a feature check result in cache
	Set(ctx context.Context, key string, value bool, ttl time.Duration) error
	// Delete removes a cached feature check result
	Delete(ctx context.Context, key string) error
}

// FeatureMiddlewareConfig holds configuration for feature middleware
type FeatureMiddlewareConfig struct {
	// FeatureChecker is required for checking plan features
	FeatureChecker FeatureChecker
	// SpacePlanProvider is required for resolving the space's plan
	SpacePlanProvider SpacePlanProvider
	// Cache is optional for caching feature check results
	Cache FeatureCache
	// CacheTTL is the TTL for cached feature check results (default: 5 minutes)
	CacheTTL time.Duration
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when feature access is denied (optional)
	OnDenied func(c *gin.Context, featureKey billing.FeatureKey, plan billing.Plan)
}

// DefaultFeatureMiddlewareConfig returns default feature middleware configuration
func DefaultFeatureMiddlewareConfig() FeatureMiddlewareConfig {
	return FeatureMiddlewareConfig{
		FeatureChecker:    nil,
		SpacePlanProvider: nil,
		Cache:             nil,
		CacheTTL:          5 * time.Minute,
		Logger:            nil,
		OnDenied:          nil,
	}
}

// RequireFeature creates middleware that requires a specific feature to be
// enabled for the space's subscription plan.
// Panics if featureKey is not a valid feature key (fail fast at startup).
func RequireFeature(featureKey billing.FeatureKey) gin.HandlerFunc {
	return RequireFeatureWithConfig(featureKey, DefaultFeatureMiddlewareConfig())
}

// RequireFeatureWithConfig creates feature middleware with custom configuration.
// Panics if featureKey is not a valid feature key (fail fast at startup).
func RequireFeatureWithConfig(featureKey billing.FeatureKey, cfg FeatureMiddlewareConfig) gin.HandlerFunc {
	// Validate feature key at middleware creation time (fail fast)
	if !billing.IsValidFeatureKey(featureKey) {
		panic(fmt.Sprintf("invalid feature key: %s", featureKey))
	}

	return func(c *gin.Context) {
		// Get space ID from context (set by space middleware)
		spaceID := GetSpaceID(c)
		if spaceID == "" {
			spaceID = GetJWTSpaceID(c)
		}
		if spaceID == "" {
			handleFeatureDenied(c, cfg, featureKey, "", "No space context found")
			return
		}

		// Resolve the space's plan
		plan, err := getSpacePlan(c, cfg, spaceID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to resolve space plan",
					zap.String("space_id", spaceID),
					zap.Error(err),
				)
			}
			handleFeatureDenied(c, cfg, featureKey, "", "Failed to determine subscription plan")
			return
		}

		// Store plan in context for downstream use
		c.Set(SpacePlanKey, plan)

		// Check if feature is enabled for the plan
		hasFeature, err := checkFeature(c, cfg, plan, featureKey)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check feature",
					zap.String("space_id", spaceID),
					zap.String("plan", string(plan)),
					zap.String("feature", string(featureKey)),
					zap.Error(err),
				)
			}
			handleFeatureDenied(c, cfg, featureKey, plan, "Failed to check feature availability")
			return
		}

		if !hasFeature {
			if cfg.Logger != nil {
				cfg.Logger.Info("Feature access denied",
					zap.String("space_id", spaceID),
					zap.String("plan", string(plan)),
					zap.String("feature", string(featureKey)),
				)
			}
			handleFeatureDenied(c, cfg, featureKey, plan, "")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Feature access granted",
				zap.String("space_id", spaceID),
				zap.String("plan", string(plan)),
				zap.String("feature", string(featureKey)),
			)
		}

		c.Next()
	}
}

// RequireAnyFeature creates middleware that requires any of the specified
// features to be enabled for the space's subscription plan.
// Panics if any featureKey is not a valid feature key (fail fast at startup).
func RequireAnyFeature(featureKeys ...billing.FeatureKey) gin.HandlerFunc {
	return RequireAnyFeatureWithConfig(DefaultFeatureMiddlewareConfig(), featureKeys...)
}

// RequireAnyFeatureWithConfig creates middleware with custom configuration.
// Panics if any featureKey is not a valid feature key (fail fast at startup).
func RequireAnyFeatureWithConfig(cfg FeatureMiddlewareConfig, featureKeys ...billing.FeatureKey) gin.HandlerFunc {
	// Validate feature keys at middleware creation time (fail fast)
	for _, featureKey := range featureKeys {
		if !billing.IsValidFeatureKey(featureKey) {
			panic(fmt.Sprintf("invalid feature key: %s", featureKey))
		}
	}

	return func(c *gin.Context) {
		if len(featureKeys) == 0 {
			c.Next()
			return
		}

		spaceID := GetSpaceID(c)
		if spaceID == "" {
			spaceID = GetJWTSpaceID(c)
		}
		if spaceID == "" {
			handleFeatureDenied(c, cfg, featureKeys[0], "", "No space context found")
			return
		}

		plan, err := getSpacePlan(c, cfg, spaceID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to resolve space plan",
					zap.String("space_id", spaceID),
					zap.Error(err),
				)
			}
			handleFeatureDenied(c, cfg, featureKeys[0], "", "Failed to determine subscription plan")
			return
		}

		c.Set(SpacePlanKey, plan)

		// Check if any feature is enabled for the plan
		// Track errors to fail securely if all checks fail with errors
		var lastErr error
		var checkedAny bool

		for _, featureKey := range featureKeys {
			hasFeature, err := checkFeature(c, cfg, plan, featureKey)
			if err != nil {
				lastErr = err
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check feature",
						zap.String("space_id", spaceID),
						zap.String("plan", string(plan)),
						zap.String("feature", string(featureKey)),
						zap.Error(err),
					)
				}
				continue // Try next feature
			}

			checkedAny = true
			if hasFeature {
				c.Next()
				return
			}
		}

		// If no features were successfully checked and there were errors, fail securely
		if !checkedAny && lastErr != nil {
			handleFeatureDenied(c, cfg, featureKeys[0], plan, "Failed to verify feature access")
			return
		}

		// No feature was enabled
		handleFeatureDeniedMultiple(c, cfg, featureKeys, plan, "")
	}
}

// RequireAllFeatures creates middleware that requires all of the specified
// features to be enabled for the space's subscription plan.
// Panics if any featureKey is not a valid feature key (fail fast at startup).
func RequireAllFeatures(featureKeys ...billing.FeatureKey) gin.HandlerFunc {
	return RequireAllFeaturesWithConfig(DefaultFeatureMiddlewareConfig(), featureKeys...)
}

// RequireAllFeaturesWithConfig creates middleware with custom configuration.
// Panics if any featureKey is not a valid feature key (fail fast at startup).
func RequireAllFeaturesWithConfig(cfg FeatureMiddlewareConfig, featureKeys ...billing.FeatureKey) gin.HandlerFunc {
	// Validate feature keys at middleware creation time (fail fast)
	for _, featureKey := range featureKeys {
		if !billing.IsValidFeatureKey(featureKey) {
			panic(fmt.Sprintf("invalid feature key: %s", featureKey))
		}
	}

	return func(c *gin.Context) {
		if len(featureKeys) == 0 {
			c.Next()
			return
		}

		spaceID := GetSpaceID(c)
		if spaceID == "" {
			spaceID = GetJWTSpaceID(c)
		}
		if spaceID == "" {
			handleFeatureDenied(c, cfg, featureKeys[0], "", "No space context found")
			return
		}

		plan, err := getSpacePlan(c, cfg, spaceID)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to resolve space plan",
					zap.String("space_id", spaceID),
					zap.Error(err),
				)
			}
			handleFeatureDenied(c, cfg, featureKeys[0], "", "Failed to determine subscription plan")
			return
		}

		c.Set(SpacePlanKey, plan)

		// Check if all features are enabled for the plan
		// Distinguish between errors and disabled features for better error messages
		var missingFeatures []billing.FeatureKey
		var errorFeatures []billing.FeatureKey

		for _, featureKey := range featureKeys {
			hasFeature, err := checkFeature(c, cfg, plan, featureKey)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check feature",
						zap.String("space_id", spaceID),
						zap.String("plan", string(plan)),
						zap.String("feature", string(featureKey)),
						zap.Error(err),
					)
				}
				errorFeatures = append(errorFeatures, featureKey)
				continue
			}

			if !hasFeature {
				missingFeatures = append(missingFeatures, featureKey)
			}
		}

		// If there were errors checking features, fail securely
		if len(errorFeatures) > 0 {
			handleFeatureDenied(c, cfg, errorFeatures[0], plan, "Failed to verify feature access")
			return
		}

		if len(missingFeatures) > 0 {
			handleFeatureDeniedMultiple(c, cfg, missingFeatures, plan, "")
			return
		}

		c.Next()
	}
}

// getSpacePlan resolves the space's plan, using context and provider
func getSpacePlan(c *gin.Context, cfg FeatureMiddlewareConfig, spaceID string) (billing.Plan, error) {
	// Check if plan is already in context (set by previous middleware)
	if plan, exists := c.Get(SpacePlanKey); exists {
		if spacePlan, ok := plan.(billing.Plan); ok {
			return spacePlan, nil
		}
	}

	// If no provider is configured, use default (free) plan
	if cfg.SpacePlanProvider == nil {
		return billing.PlanFree, nil
	}

	// Get plan from provider
	return cfg.SpacePlanProvider.GetSpacePlan(c.Request.Context(), spaceID)
}

// checkFeature checks if a feature is enabled for a plan, using cache if available
func checkFeature(c *gin.Context, cfg FeatureMiddlewareConfig, plan billing.Plan, featureKey billing.FeatureKey) (bool, error) {
	ctx := c.Request.Context()

	// Build cache key
	cacheKey := buildFeatureCacheKey(plan, featureKey)

	// Check cache first
	if cfg.Cache != nil {
		if value, found, err := cfg.Cache.Get(ctx, cacheKey); err == nil && found {
			return value, nil
		}
	}

	// Check feature using checker or default
	var hasFeature bool
	if cfg.FeatureChecker != nil {
		var err error
		hasFeature, err = cfg.FeatureChecker.HasFeature(ctx, plan, featureKey)
		if err != nil {
			return false, err
		}
	} else {
		// Use default plan features if no checker is configured
		hasFeature = billing.PlanHasFeature(plan, featureKey)
	}

	// Store in cache
	if cfg.Cache != nil {
		ttl := cfg.CacheTTL
		if ttl == 0 {
			ttl = 5 * time.Minute
		}
		// Ignore cache set errors - feature check still succeeded
		_ = cfg.Cache.Set(ctx, cacheKey, hasFeature, ttl)
	}

	return hasFeature, nil
}

// buildFeatureCacheKey builds a cache key for feature check.
// Note: Cache key is based on plan, not space, because features are plan-level.
// All spaces on the same plan have the same features enabled.
func buildFeatureCacheKey(plan billing.Plan, featureKey billing.FeatureKey) string {
	return fmt.Sprintf("%s%s:%s", FeatureCheckCachePrefix, plan, featureKey)
}

// handleFeatureDenied handles feature access denied scenarios
func handleFeatureDenied(c *gin.Context, cfg FeatureMiddlewareConfig, featureKey billing.FeatureKey, plan billing.Plan, customMessage string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, featureKey, plan)
		return
	}

	message := customMessage
	if message == "" {
		message = buildUpgradeMessage(featureKey, plan)
	}

	c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_PLAN_LIMIT",
			"message": message,
			"details": gin.H{
				"feature":      string(featureKey),
				"current_plan": string(plan),
				"upgrade_hint": "Please upgrade your subscription plan to access this feature",
			},
		},
	})
}

// handleFeatureDeniedMultiple handles feature access denied for multiple features
func handleFeatureDeniedMultiple(c *gin.Context, cfg FeatureMiddlewareConfig, featureKeys []billing.FeatureKey, plan billing.Plan, customMessage string) {
	if len(featureKeys) == 1 {
		handleFeatureDenied(c, cfg, featureKeys[0], plan, customMessage)
		return
	}

	if cfg.OnDenied != nil {
		cfg.OnDenied(c, featureKeys[0], plan)
		return
	}

	featureKeyStrings := make([]string, len(featureKeys))
	for i, k := range featureKeys {
		featureKeyStrings[i] = string(k)
	}

	message := customMessage
	if message == "" {
		message = fmt.Sprintf("The following features are not available in your current plan (%s): %s",
			plan, strings.Join(featureKeyStrings, ", "))
	}

	c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_PLAN_LIMIT",
			"message": message,
			"details": gin.H{
				"features":     featureKeyStrings,
				"current_plan": string(plan),
				"upgrade_hint": "Please upgrade your subscription plan to access these features",
			},
		},
	})
}

// buildUpgradeMessage builds a user-friendly upgrade message
func buildUpgradeMessage(featureKey billing.FeatureKey, plan billing.Plan) string {
	featureName := formatFeatureName(featureKey)

	if plan == "" {
		return fmt.Sprintf("The %s feature is not available. Please contact support.", featureName)
	}

	return fmt.Sprintf("The %s feature is not available in your current plan (%s). Please upgrade to access this feature.",
		featureName, plan)
}

// formatFeatureName converts a feature key to a human-readable name
func formatFeatureName(featureKey billing.FeatureKey) string {
	// Convert snake_case to Title Case
	name := string(featureKey)
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(name)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

// GetSpacePlan retrieves the space's plan from gin.Context
func GetSpacePlan(c *gin.Context) billing.Plan {
	if plan, exists := c.Get(SpacePlanKey); exists {
		if spacePlan, ok := plan.(billing.Plan); ok {
			return spacePlan
		}
	}
	return ""
}

// HasFeature is a helper function to check if the current space has a feature
// This can be used in handlers after the feature middleware has run
func HasFeature(c *gin.Context, cfg FeatureMiddlewareConfig, featureKey billing.FeatureKey) bool {
	plan := GetSpacePlan(c)
	if plan == "" {
		return false
	}

	hasFeature, err := checkFeature(c, cfg, plan, featureKey)
	if err != nil {
		return false
	}

	return hasFeature
}

// MustHaveFeature aborts the request if the space doesn't have the feature
// Returns true if the space has the feature, false if aborted
func MustHaveFeature(c *gin.Context, cfg FeatureMiddlewareConfig, featureKey billing.FeatureKey) bool {
	if !HasFeature(c, cfg, featureKey) {
		plan := GetSpacePlan(c)
		handleFeatureDenied(c, cfg, featureKey, plan, "")
		return false
	}
	return true
}

// WithFeature is a helper that wraps a handler and only executes it
// if the specified feature is enabled for the space's plan
func WithFeature(featureKey billing.FeatureKey, cfg FeatureMiddlewareConfig, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !MustHaveFeature(c, cfg, featureKey) {
			return
		}
		handler(c)
	}
}
