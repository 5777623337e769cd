package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/homehub/backend/internal/domain/billing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Default TTL for cached plan entitlements. Entitlements change only on
// deploys, so a short TTL is purely a safety net behind the pub/sub
// invalidation.
const defaultPlanFeatureTTL = 5 * time.Minute

// PlanFeatureCache caches the full feature set of a plan. A nil slice
// with a nil error means a cache miss.
type PlanFeatureCache interface {
	// GetPlan retrieves the cached feature set for a plan
	GetPlan(ctx context.Context, plan billing.Plan) ([]billing.PlanFeature, error)

	// SetPlan caches the feature set for a plan
	SetPlan(ctx context.Context, plan billing.Plan, features []billing.PlanFeature) error

	// InvalidatePlan removes a plan's cached feature set
	InvalidatePlan(ctx context.Context, plan billing.Plan) error

	// Clear removes all cached entitlements
	Clear(ctx context.Context) error

	// Close releases cache resources
	Close() error
}

// RedisPlanFeatureCache implements PlanFeatureCache using Redis
type RedisPlanFeatureCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisPlanFeatureCacheOption is a functional option for configuring the cache
type RedisPlanFeatureCacheOption func(*RedisPlanFeatureCache)

// WithCacheTTL sets the entitlement TTL
func WithCacheTTL(ttl time.Duration) RedisPlanFeatureCacheOption {
	return func(c *RedisPlanFeatureCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisPlanFeatureCacheOption {
	return func(c *RedisPlanFeatureCache) {
		c.logger = logger
	}
}

// NewRedisPlanFeatureCache creates a new Redis-based plan feature cache
func NewRedisPlanFeatureCache(cfg RedisConfig, opts ...RedisPlanFeatureCacheOption) (*RedisPlanFeatureCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisPlanFeatureCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		ttl:        defaultPlanFeatureTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisPlanFeatureCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisPlanFeatureCacheWithClient(client *redis.Client, opts ...RedisPlanFeatureCacheOption) *RedisPlanFeatureCache {
	cache := &RedisPlanFeatureCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		ttl:        defaultPlanFeatureTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// planCacheKey generates the cache key for a plan's feature set
func planCacheKey(plan billing.Plan) string {
	return "plan_features:" + string(plan)
}

// GetPlan retrieves the cached feature set for a plan
func (c *RedisPlanFeatureCache) GetPlan(ctx context.Context, plan billing.Plan) ([]billing.PlanFeature, error) {
	data, err := c.client.Get(ctx, planCacheKey(plan)).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for plan features", zap.String("plan", string(plan)))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get plan features from cache",
			zap.String("plan", string(plan)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get plan features from cache: %w", err)
	}

	var features []billing.PlanFeature
	if err := json.Unmarshal(data, &features); err != nil {
		c.logger.Error("Failed to unmarshal cached plan features",
			zap.String("plan", string(plan)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal plan features: %w", err)
	}

	return features, nil
}

// SetPlan caches the feature set for a plan
func (c *RedisPlanFeatureCache) SetPlan(ctx context.Context, plan billing.Plan, features []billing.PlanFeature) error {
	data, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("failed to marshal plan features: %w", err)
	}

	if err := c.client.Set(ctx, planCacheKey(plan), data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to cache plan features",
			zap.String("plan", string(plan)),
			zap.Error(err))
		return fmt.Errorf("failed to cache plan features: %w", err)
	}

	return nil
}

// InvalidatePlan removes a plan's cached feature set
func (c *RedisPlanFeatureCache) InvalidatePlan(ctx context.Context, plan billing.Plan) error {
	if err := c.client.Del(ctx, planCacheKey(plan)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate plan features: %w", err)
	}
	return nil
}

// Clear removes all cached entitlements
func (c *RedisPlanFeatureCache) Clear(ctx context.Context) error {
	for _, plan := range []billing.Plan{billing.PlanFree, billing.PlanFamily, billing.PlanPremium} {
		if err := c.InvalidatePlan(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the Redis connection if this cache owns it
func (c *RedisPlanFeatureCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisPlanFeatureCache implements PlanFeatureCache
var _ PlanFeatureCache = (*RedisPlanFeatureCache)(nil)
