package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/homehub/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryPlanFeatureCache implements PlanFeatureCache using in-memory
// storage. This is designed to be used as L1 cache in front of Redis.
type InMemoryPlanFeatureCache struct {
	plans   sync.Map // map[billing.Plan]*planCacheEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{} // Channel to stop the cleanup goroutine
	stopped int32         // Atomic flag to track if cache is stopped

	// Stats for monitoring
	hits   int64
	misses int64
}

// planCacheEntry wraps a cached feature set with expiration time
type planCacheEntry struct {
	features  []billing.PlanFeature
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *planCacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryPlanFeatureCacheOption is a functional option for configuring the cache
type InMemoryPlanFeatureCacheOption func(*InMemoryPlanFeatureCache)

// WithInMemoryTTL sets the entitlement TTL
func WithInMemoryTTL(ttl time.Duration) InMemoryPlanFeatureCacheOption {
	return func(c *InMemoryPlanFeatureCache) {
		c.ttl = ttl
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryPlanFeatureCacheOption {
	return func(c *InMemoryPlanFeatureCache) {
		c.logger = logger
	}
}

// NewInMemoryPlanFeatureCache creates a new in-memory plan feature cache
func NewInMemoryPlanFeatureCache(opts ...InMemoryPlanFeatureCacheOption) *InMemoryPlanFeatureCache {
	cache := &InMemoryPlanFeatureCache{
		ttl:    defaultPlanFeatureTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// GetPlan retrieves the cached feature set for a plan
func (c *InMemoryPlanFeatureCache) GetPlan(ctx context.Context, plan billing.Plan) ([]billing.PlanFeature, error) {
	if value, ok := c.plans.Load(plan); ok {
		entry := value.(*planCacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("L1 cache hit for plan features", zap.String("plan", string(plan)))
			return entry.features, nil
		}
		c.plans.Delete(plan)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// SetPlan caches the feature set for a plan
func (c *InMemoryPlanFeatureCache) SetPlan(ctx context.Context, plan billing.Plan, features []billing.PlanFeature) error {
	c.plans.Store(plan, &planCacheEntry{
		features:  features,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

// InvalidatePlan removes a plan's cached feature set
func (c *InMemoryPlanFeatureCache) InvalidatePlan(ctx context.Context, plan billing.Plan) error {
	c.plans.Delete(plan)
	return nil
}

// Clear removes all cached entitlements
func (c *InMemoryPlanFeatureCache) Clear(ctx context.Context) error {
	c.plans.Range(func(key, _ interface{}) bool {
		c.plans.Delete(key)
		return true
	})
	return nil
}

// Stats returns cache hit/miss counters
func (c *InMemoryPlanFeatureCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryPlanFeatureCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.plans.Range(func(key, value interface{}) bool {
				if value.(*planCacheEntry).isExpired() {
					c.plans.Delete(key)
				}
				return true
			})
		}
	}
}

// Close stops the cleanup goroutine
func (c *InMemoryPlanFeatureCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Ensure InMemoryPlanFeatureCache implements PlanFeatureCache
var _ PlanFeatureCache = (*InMemoryPlanFeatureCache)(nil)
