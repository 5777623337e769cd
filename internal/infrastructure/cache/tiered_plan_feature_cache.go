package cache

import (
	"context"

	"github.com/homehub/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// TieredPlanFeatureCache layers an in-memory L1 cache in front of a
// Redis L2 cache. Reads fall through L1 to L2 and backfill L1 on a hit;
// writes and invalidations go to both tiers. An L2 failure degrades to
// L1-only behavior instead of failing the read.
type TieredPlanFeatureCache struct {
	l1     PlanFeatureCache
	l2     PlanFeatureCache
	logger *zap.Logger
}

// TieredPlanFeatureCacheOption is a functional option for configuring the cache
type TieredPlanFeatureCacheOption func(*TieredPlanFeatureCache)

// WithTieredLogger sets the logger for the cache
func WithTieredLogger(logger *zap.Logger) TieredPlanFeatureCacheOption {
	return func(c *TieredPlanFeatureCache) {
		c.logger = logger
	}
}

// NewTieredPlanFeatureCache creates a two-tier plan feature cache
func NewTieredPlanFeatureCache(l1, l2 PlanFeatureCache, opts ...TieredPlanFeatureCacheOption) *TieredPlanFeatureCache {
	cache := &TieredPlanFeatureCache{
		l1:     l1,
		l2:     l2,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// GetPlan retrieves the cached feature set for a plan
func (c *TieredPlanFeatureCache) GetPlan(ctx context.Context, plan billing.Plan) ([]billing.PlanFeature, error) {
	features, err := c.l1.GetPlan(ctx, plan)
	if err == nil && features != nil {
		return features, nil
	}

	features, err = c.l2.GetPlan(ctx, plan)
	if err != nil {
		c.logger.Warn("L2 plan feature cache read failed",
			zap.String("plan", string(plan)),
			zap.Error(err))
		return nil, nil
	}
	if features == nil {
		return nil, nil
	}

	// Backfill L1 so the next read stays local
	if err := c.l1.SetPlan(ctx, plan, features); err != nil {
		c.logger.Warn("Failed to backfill L1 plan feature cache",
			zap.String("plan", string(plan)),
			zap.Error(err))
	}

	return features, nil
}

// SetPlan caches the feature set for a plan in both tiers
func (c *TieredPlanFeatureCache) SetPlan(ctx context.Context, plan billing.Plan, features []billing.PlanFeature) error {
	if err := c.l1.SetPlan(ctx, plan, features); err != nil {
		return err
	}
	if err := c.l2.SetPlan(ctx, plan, features); err != nil {
		c.logger.Warn("L2 plan feature cache write failed",
			zap.String("plan", string(plan)),
			zap.Error(err))
	}
	return nil
}

// InvalidatePlan removes a plan's cached feature set from both tiers
func (c *TieredPlanFeatureCache) InvalidatePlan(ctx context.Context, plan billing.Plan) error {
	if err := c.l1.InvalidatePlan(ctx, plan); err != nil {
		return err
	}
	return c.l2.InvalidatePlan(ctx, plan)
}

// Clear removes all cached entitlements from both tiers
func (c *TieredPlanFeatureCache) Clear(ctx context.Context) error {
	if err := c.l1.Clear(ctx); err != nil {
		return err
	}
	return c.l2.Clear(ctx)
}

// Close closes both tiers
func (c *TieredPlanFeatureCache) Close() error {
	l1Err := c.l1.Close()
	l2Err := c.l2.Close()
	if l1Err != nil {
		return l1Err
	}
	return l2Err
}

// Ensure TieredPlanFeatureCache implements PlanFeatureCache
var _ PlanFeatureCache = (*TieredPlanFeatureCache)(nil)
