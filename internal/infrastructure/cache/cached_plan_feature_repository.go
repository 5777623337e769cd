package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CachedPlanFeatureRepository decorates a PlanFeatureRepository with a
// PlanFeatureCache. Lookups that the feature guard runs on every request
// (plan set, single feature, limit) are served from the cached plan set;
// writes go to the underlying repository and invalidate the plan.
type CachedPlanFeatureRepository struct {
	inner       billing.PlanFeatureRepository
	cache       PlanFeatureCache
	invalidator *RedisPlanCacheInvalidator // optional, nil for single-instance deployments
	logger      *zap.Logger
}

// CachedPlanFeatureRepositoryOption is a functional option for the decorator
type CachedPlanFeatureRepositoryOption func(*CachedPlanFeatureRepository)

// WithRepositoryInvalidator broadcasts invalidations to other instances on writes
func WithRepositoryInvalidator(inv *RedisPlanCacheInvalidator) CachedPlanFeatureRepositoryOption {
	return func(r *CachedPlanFeatureRepository) {
		r.invalidator = inv
	}
}

// WithRepositoryLogger sets the logger for the decorator
func WithRepositoryLogger(logger *zap.Logger) CachedPlanFeatureRepositoryOption {
	return func(r *CachedPlanFeatureRepository) {
		r.logger = logger
	}
}

// NewCachedPlanFeatureRepository creates a caching decorator over a repository
func NewCachedPlanFeatureRepository(inner billing.PlanFeatureRepository, cache PlanFeatureCache, opts ...CachedPlanFeatureRepositoryOption) *CachedPlanFeatureRepository {
	r := &CachedPlanFeatureRepository{
		inner:  inner,
		cache:  cache,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FindByID finds a plan feature by its ID
func (r *CachedPlanFeatureRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PlanFeature, error) {
	return r.inner.FindByID(ctx, id)
}

// FindByPlan finds all features for a specific plan, read-through cached
func (r *CachedPlanFeatureRepository) FindByPlan(ctx context.Context, planID billing.Plan) ([]billing.PlanFeature, error) {
	cached, err := r.cache.GetPlan(ctx, planID)
	if err != nil {
		r.logger.Warn("Plan feature cache read failed, falling back to repository",
			zap.String("plan", string(planID)),
			zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	features, err := r.inner.FindByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetPlan(ctx, planID, features); err != nil {
		r.logger.Warn("Failed to cache plan features",
			zap.String("plan", string(planID)),
			zap.Error(err))
	}

	return features, nil
}

// FindByPlanAndFeature finds a specific feature for a plan
func (r *CachedPlanFeatureRepository) FindByPlanAndFeature(ctx context.Context, planID billing.Plan, featureKey billing.FeatureKey) (*billing.PlanFeature, error) {
	features, err := r.FindByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	for i := range features {
		if features[i].FeatureKey == featureKey {
			return &features[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// HasFeature checks if a plan has a specific feature enabled
func (r *CachedPlanFeatureRepository) HasFeature(ctx context.Context, planID billing.Plan, featureKey billing.FeatureKey) (bool, error) {
	features, err := r.FindByPlan(ctx, planID)
	if err != nil {
		return false, err
	}
	for i := range features {
		if features[i].FeatureKey == featureKey {
			return features[i].Enabled, nil
		}
	}
	return false, nil
}

// GetFeatureLimit returns the limit for a feature in a plan (nil if unlimited or not found)
func (r *CachedPlanFeatureRepository) GetFeatureLimit(ctx context.Context, planID billing.Plan, featureKey billing.FeatureKey) (*int, error) {
	features, err := r.FindByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	for i := range features {
		if features[i].FeatureKey == featureKey {
			return features[i].Limit, nil
		}
	}
	return nil, nil
}

// Save creates or updates a plan feature and invalidates its plan
func (r *CachedPlanFeatureRepository) Save(ctx context.Context, feature *billing.PlanFeature) error {
	if err := r.inner.Save(ctx, feature); err != nil {
		return err
	}
	r.invalidate(ctx, feature.PlanID)
	return nil
}

// SaveBatch creates or updates multiple plan features and invalidates their plans
func (r *CachedPlanFeatureRepository) SaveBatch(ctx context.Context, features []billing.PlanFeature) error {
	if err := r.inner.SaveBatch(ctx, features); err != nil {
		return err
	}
	seen := make(map[billing.Plan]struct{}, len(features))
	for i := range features {
		if _, ok := seen[features[i].PlanID]; ok {
			continue
		}
		seen[features[i].PlanID] = struct{}{}
		r.invalidate(ctx, features[i].PlanID)
	}
	return nil
}

// Delete deletes a plan feature. The plan is unknown after deletion, so
// the whole entitlement cache is cleared.
func (r *CachedPlanFeatureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.cache.Clear(ctx); err != nil {
		r.logger.Warn("Failed to clear plan feature cache after delete", zap.Error(err))
	}
	if r.invalidator != nil {
		if err := r.invalidator.PublishClear(ctx); err != nil {
			r.logger.Warn("Failed to broadcast cache clear", zap.Error(err))
		}
	}
	return nil
}

func (r *CachedPlanFeatureRepository) invalidate(ctx context.Context, plan billing.Plan) {
	if err := r.cache.InvalidatePlan(ctx, plan); err != nil {
		r.logger.Warn("Failed to invalidate plan feature cache",
			zap.String("plan", string(plan)),
			zap.Error(err))
	}
	if r.invalidator != nil {
		if err := r.invalidator.PublishInvalidation(ctx, plan); err != nil {
			r.logger.Warn("Failed to broadcast plan invalidation",
				zap.String("plan", string(plan)),
				zap.Error(err))
		}
	}
}

// Ensure CachedPlanFeatureRepository implements PlanFeatureRepository
var _ billing.PlanFeatureRepository = (*CachedPlanFeatureRepository)(nil)
