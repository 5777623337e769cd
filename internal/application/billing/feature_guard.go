package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FeatureGuard answers "can this space do X" questions against the
// space's subscription plan. Database-backed feature rows override the
// built-in defaults; when none exist the defaults apply.
type FeatureGuard struct {
	subscriptionRepo billing.SubscriptionRepository
	featureRepo      billing.PlanFeatureRepository
	logger           *zap.Logger
}

// NewFeatureGuard creates a new feature guard
func NewFeatureGuard(
	subscriptionRepo billing.SubscriptionRepository,
	featureRepo billing.PlanFeatureRepository,
	logger *zap.Logger,
) *FeatureGuard {
	return &FeatureGuard{
		subscriptionRepo: subscriptionRepo,
		featureRepo:      featureRepo,
		logger:           logger,
	}
}

// PlanFor resolves the effective plan for a space. Spaces without a
// subscription row are treated as free.
func (g *FeatureGuard) PlanFor(ctx context.Context, spaceID uuid.UUID) billing.Plan {
	sub, err := g.subscriptionRepo.FindBySpaceID(ctx, spaceID)
	if err != nil || sub == nil {
		return billing.PlanFree
	}
	if sub.Status == billing.SubscriptionStatusCanceled {
		return billing.PlanFree
	}
	return sub.Plan
}

// GetSpacePlan resolves the effective plan from a string space ID. It
// adapts PlanFor for callers that carry the space ID as a string, such
// as the HTTP feature middleware.
func (g *FeatureGuard) GetSpacePlan(ctx context.Context, spaceID string) (billing.Plan, error) {
	id, err := uuid.Parse(spaceID)
	if err != nil {
		return "", err
	}
	return g.PlanFor(ctx, id), nil
}

// RequireFeature returns a PLAN_LIMIT_REACHED error when the space's
// plan does not enable the feature
func (g *FeatureGuard) RequireFeature(ctx context.Context, spaceID uuid.UUID, key billing.FeatureKey) error {
	plan := g.PlanFor(ctx, spaceID)

	if g.featureRepo != nil {
		if feature, err := g.featureRepo.FindByPlanAndFeature(ctx, plan, key); err == nil && feature != nil {
			if !feature.Enabled {
				return shared.ErrPlanLimitReached
			}
			return nil
		}
	}

	if !billing.PlanHasFeature(plan, key) {
		return shared.ErrPlanLimitReached
	}
	return nil
}

// CheckLimit verifies that the current usage of a metered feature is
// below the plan's limit. Unlimited features always pass.
func (g *FeatureGuard) CheckLimit(ctx context.Context, spaceID uuid.UUID, key billing.FeatureKey, current int64) error {
	if err := g.RequireFeature(ctx, spaceID, key); err != nil {
		return err
	}

	limit, err := g.LimitFor(ctx, spaceID, key)
	if err != nil {
		g.logger.Warn("failed to resolve plan limit, allowing operation",
			zap.String("space_id", spaceID.String()),
			zap.String("feature", string(key)),
			zap.Error(err))
		return nil
	}
	if limit == nil {
		return nil
	}
	if current >= int64(*limit) {
		return shared.ErrPlanLimitReached
	}
	return nil
}

// LimitFor returns the plan's limit for a feature, nil when unlimited
func (g *FeatureGuard) LimitFor(ctx context.Context, spaceID uuid.UUID, key billing.FeatureKey) (*int, error) {
	plan := g.PlanFor(ctx, spaceID)

	if g.featureRepo != nil {
		if feature, err := g.featureRepo.FindByPlanAndFeature(ctx, plan, key); err == nil && feature != nil {
			return feature.Limit, nil
		}
	}

	return billing.GetPlanFeatureLimit(plan, key), nil
}

// LimitForPlan resolves a limit for an explicit plan, bypassing the
// subscription lookup. Used when the caller already holds the plan.
func (g *FeatureGuard) LimitForPlan(ctx context.Context, plan billing.Plan, key billing.FeatureKey) *int {
	if g.featureRepo != nil {
		if feature, err := g.featureRepo.FindByPlanAndFeature(ctx, plan, key); err == nil && feature != nil {
			return feature.Limit
		}
	}
	return billing.GetPlanFeatureLimit(plan, key)
}
