package billing

import (
	"context"

	"github.com/google/uuid"
)

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	// Create creates a new subscription
	Create(ctx context.Context, s *Subscription) error

	// Update updates an existing subscription
	Update(ctx context.Context, s *Subscription) error

	// FindBySpaceID finds the subscription for a space
	FindBySpaceID(ctx context.Context, spaceID uuid.UUID) (*Subscription, error)

	// FindByStripeSubscriptionID finds a subscription by provider ID
	FindByStripeSubscriptionID(ctx context.Context, stripeID string) (*Subscription, error)

	// FindByStripeCustomerID finds a subscription by provider customer ID
	FindByStripeCustomerID(ctx context.Context, customerID string) (*Subscription, error)
}

// PlanFeatureRepository defines the interface for plan feature persistence
type PlanFeatureRepository interface {
	// FindByID finds a plan feature by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PlanFeature, error)

	// FindByPlan finds all features for a specific plan
	FindByPlan(ctx context.Context, planID Plan) ([]PlanFeature, error)

	// FindByPlanAndFeature finds a specific feature for a plan
	FindByPlanAndFeature(ctx context.Context, planID Plan, featureKey FeatureKey) (*PlanFeature, error)

	// HasFeature checks if a plan has a specific feature enabled
	HasFeature(ctx context.Context, planID Plan, featureKey FeatureKey) (bool, error)

	// GetFeatureLimit returns the limit for a feature in a plan (nil if
	// unlimited or not found)
	GetFeatureLimit(ctx context.Context, planID Plan, featureKey FeatureKey) (*int, error)

	// Save creates or updates a plan feature
	Save(ctx context.Context, feature *PlanFeature) error

	// SaveBatch creates or updates multiple plan features
	SaveBatch(ctx context.Context, features []PlanFeature) error

	// Delete deletes a plan feature
	Delete(ctx context.Context, id uuid.UUID) error
}

// WebhookEventStore records processed provider event IDs so webhook
// deliveries are idempotent
type WebhookEventStore interface {
	// MarkProcessed records an event ID, returning false if it was
	// already processed
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
}
