package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
)

// CheckoutSessionInput carries what the gateway needs to start checkout
type CheckoutSessionInput struct {
	SpaceID    uuid.UUID
	UserID     uuid.UUID
	Plan       billing.Plan
	CustomerID string // Existing provider customer, empty for first purchase
}

// CheckoutSession is the provider-hosted checkout session
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentGateway is the outbound port to the payment provider. The
// infrastructure layer implements it with the Stripe SDK.
type PaymentGateway interface {
	// CreateCheckoutSession starts a hosted checkout for a plan upgrade
	CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSession, error)

	// CreatePortalSession returns a hosted billing portal URL for an
	// existing customer
	CreatePortalSession(ctx context.Context, customerID string) (string, error)

	// CancelSubscription cancels the provider subscription at period end
	CancelSubscription(ctx context.Context, subscriptionID string) error
}
