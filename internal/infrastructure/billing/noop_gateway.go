package billing

import (
	"context"
	"errors"

	appbilling "github.com/homehub/backend/internal/application/billing"
)

// ErrBillingDisabled is returned by the noop gateway for every call.
var ErrBillingDisabled = errors.New("billing: payment provider is not configured")

// NoopGateway is the gateway used when Stripe is not configured. Every
// space stays on the free plan; checkout and portal calls fail cleanly.
type NoopGateway struct{}

// NewNoopGateway creates a new noop gateway
func NewNoopGateway() *NoopGateway {
	return &NoopGateway{}
}

// Ensure NoopGateway implements PaymentGateway
var _ appbilling.PaymentGateway = (*NoopGateway)(nil)

// CreateCheckoutSession always fails; upgrades need a configured provider
func (g *NoopGateway) CreateCheckoutSession(ctx context.Context, input appbilling.CheckoutSessionInput) (*appbilling.CheckoutSession, error) {
	return nil, ErrBillingDisabled
}

// CreatePortalSession always fails; there is no provider customer
func (g *NoopGateway) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	return "", ErrBillingDisabled
}

// CancelSubscription always fails; nothing was ever purchased
func (g *NoopGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return ErrBillingDisabled
}
