// Package billing implements the payment provider port with the Stripe SDK.
package billing

import (
	"context"
	"fmt"

	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/stripe/stripe-go/v81"
	portalsession "github.com/stripe/stripe-go/v81/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/subscription"
	"go.uber.org/zap"
)

// Ensure StripeAdapter implements PaymentGateway
var _ appbilling.PaymentGateway = (*StripeAdapter)(nil)

// StripeAdapter implements the payment gateway using Stripe hosted
// checkout and the billing portal. Plan state changes land through
// webhooks, never through the synchronous calls here.
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Initialize Stripe client
	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// CreateCheckoutSession starts a hosted checkout for a plan upgrade.
// The space and plan travel in the session metadata so the
// checkout.session.completed webhook can attribute the purchase.
func (a *StripeAdapter) CreateCheckoutSession(ctx context.Context, input appbilling.CheckoutSessionInput) (*appbilling.CheckoutSession, error) {
	a.logger.Debug("Creating Stripe checkout session",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("plan", string(input.Plan)))

	priceID, err := a.config.GetPriceID(string(input.Plan))
	if err != nil {
		return nil, err
	}
	if priceID == "" {
		return nil, fmt.Errorf("stripe: plan %s is not purchasable", input.Plan)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(a.config.SuccessURL),
		CancelURL:  stripe.String(a.config.CancelURL),
		Metadata: map[string]string{
			"space_id": input.SpaceID.String(),
			"user_id":  input.UserID.String(),
			"plan":     string(input.Plan),
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"space_id": input.SpaceID.String(),
				"plan":     string(input.Plan),
			},
		},
	}

	// Reuse the provider customer when the space bought before
	if input.CustomerID != "" {
		params.Customer = stripe.String(input.CustomerID)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe checkout session",
			zap.String("space_id", input.SpaceID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	a.logger.Info("Created Stripe checkout session",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("session_id", sess.ID))

	return &appbilling.CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}, nil
}

// CreatePortalSession returns a hosted billing portal URL for an
// existing customer
func (a *StripeAdapter) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	a.logger.Debug("Creating Stripe billing portal session",
		zap.String("customer_id", customerID))

	params := &stripe.BillingPortalSessionParams{
		Customer: stripe.String(customerID),
	}
	if a.config.BillingPortalReturnURL != "" {
		params.ReturnURL = stripe.String(a.config.BillingPortalReturnURL)
	}

	sess, err := portalsession.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe portal session",
			zap.String("customer_id", customerID),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create portal session: %w", err)
	}

	return sess.URL, nil
}

// CancelSubscription cancels the provider subscription at period end.
// The space keeps its plan until the paid period runs out; the
// downgrade itself lands via customer.subscription.deleted.
func (a *StripeAdapter) CancelSubscription(ctx context.Context, subscriptionID string) error {
	a.logger.Debug("Canceling Stripe subscription",
		zap.String("subscription_id", subscriptionID))

	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}

	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		a.logger.Error("Failed to cancel Stripe subscription",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to cancel subscription: %w", err)
	}

	a.logger.Info("Stripe subscription set to cancel at period end",
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)))

	return nil
}
