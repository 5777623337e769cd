package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
)

// CheckoutInput starts a checkout session for a plan upgrade
type CheckoutInput struct {
	SpaceID uuid.UUID
	UserID  uuid.UUID
	Plan    billing.Plan
}

// CheckoutResult carries the provider-hosted checkout URL
type CheckoutResult struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// PortalResult carries the provider-hosted billing portal URL
type PortalResult struct {
	PortalURL string `json:"portal_url"`
}

// SubscriptionInfo is the API representation of a space's subscription
type SubscriptionInfo struct {
	SpaceID           uuid.UUID                  `json:"space_id"`
	Plan              billing.Plan               `json:"plan"`
	Status            billing.SubscriptionStatus `json:"status"`
	CurrentPeriodEnd  *time.Time                 `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool                       `json:"cancel_at_period_end"`
	Features          []FeatureInfo              `json:"features"`
}

// FeatureInfo describes one plan feature and its limit
type FeatureInfo struct {
	Key     billing.FeatureKey `json:"key"`
	Enabled bool               `json:"enabled"`
	Limit   *int               `json:"limit,omitempty"` // nil = unlimited
}

// ProviderEvent is a payment provider webhook event after signature
// verification, reduced to the fields the service acts on
type ProviderEvent struct {
	ID                   string
	Type                 string
	SpaceID              uuid.UUID // From checkout session metadata
	Plan                 billing.Plan
	StripeCustomerID     string
	StripeSubscriptionID string
	PeriodEnd            time.Time
}

// Provider webhook event types handled by the service
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventInvoicePaid         = "invoice.paid"
	EventInvoiceFailed       = "invoice.payment_failed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)
