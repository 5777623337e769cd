package billing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	domainbilling "github.com/homehub/backend/internal/domain/billing"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// WebhookParser verifies Stripe webhook signatures and reduces raw
// events to the provider events the billing service acts on.
type WebhookParser struct {
	secret string
	logger *zap.Logger
}

// NewWebhookParser creates a parser bound to the endpoint's signing secret
func NewWebhookParser(secret string, logger *zap.Logger) (*WebhookParser, error) {
	if secret == "" {
		return nil, fmt.Errorf("stripe: webhook secret is required")
	}
	return &WebhookParser{
		secret: secret,
		logger: logger,
	}, nil
}

// ParseEvent verifies the signature and maps the payload. Event types
// the billing service does not handle still parse; the service ignores
// them by type.
func (p *WebhookParser) ParseEvent(payload []byte, sigHeader string) (*appbilling.ProviderEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, p.secret)
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}

	out := &appbilling.ProviderEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch string(event.Type) {
	case appbilling.EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("stripe: failed to parse checkout session: %w", err)
		}
		if err := p.fillFromCheckoutSession(out, &sess); err != nil {
			return nil, err
		}

	case appbilling.EventInvoicePaid, appbilling.EventInvoiceFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("stripe: failed to parse invoice: %w", err)
		}
		p.fillFromInvoice(out, &inv)

	case appbilling.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("stripe: failed to parse subscription: %w", err)
		}
		out.StripeSubscriptionID = sub.ID
		if sub.Customer != nil {
			out.StripeCustomerID = sub.Customer.ID
		}
		if sub.CurrentPeriodEnd > 0 {
			out.PeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0)
		}

	default:
		p.logger.Debug("Unmapped Stripe event type",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)))
	}

	return out, nil
}

func (p *WebhookParser) fillFromCheckoutSession(out *appbilling.ProviderEvent, sess *stripe.CheckoutSession) error {
	spaceIDRaw, ok := sess.Metadata["space_id"]
	if !ok {
		return fmt.Errorf("stripe: checkout session %s missing space_id metadata", sess.ID)
	}
	spaceID, err := uuid.Parse(spaceIDRaw)
	if err != nil {
		return fmt.Errorf("stripe: checkout session %s has invalid space_id: %w", sess.ID, err)
	}
	out.SpaceID = spaceID

	plan := domainbilling.Plan(sess.Metadata["plan"])
	if !plan.IsValid() {
		return fmt.Errorf("stripe: checkout session %s has unknown plan %q", sess.ID, sess.Metadata["plan"])
	}
	out.Plan = plan

	if sess.Customer != nil {
		out.StripeCustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		out.StripeSubscriptionID = sess.Subscription.ID
		if sess.Subscription.CurrentPeriodEnd > 0 {
			out.PeriodEnd = time.Unix(sess.Subscription.CurrentPeriodEnd, 0)
		}
	}

	// Checkout payloads rarely expand the subscription, so the period
	// end often arrives zero here and the invoice.paid event sets it.
	if out.PeriodEnd.IsZero() {
		out.PeriodEnd = time.Now().AddDate(0, 1, 0)
	}

	return nil
}

func (p *WebhookParser) fillFromInvoice(out *appbilling.ProviderEvent, inv *stripe.Invoice) {
	if inv.Customer != nil {
		out.StripeCustomerID = inv.Customer.ID
	}
	if inv.Subscription != nil {
		out.StripeSubscriptionID = inv.Subscription.ID
	}

	// The covered period lives on the subscription line item
	if inv.Lines != nil {
		for _, line := range inv.Lines.Data {
			if line.Period != nil && line.Period.End > 0 {
				out.PeriodEnd = time.Unix(line.Period.End, 0)
				break
			}
		}
	}
	if out.PeriodEnd.IsZero() && inv.PeriodEnd > 0 {
		out.PeriodEnd = time.Unix(inv.PeriodEnd, 0)
	}
}
