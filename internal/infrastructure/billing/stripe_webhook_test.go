package billing

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	domainbilling "github.com/homehub/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81/webhook"
)

const testWebhookSecret = "whsec_test_123456789"

// signPayload builds a valid Stripe-Signature header for a payload
func signPayload(t *testing.T, payload []byte) string {
	t.Helper()
	now := time.Now()
	signature := webhook.ComputeSignature(now, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%x", now.Unix(), signature)
}

func newTestParser(t *testing.T) *WebhookParser {
	t.Helper()
	parser, err := NewWebhookParser(testWebhookSecret, testLogger())
	require.NoError(t, err)
	return parser
}

func TestNewWebhookParser_RequiresSecret(t *testing.T) {
	_, err := NewWebhookParser("", testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook secret is required")
}

func TestWebhookParser_RejectsBadSignature(t *testing.T) {
	parser := newTestParser(t)

	payload := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{}}}`)
	_, err := parser.ParseEvent(payload, "t=123,v1=deadbeef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature verification failed")
}

func TestWebhookParser_CheckoutCompleted(t *testing.T) {
	parser := newTestParser(t)
	spaceID := uuid.New()

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_checkout_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"customer": "cus_abc",
				"subscription": "sub_abc",
				"metadata": {
					"space_id": "%s",
					"plan": "family"
				}
			}
		}
	}`, spaceID))

	event, err := parser.ParseEvent(payload, signPayload(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "evt_checkout_1", event.ID)
	assert.Equal(t, appbilling.EventCheckoutCompleted, event.Type)
	assert.Equal(t, spaceID, event.SpaceID)
	assert.Equal(t, domainbilling.PlanFamily, event.Plan)
	assert.Equal(t, "cus_abc", event.StripeCustomerID)
	assert.Equal(t, "sub_abc", event.StripeSubscriptionID)
	assert.False(t, event.PeriodEnd.IsZero())
}

func TestWebhookParser_CheckoutCompleted_MissingSpaceID(t *testing.T) {
	parser := newTestParser(t)

	payload := []byte(`{
		"id": "evt_checkout_2",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_2",
				"metadata": {"plan": "family"}
			}
		}
	}`)

	_, err := parser.ParseEvent(payload, signPayload(t, payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing space_id")
}

func TestWebhookParser_CheckoutCompleted_UnknownPlan(t *testing.T) {
	parser := newTestParser(t)

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_checkout_3",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_3",
				"metadata": {
					"space_id": "%s",
					"plan": "platinum"
				}
			}
		}
	}`, uuid.New()))

	_, err := parser.ParseEvent(payload, signPayload(t, payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown plan")
}

func TestWebhookParser_InvoicePaid(t *testing.T) {
	parser := newTestParser(t)
	periodEnd := time.Now().AddDate(0, 1, 0).Unix()

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_invoice_1",
		"type": "invoice.paid",
		"data": {
			"object": {
				"id": "in_test_1",
				"customer": "cus_abc",
				"subscription": "sub_abc",
				"lines": {
					"data": [
						{"period": {"start": 1700000000, "end": %d}}
					]
				}
			}
		}
	}`, periodEnd))

	event, err := parser.ParseEvent(payload, signPayload(t, payload))
	require.NoError(t, err)
	assert.Equal(t, appbilling.EventInvoicePaid, event.Type)
	assert.Equal(t, "sub_abc", event.StripeSubscriptionID)
	assert.Equal(t, periodEnd, event.PeriodEnd.Unix())
}

func TestWebhookParser_InvoiceFailed(t *testing.T) {
	parser := newTestParser(t)

	payload := []byte(`{
		"id": "evt_invoice_2",
		"type": "invoice.payment_failed",
		"data": {
			"object": {
				"id": "in_test_2",
				"customer": "cus_abc",
				"subscription": "sub_abc"
			}
		}
	}`)

	event, err := parser.ParseEvent(payload, signPayload(t, payload))
	require.NoError(t, err)
	assert.Equal(t, appbilling.EventInvoiceFailed, event.Type)
	assert.Equal(t, "sub_abc", event.StripeSubscriptionID)
}

func TestWebhookParser_SubscriptionDeleted(t *testing.T) {
	parser := newTestParser(t)
	periodEnd := time.Now().Unix()

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_sub_1",
		"type": "customer.subscription.deleted",
		"data": {
			"object": {
				"id": "sub_abc",
				"customer": "cus_abc",
				"current_period_end": %d
			}
		}
	}`, periodEnd))

	event, err := parser.ParseEvent(payload, signPayload(t, payload))
	require.NoError(t, err)
	assert.Equal(t, appbilling.EventSubscriptionDeleted, event.Type)
	assert.Equal(t, "sub_abc", event.StripeSubscriptionID)
	assert.Equal(t, "cus_abc", event.StripeCustomerID)
	assert.Equal(t, periodEnd, event.PeriodEnd.Unix())
}

func TestWebhookParser_UnhandledTypePassesThrough(t *testing.T) {
	parser := newTestParser(t)

	payload := []byte(`{
		"id": "evt_other_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {}}
	}`)

	event, err := parser.ParseEvent(payload, signPayload(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	assert.Equal(t, uuid.Nil, event.SpaceID)
}
