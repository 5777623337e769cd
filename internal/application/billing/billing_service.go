package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BillingService handles subscription lifecycle operations. State changes
// flow through provider webhooks; the service itself never marks a space
// paid before the provider confirms payment.
type BillingService struct {
	subscriptionRepo billing.SubscriptionRepository
	webhookStore     billing.WebhookEventStore
	gateway          PaymentGateway
	guard            *FeatureGuard
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(
	subscriptionRepo billing.SubscriptionRepository,
	webhookStore billing.WebhookEventStore,
	gateway PaymentGateway,
	guard *FeatureGuard,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		subscriptionRepo: subscriptionRepo,
		webhookStore:     webhookStore,
		gateway:          gateway,
		guard:            guard,
		eventPublisher:   eventPublisher,
		logger:           logger,
	}
}

// GetSubscription returns the space's subscription with its feature set
func (s *BillingService) GetSubscription(ctx context.Context, spaceID uuid.UUID) (*SubscriptionInfo, error) {
	sub, err := s.subscriptionRepo.FindBySpaceID(ctx, spaceID)
	if err != nil {
		return nil, shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "No subscription found for this space")
	}

	features := billing.DefaultPlanFeatures(sub.Plan)
	featureInfos := make([]FeatureInfo, 0, len(features))
	for _, f := range features {
		featureInfos = append(featureInfos, FeatureInfo{
			Key:     f.FeatureKey,
			Enabled: f.Enabled,
			Limit:   f.Limit,
		})
	}

	return &SubscriptionInfo{
		SpaceID:           sub.SpaceID,
		Plan:              sub.Plan,
		Status:            sub.Status,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		Features:          featureInfos,
	}, nil
}

// StartCheckout creates a provider checkout session for a plan upgrade
func (s *BillingService) StartCheckout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if !input.Plan.IsValid() || input.Plan == billing.PlanFree {
		return nil, shared.NewDomainError("INVALID_PLAN", "Checkout target must be a paid plan")
	}

	sub, err := s.subscriptionRepo.FindBySpaceID(ctx, input.SpaceID)
	if err != nil {
		return nil, shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "No subscription found for this space")
	}
	if sub.Plan == input.Plan && sub.Status == billing.SubscriptionStatusActive {
		return nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "Space is already on this plan")
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionInput{
		SpaceID:    input.SpaceID,
		UserID:     input.UserID,
		Plan:       input.Plan,
		CustomerID: sub.StripeCustomerID,
	})
	if err != nil {
		s.logger.Error("failed to create checkout session",
			zap.String("space_id", input.SpaceID.String()),
			zap.String("plan", string(input.Plan)),
			zap.Error(err))
		return nil, shared.NewDomainError("CHECKOUT_FAILED", "Failed to start checkout")
	}

	s.logger.Info("checkout session created",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("plan", string(input.Plan)),
		zap.String("session_id", session.ID))

	return &CheckoutResult{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

// OpenBillingPortal returns a provider-hosted portal URL for managing
// the subscription
func (s *BillingService) OpenBillingPortal(ctx context.Context, spaceID uuid.UUID) (*PortalResult, error) {
	sub, err := s.subscriptionRepo.FindBySpaceID(ctx, spaceID)
	if err != nil {
		return nil, shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "No subscription found for this space")
	}
	if sub.StripeCustomerID == "" {
		return nil, shared.NewDomainError("NO_BILLING_ACCOUNT", "Space has no billing account yet")
	}

	url, err := s.gateway.CreatePortalSession(ctx, sub.StripeCustomerID)
	if err != nil {
		s.logger.Error("failed to create portal session",
			zap.String("space_id", spaceID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("PORTAL_FAILED", "Failed to open billing portal")
	}

	return &PortalResult{PortalURL: url}, nil
}

// CancelSubscription schedules cancellation at the end of the current
// period. The downgrade itself lands via the provider webhook.
func (s *BillingService) CancelSubscription(ctx context.Context, spaceID uuid.UUID) error {
	sub, err := s.subscriptionRepo.FindBySpaceID(ctx, spaceID)
	if err != nil {
		return shared.NewDomainError("SUBSCRIPTION_NOT_FOUND", "No subscription found for this space")
	}
	if !sub.IsPaid() {
		return shared.NewDomainError("INVALID_STATE", "Free subscriptions cannot be canceled")
	}

	if err := s.gateway.CancelSubscription(ctx, sub.StripeSubscriptionID); err != nil {
		s.logger.Error("failed to cancel provider subscription",
			zap.String("space_id", spaceID.String()),
			zap.Error(err))
		return shared.NewDomainError("CANCEL_FAILED", "Failed to cancel subscription")
	}

	if err := sub.ScheduleCancellation(); err != nil {
		return err
	}
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	s.logger.Info("subscription cancellation scheduled",
		zap.String("space_id", spaceID.String()),
		zap.String("plan", string(sub.Plan)))

	return nil
}

// HandleProviderEvent processes a verified webhook event. Deliveries are
// retried by the provider, so the event ID is checked against the store
// first and duplicates are dropped.
func (s *BillingService) HandleProviderEvent(ctx context.Context, event ProviderEvent) error {
	fresh, err := s.webhookStore.MarkProcessed(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("failed to record webhook event: %w", err)
	}
	if !fresh {
		s.logger.Info("duplicate webhook event, skipping",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type))
		return nil
	}

	s.logger.Info("processing provider event",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type))

	switch event.Type {
	case EventCheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, event)
	case EventInvoicePaid:
		return s.applyInvoicePaid(ctx, event)
	case EventInvoiceFailed:
		return s.applyInvoiceFailed(ctx, event)
	case EventSubscriptionDeleted:
		return s.applySubscriptionDeleted(ctx, event)
	default:
		s.logger.Debug("ignoring unhandled provider event type",
			zap.String("type", event.Type))
		return nil
	}
}

func (s *BillingService) applyCheckoutCompleted(ctx context.Context, event ProviderEvent) error {
	sub, err := s.subscriptionRepo.FindBySpaceID(ctx, event.SpaceID)
	if err != nil {
		return fmt.Errorf("subscription not found for space %s: %w", event.SpaceID, err)
	}

	if err := sub.Upgrade(event.Plan, event.StripeCustomerID, event.StripeSubscriptionID, event.PeriodEnd); err != nil {
		return err
	}
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if err := s.eventPublisher.Publish(ctx, sub.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish plan change events", zap.Error(err))
	}
	sub.ClearDomainEvents()

	s.logger.Info("space upgraded",
		zap.String("space_id", event.SpaceID.String()),
		zap.String("plan", string(event.Plan)))

	return nil
}

func (s *BillingService) applyInvoicePaid(ctx context.Context, event ProviderEvent) error {
	sub, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, event.StripeSubscriptionID)
	if err != nil {
		return fmt.Errorf("subscription %s not found: %w", event.StripeSubscriptionID, err)
	}

	sub.RenewPeriod(event.PeriodEnd)
	return s.subscriptionRepo.Update(ctx, sub)
}

func (s *BillingService) applyInvoiceFailed(ctx context.Context, event ProviderEvent) error {
	sub, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, event.StripeSubscriptionID)
	if err != nil {
		return fmt.Errorf("subscription %s not found: %w", event.StripeSubscriptionID, err)
	}

	sub.MarkPastDue()
	s.logger.Warn("subscription past due",
		zap.String("space_id", sub.SpaceID.String()))
	return s.subscriptionRepo.Update(ctx, sub)
}

func (s *BillingService) applySubscriptionDeleted(ctx context.Context, event ProviderEvent) error {
	sub, err := s.subscriptionRepo.FindByStripeSubscriptionID(ctx, event.StripeSubscriptionID)
	if err != nil {
		return fmt.Errorf("subscription %s not found: %w", event.StripeSubscriptionID, err)
	}

	sub.Cancel()
	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if err := s.eventPublisher.Publish(ctx, sub.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish plan change events", zap.Error(err))
	}
	sub.ClearDomainEvents()

	s.logger.Info("space downgraded to free",
		zap.String("space_id", sub.SpaceID.String()))

	return nil
}
