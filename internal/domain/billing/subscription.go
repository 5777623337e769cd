package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// SubscriptionStatus mirrors the lifecycle reported by the payment provider
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription tracks a space's paid plan. Exactly one subscription row
// exists per space; free spaces have one with PlanFree and no provider
// identifiers.
type Subscription struct {
	shared.SpaceAggregateRoot
	Plan                 Plan               `gorm:"type:varchar(20);not null;default:'free'"`
	Status               SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active'"`
	StripeCustomerID     string             `gorm:"type:varchar(100);index"`
	StripeSubscriptionID string             `gorm:"type:varchar(100);uniqueIndex"`
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool `gorm:"not null;default:false"`
	TrialEndsAt          *time.Time
}

// TableName returns the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// NewFreeSubscription creates the default free subscription for a space
func NewFreeSubscription(spaceID uuid.UUID) (*Subscription, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}

	return &Subscription{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Plan:               PlanFree,
		Status:             SubscriptionStatusActive,
	}, nil
}

// Upgrade moves the subscription to a paid plan, recording the provider
// identifiers from checkout
func (s *Subscription) Upgrade(plan Plan, stripeCustomerID, stripeSubscriptionID string, periodEnd time.Time) error {
	if !plan.IsValid() || plan == PlanFree {
		return shared.NewDomainError("INVALID_PLAN", "Upgrade target must be a paid plan")
	}
	if stripeSubscriptionID == "" {
		return shared.NewDomainError("INVALID_SUBSCRIPTION", "Provider subscription ID is required")
	}

	oldPlan := s.Plan
	s.Plan = plan
	s.Status = SubscriptionStatusActive
	s.StripeCustomerID = stripeCustomerID
	s.StripeSubscriptionID = stripeSubscriptionID
	s.CurrentPeriodEnd = &periodEnd
	s.CancelAtPeriodEnd = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewPlanChangedEvent(s, oldPlan, plan))

	return nil
}

// RenewPeriod extends the current period after a successful invoice
func (s *Subscription) RenewPeriod(periodEnd time.Time) {
	s.CurrentPeriodEnd = &periodEnd
	s.Status = SubscriptionStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// MarkPastDue flags the subscription after a failed payment
func (s *Subscription) MarkPastDue() {
	s.Status = SubscriptionStatusPastDue
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// ScheduleCancellation cancels at the end of the current period
func (s *Subscription) ScheduleCancellation() error {
	if s.Plan == PlanFree {
		return shared.NewDomainError("INVALID_STATE", "Free subscriptions cannot be canceled")
	}

	s.CancelAtPeriodEnd = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Cancel downgrades to free immediately, typically driven by a provider
// webhook at period end
func (s *Subscription) Cancel() {
	oldPlan := s.Plan
	s.Plan = PlanFree
	s.Status = SubscriptionStatusCanceled
	s.StripeSubscriptionID = ""
	s.CurrentPeriodEnd = nil
	s.CancelAtPeriodEnd = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	if oldPlan != PlanFree {
		s.AddDomainEvent(NewPlanChangedEvent(s, oldPlan, PlanFree))
	}
}

// IsPaid returns true if the space is on a paid plan
func (s *Subscription) IsPaid() bool {
	return s.Plan != PlanFree
}

// IsExpired returns true if the paid period has lapsed
func (s *Subscription) IsExpired(now time.Time) bool {
	if s.CurrentPeriodEnd == nil {
		return false
	}
	return now.After(*s.CurrentPeriodEnd)
}
