package billing

import (
	"github.com/homehub/backend/internal/domain/shared"
)

// Aggregate type constant for Subscription
const AggregateTypeSubscription = "Subscription"

// Billing domain event types
const (
	EventTypePlanChanged = "PlanChanged"
)

// PlanChangedEvent is published when a space's plan changes in either
// direction
type PlanChangedEvent struct {
	shared.BaseDomainEvent
	OldPlan Plan `json:"old_plan"`
	NewPlan Plan `json:"new_plan"`
}

// NewPlanChangedEvent creates a new PlanChangedEvent
func NewPlanChangedEvent(s *Subscription, oldPlan, newPlan Plan) *PlanChangedEvent {
	return &PlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanChanged, AggregateTypeSubscription, s.ID, s.SpaceID),
		OldPlan:         oldPlan,
		NewPlan:         newPlan,
	}
}
