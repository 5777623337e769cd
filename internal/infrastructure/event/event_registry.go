package event

import (
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/chore"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/messaging"
	"github.com/homehub/backend/internal/domain/rewards"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Identity domain events
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeUserDeactivated, &identity.UserDeactivatedEvent{})
	serializer.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	serializer.Register(identity.EventTypeSpaceCreated, &identity.SpaceCreatedEvent{})
	serializer.Register(identity.EventTypeSpaceSettingsUpdated, &identity.SpaceSettingsUpdatedEvent{})
	serializer.Register(identity.EventTypeMemberJoined, &identity.MemberJoinedEvent{})
	serializer.Register(identity.EventTypeMemberLeft, &identity.MemberLeftEvent{})

	// Chore domain events
	serializer.Register(chore.EventTypeChoreCreated, &chore.ChoreCreatedEvent{})
	serializer.Register(chore.EventTypeChoreCompleted, &chore.ChoreCompletedEvent{})

	// Rewards domain events
	serializer.Register(rewards.EventTypePointsAwarded, &rewards.PointsAwardedEvent{})
	serializer.Register(rewards.EventTypePointsRedeemed, &rewards.PointsRedeemedEvent{})

	// Billing domain events
	serializer.Register(billing.EventTypePlanChanged, &billing.PlanChangedEvent{})

	// Messaging domain events
	serializer.Register(messaging.EventTypeMessageSent, &messaging.MessageSentEvent{})
}
