package rewards

import (
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// Aggregate type constant for PointsAccount
const AggregateTypePointsAccount = "PointsAccount"

// Rewards domain event types
const (
	EventTypePointsAwarded  = "PointsAwarded"
	EventTypePointsRedeemed = "PointsRedeemed"
)

// PointsAwardedEvent is published after a completion has been scored
type PointsAwardedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID `json:"user_id"`
	CompletionID uuid.UUID `json:"completion_id"`
	BasePoints   int       `json:"base_points"`
	StreakBonus  int       `json:"streak_bonus"`
	LatePenalty  int       `json:"late_penalty"`
	Total        int       `json:"total"`
	NewStreak    int       `json:"new_streak"`
	NewBalance   int       `json:"new_balance"`
}

// NewPointsAwardedEvent creates a new PointsAwardedEvent
func NewPointsAwardedEvent(a *PointsAccount, result AwardResult, completionID uuid.UUID) *PointsAwardedEvent {
	return &PointsAwardedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePointsAwarded, AggregateTypePointsAccount, a.ID, a.SpaceID),
		UserID:          a.UserID,
		CompletionID:    completionID,
		BasePoints:      result.BasePoints,
		StreakBonus:     result.StreakBonus,
		LatePenalty:     result.LatePenalty,
		Total:           result.Total,
		NewStreak:       result.NewStreak,
		NewBalance:      a.Balance,
	}
}

// PointsRedeemedEvent is published when a member redeems a reward
type PointsRedeemedEvent struct {
	shared.BaseDomainEvent
	UserID     uuid.UUID `json:"user_id"`
	ItemID     uuid.UUID `json:"item_id"`
	Cost       int       `json:"cost"`
	NewBalance int       `json:"new_balance"`
}

// NewPointsRedeemedEvent creates a new PointsRedeemedEvent
func NewPointsRedeemedEvent(a *PointsAccount, itemID uuid.UUID, cost int) *PointsRedeemedEvent {
	return &PointsRedeemedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePointsRedeemed, AggregateTypePointsAccount, a.ID, a.SpaceID),
		UserID:          a.UserID,
		ItemID:          itemID,
		Cost:            cost,
		NewBalance:      a.Balance,
	}
}
