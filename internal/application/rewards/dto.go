package rewards

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/rewards"
)

// AccountSummary is the API representation of a member's points account
type AccountSummary struct {
	UserID           uuid.UUID  `json:"user_id"`
	Balance          int        `json:"balance"`
	LifetimeEarned   int        `json:"lifetime_earned"`
	StreakCount      int        `json:"streak_count"`
	LongestStreak    int        `json:"longest_streak"`
	LastCompletionAt *time.Time `json:"last_completion_at,omitempty"`
}

// TransactionInfo is the API representation of a ledger entry
type TransactionInfo struct {
	ID          uuid.UUID               `json:"id"`
	Type        rewards.TransactionType `json:"type"`
	Amount      int                     `json:"amount"`
	ReferenceID *uuid.UUID              `json:"reference_id,omitempty"`
	Note        string                  `json:"note,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// TransactionListResult contains a page of ledger entries
type TransactionListResult struct {
	Transactions []TransactionInfo `json:"transactions"`
	Total        int64             `json:"total"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
}

// CreateRewardItemInput contains input for creating a reward item
type CreateRewardItemInput struct {
	SpaceID     uuid.UUID
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Cost        int    `json:"cost" binding:"required,min=1"`
	Stock       *int   `json:"stock" binding:"omitempty,min=0"`
}

// UpdateRewardItemInput contains input for updating a reward item
type UpdateRewardItemInput struct {
	ItemID      uuid.UUID
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Cost        int    `json:"cost" binding:"required,min=1"`
	Stock       *int   `json:"stock" binding:"omitempty,min=0"`
}

// RewardItemInfo is the API representation of a reward item
type RewardItemInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Cost        int       `json:"cost"`
	Stock       *int      `json:"stock,omitempty"` // nil means unlimited
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// RedeemInput contains input for redeeming a reward item
type RedeemInput struct {
	SpaceID uuid.UUID
	UserID  uuid.UUID
	ItemID  uuid.UUID
}

// RedeemResult contains the outcome of a redemption
type RedeemResult struct {
	ItemID     uuid.UUID `json:"item_id"`
	Cost       int       `json:"cost"`
	NewBalance int       `json:"new_balance"`
}

// AdjustInput contains input for a manual balance adjustment
type AdjustInput struct {
	SpaceID uuid.UUID
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	Amount  int       `json:"amount" binding:"required"`
	Reason  string    `json:"reason" binding:"required,max=500"`
}

func toAccountSummary(a *rewards.PointsAccount) AccountSummary {
	return AccountSummary{
		UserID:           a.UserID,
		Balance:          a.Balance,
		LifetimeEarned:   a.LifetimeEarned,
		StreakCount:      a.StreakCount,
		LongestStreak:    a.LongestStreak,
		LastCompletionAt: a.LastCompletionAt,
	}
}

func toTransactionInfo(tx *rewards.PointTransaction) TransactionInfo {
	return TransactionInfo{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		ReferenceID: tx.ReferenceID,
		Note:        tx.Note,
		CreatedAt:   tx.CreatedAt,
	}
}

func toRewardItemInfo(item *rewards.RewardItem) RewardItemInfo {
	return RewardItemInfo{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Cost:        item.Cost,
		Stock:       item.Stock,
		Active:      item.Active,
		CreatedAt:   item.CreatedAt,
	}
}
