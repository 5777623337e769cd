package rewards

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// PointsAccount tracks one member's reward balance and streak within a
// space. Every balance change goes through a PointTransaction so the
// ledger always explains the balance.
type PointsAccount struct {
	shared.SpaceAggregateRoot
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Balance          int       `gorm:"not null;default:0"`
	LifetimeEarned   int       `gorm:"not null;default:0"`
	StreakCount      int       `gorm:"not null;default:0"`
	LongestStreak    int       `gorm:"not null;default:0"`
	LastCompletionAt *time.Time
}

// TableName returns the table name for GORM
func (PointsAccount) TableName() string {
	return "points_accounts"
}

// NewPointsAccount creates an empty account for a member in a space
func NewPointsAccount(spaceID, userID uuid.UUID) (*PointsAccount, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	return &PointsAccount{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		UserID:             userID,
	}, nil
}

// ApplyAward applies a scored completion to the account and returns the
// ledger transactions describing it. Streak state advances even when the
// net point change is zero.
func (a *PointsAccount) ApplyAward(completionID uuid.UUID, result AwardResult, completedAt time.Time) []*PointTransaction {
	transactions := make([]*PointTransaction, 0, 3)

	apply := func(txType TransactionType, amount int) {
		// Deductions clamp at zero balance, and the ledger row records the
		// clamped amount so the ledger still sums to the balance
		if amount < 0 && -amount > a.Balance {
			amount = -a.Balance
		}
		if amount == 0 {
			return
		}
		a.Balance += amount
		transactions = append(transactions, newTransaction(a, txType, amount, &completionID))
	}

	if result.BasePoints > 0 {
		apply(TransactionTypeEarn, result.BasePoints)
	}
	if result.StreakBonus > 0 {
		apply(TransactionTypeStreakBonus, result.StreakBonus)
	}
	if result.LatePenalty > 0 {
		apply(TransactionTypeLatePenalty, -result.LatePenalty)
	}
	a.LifetimeEarned += result.BasePoints + result.StreakBonus

	a.StreakCount = result.NewStreak
	if a.StreakCount > a.LongestStreak {
		a.LongestStreak = a.StreakCount
	}
	a.LastCompletionAt = &completedAt
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewPointsAwardedEvent(a, result, completionID))

	return transactions
}

// Redeem spends points on a reward item
func (a *PointsAccount) Redeem(itemID uuid.UUID, cost int) (*PointTransaction, error) {
	if cost <= 0 {
		return nil, shared.NewDomainError("INVALID_COST", "Redemption cost must be positive")
	}
	if a.Balance < cost {
		return nil, shared.ErrInsufficientPoints
	}

	a.Balance -= cost
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	tx := newTransaction(a, TransactionTypeRedeem, -cost, &itemID)

	a.AddDomainEvent(NewPointsRedeemedEvent(a, itemID, cost))

	return tx, nil
}

// Adjust applies a manual correction by a space admin. Negative amounts
// cannot take the balance below zero.
func (a *PointsAccount) Adjust(amount int, reason string) (*PointTransaction, error) {
	if amount == 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount cannot be zero")
	}
	if a.Balance+amount < 0 {
		return nil, shared.ErrInsufficientPoints
	}

	a.Balance += amount
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	tx := newTransaction(a, TransactionTypeAdjust, amount, nil)
	tx.Note = reason

	return tx, nil
}

// ResetStreak clears the streak, e.g. when a member leaves and rejoins
func (a *PointsAccount) ResetStreak() {
	a.StreakCount = 0
	a.LastCompletionAt = nil
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
