package rewards

import (
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// TransactionType classifies a point ledger entry
type TransactionType string

const (
	TransactionTypeEarn        TransactionType = "earn"         // Base points for a completion
	TransactionTypeStreakBonus TransactionType = "streak_bonus" // Interval bonus
	TransactionTypeLatePenalty TransactionType = "late_penalty" // Deduction for late completion
	TransactionTypeRedeem      TransactionType = "redeem"       // Spent on a reward item
	TransactionTypeAdjust      TransactionType = "adjust"       // Manual admin correction
)

// PointTransaction is one immutable row in a member's point ledger.
// Amount is signed: deductions are negative.
type PointTransaction struct {
	shared.SpaceAggregateRoot
	AccountID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type         TransactionType `gorm:"type:varchar(20);not null"`
	Amount       int             `gorm:"not null"`
	BalanceAfter int             `gorm:"not null"`
	ReferenceID  *uuid.UUID      `gorm:"type:uuid;index"` // Completion or reward item
	Note         string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PointTransaction) TableName() string {
	return "point_transactions"
}

func newTransaction(a *PointsAccount, txType TransactionType, amount int, referenceID *uuid.UUID) *PointTransaction {
	return &PointTransaction{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(a.SpaceID),
		AccountID:          a.ID,
		UserID:             a.UserID,
		Type:               txType,
		Amount:             amount,
		BalanceAfter:       a.Balance,
		ReferenceID:        referenceID,
	}
}
