package rewards

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T) *PointsAccount {
	t.Helper()
	account, err := NewPointsAccount(uuid.New(), uuid.New())
	require.NoError(t, err)
	return account
}

func TestPointsAccount_ApplyAward(t *testing.T) {
	t.Run("base award updates balance and streak", func(t *testing.T) {
		account := newTestAccount(t)
		completedAt := time.Now()

		txs := account.ApplyAward(uuid.New(), AwardResult{
			BasePoints: 10,
			Total:      10,
			NewStreak:  1,
		}, completedAt)

		require.Len(t, txs, 1)
		assert.Equal(t, TransactionTypeEarn, txs[0].Type)
		assert.Equal(t, 10, txs[0].Amount)
		assert.Equal(t, 10, txs[0].BalanceAfter)
		assert.Equal(t, 10, account.Balance)
		assert.Equal(t, 10, account.LifetimeEarned)
		assert.Equal(t, 1, account.StreakCount)
		assert.Equal(t, 1, account.LongestStreak)
		require.NotNil(t, account.LastCompletionAt)
	})

	t.Run("bonus and penalty produce separate ledger rows", func(t *testing.T) {
		account := newTestAccount(t)

		txs := account.ApplyAward(uuid.New(), AwardResult{
			BasePoints:  10,
			StreakBonus: 5,
			LatePenalty: 5,
			Total:       10,
			NewStreak:   5,
		}, time.Now())

		require.Len(t, txs, 3)
		assert.Equal(t, TransactionTypeEarn, txs[0].Type)
		assert.Equal(t, TransactionTypeStreakBonus, txs[1].Type)
		assert.Equal(t, TransactionTypeLatePenalty, txs[2].Type)
		assert.Equal(t, -5, txs[2].Amount)
		assert.Equal(t, 10, account.Balance)
		assert.Equal(t, 15, account.LifetimeEarned)
	})

	t.Run("longest streak is preserved after reset", func(t *testing.T) {
		account := newTestAccount(t)

		account.ApplyAward(uuid.New(), AwardResult{BasePoints: 10, Total: 10, NewStreak: 7}, time.Now())
		account.ApplyAward(uuid.New(), AwardResult{BasePoints: 10, Total: 10, NewStreak: 1}, time.Now())

		assert.Equal(t, 1, account.StreakCount)
		assert.Equal(t, 7, account.LongestStreak)
	})

	t.Run("penalty cannot push balance negative", func(t *testing.T) {
		account := newTestAccount(t)
		account.Balance = 2

		txs := account.ApplyAward(uuid.New(), AwardResult{LatePenalty: 10, NewStreak: 1}, time.Now())

		assert.Equal(t, 0, account.Balance)
		require.Len(t, txs, 1)
		assert.Equal(t, -2, txs[0].Amount)
		assert.Equal(t, 0, txs[0].BalanceAfter)
	})

	t.Run("clamped penalty keeps ledger in sync with balance", func(t *testing.T) {
		account := newTestAccount(t)

		txs := account.ApplyAward(uuid.New(), AwardResult{
			BasePoints:  3,
			LatePenalty: 10,
			NewStreak:   1,
		}, time.Now())

		var sum int
		for _, tx := range txs {
			sum += tx.Amount
		}
		assert.Equal(t, account.Balance, sum)
		assert.Equal(t, 0, account.Balance)
	})

	t.Run("penalty on empty balance writes no ledger row", func(t *testing.T) {
		account := newTestAccount(t)

		txs := account.ApplyAward(uuid.New(), AwardResult{LatePenalty: 5, NewStreak: 1}, time.Now())

		assert.Empty(t, txs)
		assert.Equal(t, 0, account.Balance)
		assert.Equal(t, 1, account.StreakCount)
	})

	t.Run("emits points awarded event", func(t *testing.T) {
		account := newTestAccount(t)
		completionID := uuid.New()

		account.ApplyAward(completionID, AwardResult{BasePoints: 10, Total: 10, NewStreak: 1}, time.Now())

		events := account.GetDomainEvents()
		require.Len(t, events, 1)
		awarded, ok := events[0].(*PointsAwardedEvent)
		require.True(t, ok)
		assert.Equal(t, completionID, awarded.CompletionID)
		assert.Equal(t, 10, awarded.NewBalance)
	})
}

func TestPointsAccount_Redeem(t *testing.T) {
	t.Run("deducts cost and records transaction", func(t *testing.T) {
		account := newTestAccount(t)
		account.Balance = 50
		itemID := uuid.New()

		tx, err := account.Redeem(itemID, 30)
		require.NoError(t, err)

		assert.Equal(t, 20, account.Balance)
		assert.Equal(t, TransactionTypeRedeem, tx.Type)
		assert.Equal(t, -30, tx.Amount)
		assert.Equal(t, 20, tx.BalanceAfter)
	})

	t.Run("rejects insufficient balance", func(t *testing.T) {
		account := newTestAccount(t)
		account.Balance = 10

		_, err := account.Redeem(uuid.New(), 30)
		assert.Error(t, err)
		assert.Equal(t, 10, account.Balance)
	})

	t.Run("rejects non-positive cost", func(t *testing.T) {
		account := newTestAccount(t)
		_, err := account.Redeem(uuid.New(), 0)
		assert.Error(t, err)
	})
}

func TestPointsAccount_Adjust(t *testing.T) {
	account := newTestAccount(t)
	account.Balance = 10

	t.Run("positive adjustment", func(t *testing.T) {
		tx, err := account.Adjust(5, "birthday bonus")
		require.NoError(t, err)
		assert.Equal(t, 15, account.Balance)
		assert.Equal(t, "birthday bonus", tx.Note)
	})

	t.Run("negative adjustment cannot go below zero", func(t *testing.T) {
		_, err := account.Adjust(-100, "oops")
		assert.Error(t, err)
		assert.Equal(t, 15, account.Balance)
	})

	t.Run("zero adjustment is rejected", func(t *testing.T) {
		_, err := account.Adjust(0, "")
		assert.Error(t, err)
	})
}

func TestRewardItem(t *testing.T) {
	spaceID := uuid.New()

	t.Run("limited stock is consumed", func(t *testing.T) {
		item, err := NewRewardItem(spaceID, "Movie night", 50)
		require.NoError(t, err)

		stock := 1
		require.NoError(t, item.SetStock(&stock))
		assert.True(t, item.CanRedeem())

		require.NoError(t, item.ConsumeStock())
		assert.False(t, item.CanRedeem())
		assert.Error(t, item.ConsumeStock())
	})

	t.Run("unlimited stock never runs out", func(t *testing.T) {
		item, err := NewRewardItem(spaceID, "Extra screen time", 20)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			require.NoError(t, item.ConsumeStock())
		}
		assert.True(t, item.CanRedeem())
	})

	t.Run("deactivated item cannot be redeemed", func(t *testing.T) {
		item, err := NewRewardItem(spaceID, "Movie night", 50)
		require.NoError(t, err)

		item.Deactivate()
		assert.False(t, item.CanRedeem())
	})

	t.Run("rejects non-positive cost", func(t *testing.T) {
		_, err := NewRewardItem(spaceID, "Free", 0)
		assert.Error(t, err)
	})
}
