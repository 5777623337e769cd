package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAccountTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE points_accounts (
			id TEXT PRIMARY KEY,
			space_id TEXT NOT NULL,
			created_by TEXT,
			user_id TEXT NOT NULL,
			balance INTEGER NOT NULL DEFAULT 0,
			lifetime_earned INTEGER NOT NULL DEFAULT 0,
			streak_count INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			last_completion_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(space_id, user_id)
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormAccountRepository_CreateAndFind(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	spaceID := uuid.New()
	userID := uuid.New()

	account, err := rewards.NewPointsAccount(spaceID, userID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, account))

	t.Run("finds by space and user", func(t *testing.T) {
		found, err := repo.FindBySpaceAndUser(ctx, spaceID, userID)
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
		assert.Equal(t, 0, found.Balance)
		assert.Equal(t, 1, found.Version)
	})

	t.Run("returns not found for other user", func(t *testing.T) {
		_, err := repo.FindBySpaceAndUser(ctx, spaceID, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormAccountRepository_Update_OptimisticLock(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	account, err := rewards.NewPointsAccount(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, account))

	// Two loads of the same account race to update
	first, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)

	first.Balance = 10
	first.LifetimeEarned = 10
	first.IncrementVersion()
	require.NoError(t, repo.Update(ctx, first))

	second.Balance = 5
	second.LifetimeEarned = 5
	second.IncrementVersion()
	err = repo.Update(ctx, second)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONCURRENT_UPDATE", domainErr.Code)

	// The first writer's state survived
	found, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, found.Balance)
	assert.Equal(t, 2, found.Version)
}

func TestGormAccountRepository_FindBySpaceID(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()

	spaceID := uuid.New()

	low, err := rewards.NewPointsAccount(spaceID, uuid.New())
	require.NoError(t, err)
	low.Balance = 5
	require.NoError(t, repo.Create(ctx, low))

	high, err := rewards.NewPointsAccount(spaceID, uuid.New())
	require.NoError(t, err)
	high.Balance = 120
	require.NoError(t, repo.Create(ctx, high))

	other, err := rewards.NewPointsAccount(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	accounts, err := repo.FindBySpaceID(ctx, spaceID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	// Highest balance first
	assert.Equal(t, high.ID, accounts[0].ID)
	assert.Equal(t, low.ID, accounts[1].ID)
}
