package rewards

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for points account persistence
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, a *PointsAccount) error

	// Update updates an existing account using optimistic locking
	Update(ctx context.Context, a *PointsAccount) error

	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PointsAccount, error)

	// FindBySpaceAndUser finds the account for a member in a space
	FindBySpaceAndUser(ctx context.Context, spaceID, userID uuid.UUID) (*PointsAccount, error)

	// FindBySpaceID returns all accounts in a space, highest balance first
	FindBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*PointsAccount, error)
}

// TransactionRepository defines the interface for point ledger persistence
type TransactionRepository interface {
	// Create creates ledger entries
	Create(ctx context.Context, txs ...*PointTransaction) error

	// FindByAccountID returns ledger entries for an account, newest first
	FindByAccountID(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]*PointTransaction, int64, error)

	// FindByUserSince returns a user's entries in a space since a time
	FindByUserSince(ctx context.Context, spaceID, userID uuid.UUID, since time.Time) ([]*PointTransaction, error)
}

// RewardItemRepository defines the interface for reward catalog persistence
type RewardItemRepository interface {
	// Create creates a new reward item
	Create(ctx context.Context, item *RewardItem) error

	// Update updates an existing reward item
	Update(ctx context.Context, item *RewardItem) error

	// Delete deletes a reward item by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a reward item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*RewardItem, error)

	// FindBySpaceID returns reward items in a space, active first
	FindBySpaceID(ctx context.Context, spaceID uuid.UUID, activeOnly bool) ([]*RewardItem, error)
}
