package rewards

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceMocks struct {
	accountRepo     *MockAccountRepository
	transactionRepo *MockTransactionRepository
	itemRepo        *MockRewardItemRepository
	publisher       *MockEventPublisher
}

func newRewardsService() (*RewardsService, *serviceMocks) {
	m := &serviceMocks{
		accountRepo:     new(MockAccountRepository),
		transactionRepo: new(MockTransactionRepository),
		itemRepo:        new(MockRewardItemRepository),
		publisher:       new(MockEventPublisher),
	}
	svc := NewRewardsService(m.accountRepo, m.transactionRepo, m.itemRepo, m.publisher, zap.NewNop())
	return svc, m
}

func accountWithBalance(t *testing.T, spaceID, userID uuid.UUID, balance int) *rewards.PointsAccount {
	t.Helper()
	account, err := rewards.NewPointsAccount(spaceID, userID)
	require.NoError(t, err)
	account.Balance = balance
	return account
}

func TestRewardsService_GetSummary_NoAccountYet(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()
	userID := uuid.New()

	m.accountRepo.On("FindBySpaceAndUser", ctx, spaceID, userID).Return(nil, errors.New("not found"))

	summary, err := svc.GetSummary(ctx, spaceID, userID)

	require.NoError(t, err)
	assert.Equal(t, userID, summary.UserID)
	assert.Equal(t, 0, summary.Balance)
	assert.Equal(t, 0, summary.StreakCount)
}

func TestRewardsService_GetLeaderboard(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()

	first := accountWithBalance(t, spaceID, uuid.New(), 120)
	second := accountWithBalance(t, spaceID, uuid.New(), 40)

	m.accountRepo.On("FindBySpaceID", ctx, spaceID).Return([]*rewards.PointsAccount{first, second}, nil)

	board, err := svc.GetLeaderboard(ctx, spaceID)

	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 120, board[0].Balance)
	assert.Equal(t, 40, board[1].Balance)
}

func TestRewardsService_Redeem(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()
	userID := uuid.New()

	item, err := rewards.NewRewardItem(spaceID, "Movie night", 50)
	require.NoError(t, err)
	stock := 2
	require.NoError(t, item.SetStock(&stock))

	account := accountWithBalance(t, spaceID, userID, 80)

	m.itemRepo.On("FindByID", ctx, item.ID).Return(item, nil)
	m.accountRepo.On("FindBySpaceAndUser", ctx, spaceID, userID).Return(account, nil)
	m.accountRepo.On("Update", ctx, account).Return(nil)
	m.transactionRepo.On("Create", ctx, mock.MatchedBy(func(txs []*rewards.PointTransaction) bool {
		return len(txs) == 1 && txs[0].Type == rewards.TransactionTypeRedeem && txs[0].Amount == -50
	})).Return(nil)
	m.itemRepo.On("Update", ctx, item).Return(nil)
	m.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	result, err := svc.Redeem(ctx, RedeemInput{SpaceID: spaceID, UserID: userID, ItemID: item.ID})

	require.NoError(t, err)
	assert.Equal(t, 50, result.Cost)
	assert.Equal(t, 30, result.NewBalance)
	assert.Equal(t, 1, *item.Stock)
	m.transactionRepo.AssertExpectations(t)
}

func TestRewardsService_Redeem_InsufficientPoints(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()
	userID := uuid.New()

	item, err := rewards.NewRewardItem(spaceID, "Movie night", 50)
	require.NoError(t, err)
	account := accountWithBalance(t, spaceID, userID, 20)

	m.itemRepo.On("FindByID", ctx, item.ID).Return(item, nil)
	m.accountRepo.On("FindBySpaceAndUser", ctx, spaceID, userID).Return(account, nil)

	_, err = svc.Redeem(ctx, RedeemInput{SpaceID: spaceID, UserID: userID, ItemID: item.ID})

	assert.ErrorIs(t, err, shared.ErrInsufficientPoints)
	assert.Equal(t, 20, account.Balance)
	m.accountRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRewardsService_Redeem_OutOfStock(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()

	item, err := rewards.NewRewardItem(spaceID, "Movie night", 50)
	require.NoError(t, err)
	stock := 0
	require.NoError(t, item.SetStock(&stock))

	m.itemRepo.On("FindByID", ctx, item.ID).Return(item, nil)

	_, err = svc.Redeem(ctx, RedeemInput{SpaceID: spaceID, UserID: uuid.New(), ItemID: item.ID})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "REWARD_UNAVAILABLE", domainErr.Code)
}

func TestRewardsService_Adjust(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()
	userID := uuid.New()
	account := accountWithBalance(t, spaceID, userID, 10)

	m.accountRepo.On("FindBySpaceAndUser", ctx, spaceID, userID).Return(account, nil)
	m.accountRepo.On("Update", ctx, account).Return(nil)
	m.transactionRepo.On("Create", ctx, mock.MatchedBy(func(txs []*rewards.PointTransaction) bool {
		return len(txs) == 1 && txs[0].Type == rewards.TransactionTypeAdjust && txs[0].Note == "lost tooth bonus"
	})).Return(nil)

	summary, err := svc.Adjust(ctx, AdjustInput{
		SpaceID: spaceID,
		UserID:  userID,
		Amount:  25,
		Reason:  "lost tooth bonus",
	})

	require.NoError(t, err)
	assert.Equal(t, 35, summary.Balance)
}

func TestRewardsService_Adjust_OpensAccountWhenMissing(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()
	userID := uuid.New()

	m.accountRepo.On("FindBySpaceAndUser", ctx, spaceID, userID).Return(nil, errors.New("not found"))
	m.accountRepo.On("Create", ctx, mock.AnythingOfType("*rewards.PointsAccount")).Return(nil)
	m.accountRepo.On("Update", ctx, mock.AnythingOfType("*rewards.PointsAccount")).Return(nil)
	m.transactionRepo.On("Create", ctx, mock.Anything).Return(nil)

	summary, err := svc.Adjust(ctx, AdjustInput{
		SpaceID: spaceID,
		UserID:  userID,
		Amount:  10,
		Reason:  "starter points",
	})

	require.NoError(t, err)
	assert.Equal(t, 10, summary.Balance)
}

func TestRewardsService_Adjust_CannotGoNegative(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()
	userID := uuid.New()
	account := accountWithBalance(t, spaceID, userID, 10)

	m.accountRepo.On("FindBySpaceAndUser", ctx, spaceID, userID).Return(account, nil)

	_, err := svc.Adjust(ctx, AdjustInput{
		SpaceID: spaceID,
		UserID:  userID,
		Amount:  -25,
		Reason:  "oops",
	})

	assert.ErrorIs(t, err, shared.ErrInsufficientPoints)
}

func TestRewardsService_CreateRewardItem(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()
	stock := 3

	m.itemRepo.On("Create", ctx, mock.MatchedBy(func(item *rewards.RewardItem) bool {
		return item.Name == "Extra screen time" && item.Cost == 30 && *item.Stock == 3
	})).Return(nil)

	info, err := svc.CreateRewardItem(ctx, CreateRewardItemInput{
		SpaceID: spaceID,
		Name:    "Extra screen time",
		Cost:    30,
		Stock:   &stock,
	})

	require.NoError(t, err)
	assert.Equal(t, "Extra screen time", info.Name)
	assert.True(t, info.Active)
}

func TestRewardsService_ListTransactions_NoAccount(t *testing.T) {
	svc, m := newRewardsService()
	ctx := context.Background()
	spaceID := uuid.New()
	userID := uuid.New()

	m.accountRepo.On("FindBySpaceAndUser", ctx, spaceID, userID).Return(nil, errors.New("not found"))

	result, err := svc.ListTransactions(ctx, spaceID, userID, 1, 20)

	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
	assert.Equal(t, int64(0), result.Total)
}
