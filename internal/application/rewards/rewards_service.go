package rewards

import (
	"context"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RewardsService exposes point balances, the ledger, and the reward
// catalog. Earning happens in the completion handler; this service
// covers everything members and admins do with the points afterwards.
type RewardsService struct {
	accountRepo     rewards.AccountRepository
	transactionRepo rewards.TransactionRepository
	itemRepo        rewards.RewardItemRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewRewardsService creates a new rewards service
func NewRewardsService(
	accountRepo rewards.AccountRepository,
	transactionRepo rewards.TransactionRepository,
	itemRepo rewards.RewardItemRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *RewardsService {
	return &RewardsService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		itemRepo:        itemRepo,
		eventPublisher:  eventPublisher,
		logger:          logger,
	}
}

// GetSummary returns a member's account summary. Members who have not
// completed anything yet get an empty summary, not an error.
func (s *RewardsService) GetSummary(ctx context.Context, spaceID, userID uuid.UUID) (*AccountSummary, error) {
	account, err := s.accountRepo.FindBySpaceAndUser(ctx, spaceID, userID)
	if err != nil {
		return &AccountSummary{UserID: userID}, nil
	}

	summary := toAccountSummary(account)
	return &summary, nil
}

// GetLeaderboard returns every account in the space, highest balance first
func (s *RewardsService) GetLeaderboard(ctx context.Context, spaceID uuid.UUID) ([]AccountSummary, error) {
	accounts, err := s.accountRepo.FindBySpaceID(ctx, spaceID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load leaderboard")
	}

	summaries := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, toAccountSummary(a))
	}
	return summaries, nil
}

// ListTransactions returns a member's ledger, newest first
func (s *RewardsService) ListTransactions(ctx context.Context, spaceID, userID uuid.UUID, page, pageSize int) (*TransactionListResult, error) {
	account, err := s.accountRepo.FindBySpaceAndUser(ctx, spaceID, userID)
	if err != nil {
		return &TransactionListResult{Transactions: []TransactionInfo{}, Page: 1, PageSize: pageSize}, nil
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	txs, total, err := s.transactionRepo.FindByAccountID(ctx, account.ID, page, pageSize)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load transactions")
	}

	infos := make([]TransactionInfo, 0, len(txs))
	for _, tx := range txs {
		infos = append(infos, toTransactionInfo(tx))
	}

	return &TransactionListResult{
		Transactions: infos,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

// CreateRewardItem adds a redeemable reward to the space catalog
func (s *RewardsService) CreateRewardItem(ctx context.Context, input CreateRewardItemInput) (*RewardItemInfo, error) {
	item, err := rewards.NewRewardItem(input.SpaceID, input.Name, input.Cost)
	if err != nil {
		return nil, err
	}
	if input.Description != "" {
		if err := item.Update(input.Name, input.Description, input.Cost); err != nil {
			return nil, err
		}
	}
	if input.Stock != nil {
		if err := item.SetStock(input.Stock); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		s.logger.Error("failed to create reward item", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create reward")
	}

	s.logger.Info("reward item created",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("item_id", item.ID.String()),
		zap.Int("cost", item.Cost))

	info := toRewardItemInfo(item)
	return &info, nil
}

// UpdateRewardItem updates a catalog entry
func (s *RewardsService) UpdateRewardItem(ctx context.Context, input UpdateRewardItemInput) (*RewardItemInfo, error) {
	item, err := s.itemRepo.FindByID(ctx, input.ItemID)
	if err != nil {
		return nil, shared.NewDomainError("REWARD_NOT_FOUND", "Reward not found")
	}

	if err := item.Update(input.Name, input.Description, input.Cost); err != nil {
		return nil, err
	}
	if err := item.SetStock(input.Stock); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update reward")
	}

	info := toRewardItemInfo(item)
	return &info, nil
}

// ListRewardItems returns the space's reward catalog
func (s *RewardsService) ListRewardItems(ctx context.Context, spaceID uuid.UUID, activeOnly bool) ([]RewardItemInfo, error) {
	items, err := s.itemRepo.FindBySpaceID(ctx, spaceID, activeOnly)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load rewards")
	}

	infos := make([]RewardItemInfo, 0, len(items))
	for _, item := range items {
		infos = append(infos, toRewardItemInfo(item))
	}
	return infos, nil
}

// DeactivateRewardItem hides a reward from the catalog
func (s *RewardsService) DeactivateRewardItem(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return shared.NewDomainError("REWARD_NOT_FOUND", "Reward not found")
	}

	item.Deactivate()
	return s.itemRepo.Update(ctx, item)
}

// Redeem spends a member's points on a reward item
func (s *RewardsService) Redeem(ctx context.Context, input RedeemInput) (*RedeemResult, error) {
	item, err := s.itemRepo.FindByID(ctx, input.ItemID)
	if err != nil {
		return nil, shared.NewDomainError("REWARD_NOT_FOUND", "Reward not found")
	}
	if !item.CanRedeem() {
		return nil, shared.NewDomainError("REWARD_UNAVAILABLE", "Reward is not available for redemption")
	}

	account, err := s.accountRepo.FindBySpaceAndUser(ctx, input.SpaceID, input.UserID)
	if err != nil {
		return nil, shared.ErrInsufficientPoints
	}

	tx, err := account.Redeem(item.ID, item.Cost)
	if err != nil {
		return nil, err
	}
	if err := item.ConsumeStock(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("failed to update account after redemption", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to redeem reward")
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		s.logger.Error("failed to write redemption ledger entry", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to redeem reward")
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		s.logger.Error("failed to update reward stock", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to redeem reward")
	}

	if err := s.eventPublisher.Publish(ctx, account.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish redemption event", zap.Error(err))
	}
	account.ClearDomainEvents()

	s.logger.Info("reward redeemed",
		zap.String("user_id", input.UserID.String()),
		zap.String("item_id", item.ID.String()),
		zap.Int("cost", item.Cost),
		zap.Int("new_balance", account.Balance))

	return &RedeemResult{
		ItemID:     item.ID,
		Cost:       item.Cost,
		NewBalance: account.Balance,
	}, nil
}

// Adjust applies a manual balance correction by a space admin
func (s *RewardsService) Adjust(ctx context.Context, input AdjustInput) (*AccountSummary, error) {
	account, err := s.accountRepo.FindBySpaceAndUser(ctx, input.SpaceID, input.UserID)
	if err != nil {
		// Adjusting a member without an account opens one
		account, err = rewards.NewPointsAccount(input.SpaceID, input.UserID)
		if err != nil {
			return nil, err
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
		}
	}

	tx, err := account.Adjust(input.Amount, input.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to adjust balance")
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to adjust balance")
	}

	s.logger.Info("balance adjusted",
		zap.String("user_id", input.UserID.String()),
		zap.Int("amount", input.Amount),
		zap.String("reason", input.Reason))

	summary := toAccountSummary(account)
	return &summary, nil
}
