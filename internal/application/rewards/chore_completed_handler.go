package rewards

import (
	"context"

	"github.com/homehub/backend/internal/domain/chore"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ChoreCompletedHandler scores chore completions and credits the
// member's points account. Scoring runs after the completion is already
// committed: any failure here is logged and swallowed so a broken reward
// pipeline never takes chore completion down with it.
type ChoreCompletedHandler struct {
	spaceRepo       identity.SpaceRepository
	accountRepo     rewards.AccountRepository
	transactionRepo rewards.TransactionRepository
	completionRepo  chore.CompletionRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewChoreCompletedHandler creates a new chore completion handler
func NewChoreCompletedHandler(
	spaceRepo identity.SpaceRepository,
	accountRepo rewards.AccountRepository,
	transactionRepo rewards.TransactionRepository,
	completionRepo chore.CompletionRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ChoreCompletedHandler {
	return &ChoreCompletedHandler{
		spaceRepo:       spaceRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		completionRepo:  completionRepo,
		eventPublisher:  eventPublisher,
		logger:          logger,
	}
}

// EventTypes returns the event types this handler processes
func (h *ChoreCompletedHandler) EventTypes() []string {
	return []string{chore.EventTypeChoreCompleted}
}

// Handle scores a chore completion. It always returns nil: reward
// failures must not fail or retry the completion itself.
func (h *ChoreCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completedEvent, ok := event.(*chore.ChoreCompletedEvent)
	if !ok {
		h.logger.Error("unexpected event type for chore completed handler",
			zap.String("event_type", event.EventType()))
		return nil
	}

	logger := h.logger.With(
		zap.String("completion_id", completedEvent.CompletionID.String()),
		zap.String("space_id", completedEvent.SpaceID().String()),
		zap.String("user_id", completedEvent.CompletedBy.String()))

	// Idempotency: event deliveries can repeat, a scored completion is
	// never scored twice
	completion, err := h.completionRepo.FindByID(ctx, completedEvent.CompletionID)
	if err != nil {
		logger.Error("failed to load completion for scoring", zap.Error(err))
		return nil
	}
	if completion.Scored() {
		logger.Info("completion already scored, skipping")
		return nil
	}

	space, err := h.spaceRepo.FindByID(ctx, completedEvent.SpaceID())
	if err != nil {
		logger.Error("failed to load space for scoring", zap.Error(err))
		return nil
	}

	account, err := h.accountRepo.FindBySpaceAndUser(ctx, completedEvent.SpaceID(), completedEvent.CompletedBy)
	if err != nil {
		// First completion in this space, open the account lazily
		account, err = rewards.NewPointsAccount(completedEvent.SpaceID(), completedEvent.CompletedBy)
		if err != nil {
			logger.Error("failed to build points account", zap.Error(err))
			return nil
		}
		if err := h.accountRepo.Create(ctx, account); err != nil {
			logger.Error("failed to create points account", zap.Error(err))
			return nil
		}
	}

	result := rewards.CalculateAward(space.ChoreSettings, rewards.AwardInput{
		ChorePoints:      completedEvent.ChorePoints,
		CompletedAt:      completedEvent.CompletedAt,
		DueAt:            completedEvent.DueAt,
		LastCompletionAt: account.LastCompletionAt,
		CurrentStreak:    account.StreakCount,
	})

	transactions := account.ApplyAward(completedEvent.CompletionID, result, completedEvent.CompletedAt)

	if err := h.accountRepo.Update(ctx, account); err != nil {
		logger.Error("failed to update points account", zap.Error(err))
		return nil
	}
	if len(transactions) > 0 {
		if err := h.transactionRepo.Create(ctx, transactions...); err != nil {
			logger.Error("failed to write point ledger entries", zap.Error(err))
			return nil
		}
	}

	completion.RecordAward(result.Total)
	if err := h.completionRepo.Update(ctx, completion); err != nil {
		logger.Error("failed to record award on completion", zap.Error(err))
		return nil
	}

	if err := h.eventPublisher.Publish(ctx, account.GetDomainEvents()...); err != nil {
		logger.Error("failed to publish points awarded event", zap.Error(err))
	}
	account.ClearDomainEvents()

	logger.Info("completion scored",
		zap.Int("base_points", result.BasePoints),
		zap.Int("streak_bonus", result.StreakBonus),
		zap.Int("late_penalty", result.LatePenalty),
		zap.Int("total", result.Total),
		zap.Int("streak", result.NewStreak),
		zap.Bool("late", result.IsLate))

	return nil
}

// Ensure ChoreCompletedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ChoreCompletedHandler)(nil)
