package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/budget"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BudgetService manages spending envelopes and computes usage against
// them. Periods reset in the space's own timezone, not the server's.
type BudgetService struct {
	budgetRepo  budget.BudgetRepository
	expenseRepo budget.ExpenseRepository
	spaceRepo   identity.SpaceRepository
	logger      *zap.Logger
}

// NewBudgetService creates a new budget service
func NewBudgetService(
	budgetRepo budget.BudgetRepository,
	expenseRepo budget.ExpenseRepository,
	spaceRepo identity.SpaceRepository,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
		spaceRepo:   spaceRepo,
		logger:      logger,
	}
}

// CreateBudget creates a budget envelope. Only one active budget per
// category is allowed in a space.
func (s *BudgetService) CreateBudget(ctx context.Context, input CreateBudgetInput) (*BudgetInfo, error) {
	period := input.Period
	if period == "" {
		period = budget.BudgetPeriodMonthly
	}

	b, err := budget.NewBudget(input.SpaceID, input.Name, input.Category, input.Limit, period)
	if err != nil {
		return nil, err
	}

	if existing, err := s.budgetRepo.FindBySpaceAndCategory(ctx, input.SpaceID, b.Category); err == nil && existing != nil {
		return nil, shared.NewDomainError("BUDGET_EXISTS", "An active budget for this category already exists")
	}

	if err := s.budgetRepo.Create(ctx, b); err != nil {
		s.logger.Error("failed to create budget", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create budget")
	}

	s.logger.Info("budget created",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("budget_id", b.ID.String()),
		zap.String("category", b.Category))

	info := toBudgetInfo(b)
	return &info, nil
}

// GetBudget returns a budget with its current-period usage
func (s *BudgetService) GetBudget(ctx context.Context, budgetID uuid.UUID) (*BudgetInfo, error) {
	b, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, shared.NewDomainError("BUDGET_NOT_FOUND", "Budget not found")
	}

	info := toBudgetInfo(b)
	usage, err := s.usage(ctx, b, time.Now())
	if err != nil {
		s.logger.Error("failed to compute budget usage",
			zap.String("budget_id", budgetID.String()),
			zap.Error(err))
	} else {
		info.Usage = usage
	}
	return &info, nil
}

// ListBudgets returns the budgets in a space with current-period usage
func (s *BudgetService) ListBudgets(ctx context.Context, spaceID uuid.UUID, includeArchived bool) ([]BudgetInfo, error) {
	budgets, err := s.budgetRepo.FindBySpaceID(ctx, spaceID, includeArchived)
	if err != nil {
		s.logger.Error("failed to list budgets", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list budgets")
	}

	now := time.Now()
	infos := make([]BudgetInfo, 0, len(budgets))
	for _, b := range budgets {
		info := toBudgetInfo(b)
		if !b.Archived {
			if usage, err := s.usage(ctx, b, now); err == nil {
				info.Usage = usage
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// UpdateBudget updates a budget's name or limit. Nil inputs are left
// unchanged.
func (s *BudgetService) UpdateBudget(ctx context.Context, input UpdateBudgetInput) (*BudgetInfo, error) {
	b, err := s.budgetRepo.FindByID(ctx, input.BudgetID)
	if err != nil {
		return nil, shared.NewDomainError("BUDGET_NOT_FOUND", "Budget not found")
	}

	if input.Name != nil {
		if err := b.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Limit != nil {
		if err := b.SetLimit(*input.Limit); err != nil {
			return nil, err
		}
	}

	if err := s.budgetRepo.Update(ctx, b); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update budget")
	}

	info := toBudgetInfo(b)
	return &info, nil
}

// ArchiveBudget archives a budget. Archived budgets keep their history
// but no longer track spending.
func (s *BudgetService) ArchiveBudget(ctx context.Context, budgetID uuid.UUID) error {
	b, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return shared.NewDomainError("BUDGET_NOT_FOUND", "Budget not found")
	}

	b.Archive()
	if err := s.budgetRepo.Update(ctx, b); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to archive budget")
	}
	return nil
}

// usage sums the category's expenses from the period start (in the
// space's timezone) until now.
func (s *BudgetService) usage(ctx context.Context, b *budget.Budget, now time.Time) (*budget.Usage, error) {
	loc := time.UTC
	if space, err := s.spaceRepo.FindByID(ctx, b.SpaceID); err == nil {
		if l, err := time.LoadLocation(space.Timezone); err == nil {
			loc = l
		}
	}

	from := b.PeriodStart(now, loc)
	spent, err := s.expenseRepo.SumByCategory(ctx, b.SpaceID, b.Category, from, now)
	if err != nil {
		return nil, err
	}

	usage := b.UsageFor(spent)
	return &usage, nil
}
