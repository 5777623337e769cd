package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/budget"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockBudgetRepository is a mock implementation of budget.BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID, includeArchived bool) ([]*budget.Budget, error) {
	args := m.Called(ctx, spaceID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*budget.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBySpaceAndCategory(ctx context.Context, spaceID uuid.UUID, category string) (*budget.Budget, error) {
	args := m.Called(ctx, spaceID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

// MockExpenseRepository is a mock implementation of budget.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, e *budget.Expense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockExpenseRepository) Update(ctx context.Context, e *budget.Expense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter budget.ExpenseFilter) ([]*budget.Expense, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*budget.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) SumByCategory(ctx context.Context, spaceID uuid.UUID, category string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, spaceID, category, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) SumBySpace(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, spaceID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSpaceRepository is a mock implementation of identity.SpaceRepository
type MockSpaceRepository struct {
	mock.Mock
}

func (m *MockSpaceRepository) Create(ctx context.Context, space *identity.Space) error {
	args := m.Called(ctx, space)
	return args.Error(0)
}

func (m *MockSpaceRepository) Update(ctx context.Context, space *identity.Space) error {
	args := m.Called(ctx, space)
	return args.Error(0)
}

func (m *MockSpaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSpaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Space), args.Error(1)
}

func (m *MockSpaceRepository) FindByInviteCode(ctx context.Context, code string) (*identity.Space, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Space), args.Error(1)
}

func (m *MockSpaceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*identity.Space, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Space), args.Error(1)
}

func (m *MockSpaceRepository) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of billing.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *billing.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, s *billing.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByStripeSubscriptionID(ctx context.Context, stripeID string) (*billing.Subscription, error) {
	args := m.Called(ctx, stripeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*billing.Subscription, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

// MockReceiptStorage is a mock implementation of ReceiptStorage
type MockReceiptStorage struct {
	mock.Mock
}

func (m *MockReceiptStorage) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockReceiptStorage) PresignDownload(ctx context.Context, key string) (string, time.Time, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockReceiptStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newBudgetService() (*BudgetService, *MockBudgetRepository, *MockExpenseRepository, *MockSpaceRepository) {
	budgetRepo := new(MockBudgetRepository)
	expenseRepo := new(MockExpenseRepository)
	spaceRepo := new(MockSpaceRepository)
	svc := NewBudgetService(budgetRepo, expenseRepo, spaceRepo, zap.NewNop())
	return svc, budgetRepo, expenseRepo, spaceRepo
}

func newTestBudget(t *testing.T, spaceID uuid.UUID, period budget.BudgetPeriod) *budget.Budget {
	t.Helper()
	b, err := budget.NewBudget(spaceID, "Groceries", "groceries", decimal.NewFromInt(400), period)
	require.NoError(t, err)
	return b
}

func newTestSpace(t *testing.T, spaceID uuid.UUID) *identity.Space {
	t.Helper()
	space, err := identity.NewSpace("The Riveras", uuid.New())
	require.NoError(t, err)
	space.ID = spaceID
	return space
}

func TestBudgetService_CreateBudget(t *testing.T) {
	svc, budgetRepo, _, _ := newBudgetService()
	ctx := context.Background()
	spaceID := uuid.New()

	budgetRepo.On("FindBySpaceAndCategory", ctx, spaceID, "groceries").Return(nil, errors.New("not found"))
	budgetRepo.On("Create", ctx, mock.MatchedBy(func(b *budget.Budget) bool {
		return b.Category == "groceries" && b.Period == budget.BudgetPeriodMonthly
	})).Return(nil)

	info, err := svc.CreateBudget(ctx, CreateBudgetInput{
		SpaceID:  spaceID,
		Name:     "Groceries",
		Category: "Groceries",
		Limit:    decimal.NewFromInt(400),
	})

	require.NoError(t, err)
	assert.Equal(t, "groceries", info.Category)
	assert.True(t, info.Limit.Equal(decimal.NewFromInt(400)))
	budgetRepo.AssertExpectations(t)
}

func TestBudgetService_CreateBudget_DuplicateCategory(t *testing.T) {
	svc, budgetRepo, _, _ := newBudgetService()
	ctx := context.Background()
	spaceID := uuid.New()
	existing := newTestBudget(t, spaceID, budget.BudgetPeriodMonthly)

	budgetRepo.On("FindBySpaceAndCategory", ctx, spaceID, "groceries").Return(existing, nil)

	_, err := svc.CreateBudget(ctx, CreateBudgetInput{
		SpaceID:  spaceID,
		Name:     "Food",
		Category: "groceries",
		Limit:    decimal.NewFromInt(200),
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "BUDGET_EXISTS", domainErr.Code)
	budgetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBudgetService_GetBudget_MonthlyUsage(t *testing.T) {
	svc, budgetRepo, expenseRepo, spaceRepo := newBudgetService()
	ctx := context.Background()
	spaceID := uuid.New()
	b := newTestBudget(t, spaceID, budget.BudgetPeriodMonthly)
	space := newTestSpace(t, spaceID)

	budgetRepo.On("FindByID", ctx, b.ID).Return(b, nil)
	spaceRepo.On("FindByID", ctx, spaceID).Return(space, nil)
	expenseRepo.On("SumByCategory", ctx, spaceID, "groceries",
		mock.MatchedBy(func(from time.Time) bool {
			return from.Day() == 1 && from.Hour() == 0 && from.Minute() == 0
		}), mock.Anything).Return(decimal.NewFromFloat(150.50), nil)

	info, err := svc.GetBudget(ctx, b.ID)

	require.NoError(t, err)
	require.NotNil(t, info.Usage)
	assert.True(t, info.Usage.Spent.Equal(decimal.NewFromFloat(150.50)))
	assert.True(t, info.Usage.Remaining.Equal(decimal.NewFromFloat(249.50)))
	assert.False(t, info.Usage.Exceeded)
}

func TestBudgetService_GetBudget_ExceededBudget(t *testing.T) {
	svc, budgetRepo, expenseRepo, spaceRepo := newBudgetService()
	ctx := context.Background()
	spaceID := uuid.New()
	b := newTestBudget(t, spaceID, budget.BudgetPeriodMonthly)

	budgetRepo.On("FindByID", ctx, b.ID).Return(b, nil)
	spaceRepo.On("FindByID", ctx, spaceID).Return(newTestSpace(t, spaceID), nil)
	expenseRepo.On("SumByCategory", ctx, spaceID, "groceries", mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(450), nil)

	info, err := svc.GetBudget(ctx, b.ID)

	require.NoError(t, err)
	require.NotNil(t, info.Usage)
	assert.True(t, info.Usage.Exceeded)
	assert.True(t, info.Usage.Remaining.IsNegative())
}

func TestBudgetService_GetBudget_UsageFailureStillReturnsBudget(t *testing.T) {
	svc, budgetRepo, expenseRepo, spaceRepo := newBudgetService()
	ctx := context.Background()
	spaceID := uuid.New()
	b := newTestBudget(t, spaceID, budget.BudgetPeriodMonthly)

	budgetRepo.On("FindByID", ctx, b.ID).Return(b, nil)
	spaceRepo.On("FindByID", ctx, spaceID).Return(newTestSpace(t, spaceID), nil)
	expenseRepo.On("SumByCategory", ctx, spaceID, "groceries", mock.Anything, mock.Anything).
		Return(decimal.Zero, errors.New("db down"))

	info, err := svc.GetBudget(ctx, b.ID)

	require.NoError(t, err)
	assert.Nil(t, info.Usage)
	assert.Equal(t, "Groceries", info.Name)
}

func TestBudgetService_ListBudgets_SkipsUsageForArchived(t *testing.T) {
	svc, budgetRepo, expenseRepo, spaceRepo := newBudgetService()
	ctx := context.Background()
	spaceID := uuid.New()
	active := newTestBudget(t, spaceID, budget.BudgetPeriodMonthly)
	archived, err := budget.NewBudget(spaceID, "Old subscriptions", "subscriptions", decimal.NewFromInt(50), budget.BudgetPeriodMonthly)
	require.NoError(t, err)
	archived.Archive()

	budgetRepo.On("FindBySpaceID", ctx, spaceID, true).Return([]*budget.Budget{active, archived}, nil)
	spaceRepo.On("FindByID", ctx, spaceID).Return(newTestSpace(t, spaceID), nil)
	expenseRepo.On("SumByCategory", ctx, spaceID, "groceries", mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(100), nil)

	infos, err := svc.ListBudgets(ctx, spaceID, true)

	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.NotNil(t, infos[0].Usage)
	assert.Nil(t, infos[1].Usage)
	expenseRepo.AssertNotCalled(t, "SumByCategory", mock.Anything, mock.Anything, "subscriptions", mock.Anything, mock.Anything)
}

func TestBudgetService_UpdateBudget(t *testing.T) {
	svc, budgetRepo, _, _ := newBudgetService()
	ctx := context.Background()
	b := newTestBudget(t, uuid.New(), budget.BudgetPeriodWeekly)

	budgetRepo.On("FindByID", ctx, b.ID).Return(b, nil)
	budgetRepo.On("Update", ctx, b).Return(nil)

	newLimit := decimal.NewFromInt(600)
	info, err := svc.UpdateBudget(ctx, UpdateBudgetInput{BudgetID: b.ID, Limit: &newLimit})

	require.NoError(t, err)
	assert.Equal(t, "Groceries", info.Name, "name unchanged")
	assert.True(t, info.Limit.Equal(newLimit))
}

func TestBudgetService_ArchiveBudget(t *testing.T) {
	svc, budgetRepo, _, _ := newBudgetService()
	ctx := context.Background()
	b := newTestBudget(t, uuid.New(), budget.BudgetPeriodMonthly)

	budgetRepo.On("FindByID", ctx, b.ID).Return(b, nil)
	budgetRepo.On("Update", ctx, b).Return(nil)

	require.NoError(t, svc.ArchiveBudget(ctx, b.ID))
	assert.True(t, b.Archived)
}
