package meal

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/meal"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRecipeRepository is a mock implementation of meal.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, r *meal.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, r *meal.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*meal.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*meal.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*meal.Recipe, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*meal.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID, keyword string, page, pageSize int) ([]*meal.Recipe, int64, error) {
	args := m.Called(ctx, spaceID, keyword, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*meal.Recipe), args.Get(1).(int64), args.Error(2)
}

// MockMealPlanRepository is a mock implementation of meal.MealPlanRepository
type MockMealPlanRepository struct {
	mock.Mock
}

func (m *MockMealPlanRepository) Create(ctx context.Context, p *meal.MealPlan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockMealPlanRepository) Update(ctx context.Context, p *meal.MealPlan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockMealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*meal.MealPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*meal.MealPlan), args.Error(1)
}

func (m *MockMealPlanRepository) FindByWeek(ctx context.Context, spaceID uuid.UUID, year, week int) (*meal.MealPlan, error) {
	args := m.Called(ctx, spaceID, year, week)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*meal.MealPlan), args.Error(1)
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

// MockPlanFeatureRepository is a mock implementation of billing.PlanFeatureRepository
type MockPlanFeatureRepository struct {
	mock.Mock
}

func (m *MockPlanFeatureRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PlanFeature, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PlanFeature), args.Error(1)
}

func (m *MockPlanFeatureRepository) FindByPlan(ctx context.Context, planID billing.Plan) ([]billing.PlanFeature, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.PlanFeature), args.Error(1)
}

func (m *MockPlanFeatureRepository) FindByPlanAndFeature(ctx context.Context, planID billing.Plan, featureKey billing.FeatureKey) (*billing.PlanFeature, error) {
	args := m.Called(ctx, planID, featureKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PlanFeature), args.Error(1)
}

func (m *MockPlanFeatureRepository) HasFeature(ctx context.Context, planID billing.Plan, featureKey billing.FeatureKey) (bool, error) {
	args := m.Called(ctx, planID, featureKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanFeatureRepository) GetFeatureLimit(ctx context.Context, planID billing.Plan, featureKey billing.FeatureKey) (*int, error) {
	args := m.Called(ctx, planID, featureKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

func (m *MockPlanFeatureRepository) Save(ctx context.Context, feature *billing.PlanFeature) error {
	args := m.Called(ctx, feature)
	return args.Error(0)
}

func (m *MockPlanFeatureRepository) SaveBatch(ctx context.Context, features []billing.PlanFeature) error {
	args := m.Called(ctx, features)
	return args.Error(0)
}

func (m *MockPlanFeatureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newMealService() (*MealService, *MockRecipeRepository, *MockMealPlanRepository, *MockSubscriptionRepository) {
	recipeRepo := new(MockRecipeRepository)
	planRepo := new(MockMealPlanRepository)
	subRepo := new(MockSubscriptionRepository)
	guard := appbilling.NewFeatureGuard(subRepo, nil, zap.NewNop())
	svc := NewMealService(recipeRepo, planRepo, guard, zap.NewNop())
	return svc, recipeRepo, planRepo, subRepo
}

func newTestRecipe(t *testing.T, spaceID uuid.UUID, name string) *meal.Recipe {
	t.Helper()
	r, err := meal.NewRecipe(spaceID, name, 4)
	require.NoError(t, err)
	return r
}

func expectFreePlan(subRepo *MockSubscriptionRepository, spaceID uuid.UUID) {
	subRepo.On("FindBySpaceID", mock.Anything, spaceID).Return(nil, errors.New("not found"))
}

func TestMealService_CreateRecipe(t *testing.T) {
	svc, recipeRepo, _, _ := newMealService()
	ctx := context.Background()
	spaceID := uuid.New()

	recipeRepo.On("Create", ctx, mock.MatchedBy(func(r *meal.Recipe) bool {
		return r.Name == "Shakshuka" && len(r.Ingredients) == 2
	})).Return(nil)

	info, err := svc.CreateRecipe(ctx, CreateRecipeInput{
		SpaceID:  spaceID,
		Name:     "Shakshuka",
		Servings: 4,
		Tags:     []string{"Breakfast", " vegetarian "},
		Ingredients: []meal.Ingredient{
			{Name: "Eggs", Quantity: 6, Unit: "pcs"},
			{Name: "Tomatoes", Quantity: 800, Unit: "g"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"breakfast", "vegetarian"}, info.Tags)
	recipeRepo.AssertExpectations(t)
}

func TestMealService_UpdateRecipe_PartialFields(t *testing.T) {
	svc, recipeRepo, _, _ := newMealService()
	ctx := context.Background()
	r := newTestRecipe(t, uuid.New(), "Shakshuka")

	recipeRepo.On("FindByID", ctx, r.ID).Return(r, nil)
	recipeRepo.On("Update", ctx, r).Return(nil)

	servings := 6
	info, err := svc.UpdateRecipe(ctx, UpdateRecipeInput{RecipeID: r.ID, Servings: &servings})

	require.NoError(t, err)
	assert.Equal(t, "Shakshuka", info.Name, "name unchanged")
	assert.Equal(t, 6, info.Servings)
}

func TestMealService_SetPlanEntry_CreatesPlanOnFirstUse(t *testing.T) {
	svc, recipeRepo, planRepo, subRepo := newMealService()
	ctx := context.Background()
	spaceID := uuid.New()
	r := newTestRecipe(t, spaceID, "Shakshuka")

	expectFreePlan(subRepo, spaceID)
	recipeRepo.On("FindByID", ctx, r.ID).Return(r, nil)
	planRepo.On("FindByWeek", ctx, spaceID, 2026, 35).Return(nil, errors.New("not found"))
	planRepo.On("Create", ctx, mock.MatchedBy(func(p *meal.MealPlan) bool {
		return p.Year == 2026 && p.Week == 35 && len(p.Entries) == 1
	})).Return(nil)
	recipeRepo.On("FindByIDs", ctx, []uuid.UUID{r.ID}).Return([]*meal.Recipe{r}, nil)

	plan, err := svc.SetPlanEntry(ctx, SetPlanEntryInput{
		SpaceID:  spaceID,
		Year:     2026,
		Week:     35,
		Weekday:  6,
		Slot:     meal.SlotDinner,
		RecipeID: r.ID,
	})

	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "Shakshuka", plan.Entries[0].RecipeName)
	planRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMealService_SetPlanEntry_ReplacesSlot(t *testing.T) {
	svc, recipeRepo, planRepo, subRepo := newMealService()
	ctx := context.Background()
	spaceID := uuid.New()
	old := newTestRecipe(t, spaceID, "Leftovers")
	replacement := newTestRecipe(t, spaceID, "Tacos")

	existing, err := meal.NewMealPlan(spaceID, 2026, 35)
	require.NoError(t, err)
	require.NoError(t, existing.SetEntry(5, meal.SlotDinner, old.ID, ""))

	expectFreePlan(subRepo, spaceID)
	recipeRepo.On("FindByID", ctx, replacement.ID).Return(replacement, nil)
	planRepo.On("FindByWeek", ctx, spaceID, 2026, 35).Return(existing, nil)
	planRepo.On("Update", ctx, existing).Return(nil)
	recipeRepo.On("FindByIDs", ctx, []uuid.UUID{replacement.ID}).Return([]*meal.Recipe{replacement}, nil)

	plan, err := svc.SetPlanEntry(ctx, SetPlanEntryInput{
		SpaceID:  spaceID,
		Year:     2026,
		Week:     35,
		Weekday:  5,
		Slot:     meal.SlotDinner,
		RecipeID: replacement.ID,
	})

	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, replacement.ID, plan.Entries[0].RecipeID)
}

func TestMealService_SetPlanEntry_RecipeFromOtherSpace(t *testing.T) {
	svc, recipeRepo, planRepo, subRepo := newMealService()
	ctx := context.Background()
	spaceID := uuid.New()
	foreign := newTestRecipe(t, uuid.New(), "Not yours")

	expectFreePlan(subRepo, spaceID)
	recipeRepo.On("FindByID", ctx, foreign.ID).Return(foreign, nil)

	_, err := svc.SetPlanEntry(ctx, SetPlanEntryInput{
		SpaceID:  spaceID,
		Year:     2026,
		Week:     35,
		Weekday:  1,
		Slot:     meal.SlotLunch,
		RecipeID: foreign.ID,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	planRepo.AssertNotCalled(t, "FindByWeek", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMealService_SetPlanEntry_FeatureDisabledByOverride(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	planRepo := new(MockMealPlanRepository)
	subRepo := new(MockSubscriptionRepository)
	featureRepo := new(MockPlanFeatureRepository)
	guard := appbilling.NewFeatureGuard(subRepo, featureRepo, zap.NewNop())
	svc := NewMealService(recipeRepo, planRepo, guard, zap.NewNop())

	ctx := context.Background()
	spaceID := uuid.New()
	disabled := billing.NewPlanFeature(billing.PlanFree, billing.FeatureMealPlanning, false, "Weekly meal planning")

	expectFreePlan(subRepo, spaceID)
	featureRepo.On("FindByPlanAndFeature", mock.Anything, billing.PlanFree, billing.FeatureMealPlanning).
		Return(disabled, nil)

	_, err := svc.SetPlanEntry(ctx, SetPlanEntryInput{
		SpaceID:  spaceID,
		Year:     2026,
		Week:     35,
		Weekday:  1,
		Slot:     meal.SlotDinner,
		RecipeID: uuid.New(),
	})

	assert.ErrorIs(t, err, shared.ErrPlanLimitReached)
	recipeRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestMealService_GetWeekPlan_EmptyWeek(t *testing.T) {
	svc, _, planRepo, _ := newMealService()
	ctx := context.Background()
	spaceID := uuid.New()

	planRepo.On("FindByWeek", ctx, spaceID, 2026, 36).Return(nil, errors.New("not found"))

	plan, err := svc.GetWeekPlan(ctx, spaceID, 2026, 36)

	require.NoError(t, err)
	assert.Equal(t, 2026, plan.Year)
	assert.Empty(t, plan.Entries)
}

func TestMealService_ClearPlanEntry(t *testing.T) {
	svc, _, planRepo, subRepo := newMealService()
	ctx := context.Background()
	spaceID := uuid.New()
	r := newTestRecipe(t, spaceID, "Shakshuka")

	plan, err := meal.NewMealPlan(spaceID, 2026, 35)
	require.NoError(t, err)
	require.NoError(t, plan.SetEntry(2, meal.SlotBreakfast, r.ID, ""))

	expectFreePlan(subRepo, spaceID)
	planRepo.On("FindByWeek", ctx, spaceID, 2026, 35).Return(plan, nil)
	planRepo.On("Update", ctx, plan).Return(nil)

	info, err := svc.ClearPlanEntry(ctx, ClearPlanEntryInput{
		SpaceID: spaceID,
		Year:    2026,
		Week:    35,
		Weekday: 2,
		Slot:    meal.SlotBreakfast,
	})

	require.NoError(t, err)
	assert.Empty(t, info.Entries)
}

func TestMealService_GetShoppingList_AggregatesIngredients(t *testing.T) {
	svc, recipeRepo, planRepo, subRepo := newMealService()
	ctx := context.Background()
	spaceID := uuid.New()

	pasta := newTestRecipe(t, spaceID, "Pasta")
	require.NoError(t, pasta.SetIngredients([]meal.Ingredient{
		{Name: "Tomatoes", Quantity: 400, Unit: "g"},
		{Name: "Spaghetti", Quantity: 500, Unit: "g"},
	}))
	shakshuka := newTestRecipe(t, spaceID, "Shakshuka")
	require.NoError(t, shakshuka.SetIngredients([]meal.Ingredient{
		{Name: "tomatoes", Quantity: 800, Unit: "g"},
		{Name: "Eggs", Quantity: 6, Unit: "pcs"},
	}))

	plan, err := meal.NewMealPlan(spaceID, 2026, 35)
	require.NoError(t, err)
	require.NoError(t, plan.SetEntry(1, meal.SlotDinner, pasta.ID, ""))
	require.NoError(t, plan.SetEntry(2, meal.SlotBreakfast, shakshuka.ID, ""))

	expectFreePlan(subRepo, spaceID)
	planRepo.On("FindByWeek", ctx, spaceID, 2026, 35).Return(plan, nil)
	recipeRepo.On("FindByIDs", ctx, mock.Anything).Return([]*meal.Recipe{pasta, shakshuka}, nil)

	list, err := svc.GetShoppingList(ctx, spaceID, 2026, 35)

	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	var tomatoes *meal.ShoppingItem
	for i := range list.Items {
		if list.Items[i].Name == "tomatoes" {
			tomatoes = &list.Items[i]
		}
	}
	require.NotNil(t, tomatoes)
	assert.Equal(t, 1200.0, tomatoes.Quantity)
}
