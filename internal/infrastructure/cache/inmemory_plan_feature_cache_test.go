package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatures(plan billing.Plan) []billing.PlanFeature {
	limit := 20
	return []billing.PlanFeature{
		{
			ID:         uuid.New(),
			PlanID:     plan,
			FeatureKey: billing.FeatureAssistant,
			Enabled:    true,
		},
		{
			ID:         uuid.New(),
			PlanID:     plan,
			FeatureKey: billing.FeatureAssistantMessages,
			Enabled:    true,
			Limit:      &limit,
		},
	}
}

func TestInMemoryPlanFeatureCache_SetAndGet(t *testing.T) {
	cache := NewInMemoryPlanFeatureCache()
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	features := testFeatures(billing.PlanFamily)
	require.NoError(t, cache.SetPlan(ctx, billing.PlanFamily, features))

	got, err := cache.GetPlan(ctx, billing.PlanFamily)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, billing.FeatureAssistant, got[0].FeatureKey)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(0), misses)
}

func TestInMemoryPlanFeatureCache_Miss(t *testing.T) {
	cache := NewInMemoryPlanFeatureCache()
	defer func() { _ = cache.Close() }()

	got, err := cache.GetPlan(context.Background(), billing.PlanFree)
	require.NoError(t, err)
	assert.Nil(t, got)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(1), misses)
}

func TestInMemoryPlanFeatureCache_Expiry(t *testing.T) {
	cache := NewInMemoryPlanFeatureCache(WithInMemoryTTL(10 * time.Millisecond))
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	require.NoError(t, cache.SetPlan(ctx, billing.PlanPremium, testFeatures(billing.PlanPremium)))

	time.Sleep(20 * time.Millisecond)

	got, err := cache.GetPlan(ctx, billing.PlanPremium)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryPlanFeatureCache_InvalidatePlan(t *testing.T) {
	cache := NewInMemoryPlanFeatureCache()
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	require.NoError(t, cache.SetPlan(ctx, billing.PlanFree, testFeatures(billing.PlanFree)))
	require.NoError(t, cache.SetPlan(ctx, billing.PlanFamily, testFeatures(billing.PlanFamily)))

	require.NoError(t, cache.InvalidatePlan(ctx, billing.PlanFree))

	got, err := cache.GetPlan(ctx, billing.PlanFree)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Other plan untouched
	got, err = cache.GetPlan(ctx, billing.PlanFamily)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestInMemoryPlanFeatureCache_Clear(t *testing.T) {
	cache := NewInMemoryPlanFeatureCache()
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	require.NoError(t, cache.SetPlan(ctx, billing.PlanFree, testFeatures(billing.PlanFree)))
	require.NoError(t, cache.SetPlan(ctx, billing.PlanPremium, testFeatures(billing.PlanPremium)))

	require.NoError(t, cache.Clear(ctx))

	for _, plan := range []billing.Plan{billing.PlanFree, billing.PlanPremium} {
		got, err := cache.GetPlan(ctx, plan)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestInMemoryPlanFeatureCache_Close_Idempotent(t *testing.T) {
	cache := NewInMemoryPlanFeatureCache()

	assert.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
}
