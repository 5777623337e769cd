package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupPlanFeatureTestDB creates an in-memory SQLite database for testing
func setupPlanFeatureTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE plan_features (
			id TEXT PRIMARY KEY,
			plan_id TEXT NOT NULL,
			feature_key TEXT NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 0,
			feature_limit INTEGER,
			description TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(plan_id, feature_key)
		)
	`).Error
	require.NoError(t, err)

	return db
}

func newPlanFeature(planID billing.Plan, key billing.FeatureKey, enabled bool, limit *int) *billing.PlanFeature {
	now := time.Now()
	return &billing.PlanFeature{
		ID:         uuid.New(),
		PlanID:     planID,
		FeatureKey: key,
		Enabled:    enabled,
		Limit:      limit,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func intPtr(v int) *int {
	return &v
}

func TestGormPlanFeatureRepository_Save(t *testing.T) {
	db := setupPlanFeatureTestDB(t)
	repo := NewGormPlanFeatureRepository(db)
	ctx := context.Background()

	feature := newPlanFeature(billing.PlanFamily, billing.FeatureAssistant, true, nil)
	feature.Description = "AI companion access"

	err := repo.Save(ctx, feature)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, feature.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.PlanFamily, found.PlanID)
	assert.Equal(t, billing.FeatureAssistant, found.FeatureKey)
	assert.True(t, found.Enabled)
	assert.Nil(t, found.Limit)
	assert.Equal(t, "AI companion access", found.Description)

	// Save again updates in place
	found.Enabled = false
	err = repo.Save(ctx, found)
	require.NoError(t, err)

	updated, err := repo.FindByID(ctx, feature.ID)
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
}

func TestGormPlanFeatureRepository_FindByID_NotFound(t *testing.T) {
	db := setupPlanFeatureTestDB(t)
	repo := NewGormPlanFeatureRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormPlanFeatureRepository_FindByPlan(t *testing.T) {
	db := setupPlanFeatureTestDB(t)
	repo := NewGormPlanFeatureRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newPlanFeature(billing.PlanFree, billing.FeatureMaxMembers, true, intPtr(4))))
	require.NoError(t, repo.Save(ctx, newPlanFeature(billing.PlanFree, billing.FeatureAssistant, false, nil)))
	require.NoError(t, repo.Save(ctx, newPlanFeature(billing.PlanPremium, billing.FeatureAssistant, true, nil)))

	features, err := repo.FindByPlan(ctx, billing.PlanFree)
	require.NoError(t, err)
	require.Len(t, features, 2)

	// Ordered by feature key
	assert.Equal(t, billing.FeatureAssistant, features[0].FeatureKey)
	assert.Equal(t, billing.FeatureMaxMembers, features[1].FeatureKey)
	for _, f := range features {
		assert.Equal(t, billing.PlanFree, f.PlanID)
	}
}

func TestGormPlanFeatureRepository_FindByPlanAndFeature(t *testing.T) {
	db := setupPlanFeatureTestDB(t)
	repo := NewGormPlanFeatureRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newPlanFeature(billing.PlanFamily, billing.FeatureMaxChores, true, intPtr(50))))

	t.Run("finds existing feature", func(t *testing.T) {
		found, err := repo.FindByPlanAndFeature(ctx, billing.PlanFamily, billing.FeatureMaxChores)
		require.NoError(t, err)
		require.NotNil(t, found.Limit)
		assert.Equal(t, 50, *found.Limit)
	})

	t.Run("returns not found for missing feature", func(t *testing.T) {
		_, err := repo.FindByPlanAndFeature(ctx, billing.PlanFamily, billing.FeatureMealPlanning)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormPlanFeatureRepository_HasFeature(t *testing.T) {
	db := setupPlanFeatureTestDB(t)
	repo := NewGormPlanFeatureRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newPlanFeature(billing.PlanPremium, billing.FeatureAdvancedAnalytics, true, nil)))
	require.NoError(t, repo.Save(ctx, newPlanFeature(billing.PlanFree, billing.FeatureAdvancedAnalytics, false, nil)))

	t.Run("enabled feature", func(t *testing.T) {
		has, err := repo.HasFeature(ctx, billing.PlanPremium, billing.FeatureAdvancedAnalytics)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("disabled feature", func(t *testing.T) {
		has, err := repo.HasFeature(ctx, billing.PlanFree, billing.FeatureAdvancedAnalytics)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("unknown feature", func(t *testing.T) {
		has, err := repo.HasFeature(ctx, billing.PlanFree, billing.FeatureReceiptStorage)
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestGormPlanFeatureRepository_GetFeatureLimit(t *testing.T) {
	db := setupPlanFeatureTestDB(t)
	repo := NewGormPlanFeatureRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newPlanFeature(billing.PlanFree, billing.FeatureAssistantMessages, true, intPtr(20))))
	require.NoError(t, repo.Save(ctx, newPlanFeature(billing.PlanPremium, billing.FeatureAssistantMessages, true, nil)))

	t.Run("limited feature", func(t *testing.T) {
		limit, err := repo.GetFeatureLimit(ctx, billing.PlanFree, billing.FeatureAssistantMessages)
		require.NoError(t, err)
		require.NotNil(t, limit)
		assert.Equal(t, 20, *limit)
	})

	t.Run("unlimited feature", func(t *testing.T) {
		limit, err := repo.GetFeatureLimit(ctx, billing.PlanPremium, billing.FeatureAssistantMessages)
		require.NoError(t, err)
		assert.Nil(t, limit)
	})

	t.Run("missing feature returns nil without error", func(t *testing.T) {
		limit, err := repo.GetFeatureLimit(ctx, billing.PlanFamily, billing.FeatureAssistantMessages)
		require.NoError(t, err)
		assert.Nil(t, limit)
	})
}

func TestGormPlanFeatureRepository_SaveBatch(t *testing.T) {
	db := setupPlanFeatureTestDB(t)
	repo := NewGormPlanFeatureRepository(db)
	ctx := context.Background()

	features := []billing.PlanFeature{
		*newPlanFeature(billing.PlanFamily, billing.FeatureMaxMembers, true, intPtr(8)),
		*newPlanFeature(billing.PlanFamily, billing.FeatureMealPlanning, true, nil),
		*newPlanFeature(billing.PlanFamily, billing.FeatureMessageHistoryDays, true, intPtr(90)),
	}

	err := repo.SaveBatch(ctx, features)
	require.NoError(t, err)

	found, err := repo.FindByPlan(ctx, billing.PlanFamily)
	require.NoError(t, err)
	assert.Len(t, found, 3)

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.SaveBatch(ctx, nil))
	})
}

func TestGormPlanFeatureRepository_Delete(t *testing.T) {
	db := setupPlanFeatureTestDB(t)
	repo := NewGormPlanFeatureRepository(db)
	ctx := context.Background()

	feature := newPlanFeature(billing.PlanFree, billing.FeatureMaxSpaces, true, intPtr(1))
	require.NoError(t, repo.Save(ctx, feature))

	err := repo.Delete(ctx, feature.ID)
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, feature.ID)
	assert.Equal(t, shared.ErrNotFound, err)

	t.Run("deleting missing feature returns not found", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}
