package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPlanFeatureRepository implements PlanFeatureRepository using GORM
type GormPlanFeatureRepository struct {
	db *gorm.DB
}

// NewGormPlanFeatureRepository creates a new GormPlanFeatureRepository
func NewGormPlanFeatureRepository(db *gorm.DB) *GormPlanFeatureRepository {
	return &GormPlanFeatureRepository{db: db}
}

// FindByID finds a plan feature by its ID
func (r *GormPlanFeatureRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PlanFeature, error) {
	var feature billing.PlanFeature
	if err := r.db.WithContext(ctx).First(&feature, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &feature, nil
}

// FindByPlan finds all features for a specific plan
func (r *GormPlanFeatureRepository) FindByPlan(ctx context.Context, planID billing.Plan) ([]billing.PlanFeature, error) {
	var features []billing.PlanFeature
	if err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("feature_key ASC").
		Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// FindByPlanAndFeature finds a specific feature for a plan
func (r *GormPlanFeatureRepository) FindByPlanAndFeature(ctx context.Context, planID billing.Plan, featureKey billing.FeatureKey) (*billing.PlanFeature, error) {
	var feature billing.PlanFeature
	if err := r.db.WithContext(ctx).
		Where("plan_id = ? AND feature_key = ?", planID, featureKey).
		First(&feature).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &feature, nil
}

// HasFeature checks if a plan has a specific feature enabled
func (r *GormPlanFeatureRepository) HasFeature(ctx context.Context, planID billing.Plan, featureKey billing.FeatureKey) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.PlanFeature{}).
		Where("plan_id = ? AND feature_key = ? AND enabled = ?", planID, featureKey, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFeatureLimit returns the limit for a feature in a plan (nil if unlimited or not found)
func (r *GormPlanFeatureRepository) GetFeatureLimit(ctx context.Context, planID billing.Plan, featureKey billing.FeatureKey) (*int, error) {
	var feature billing.PlanFeature
	if err := r.db.WithContext(ctx).
		Where("plan_id = ? AND feature_key = ?", planID, featureKey).
		First(&feature).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return feature.Limit, nil
}

// Save creates or updates a plan feature
func (r *GormPlanFeatureRepository) Save(ctx context.Context, feature *billing.PlanFeature) error {
	return r.db.WithContext(ctx).Save(feature).Error
}

// SaveBatch creates or updates multiple plan features in a transaction
func (r *GormPlanFeatureRepository) SaveBatch(ctx context.Context, features []billing.PlanFeature) error {
	if len(features) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range features {
			if err := tx.Save(&features[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a plan feature
func (r *GormPlanFeatureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.PlanFeature{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPlanFeatureRepository implements PlanFeatureRepository
var _ billing.PlanFeatureRepository = (*GormPlanFeatureRepository)(nil)
