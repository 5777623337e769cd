package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRewardItemRepository implements RewardItemRepository using GORM
type GormRewardItemRepository struct {
	db *gorm.DB
}

// NewGormRewardItemRepository creates a new GormRewardItemRepository
func NewGormRewardItemRepository(db *gorm.DB) *GormRewardItemRepository {
	return &GormRewardItemRepository{db: db}
}

// Create creates a new reward item
func (r *GormRewardItemRepository) Create(ctx context.Context, item *rewards.RewardItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update updates an existing reward item
func (r *GormRewardItemRepository) Update(ctx context.Context, item *rewards.RewardItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes a reward item by ID
func (r *GormRewardItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&rewards.RewardItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a reward item by ID
func (r *GormRewardItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*rewards.RewardItem, error) {
	var item rewards.RewardItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBySpaceID returns reward items in a space, active first then cheapest first
func (r *GormRewardItemRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID, activeOnly bool) ([]*rewards.RewardItem, error) {
	query := r.db.WithContext(ctx).Where("space_id = ?", spaceID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var items []*rewards.RewardItem
	if err := query.
		Order("active DESC, cost ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Ensure GormRewardItemRepository implements RewardItemRepository
var _ rewards.RewardItemRepository = (*GormRewardItemRepository)(nil)
