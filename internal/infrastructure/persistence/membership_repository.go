package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMembershipRepository implements MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Create creates a new membership
func (r *GormMembershipRepository) Create(ctx context.Context, m *identity.Membership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Update updates an existing membership
func (r *GormMembershipRepository) Update(ctx context.Context, m *identity.Membership) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete deletes a membership by ID
func (r *GormMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Membership{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a membership by ID
func (r *GormMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Membership, error) {
	var m identity.Membership
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindBySpaceAndUser finds the membership linking a user to a space
func (r *GormMembershipRepository) FindBySpaceAndUser(ctx context.Context, spaceID, userID uuid.UUID) (*identity.Membership, error) {
	var m identity.Membership
	if err := r.db.WithContext(ctx).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindBySpaceID returns all members of a space, oldest membership first
func (r *GormMembershipRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*identity.Membership, error) {
	var memberships []*identity.Membership
	if err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// FindByUserID returns all memberships for a user
func (r *GormMembershipRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*identity.Membership, error) {
	var memberships []*identity.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountBySpaceID returns the number of members in a space
func (r *GormMembershipRepository) CountBySpaceID(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Membership{}).
		Where("space_id = ?", spaceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormMembershipRepository implements MembershipRepository
var _ identity.MembershipRepository = (*GormMembershipRepository)(nil)
