package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/identity"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSpaceRepository implements SpaceRepository using GORM
type GormSpaceRepository struct {
	db *gorm.DB
}

// NewGormSpaceRepository creates a new GormSpaceRepository
func NewGormSpaceRepository(db *gorm.DB) *GormSpaceRepository {
	return &GormSpaceRepository{db: db}
}

// Create creates a new space
func (r *GormSpaceRepository) Create(ctx context.Context, space *identity.Space) error {
	return r.db.WithContext(ctx).Create(space).Error
}

// Update updates an existing space
func (r *GormSpaceRepository) Update(ctx context.Context, space *identity.Space) error {
	return r.db.WithContext(ctx).Save(space).Error
}

// Delete deletes a space by ID
func (r *GormSpaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Space{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a space by ID
func (r *GormSpaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Space, error) {
	var space identity.Space
	if err := r.db.WithContext(ctx).First(&space, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &space, nil
}

// FindByInviteCode finds a space by its invite code
func (r *GormSpaceRepository) FindByInviteCode(ctx context.Context, code string) (*identity.Space, error) {
	var space identity.Space
	if err := r.db.WithContext(ctx).
		Where("invite_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&space).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &space, nil
}

// FindByUserID returns all spaces the user is a member of, joined
// through the memberships table
func (r *GormSpaceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*identity.Space, error) {
	var spaces []*identity.Space
	if err := r.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.space_id = spaces.id").
		Where("memberships.user_id = ?", userID).
		Order("spaces.created_at ASC").
		Find(&spaces).Error; err != nil {
		return nil, err
	}
	return spaces, nil
}

// CountByOwnerID returns the number of spaces a user owns
func (r *GormSpaceRepository) CountByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Space{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormSpaceRepository implements SpaceRepository
var _ identity.SpaceRepository = (*GormSpaceRepository)(nil)
