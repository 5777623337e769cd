package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/chore"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/homehub/backend/internal/infrastructure/persistence/spacescope"
	"gorm.io/gorm"
)

// GormChoreRepository implements ChoreRepository using GORM. Reads and
// writes run through the space scope so a request can only ever touch
// its own household's chores.
type GormChoreRepository struct {
	db *spacescope.SpaceDB
}

// NewGormChoreRepository creates a new GormChoreRepository
func NewGormChoreRepository(db *spacescope.SpaceDB) *GormChoreRepository {
	return &GormChoreRepository{db: db}
}

// Create creates a new chore
func (r *GormChoreRepository) Create(ctx context.Context, c *chore.Chore) error {
	return r.db.DB().WithContext(ctx).Create(c).Error
}

// Update updates an existing chore
func (r *GormChoreRepository) Update(ctx context.Context, c *chore.Chore) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete deletes a chore by ID
func (r *GormChoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&chore.Chore{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a chore by ID within the current space
func (r *GormChoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*chore.Chore, error) {
	var c chore.Chore
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll returns chores for the current space with pagination
func (r *GormChoreRepository) FindAll(ctx context.Context, filter chore.ChoreFilter) ([]*chore.Chore, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&chore.Chore{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, ChoreSortFields, "due_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var chores []*chore.Chore
	if err := query.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&chores).Error; err != nil {
		return nil, 0, err
	}

	return chores, total, nil
}

// FindDueBefore returns active chores due before the given time across
// all spaces. Only the overdue scan in the scheduler uses this, so it
// runs outside the request space scope.
func (r *GormChoreRepository) FindDueBefore(ctx context.Context, before time.Time) ([]*chore.Chore, error) {
	var chores []*chore.Chore
	if err := r.db.DB().WithContext(ctx).
		Where("status = ? AND due_at IS NOT NULL AND due_at < ?", chore.ChoreStatusActive, before).
		Order("due_at ASC").
		Find(&chores).Error; err != nil {
		return nil, err
	}
	return chores, nil
}

// CountBySpace returns the number of non-archived chores in the space
func (r *GormChoreRepository) CountBySpace(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.DB().WithContext(ctx).
		Model(&chore.Chore{}).
		Where("space_id = ? AND status <> ?", spaceID, chore.ChoreStatusArchived).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormChoreRepository) applyFilter(query *gorm.DB, filter chore.ChoreFilter) *gorm.DB {
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", keyword, keyword)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_at IS NOT NULL AND due_at < ?", *filter.DueBefore)
	}
	return query
}

// Ensure GormChoreRepository implements ChoreRepository
var _ chore.ChoreRepository = (*GormChoreRepository)(nil)
