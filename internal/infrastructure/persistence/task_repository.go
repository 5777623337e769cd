package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/homehub/backend/internal/domain/task"
	"github.com/homehub/backend/internal/infrastructure/persistence/spacescope"
	"gorm.io/gorm"
)

// GormTaskRepository implements TaskRepository using GORM, with queries
// scoped to the request's space.
type GormTaskRepository struct {
	db *spacescope.SpaceDB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *spacescope.SpaceDB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, t *task.Task) error {
	return r.db.DB().WithContext(ctx).Create(t).Error
}

// Update updates an existing task
func (r *GormTaskRepository) Update(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete deletes a task by ID
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a task by ID within the current space
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var t task.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll returns tasks for the current space with pagination
func (r *GormTaskRepository) FindAll(ctx context.Context, filter task.TaskFilter) ([]*task.Task, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&task.Task{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, TaskSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var tasks []*task.Task
	if err := query.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// CountOpenBySpace counts open tasks in a space
func (r *GormTaskRepository) CountOpenBySpace(ctx context.Context, spaceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.DB().WithContext(ctx).
		Model(&task.Task{}).
		Where("space_id = ? AND status IN ?", spaceID, []task.TaskStatus{task.TaskStatusTodo, task.TaskStatusInProgress}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTaskRepository) applyFilter(query *gorm.DB, filter task.TaskFilter) *gorm.DB {
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", keyword, keyword)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_at IS NOT NULL AND due_at < ?", *filter.DueBefore)
	}
	return query
}

// Ensure GormTaskRepository implements TaskRepository
var _ task.TaskRepository = (*GormTaskRepository)(nil)
