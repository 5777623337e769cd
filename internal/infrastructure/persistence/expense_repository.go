package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/budget"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/homehub/backend/internal/infrastructure/persistence/spacescope"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM, with
// list queries scoped to the request's space.
type GormExpenseRepository struct {
	db *spacescope.SpaceDB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *spacescope.SpaceDB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Create creates a new expense
func (r *GormExpenseRepository) Create(ctx context.Context, e *budget.Expense) error {
	return r.db.DB().WithContext(ctx).Create(e).Error
}

// Update updates an existing expense
func (r *GormExpenseRepository) Update(ctx context.Context, e *budget.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// Delete deletes an expense by ID
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&budget.Expense{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an expense by ID within the current space
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Expense, error) {
	var e budget.Expense
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAll returns expenses for the current space with pagination
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter budget.ExpenseFilter) ([]*budget.Expense, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&budget.Expense{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, ExpenseSortFields, "spent_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var expenses []*budget.Expense
	if err := query.
		Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// SumByCategory sums expenses for a category within a time range
func (r *GormExpenseRepository) SumByCategory(ctx context.Context, spaceID uuid.UUID, category string, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, r.db.DB().WithContext(ctx).
		Model(&budget.Expense{}).
		Where("space_id = ? AND category = ? AND spent_at >= ? AND spent_at < ?", spaceID, category, from, to))
}

// SumBySpace sums all expenses in a space within a time range
func (r *GormExpenseRepository) SumBySpace(ctx context.Context, spaceID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, r.db.DB().WithContext(ctx).
		Model(&budget.Expense{}).
		Where("space_id = ? AND spent_at >= ? AND spent_at < ?", spaceID, from, to))
}

func (r *GormExpenseRepository) sum(_ context.Context, query *gorm.DB) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := query.
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter budget.ExpenseFilter) *gorm.DB {
	if filter.Keyword != "" {
		query = query.Where("description LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.PaidBy != nil {
		query = query.Where("paid_by = ?", *filter.PaidBy)
	}
	if filter.From != nil {
		query = query.Where("spent_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("spent_at < ?", *filter.To)
	}
	return query
}

// Ensure GormExpenseRepository implements ExpenseRepository
var _ budget.ExpenseRepository = (*GormExpenseRepository)(nil)
