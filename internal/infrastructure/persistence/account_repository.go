package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/rewards"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Create creates a new account
func (r *GormAccountRepository) Create(ctx context.Context, a *rewards.PointsAccount) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Update updates an existing account using optimistic locking. The
// domain has already incremented the version, so the predicate matches
// the version the aggregate was loaded at. Zero rows affected means a
// concurrent award or redemption won.
func (r *GormAccountRepository) Update(ctx context.Context, a *rewards.PointsAccount) error {
	result := r.db.WithContext(ctx).
		Model(&rewards.PointsAccount{}).
		Where("id = ? AND version = ?", a.ID, a.Version-1).
		Updates(map[string]interface{}{
			"balance":            a.Balance,
			"lifetime_earned":    a.LifetimeEarned,
			"streak_count":       a.StreakCount,
			"longest_streak":     a.LongestStreak,
			"last_completion_at": a.LastCompletionAt,
			"version":            a.Version,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_UPDATE", "Account was modified concurrently")
	}
	return nil
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*rewards.PointsAccount, error) {
	var a rewards.PointsAccount
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindBySpaceAndUser finds the account for a member in a space
func (r *GormAccountRepository) FindBySpaceAndUser(ctx context.Context, spaceID, userID uuid.UUID) (*rewards.PointsAccount, error) {
	var a rewards.PointsAccount
	if err := r.db.WithContext(ctx).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindBySpaceID returns all accounts in a space, highest balance first
func (r *GormAccountRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*rewards.PointsAccount, error) {
	var accounts []*rewards.PointsAccount
	if err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("balance DESC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Ensure GormAccountRepository implements AccountRepository
var _ rewards.AccountRepository = (*GormAccountRepository)(nil)
