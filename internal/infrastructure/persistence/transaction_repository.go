package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/rewards"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM.
// Ledger entries are append-only; there is no update or delete.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create creates ledger entries
func (r *GormTransactionRepository) Create(ctx context.Context, txs ...*rewards.PointTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(txs).Error
}

// FindByAccountID returns ledger entries for an account, newest first
func (r *GormTransactionRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]*rewards.PointTransaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&rewards.PointTransaction{}).
		Where("account_id = ?", accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var txs []*rewards.PointTransaction
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// FindByUserSince returns a user's entries in a space since a time
func (r *GormTransactionRepository) FindByUserSince(ctx context.Context, spaceID, userID uuid.UUID, since time.Time) ([]*rewards.PointTransaction, error) {
	var txs []*rewards.PointTransaction
	if err := r.db.WithContext(ctx).
		Where("space_id = ? AND user_id = ? AND created_at >= ?", spaceID, userID, since).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ rewards.TransactionRepository = (*GormTransactionRepository)(nil)
