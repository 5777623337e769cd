package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Create creates a new subscription
func (r *GormSubscriptionRepository) Create(ctx context.Context, s *billing.Subscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Update updates an existing subscription
func (r *GormSubscriptionRepository) Update(ctx context.Context, s *billing.Subscription) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// FindBySpaceID finds the subscription for a space
func (r *GormSubscriptionRepository) FindBySpaceID(ctx context.Context, spaceID uuid.UUID) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByStripeSubscriptionID finds a subscription by provider ID
func (r *GormSubscriptionRepository) FindByStripeSubscriptionID(ctx context.Context, stripeID string) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", stripeID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByStripeCustomerID finds a subscription by provider customer ID
func (r *GormSubscriptionRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*billing.Subscription, error) {
	var sub billing.Subscription
	if err := r.db.WithContext(ctx).
		Where("stripe_customer_id = ?", customerID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// Ensure GormSubscriptionRepository implements SubscriptionRepository
var _ billing.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
