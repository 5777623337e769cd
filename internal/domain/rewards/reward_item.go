package rewards

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
)

// RewardItem is something a member can redeem points for, defined by the
// household (movie night, extra screen time, skipping a chore).
type RewardItem struct {
	shared.SpaceAggregateRoot
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Cost        int    `gorm:"not null"`
	Icon        string `gorm:"type:varchar(50)"`
	Active      bool   `gorm:"not null;default:true"`
	Stock       *int   // nil = unlimited
}

// TableName returns the table name for GORM
func (RewardItem) TableName() string {
	return "reward_items"
}

// NewRewardItem creates a redeemable reward in a space
func NewRewardItem(spaceID uuid.UUID, name string, cost int) (*RewardItem, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Reward name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Reward name cannot exceed 200 characters")
	}
	if cost <= 0 {
		return nil, shared.NewDomainError("INVALID_COST", "Reward cost must be positive")
	}

	return &RewardItem{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Name:               name,
		Cost:               cost,
		Active:             true,
	}, nil
}

// Update updates the reward's descriptive fields and cost
func (r *RewardItem) Update(name, description string, cost int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Reward name cannot be empty")
	}
	if cost <= 0 {
		return shared.NewDomainError("INVALID_COST", "Reward cost must be positive")
	}

	r.Name = name
	r.Description = description
	r.Cost = cost
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetStock sets a limited stock, nil restores unlimited
func (r *RewardItem) SetStock(stock *int) error {
	if stock != nil && *stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	r.Stock = stock
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// CanRedeem returns true if the item is active and in stock
func (r *RewardItem) CanRedeem() bool {
	if !r.Active {
		return false
	}
	return r.Stock == nil || *r.Stock > 0
}

// ConsumeStock decrements limited stock after a redemption
func (r *RewardItem) ConsumeStock() error {
	if !r.CanRedeem() {
		return shared.NewDomainError("REWARD_UNAVAILABLE", "Reward is not available for redemption")
	}
	if r.Stock != nil {
		remaining := *r.Stock - 1
		r.Stock = &remaining
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Deactivate hides the reward from the catalog
func (r *RewardItem) Deactivate() {
	r.Active = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Activate returns the reward to the catalog
func (r *RewardItem) Activate() {
	r.Active = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
