package budget

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BudgetPeriod represents how often a budget resets
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
)

// Budget is a spending envelope for a category within a space. Amounts
// use decimals; float money is not acceptable here.
type Budget struct {
	shared.SpaceAggregateRoot
	Name     string          `gorm:"type:varchar(200);not null"`
	Category string          `gorm:"type:varchar(100);not null;index"`
	Limit    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Period   BudgetPeriod    `gorm:"type:varchar(10);not null;default:'monthly'"`
	Archived bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Budget) TableName() string {
	return "budgets"
}

// NewBudget creates a budget envelope in a space
func NewBudget(spaceID uuid.UUID, name, category string, limit decimal.Decimal, period BudgetPeriod) (*Budget, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Budget name cannot be empty")
	}
	category = strings.TrimSpace(strings.ToLower(category))
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Budget category cannot be empty")
	}
	if limit.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_LIMIT", "Budget limit must be positive")
	}
	switch period {
	case BudgetPeriodMonthly, BudgetPeriodWeekly:
	default:
		return nil, shared.NewDomainError("INVALID_PERIOD", "Invalid budget period")
	}

	return &Budget{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Name:               name,
		Category:           category,
		Limit:              limit,
		Period:             period,
	}, nil
}

// SetLimit updates the budget limit
func (b *Budget) SetLimit(limit decimal.Decimal) error {
	if limit.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_LIMIT", "Budget limit must be positive")
	}

	b.Limit = limit
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Rename renames the budget
func (b *Budget) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Budget name cannot be empty")
	}

	b.Name = name
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Archive archives the budget
func (b *Budget) Archive() {
	b.Archived = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// PeriodStart returns the start of the period containing the given time,
// in the given location
func (b *Budget) PeriodStart(now time.Time, loc *time.Location) time.Time {
	now = now.In(loc)
	if b.Period == BudgetPeriodWeekly {
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		return day.AddDate(0, 0, -(weekday - 1))
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
}

// Usage describes spending against a budget in the current period
type Usage struct {
	Spent     decimal.Decimal `json:"spent"`
	Limit     decimal.Decimal `json:"limit"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   float64         `json:"percent"`
	Exceeded  bool            `json:"exceeded"`
}

// UsageFor computes usage from a spent total
func (b *Budget) UsageFor(spent decimal.Decimal) Usage {
	remaining := b.Limit.Sub(spent)
	percent := 0.0
	if b.Limit.IsPositive() {
		percent, _ = spent.Div(b.Limit).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}
	return Usage{
		Spent:     spent,
		Limit:     b.Limit,
		Remaining: remaining,
		Percent:   percent,
		Exceeded:  spent.GreaterThan(b.Limit),
	}
}
