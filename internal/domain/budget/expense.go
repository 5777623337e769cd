package budget

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Expense is one recorded purchase in a space. The optional receipt key
// points at an object in blob storage.
type Expense struct {
	shared.SpaceAggregateRoot
	Description string          `gorm:"type:varchar(500);not null"`
	Category    string          `gorm:"type:varchar(100);not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"type:varchar(10);not null"`
	PaidBy      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SpentAt     time.Time       `gorm:"not null;index"`
	ReceiptKey  string          `gorm:"type:varchar(500)"` // Object storage key, empty if none
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense records a purchase in a space
func NewExpense(spaceID, paidBy uuid.UUID, description, category, currency string, amount decimal.Decimal, spentAt time.Time) (*Expense, error) {
	if spaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPACE_ID", "Space ID cannot be empty")
	}
	if paidBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "Payer ID cannot be empty")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Expense description cannot be empty")
	}
	category = strings.TrimSpace(strings.ToLower(category))
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if spentAt.IsZero() {
		spentAt = time.Now()
	}

	return &Expense{
		SpaceAggregateRoot: shared.NewSpaceAggregateRoot(spaceID),
		Description:        description,
		Category:           category,
		Amount:             amount,
		Currency:           strings.ToUpper(currency),
		PaidBy:             paidBy,
		SpentAt:            spentAt,
	}, nil
}

// Update updates the expense's fields
func (e *Expense) Update(description, category string, amount decimal.Decimal, spentAt time.Time) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Expense description cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}

	e.Description = description
	if category = strings.TrimSpace(strings.ToLower(category)); category != "" {
		e.Category = category
	}
	e.Amount = amount
	if !spentAt.IsZero() {
		e.SpentAt = spentAt
	}
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// AttachReceipt links an uploaded receipt object to the expense
func (e *Expense) AttachReceipt(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_RECEIPT", "Receipt key cannot be empty")
	}
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_RECEIPT", "Receipt key cannot exceed 500 characters")
	}

	e.ReceiptKey = key
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// RemoveReceipt detaches the receipt
func (e *Expense) RemoveReceipt() {
	e.ReceiptKey = ""
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// HasReceipt returns true if a receipt is attached
func (e *Expense) HasReceipt() bool {
	return e.ReceiptKey != ""
}
