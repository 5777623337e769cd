package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/homehub/backend/internal/domain/budget"
	"github.com/shopspring/decimal"
)

// CreateBudgetInput contains input for creating a budget envelope
type CreateBudgetInput struct {
	SpaceID  uuid.UUID
	Name     string              `json:"name" binding:"required,max=200"`
	Category string              `json:"category" binding:"required,max=100"`
	Limit    decimal.Decimal     `json:"limit" binding:"required"`
	Period   budget.BudgetPeriod `json:"period" binding:"omitempty,oneof=monthly weekly"`
}

// UpdateBudgetInput contains input for updating a budget. Nil fields are
// left unchanged.
type UpdateBudgetInput struct {
	BudgetID uuid.UUID
	Name     *string          `json:"name" binding:"omitempty,max=200"`
	Limit    *decimal.Decimal `json:"limit"`
}

// BudgetInfo is the API representation of a budget
type BudgetInfo struct {
	ID       uuid.UUID           `json:"id"`
	Name     string              `json:"name"`
	Category string              `json:"category"`
	Limit    decimal.Decimal     `json:"limit"`
	Period   budget.BudgetPeriod `json:"period"`
	Archived bool                `json:"archived"`
	Usage    *budget.Usage       `json:"usage,omitempty"`
}

// CreateExpenseInput contains input for recording an expense
type CreateExpenseInput struct {
	SpaceID     uuid.UUID
	PaidBy      uuid.UUID
	Description string          `json:"description" binding:"required,max=500"`
	Category    string          `json:"category" binding:"required,max=100"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	SpentAt     time.Time       `json:"spent_at"`
}

// UpdateExpenseInput contains input for updating an expense. Nil fields
// are left unchanged.
type UpdateExpenseInput struct {
	ExpenseID   uuid.UUID
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Amount      *decimal.Decimal `json:"amount"`
	SpentAt     *time.Time       `json:"spent_at"`
}

// ListExpensesInput contains filter options for listing expenses
type ListExpensesInput struct {
	Keyword  string     `form:"keyword"`
	Category string     `form:"category"`
	PaidBy   *uuid.UUID `form:"paid_by"`
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// ExpenseInfo is the API representation of an expense
type ExpenseInfo struct {
	ID            uuid.UUID       `json:"id"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	AmountDisplay string          `json:"amount_display"`
	Currency      string          `json:"currency"`
	PaidBy        uuid.UUID       `json:"paid_by"`
	SpentAt       time.Time       `json:"spent_at"`
	HasReceipt    bool            `json:"has_receipt"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ExpenseListResult contains a page of expenses
type ExpenseListResult struct {
	Expenses []ExpenseInfo `json:"expenses"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// ReceiptUploadResult contains the presigned upload target for a receipt
type ReceiptUploadResult struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReceiptDownloadResult contains a presigned link to a stored receipt
type ReceiptDownloadResult struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func toBudgetInfo(b *budget.Budget) BudgetInfo {
	return BudgetInfo{
		ID:       b.ID,
		Name:     b.Name,
		Category: b.Category,
		Limit:    b.Limit,
		Period:   b.Period,
		Archived: b.Archived,
	}
}

func toExpenseInfo(e *budget.Expense) ExpenseInfo {
	return ExpenseInfo{
		ID:            e.ID,
		Description:   e.Description,
		Category:      e.Category,
		Amount:        e.Amount,
		AmountDisplay: FormatAmount(e.Amount, e.Currency),
		Currency:      e.Currency,
		PaidBy:        e.PaidBy,
		SpentAt:       e.SpentAt,
		HasReceipt:    e.HasReceipt(),
		CreatedAt:     e.CreatedAt,
	}
}
