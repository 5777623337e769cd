package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/homehub/backend/internal/application/billing"
	"github.com/homehub/backend/internal/domain/billing"
	"github.com/homehub/backend/internal/domain/budget"
	"github.com/homehub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReceiptStorage is the blob store receipts live in. Uploads and
// downloads go through presigned URLs so receipt bytes never pass
// through the API server.
type ReceiptStorage interface {
	// PresignUpload returns a URL the client can PUT the receipt to
	PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error)

	// PresignDownload returns a URL the client can GET the receipt from
	PresignDownload(ctx context.Context, key string) (string, time.Time, error)

	// Delete removes a stored receipt object
	Delete(ctx context.Context, key string) error
}

// ExpenseService records purchases and manages their receipt
// attachments. Receipt storage is a paid feature.
type ExpenseService struct {
	expenseRepo budget.ExpenseRepository
	receipts    ReceiptStorage
	guard       *appbilling.FeatureGuard
	logger      *zap.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(
	expenseRepo budget.ExpenseRepository,
	receipts ReceiptStorage,
	guard *appbilling.FeatureGuard,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		receipts:    receipts,
		guard:       guard,
		logger:      logger,
	}
}

// CreateExpense records an expense
func (s *ExpenseService) CreateExpense(ctx context.Context, input CreateExpenseInput) (*ExpenseInfo, error) {
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	e, err := budget.NewExpense(input.SpaceID, input.PaidBy, input.Description, input.Category, currency, input.Amount, input.SpentAt)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create expense", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record expense")
	}

	s.logger.Info("expense recorded",
		zap.String("space_id", input.SpaceID.String()),
		zap.String("expense_id", e.ID.String()),
		zap.String("amount", e.Amount.String()))

	info := toExpenseInfo(e)
	return &info, nil
}

// GetExpense returns a single expense
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID uuid.UUID) (*ExpenseInfo, error) {
	e, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, shared.NewDomainError("EXPENSE_NOT_FOUND", "Expense not found")
	}

	info := toExpenseInfo(e)
	return &info, nil
}

// ListExpenses returns expenses matching the filter, paginated
func (s *ExpenseService) ListExpenses(ctx context.Context, input ListExpensesInput) (*ExpenseListResult, error) {
	filter := budget.NewExpenseFilter()
	filter.Keyword = input.Keyword
	filter.Category = input.Category
	filter.PaidBy = input.PaidBy
	filter.From = input.From
	filter.To = input.To
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}

	expenses, total, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list expenses", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list expenses")
	}

	infos := make([]ExpenseInfo, 0, len(expenses))
	for _, e := range expenses {
		infos = append(infos, toExpenseInfo(e))
	}

	return &ExpenseListResult{
		Expenses: infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// UpdateExpense updates an expense's fields. Nil inputs are left
// unchanged.
func (s *ExpenseService) UpdateExpense(ctx context.Context, input UpdateExpenseInput) (*ExpenseInfo, error) {
	e, err := s.expenseRepo.FindByID(ctx, input.ExpenseID)
	if err != nil {
		return nil, shared.NewDomainError("EXPENSE_NOT_FOUND", "Expense not found")
	}

	description := e.Description
	if input.Description != nil {
		description = *input.Description
	}
	category := e.Category
	if input.Category != nil {
		category = *input.Category
	}
	amount := e.Amount
	if input.Amount != nil {
		amount = *input.Amount
	}
	spentAt := e.SpentAt
	if input.SpentAt != nil {
		spentAt = *input.SpentAt
	}

	if err := e.Update(description, category, amount, spentAt); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Update(ctx, e); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update expense")
	}

	info := toExpenseInfo(e)
	return &info, nil
}

// DeleteExpense deletes an expense. An attached receipt is removed from
// storage first; a storage failure only logs, the object becomes
// orphaned rather than blocking the delete.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID uuid.UUID) error {
	e, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return shared.NewDomainError("EXPENSE_NOT_FOUND", "Expense not found")
	}

	if e.HasReceipt() {
		if err := s.receipts.Delete(ctx, e.ReceiptKey); err != nil {
			s.logger.Warn("failed to delete receipt object",
				zap.String("expense_id", expenseID.String()),
				zap.String("receipt_key", e.ReceiptKey),
				zap.Error(err))
		}
	}

	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete expense")
	}
	return nil
}

// RequestReceiptUpload issues a presigned upload URL for a receipt and
// attaches the resulting key to the expense. The client uploads the
// bytes directly to storage afterwards.
func (s *ExpenseService) RequestReceiptUpload(ctx context.Context, expenseID uuid.UUID, contentType string) (*ReceiptUploadResult, error) {
	e, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, shared.NewDomainError("EXPENSE_NOT_FOUND", "Expense not found")
	}

	if err := s.guard.RequireFeature(ctx, e.SpaceID, billing.FeatureReceiptStorage); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("receipts/%s/%s/%s", e.SpaceID, e.ID, uuid.New())
	uploadURL, expiresAt, err := s.receipts.PresignUpload(ctx, key, contentType)
	if err != nil {
		s.logger.Error("failed to presign receipt upload",
			zap.String("expense_id", expenseID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare receipt upload")
	}

	// Replacing a receipt orphans the old object; storage cleanup is
	// best effort.
	if e.HasReceipt() {
		if err := s.receipts.Delete(ctx, e.ReceiptKey); err != nil {
			s.logger.Warn("failed to delete replaced receipt",
				zap.String("receipt_key", e.ReceiptKey),
				zap.Error(err))
		}
	}

	if err := e.AttachReceipt(key); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Update(ctx, e); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to attach receipt")
	}

	return &ReceiptUploadResult{
		Key:       key,
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// GetReceiptDownload returns a presigned download URL for an expense's
// receipt
func (s *ExpenseService) GetReceiptDownload(ctx context.Context, expenseID uuid.UUID) (*ReceiptDownloadResult, error) {
	e, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, shared.NewDomainError("EXPENSE_NOT_FOUND", "Expense not found")
	}
	if !e.HasReceipt() {
		return nil, shared.NewDomainError("NO_RECEIPT", "Expense has no receipt attached")
	}

	downloadURL, expiresAt, err := s.receipts.PresignDownload(ctx, e.ReceiptKey)
	if err != nil {
		s.logger.Error("failed to presign receipt download",
			zap.String("expense_id", expenseID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare receipt download")
	}

	return &ReceiptDownloadResult{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// RemoveReceipt detaches and deletes an expense's receipt
func (s *ExpenseService) RemoveReceipt(ctx context.Context, expenseID uuid.UUID) error {
	e, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return shared.NewDomainError("EXPENSE_NOT_FOUND", "Expense not found")
	}
	if !e.HasReceipt() {
		return nil
	}

	if err := s.receipts.Delete(ctx, e.ReceiptKey); err != nil {
		s.logger.Warn("failed to delete receipt object",
			zap.String("receipt_key", e.ReceiptKey),
			zap.Error(err))
	}

	e.RemoveReceipt()
	if err := s.expenseRepo.Update(ctx, e); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to remove receipt")
	}
	return nil
}
