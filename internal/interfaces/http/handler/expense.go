package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/homehub/backend/internal/application/budget"
)

// ExpenseHandler handles expense and receipt HTTP requests
type ExpenseHandler struct {
	BaseHandler
	expenseService *budget.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *budget.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// CreateExpense godoc
// @Summary      Record an expense
// @Description  Record a spend against a category; the caller is the payer unless overridden
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body budget.CreateExpenseInput true "Expense details"
// @Success      201 {object} dto.Response{data=budget.ExpenseInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	spaceID, err := getSpaceID(c)
	if err != nil {
		h.Forbidden(c, "No space selected")
		return
	}

	var input budget.CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.SpaceID = spaceID
	input.PaidBy = userID

	info, err := h.expenseService.CreateExpense(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// ListExpenses godoc
// @Summary      List expenses
// @Description  Paginated expense listing with keyword, category, payer and date filters
// @Tags         expenses
// @Produce      json
// @Param        keyword query string false "Search keyword"
// @Param        category query string false "Category filter"
// @Param        paid_by query string false "Payer user ID"
// @Param        from query string false "Start of spent_at range (RFC3339)"
// @Param        to query string false "End of spent_at range (RFC3339)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]budget.ExpenseInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	var input budget.ListExpensesInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.expenseService.ListExpenses(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Expenses, result.Total, result.Page, result.PageSize)
}

// GetExpense godoc
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=budget.ExpenseInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	info, err := h.expenseService.GetExpense(c.Request.Context(), expenseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UpdateExpense godoc
// @Summary      Update an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body budget.UpdateExpenseInput true "Fields to update"
// @Success      200 {object} dto.Response{data=budget.ExpenseInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	var input budget.UpdateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.ExpenseID = expenseID

	info, err := h.expenseService.UpdateExpense(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// DeleteExpense godoc
// @Summary      Delete an expense
// @Description  Remove the expense and its stored receipt, if any
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), expenseID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// receiptUploadRequest carries the declared content type for a presigned upload
type receiptUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// RequestReceiptUpload godoc
// @Summary      Request a receipt upload URL
// @Description  Get a presigned URL to upload a receipt image for the expense; plan-gated
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body receiptUploadRequest true "Receipt content type"
// @Success      200 {object} dto.Response{data=budget.ReceiptUploadResult}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt [post]
func (h *ExpenseHandler) RequestReceiptUpload(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	var req receiptUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.expenseService.RequestReceiptUpload(c.Request.Context(), expenseID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetReceiptDownload godoc
// @Summary      Get a receipt download URL
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} dto.Response{data=budget.ReceiptDownloadResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt [get]
func (h *ExpenseHandler) GetReceiptDownload(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	result, err := h.expenseService.GetReceiptDownload(c.Request.Context(), expenseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveReceipt godoc
// @Summary      Remove a receipt
// @Description  Delete the stored receipt object and clear the expense's receipt key
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /expenses/{id}/receipt [delete]
func (h *ExpenseHandler) RemoveReceipt(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.expenseService.RemoveReceipt(c.Request.Context(), expenseID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
