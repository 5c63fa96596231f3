package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Amount          string  `json:"amount" validate:"required"`
	Type            string  `json:"type" validate:"required,oneof=income expense"`
	CategoryID      *int32  `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	ContactID       *int32  `json:"contactId,omitempty" validate:"omitempty,gt=0"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
	TransactionDate string  `json:"transactionDate" validate:"required,datetime=2006-01-02"`
}

// GetTransactions godoc
// @Summary List transactions newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param month query string false "Only this month (YYYY-MM)"
// @Success 200 {array} domain.Transaction
// @Failure 400 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	var month domain.MonthYear
	if raw := c.QueryParam("month"); raw != "" {
		parsed, err := domain.ParseMonthYear(raw)
		if err != nil {
			return NewValidationError(c, "Invalid month", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		month = parsed
	}

	transactions := h.transactionService.GetTransactions(month)
	if transactions == nil {
		transactions = []*domain.Transaction{}
	}
	return c.JSON(http.StatusOK, transactions)
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create an income or expense. A transaction with a contact is a ledger entry and is left out of budgets.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req CreateTransactionRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}
	date, err := time.Parse(domain.DateLayout, req.TransactionDate)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "transactionDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	tx, err := h.transactionService.CreateTransaction(c.Request().Context(), &domain.TransactionDraft{
		Amount:          amount,
		Type:            domain.TransactionType(req.Type),
		CategoryID:      req.CategoryID,
		ContactID:       req.ContactID,
		Description:     req.Description,
		TransactionDate: date,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, tx)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}
	if err := h.transactionService.DeleteTransaction(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
