package handler

import (
	"net/http"

	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// SetBudgetRequest represents the body of both budget upserts
type SetBudgetRequest struct {
	AmountLimit string `json:"amountLimit" validate:"required"`
}

func (h *BudgetHandler) parseLimit(c echo.Context) (decimal.Decimal, bool, error) {
	var req SetBudgetRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return decimal.Zero, false, err
	}
	limit, err := decimal.NewFromString(req.AmountLimit)
	if err != nil {
		return decimal.Zero, false, NewValidationError(c, "Invalid amount limit", []ValidationError{
			{Field: "amountLimit", Message: "Must be a valid decimal number"},
		})
	}
	return limit, true, nil
}

// SetGlobalBudget godoc
// @Summary Create or replace the global budget of a month
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month path string true "Month (YYYY-MM)"
// @Param request body SetBudgetRequest true "Limit"
// @Success 200 {object} domain.GlobalBudget
// @Failure 400 {object} ProblemDetails
// @Router /budgets/{month} [put]
func (h *BudgetHandler) SetGlobalBudget(c echo.Context) error {
	month, ok := parseMonth(c, "month")
	if !ok {
		return NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be in YYYY-MM format"},
		})
	}
	limit, ok, err := h.parseLimit(c)
	if !ok {
		return err
	}

	budget, err := h.budgetService.UpsertGlobalBudget(c.Request().Context(), month, limit)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, budget)
}

// SetCategoryBudget godoc
// @Summary Create or replace the budget of an expense category for a month
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month path string true "Month (YYYY-MM)"
// @Param categoryId path int true "Category ID"
// @Param request body SetBudgetRequest true "Limit"
// @Success 200 {object} domain.CategoryBudget
// @Failure 400 {object} ProblemDetails
// @Router /budgets/{month}/categories/{categoryId} [put]
func (h *BudgetHandler) SetCategoryBudget(c echo.Context) error {
	month, ok := parseMonth(c, "month")
	if !ok {
		return NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be in YYYY-MM format"},
		})
	}
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		return NewValidationError(c, "Invalid category ID", nil)
	}
	limit, ok, err := h.parseLimit(c)
	if !ok {
		return err
	}

	budget, err := h.budgetService.UpsertCategoryBudget(c.Request().Context(), categoryID, month, limit)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, budget)
}

// GetBudgetTransactions godoc
// @Summary List the transactions counted against a month's budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} service.BudgetTransactions
// @Failure 400 {object} ProblemDetails
// @Router /budgets/{month}/transactions [get]
func (h *BudgetHandler) GetBudgetTransactions(c echo.Context) error {
	month, ok := parseMonth(c, "month")
	if !ok {
		return NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be in YYYY-MM format"},
		})
	}
	return c.JSON(http.StatusOK, h.budgetService.GetBudgetTransactions(month))
}
