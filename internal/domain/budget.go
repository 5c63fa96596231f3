package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// GlobalBudget caps budgetable spending for one month. There is at most one
// record per MonthYear.
type GlobalBudget struct {
	ID          int32           `json:"id"`
	MonthYear   MonthYear       `json:"monthYear"`
	AmountLimit decimal.Decimal `json:"amountLimit"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CategoryBudget caps budgetable spending for one expense category in one
// month. There is at most one record per (CategoryID, MonthYear).
type CategoryBudget struct {
	ID          int32           `json:"id"`
	CategoryID  int32           `json:"categoryId"`
	MonthYear   MonthYear       `json:"monthYear"`
	AmountLimit decimal.Decimal `json:"amountLimit"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ValidateBudgetLimit rejects negative limits and limits the store cannot hold exactly
func ValidateBudgetLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return NewValidationError("amount_limit", "must be zero or positive")
	}
	return checkStorable("amount_limit", limit)
}

// MaxAmount is the largest value a NUMERIC(14, 2) column holds
var MaxAmount = decimal.RequireFromString("999999999999.99")

// checkStorable rejects amounts the store would round or overflow
func checkStorable(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(AmountScale)) {
		return NewValidationError(field, "must have at most 2 decimal places")
	}
	if amount.GreaterThan(MaxAmount) {
		return NewValidationError(field, "exceeds maximum amount")
	}
	return nil
}

// GlobalBudgetRepository upserts by month; Upsert must be atomic so a reader
// never observes zero or two records for the same month.
type GlobalBudgetRepository interface {
	List(ctx context.Context) ([]*GlobalBudget, error)
	Upsert(ctx context.Context, month MonthYear, limit decimal.Decimal) (*GlobalBudget, error)
}

// CategoryBudgetRepository upserts by (category, month) with the same
// atomicity requirement as GlobalBudgetRepository.
type CategoryBudgetRepository interface {
	List(ctx context.Context) ([]*CategoryBudget, error)
	Upsert(ctx context.Context, categoryID int32, month MonthYear, limit decimal.Decimal) (*CategoryBudget, error)
}
