package handler

import (
	"net/http"
	"testing"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/finance"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGlobalBudget(t *testing.T) {
	s := newTestServer(t)
	s.load(t)

	rec := s.do(http.MethodPut, "/api/v1/budgets/2024-05", `{"amountLimit": "5000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[domain.GlobalBudget](t, rec)

	rec = s.do(http.MethodPut, "/api/v1/budgets/2024-05", `{"amountLimit": "6500.75"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[domain.GlobalBudget](t, rec)

	assert.Equal(t, first.ID, second.ID, "one record per month")
	assert.Len(t, s.snapshots.Current().GlobalBudgets, 1)

	snap := decode[finance.FinancialSnapshot](t, s.do(http.MethodGet, "/api/v1/financials/2024-05", ""))
	assert.True(t, dec("6500.75").Equal(snap.BudgetLimit))
	assert.Equal(t, []string{"global_budget.updated", "global_budget.updated"}, s.publisher.Types())
}

func TestSetGlobalBudget_Invalid(t *testing.T) {
	s := newTestServer(t)
	s.load(t)

	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"bad month", "/api/v1/budgets/2024-5x", `{"amountLimit": "10"}`},
		{"negative limit", "/api/v1/budgets/2024-05", `{"amountLimit": "-1"}`},
		{"missing limit", "/api/v1/budgets/2024-05", `{}`},
		{"limit not a number", "/api/v1/budgets/2024-05", `{"amountLimit": "lots"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPut, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, s.snapshots.Current().GlobalBudgets)
}

func TestSetCategoryBudget(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory(foodCategory)
	s.categories.AddCategory(salaryCategory)
	s.load(t)

	rec := s.do(http.MethodPut, "/api/v1/budgets/2024-05/categories/1", `{"amountLimit": "400"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.CategoryBudget](t, rec)
	assert.Equal(t, foodCategory.ID, got.CategoryID)

	snap := decode[finance.FinancialSnapshot](t, s.do(http.MethodGet, "/api/v1/financials/2024-05", ""))
	require.NotEmpty(t, snap.CategoryMetrics)
	assert.True(t, dec("400").Equal(snap.CategoryMetrics[0].Limit))

	rec = s.do(http.MethodPut, "/api/v1/budgets/2024-05/categories/2", `{"amountLimit": "400"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "income categories have no budget")

	rec = s.do(http.MethodPut, "/api/v1/budgets/2024-05/categories/0", `{"amountLimit": "400"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBudgetTransactions(t *testing.T) {
	s := newTestServer(t)
	seedMay(s)
	s.load(t)

	rec := s.do(http.MethodGet, "/api/v1/budgets/2024-05/transactions", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[service.BudgetTransactions](t, rec)
	assert.True(t, dec("200").Equal(got.Total))
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, int32(2), got.Transactions[0].ID)

	rec = s.do(http.MethodGet, "/api/v1/budgets/2023-01/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[service.BudgetTransactions](t, rec).Transactions)
}
