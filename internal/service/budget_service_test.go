package service

import (
	"context"
	"testing"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBudgetEnv(t *testing.T) (*testEnv, *BudgetService) {
	env := newTestEnv()
	env.categories.AddCategory(foodCategory)
	env.categories.AddCategory(salaryCategory)
	env.load(t)
	svc := NewBudgetService(env.globalBudgets, env.categoryBudgets, env.snapshots)
	svc.SetEventPublisher(env.publisher)
	return env, svc
}

func TestBudgetService_UpsertGlobalBudget(t *testing.T) {
	env, svc := newBudgetEnv(t)
	ctx := context.Background()
	march := month("2024-03")

	first, err := svc.UpsertGlobalBudget(ctx, march, dec("1000"))
	require.NoError(t, err)
	second, err := svc.UpsertGlobalBudget(ctx, march, dec("1500"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	snap := env.snapshots.Current()
	require.Len(t, snap.GlobalBudgets, 1, "one record per month")
	assert.True(t, snap.GlobalBudgets[0].AmountLimit.Equal(dec("1500")))
	assert.True(t, env.snapshots.Financials(march).BudgetLimit.Equal(dec("1500")))
	assert.Equal(t, []string{"global_budget.updated", "global_budget.updated"}, env.publisher.Types())
}

func TestBudgetService_UpsertGlobalBudget_Invalid(t *testing.T) {
	env, svc := newBudgetEnv(t)

	_, err := svc.UpsertGlobalBudget(context.Background(), month("2024-03"), dec("-1"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpsertGlobalBudget(context.Background(), domain.MonthYear{}, dec("1"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpsertGlobalBudget(context.Background(), month("2024-03"), dec("2500.005"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, env.globalBudgets.Budgets)
}

func TestBudgetService_UpsertCategoryBudget(t *testing.T) {
	env, svc := newBudgetEnv(t)
	ctx := context.Background()
	march := month("2024-03")

	_, err := svc.UpsertCategoryBudget(ctx, foodCategory.ID, march, dec("300"))
	require.NoError(t, err)
	_, err = svc.UpsertCategoryBudget(ctx, foodCategory.ID, march, dec("400"))
	require.NoError(t, err)
	_, err = svc.UpsertCategoryBudget(ctx, foodCategory.ID, month("2024-04"), dec("50"))
	require.NoError(t, err)

	assert.Len(t, env.snapshots.Current().CategoryBudgets, 2)
	metrics := env.snapshots.Financials(march).CategoryMetrics
	require.Len(t, metrics, 1)
	assert.True(t, metrics[0].Limit.Equal(dec("400")))
}

func TestBudgetService_UpsertCategoryBudget_RejectsCategory(t *testing.T) {
	env, svc := newBudgetEnv(t)

	_, err := svc.UpsertCategoryBudget(context.Background(), salaryCategory.ID, month("2024-03"), dec("10"))
	assert.ErrorIs(t, err, domain.ErrValidation, "income categories have no budget")

	_, err = svc.UpsertCategoryBudget(context.Background(), 77, month("2024-03"), dec("10"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Empty(t, env.categoryBudgets.Budgets)
}

func TestBudgetService_GetBudgetTransactions(t *testing.T) {
	env, svc := newBudgetEnv(t)
	env.contacts.AddContact(ravi)
	env.load(t)
	txs := NewTransactionService(env.transactions, env.snapshots)
	ctx := context.Background()
	for _, d := range []domain.TransactionDraft{
		{Amount: dec("120"), Type: domain.TransactionTypeExpense, CategoryID: ptr(foodCategory.ID), TransactionDate: day("2024-03-03")},
		{Amount: dec("80"), Type: domain.TransactionTypeExpense, TransactionDate: day("2024-03-20")},
		{Amount: dec("999"), Type: domain.TransactionTypeExpense, ContactID: ptr(ravi.ID), TransactionDate: day("2024-03-21")},
		{Amount: dec("5000"), Type: domain.TransactionTypeIncome, TransactionDate: day("2024-03-01")},
	} {
		_, err := txs.CreateTransaction(ctx, &d)
		require.NoError(t, err)
	}

	got := svc.GetBudgetTransactions(month("2024-03"))

	assert.Len(t, got.Transactions, 2)
	assert.True(t, got.Total.Equal(dec("200")))

	empty := svc.GetBudgetTransactions(month("2023-01"))
	assert.NotNil(t, empty.Transactions)
	assert.True(t, empty.Total.IsZero())
}
