package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionEnv(t *testing.T) (*testEnv, *TransactionService) {
	env := newTestEnv()
	env.categories.AddCategory(foodCategory)
	env.categories.AddCategory(salaryCategory)
	env.contacts.AddContact(ravi)
	env.load(t)
	svc := NewTransactionService(env.transactions, env.snapshots)
	svc.SetEventPublisher(env.publisher)
	return env, svc
}

func TestTransactionService_CreateTransaction(t *testing.T) {
	env, svc := newTransactionEnv(t)

	tx, err := svc.CreateTransaction(context.Background(), &domain.TransactionDraft{
		Amount:          dec("200"),
		Type:            domain.TransactionTypeExpense,
		CategoryID:      ptr(int32(1)),
		TransactionDate: day("2024-03-02"),
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), tx.ID)
	require.NotNil(t, tx.CategoryName)
	assert.Equal(t, "Food", *tx.CategoryName)

	snap := env.snapshots.Current()
	assert.Equal(t, uint64(2), snap.Version)
	require.Len(t, snap.Transactions, 1)
	assert.Same(t, tx, snap.Transactions[0])

	require.Len(t, env.publisher.Events, 1)
	assert.Equal(t, "transaction.created", env.publisher.Events[0].Event.Type)
	assert.Equal(t, uint64(2), env.publisher.Events[0].Event.Version)
}

func TestTransactionService_CreateTransaction_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.TransactionDraft
		field string
	}{
		{
			name:  "zero amount",
			draft: domain.TransactionDraft{Amount: dec("0"), Type: domain.TransactionTypeExpense, TransactionDate: day("2024-03-02")},
			field: "amount",
		},
		{
			name:  "sub-cent amount",
			draft: domain.TransactionDraft{Amount: dec("0.004"), Type: domain.TransactionTypeExpense, TransactionDate: day("2024-03-02")},
			field: "amount",
		},
		{
			name:  "unknown category",
			draft: domain.TransactionDraft{Amount: dec("5"), Type: domain.TransactionTypeExpense, CategoryID: ptr(int32(99)), TransactionDate: day("2024-03-02")},
			field: "category_id",
		},
		{
			name:  "category type mismatch",
			draft: domain.TransactionDraft{Amount: dec("5"), Type: domain.TransactionTypeExpense, CategoryID: ptr(int32(2)), TransactionDate: day("2024-03-02")},
			field: "category_id",
		},
		{
			name:  "unknown contact",
			draft: domain.TransactionDraft{Amount: dec("5"), Type: domain.TransactionTypeIncome, ContactID: ptr(int32(42)), TransactionDate: day("2024-03-02")},
			field: "contact_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, svc := newTransactionEnv(t)

			_, err := svc.CreateTransaction(context.Background(), &tt.draft)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, 0, env.transactions.Calls(), "validation happens before any write")
		})
	}
}

func TestTransactionService_CreateTransaction_StoreFailure(t *testing.T) {
	env, svc := newTransactionEnv(t)
	env.transactions.CreateFn = func(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error) {
		return nil, errors.New("timeout")
	}
	before := env.snapshots.Current()

	_, err := svc.CreateTransaction(context.Background(), &domain.TransactionDraft{
		Amount: dec("10"), Type: domain.TransactionTypeExpense, TransactionDate: day("2024-03-02"),
	})

	assert.ErrorIs(t, err, domain.ErrStore)
	assert.Same(t, before, env.snapshots.Current())
	assert.Empty(t, env.publisher.Events)
}

func TestTransactionService_LedgerTransactionProjectsContact(t *testing.T) {
	_, svc := newTransactionEnv(t)

	tx, err := svc.CreateTransaction(context.Background(), &domain.TransactionDraft{
		Amount: dec("500"), Type: domain.TransactionTypeExpense, ContactID: ptr(int32(1)), TransactionDate: day("2024-03-02"),
	})

	require.NoError(t, err)
	assert.True(t, tx.IsLedger())
	require.NotNil(t, tx.ContactName)
	assert.Equal(t, "Ravi", *tx.ContactName)
}

func TestTransactionService_GetTransactions(t *testing.T) {
	_, svc := newTransactionEnv(t)
	ctx := context.Background()
	for _, date := range []string{"2024-02-28", "2024-03-10", "2024-03-01"} {
		_, err := svc.CreateTransaction(ctx, &domain.TransactionDraft{
			Amount: dec("1"), Type: domain.TransactionTypeExpense, TransactionDate: day(date),
		})
		require.NoError(t, err)
	}

	march := svc.GetTransactions(month("2024-03"))
	require.Len(t, march, 2)
	assert.Equal(t, day("2024-03-10"), march[0].TransactionDate)
	assert.Equal(t, day("2024-03-01"), march[1].TransactionDate)

	assert.Len(t, svc.GetTransactions(domain.MonthYear{}), 3)
}

func TestTransactionService_DeleteTransaction(t *testing.T) {
	env, svc := newTransactionEnv(t)
	tx, err := svc.CreateTransaction(context.Background(), &domain.TransactionDraft{
		Amount: dec("1"), Type: domain.TransactionTypeIncome, TransactionDate: day("2024-03-01"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(context.Background(), tx.ID))
	assert.Empty(t, env.snapshots.Current().Transactions)
	assert.Equal(t, []string{"transaction.created", "transaction.deleted"}, env.publisher.Types())

	err = svc.DeleteTransaction(context.Background(), tx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
