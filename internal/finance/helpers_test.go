package finance

import (
	"testing"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var baseCreated = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func month(s string) domain.MonthYear {
	m, err := domain.ParseMonthYear(s)
	if err != nil {
		panic(err)
	}
	return m
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

type txOpt func(*domain.Transaction)

func withCategory(id int32) txOpt {
	return func(t *domain.Transaction) { t.CategoryID = ptr(id) }
}

func withContact(id int32) txOpt {
	return func(t *domain.Transaction) { t.ContactID = ptr(id) }
}

func withDescription(s string) txOpt {
	return func(t *domain.Transaction) { t.Description = ptr(s) }
}

func createdAt(ts time.Time) txOpt {
	return func(t *domain.Transaction) { t.CreatedAt = ts }
}

var nextTxID int32

func newTx(txType domain.TransactionType, amount, on string, opts ...txOpt) *domain.Transaction {
	nextTxID++
	t := &domain.Transaction{
		ID:              nextTxID,
		Amount:          dec(amount),
		Type:            txType,
		TransactionDate: date(on),
		CreatedAt:       baseCreated.Add(time.Duration(nextTxID) * time.Second),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func expense(amount, on string, opts ...txOpt) *domain.Transaction {
	return newTx(domain.TransactionTypeExpense, amount, on, opts...)
}

func income(amount, on string, opts ...txOpt) *domain.Transaction {
	return newTx(domain.TransactionTypeIncome, amount, on, opts...)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}
