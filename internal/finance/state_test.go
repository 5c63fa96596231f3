package finance

import (
	"testing"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_NilSnapshot(t *testing.T) {
	s := NewState(nil)

	assert.Equal(t, uint64(0), s.Version())
	fin := s.Financials(month("2024-03"))
	assert.Equal(t, NoExpensesName, fin.TopCategory.Name)
	assert.Empty(t, s.Contacts().Contacts)

	_, ok := s.ContactLedger(1)
	assert.False(t, ok)
}

func TestState_ContactLedger(t *testing.T) {
	priya := &domain.Contact{ID: 1, Name: "Priya"}
	lent := expense("500", "2024-01-01", withContact(priya.ID))
	repaid := income("500", "2024-01-05", withContact(priya.ID))
	lentAgain := expense("300", "2024-01-10", withContact(priya.ID))
	snap, rejected := domain.NewSnapshot(nil, []*domain.Contact{priya}, []*domain.Transaction{lent, repaid, lentAgain}, nil, nil)
	require.Empty(t, rejected)

	s := NewState(snap)
	ledger, ok := s.ContactLedger(priya.ID)

	require.True(t, ok)
	assert.Equal(t, priya, ledger.Contact)
	assertDecimal(t, "300", ledger.Balance)
	assert.Equal(t, ContactStatusToReceive, ledger.Status)
	assert.Equal(t, []*domain.Transaction{lentAgain}, ledger.History)

	draft, ok := s.Settle(priya.ID, settleDay)
	require.True(t, ok)
	assert.Equal(t, domain.TransactionTypeIncome, draft.Type)
	assertDecimal(t, "300", draft.Amount)
}

func TestState_FinancialsUseOptions(t *testing.T) {
	snap, _ := domain.NewSnapshot(nil, nil, []*domain.Transaction{expense("25", "2024-03-01")}, nil, nil)

	s := NewState(snap, WithDefaultBudgetLimit(dec("100")))
	fin := s.Financials(month("2024-03"))

	assertDecimal(t, "100", fin.BudgetLimit)
	assert.Equal(t, int64(25), fin.SpendingPercentage)
	assert.Len(t, s.BudgetTransactions(month("2024-03")), 1)
	assert.Len(t, s.History(month("2024-03"), 2).Months, 2)
}

func TestState_VersionFollowsSnapshot(t *testing.T) {
	snap, _ := domain.NewSnapshot(nil, nil, nil, nil, nil)
	next := snap.WithCategory(food)

	assert.Equal(t, snap.Version+1, NewState(next).Version())
	assert.Same(t, next, NewState(next).Snapshot())
}
