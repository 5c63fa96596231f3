package service

import (
	"context"
	"testing"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/cache"
	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/finance"
	"github.com/dafibh/tally/tally-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service against in-memory repositories
type testEnv struct {
	categories      *testutil.MockCategoryRepository
	contacts        *testutil.MockContactRepository
	transactions    *testutil.MockTransactionRepository
	globalBudgets   *testutil.MockGlobalBudgetRepository
	categoryBudgets *testutil.MockCategoryBudgetRepository
	publisher       *testutil.MockEventPublisher

	snapshots *SnapshotService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		categories:      testutil.NewMockCategoryRepository(),
		contacts:        testutil.NewMockContactRepository(),
		transactions:    testutil.NewMockTransactionRepository(),
		globalBudgets:   testutil.NewMockGlobalBudgetRepository(),
		categoryBudgets: testutil.NewMockCategoryBudgetRepository(),
		publisher:       testutil.NewMockEventPublisher(),
	}
	env.snapshots = NewSnapshotService(Repositories{
		Categories:      env.categories,
		Contacts:        env.contacts,
		Transactions:    env.transactions,
		GlobalBudgets:   env.globalBudgets,
		CategoryBudgets: env.categoryBudgets,
	},
		cache.NewLRUCache[finance.FinancialSnapshot](16, time.Hour),
		cache.NewLRUCache[finance.History](16, time.Hour),
	)
	env.snapshots.SetEventPublisher(env.publisher)
	return env
}

// load reads the repositories into the snapshot and clears the reload event
func (e *testEnv) load(t *testing.T) *domain.Snapshot {
	t.Helper()
	snap, err := e.snapshots.Load(context.Background())
	require.NoError(t, err)
	e.publisher.Events = nil
	return snap
}

func day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
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

var (
	foodCategory   = &domain.Category{ID: 1, Name: "Food", Type: domain.TransactionTypeExpense, Icon: "🍔"}
	salaryCategory = &domain.Category{ID: 2, Name: "Salary", Type: domain.TransactionTypeIncome, Icon: "💼"}
	ravi           = &domain.Contact{ID: 1, Name: "Ravi"}
)
