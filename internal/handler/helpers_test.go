package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/middleware"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/dafibh/tally/tally-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const ownerToken = "owner-token"

// fixedNow is the wall clock every handler test runs at
var fixedNow = time.Date(2024, 5, 17, 18, 45, 0, 0, time.UTC)

// fakeClaimsValidator accepts ownerToken only
type fakeClaimsValidator struct{}

func (fakeClaimsValidator) ValidateToken(ctx context.Context, token string) (interface{}, error) {
	if token != ownerToken {
		return nil, errors.New("signature is invalid")
	}
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|owner"},
		CustomClaims:     &middleware.CustomClaims{Email: "owner@example.com"},
	}, nil
}

// testServer wires the full route table against in-memory repositories
type testServer struct {
	e *echo.Echo

	categories      *testutil.MockCategoryRepository
	contacts        *testutil.MockContactRepository
	transactions    *testutil.MockTransactionRepository
	globalBudgets   *testutil.MockGlobalBudgetRepository
	categoryBudgets *testutil.MockCategoryBudgetRepository
	backups         *testutil.MockBackupRepository
	publisher       *testutil.MockEventPublisher

	snapshots *service.SnapshotService
}

type serverOption func(*serverConfig)

type serverConfig struct {
	backupsDisabled bool
}

func withoutBackups() serverOption {
	return func(c *serverConfig) { c.backupsDisabled = true }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	var cfg serverConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &testServer{
		e:               echo.New(),
		categories:      testutil.NewMockCategoryRepository(),
		contacts:        testutil.NewMockContactRepository(),
		transactions:    testutil.NewMockTransactionRepository(),
		globalBudgets:   testutil.NewMockGlobalBudgetRepository(),
		categoryBudgets: testutil.NewMockCategoryBudgetRepository(),
		backups:         testutil.NewMockBackupRepository(),
		publisher:       testutil.NewMockEventPublisher(),
	}
	s.e.Validator = NewRequestValidator()

	s.snapshots = service.NewSnapshotService(service.Repositories{
		Categories:      s.categories,
		Contacts:        s.contacts,
		Transactions:    s.transactions,
		GlobalBudgets:   s.globalBudgets,
		CategoryBudgets: s.categoryBudgets,
	}, nil, nil)

	categoryService := service.NewCategoryService(s.categories, s.snapshots)
	contactService := service.NewContactService(s.contacts, s.snapshots, "₹")
	transactionService := service.NewTransactionService(s.transactions, s.snapshots)
	budgetService := service.NewBudgetService(s.globalBudgets, s.categoryBudgets, s.snapshots)
	settlementService := service.NewSettlementService(s.transactions, s.snapshots)
	settlementService.SetClock(func() time.Time { return fixedNow })

	s.snapshots.SetEventPublisher(s.publisher)
	categoryService.SetEventPublisher(s.publisher)
	contactService.SetEventPublisher(s.publisher)
	transactionService.SetEventPublisher(s.publisher)
	budgetService.SetEventPublisher(s.publisher)
	settlementService.SetEventPublisher(s.publisher)

	var backupService *service.BackupService
	if !cfg.backupsDisabled {
		backupService = service.NewBackupService(s.backups, s.snapshots)
	}

	financialHandler := NewFinancialHandler(s.snapshots, time.UTC)
	financialHandler.now = func() time.Time { return fixedNow }

	rateLimiter := middleware.NewRateLimiterWithConfig(10000, 10000)
	t.Cleanup(rateLimiter.Stop)

	RegisterRoutes(s.e, middleware.NewAuthMiddlewareWithValidator(fakeClaimsValidator{}, "auth0|owner"), rateLimiter, Handlers{
		Financial:   financialHandler,
		Category:    NewCategoryHandler(categoryService),
		Contact:     NewContactHandler(contactService, settlementService),
		Transaction: NewTransactionHandler(transactionService),
		Budget:      NewBudgetHandler(budgetService),
		Backup:      NewBackupHandler(backupService),
	})
	return s
}

// load reads the repositories into the snapshot
func (s *testServer) load(t *testing.T) {
	t.Helper()
	_, err := s.snapshots.Load(context.Background())
	require.NoError(t, err)
	s.publisher.Events = nil
}

// do sends an authenticated request through the router
func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+ownerToken)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func day(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

var (
	foodCategory   = &domain.Category{ID: 1, Name: "Food", Type: domain.TransactionTypeExpense, Icon: "utensils"}
	salaryCategory = &domain.Category{ID: 2, Name: "Salary", Type: domain.TransactionTypeIncome, Icon: "briefcase"}
	ravi           = &domain.Contact{ID: 1, Name: "Ravi"}
)
