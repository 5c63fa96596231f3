package service

import (
	"context"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetService sets monthly spending limits. Each write is a single upsert
// keyed by month, or by (category, month); the last write wins.
type BudgetService struct {
	globalBudgetRepo   domain.GlobalBudgetRepository
	categoryBudgetRepo domain.CategoryBudgetRepository
	snapshots          *SnapshotService
	eventPublisher     websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	globalBudgetRepo domain.GlobalBudgetRepository,
	categoryBudgetRepo domain.CategoryBudgetRepository,
	snapshots *SnapshotService,
) *BudgetService {
	return &BudgetService{
		globalBudgetRepo:   globalBudgetRepo,
		categoryBudgetRepo: categoryBudgetRepo,
		snapshots:          snapshots,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BudgetService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// BudgetTransactions is the list of budgetable expenses behind a month's budget usage
type BudgetTransactions struct {
	Month        domain.MonthYear      `json:"month"`
	Total        decimal.Decimal       `json:"total"`
	Transactions []*domain.Transaction `json:"transactions"`
}

// GetBudgetTransactions lists the expenses counted against month's budget
func (s *BudgetService) GetBudgetTransactions(month domain.MonthYear) *BudgetTransactions {
	txs := s.snapshots.State().BudgetTransactions(month)
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}
	return &BudgetTransactions{Month: month, Total: total, Transactions: txs}
}

// UpsertGlobalBudget sets the overall limit of month
func (s *BudgetService) UpsertGlobalBudget(ctx context.Context, month domain.MonthYear, limit decimal.Decimal) (*domain.GlobalBudget, error) {
	if month.IsZero() {
		return nil, domain.NewValidationError("month_year", "is required")
	}
	if err := domain.ValidateBudgetLimit(limit); err != nil {
		return nil, err
	}

	budget, err := s.globalBudgetRepo.Upsert(ctx, month, limit)
	if err != nil {
		log.Error().Err(err).Str("month", month.String()).Msg("Failed to upsert global budget")
		return nil, domain.WrapStoreError("upsert global budget", err)
	}

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithGlobalBudget(budget)
	})

	log.Info().Str("month", month.String()).Str("limit", limit.String()).Msg("Global budget set")
	s.publishEvent(websocket.GlobalBudgetUpdated(budget).WithVersion(version))
	return budget, nil
}

// UpsertCategoryBudget sets the limit of an expense category in month
func (s *BudgetService) UpsertCategoryBudget(ctx context.Context, categoryID int32, month domain.MonthYear, limit decimal.Decimal) (*domain.CategoryBudget, error) {
	if month.IsZero() {
		return nil, domain.NewValidationError("month_year", "is required")
	}
	if err := domain.ValidateBudgetLimit(limit); err != nil {
		return nil, err
	}
	category, ok := s.snapshots.Current().Category(categoryID)
	if !ok {
		return nil, domain.NewValidationError("category_id", "unknown category")
	}
	if category.Type != domain.TransactionTypeExpense {
		return nil, domain.NewValidationError("category_id", "budgets apply to expense categories only")
	}

	budget, err := s.categoryBudgetRepo.Upsert(ctx, categoryID, month, limit)
	if err != nil {
		log.Error().Err(err).Int32("category_id", categoryID).Str("month", month.String()).Msg("Failed to upsert category budget")
		return nil, domain.WrapStoreError("upsert category budget", err)
	}

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithCategoryBudget(budget)
	})

	log.Info().
		Int32("category_id", categoryID).
		Str("month", month.String()).
		Str("limit", limit.String()).
		Msg("Category budget set")
	s.publishEvent(websocket.CategoryBudgetUpdated(budget).WithVersion(version))
	return budget, nil
}
