package postgres

import (
	"context"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// GlobalBudgetRepository implements domain.GlobalBudgetRepository using PostgreSQL
type GlobalBudgetRepository struct {
	pool *pgxpool.Pool
}

// NewGlobalBudgetRepository creates a new GlobalBudgetRepository
func NewGlobalBudgetRepository(pool *pgxpool.Pool) *GlobalBudgetRepository {
	return &GlobalBudgetRepository{pool: pool}
}

// List retrieves every global budget
func (r *GlobalBudgetRepository) List(ctx context.Context) ([]*domain.GlobalBudget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, month_year, amount_limit, created_at, updated_at
		FROM global_budgets
		ORDER BY month_year`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanGlobalBudget)
}

// Upsert sets the limit of a month in a single statement
func (r *GlobalBudgetRepository) Upsert(ctx context.Context, month domain.MonthYear, limit decimal.Decimal) (*domain.GlobalBudget, error) {
	amount, err := decimalToPgNumeric(limit)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		INSERT INTO global_budgets (month_year, amount_limit)
		VALUES ($1, $2)
		ON CONFLICT (month_year) DO UPDATE
		SET amount_limit = EXCLUDED.amount_limit, updated_at = NOW()
		RETURNING id, month_year, amount_limit, created_at, updated_at`,
		month.String(), amount)
	if err != nil {
		return nil, err
	}
	return pgx.CollectExactlyOneRow(rows, scanGlobalBudget)
}

// CategoryBudgetRepository implements domain.CategoryBudgetRepository using PostgreSQL
type CategoryBudgetRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryBudgetRepository creates a new CategoryBudgetRepository
func NewCategoryBudgetRepository(pool *pgxpool.Pool) *CategoryBudgetRepository {
	return &CategoryBudgetRepository{pool: pool}
}

// List retrieves every category budget
func (r *CategoryBudgetRepository) List(ctx context.Context) ([]*domain.CategoryBudget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_id, month_year, amount_limit, created_at, updated_at
		FROM budgets
		ORDER BY month_year, category_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCategoryBudget)
}

// Upsert sets the limit of a category in a month in a single statement
func (r *CategoryBudgetRepository) Upsert(ctx context.Context, categoryID int32, month domain.MonthYear, limit decimal.Decimal) (*domain.CategoryBudget, error) {
	amount, err := decimalToPgNumeric(limit)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		INSERT INTO budgets (category_id, month_year, amount_limit)
		VALUES ($1, $2, $3)
		ON CONFLICT (category_id, month_year) DO UPDATE
		SET amount_limit = EXCLUDED.amount_limit, updated_at = NOW()
		RETURNING id, category_id, month_year, amount_limit, created_at, updated_at`,
		categoryID, month.String(), amount)
	if err != nil {
		return nil, err
	}
	budget, err := pgx.CollectExactlyOneRow(rows, scanCategoryBudget)
	if isPgForeignKeyViolation(err) {
		return nil, domain.NewValidationError("category_id", "unknown category")
	}
	return budget, err
}

func scanGlobalBudget(row pgx.CollectableRow) (*domain.GlobalBudget, error) {
	var (
		b      domain.GlobalBudget
		month  string
		amount pgtype.Numeric
	)
	if err := row.Scan(&b.ID, &month, &amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	// a malformed month stays zero and is rejected at the snapshot boundary
	b.MonthYear, _ = domain.ParseMonthYear(month)
	b.AmountLimit = pgNumericToDecimal(amount)
	return &b, nil
}

func scanCategoryBudget(row pgx.CollectableRow) (*domain.CategoryBudget, error) {
	var (
		b      domain.CategoryBudget
		month  string
		amount pgtype.Numeric
	)
	if err := row.Scan(&b.ID, &b.CategoryID, &month, &amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	// a malformed month stays zero and is rejected at the snapshot boundary
	b.MonthYear, _ = domain.ParseMonthYear(month)
	b.AmountLimit = pgNumericToDecimal(amount)
	return &b, nil
}
