package postgres

import (
	"context"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List retrieves every category
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, type, icon, created_at
		FROM categories
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCategory)
}

// Create inserts a category
func (r *CategoryRepository) Create(ctx context.Context, draft *domain.CategoryDraft) (*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO categories (name, type, icon)
		VALUES ($1, $2, $3)
		RETURNING id, name, type, icon, created_at`,
		draft.Name, string(draft.Type), draft.Icon)
	if err != nil {
		return nil, err
	}
	return pgx.CollectExactlyOneRow(rows, scanCategory)
}

// Delete removes a category. Its budgets are removed by the foreign key cascade.
func (r *CategoryRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return &domain.ReferentialError{Resource: "category", ID: id}
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// CountTransactions counts the transactions assigned to a category
func (r *CategoryRepository) CountTransactions(ctx context.Context, id int32) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = $1`, id).Scan(&count)
	return count, err
}

func scanCategory(row pgx.CollectableRow) (*domain.Category, error) {
	var c domain.Category
	var txType string
	if err := row.Scan(&c.ID, &c.Name, &txType, &c.Icon, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Type = domain.TransactionType(txType)
	return &c, nil
}
