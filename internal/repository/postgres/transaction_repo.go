package postgres

import (
	"context"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// selectTransactions joins the category and contact projections
const selectTransactions = `
	SELECT t.id, t.amount, t.type, t.category_id, t.contact_id, t.description,
	       t.transaction_date, t.created_at,
	       c.name, c.icon, c.type, ct.name
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN contacts ct ON ct.id = t.contact_id`

// List retrieves every transaction
func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, selectTransactions+` ORDER BY t.transaction_date, t.created_at, t.id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanTransaction)
}

// ListByContact retrieves the transactions linked to a contact
func (r *TransactionRepository) ListByContact(ctx context.Context, contactID int32) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, selectTransactions+`
		WHERE t.contact_id = $1
		ORDER BY t.transaction_date, t.created_at, t.id`, contactID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanTransaction)
}

// Create inserts a transaction and returns it with its projections
func (r *TransactionRepository) Create(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(draft.Amount)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		WITH t AS (
			INSERT INTO transactions (amount, type, category_id, contact_id, description, transaction_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING *
		)
		SELECT t.id, t.amount, t.type, t.category_id, t.contact_id, t.description,
		       t.transaction_date, t.created_at,
		       c.name, c.icon, c.type, ct.name
		FROM t
		LEFT JOIN categories c ON c.id = t.category_id
		LEFT JOIN contacts ct ON ct.id = t.contact_id`,
		amount,
		string(draft.Type),
		pgInt4(draft.CategoryID),
		pgInt4(draft.ContactID),
		pgText(draft.Description),
		pgDate(draft.TransactionDate),
	)
	if err != nil {
		return nil, err
	}
	tx, err := pgx.CollectExactlyOneRow(rows, scanTransaction)
	if isPgForeignKeyViolation(err) {
		return nil, domain.NewValidationError("", "unknown category or contact")
	}
	return tx, err
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.CollectableRow) (*domain.Transaction, error) {
	var (
		t            domain.Transaction
		amount       pgtype.Numeric
		txType       string
		categoryID   pgtype.Int4
		contactID    pgtype.Int4
		description  pgtype.Text
		date         pgtype.Date
		categoryName pgtype.Text
		categoryIcon pgtype.Text
		categoryType pgtype.Text
		contactName  pgtype.Text
	)
	err := row.Scan(&t.ID, &amount, &txType, &categoryID, &contactID, &description,
		&date, &t.CreatedAt, &categoryName, &categoryIcon, &categoryType, &contactName)
	if err != nil {
		return nil, err
	}

	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(txType)
	t.CategoryID = int4Ptr(categoryID)
	t.ContactID = int4Ptr(contactID)
	t.Description = textPtr(description)
	if date.Valid {
		t.TransactionDate = date.Time
	}
	t.CategoryName = textPtr(categoryName)
	t.CategoryIcon = textPtr(categoryIcon)
	if categoryType.Valid {
		ct := domain.TransactionType(categoryType.String)
		t.CategoryType = &ct
	}
	t.ContactName = textPtr(contactName)
	return &t, nil
}
