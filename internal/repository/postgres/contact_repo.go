package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository implements domain.ContactRepository using PostgreSQL.
// Names are unique case-insensitively (idx_contacts_name_lower).
type ContactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

const contactColumns = `id, name, phone, created_at, updated_at`

// List retrieves every contact
func (r *ContactRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanContact)
}

// Create inserts a contact
func (r *ContactRepository) Create(ctx context.Context, draft *domain.ContactDraft) (*domain.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO contacts (name, phone)
		VALUES ($1, $2)
		RETURNING `+contactColumns,
		draft.Name, pgText(draft.Phone))
	if err != nil {
		return nil, err
	}
	contact, err := pgx.CollectExactlyOneRow(rows, scanContact)
	if isPgUniqueViolation(err) {
		return nil, &domain.ConflictError{Resource: "contact", Value: draft.Name}
	}
	return contact, err
}

// Update changes the name and/or phone of a contact. An empty phone clears it.
func (r *ContactRepository) Update(ctx context.Context, id int32, patch *domain.ContactPatch) (*domain.Contact, error) {
	var phone pgtype.Text
	if patch.Phone != nil {
		phone = pgtype.Text{String: *patch.Phone, Valid: true}
	}
	rows, err := r.pool.Query(ctx, `
		UPDATE contacts
		SET name = COALESCE($2, name),
		    phone = CASE WHEN $3::text IS NULL THEN phone ELSE NULLIF($3::text, '') END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+contactColumns,
		id, pgText(patch.Name), phone)
	if err != nil {
		return nil, err
	}
	contact, err := pgx.CollectExactlyOneRow(rows, scanContact)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		if isPgUniqueViolation(err) {
			return nil, &domain.ConflictError{Resource: "contact", Value: *patch.Name}
		}
		return nil, err
	}
	return contact, nil
}

// Delete removes a contact
func (r *ContactRepository) Delete(ctx context.Context, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		if isPgForeignKeyViolation(err) {
			return &domain.ReferentialError{Resource: "contact", ID: id}
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

// CountTransactions counts the transactions linked to a contact
func (r *ContactRepository) CountTransactions(ctx context.Context, id int32) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE contact_id = $1`, id).Scan(&count)
	return count, err
}

func scanContact(row pgx.CollectableRow) (*domain.Contact, error) {
	var c domain.Contact
	var phone pgtype.Text
	if err := row.Scan(&c.ID, &c.Name, &phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Phone = textPtr(phone)
	return &c, nil
}
