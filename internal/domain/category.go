package domain

import (
	"context"
	"strings"
	"time"
)

// Category classifies transactions. Categories are immutable once created;
// they can only be deleted, and only while no transaction references them.
type Category struct {
	ID        int32           `json:"id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Icon      string          `json:"icon"`
	CreatedAt time.Time       `json:"createdAt"`
}

type CategoryDraft struct {
	Name string          `json:"name"`
	Type TransactionType `json:"type"`
	Icon string          `json:"icon"`
}

// Normalize trims the draft and validates it
func (d *CategoryDraft) Normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Icon = strings.TrimSpace(d.Icon)
	if d.Name == "" {
		return NewValidationError("name", "is required")
	}
	if len(d.Name) > MaxCategoryNameLength {
		return NewValidationError("name", "exceeds maximum length")
	}
	if !d.Type.Valid() {
		return NewValidationError("type", "must be income or expense")
	}
	if len(d.Icon) > MaxIconLength {
		return NewValidationError("icon", "exceeds maximum length")
	}
	return nil
}

type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
	Create(ctx context.Context, draft *CategoryDraft) (*Category, error)
	Delete(ctx context.Context, id int32) error
	CountTransactions(ctx context.Context, id int32) (int64, error)
}
