package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of a transaction date
const DateLayout = "2006-01-02"

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single money movement. Amount is always positive; the
// direction is carried by Type. A transaction with a ContactID is a ledger
// transaction between the owner and that contact.
type Transaction struct {
	ID              int32           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	CategoryID      *int32          `json:"categoryId,omitempty"`
	ContactID       *int32          `json:"contactId,omitempty"`
	Description     *string         `json:"description,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdAt"`

	// Read-only projections joined by the store for display
	CategoryName *string          `json:"categoryName,omitempty"`
	CategoryIcon *string          `json:"categoryIcon,omitempty"`
	CategoryType *TransactionType `json:"categoryType,omitempty"`
	ContactName  *string          `json:"contactName,omitempty"`
}

// IsLedger reports whether the transaction is linked to a contact
func (t *Transaction) IsLedger() bool {
	return t.ContactID != nil
}

// IsBudgetable reports whether the transaction counts against spending budgets:
// an expense that is not linked to a contact.
func (t *Transaction) IsBudgetable() bool {
	return t.Type == TransactionTypeExpense && t.ContactID == nil
}

// TransactionDraft is an unsaved transaction
type TransactionDraft struct {
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	CategoryID      *int32          `json:"categoryId,omitempty"`
	ContactID       *int32          `json:"contactId,omitempty"`
	Description     *string         `json:"description,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
}

// Validate checks the draft invariants that can be checked without the store
func (d *TransactionDraft) Validate() error {
	if !d.Amount.IsPositive() {
		return NewValidationError("amount", "must be greater than zero")
	}
	if err := checkStorable("amount", d.Amount); err != nil {
		return err
	}
	if !d.Type.Valid() {
		return NewValidationError("type", "must be income or expense")
	}
	if d.TransactionDate.IsZero() {
		return NewValidationError("transaction_date", "is required")
	}
	if d.Description != nil && len(*d.Description) > MaxDescriptionLength {
		return NewValidationError("description", "exceeds maximum length")
	}
	return nil
}

type TransactionRepository interface {
	List(ctx context.Context) ([]*Transaction, error)
	ListByContact(ctx context.Context, contactID int32) ([]*Transaction, error)
	Create(ctx context.Context, draft *TransactionDraft) (*Transaction, error)
	Delete(ctx context.Context, id int32) error
}
