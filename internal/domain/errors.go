package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("resource already exists")
	ErrReferential   = errors.New("resource is still referenced")
	ErrStore         = errors.New("record store failure")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInternalError = errors.New("internal error")
	ErrSnapshotBusy  = errors.New("records changed while the snapshot was loading")

	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrContactNotFound     = fmt.Errorf("contact %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
)

// Validation constants
const (
	MaxCategoryNameLength = 100
	MaxContactNameLength  = 255
	MaxDescriptionLength  = 500
	MaxPhoneLength        = 32
	MaxIconLength         = 64

	// AmountScale is the number of decimal places the store keeps
	AmountScale = 2
)

// ValidationError reports caller-supplied data that violates an invariant.
// It is raised before any I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a duplicate detected against the loaded snapshot
type ConflictError struct {
	Resource string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Value)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ReferentialError reports a delete blocked by records that still point at the resource
type ReferentialError struct {
	Resource   string
	ID         int32
	References int64
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("cannot delete %s %d: %d transaction(s) still reference it", e.Resource, e.ID, e.References)
}

func (e *ReferentialError) Is(target error) bool { return target == ErrReferential }

// StoreError wraps a failure of the record store itself (network, auth, schema)
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// WrapStoreError wraps err as a StoreError unless it already carries a domain meaning
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrReferential) || errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrStore) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
