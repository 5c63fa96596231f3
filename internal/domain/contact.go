package domain

import (
	"context"
	"strings"
	"time"
)

// Contact is a person the owner lends to or borrows from
type Contact struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ContactDraft struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

// ContactPatch carries the fields to change on an existing contact. Nil fields
// are left untouched; an empty Phone clears it.
type ContactPatch struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// Normalize trims the draft and validates it
func (d *ContactDraft) Normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	if err := validateContactName(d.Name); err != nil {
		return err
	}
	d.Phone = normalizePhone(d.Phone)
	if d.Phone != nil && len(*d.Phone) > MaxPhoneLength {
		return NewValidationError("phone", "exceeds maximum length")
	}
	return nil
}

// Normalize trims the patch and validates it
func (p *ContactPatch) Normalize() error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := validateContactName(name); err != nil {
			return err
		}
		p.Name = &name
	}
	if p.Phone != nil {
		phone := strings.TrimSpace(*p.Phone)
		if len(phone) > MaxPhoneLength {
			return NewValidationError("phone", "exceeds maximum length")
		}
		p.Phone = &phone
	}
	return nil
}

func validateContactName(name string) error {
	if name == "" {
		return NewValidationError("name", "is required")
	}
	if len(name) > MaxContactNameLength {
		return NewValidationError("name", "exceeds maximum length")
	}
	return nil
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*phone)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SameContactName compares contact names the way uniqueness is enforced
func SameContactName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

type ContactRepository interface {
	List(ctx context.Context) ([]*Contact, error)
	Create(ctx context.Context, draft *ContactDraft) (*Contact, error)
	Update(ctx context.Context, id int32, patch *ContactPatch) (*Contact, error)
	Delete(ctx context.Context, id int32) error
	CountTransactions(ctx context.Context, id int32) (int64, error)
}
