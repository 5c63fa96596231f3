package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestContactDraftNormalize(t *testing.T) {
	blank := "   "
	phone := " +91 98450 00000 "
	draft := ContactDraft{Name: "  Asha  ", Phone: &phone}
	if err := draft.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if draft.Name != "Asha" || *draft.Phone != "+91 98450 00000" {
		t.Errorf("Normalize() = %q / %q", draft.Name, *draft.Phone)
	}

	draft = ContactDraft{Name: "Vik", Phone: &blank}
	if err := draft.Normalize(); err != nil || draft.Phone != nil {
		t.Errorf("blank phone should normalize to nil, got %v / %v", draft.Phone, err)
	}

	for _, name := range []string{"", "  ", strings.Repeat("n", MaxContactNameLength+1)} {
		d := ContactDraft{Name: name}
		if err := d.Normalize(); !errors.Is(err, ErrValidation) {
			t.Errorf("Normalize(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestContactPatchNormalize(t *testing.T) {
	empty := ""
	patch := ContactPatch{Phone: &empty}
	if err := patch.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if patch.Phone == nil || *patch.Phone != "" {
		t.Error("an empty phone in a patch clears the phone")
	}

	blankName := " "
	patch = ContactPatch{Name: &blankName}
	if err := patch.Normalize(); !errors.Is(err, ErrValidation) {
		t.Errorf("blank rename error = %v, want ErrValidation", err)
	}
}

func TestCategoryDraftNormalize(t *testing.T) {
	draft := CategoryDraft{Name: " Groceries ", Type: TransactionTypeExpense, Icon: " 🛒 "}
	if err := draft.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if draft.Name != "Groceries" || draft.Icon != "🛒" {
		t.Errorf("Normalize() = %q %q", draft.Name, draft.Icon)
	}

	bad := CategoryDraft{Name: "Gifts", Type: "both"}
	if err := bad.Normalize(); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown type error = %v, want ErrValidation", err)
	}
}

func TestSameContactName(t *testing.T) {
	if !SameContactName("Ravi", " ravi ") {
		t.Error("names differing only by case and space should match")
	}
	if SameContactName("Ravi", "Ravindra") {
		t.Error("different names should not match")
	}
}
