package domain

import (
	"fmt"
	"slices"
)

// Snapshot is the full set of records at a point in time. It is treated as
// immutable: the With*/Without* methods return a new snapshot sharing the
// unchanged records.
type Snapshot struct {
	Version         uint64            `json:"version"`
	Categories      []*Category       `json:"categories"`
	Contacts        []*Contact        `json:"contacts"`
	Transactions    []*Transaction    `json:"transactions"`
	GlobalBudgets   []*GlobalBudget   `json:"globalBudgets"`
	CategoryBudgets []*CategoryBudget `json:"categoryBudgets"`
}

// RejectedRecord describes a record dropped at the snapshot boundary
type RejectedRecord struct {
	Kind   string
	ID     int32
	Reason string
}

func (r RejectedRecord) String() string {
	return fmt.Sprintf("%s %d: %s", r.Kind, r.ID, r.Reason)
}

// NewSnapshot builds a snapshot from store records, dropping malformed ones
// before they can reach aggregation.
func NewSnapshot(categories []*Category, contacts []*Contact, transactions []*Transaction,
	globalBudgets []*GlobalBudget, categoryBudgets []*CategoryBudget) (*Snapshot, []RejectedRecord) {
	var rejected []RejectedRecord
	s := &Snapshot{}

	for _, c := range categories {
		if c == nil {
			continue
		}
		if !c.Type.Valid() {
			rejected = append(rejected, RejectedRecord{"category", c.ID, "unknown type " + string(c.Type)})
			continue
		}
		s.Categories = append(s.Categories, c)
	}

	for _, c := range contacts {
		if c == nil {
			continue
		}
		s.Contacts = append(s.Contacts, c)
	}

	for _, t := range transactions {
		if t == nil {
			continue
		}
		switch {
		case !t.Amount.IsPositive():
			rejected = append(rejected, RejectedRecord{"transaction", t.ID, "non-positive amount " + t.Amount.String()})
		case !t.Type.Valid():
			rejected = append(rejected, RejectedRecord{"transaction", t.ID, "unknown type " + string(t.Type)})
		case t.TransactionDate.IsZero():
			rejected = append(rejected, RejectedRecord{"transaction", t.ID, "missing transaction date"})
		default:
			s.Transactions = append(s.Transactions, t)
		}
	}

	for _, b := range globalBudgets {
		if b == nil {
			continue
		}
		if b.MonthYear.IsZero() || b.AmountLimit.IsNegative() {
			rejected = append(rejected, RejectedRecord{"global_budget", b.ID, "malformed month or negative limit"})
			continue
		}
		s.GlobalBudgets = append(s.GlobalBudgets, b)
	}

	for _, b := range categoryBudgets {
		if b == nil {
			continue
		}
		if b.MonthYear.IsZero() || b.AmountLimit.IsNegative() {
			rejected = append(rejected, RejectedRecord{"category_budget", b.ID, "malformed month or negative limit"})
			continue
		}
		s.CategoryBudgets = append(s.CategoryBudgets, b)
	}

	return s, rejected
}

// Category returns the category with the given id
func (s *Snapshot) Category(id int32) (*Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Contact returns the contact with the given id
func (s *Snapshot) Contact(id int32) (*Contact, bool) {
	for _, c := range s.Contacts {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// ContactByName finds a contact by case-insensitive name
func (s *Snapshot) ContactByName(name string) (*Contact, bool) {
	for _, c := range s.Contacts {
		if SameContactName(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

// next returns a shallow copy with the version bumped
func (s *Snapshot) next() *Snapshot {
	return &Snapshot{
		Version:         s.Version + 1,
		Categories:      s.Categories,
		Contacts:        s.Contacts,
		Transactions:    s.Transactions,
		GlobalBudgets:   s.GlobalBudgets,
		CategoryBudgets: s.CategoryBudgets,
	}
}

// WithVersion returns a copy carrying the given version
func (s *Snapshot) WithVersion(version uint64) *Snapshot {
	n := s.next()
	n.Version = version
	return n
}

// WithTransaction returns a snapshot with tx added
func (s *Snapshot) WithTransaction(tx *Transaction) *Snapshot {
	n := s.next()
	n.Transactions = append(slices.Clip(s.Transactions), tx)
	return n
}

// WithoutTransaction returns a snapshot with the transaction removed
func (s *Snapshot) WithoutTransaction(id int32) *Snapshot {
	n := s.next()
	n.Transactions = slices.DeleteFunc(slices.Clone(s.Transactions), func(t *Transaction) bool { return t.ID == id })
	return n
}

// WithCategory returns a snapshot with c added
func (s *Snapshot) WithCategory(c *Category) *Snapshot {
	n := s.next()
	n.Categories = append(slices.Clip(s.Categories), c)
	return n
}

// WithoutCategory returns a snapshot with the category and its budgets removed
func (s *Snapshot) WithoutCategory(id int32) *Snapshot {
	n := s.next()
	n.Categories = slices.DeleteFunc(slices.Clone(s.Categories), func(c *Category) bool { return c.ID == id })
	n.CategoryBudgets = slices.DeleteFunc(slices.Clone(s.CategoryBudgets), func(b *CategoryBudget) bool { return b.CategoryID == id })
	return n
}

// WithContact returns a snapshot with c added, or replacing the contact with
// the same id
func (s *Snapshot) WithContact(c *Contact) *Snapshot {
	n := s.next()
	contacts := slices.Clone(s.Contacts)
	if i := slices.IndexFunc(contacts, func(x *Contact) bool { return x.ID == c.ID }); i >= 0 {
		contacts[i] = c
	} else {
		contacts = append(contacts, c)
	}
	n.Contacts = contacts
	return n
}

// WithoutContact returns a snapshot with the contact removed
func (s *Snapshot) WithoutContact(id int32) *Snapshot {
	n := s.next()
	n.Contacts = slices.DeleteFunc(slices.Clone(s.Contacts), func(c *Contact) bool { return c.ID == id })
	return n
}

// WithGlobalBudget returns a snapshot holding b as the only record for its month
func (s *Snapshot) WithGlobalBudget(b *GlobalBudget) *Snapshot {
	n := s.next()
	budgets := slices.DeleteFunc(slices.Clone(s.GlobalBudgets), func(x *GlobalBudget) bool { return x.MonthYear == b.MonthYear })
	n.GlobalBudgets = append(budgets, b)
	return n
}

// WithCategoryBudget returns a snapshot holding b as the only record for its
// (category, month) key
func (s *Snapshot) WithCategoryBudget(b *CategoryBudget) *Snapshot {
	n := s.next()
	budgets := slices.DeleteFunc(slices.Clone(s.CategoryBudgets), func(x *CategoryBudget) bool {
		return x.CategoryID == b.CategoryID && x.MonthYear == b.MonthYear
	})
	n.CategoryBudgets = append(budgets, b)
	return n
}
