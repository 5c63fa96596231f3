package finance

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// SettlementEpsilon is the tolerance under which a running contact balance
// counts as settled. Amounts are decimals, so sums are exact and this only
// absorbs sub-minor-unit residue from imported data.
var SettlementEpsilon = decimal.New(1, -2)

// ContactStatus is the direction of a contact balance
type ContactStatus string

const (
	// ContactStatusToReceive means the contact owes the owner
	ContactStatusToReceive ContactStatus = "to_receive"

	// ContactStatusToPay means the owner owes the contact
	ContactStatusToPay ContactStatus = "to_pay"

	ContactStatusSettled ContactStatus = "settled"
)

// StatusOf classifies a contact balance
func StatusOf(balance decimal.Decimal) ContactStatus {
	switch balance.Sign() {
	case 1:
		return ContactStatusToReceive
	case -1:
		return ContactStatusToPay
	default:
		return ContactStatusSettled
	}
}

// ContactSummary is a contact with its derived balance
type ContactSummary struct {
	Contact *domain.Contact `json:"contact"`
	Balance decimal.Decimal `json:"balance"`
	Status  ContactStatus   `json:"status"`
}

// ContactSummaries is the ledger overview across all contacts
type ContactSummaries struct {
	Contacts       []ContactSummary `json:"contacts"`
	TotalToReceive decimal.Decimal  `json:"totalToReceive"`
	TotalToPay     decimal.Decimal  `json:"totalToPay"`
}

// contactTransactions returns the transactions linked to contactID
func contactTransactions(contactID int32, transactions []*domain.Transaction) []*domain.Transaction {
	var out []*domain.Transaction
	for _, t := range transactions {
		if t != nil && t.ContactID != nil && *t.ContactID == contactID {
			out = append(out, t)
		}
	}
	return out
}

// ledgerDelta is the effect of t on what the contact owes the owner: an
// expense paid on the contact's behalf increases it, money received from the
// contact decreases it.
func ledgerDelta(t *domain.Transaction) decimal.Decimal {
	if t.Type == domain.TransactionTypeExpense {
		return t.Amount
	}
	return t.Amount.Neg()
}

// ContactBalance is debt minus credit over the contact's transactions.
// Positive: the contact owes the owner. Negative: the owner owes the contact.
func ContactBalance(contactID int32, transactions []*domain.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range contactTransactions(contactID, transactions) {
		balance = balance.Add(ledgerDelta(t))
	}
	return balance
}

// VisibleHistory returns the contact's transactions since the running balance
// last returned to zero, newest first. Without any settlement the whole
// history is visible.
func VisibleHistory(contactID int32, transactions []*domain.Transaction) []*domain.Transaction {
	sorted := contactTransactions(contactID, transactions)
	if len(sorted) == 0 {
		return []*domain.Transaction{}
	}
	slices.SortStableFunc(sorted, compareChronological)

	running := decimal.Zero
	lastSettled := -1
	for i, t := range sorted {
		running = running.Add(ledgerDelta(t))
		if running.Abs().LessThan(SettlementEpsilon) {
			lastSettled = i
		}
	}

	visible := slices.Clone(sorted[lastSettled+1:])
	slices.Reverse(visible)
	return visible
}

// compareChronological orders by transaction date, then creation time, then id
func compareChronological(a, b *domain.Transaction) int {
	if c := a.TransactionDate.Compare(b.TransactionDate); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// NewestFirst returns a copy of transactions ordered newest first
func NewestFirst(transactions []*domain.Transaction) []*domain.Transaction {
	out := slices.DeleteFunc(slices.Clone(transactions), func(t *domain.Transaction) bool { return t == nil })
	slices.SortStableFunc(out, func(a, b *domain.Transaction) int {
		return compareChronological(b, a)
	})
	return out
}

// SummarizeContacts computes every contact's balance, ordered by name
func SummarizeContacts(contacts []*domain.Contact, transactions []*domain.Transaction) ContactSummaries {
	byContact := make(map[int32]decimal.Decimal)
	for _, t := range transactions {
		if t != nil && t.ContactID != nil {
			byContact[*t.ContactID] = byContact[*t.ContactID].Add(ledgerDelta(t))
		}
	}

	out := ContactSummaries{
		Contacts:       make([]ContactSummary, 0, len(contacts)),
		TotalToReceive: decimal.Zero,
		TotalToPay:     decimal.Zero,
	}
	for _, c := range contacts {
		if c == nil {
			continue
		}
		balance := byContact[c.ID].Add(decimal.Zero)
		out.Contacts = append(out.Contacts, ContactSummary{
			Contact: c,
			Balance: balance,
			Status:  StatusOf(balance),
		})
		switch balance.Sign() {
		case 1:
			out.TotalToReceive = out.TotalToReceive.Add(balance)
		case -1:
			out.TotalToPay = out.TotalToPay.Add(balance.Abs())
		}
	}
	slices.SortStableFunc(out.Contacts, func(a, b ContactSummary) int {
		if c := strings.Compare(strings.ToLower(a.Contact.Name), strings.ToLower(b.Contact.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.Contact.ID, b.Contact.ID)
	})
	return out
}

// LedgerStatement renders the shareable plain-text statement of a contact's
// visible history.
func LedgerStatement(contact *domain.Contact, balance decimal.Decimal, visible []*domain.Transaction, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transaction History for %s\n", contact.Name)
	if contact.Phone != nil && *contact.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", *contact.Phone)
	}
	sign := ""
	if balance.IsPositive() {
		sign = "+"
	}
	fmt.Fprintf(&b, "Net Balance: %s%s%s\n", sign, currency, balance.Abs().String())
	b.WriteString("--------------------------------")

	for _, t := range visible {
		direction := "Given (-)"
		if t.Type == domain.TransactionTypeIncome {
			direction = "Received (+)"
		}
		desc := "No description"
		if t.Description != nil && *t.Description != "" {
			desc = *t.Description
		}
		fmt.Fprintf(&b, "\n%s | %s %s%s | %s", t.TransactionDate.Format("2 Jan 2006"), direction, currency, t.Amount.String(), desc)
	}
	return b.String()
}
