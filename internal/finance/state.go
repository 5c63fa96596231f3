package finance

import (
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ContactLedger is a contact's balance and settlement-aware history
type ContactLedger struct {
	Contact *domain.Contact       `json:"contact"`
	Balance decimal.Decimal       `json:"balance"`
	Status  ContactStatus         `json:"status"`
	History []*domain.Transaction `json:"history"`
}

// State answers every derived query against one immutable snapshot
type State struct {
	snapshot *domain.Snapshot
	opts     []Option
}

// NewState wraps snapshot; a nil snapshot behaves as an empty one
func NewState(snapshot *domain.Snapshot, opts ...Option) *State {
	if snapshot == nil {
		snapshot = &domain.Snapshot{}
	}
	return &State{snapshot: snapshot, opts: opts}
}

// Snapshot returns the underlying snapshot
func (s *State) Snapshot() *domain.Snapshot {
	return s.snapshot
}

// Version returns the snapshot version
func (s *State) Version() uint64 {
	return s.snapshot.Version
}

// Financials computes the FinancialSnapshot of month
func (s *State) Financials(month domain.MonthYear) FinancialSnapshot {
	return ComputeFinancials(month, s.snapshot.Transactions, s.snapshot.Categories,
		s.snapshot.GlobalBudgets, s.snapshot.CategoryBudgets, s.opts...)
}

// BudgetTransactions lists the budgetable expenses of month
func (s *State) BudgetTransactions(month domain.MonthYear) []*domain.Transaction {
	return BudgetTransactions(month, s.snapshot.Transactions)
}

// History projects the months ending at end
func (s *State) History(end domain.MonthYear, months int) History {
	return MonthlyHistory(end, months, s.snapshot.Transactions, s.snapshot.Categories)
}

// Contacts summarizes every contact's balance
func (s *State) Contacts() ContactSummaries {
	return SummarizeContacts(s.snapshot.Contacts, s.snapshot.Transactions)
}

// ContactLedger returns the ledger of a contact, or false if it is unknown
func (s *State) ContactLedger(contactID int32) (*ContactLedger, bool) {
	contact, ok := s.snapshot.Contact(contactID)
	if !ok {
		return nil, false
	}
	balance := ContactBalance(contactID, s.snapshot.Transactions)
	return &ContactLedger{
		Contact: contact,
		Balance: balance,
		Status:  StatusOf(balance),
		History: VisibleHistory(contactID, s.snapshot.Transactions),
	}, true
}

// Settle drafts the settlement of a contact as of today
func (s *State) Settle(contactID int32, today time.Time) (*domain.TransactionDraft, bool) {
	return Settle(contactID, s.snapshot.Transactions, today)
}
