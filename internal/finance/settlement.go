package finance

import (
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
)

// SettlementDescription is the description of every settlement transaction
const SettlementDescription = "Account Settled"

// Settle returns the single transaction that brings the contact's balance to
// zero, or false when the contact is already settled. Once persisted, the
// draft also becomes the new settlement boundary of VisibleHistory.
//
// Settle is not idempotent under concurrency: callers must serialize
// settlement per contact and recompute from a snapshot that includes every
// confirmed settlement.
func Settle(contactID int32, transactions []*domain.Transaction, today time.Time) (*domain.TransactionDraft, bool) {
	balance := ContactBalance(contactID, transactions)
	if balance.IsZero() {
		return nil, false
	}

	txType := domain.TransactionTypeExpense
	if balance.IsPositive() {
		txType = domain.TransactionTypeIncome
	}

	id := contactID
	description := SettlementDescription
	return &domain.TransactionDraft{
		Amount:          balance.Abs(),
		Type:            txType,
		ContactID:       &id,
		Description:     &description,
		TransactionDate: time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
	}, true
}
