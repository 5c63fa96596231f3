package service

import (
	"context"
	"strconv"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/finance"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/moby/locker"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SettlementResult is the outcome of settling a contact. NoOp is set when the
// contact was already settled and nothing was written.
type SettlementResult struct {
	ContactID   int32               `json:"contactId"`
	NoOp        bool                `json:"noOp"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
	Balance     decimal.Decimal     `json:"balance"`
}

// SettlementService zeroes contact balances
type SettlementService struct {
	transactionRepo domain.TransactionRepository
	snapshots       *SnapshotService
	eventPublisher  websocket.EventPublisher
	now             func() time.Time

	// per-contact locks, released entries are dropped once no caller waits on them
	locks *locker.Locker
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(transactionRepo domain.TransactionRepository, snapshots *SnapshotService) *SettlementService {
	return &SettlementService{
		transactionRepo: transactionRepo,
		snapshots:       snapshots,
		now:             time.Now,
		locks:           locker.New(),
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettlementService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock replaces the clock whose date settlements are recorded on
func (s *SettlementService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SettlementService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

func contactLockName(contactID int32) string {
	return "contact:" + strconv.FormatInt(int64(contactID), 10)
}

// Settle records the transaction that brings the contact's balance to zero.
// Settlements of the same contact run one at a time and each recomputes the
// balance from the store, so a repeated request is a no-op.
func (s *SettlementService) Settle(ctx context.Context, contactID int32) (*SettlementResult, error) {
	if _, ok := s.snapshots.Current().Contact(contactID); !ok {
		return nil, domain.ErrContactNotFound
	}

	name := contactLockName(contactID)
	s.locks.Lock(name)
	defer s.locks.Unlock(name)

	txs, err := s.transactionRepo.ListByContact(ctx, contactID)
	if err != nil {
		log.Error().Err(err).Int32("contact_id", contactID).Msg("Failed to load contact transactions")
		return nil, domain.WrapStoreError("list contact transactions", err)
	}

	draft, ok := finance.Settle(contactID, txs, s.now())
	if !ok {
		log.Debug().Int32("contact_id", contactID).Msg("Contact already settled")
		return &SettlementResult{ContactID: contactID, NoOp: true, Balance: decimal.Zero}, nil
	}

	tx, err := s.transactionRepo.Create(ctx, draft)
	if err != nil {
		log.Error().Err(err).Int32("contact_id", contactID).Msg("Failed to create settlement transaction")
		return nil, domain.WrapStoreError("create settlement transaction", err)
	}
	if contact, ok := s.snapshots.Current().Contact(contactID); ok {
		project(tx, nil, contact)
	}

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithTransaction(tx)
	})

	log.Info().
		Int32("contact_id", contactID).
		Int32("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.String()).
		Msg("Contact settled")

	result := &SettlementResult{ContactID: contactID, Transaction: tx, Balance: decimal.Zero}
	s.publishEvent(websocket.ContactSettled(result).WithVersion(version))
	return result, nil
}
