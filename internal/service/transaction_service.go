package service

import (
	"context"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/finance"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	snapshots       *SnapshotService
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, snapshots *SnapshotService) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		snapshots:       snapshots,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// GetTransactions returns the transactions newest first, limited to month when it is set
func (s *TransactionService) GetTransactions(month domain.MonthYear) []*domain.Transaction {
	txs := s.snapshots.Current().Transactions
	if !month.IsZero() {
		txs = finance.TransactionsInMonth(month, txs)
	}
	return finance.NewestFirst(txs)
}

// CreateTransaction validates and stores a transaction
func (s *TransactionService) CreateTransaction(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	snapshot := s.snapshots.Current()
	var category *domain.Category
	if draft.CategoryID != nil {
		c, ok := snapshot.Category(*draft.CategoryID)
		if !ok {
			return nil, domain.NewValidationError("category_id", "unknown category")
		}
		if c.Type != draft.Type {
			return nil, domain.NewValidationError("category_id", "category type does not match transaction type")
		}
		category = c
	}
	var contact *domain.Contact
	if draft.ContactID != nil {
		c, ok := snapshot.Contact(*draft.ContactID)
		if !ok {
			return nil, domain.NewValidationError("contact_id", "unknown contact")
		}
		contact = c
	}

	tx, err := s.transactionRepo.Create(ctx, draft)
	if err != nil {
		log.Error().Err(err).Str("type", string(draft.Type)).Msg("Failed to create transaction")
		return nil, domain.WrapStoreError("create transaction", err)
	}
	project(tx, category, contact)

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithTransaction(tx)
	})

	log.Info().
		Int32("transaction_id", tx.ID).
		Str("type", string(tx.Type)).
		Str("amount", tx.Amount.String()).
		Bool("ledger", tx.IsLedger()).
		Msg("Transaction created")

	s.publishEvent(websocket.TransactionCreated(tx).WithVersion(version))
	return tx, nil
}

// DeleteTransaction removes a transaction
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int32) error {
	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		if !isNotFound(err) {
			log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to delete transaction")
		}
		return domain.WrapStoreError("delete transaction", err)
	}

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithoutTransaction(id)
	})

	log.Info().Int32("transaction_id", id).Msg("Transaction deleted")
	s.publishEvent(websocket.TransactionDeleted(map[string]interface{}{"id": id}).WithVersion(version))
	return nil
}

// project fills the display projections the store did not return
func project(tx *domain.Transaction, category *domain.Category, contact *domain.Contact) {
	if category != nil && tx.CategoryName == nil {
		name, icon, typ := category.Name, category.Icon, category.Type
		tx.CategoryName = &name
		tx.CategoryIcon = &icon
		tx.CategoryType = &typ
	}
	if contact != nil && tx.ContactName == nil {
		name := contact.Name
		tx.ContactName = &name
	}
}
