package service

import (
	"context"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/finance"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// DefaultCurrencySymbol prefixes amounts in ledger statements
const DefaultCurrencySymbol = "₹"

// ContactService handles contacts and their ledgers
type ContactService struct {
	contactRepo    domain.ContactRepository
	snapshots      *SnapshotService
	currency       string
	eventPublisher websocket.EventPublisher
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo domain.ContactRepository, snapshots *SnapshotService, currency string) *ContactService {
	if currency == "" {
		currency = DefaultCurrencySymbol
	}
	return &ContactService{
		contactRepo: contactRepo,
		snapshots:   snapshots,
		currency:    currency,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ContactService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ContactService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// GetContacts returns every contact with its balance
func (s *ContactService) GetContacts() finance.ContactSummaries {
	return s.snapshots.State().Contacts()
}

// GetLedger returns a contact's balance and visible history
func (s *ContactService) GetLedger(id int32) (*finance.ContactLedger, error) {
	ledger, ok := s.snapshots.State().ContactLedger(id)
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	return ledger, nil
}

// GetStatement renders the shareable statement of a contact's visible history
func (s *ContactService) GetStatement(id int32) (string, error) {
	ledger, err := s.GetLedger(id)
	if err != nil {
		return "", err
	}
	return finance.LedgerStatement(ledger.Contact, ledger.Balance, ledger.History, s.currency), nil
}

// CreateContact creates a contact with a name not already in use
func (s *ContactService) CreateContact(ctx context.Context, draft *domain.ContactDraft) (*domain.Contact, error) {
	if err := draft.Normalize(); err != nil {
		return nil, err
	}
	if _, taken := s.snapshots.Current().ContactByName(draft.Name); taken {
		return nil, &domain.ConflictError{Resource: "contact", Value: draft.Name}
	}

	contact, err := s.contactRepo.Create(ctx, draft)
	if err != nil {
		log.Error().Err(err).Str("name", draft.Name).Msg("Failed to create contact")
		return nil, domain.WrapStoreError("create contact", err)
	}

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithContact(contact)
	})

	log.Info().Int32("contact_id", contact.ID).Msg("Contact created")
	s.publishEvent(websocket.ContactCreated(contact).WithVersion(version))
	return contact, nil
}

// UpdateContact renames a contact or changes its phone
func (s *ContactService) UpdateContact(ctx context.Context, id int32, patch *domain.ContactPatch) (*domain.Contact, error) {
	if err := patch.Normalize(); err != nil {
		return nil, err
	}

	snapshot := s.snapshots.Current()
	if _, ok := snapshot.Contact(id); !ok {
		return nil, domain.ErrContactNotFound
	}
	if patch.Name != nil {
		if other, taken := snapshot.ContactByName(*patch.Name); taken && other.ID != id {
			return nil, &domain.ConflictError{Resource: "contact", Value: *patch.Name}
		}
	}

	contact, err := s.contactRepo.Update(ctx, id, patch)
	if err != nil {
		if !isNotFound(err) {
			log.Error().Err(err).Int32("contact_id", id).Msg("Failed to update contact")
		}
		return nil, domain.WrapStoreError("update contact", err)
	}

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithContact(contact)
	})

	log.Info().Int32("contact_id", id).Msg("Contact updated")
	s.publishEvent(websocket.ContactUpdated(contact).WithVersion(version))
	return contact, nil
}

// DeleteContact removes a contact. A contact referenced by any transaction
// cannot be deleted.
func (s *ContactService) DeleteContact(ctx context.Context, id int32) error {
	if _, ok := s.snapshots.Current().Contact(id); !ok {
		return domain.ErrContactNotFound
	}

	count, err := s.contactRepo.CountTransactions(ctx, id)
	if err != nil {
		log.Error().Err(err).Int32("contact_id", id).Msg("Failed to count contact transactions")
		return domain.WrapStoreError("count contact transactions", err)
	}
	if count > 0 {
		return &domain.ReferentialError{Resource: "contact", ID: id, References: count}
	}

	if err := s.contactRepo.Delete(ctx, id); err != nil {
		if !isNotFound(err) {
			log.Error().Err(err).Int32("contact_id", id).Msg("Failed to delete contact")
		}
		return domain.WrapStoreError("delete contact", err)
	}

	version := s.snapshots.apply(func(snap *domain.Snapshot) *domain.Snapshot {
		return snap.WithoutContact(id)
	})

	log.Info().Int32("contact_id", id).Msg("Contact deleted")
	s.publishEvent(websocket.ContactDeleted(map[string]interface{}{"id": id}).WithVersion(version))
	return nil
}
