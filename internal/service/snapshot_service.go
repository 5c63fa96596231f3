package service

import (
	"context"
	"sync"

	"github.com/dafibh/tally/tally-backend/internal/cache"
	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/finance"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// maxLoadAttempts bounds how often Load re-reads the store when writes land
// while it is reading
const maxLoadAttempts = 3

// Repositories groups the record store collaborators
type Repositories struct {
	Categories      domain.CategoryRepository
	Contacts        domain.ContactRepository
	Transactions    domain.TransactionRepository
	GlobalBudgets   domain.GlobalBudgetRepository
	CategoryBudgets domain.CategoryBudgetRepository
}

// SnapshotService owns the current snapshot. Mutating services write to the
// store first and then apply the confirmed record here, so every derived view
// reflects only persisted data.
type SnapshotService struct {
	repos    Repositories
	opts     []finance.Option
	mu       sync.RWMutex
	snapshot *domain.Snapshot
	loads    singleflight.Group

	financials     cache.Cache[finance.FinancialSnapshot]
	history        cache.Cache[finance.History]
	eventPublisher websocket.EventPublisher
}

// NewSnapshotService creates a SnapshotService holding an empty snapshot until Load runs
func NewSnapshotService(repos Repositories, financials cache.Cache[finance.FinancialSnapshot],
	history cache.Cache[finance.History], opts ...finance.Option) *SnapshotService {
	return &SnapshotService{
		repos:      repos,
		opts:       opts,
		snapshot:   &domain.Snapshot{},
		financials: financials,
		history:    history,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SnapshotService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SnapshotService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// Current returns the current snapshot
func (s *SnapshotService) Current() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Version returns the version of the current snapshot
func (s *SnapshotService) Version() uint64 {
	return s.Current().Version
}

// State returns a finance.State over the current snapshot
func (s *SnapshotService) State() *finance.State {
	return finance.NewState(s.Current(), s.opts...)
}

// Load replaces the snapshot with a fresh read of the store. Concurrent calls
// share one read. When writes keep landing during the read, the current
// snapshot is kept and ErrSnapshotBusy is returned.
func (s *SnapshotService) Load(ctx context.Context) (*domain.Snapshot, error) {
	v, err, _ := s.loads.Do("snapshot", func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Snapshot), nil
}

func (s *SnapshotService) load(ctx context.Context) (*domain.Snapshot, error) {
	for attempt := 1; ; attempt++ {
		before := s.Current().Version

		fresh, rejected, err := s.read(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load snapshot")
			return nil, err
		}
		for _, r := range rejected {
			log.Warn().Str("kind", r.Kind).Int32("id", r.ID).Str("reason", r.Reason).Msg("Rejected record at snapshot boundary")
		}

		s.mu.Lock()
		if s.snapshot.Version != before {
			// a write was applied while reading; the read may predate it
			s.mu.Unlock()
			if attempt < maxLoadAttempts {
				continue
			}
			log.Warn().Int("attempts", attempt).Msg("Snapshot kept: writes landed during every load attempt")
			return nil, domain.ErrSnapshotBusy
		}
		fresh = fresh.WithVersion(s.snapshot.Version + 1)
		s.snapshot = fresh
		s.mu.Unlock()

		log.Info().
			Uint64("version", fresh.Version).
			Int("transactions", len(fresh.Transactions)).
			Int("contacts", len(fresh.Contacts)).
			Int("categories", len(fresh.Categories)).
			Int("rejected", len(rejected)).
			Msg("Snapshot loaded")

		s.publishEvent(websocket.SnapshotReloaded(map[string]interface{}{"version": fresh.Version}).WithVersion(fresh.Version))
		return fresh, nil
	}
}

// read fetches every record set in parallel
func (s *SnapshotService) read(ctx context.Context) (*domain.Snapshot, []domain.RejectedRecord, error) {
	var (
		categories      []*domain.Category
		contacts        []*domain.Contact
		transactions    []*domain.Transaction
		globalBudgets   []*domain.GlobalBudget
		categoryBudgets []*domain.CategoryBudget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		categories, err = s.repos.Categories.List(gctx)
		return domain.WrapStoreError("list categories", err)
	})
	g.Go(func() (err error) {
		contacts, err = s.repos.Contacts.List(gctx)
		return domain.WrapStoreError("list contacts", err)
	})
	g.Go(func() (err error) {
		transactions, err = s.repos.Transactions.List(gctx)
		return domain.WrapStoreError("list transactions", err)
	})
	g.Go(func() (err error) {
		globalBudgets, err = s.repos.GlobalBudgets.List(gctx)
		return domain.WrapStoreError("list global budgets", err)
	})
	g.Go(func() (err error) {
		categoryBudgets, err = s.repos.CategoryBudgets.List(gctx)
		return domain.WrapStoreError("list category budgets", err)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	snapshot, rejected := domain.NewSnapshot(categories, contacts, transactions, globalBudgets, categoryBudgets)
	return snapshot, rejected, nil
}

// apply installs the snapshot derived from the current one and returns its version
func (s *SnapshotService) apply(change func(*domain.Snapshot) *domain.Snapshot) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = change(s.snapshot)
	return s.snapshot.Version
}

// Financials returns the FinancialSnapshot of month for the current snapshot
func (s *SnapshotService) Financials(month domain.MonthYear) finance.FinancialSnapshot {
	state := s.State()
	key := cache.Key("financials", state.Version(), month)
	if s.financials != nil {
		if v, ok := s.financials.Get(key); ok {
			return v
		}
	}
	v := state.Financials(month)
	if s.financials != nil {
		s.financials.Set(key, v)
	}
	return v
}

// History returns the multi-month projection ending at end
func (s *SnapshotService) History(end domain.MonthYear, months int) finance.History {
	state := s.State()
	key := cache.Key("history", state.Version(), end, months)
	if s.history != nil {
		if v, ok := s.history.Get(key); ok {
			return v
		}
	}
	v := state.History(end, months)
	if s.history != nil {
		s.history.Set(key, v)
	}
	return v
}
