package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockCategoryRepository is an in-memory domain.CategoryRepository
type MockCategoryRepository struct {
	mu                  sync.Mutex
	Categories          map[int32]*domain.Category
	TransactionCounts   map[int32]int64
	NextID              int32
	ListFn              func(ctx context.Context) ([]*domain.Category, error)
	CreateFn            func(ctx context.Context, draft *domain.CategoryDraft) (*domain.Category, error)
	DeleteFn            func(ctx context.Context, id int32) error
	CountTransactionsFn func(ctx context.Context, id int32) (int64, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories:        make(map[int32]*domain.Category),
		TransactionCounts: make(map[int32]int64),
		NextID:            1,
	}
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.Categories, func(c *domain.Category) int32 { return c.ID }), nil
}

func (m *MockCategoryRepository) Create(ctx context.Context, draft *domain.CategoryDraft) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, draft)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &domain.Category{
		ID:        m.NextID,
		Name:      draft.Name,
		Type:      draft.Type,
		Icon:      draft.Icon,
		CreatedAt: time.Now(),
	}
	m.NextID++
	m.Categories[c.ID] = c
	return c, nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

func (m *MockCategoryRepository) CountTransactions(ctx context.Context, id int32) (int64, error) {
	if m.CountTransactionsFn != nil {
		return m.CountTransactionsFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.TransactionCounts[id], nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(c *domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Categories[c.ID] = c
	if c.ID >= m.NextID {
		m.NextID = c.ID + 1
	}
}

// MockContactRepository is an in-memory domain.ContactRepository
type MockContactRepository struct {
	mu                  sync.Mutex
	Contacts            map[int32]*domain.Contact
	TransactionCounts   map[int32]int64
	NextID              int32
	ListFn              func(ctx context.Context) ([]*domain.Contact, error)
	CreateFn            func(ctx context.Context, draft *domain.ContactDraft) (*domain.Contact, error)
	UpdateFn            func(ctx context.Context, id int32, patch *domain.ContactPatch) (*domain.Contact, error)
	DeleteFn            func(ctx context.Context, id int32) error
	CountTransactionsFn func(ctx context.Context, id int32) (int64, error)
}

// NewMockContactRepository creates a new MockContactRepository
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		Contacts:          make(map[int32]*domain.Contact),
		TransactionCounts: make(map[int32]int64),
		NextID:            1,
	}
}

func (m *MockContactRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.Contacts, func(c *domain.Contact) int32 { return c.ID }), nil
}

func (m *MockContactRepository) Create(ctx context.Context, draft *domain.ContactDraft) (*domain.Contact, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, draft)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	c := &domain.Contact{
		ID:        m.NextID,
		Name:      draft.Name,
		Phone:     draft.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.NextID++
	m.Contacts[c.ID] = c
	return c, nil
}

func (m *MockContactRepository) Update(ctx context.Context, id int32, patch *domain.ContactPatch) (*domain.Contact, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Contacts[id]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	updated := *existing
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Phone != nil {
		if *patch.Phone == "" {
			updated.Phone = nil
		} else {
			phone := *patch.Phone
			updated.Phone = &phone
		}
	}
	updated.UpdatedAt = time.Now()
	m.Contacts[id] = &updated
	return &updated, nil
}

func (m *MockContactRepository) Delete(ctx context.Context, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Contacts[id]; !ok {
		return domain.ErrContactNotFound
	}
	delete(m.Contacts, id)
	return nil
}

func (m *MockContactRepository) CountTransactions(ctx context.Context, id int32) (int64, error) {
	if m.CountTransactionsFn != nil {
		return m.CountTransactionsFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.TransactionCounts[id], nil
}

// AddContact adds a contact to the mock repository (helper for tests)
func (m *MockContactRepository) AddContact(c *domain.Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Contacts[c.ID] = c
	if c.ID >= m.NextID {
		m.NextID = c.ID + 1
	}
}

// MockTransactionRepository is an in-memory domain.TransactionRepository
type MockTransactionRepository struct {
	mu              sync.Mutex
	Transactions    map[int32]*domain.Transaction
	NextID          int32
	CreateCalls     int
	ListFn          func(ctx context.Context) ([]*domain.Transaction, error)
	ListByContactFn func(ctx context.Context, contactID int32) ([]*domain.Transaction, error)
	CreateFn        func(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error)
	DeleteFn        func(ctx context.Context, id int32) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.Transactions, func(t *domain.Transaction) int32 { return t.ID }), nil
}

func (m *MockTransactionRepository) ListByContact(ctx context.Context, contactID int32) ([]*domain.Transaction, error) {
	if m.ListByContactFn != nil {
		return m.ListByContactFn(ctx, contactID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := sortedValues(m.Transactions, func(t *domain.Transaction) int32 { return t.ID })
	return slices.DeleteFunc(all, func(t *domain.Transaction) bool {
		return t.ContactID == nil || *t.ContactID != contactID
	}), nil
}

func (m *MockTransactionRepository) Create(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, draft)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &domain.Transaction{
		ID:              m.NextID,
		Amount:          draft.Amount,
		Type:            draft.Type,
		CategoryID:      draft.CategoryID,
		ContactID:       draft.ContactID,
		Description:     draft.Description,
		TransactionDate: draft.TransactionDate,
		CreatedAt:       time.Now(),
	}
	m.NextID++
	m.Transactions[t.ID] = t
	return t, nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions[t.ID] = t
	if t.ID >= m.NextID {
		m.NextID = t.ID + 1
	}
}

// Calls returns how many times Create was invoked
func (m *MockTransactionRepository) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CreateCalls
}

// MockGlobalBudgetRepository is an in-memory domain.GlobalBudgetRepository
// keyed by month, mirroring the unique constraint of the real store.
type MockGlobalBudgetRepository struct {
	mu       sync.Mutex
	Budgets  map[domain.MonthYear]*domain.GlobalBudget
	NextID   int32
	ListFn   func(ctx context.Context) ([]*domain.GlobalBudget, error)
	UpsertFn func(ctx context.Context, month domain.MonthYear, limit decimal.Decimal) (*domain.GlobalBudget, error)
}

// NewMockGlobalBudgetRepository creates a new MockGlobalBudgetRepository
func NewMockGlobalBudgetRepository() *MockGlobalBudgetRepository {
	return &MockGlobalBudgetRepository{
		Budgets: make(map[domain.MonthYear]*domain.GlobalBudget),
		NextID:  1,
	}
}

func (m *MockGlobalBudgetRepository) List(ctx context.Context) ([]*domain.GlobalBudget, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.Budgets, func(b *domain.GlobalBudget) int32 { return b.ID }), nil
}

func (m *MockGlobalBudgetRepository) Upsert(ctx context.Context, month domain.MonthYear, limit decimal.Decimal) (*domain.GlobalBudget, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, month, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if existing, ok := m.Budgets[month]; ok {
		updated := *existing
		updated.AmountLimit = limit
		updated.UpdatedAt = now
		m.Budgets[month] = &updated
		return &updated, nil
	}
	b := &domain.GlobalBudget{ID: m.NextID, MonthYear: month, AmountLimit: limit, CreatedAt: now, UpdatedAt: now}
	m.NextID++
	m.Budgets[month] = b
	return b, nil
}

// MockCategoryBudgetRepository is an in-memory domain.CategoryBudgetRepository
// keyed by (category, month).
type MockCategoryBudgetRepository struct {
	mu       sync.Mutex
	Budgets  map[CategoryMonthKey]*domain.CategoryBudget
	NextID   int32
	ListFn   func(ctx context.Context) ([]*domain.CategoryBudget, error)
	UpsertFn func(ctx context.Context, categoryID int32, month domain.MonthYear, limit decimal.Decimal) (*domain.CategoryBudget, error)
}

// CategoryMonthKey is the unique key of a category budget
type CategoryMonthKey struct {
	CategoryID int32
	Month      domain.MonthYear
}

// NewMockCategoryBudgetRepository creates a new MockCategoryBudgetRepository
func NewMockCategoryBudgetRepository() *MockCategoryBudgetRepository {
	return &MockCategoryBudgetRepository{
		Budgets: make(map[CategoryMonthKey]*domain.CategoryBudget),
		NextID:  1,
	}
}

func (m *MockCategoryBudgetRepository) List(ctx context.Context) ([]*domain.CategoryBudget, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.Budgets, func(b *domain.CategoryBudget) int32 { return b.ID }), nil
}

func (m *MockCategoryBudgetRepository) Upsert(ctx context.Context, categoryID int32, month domain.MonthYear, limit decimal.Decimal) (*domain.CategoryBudget, error) {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, categoryID, month, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := CategoryMonthKey{CategoryID: categoryID, Month: month}
	now := time.Now()
	if existing, ok := m.Budgets[key]; ok {
		updated := *existing
		updated.AmountLimit = limit
		updated.UpdatedAt = now
		m.Budgets[key] = &updated
		return &updated, nil
	}
	b := &domain.CategoryBudget{ID: m.NextID, CategoryID: categoryID, MonthYear: month, AmountLimit: limit, CreatedAt: now, UpdatedAt: now}
	m.NextID++
	m.Budgets[key] = b
	return b, nil
}

// MockBackupRepository records backups in memory
type MockBackupRepository struct {
	mu      sync.Mutex
	Objects map[string][]byte
	PutFn   func(ctx context.Context, key string, body []byte) (string, error)
}

// NewMockBackupRepository creates a new MockBackupRepository
func NewMockBackupRepository() *MockBackupRepository {
	return &MockBackupRepository{Objects: make(map[string][]byte)}
}

func (m *MockBackupRepository) Put(ctx context.Context, key string, body []byte) (string, error) {
	if m.PutFn != nil {
		return m.PutFn(ctx, key, body)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = body
	return "https://backups.test/" + key, nil
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	Event websocket.Event
}

// MockEventPublisher captures published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{Event: event})
}

// Types returns the type of every captured event in publish order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}

func sortedValues[K comparable, V any](m map[K]V, id func(V) int32) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b V) int { return int(id(a) - id(b)) })
	return out
}
