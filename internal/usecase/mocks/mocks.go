package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

// rowLocks emulates SELECT ... FOR UPDATE: a row key is held by one
// MockTransaction until it commits or rolls back.
type rowLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRowLocks() *rowLocks {
	return &rowLocks{locks: make(map[string]*sync.Mutex)}
}

func (r *rowLocks) acquire(tx usecase.Transaction, key string) {
	mtx, ok := tx.(*MockTransaction)
	if !ok {
		return
	}
	r.mu.Lock()
	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	r.mu.Unlock()
	mtx.hold(key, l)
}

// MockEscrowRepository is an in-memory EscrowRepository.
type MockEscrowRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.EscrowAccount
	locks    *rowLocks

	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, account *domain.EscrowAccount) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.EscrowAccount, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.EscrowAccount, error)
	UpdateTotalsFunc     func(ctx context.Context, tx usecase.Transaction, id string, collected, released decimal.Decimal, updatedAt time.Time) error
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.EscrowStatus, reason string, updatedAt time.Time) error
}

func NewMockEscrowRepository() *MockEscrowRepository {
	return &MockEscrowRepository{
		accounts: make(map[string]*domain.EscrowAccount),
		locks:    newRowLocks(),
	}
}

// Seed stores account as-is.
func (m *MockEscrowRepository) Seed(account *domain.EscrowAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.ID] = &cp
}

func (m *MockEscrowRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.EscrowAccount) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.ChitGroupID == account.ChitGroupID {
			return nil
		}
	}
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func (m *MockEscrowRepository) GetByID(ctx context.Context, id string) (*domain.EscrowAccount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockEscrowRepository) GetByGroupID(ctx context.Context, groupID string) (*domain.EscrowAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.ChitGroupID == groupID {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockEscrowRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.EscrowAccount, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	m.locks.acquire(tx, "escrow:"+id)
	return m.GetByID(ctx, id)
}

func (m *MockEscrowRepository) GetByGroupIDForUpdate(ctx context.Context, tx usecase.Transaction, groupID string) (*domain.EscrowAccount, error) {
	m.locks.acquire(tx, "group:"+groupID)
	return m.GetByGroupID(ctx, groupID)
}

func (m *MockEscrowRepository) UpdateTotals(ctx context.Context, tx usecase.Transaction, id string, collected, released decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateTotalsFunc != nil {
		return m.UpdateTotalsFunc(ctx, tx, id, collected, released, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.TotalCollected = collected
	acc.TotalReleased = released
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockEscrowRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EscrowStatus, reason string, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, reason, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Status = status
	acc.FreezeReason = reason
	acc.FrozenAt = nil
	if status == domain.EscrowStatusFrozen {
		at := updatedAt
		acc.FrozenAt = &at
	}
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockEscrowRepository) List(ctx context.Context, limit, offset int) ([]*domain.EscrowAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.EscrowAccount, 0, len(m.accounts))
	for _, acc := range m.accounts {
		cp := *acc
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return page(accounts, limit, offset), nil
}

// MockGroupRepository is an in-memory GroupRepository.
type MockGroupRepository struct {
	mu     sync.RWMutex
	groups map[string]*domain.ChitGroup
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{groups: make(map[string]*domain.ChitGroup)}
}

func (m *MockGroupRepository) UpsertTx(ctx context.Context, tx usecase.Transaction, group *domain.ChitGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *group
	if existing, ok := m.groups[group.ID]; ok {
		cp.CreatedAt = existing.CreatedAt
	}
	m.groups[group.ID] = &cp
	return nil
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id string) (*domain.ChitGroup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, domain.ErrGroupNotFound
}

// MockContributionRepository is an in-memory ContributionRepository.
type MockContributionRepository struct {
	mu            sync.RWMutex
	contributions map[string]*domain.Contribution
	locks         *rowLocks

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, c *domain.Contribution) error
	MarkSettledFunc   func(ctx context.Context, tx usecase.Transaction, c *domain.Contribution) error
	SetAnchorHashFunc func(ctx context.Context, id, hash string, anchoredAt time.Time) error
}

func NewMockContributionRepository() *MockContributionRepository {
	return &MockContributionRepository{
		contributions: make(map[string]*domain.Contribution),
		locks:         newRowLocks(),
	}
}

// Seed stores c as-is.
func (m *MockContributionRepository) Seed(c *domain.Contribution) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.contributions[c.ID] = &cp
}

func (m *MockContributionRepository) Create(ctx context.Context, tx usecase.Transaction, c *domain.Contribution) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.contributions {
		if existing.GatewayOrderID == c.GatewayOrderID {
			return fmt.Errorf("duplicate gateway order %s", c.GatewayOrderID)
		}
	}
	cp := *c
	m.contributions[c.ID] = &cp
	return nil
}

func (m *MockContributionRepository) GetByID(ctx context.Context, id string) (*domain.Contribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.contributions[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrContributionNotFound
}

func (m *MockContributionRepository) GetByGatewayOrderID(ctx context.Context, orderID string) (*domain.Contribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.contributions {
		if c.GatewayOrderID == orderID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrContributionNotFound
}

func (m *MockContributionRepository) GetByGatewayOrderIDForUpdate(ctx context.Context, tx usecase.Transaction, orderID string) (*domain.Contribution, error) {
	m.locks.acquire(tx, "contribution:"+orderID)
	return m.GetByGatewayOrderID(ctx, orderID)
}

func (m *MockContributionRepository) MarkSettled(ctx context.Context, tx usecase.Transaction, c *domain.Contribution) error {
	if m.MarkSettledFunc != nil {
		return m.MarkSettledFunc(ctx, tx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.contributions[c.ID]
	if !ok {
		return domain.ErrContributionNotFound
	}
	stored.Status = c.Status
	stored.GatewayPaymentRef = c.GatewayPaymentRef
	stored.FailureReason = c.FailureReason
	stored.SettledAt = c.SettledAt
	stored.UpdatedAt = c.UpdatedAt
	return nil
}

func (m *MockContributionRepository) SetAnchorHash(ctx context.Context, id, hash string, anchoredAt time.Time) error {
	if m.SetAnchorHashFunc != nil {
		return m.SetAnchorHashFunc(ctx, id, hash, anchoredAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contributions[id]
	if !ok {
		return domain.ErrContributionNotFound
	}
	c.AnchorHash = &hash
	c.AnchoredAt = &anchoredAt
	return nil
}

func (m *MockContributionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Contribution, error) {
	return m.filter(func(c *domain.Contribution) bool { return c.EscrowAccountID == accountID }, limit, offset), nil
}

func (m *MockContributionRepository) ListStaleInitiated(ctx context.Context, before time.Time, limit int) ([]*domain.Contribution, error) {
	return m.filter(func(c *domain.Contribution) bool {
		return c.Status == domain.ContributionStatusInitiated && c.CreatedAt.Before(before)
	}, limit, 0), nil
}

func (m *MockContributionRepository) ListUnanchored(ctx context.Context, limit int) ([]*domain.Contribution, error) {
	return m.filter(func(c *domain.Contribution) bool {
		return c.Status == domain.ContributionStatusConfirmed && !c.IsAnchored()
	}, limit, 0), nil
}

func (m *MockContributionRepository) SumConfirmed(ctx context.Context, accountID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, c := range m.contributions {
		if c.EscrowAccountID == accountID && c.Status == domain.ContributionStatusConfirmed {
			sum = sum.Add(c.Amount)
		}
	}
	return sum, nil
}

func (m *MockContributionRepository) filter(keep func(*domain.Contribution) bool, limit, offset int) []*domain.Contribution {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Contribution
	for _, c := range m.contributions {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset)
}

// MockPayoutRepository is an in-memory PayoutRepository.
type MockPayoutRepository struct {
	mu      sync.RWMutex
	payouts map[string]*domain.Payout

	CreateFunc func(ctx context.Context, tx usecase.Transaction, p *domain.Payout) error
}

func NewMockPayoutRepository() *MockPayoutRepository {
	return &MockPayoutRepository{payouts: make(map[string]*domain.Payout)}
}

// Seed stores p as-is.
func (m *MockPayoutRepository) Seed(p *domain.Payout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.payouts[p.ID] = &cp
}

// Count returns how many payouts are stored.
func (m *MockPayoutRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payouts)
}

func (m *MockPayoutRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.Payout) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.payouts {
		if existing.EscrowAccountID == p.EscrowAccountID && existing.CycleMonth == p.CycleMonth {
			return domain.ErrPayoutAlreadyReleased
		}
	}
	cp := *p
	m.payouts[p.ID] = &cp
	return nil
}

func (m *MockPayoutRepository) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payouts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPayoutNotFound
}

func (m *MockPayoutRepository) GetByCycle(ctx context.Context, accountID string, cycleMonth int) (*domain.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payouts {
		if p.EscrowAccountID == accountID && p.CycleMonth == cycleMonth {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPayoutNotFound
}

func (m *MockPayoutRepository) SetAnchorHash(ctx context.Context, id, hash string, anchoredAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payouts[id]
	if !ok {
		return domain.ErrPayoutNotFound
	}
	p.AnchorHash = &hash
	p.AnchoredAt = &anchoredAt
	return nil
}

func (m *MockPayoutRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Payout, error) {
	return m.filter(func(p *domain.Payout) bool { return p.EscrowAccountID == accountID }, limit, offset), nil
}

func (m *MockPayoutRepository) ListUnanchored(ctx context.Context, limit int) ([]*domain.Payout, error) {
	return m.filter(func(p *domain.Payout) bool { return !p.IsAnchored() }, limit, 0), nil
}

func (m *MockPayoutRepository) SumGross(ctx context.Context, accountID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, p := range m.payouts {
		if p.EscrowAccountID == accountID {
			sum = sum.Add(p.GrossPoolAmount)
		}
	}
	return sum, nil
}

func (m *MockPayoutRepository) filter(keep func(*domain.Payout) bool, limit, offset int) []*domain.Payout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Payout
	for _, p := range m.payouts {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CycleMonth < out[j].CycleMonth })
	return page(out, limit, offset)
}

// MockOutboxRepository is an in-memory OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
	}
	return page(out, limit, 0), nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// EventTypes lists the types of stored events in insertion order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// MockAuditRepository is an in-memory AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		out = append(out, l)
	}
	return page(out, filter.Limit, filter.Offset), nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction holds the row locks taken through it until Commit or
// Rollback. Writes are applied immediately and are not undone on Rollback.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	mu       sync.Mutex
	held     map[string]*sync.Mutex
	finished bool
}

func (m *MockTransaction) hold(key string, l *sync.Mutex) {
	m.mu.Lock()
	if _, ok := m.held[key]; ok {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	l.Lock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held == nil {
		m.held = make(map[string]*sync.Mutex)
	}
	m.held[key] = l
}

func (m *MockTransaction) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.finished {
		return
	}
	m.finished = true
	for _, l := range m.held {
		l.Unlock()
	}
	m.held = nil
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	defer m.release()
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	defer m.release()
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is an in-memory Cache that ignores TTLs.
type MockCache struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// NewStore wires a usecase.Store over fresh in-memory repositories.
func NewStore() (usecase.Store, *Repos) {
	r := &Repos{
		Escrows:       NewMockEscrowRepository(),
		Groups:        NewMockGroupRepository(),
		Contributions: NewMockContributionRepository(),
		Payouts:       NewMockPayoutRepository(),
		Outbox:        NewMockOutboxRepository(),
		Audit:         NewMockAuditRepository(),
		Cache:         NewMockCache(),
	}
	return usecase.Store{
		TxManager:     NewMockTransactionManager(),
		Escrows:       r.Escrows,
		Groups:        r.Groups,
		Contributions: r.Contributions,
		Payouts:       r.Payouts,
		Outbox:        r.Outbox,
		Audit:         r.Audit,
		IDGen:         NewMockIDGenerator(),
		Cache:         r.Cache,
	}, r
}

// Repos exposes the concrete fakes behind a Store built by NewStore.
type Repos struct {
	Escrows       *MockEscrowRepository
	Groups        *MockGroupRepository
	Contributions *MockContributionRepository
	Payouts       *MockPayoutRepository
	Outbox        *MockOutboxRepository
	Audit         *MockAuditRepository
	Cache         *MockCache
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
