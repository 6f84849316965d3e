package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
)

type tenantLedger struct {
	// lock is a single-slot semaphore guarding the tenant's critical section.
	// A channel is used instead of a mutex so waiters can give up on ctx.
	lock      chan struct{}
	entries   map[string]domain.JournalEntry
	committed []string // committed entry ids in sequence order
	idem      map[string]string
	lastSeq   int64
}

// LedgerStore keeps drafts and the posted ledger in memory. It is safe for
// concurrent use and honours the same isolation contract as the Postgres
// store: readers never observe a partially applied transaction.
type LedgerStore struct {
	mu          sync.RWMutex
	tenants     map[string]*tenantLedger
	lockTimeout time.Duration
}

// LedgerStoreOption is a functional option for configuring the store
type LedgerStoreOption func(*LedgerStore)

// WithLockTimeout bounds how long WithTenantTx waits for the tenant lock.
func WithLockTimeout(d time.Duration) LedgerStoreOption {
	return func(s *LedgerStore) {
		s.lockTimeout = d
	}
}

// NewLedgerStore creates an empty store.
func NewLedgerStore(options ...LedgerStoreOption) *LedgerStore {
	s := &LedgerStore{tenants: make(map[string]*tenantLedger)}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portsrepo.LedgerStore = (*LedgerStore)(nil)

func (s *LedgerStore) tenant(tenantID string) *tenantLedger {
	s.mu.RLock()
	t := s.tenants[tenantID]
	s.mu.RUnlock()
	if t != nil {
		return t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t = s.tenants[tenantID]; t == nil {
		t = &tenantLedger{
			lock:    make(chan struct{}, 1),
			entries: make(map[string]domain.JournalEntry),
			idem:    make(map[string]string),
		}
		s.tenants[tenantID] = t
	}
	return t
}

func (s *LedgerStore) acquire(ctx context.Context, t *tenantLedger) error {
	acquireCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}
	select {
	case t.lock <- struct{}{}:
		return nil
	case <-acquireCtx.Done():
		return apperrors.NewConcurrencyError("timed out waiting for tenant ledger lock", acquireCtx.Err())
	}
}

// WithTenantTx runs fn while holding the tenant lock and applies its writes
// atomically when fn succeeds.
func (s *LedgerStore) WithTenantTx(ctx context.Context, tenantID string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	t := s.tenant(tenantID)
	if err := s.acquire(ctx, t); err != nil {
		return err
	}
	defer func() { <-t.lock }()

	s.mu.RLock()
	lastSeq := t.lastSeq
	s.mu.RUnlock()

	tx := &ledgerTx{
		store:  s,
		t:      t,
		seq:    lastSeq,
		writes: make(map[string]*pendingWrite),
		idem:   make(map[string]string),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewConcurrencyError("request ended before commit", err)
	}
	s.commit(t, tx)
	return nil
}

func (s *LedgerStore) commit(t *tenantLedger, tx *ledgerTx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newlyCommitted []domain.JournalEntry
	for _, id := range tx.order {
		w := tx.writes[id]
		prev, existed := t.entries[id]
		if w.deleted {
			delete(t.entries, id)
			continue
		}
		t.entries[id] = w.entry
		if w.entry.IdempotencyKey != "" {
			t.idem[w.entry.IdempotencyKey] = id
		}
		if (!existed || !prev.IsCommitted()) && w.entry.IsCommitted() {
			newlyCommitted = append(newlyCommitted, w.entry)
		}
	}
	sort.Slice(newlyCommitted, func(i, j int) bool {
		return seqOf(newlyCommitted[i]) < seqOf(newlyCommitted[j])
	})
	for _, e := range newlyCommitted {
		t.committed = append(t.committed, e.EntryID)
	}
	t.lastSeq = tx.seq
}

func seqOf(e domain.JournalEntry) int64 {
	if e.SequenceNumber == nil {
		return 0
	}
	return *e.SequenceNumber
}

func (s *LedgerStore) GetEntry(_ context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tenants[tenantID]
	if t == nil {
		return nil, apperrors.ErrNotFound
	}
	e, ok := t.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := e.Clone()
	return &c, nil
}

func (s *LedgerStore) ListEntries(_ context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}
	limit := pagination.NormalizeLimit(filter.Limit)

	s.mu.RLock()
	var all []domain.JournalEntry
	if t := s.tenants[tenantID]; t != nil {
		all = make([]domain.JournalEntry, 0, len(t.entries))
		for _, e := range t.entries {
			if filter.Status != "" && e.Status != filter.Status {
				continue
			}
			if cursor != nil && !cursor.After(e.EntryDate, e.CreatedAt, e.EntryID) {
				continue
			}
			all = append(all, e.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.After(b.EntryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.EntryID > b.EntryID
	})

	if len(all) <= limit {
		return all, nil, nil
	}
	page := all[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
	return page, &token, nil
}

func (s *LedgerStore) ListCommittedEntries(_ context.Context, tenantID string, from, to *time.Time) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tenants[tenantID]
	if t == nil {
		return nil, nil
	}
	out := make([]domain.JournalEntry, 0, len(t.committed))
	for _, id := range t.committed {
		e := t.entries[id]
		if from != nil && e.EntryDate.Before(*from) {
			continue
		}
		if to != nil && e.EntryDate.After(*to) {
			continue
		}
		out = append(out, e.Clone())
	}
	return out, nil
}

type pendingWrite struct {
	entry   domain.JournalEntry
	deleted bool
}

// ledgerTx buffers writes until the surrounding WithTenantTx commits.
type ledgerTx struct {
	store  *LedgerStore
	t      *tenantLedger
	seq    int64
	writes map[string]*pendingWrite
	order  []string
	idem   map[string]string
}

func (tx *ledgerTx) current(entryID string) (domain.JournalEntry, bool) {
	if w, ok := tx.writes[entryID]; ok {
		if w.deleted {
			return domain.JournalEntry{}, false
		}
		return w.entry, true
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	e, ok := tx.t.entries[entryID]
	return e, ok
}

func (tx *ledgerTx) record(entryID string, w *pendingWrite) {
	if _, seen := tx.writes[entryID]; !seen {
		tx.order = append(tx.order, entryID)
	}
	tx.writes[entryID] = w
}

func (tx *ledgerTx) NextSequence(_ context.Context) (int64, error) {
	tx.seq++
	return tx.seq, nil
}

func (tx *ledgerTx) GetEntry(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	e, ok := tx.current(entryID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := e.Clone()
	return &c, nil
}

func (tx *ledgerTx) FindByIdempotencyKey(ctx context.Context, key string) (*domain.JournalEntry, error) {
	id, ok := tx.idem[key]
	if !ok {
		tx.store.mu.RLock()
		id, ok = tx.t.idem[key]
		tx.store.mu.RUnlock()
	}
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return tx.GetEntry(ctx, id)
}

func (tx *ledgerTx) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	if _, exists := tx.current(entry.EntryID); exists {
		return fmt.Errorf("entry %s: %w", entry.EntryID, apperrors.ErrDuplicate)
	}
	if entry.IdempotencyKey != "" {
		if _, err := tx.FindByIdempotencyKey(ctx, entry.IdempotencyKey); err == nil {
			return fmt.Errorf("idempotency key %q: %w", entry.IdempotencyKey, apperrors.ErrDuplicate)
		}
		tx.idem[entry.IdempotencyKey] = entry.EntryID
	}
	tx.record(entry.EntryID, &pendingWrite{entry: entry.Clone()})
	return nil
}

func (tx *ledgerTx) UpdateEntry(_ context.Context, entry domain.JournalEntry) error {
	prev, ok := tx.current(entry.EntryID)
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := domain.CheckTransition(prev, entry); err != nil {
		return err
	}
	if entry.IdempotencyKey != "" {
		tx.idem[entry.IdempotencyKey] = entry.EntryID
	}
	tx.record(entry.EntryID, &pendingWrite{entry: entry.Clone()})
	return nil
}

func (tx *ledgerTx) DeleteEntry(_ context.Context, entryID string) error {
	prev, ok := tx.current(entryID)
	if !ok {
		return apperrors.ErrNotFound
	}
	if prev.Status != domain.Draft {
		return domain.ErrNotDraft
	}
	tx.record(entryID, &pendingWrite{deleted: true})
	return nil
}
