package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/repositories/database/memory"
)

const (
	testTenant = "tenant-1"
	testUser   = "user-1"
	otherUser  = "user-2"
)

var fixedNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

// fakeCache keeps JSON-encoded reports in a map and counts traffic.
type fakeCache struct {
	mu            sync.Mutex
	generations   map[string]int64
	values        map[string][]byte
	invalidations int
	hits          int
	invalidateErr error
	generationErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{generations: map[string]int64{}, values: map[string][]byte{}}
}

var _ portsrepo.ReportCache = (*fakeCache)(nil)

func (c *fakeCache) Generation(_ context.Context, tenantID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generationErr != nil {
		return 0, c.generationErr
	}
	return c.generations[tenantID], nil
}

func (c *fakeCache) Invalidate(_ context.Context, tenantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	if c.invalidateErr != nil {
		return c.invalidateErr
	}
	c.generations[tenantID]++
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = raw
	return nil
}

func (c *fakeCache) invalidationCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

func (c *fakeCache) hitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

type fixture struct {
	registry *memory.AccountRegistry
	store    *memory.LedgerStore
	cache    *fakeCache
	journal  portssvc.JournalSvcFacade
	reports  portssvc.ReportingService
}

// newFixture wires the services over a small chart:
//
//	1000 cash (asset), 1010 bank (asset), 1900 old (asset, inactive),
//	4000 sales (revenue), 5000 rent (expense)
func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := memory.NewAccountRegistry()
	for _, acc := range []domain.Account{
		{AccountID: "cash", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true},
		{AccountID: "bank", Code: "1010", Name: "Bank", AccountType: domain.Asset, IsActive: true},
		{AccountID: "old", Code: "1900", Name: "Old Till", AccountType: domain.Asset, IsActive: false},
		{AccountID: "sales", Code: "4000", Name: "Sales", AccountType: domain.Revenue, IsActive: true},
		{AccountID: "rent", Code: "5000", Name: "Rent", AccountType: domain.Expense, IsActive: true},
	} {
		acc.TenantID = testTenant
		registry.SaveAccount(acc)
	}

	store := memory.NewLedgerStore(memory.WithLockTimeout(2 * time.Second))
	cache := newFakeCache()
	validator := services.NewEntryValidator(registry)

	var idMu sync.Mutex
	next := 0
	newID := func() string {
		idMu.Lock()
		defer idMu.Unlock()
		next++
		return fmt.Sprintf("id-%04d", next)
	}

	return &fixture{
		registry: registry,
		store:    store,
		cache:    cache,
		journal: services.NewJournalService(store, registry, validator,
			services.WithClock(func() time.Time { return fixedNow }),
			services.WithIDGenerator(newID),
			services.WithJournalReportCache(cache)),
		reports: services.NewReportingService(registry, store, services.WithReportCache(cache)),
	}
}

func debit(accountID, amount string) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, LineType: domain.Debit, Amount: domain.MustMoney(amount)}
}

func credit(accountID, amount string) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, LineType: domain.Credit, Amount: domain.MustMoney(amount)}
}

func entryRequest(date string, lines ...dto.JournalLineRequest) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{EntryDate: date, Description: "test entry", Lines: lines}
}

func day(s string) time.Time {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// post is a shorthand for a successful direct posting.
func (f *fixture) post(t *testing.T, date string, lines ...dto.JournalLineRequest) *domain.JournalEntry {
	t.Helper()
	entry, err := f.journal.PostEntry(context.Background(), testTenant, entryRequest(date, lines...), "", testUser)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	return entry
}

func (f *fixture) balance(t *testing.T, accountID string, asOf *time.Time) *domain.AccountBalance {
	t.Helper()
	b, err := f.reports.AccountBalance(context.Background(), testTenant, accountID, asOf)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	return b
}
