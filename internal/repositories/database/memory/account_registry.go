package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// AccountRegistry is an in-memory chart of accounts. SaveAccount and
// SetAccountActive stand in for the external administration that owns the
// chart in production.
type AccountRegistry struct {
	mu       sync.RWMutex
	accounts map[string]map[string]domain.Account // tenant -> account id -> account
}

// NewAccountRegistry creates an empty registry.
func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{accounts: make(map[string]map[string]domain.Account)}
}

var _ portsrepo.AccountRegistry = (*AccountRegistry)(nil)

// SaveAccount inserts or replaces an account. A missing normal balance is
// derived from the account type.
func (r *AccountRegistry) SaveAccount(account domain.Account) {
	if account.NormalBalance == "" {
		account.NormalBalance = domain.DefaultNormalBalance(account.AccountType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.accounts[account.TenantID]
	if !ok {
		byID = make(map[string]domain.Account)
		r.accounts[account.TenantID] = byID
	}
	byID[account.AccountID] = account
}

// SetAccountActive flips the active flag.
func (r *AccountRegistry) SetAccountActive(tenantID, accountID string, active bool, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[tenantID][accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	acc.IsActive = active
	acc.LastUpdatedAt = time.Now().UTC()
	acc.LastUpdatedBy = userID
	r.accounts[tenantID][accountID] = acc
	return nil
}

func (r *AccountRegistry) GetAccount(_ context.Context, tenantID string, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accounts[tenantID][accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (r *AccountRegistry) ListAccounts(_ context.Context, tenantID string) ([]domain.Account, error) {
	r.mu.RLock()
	out := make([]domain.Account, 0, len(r.accounts[tenantID]))
	for _, acc := range r.accounts[tenantID] {
		out = append(out, acc)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}

func (r *AccountRegistry) IsActive(account domain.Account) bool {
	return account.IsActive
}
