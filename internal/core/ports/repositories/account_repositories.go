package repositories

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// AccountReader is the read side of the chart of accounts. Administration of
// the chart happens outside the ledger, so there is no writer here.
type AccountReader interface {
	// GetAccount returns apperrors.ErrNotFound when the account does not exist
	// for the tenant.
	GetAccount(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// ListAccounts returns every account of the tenant ordered by code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}

// AccountRegistry is the chart-of-accounts lookup consumed by the validator
// and the reporter.
type AccountRegistry interface {
	AccountReader

	// IsActive reports whether the account may receive new postings.
	IsActive(account domain.Account) bool
}
