package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// ReportingService derives balances from committed ledger history.
type ReportingService interface {
	// AccountBalance sums all committed lines for the account, or only those
	// dated on or before asOf (end of day inclusive) when asOf is set.
	AccountBalance(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (*domain.AccountBalance, error)

	// TrialBalance lists every active account, plus inactive accounts with
	// activity, for entries dated within [start, end] inclusive.
	TrialBalance(ctx context.Context, tenantID string, start, end time.Time) (*domain.TrialBalance, error)
}
