package services

import (
	"context"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// AccountSvc exposes the read-only chart of accounts.
type AccountSvc interface {
	GetAccount(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
}
