package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// accountService is a thin read-only view over the chart of accounts.
type accountService struct {
	BaseService
	registry portsrepo.AccountRegistry
}

// NewAccountService creates an account service over the registry.
func NewAccountService(registry portsrepo.AccountRegistry) portssvc.AccountSvc {
	return &accountService{registry: registry}
}

var _ portssvc.AccountSvc = (*accountService)(nil)

func (s *accountService) GetAccount(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	account, err := s.registry.GetAccount(ctx, tenantID, accountID)
	if err != nil {
		// Note: Don't log if error is ErrNotFound, as it's an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("tenant_id", tenantID), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	accounts, err := s.registry.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return accounts, nil
}
