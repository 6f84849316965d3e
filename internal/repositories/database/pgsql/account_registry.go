package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `tenant_id, account_id, code, name, account_type, normal_balance, parent_account_id,
	is_active, created_at, created_by, last_updated_at, last_updated_by`

// PgxAccountRegistry reads the chart of accounts from ledger_accounts. Rows are
// maintained by the account administration service.
type PgxAccountRegistry struct {
	BaseRepository
}

// newPgxAccountRegistry creates a registry backed by pool.
func newPgxAccountRegistry(pool *pgxpool.Pool) *PgxAccountRegistry {
	return &PgxAccountRegistry{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRegistry implements portsrepo.AccountRegistry
var _ portsrepo.AccountRegistry = (*PgxAccountRegistry)(nil)

// Helper to convert models.LedgerAccount from DB to domain.Account
func toDomainAccount(m models.LedgerAccount) domain.Account {
	acc := domain.Account{
		AccountID:     m.AccountID,
		TenantID:      m.TenantID,
		Code:          m.Code,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		NormalBalance: domain.NormalBalance(m.NormalBalance),
		IsActive:      m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt.UTC(),
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt.UTC(),
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.ParentAccountID.Valid {
		parent := m.ParentAccountID.String
		acc.ParentAccountID = &parent
	}
	return acc
}

func (r *PgxAccountRegistry) GetAccount(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE tenant_id = $1 AND account_id = $2`
	rows, err := r.Pool.Query(ctx, query, tenantID, accountID)
	if err != nil {
		return nil, mapPgError(err, "failed to query account "+accountID)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.LedgerAccount])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, mapPgError(err, "failed to scan account "+accountID)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRegistry) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE tenant_id = $1 ORDER BY code, account_id`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, mapPgError(err, "failed to list accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerAccount])
	if err != nil {
		return nil, mapPgError(err, "failed to scan accounts")
	}
	accounts := make([]domain.Account, 0, len(ms))
	for _, m := range ms {
		accounts = append(accounts, toDomainAccount(m))
	}
	return accounts, nil
}

func (r *PgxAccountRegistry) IsActive(account domain.Account) bool {
	return account.IsActive
}
