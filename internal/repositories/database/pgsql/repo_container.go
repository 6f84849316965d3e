package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres adapters. The report cache is
// chosen separately by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRegistry: newPgxAccountRegistry(dbPool),
		LedgerStore:     newPgxLedgerStore(dbPool, lockTimeout),
	}
}
