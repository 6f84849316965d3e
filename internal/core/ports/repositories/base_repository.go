package repositories

import "context"

// TenantTxRunner runs fn inside the tenant's critical section. Writes made
// through the LedgerTx passed to fn become visible to readers together when fn
// returns nil, and are discarded otherwise.
//
// Implementations return an error matching apperrors.ErrConcurrency when the
// critical section cannot be entered before ctx or the configured lock
// timeout expires.
type TenantTxRunner interface {
	WithTenantTx(ctx context.Context, tenantID string, fn func(ctx context.Context, tx LedgerTx) error) error
}
