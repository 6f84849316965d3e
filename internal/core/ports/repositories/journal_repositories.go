package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// LedgerReader exposes read-only access to drafts and the posted history.
type LedgerReader interface {
	// GetEntry returns a draft or committed entry, or apperrors.ErrNotFound.
	GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries pages through entries newest first. The returned token is nil
	// on the last page.
	ListEntries(ctx context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error)

	// ListCommittedEntries returns a consistent snapshot of posted and reversed
	// entries in sequence order. A nil bound is open.
	ListCommittedEntries(ctx context.Context, tenantID string, from, to *time.Time) ([]domain.JournalEntry, error)
}

// LedgerTx is the write handle available inside a tenant critical section.
type LedgerTx interface {
	// NextSequence allocates the next sequence number for the tenant. The
	// allocation is only consumed if the surrounding transaction commits.
	NextSequence(ctx context.Context) (int64, error)

	// GetEntry reads an entry including writes made earlier in this transaction.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindByIdempotencyKey returns apperrors.ErrNotFound when no entry carries key.
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.JournalEntry, error)

	// InsertEntry stores a new draft or posted entry. Duplicate ids or
	// idempotency keys return apperrors.ErrDuplicate.
	InsertEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntry replaces a stored entry. Drafts may change freely; a posted
	// entry may only move to REVERSED.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry discards a draft. Committed entries cannot be deleted.
	DeleteEntry(ctx context.Context, entryID string) error
}

// LedgerStore is the append-only ledger with its draft staging area.
type LedgerStore interface {
	LedgerReader
	TenantTxRunner
}
