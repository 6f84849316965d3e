package services

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// EntryValidatorSvc checks the double-entry invariants of a proposed entry.
type EntryValidatorSvc interface {
	// Validate returns nil or a *domain.ValidationError. Any other error is an
	// infrastructure failure from the account lookup.
	Validate(ctx context.Context, entry domain.JournalEntry) error
}

// PostingSvc commits entries to the ledger.
type PostingSvc interface {
	// PostEntry validates and posts a new entry in one call. A non-empty
	// idempotencyKey makes repeated calls return the entry from the first one.
	PostEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, idempotencyKey string, userID string) (*domain.JournalEntry, error)

	// PostDraft re-validates a staged draft and posts it.
	PostDraft(ctx context.Context, tenantID string, entryID string, userID string) (*domain.JournalEntry, error)
}

// DraftSvc manages the mutable staging area.
type DraftSvc interface {
	CreateDraft(ctx context.Context, tenantID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error)
	UpdateDraft(ctx context.Context, tenantID string, entryID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error)
	DeleteDraft(ctx context.Context, tenantID string, entryID string, userID string) error
}

// EntryReaderSvc reads drafts and committed entries.
type EntryReaderSvc interface {
	GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// ReversalSvc cancels a posted entry with its mirror image.
type ReversalSvc interface {
	// Reverse posts the mirror of entryID dated reversalDate and returns it.
	Reverse(ctx context.Context, tenantID string, entryID string, reversalDate time.Time, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	PostingSvc
	DraftSvc
	EntryReaderSvc
	ReversalSvc
}
