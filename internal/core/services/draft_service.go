package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// CreateDraft stages an entry without validating it. Drafts may be
// incomplete; the invariants are checked when the draft is posted.
func (s *journalService) CreateDraft(ctx context.Context, tenantID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	entry, err := s.newDraft(tenantID, req, userID)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected draft request", slog.String("tenant_id", tenantID))
		return nil, err
	}

	err = s.store.WithTenantTx(ctx, tenantID, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.InsertEntry(ctx, entry)
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to save draft", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft created", slog.String("tenant_id", tenantID), slog.String("entry_id", entry.EntryID))
	return &entry, nil
}

// loadEditableDraft fetches a draft the user is allowed to change.
func loadEditableDraft(ctx context.Context, tx portsrepo.LedgerTx, entryID string, userID string) (*domain.JournalEntry, error) {
	draft, err := tx.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if draft.Status != domain.Draft {
		return nil, domain.ErrNotDraft
	}
	if draft.CreatedBy != userID {
		return nil, domain.ErrNotDraftCreator
	}
	return draft, nil
}

// UpdateDraft replaces the date, description, reference, dimensions and
// lines of a draft. Only the creator may edit.
func (s *journalService) UpdateDraft(ctx context.Context, tenantID string, entryID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	var result domain.JournalEntry
	err := s.store.WithTenantTx(ctx, tenantID, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		draft, err := loadEditableDraft(ctx, tx, entryID, userID)
		if err != nil {
			return err
		}
		if err := s.applyRequest(draft, req); err != nil {
			return err
		}
		draft.LastUpdatedAt = s.now()
		draft.LastUpdatedBy = userID
		if err := tx.UpdateEntry(ctx, *draft); err != nil {
			return err
		}
		result = *draft
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to update draft",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft updated", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
	return &result, nil
}

// DeleteDraft discards a draft. Posted entries can only be reversed.
func (s *journalService) DeleteDraft(ctx context.Context, tenantID string, entryID string, userID string) error {
	err := s.store.WithTenantTx(ctx, tenantID, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := loadEditableDraft(ctx, tx, entryID, userID); err != nil {
			return err
		}
		return tx.DeleteEntry(ctx, entryID)
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to delete draft",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Draft deleted", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
	return nil
}
