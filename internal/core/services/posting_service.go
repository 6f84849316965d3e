package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/dto"
)

// commitPosting validates entry and, on success, allocates its sequence
// number and writes it as POSTED. It must run inside WithTenantTx so that
// validation, allocation and the append form one unit.
func (s *journalService) commitPosting(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.JournalEntry, userID string, insert bool) error {
	if err := s.validator.Validate(ctx, *entry); err != nil {
		return err
	}

	seq, err := tx.NextSequence(ctx)
	if err != nil {
		return fmt.Errorf("failed to allocate sequence number: %w", err)
	}
	now := s.now()
	entry.SequenceNumber = &seq
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if insert {
		err = tx.InsertEntry(ctx, *entry)
	} else {
		err = tx.UpdateEntry(ctx, *entry)
	}
	if err != nil {
		return fmt.Errorf("failed to append entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// PostEntry validates and posts a new entry in one step.
func (s *journalService) PostEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, idempotencyKey string, userID string) (*domain.JournalEntry, error) {
	entry, err := s.newDraft(tenantID, req, userID)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected entry request", slog.String("tenant_id", tenantID))
		return nil, err
	}
	entry.IdempotencyKey = idempotencyKey

	var result domain.JournalEntry
	replayed := false
	err = s.store.WithTenantTx(ctx, tenantID, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if idempotencyKey != "" {
			existing, err := tx.FindByIdempotencyKey(ctx, idempotencyKey)
			if err == nil {
				result = *existing
				replayed = true
				return nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to check idempotency key: %w", err)
			}
		}
		if err := s.commitPosting(ctx, tx, &entry, userID, true); err != nil {
			return err
		}
		result = entry
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to post entry",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", entry.EntryID))
		return nil, err
	}

	if replayed {
		s.LogInfo(ctx, "Returning entry previously posted with the same idempotency key",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", result.EntryID))
		return &result, nil
	}

	s.invalidateReports(ctx, tenantID)
	s.LogInfo(ctx, "Entry posted",
		slog.String("tenant_id", tenantID),
		slog.String("entry_id", result.EntryID),
		slog.Int64("sequence_number", *result.SequenceNumber))
	return &result, nil
}

// PostDraft re-validates a staged draft and posts it.
func (s *journalService) PostDraft(ctx context.Context, tenantID string, entryID string, userID string) (*domain.JournalEntry, error) {
	var result domain.JournalEntry
	err := s.store.WithTenantTx(ctx, tenantID, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		draft, err := tx.GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if draft.Status != domain.Draft {
			return domain.ErrNotDraft
		}
		if err := s.commitPosting(ctx, tx, draft, userID, false); err != nil {
			return s.explainDraftFailure(ctx, tenantID, err)
		}
		result = *draft
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to post draft",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", entryID))
		return nil, err
	}

	s.invalidateReports(ctx, tenantID)
	s.LogInfo(ctx, "Draft posted",
		slog.String("tenant_id", tenantID),
		slog.String("entry_id", result.EntryID),
		slog.Int64("sequence_number", *result.SequenceNumber))
	return &result, nil
}

// explainDraftFailure marks an inactive-account rejection of a staged draft
// as a concurrent deactivation when the account still exists but has been
// switched off. The original *domain.ValidationError stays in the chain.
func (s *journalService) explainDraftFailure(ctx context.Context, tenantID string, err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Kind != domain.UnknownOrInactiveAccount {
		return err
	}
	account, lookupErr := s.registry.GetAccount(ctx, tenantID, verr.AccountID)
	if lookupErr != nil || account.TenantID != tenantID || s.registry.IsActive(*account) {
		return err
	}
	s.LogWarn(ctx, verr, "Draft references an account deactivated after staging",
		slog.String("tenant_id", tenantID),
		slog.String("account_id", verr.AccountID))
	return fmt.Errorf("%w: %w", domain.ErrAccountDeactivatedConcurrently, verr)
}
