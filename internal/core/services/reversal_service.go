package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
)

// mirrorEntry builds the draft that cancels original: every debit becomes a
// credit of the same amount on the same account and vice versa.
func (s *journalService) mirrorEntry(original domain.JournalEntry, reversalDate time.Time, userID string) domain.JournalEntry {
	now := s.now()
	lines := make([]domain.JournalLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = domain.JournalLine{
			LineID:     s.newID(),
			AccountID:  l.AccountID,
			LineType:   l.LineType.Mirror(),
			Amount:     l.Amount,
			Notes:      l.Notes,
			Dimensions: l.Dimensions.Clone(),
		}
	}

	description := fmt.Sprintf("Reversal of entry %s", original.EntryID)
	if original.SequenceNumber != nil {
		description = fmt.Sprintf("Reversal of entry #%d", *original.SequenceNumber)
	}
	if original.Description != "" {
		description += ": " + original.Description
	}

	originalID := original.EntryID
	return domain.JournalEntry{
		EntryID:         s.newID(),
		TenantID:        original.TenantID,
		EntryDate:       domain.StartOfDay(reversalDate),
		Description:     description,
		Reference:       original.Reference,
		Lines:           lines,
		Status:          domain.Draft,
		ReversesEntryID: &originalID,
		Dimensions:      original.Dimensions.Clone(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

// Reverse posts the mirror of a posted entry and links the pair. Posting the
// mirror and marking the original happen in one tenant transaction.
func (s *journalService) Reverse(ctx context.Context, tenantID string, entryID string, reversalDate time.Time, userID string) (*domain.JournalEntry, error) {
	var reversal domain.JournalEntry
	err := s.store.WithTenantTx(ctx, tenantID, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		original, err := tx.GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if original.ReversedByEntryID != nil {
			return domain.ErrAlreadyReversed
		}
		if original.Status != domain.Posted {
			return domain.ErrNotPosted
		}

		mirror := s.mirrorEntry(*original, reversalDate, userID)
		if err := s.commitPosting(ctx, tx, &mirror, userID, true); err != nil {
			return err
		}

		original.Status = domain.Reversed
		original.ReversedByEntryID = &mirror.EntryID
		original.LastUpdatedAt = *mirror.PostedAt
		original.LastUpdatedBy = userID
		if err := tx.UpdateEntry(ctx, *original); err != nil {
			return fmt.Errorf("failed to link reversed entry %s: %w", entryID, err)
		}
		reversal = mirror
		return nil
	})
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to reverse entry",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", entryID))
		return nil, err
	}

	s.invalidateReports(ctx, tenantID)
	s.LogInfo(ctx, "Entry reversed",
		slog.String("tenant_id", tenantID),
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID),
		slog.Int64("sequence_number", *reversal.SequenceNumber))
	return &reversal, nil
}
