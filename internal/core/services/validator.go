package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// entryValidator checks, in order and stopping at the first failure:
//  1. at least two lines
//  2. every amount strictly positive
//  3. every account exists in the entry's tenant and is active
//  4. debits equal credits at full precision
//
// It reads the account registry and nothing else, so the same entry against
// the same chart always yields the same result.
type entryValidator struct {
	registry portsrepo.AccountRegistry
}

// NewEntryValidator creates a validator backed by the given registry.
func NewEntryValidator(registry portsrepo.AccountRegistry) portssvc.EntryValidatorSvc {
	return &entryValidator{registry: registry}
}

var _ portssvc.EntryValidatorSvc = (*entryValidator)(nil)

func (v *entryValidator) Validate(ctx context.Context, entry domain.JournalEntry) error {
	if len(entry.Lines) < 2 {
		return domain.NewTooFewLinesError()
	}

	for i, line := range entry.Lines {
		if !line.Amount.IsPositive() {
			return domain.NewNonPositiveAmountError(i)
		}
	}

	checked := make(map[string]struct{}, len(entry.Lines))
	for _, line := range entry.Lines {
		if _, ok := checked[line.AccountID]; ok {
			continue
		}
		account, err := v.registry.GetAccount(ctx, entry.TenantID, line.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return domain.NewUnknownOrInactiveAccountError(line.AccountID)
			}
			return fmt.Errorf("failed to look up account %s: %w", line.AccountID, err)
		}
		if account.TenantID != entry.TenantID || !v.registry.IsActive(*account) {
			return domain.NewUnknownOrInactiveAccountError(line.AccountID)
		}
		checked[line.AccountID] = struct{}{}
	}

	totalDebit, totalCredit := entry.Totals()
	if !totalDebit.Equal(totalCredit) {
		return domain.NewUnbalancedError(totalDebit, totalCredit)
	}
	return nil
}
