package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/general_ledger/internal/apperrors"
)

// ValidationKind names the first double-entry invariant an entry broke.
type ValidationKind string

const (
	TooFewLines              ValidationKind = "TOO_FEW_LINES"
	NonPositiveAmount        ValidationKind = "NON_POSITIVE_AMOUNT"
	UnknownOrInactiveAccount ValidationKind = "UNKNOWN_OR_INACTIVE_ACCOUNT"
	Unbalanced               ValidationKind = "UNBALANCED"
)

// ValidationError describes why an entry cannot be posted. Only the detail
// fields relevant to Kind are set. LineIndex is zero-based.
type ValidationError struct {
	Kind        ValidationKind
	LineIndex   *int
	AccountID   string
	TotalDebit  *Money
	TotalCredit *Money
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("journal entry invalid: ")
	b.WriteString(string(e.Kind))
	switch e.Kind {
	case NonPositiveAmount:
		if e.LineIndex != nil {
			fmt.Fprintf(&b, " (line %d)", *e.LineIndex)
		}
	case UnknownOrInactiveAccount:
		fmt.Fprintf(&b, " (account %s)", e.AccountID)
	case Unbalanced:
		if e.TotalDebit != nil && e.TotalCredit != nil {
			fmt.Fprintf(&b, " (debit %s, credit %s)", e.TotalDebit.String(), e.TotalCredit.String())
		}
	}
	return b.String()
}

// Unwrap lets errors.Is(err, apperrors.ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

func NewTooFewLinesError() *ValidationError {
	return &ValidationError{Kind: TooFewLines}
}

func NewNonPositiveAmountError(lineIndex int) *ValidationError {
	return &ValidationError{Kind: NonPositiveAmount, LineIndex: &lineIndex}
}

func NewUnknownOrInactiveAccountError(accountID string) *ValidationError {
	return &ValidationError{Kind: UnknownOrInactiveAccount, AccountID: accountID}
}

func NewUnbalancedError(totalDebit, totalCredit Money) *ValidationError {
	return &ValidationError{Kind: Unbalanced, TotalDebit: &totalDebit, TotalCredit: &totalCredit}
}

// Lifecycle errors. Each wraps a taxonomy sentinel from apperrors.
var (
	ErrAlreadyReversed = fmt.Errorf("entry already reversed: %w", apperrors.ErrConflict)
	ErrNotPosted       = fmt.Errorf("entry is not posted: %w", apperrors.ErrConflict)
	ErrNotDraft        = fmt.Errorf("entry is not a draft: %w", apperrors.ErrConflict)
	ErrNotDraftCreator = fmt.Errorf("only the creator may modify a draft: %w", apperrors.ErrForbidden)

	// ErrAccountDeactivatedConcurrently is reported alongside the underlying
	// *ValidationError when a staged draft references an account that was
	// deactivated after the draft was saved.
	ErrAccountDeactivatedConcurrently = fmt.Errorf("account deactivated after draft was staged: %w", apperrors.ErrValidation)
)
