package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
)

// EntryStatus indicates where a journal entry is in its lifecycle.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// LineType carries the sign of a journal line. Amounts are always positive.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// Mirror returns the opposite side.
func (t LineType) Mirror() LineType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// JournalLine is one debit or credit against a single account.
type JournalLine struct {
	LineID     string     `json:"lineID"`
	AccountID  string     `json:"accountID"`
	LineType   LineType   `json:"lineType"`
	Amount     Money      `json:"amount"`
	Notes      string     `json:"notes,omitempty"`
	Dimensions Dimensions `json:"dimensions,omitempty"`
}

// JournalEntry is a set of lines that moves value between accounts. Lines are
// stored inline with the entry and never persisted on their own.
type JournalEntry struct {
	EntryID           string        `json:"entryID"`
	TenantID          string        `json:"tenantID"`
	EntryDate         time.Time     `json:"entryDate"`
	SequenceNumber    *int64        `json:"sequenceNumber,omitempty"`
	Description       string        `json:"description"`
	Reference         string        `json:"reference,omitempty"`
	Lines             []JournalLine `json:"lines"`
	Status            EntryStatus   `json:"status"`
	ReversesEntryID   *string       `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string       `json:"reversedByEntryID,omitempty"`
	PostedAt          *time.Time    `json:"postedAt,omitempty"`
	PostedBy          string        `json:"postedBy,omitempty"`
	IdempotencyKey    string        `json:"idempotencyKey,omitempty"`
	Dimensions        Dimensions    `json:"dimensions,omitempty"`
	AuditFields
}

// Totals sums debit and credit amounts without rounding.
func (e JournalEntry) Totals() (totalDebit, totalCredit Money) {
	totalDebit, totalCredit = ZeroMoney, ZeroMoney
	for _, l := range e.Lines {
		switch l.LineType {
		case Debit:
			totalDebit = totalDebit.Add(l.Amount)
		case Credit:
			totalCredit = totalCredit.Add(l.Amount)
		}
	}
	return totalDebit, totalCredit
}

// IsCommitted reports whether the entry is part of the ledger history.
// Reversed entries stay in history; their effect is cancelled by the
// reversing entry, not by exclusion.
func (e JournalEntry) IsCommitted() bool {
	return e.Status == Posted || e.Status == Reversed
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (e JournalEntry) Clone() JournalEntry {
	c := e
	if e.Lines != nil {
		c.Lines = make([]JournalLine, len(e.Lines))
		for i, l := range e.Lines {
			l.Dimensions = l.Dimensions.Clone()
			c.Lines[i] = l
		}
	}
	c.Dimensions = e.Dimensions.Clone()
	if e.SequenceNumber != nil {
		v := *e.SequenceNumber
		c.SequenceNumber = &v
	}
	if e.ReversesEntryID != nil {
		v := *e.ReversesEntryID
		c.ReversesEntryID = &v
	}
	if e.ReversedByEntryID != nil {
		v := *e.ReversedByEntryID
		c.ReversedByEntryID = &v
	}
	if e.PostedAt != nil {
		v := *e.PostedAt
		c.PostedAt = &v
	}
	return c
}

// EndOfDay returns the last instant of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CheckTransition enforces the entry lifecycle at the storage boundary.
// Drafts change freely; a posted entry may only gain its reversal link.
func CheckTransition(prev, next JournalEntry) error {
	switch prev.Status {
	case Draft:
		if next.Status == Reversed {
			return ErrNotPosted
		}
		if next.Status == Posted && next.SequenceNumber == nil {
			return apperrors.NewAppError(500, "posted entry without sequence number", apperrors.ErrInternal)
		}
		return nil
	case Posted:
		if next.Status != Reversed || next.ReversedByEntryID == nil ||
			len(next.Lines) != len(prev.Lines) || sequenceOf(next) != sequenceOf(prev) {
			return fmt.Errorf("posted entry %s is immutable: %w", prev.EntryID, apperrors.ErrConflict)
		}
		return nil
	default:
		return ErrAlreadyReversed
	}
}

func sequenceOf(e JournalEntry) int64 {
	if e.SequenceNumber == nil {
		return 0
	}
	return *e.SequenceNumber
}
