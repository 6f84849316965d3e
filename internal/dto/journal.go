package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// DateLayout is the wire format for entry, reversal and report dates.
const DateLayout = "2006-01-02"

// JournalLineRequest is one debit or credit in an entry request.
type JournalLineRequest struct {
	AccountID  string            `json:"accountID" binding:"required"`
	LineType   domain.LineType   `json:"lineType" binding:"required,oneof=DEBIT CREDIT"`
	Amount     domain.Money      `json:"amount" swaggertype:"string" example:"100.00"`
	Notes      string            `json:"notes,omitempty" binding:"max=512"`
	Dimensions domain.Dimensions `json:"dimensions,omitempty" swaggertype:"object"`
}

// MaxEntryLines caps the lines of a single entry.
const MaxEntryLines = 500

// CreateEntryRequest is used both to post directly and to stage a draft.
// Line count, amounts and balance are checked by the ledger, not by binding,
// so that the caller receives the specific validation kind. Only the upper
// bound on lines is a binding rule.
type CreateEntryRequest struct {
	EntryDate   string               `json:"entryDate" binding:"required,ledger_date" example:"2024-01-31"`
	Description string               `json:"description" binding:"max=1024"`
	Reference   string               `json:"reference,omitempty" binding:"max=128"`
	Lines       []JournalLineRequest `json:"lines" binding:"max=500,dive"`
	Dimensions  domain.Dimensions    `json:"dimensions,omitempty" swaggertype:"object"`
}

// ReverseEntryRequest carries the date of the mirror entry. Today is used when empty.
type ReverseEntryRequest struct {
	ReversalDate string `json:"reversalDate" binding:"omitempty,ledger_date" example:"2024-02-01"`
}

// ListEntriesParams holds the query parameters for listing entries.
type ListEntriesParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
	Status    string `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
}

// JournalLineResponse is a line as returned to callers.
type JournalLineResponse struct {
	LineID     string            `json:"lineID"`
	AccountID  string            `json:"accountID"`
	LineType   string            `json:"lineType"`
	Amount     string            `json:"amount"`
	Notes      string            `json:"notes,omitempty"`
	Dimensions domain.Dimensions `json:"dimensions,omitempty" swaggertype:"object"`
}

// JournalEntryResponse is an entry as returned to callers.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	TenantID          string                `json:"tenantID"`
	EntryDate         string                `json:"entryDate"`
	SequenceNumber    *int64                `json:"sequenceNumber,omitempty"`
	Description       string                `json:"description"`
	Reference         string                `json:"reference,omitempty"`
	Status            string                `json:"status"`
	Lines             []JournalLineResponse `json:"lines"`
	TotalDebit        string                `json:"totalDebit"`
	TotalCredit       string                `json:"totalCredit"`
	ReversesEntryID   *string               `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string               `json:"reversedByEntryID,omitempty"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	PostedBy          string                `json:"postedBy,omitempty"`
	IdempotencyKey    string                `json:"idempotencyKey,omitempty"`
	Dimensions        domain.Dimensions     `json:"dimensions,omitempty" swaggertype:"object"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
	LastUpdatedAt     time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy     string                `json:"lastUpdatedBy"`
}

// ListEntriesResponse is one page of entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain entry, rounding amounts to scale.
func ToJournalEntryResponse(e *domain.JournalEntry, scale int32) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:     l.LineID,
			AccountID:  l.AccountID,
			LineType:   string(l.LineType),
			Amount:     l.Amount.StringFixed(scale),
			Notes:      l.Notes,
			Dimensions: l.Dimensions,
		}
	}
	totalDebit, totalCredit := e.Totals()
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		TenantID:          e.TenantID,
		EntryDate:         e.EntryDate.Format(DateLayout),
		SequenceNumber:    e.SequenceNumber,
		Description:       e.Description,
		Reference:         e.Reference,
		Status:            string(e.Status),
		Lines:             lines,
		TotalDebit:        totalDebit.StringFixed(scale),
		TotalCredit:       totalCredit.StringFixed(scale),
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		IdempotencyKey:    e.IdempotencyKey,
		Dimensions:        e.Dimensions,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry, scale int32) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i], scale)
	}
	return out
}
