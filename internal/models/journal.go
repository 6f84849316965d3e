package models

import (
	"database/sql"
	"time"
)

// JournalEntry is a row of journal_entries. Lines and dimensions are stored
// as JSONB so an entry is written and read in a single statement.
type JournalEntry struct {
	TenantID          string         `db:"tenant_id"`
	EntryID           string         `db:"entry_id"`
	EntryDate         time.Time      `db:"entry_date"`
	SequenceNumber    sql.NullInt64  `db:"sequence_number"`
	Description       string         `db:"description"`
	Reference         string         `db:"reference"`
	Status            string         `db:"status"`
	Lines             []byte         `db:"lines"`
	Dimensions        []byte         `db:"dimensions"` // Nullable
	ReversesEntryID   sql.NullString `db:"reverses_entry_id"`
	ReversedByEntryID sql.NullString `db:"reversed_by_entry_id"`
	PostedAt          sql.NullTime   `db:"posted_at"`
	PostedBy          string         `db:"posted_by"`
	IdempotencyKey    sql.NullString `db:"idempotency_key"`
	AuditFields
}
