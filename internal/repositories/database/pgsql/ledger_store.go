package pgsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/general_ledger/internal/models"
	"github.com/SscSPs/general_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `tenant_id, entry_id, entry_date, sequence_number, description, reference, status,
	lines, dimensions, reverses_entry_id, reversed_by_entry_id, posted_at, posted_by, idempotency_key,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxLedgerStore keeps journal entries in journal_entries. The tenant's row in
// ledger_sequences doubles as the posting lock.
type PgxLedgerStore struct {
	BaseRepository
	lockTimeout time.Duration
}

// newPgxLedgerStore creates a store whose critical sections give up after lockTimeout.
func newPgxLedgerStore(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxLedgerStore {
	return &PgxLedgerStore{BaseRepository: BaseRepository{Pool: pool}, lockTimeout: lockTimeout}
}

// Ensure PgxLedgerStore implements portsrepo.LedgerStore
var _ portsrepo.LedgerStore = (*PgxLedgerStore)(nil)

func toModelEntry(e domain.JournalEntry) (models.JournalEntry, error) {
	lines, err := json.Marshal(e.Lines)
	if err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to encode lines of entry %s: %w", e.EntryID, err)
	}
	var dims []byte
	if len(e.Dimensions) > 0 {
		if dims, err = json.Marshal(e.Dimensions); err != nil {
			return models.JournalEntry{}, fmt.Errorf("failed to encode dimensions of entry %s: %w", e.EntryID, err)
		}
	}
	m := models.JournalEntry{
		TenantID:       e.TenantID,
		EntryID:        e.EntryID,
		EntryDate:      e.EntryDate,
		Description:    e.Description,
		Reference:      e.Reference,
		Status:         string(e.Status),
		Lines:          lines,
		Dimensions:     dims,
		PostedBy:       e.PostedBy,
		IdempotencyKey: nullString(e.IdempotencyKey),
		AuditFields: models.AuditFields{
			CreatedAt:     e.CreatedAt,
			CreatedBy:     e.CreatedBy,
			LastUpdatedAt: e.LastUpdatedAt,
			LastUpdatedBy: e.LastUpdatedBy,
		},
	}
	if e.SequenceNumber != nil {
		m.SequenceNumber = sql.NullInt64{Int64: *e.SequenceNumber, Valid: true}
	}
	if e.ReversesEntryID != nil {
		m.ReversesEntryID = nullString(*e.ReversesEntryID)
	}
	if e.ReversedByEntryID != nil {
		m.ReversedByEntryID = nullString(*e.ReversedByEntryID)
	}
	if e.PostedAt != nil {
		m.PostedAt = sql.NullTime{Time: *e.PostedAt, Valid: true}
	}
	return m, nil
}

func toDomainEntry(m models.JournalEntry) (domain.JournalEntry, error) {
	e := domain.JournalEntry{
		EntryID:     m.EntryID,
		TenantID:    m.TenantID,
		EntryDate:   m.EntryDate.UTC(),
		Description: m.Description,
		Reference:   m.Reference,
		Status:      domain.EntryStatus(m.Status),
		PostedBy:    m.PostedBy,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt.UTC(),
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt.UTC(),
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if err := json.Unmarshal(m.Lines, &e.Lines); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("failed to decode lines of entry %s: %w", m.EntryID, err)
	}
	if len(m.Dimensions) > 0 {
		if err := json.Unmarshal(m.Dimensions, &e.Dimensions); err != nil {
			return domain.JournalEntry{}, fmt.Errorf("failed to decode dimensions of entry %s: %w", m.EntryID, err)
		}
	}
	if m.SequenceNumber.Valid {
		seq := m.SequenceNumber.Int64
		e.SequenceNumber = &seq
	}
	if m.ReversesEntryID.Valid {
		id := m.ReversesEntryID.String
		e.ReversesEntryID = &id
	}
	if m.ReversedByEntryID.Valid {
		id := m.ReversedByEntryID.String
		e.ReversedByEntryID = &id
	}
	if m.PostedAt.Valid {
		at := m.PostedAt.Time.UTC()
		e.PostedAt = &at
	}
	if m.IdempotencyKey.Valid {
		e.IdempotencyKey = m.IdempotencyKey.String
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func collectEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapPgError(err, "failed to scan journal entries")
	}
	entries := make([]domain.JournalEntry, 0, len(ms))
	for _, m := range ms {
		e, err := toDomainEntry(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// getEntryWhere returns the single entry matching cond, or ErrNotFound.
func getEntryWhere(ctx context.Context, q querier, cond string, args ...any) (*domain.JournalEntry, error) {
	rows, err := q.Query(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE `+cond, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal entry")
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, mapPgError(err, "failed to scan journal entry")
	}
	e, err := toDomainEntry(m)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PgxLedgerStore) GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	return getEntryWhere(ctx, s.Pool, `tenant_id = $1 AND entry_id = $2`, tenantID, entryID)
}

// ListEntries uses keyset pagination on (entry_date, created_at, entry_id).
func (s *PgxLedgerStore) ListEntries(ctx context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit)

	conds := []string{"tenant_id = $1"}
	args := []any{tenantID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(entry_date, created_at, entry_id) < ($%d, $%d, $%d)", n-2, n-1, n))
	}
	args = append(args, limit+1)

	query := fmt.Sprintf(`SELECT %s FROM journal_entries WHERE %s
		ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $%d`,
		entryColumns, strings.Join(conds, " AND "), len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to list journal entries")
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
	return page, &token, nil
}

// ListCommittedEntries runs as one statement, so it reads a single snapshot.
func (s *PgxLedgerStore) ListCommittedEntries(ctx context.Context, tenantID string, from, to *time.Time) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries
		WHERE tenant_id = $1 AND status IN ('POSTED', 'REVERSED')
		AND ($2::timestamptz IS NULL OR entry_date >= $2)
		AND ($3::timestamptz IS NULL OR entry_date <= $3)
		ORDER BY sequence_number`
	rows, err := s.Pool.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, mapPgError(err, "failed to read committed entries")
	}
	return collectEntries(rows)
}

// WithTenantTx locks the tenant's sequence row for the duration of fn.
func (s *PgxLedgerStore) WithTenantTx(ctx context.Context, tenantID string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.Rollback(context.WithoutCancel(ctx), tx) //nolint:errcheck

	if s.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
			return mapPgError(err, "failed to set lock timeout")
		}
	}
	if _, err := tx.Exec(ctx, `INSERT INTO ledger_sequences (tenant_id) VALUES ($1) ON CONFLICT (tenant_id) DO NOTHING`, tenantID); err != nil {
		return mapPgError(err, "failed to initialise tenant sequence")
	}
	if _, err := tx.Exec(ctx, `SELECT 1 FROM ledger_sequences WHERE tenant_id = $1 FOR UPDATE`, tenantID); err != nil {
		return mapPgError(err, "failed to lock tenant ledger")
	}

	if err := fn(ctx, &pgxLedgerTx{tx: tx, tenantID: tenantID}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewConcurrencyError("request ended before commit", err)
	}
	return s.Commit(ctx, tx)
}

type pgxLedgerTx struct {
	tx       pgx.Tx
	tenantID string
}

func (t *pgxLedgerTx) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	err := t.tx.QueryRow(ctx,
		`UPDATE ledger_sequences SET last_sequence = last_sequence + 1 WHERE tenant_id = $1 RETURNING last_sequence`,
		t.tenantID).Scan(&seq)
	if err != nil {
		return 0, mapPgError(err, "failed to allocate sequence number")
	}
	return seq, nil
}

func (t *pgxLedgerTx) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return getEntryWhere(ctx, t.tx, `tenant_id = $1 AND entry_id = $2`, t.tenantID, entryID)
}

func (t *pgxLedgerTx) FindByIdempotencyKey(ctx context.Context, key string) (*domain.JournalEntry, error) {
	return getEntryWhere(ctx, t.tx, `tenant_id = $1 AND idempotency_key = $2`, t.tenantID, key)
}

func (t *pgxLedgerTx) InsertEntry(ctx context.Context, entry domain.JournalEntry) error {
	m, err := toModelEntry(entry)
	if err != nil {
		return err
	}
	query := `INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = t.tx.Exec(ctx, query,
		m.TenantID, m.EntryID, m.EntryDate, m.SequenceNumber, m.Description, m.Reference, m.Status,
		m.Lines, m.Dimensions, m.ReversesEntryID, m.ReversedByEntryID, m.PostedAt, m.PostedBy, m.IdempotencyKey,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "failed to insert journal entry "+entry.EntryID)
}

func (t *pgxLedgerTx) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	prev, err := t.GetEntry(ctx, entry.EntryID)
	if err != nil {
		return err
	}
	if err := domain.CheckTransition(*prev, entry); err != nil {
		return err
	}
	m, err := toModelEntry(entry)
	if err != nil {
		return err
	}
	query := `UPDATE journal_entries SET
		entry_date = $3, sequence_number = $4, description = $5, reference = $6, status = $7,
		lines = $8, dimensions = $9, reverses_entry_id = $10, reversed_by_entry_id = $11,
		posted_at = $12, posted_by = $13, idempotency_key = $14, last_updated_at = $15, last_updated_by = $16
		WHERE tenant_id = $1 AND entry_id = $2`
	_, err = t.tx.Exec(ctx, query,
		m.TenantID, m.EntryID, m.EntryDate, m.SequenceNumber, m.Description, m.Reference, m.Status,
		m.Lines, m.Dimensions, m.ReversesEntryID, m.ReversedByEntryID, m.PostedAt, m.PostedBy, m.IdempotencyKey,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapPgError(err, "failed to update journal entry "+entry.EntryID)
}

func (t *pgxLedgerTx) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2 AND status = 'DRAFT'`,
		t.tenantID, entryID)
	if err != nil {
		return mapPgError(err, "failed to delete draft "+entryID)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := t.GetEntry(ctx, entryID); err != nil {
		return err
	}
	return domain.ErrNotDraft
}
