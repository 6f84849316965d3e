package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/google/uuid"
)

// journalService owns every write to the ledger store: drafts, postings and
// reversals. Writes for a tenant go through the store's critical section.
type journalService struct {
	BaseService
	store     portsrepo.LedgerStore
	registry  portsrepo.AccountRegistry
	validator portssvc.EntryValidatorSvc
	cache     portsrepo.ReportCache
	now       func() time.Time
	newID     func() string
	scale     int32
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithClock overrides the time source used for postedAt and audit fields.
func WithClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// WithIDGenerator overrides entry and line id generation.
func WithIDGenerator(newID func() string) JournalServiceOption {
	return func(s *journalService) {
		s.newID = newID
	}
}

// WithJournalReportCache sets the cache that is invalidated after each commit.
func WithJournalReportCache(cache portsrepo.ReportCache) JournalServiceOption {
	return func(s *journalService) {
		s.cache = cache
	}
}

// WithJournalCurrencyScale sets the rounding scale for listed amounts.
func WithJournalCurrencyScale(scale int32) JournalServiceOption {
	return func(s *journalService) {
		s.scale = scale
	}
}

// NewJournalService creates a new journal service with the provided options
func NewJournalService(store portsrepo.LedgerStore, registry portsrepo.AccountRegistry, validator portssvc.EntryValidatorSvc, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		store:     store,
		registry:  registry,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
		scale:     domain.DefaultCurrencyScale,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines, assigning fresh line ids.
func (s *journalService) buildLines(reqLines []dto.JournalLineRequest) ([]domain.JournalLine, error) {
	if len(reqLines) > dto.MaxEntryLines {
		return nil, fmt.Errorf("%w: entry has %d lines (max %d)", apperrors.ErrValidation, len(reqLines), dto.MaxEntryLines)
	}
	lines := make([]domain.JournalLine, len(reqLines))
	for i, l := range reqLines {
		if l.LineType != domain.Debit && l.LineType != domain.Credit {
			return nil, fmt.Errorf("%w: line %d has invalid type %q", apperrors.ErrValidation, i, l.LineType)
		}
		if err := l.Dimensions.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", apperrors.ErrValidation, i, err)
		}
		lines[i] = domain.JournalLine{
			LineID:     s.newID(),
			AccountID:  l.AccountID,
			LineType:   l.LineType,
			Amount:     l.Amount,
			Notes:      l.Notes,
			Dimensions: l.Dimensions.Clone(),
		}
	}
	return lines, nil
}

// applyRequest copies the editable fields of req onto entry.
func (s *journalService) applyRequest(entry *domain.JournalEntry, req dto.CreateEntryRequest) error {
	entryDate, err := time.Parse(dto.DateLayout, req.EntryDate)
	if err != nil {
		return fmt.Errorf("%w: invalid entry date %q", apperrors.ErrValidation, req.EntryDate)
	}
	if err := req.Dimensions.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	lines, err := s.buildLines(req.Lines)
	if err != nil {
		return err
	}
	entry.EntryDate = entryDate
	entry.Description = req.Description
	entry.Reference = req.Reference
	entry.Dimensions = req.Dimensions.Clone()
	entry.Lines = lines
	return nil
}

// newDraft builds an unsaved draft entry from a request.
func (s *journalService) newDraft(tenantID string, req dto.CreateEntryRequest, userID string) (domain.JournalEntry, error) {
	now := s.now()
	entry := domain.JournalEntry{
		EntryID:  s.newID(),
		TenantID: tenantID,
		Status:   domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.applyRequest(&entry, req); err != nil {
		return domain.JournalEntry{}, err
	}
	return entry, nil
}

// invalidateReports bumps the tenant's report generation after a commit. The
// ledger write has already succeeded, so failures are logged, not returned.
func (s *journalService) invalidateReports(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), tenantID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate report cache", slog.String("tenant_id", tenantID))
	}
}

// logWriteFailure picks the log level by error class.
func (s *journalService) logWriteFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, apperrors.ErrConcurrency):
		s.LogWarn(ctx, err, msg, keyvals...)
	default:
		s.LogError(ctx, err, msg, keyvals...)
	}
}

// GetEntry retrieves a draft or committed entry.
func (s *journalService) GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.store.GetEntry(ctx, tenantID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get entry", slog.String("tenant_id", tenantID), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries pages through entries newest first.
func (s *journalService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	filter := domain.EntryFilter{
		Status: domain.EntryStatus(params.Status),
		Limit:  params.Limit,
	}
	if params.NextToken != "" {
		filter.NextToken = &params.NextToken
	}

	entries, nextToken, err := s.store.ListEntries(ctx, tenantID, filter)
	if err != nil {
		s.logWriteFailure(ctx, err, "Failed to list entries", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogDebug(ctx, "Listed entries", slog.String("tenant_id", tenantID), slog.Int("count", len(entries)))
	return &dto.ListEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries, s.scale),
		NextToken: nextToken,
	}, nil
}
