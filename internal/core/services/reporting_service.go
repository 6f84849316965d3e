package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	registry portsrepo.AccountRegistry
	reader   portsrepo.LedgerReader
	cache    portsrepo.ReportCache
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportCache enables caching keyed by the tenant's ledger generation.
func WithReportCache(cache portsrepo.ReportCache) ReportingServiceOption {
	return func(s *reportingService) {
		s.cache = cache
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(registry portsrepo.AccountRegistry, reader portsrepo.LedgerReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		registry: registry,
		reader:   reader,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

type lineTotals struct {
	debit  domain.Money
	credit domain.Money
}

// sumByAccount aggregates line amounts per account at full precision.
func sumByAccount(entries []domain.JournalEntry) map[string]*lineTotals {
	totals := make(map[string]*lineTotals)
	for _, e := range entries {
		for _, l := range e.Lines {
			t, ok := totals[l.AccountID]
			if !ok {
				t = &lineTotals{debit: domain.ZeroMoney, credit: domain.ZeroMoney}
				totals[l.AccountID] = t
			}
			switch l.LineType {
			case domain.Debit:
				t.debit = t.debit.Add(l.Amount)
			case domain.Credit:
				t.credit = t.credit.Add(l.Amount)
			}
		}
	}
	return totals
}

// cacheKey returns "" when caching is disabled or the generation is unknown.
func (s *reportingService) cacheKey(ctx context.Context, tenantID string, parts ...string) string {
	if s.cache == nil {
		return ""
	}
	gen, err := s.cache.Generation(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read report cache generation", slog.String("tenant_id", tenantID))
		return ""
	}
	key := fmt.Sprintf("gl:%s:g%d", tenantID, gen)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (s *reportingService) cacheGet(ctx context.Context, key string, dest any) bool {
	if key == "" {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.LogError(ctx, err, "Failed to read report cache", slog.String("key", key))
		return false
	}
	return found
}

func (s *reportingService) cacheSet(ctx context.Context, key string, value any) {
	if key == "" {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.LogError(ctx, err, "Failed to write report cache", slog.String("key", key))
	}
}

// AccountBalance sums committed lines for one account.
func (s *reportingService) AccountBalance(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	account, err := s.registry.GetAccount(ctx, tenantID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up account", slog.String("tenant_id", tenantID), slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("account %s: %w", accountID, err)
	}

	asOfKey := "all"
	var to *time.Time
	if asOf != nil {
		eod := domain.EndOfDay(*asOf)
		to = &eod
		asOfKey = asOf.Format("2006-01-02")
	}

	key := s.cacheKey(ctx, tenantID, "balance", accountID, asOfKey)
	var cached domain.AccountBalance
	if s.cacheGet(ctx, key, &cached) {
		s.LogDebug(ctx, "Account balance served from cache", slog.String("account_id", accountID))
		return &cached, nil
	}

	entries, err := s.reader.ListCommittedEntries(ctx, tenantID, nil, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	totals := sumByAccount(entries)[accountID]
	totalDebit, totalCredit := domain.ZeroMoney, domain.ZeroMoney
	if totals != nil {
		totalDebit, totalCredit = totals.debit, totals.credit
	}

	result := &domain.AccountBalance{
		AccountID:     account.AccountID,
		Code:          account.Code,
		NormalBalance: account.NormalBalance,
		TotalDebit:    totalDebit,
		TotalCredit:   totalCredit,
		Balance:       account.SignedBalance(totalDebit, totalCredit),
		AsOf:          asOf,
	}
	s.cacheSet(ctx, key, result)

	s.LogDebug(ctx, "Account balance computed",
		slog.String("tenant_id", tenantID),
		slog.String("account_id", accountID),
		slog.Int("entries_scanned", len(entries)))
	return result, nil
}

// TrialBalance lists every active account zero-filled, plus any inactive
// account that has activity in the period, ordered by code.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, start, end time.Time) (*domain.TrialBalance, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s", apperrors.ErrValidation,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	from, to := domain.StartOfDay(start), domain.EndOfDay(end)

	key := s.cacheKey(ctx, tenantID, "trial", from.Format("2006-01-02"), to.Format("2006-01-02"))
	var cached domain.TrialBalance
	if s.cacheGet(ctx, key, &cached) {
		s.LogDebug(ctx, "Trial balance served from cache", slog.String("tenant_id", tenantID))
		return &cached, nil
	}

	accounts, err := s.registry.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	entries, err := s.reader.ListCommittedEntries(ctx, tenantID, &from, &to)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	totals := sumByAccount(entries)

	rows := make([]domain.TrialBalanceRow, 0, len(accounts))
	listed := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		t := totals[acc.AccountID]
		active := s.registry.IsActive(acc)
		if !active && t == nil {
			continue
		}
		row := domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			Name:        acc.Name,
			AccountType: acc.AccountType,
			IsActive:    active,
			TotalDebit:  domain.ZeroMoney,
			TotalCredit: domain.ZeroMoney,
		}
		if t != nil {
			row.TotalDebit, row.TotalCredit = t.debit, t.credit
		}
		row.Balance = row.TotalDebit.Sub(row.TotalCredit)
		rows = append(rows, row)
		listed[acc.AccountID] = true
	}

	// Lines whose account has since vanished from the chart still count, or
	// the report would not balance.
	for accountID, t := range totals {
		if listed[accountID] {
			continue
		}
		s.LogWarn(ctx, apperrors.ErrNotFound, "Ledger references an account missing from the chart",
			slog.String("tenant_id", tenantID), slog.String("account_id", accountID))
		rows = append(rows, domain.TrialBalanceRow{
			AccountID:   accountID,
			TotalDebit:  t.debit,
			TotalCredit: t.credit,
			Balance:     t.debit.Sub(t.credit),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Code != rows[j].Code {
			return rows[i].Code < rows[j].Code
		}
		return rows[i].AccountID < rows[j].AccountID
	})

	report := &domain.TrialBalance{
		TenantID:    tenantID,
		StartDate:   from,
		EndDate:     domain.StartOfDay(end),
		Rows:        rows,
		TotalDebit:  domain.ZeroMoney,
		TotalCredit: domain.ZeroMoney,
	}
	for _, r := range rows {
		report.TotalDebit = report.TotalDebit.Add(r.TotalDebit)
		report.TotalCredit = report.TotalCredit.Add(r.TotalCredit)
	}
	report.IsBalanced = report.TotalDebit.Equal(report.TotalCredit)
	s.cacheSet(ctx, key, report)

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.String("start", from.Format(time.RFC3339)),
		slog.String("end", to.Format(time.RFC3339)),
		slog.Int("row_count", len(rows)),
		slog.Bool("is_balanced", report.IsBalanced))
	return report, nil
}
