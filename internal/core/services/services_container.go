package services

import (
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	validator := NewEntryValidator(repos.AccountRegistry)

	journalOpts := []JournalServiceOption{WithJournalCurrencyScale(cfg.CurrencyScale)}
	var reportingOpts []ReportingServiceOption
	if repos.ReportCache != nil {
		journalOpts = append(journalOpts, WithJournalReportCache(repos.ReportCache))
		reportingOpts = append(reportingOpts, WithReportCache(repos.ReportCache))
	}

	return &portssvc.ServiceContainer{
		Account:       NewAccountService(repos.AccountRegistry),
		Validator:     validator,
		Journal:       NewJournalService(repos.LedgerStore, repos.AccountRegistry, validator, journalOpts...),
		Reporting:     NewReportingService(repos.AccountRegistry, repos.LedgerStore, reportingOpts...),
		CurrencyScale: cfg.CurrencyScale,
	}
}
