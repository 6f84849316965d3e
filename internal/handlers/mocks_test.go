package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entryResult(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) PostEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, idempotencyKey string, userID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, tenantID, req, idempotencyKey, userID))
}
func (m *MockJournalService) PostDraft(ctx context.Context, tenantID string, entryID string, userID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, tenantID, entryID, userID))
}
func (m *MockJournalService) CreateDraft(ctx context.Context, tenantID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, tenantID, req, userID))
}
func (m *MockJournalService) UpdateDraft(ctx context.Context, tenantID string, entryID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, tenantID, entryID, req, userID))
}
func (m *MockJournalService) DeleteDraft(ctx context.Context, tenantID string, entryID string, userID string) error {
	return m.Called(ctx, tenantID, entryID, userID).Error(0)
}
func (m *MockJournalService) GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, tenantID, entryID))
}
func (m *MockJournalService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockJournalService) Reverse(ctx context.Context, tenantID string, entryID string, reversalDate time.Time, userID string) (*domain.JournalEntry, error) {
	return m.entryResult(m.Called(ctx, tenantID, entryID, reversalDate, userID))
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

var _ portssvc.AccountSvc = (*MockAccountService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) AccountBalance(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	args := m.Called(ctx, tenantID, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockReportingService) TrialBalance(ctx context.Context, tenantID string, start, end time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, tenantID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)
