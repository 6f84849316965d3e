package handlers_test

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *LedgerHandlerTestSuite) TestListAccounts() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, testTenant).Return([]domain.Account{
		{AccountID: "cash", Code: "1000", Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.NormalDebit, IsActive: true},
		{AccountID: "sales", Code: "4000", Name: "Sales", AccountType: domain.Revenue, NormalBalance: domain.NormalCredit, IsActive: true},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/accounts", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 2)
	suite.Equal("1000", resp[0].Code)
	suite.Equal("CREDIT", resp[1].NormalBalance)
}

func (suite *LedgerHandlerTestSuite) TestAccountBalance() {
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	suite.mockReportingService.On("AccountBalance", mock.Anything, testTenant, "cash",
		mock.MatchedBy(func(t *time.Time) bool { return t != nil && t.Equal(asOf) }),
	).Return(&domain.AccountBalance{
		AccountID:     "cash",
		Code:          "1000",
		NormalBalance: domain.NormalDebit,
		TotalDebit:    domain.MustMoney("150"),
		TotalCredit:   domain.MustMoney("40.125"),
		Balance:       domain.MustMoney("109.875"),
		AsOf:          &asOf,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/cash/balance?asOf=2024-01-31", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("109.88", resp.Balance)
	suite.Equal("40.13", resp.TotalCredit)
	suite.Equal("2024-01-31", resp.AsOf)

	w = suite.do(http.MethodGet, "/accounts/cash/balance?asOf=yesterday", nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.mockReportingService.On("AccountBalance", mock.Anything, testTenant, "ghost", (*time.Time)(nil)).
		Return(nil, apperrors.NewNotFoundError("account ghost not found")).Once()
	w = suite.do(http.MethodGet, "/accounts/ghost/balance", nil, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestTrialBalance() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	suite.mockReportingService.On("TrialBalance", mock.Anything, testTenant, start, end).Return(&domain.TrialBalance{
		TenantID:  testTenant,
		StartDate: start,
		EndDate:   end,
		Rows: []domain.TrialBalanceRow{
			{AccountID: "cash", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true,
				TotalDebit: domain.MustMoney("100"), TotalCredit: domain.ZeroMoney, Balance: domain.MustMoney("100")},
			{AccountID: "sales", Code: "4000", Name: "Sales", AccountType: domain.Revenue, IsActive: true,
				TotalDebit: domain.ZeroMoney, TotalCredit: domain.MustMoney("100"), Balance: domain.MustMoney("-100")},
		},
		TotalDebit:  domain.MustMoney("100"),
		TotalCredit: domain.MustMoney("100"),
		IsBalanced:  true,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/trial-balance?start=2024-01-01&end=2024-01-31", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsBalanced)
	suite.Equal("100.00", resp.Totals.Debit)
	suite.Equal("100.00", resp.Totals.Credit)
	suite.Require().Len(resp.Rows, 2)
	suite.Equal("-100.00", resp.Rows[1].Balance)
	suite.Equal("0.00", resp.Rows[0].TotalCredit)
}

func (suite *LedgerHandlerTestSuite) TestTrialBalance_BadRange() {
	w := suite.do(http.MethodGet, "/trial-balance?start=2024-01-01", nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mockReportingService.On("TrialBalance", mock.Anything, testTenant, start, end).
		Return(nil, apperrors.ErrValidation).Once()
	w = suite.do(http.MethodGet, "/trial-balance?start=2024-02-01&end=2024-01-01", nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}
