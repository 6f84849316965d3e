package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/handlers"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testTenant = "tenant-1"
	testUser   = "user-1"
)

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockJournalService   *MockJournalService
	mockAccountService   *MockAccountService
	mockReportingService *MockReportingService
	jwtSecret            string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *LedgerHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "gl-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterValidators())

	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockJournalService = new(MockJournalService)
	suite.mockAccountService = new(MockAccountService)
	suite.mockReportingService = new(MockReportingService)

	tenant := suite.router.Group("/api/v1/tenants/:tenant_id")
	handlers.RegisterJournalRoutes(tenant, suite.mockJournalService, 2)
	handlers.RegisterAccountRoutes(tenant, suite.mockAccountService, suite.mockReportingService, 2)
	handlers.RegisterReportingRoutes(tenant, suite.mockReportingService, 2)
}

func (suite *LedgerHandlerTestSuite) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, "/api/v1/tenants/"+testTenant+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testUser))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func validEntryBody() map[string]any {
	return map[string]any{
		"entryDate":   "2024-01-31",
		"description": "Cash sale",
		"lines": []map[string]any{
			{"accountID": "cash", "lineType": "DEBIT", "amount": "100.005"},
			{"accountID": "sales", "lineType": "CREDIT", "amount": "100.005"},
		},
	}
}

func postedEntry() *domain.JournalEntry {
	seq := int64(1)
	return &domain.JournalEntry{
		EntryID:        "entry-1",
		TenantID:       testTenant,
		EntryDate:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		SequenceNumber: &seq,
		Description:    "Cash sale",
		Status:         domain.Posted,
		Lines: []domain.JournalLine{
			{LineID: "l1", AccountID: "cash", LineType: domain.Debit, Amount: domain.MustMoney("100.005")},
			{LineID: "l2", AccountID: "sales", LineType: domain.Credit, Amount: domain.MustMoney("100.005")},
		},
	}
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestPostEntry_Success() {
	suite.mockJournalService.On("PostEntry", mock.Anything, testTenant,
		mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
			return len(req.Lines) == 2 && req.Lines[0].Amount.Equal(domain.MustMoney("100.005"))
		}),
		"req-42", testUser,
	).Return(postedEntry(), nil).Once()

	w := suite.do(http.MethodPost, "/entries", validEntryBody(), map[string]string{"Idempotency-Key": "req-42"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("entry-1", resp.EntryID)
	suite.Equal("2024-01-31", resp.EntryDate)
	suite.Equal("100.01", resp.Lines[0].Amount, "half away from zero at the response boundary")
	suite.Equal("100.01", resp.TotalDebit)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestPostEntry_Unbalanced() {
	verr := domain.NewUnbalancedError(domain.MustMoney("100"), domain.MustMoney("90.5"))
	suite.mockJournalService.On("PostEntry", mock.Anything, testTenant, mock.Anything, "", testUser).
		Return(nil, verr).Once()

	w := suite.do(http.MethodPost, "/entries", validEntryBody(), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	resp := suite.decodeError(w)
	suite.Require().NotNil(resp.Detail)
	suite.Equal("UNBALANCED", resp.Detail.Kind)
	suite.Equal("100", resp.Detail.TotalDebit)
	suite.Equal("90.5", resp.Detail.TotalCredit)
}

func (suite *LedgerHandlerTestSuite) TestPostEntry_NonPositiveAmountReportsLine() {
	suite.mockJournalService.On("PostEntry", mock.Anything, testTenant, mock.Anything, "", testUser).
		Return(nil, domain.NewNonPositiveAmountError(1)).Once()

	w := suite.do(http.MethodPost, "/entries", validEntryBody(), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	resp := suite.decodeError(w)
	suite.Require().NotNil(resp.Detail)
	suite.Equal("NON_POSITIVE_AMOUNT", resp.Detail.Kind)
	suite.Require().NotNil(resp.Detail.LineIndex)
	suite.Equal(1, *resp.Detail.LineIndex)
}

func (suite *LedgerHandlerTestSuite) TestPostEntry_BindingErrors() {
	badDate := validEntryBody()
	badDate["entryDate"] = "31/01/2024"

	badLineType := validEntryBody()
	badLineType["lines"] = []map[string]any{{"accountID": "cash", "lineType": "SIDEWAYS", "amount": "1"}}

	tinyAmount := validEntryBody()
	tinyAmount["lines"] = []map[string]any{
		{"accountID": "cash", "lineType": "DEBIT", "amount": "1e-900000000"},
		{"accountID": "sales", "lineType": "CREDIT", "amount": "1"},
	}

	manyLines := validEntryBody()
	lines := make([]map[string]any, dto.MaxEntryLines+1)
	for i := range lines {
		lines[i] = map[string]any{"accountID": "cash", "lineType": "DEBIT", "amount": "1"}
	}
	manyLines["lines"] = lines

	for name, body := range map[string]any{
		"bad date":                  badDate,
		"bad line type":             badLineType,
		"not an object":             "nope",
		"amount exponent unbounded": tinyAmount,
		"more lines than allowed":   manyLines,
	} {
		suite.Run(name, func() {
			w := suite.do(http.MethodPost, "/entries", body, nil)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockJournalService.AssertNotCalled(suite.T(), "PostEntry")
}

func (suite *LedgerHandlerTestSuite) TestPostEntry_RejectsOverPreciseAmount() {
	body := validEntryBody()
	body["lines"] = []map[string]any{
		{"accountID": "cash", "lineType": "DEBIT", "amount": "0.0000000000000000001"},
		{"accountID": "sales", "lineType": "CREDIT", "amount": "0.0000000000000000001"},
	}

	w := suite.do(http.MethodPost, "/entries", body, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decodeError(w).Error, "fractional digits")
	suite.mockJournalService.AssertNotCalled(suite.T(), "PostEntry")
}

func (suite *LedgerHandlerTestSuite) TestPostEntry_BusyLedgerIsRetryable() {
	busy := apperrors.NewConcurrencyError("timed out waiting for tenant ledger lock", errors.New("deadline"))
	suite.mockJournalService.On("PostEntry", mock.Anything, testTenant, mock.Anything, "", testUser).
		Return(nil, busy).Once()

	w := suite.do(http.MethodPost, "/entries", validEntryBody(), nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.True(suite.decodeError(w).Retryable)
}

func (suite *LedgerHandlerTestSuite) TestPostEntry_InternalErrorIsOpaque() {
	suite.mockJournalService.On("PostEntry", mock.Anything, testTenant, mock.Anything, "", testUser).
		Return(nil, errors.New("pq: connection reset")).Once()

	w := suite.do(http.MethodPost, "/entries", validEntryBody(), nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	resp := suite.decodeError(w)
	suite.Equal("Failed to post entry", resp.Error)
	suite.False(resp.Retryable)
}

func (suite *LedgerHandlerTestSuite) TestRequiresAuthentication() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/tenants/"+testTenant+"/entries/entry-1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "GetEntry")
}

func (suite *LedgerHandlerTestSuite) TestGetEntry_NotFound() {
	suite.mockJournalService.On("GetEntry", mock.Anything, testTenant, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/entries/missing", nil, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestListEntries() {
	token := "next"
	suite.mockJournalService.On("ListEntries", mock.Anything, testTenant,
		dto.ListEntriesParams{Limit: 2, Status: "POSTED"},
	).Return(&dto.ListEntriesResponse{
		Entries:   dto.ToJournalEntryResponses([]domain.JournalEntry{*postedEntry()}, 2),
		NextToken: &token,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/entries?limit=2&status=POSTED", nil, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)

	w = suite.do(http.MethodGet, "/entries?limit=500", nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.do(http.MethodGet, "/entries?status=PENDING", nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestReverseEntry() {
	reversalDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	reversal := postedEntry()
	reversal.EntryID = "entry-2"
	suite.mockJournalService.On("Reverse", mock.Anything, testTenant, "entry-1", reversalDate, testUser).
		Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/entries/entry-1/reverse", map[string]string{"reversalDate": "2024-02-01"}, nil)
	suite.Equal(http.StatusCreated, w.Code)

	suite.mockJournalService.On("Reverse", mock.Anything, testTenant, "entry-1", mock.AnythingOfType("time.Time"), testUser).
		Return(nil, domain.ErrAlreadyReversed).Once()
	w = suite.do(http.MethodPost, "/entries/entry-1/reverse", nil, nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/entries/entry-1/reverse", map[string]string{"reversalDate": "tomorrow"}, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestDraftLifecycle() {
	draft := postedEntry()
	draft.Status = domain.Draft
	draft.SequenceNumber = nil

	suite.mockJournalService.On("CreateDraft", mock.Anything, testTenant, mock.Anything, testUser).Return(draft, nil).Once()
	w := suite.do(http.MethodPost, "/drafts", validEntryBody(), nil)
	suite.Equal(http.StatusCreated, w.Code)

	suite.mockJournalService.On("UpdateDraft", mock.Anything, testTenant, "entry-1", mock.Anything, testUser).
		Return(nil, domain.ErrNotDraftCreator).Once()
	w = suite.do(http.MethodPut, "/drafts/entry-1", validEntryBody(), nil)
	suite.Equal(http.StatusForbidden, w.Code)

	suite.mockJournalService.On("PostDraft", mock.Anything, testTenant, "entry-1", testUser).Return(postedEntry(), nil).Once()
	w = suite.do(http.MethodPost, "/drafts/entry-1/post", nil, nil)
	suite.Equal(http.StatusOK, w.Code)

	suite.mockJournalService.On("DeleteDraft", mock.Anything, testTenant, "entry-1", testUser).Return(domain.ErrNotDraft).Once()
	w = suite.do(http.MethodDelete, "/drafts/entry-1", nil, nil)
	suite.Equal(http.StatusConflict, w.Code)

	suite.mockJournalService.On("DeleteDraft", mock.Anything, testTenant, "entry-9", testUser).Return(nil).Once()
	w = suite.do(http.MethodDelete, "/drafts/entry-9", nil, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	suite.mockJournalService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
