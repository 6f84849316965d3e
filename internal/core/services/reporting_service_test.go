package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/repositories/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountBalance_NormalSideAndAsOf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.post(t, "2024-01-10", debit("cash", "100"), credit("sales", "100"))
	f.post(t, "2024-01-20", debit("rent", "30"), credit("cash", "30"))

	cash := f.balance(t, "cash", nil)
	assert.Equal(t, domain.NormalDebit, cash.NormalBalance)
	assert.Equal(t, "1000", cash.Code)
	assert.True(t, cash.TotalDebit.Equal(domain.MustMoney("100")))
	assert.True(t, cash.TotalCredit.Equal(domain.MustMoney("30")))
	assert.True(t, cash.Balance.Equal(domain.MustMoney("70")))

	sales := f.balance(t, "sales", nil)
	assert.Equal(t, domain.NormalCredit, sales.NormalBalance)
	assert.True(t, sales.Balance.Equal(domain.MustMoney("100")), "credit-normal accounts report positive credit balances")

	before := day("2024-01-15")
	assert.True(t, f.balance(t, "cash", &before).Balance.Equal(domain.MustMoney("100")))
	onTheDay := day("2024-01-20")
	b := f.balance(t, "cash", &onTheDay)
	assert.True(t, b.Balance.Equal(domain.MustMoney("70")), "asOf includes the whole day")
	require.NotNil(t, b.AsOf)

	idle := f.balance(t, "bank", nil)
	assert.True(t, idle.TotalDebit.IsZero())
	assert.True(t, idle.Balance.IsZero())

	_, err := f.reports.AccountBalance(ctx, testTenant, "ghost", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTrialBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.post(t, "2023-12-31", debit("cash", "999"), credit("sales", "999"))
	f.post(t, "2024-01-10", debit("cash", "100.005"), credit("sales", "100.005"))
	f.post(t, "2024-01-31", debit("rent", "30"), credit("cash", "30"))
	f.post(t, "2024-02-01", debit("cash", "1"), credit("sales", "1"))

	tb, err := f.reports.TrialBalance(ctx, testTenant, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)

	codes := make([]string, len(tb.Rows))
	for i, r := range tb.Rows {
		codes[i] = r.Code
	}
	assert.Equal(t, []string{"1000", "1010", "4000", "5000"}, codes, "active accounts zero-filled, inactive without activity omitted")

	byID := make(map[string]domain.TrialBalanceRow)
	for _, r := range tb.Rows {
		byID[r.AccountID] = r
	}
	assert.True(t, byID["cash"].TotalDebit.Equal(domain.MustMoney("100.005")))
	assert.True(t, byID["cash"].TotalCredit.Equal(domain.MustMoney("30")))
	assert.True(t, byID["cash"].Balance.Equal(domain.MustMoney("70.005")))
	assert.True(t, byID["bank"].TotalDebit.IsZero())
	assert.True(t, byID["sales"].Balance.Equal(domain.MustMoney("-100.005")), "trial balance rows are debit minus credit")
	assert.Equal(t, "Rent", byID["rent"].Name)
	assert.Equal(t, domain.Expense, byID["rent"].AccountType)

	assert.True(t, tb.TotalDebit.Equal(domain.MustMoney("130.005")))
	assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit))
	assert.True(t, tb.IsBalanced)
	assert.Equal(t, day("2024-01-01"), tb.StartDate)
	assert.Equal(t, day("2024-01-31"), tb.EndDate)

	single, err := f.reports.TrialBalance(ctx, testTenant, day("2024-02-01"), day("2024-02-01"))
	require.NoError(t, err)
	assert.True(t, single.TotalDebit.Equal(domain.MustMoney("1")))
}

func TestTrialBalance_InactiveAccountWithActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.registry.SetAccountActive(testTenant, "old", true, "admin"))
	f.post(t, "2024-01-10", debit("old", "25"), credit("sales", "25"))
	require.NoError(t, f.registry.SetAccountActive(testTenant, "old", false, "admin"))

	tb, err := f.reports.TrialBalance(ctx, testTenant, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)

	var old *domain.TrialBalanceRow
	for i := range tb.Rows {
		if tb.Rows[i].AccountID == "old" {
			old = &tb.Rows[i]
		}
	}
	require.NotNil(t, old)
	assert.False(t, old.IsActive)
	assert.True(t, old.TotalDebit.Equal(domain.MustMoney("25")))
	assert.True(t, tb.IsBalanced)
}

func TestTrialBalance_StartAfterEnd(t *testing.T) {
	f := newFixture(t)
	_, err := f.reports.TrialBalance(context.Background(), testTenant, day("2024-02-01"), day("2024-01-01"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTrialBalance_IncludesReversedEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	original := f.post(t, "2024-01-10", debit("cash", "40"), credit("sales", "40"))
	_, err := f.journal.Reverse(ctx, testTenant, original.EntryID, day("2024-01-12"), testUser)
	require.NoError(t, err)

	tb, err := f.reports.TrialBalance(ctx, testTenant, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, tb.TotalDebit.Equal(domain.MustMoney("80")), "both the reversed original and its mirror count")
	for _, r := range tb.Rows {
		assert.True(t, r.Balance.IsZero(), "account %s", r.AccountID)
	}
}

func TestReports_CacheServesUntilNextCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.post(t, "2024-01-10", debit("cash", "10"), credit("sales", "10"))

	first, err := f.reports.TrialBalance(ctx, testTenant, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.hitCount())

	second, err := f.reports.TrialBalance(ctx, testTenant, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hitCount())
	assert.True(t, first.TotalDebit.Equal(second.TotalDebit))
	assert.Len(t, second.Rows, len(first.Rows))

	f.post(t, "2024-01-11", debit("cash", "5"), credit("sales", "5"))

	third, err := f.reports.TrialBalance(ctx, testTenant, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hitCount(), "a commit moves reports to a new generation")
	assert.True(t, third.TotalDebit.Equal(domain.MustMoney("15")))

	b1 := f.balance(t, "cash", nil)
	b2 := f.balance(t, "cash", nil)
	assert.Equal(t, 2, f.cache.hitCount())
	assert.True(t, b1.Balance.Equal(b2.Balance))
}

func TestReports_UnknownGenerationComputesFresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.post(t, "2024-01-10", debit("cash", "10"), credit("sales", "10"))
	_, err := f.reports.TrialBalance(ctx, testTenant, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)

	// The bump after this post is lost and the generation stays unreadable.
	f.cache.invalidateErr = errors.New("readonly")
	f.cache.generationErr = errors.New("report generation bump outstanding")
	f.post(t, "2024-01-11", debit("cash", "5"), credit("sales", "5"))

	tb, err := f.reports.TrialBalance(ctx, testTenant, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, tb.TotalDebit.Equal(domain.MustMoney("15")))
	assert.Equal(t, 0, f.cache.hitCount())
	assert.True(t, f.balance(t, "cash", nil).Balance.Equal(domain.MustMoney("15")))
}

func TestReports_WorkWithoutCache(t *testing.T) {
	registry := memory.NewAccountRegistry()
	registry.SaveAccount(domain.Account{TenantID: "t1", AccountID: "cash", Code: "1000", AccountType: domain.Asset, IsActive: true})
	store := memory.NewLedgerStore()
	reports := services.NewReportingService(registry, store)

	b, err := reports.AccountBalance(context.Background(), "t1", "cash", nil)
	require.NoError(t, err)
	assert.True(t, b.Balance.IsZero())

	tb, err := reports.TrialBalance(context.Background(), "t1", day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, tb.Rows, 1)
	assert.True(t, tb.IsBalanced)
}
