package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

func TestReportCache_Generation(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	cache := NewReportCache(client, time.Minute)

	mock.ExpectGet("gl:gen:t1").RedisNil()
	gen, err := cache.Generation(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	mock.ExpectGet("gl:gen:t1").SetVal("7")
	gen, err = cache.Generation(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), gen)

	mock.ExpectGet("gl:gen:t1").SetErr(errors.New("connection refused"))
	_, err = cache.Generation(ctx, "t1")
	assert.ErrorContains(t, err, "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	cache := NewReportCache(client, time.Minute)

	mock.ExpectIncr("gl:gen:t1").SetVal(1)
	require.NoError(t, cache.Invalidate(ctx, "t1"))

	mock.ExpectIncr("gl:gen:t1").SetErr(errors.New("readonly"))
	assert.Error(t, cache.Invalidate(ctx, "t1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCache_FailedBumpBypassesCacheUntilRetried(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	cache := NewReportCache(client, time.Minute)

	mock.ExpectIncr("gl:gen:t1").SetErr(errors.New("readonly"))
	require.Error(t, cache.Invalidate(ctx, "t1"))

	// Reads still work, but the old generation must not be served.
	mock.ExpectIncr("gl:gen:t1").SetErr(errors.New("readonly"))
	_, err := cache.Generation(ctx, "t1")
	assert.ErrorIs(t, err, ErrGenerationStale)

	// Other tenants are unaffected.
	mock.ExpectGet("gl:gen:t2").SetVal("3")
	gen, err := cache.Generation(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), gen)

	// The retried bump lands and moves t1 to a fresh generation.
	mock.ExpectIncr("gl:gen:t1").SetVal(5)
	gen, err = cache.Generation(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), gen)

	mock.ExpectGet("gl:gen:t1").SetVal("5")
	gen, err = cache.Generation(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), gen)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCache_SuccessfulInvalidateClearsPending(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	cache := NewReportCache(client, time.Minute)

	mock.ExpectIncr("gl:gen:t1").SetErr(errors.New("readonly"))
	require.Error(t, cache.Invalidate(ctx, "t1"))
	mock.ExpectIncr("gl:gen:t1").SetVal(2)
	require.NoError(t, cache.Invalidate(ctx, "t1"))

	mock.ExpectGet("gl:gen:t1").SetVal("2")
	gen, err := cache.Generation(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportCache_GetSet(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	cache := NewReportCache(client, 30*time.Second)

	balance := domain.AccountBalance{
		AccountID:     "cash",
		Code:          "1000",
		NormalBalance: domain.NormalDebit,
		TotalDebit:    domain.MustMoney("100.5"),
		TotalCredit:   domain.MustMoney("0"),
		Balance:       domain.MustMoney("100.5"),
	}
	payload := `{"accountID":"cash","code":"1000","normalBalance":"DEBIT","totalDebit":"100.5","totalCredit":"0","balance":"100.5"}`

	mock.ExpectSet("gl:t1:g0:balance:cash:all", payload, 30*time.Second).SetVal("OK")
	require.NoError(t, cache.Set(ctx, "gl:t1:g0:balance:cash:all", balance))

	mock.ExpectGet("gl:t1:g0:balance:cash:all").SetVal(payload)
	var got domain.AccountBalance
	found, err := cache.Get(ctx, "gl:t1:g0:balance:cash:all", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, got.Balance.Equal(balance.Balance))
	assert.Equal(t, domain.NormalDebit, got.NormalBalance)

	mock.ExpectGet("gl:t1:g1:balance:cash:all").RedisNil()
	found, err = cache.Get(ctx, "gl:t1:g1:balance:cash:all", &got)
	require.NoError(t, err)
	assert.False(t, found)

	mock.ExpectGet("gl:t1:g2:balance:cash:all").SetVal("{not json")
	_, err = cache.Get(ctx, "gl:t1:g2:balance:cash:all", &got)
	assert.ErrorContains(t, err, "failed to decode")

	assert.NoError(t, mock.ExpectationsWereMet())
}
