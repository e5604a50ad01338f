package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/jeovahfialho/stock-dashboard/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(code int64, date, change string) domain.Snapshot {
	s := domain.Snapshot{
		ID:         code,
		Code:       code,
		UpdateDate: domain.MustParseDate(date),
	}
	if change != "" {
		s.LatestChangePct = decimal.NewNullDecimal(decimal.RequireFromString(change))
	}
	return s
}

func fixtureStore() *memory.Store {
	return memory.NewStore(
		snapshot(1, "2024-01-01", "1.5"),
		snapshot(2, "2024-01-01", "-2"),
		snapshot(3, "2024-01-02", "0.5"),
		snapshot(4, "2024-01-02", ""),
		snapshot(5, "2024-01-02", "9.9"),
		snapshot(6, "2024-01-02", "-4"),
	)
}

func codes(rows []domain.Snapshot) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.Code
	}
	return out
}

func TestGetStocksByDate(t *testing.T) {
	svc := NewStockService(fixtureStore(), 100, 1000)

	rows, err := svc.GetStocksByDate(context.Background(), domain.MustParseDate("2024-01-02"))
	require.NoError(t, err)

	assert.Equal(t, []int64{5, 3, 6, 4}, codes(rows))
	for _, r := range rows {
		assert.Equal(t, "2024-01-02", r.UpdateDate.String())
	}
}

func TestGetStocksByDateEmpty(t *testing.T) {
	svc := NewStockService(fixtureStore(), 100, 1000)

	rows, err := svc.GetStocksByDate(context.Background(), domain.MustParseDate("2023-12-31"))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestGetLatestStocks(t *testing.T) {
	svc := NewStockService(fixtureStore(), 3, 5)

	t.Run("newest date first then change desc", func(t *testing.T) {
		rows, err := svc.GetLatestStocks(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, []int64{5, 3, 6, 4, 1}, codes(rows))
	})

	t.Run("invalid limit falls back to default", func(t *testing.T) {
		for _, limit := range []int{0, -1, 6} {
			rows, err := svc.GetLatestStocks(context.Background(), limit)
			require.NoError(t, err)
			assert.Len(t, rows, 3)
		}
	})
}

func TestGetAvailableDates(t *testing.T) {
	svc := NewStockService(fixtureStore(), 100, 1000)

	dates, err := svc.GetAvailableDates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-02", "2024-01-01"}, dates)
}

func TestGetStockStats(t *testing.T) {
	svc := NewStockService(fixtureStore(), 100, 1000)
	ctx := context.Background()

	t.Run("latest date", func(t *testing.T) {
		stats, err := svc.GetStockStats(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalCount)
		assert.Equal(t, 2, stats.PositiveCount)
		assert.Equal(t, 1, stats.NegativeCount)
		assert.True(t, decimal.RequireFromString("1.6").Equal(stats.AvgChangePct), stats.AvgChangePct.String())
	})

	t.Run("explicit date", func(t *testing.T) {
		date := domain.MustParseDate("2024-01-01")
		stats, err := svc.GetStockStats(ctx, &date)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalCount)
		assert.True(t, decimal.RequireFromString("-0.25").Equal(stats.AvgChangePct))
	})

	t.Run("empty table", func(t *testing.T) {
		empty := NewStockService(memory.NewStore(), 100, 1000)
		stats, err := empty.GetStockStats(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.Stats{AvgChangePct: decimal.Zero}, stats)
	})
}

func TestStoreFailureBecomesQueryError(t *testing.T) {
	store := memory.NewStore()
	store.Err = errors.New("connection refused")
	svc := NewStockService(store, 100, 1000)
	ctx := context.Background()

	calls := map[string]func() error{
		"latest": func() error { _, err := svc.GetLatestStocks(ctx, 10); return err },
		"by date": func() error {
			_, err := svc.GetStocksByDate(ctx, domain.MustParseDate("2024-01-02"))
			return err
		},
		"dates": func() error { _, err := svc.GetAvailableDates(ctx); return err },
		"stats": func() error { _, err := svc.GetStockStats(ctx, nil); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)

			var qerr *domain.QueryError
			require.True(t, errors.As(err, &qerr))
			assert.Contains(t, err.Error(), "connection refused")
			assert.ErrorIs(t, err, store.Err)
		})
	}
}

func TestNewStockServiceLimits(t *testing.T) {
	svc := NewStockService(memory.NewStore(), 0, 0)
	assert.Equal(t, 100, svc.ClampLimit(0))
	assert.Equal(t, 50, svc.ClampLimit(50))
	assert.Equal(t, 100, svc.ClampLimit(101))
}
