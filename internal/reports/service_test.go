package reports

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gallery-essence/essence-pos/internal/sales"
)

type fakeSalesPort struct {
	calls atomic.Int64
	data  []sales.Sale
}

func (f *fakeSalesPort) ListByRange(ctx context.Context, from, to time.Time) ([]sales.Sale, error) {
	f.calls.Add(1)
	var out []sales.Sale
	for _, s := range f.data {
		if !s.SoldAt.Before(from) && s.SoldAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func TestDailyUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	soldAt := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	port := &fakeSalesPort{data: []sales.Sale{
		{PaymentMethod: "Efectivo", TotalAmount: 18000, SoldAt: soldAt},
		{PaymentMethod: "Tarjeta", TotalAmount: 55650, SoldAt: soldAt},
	}}
	svc := NewService(port, client, time.Minute, testLogger())
	ctx := context.Background()

	first, err := svc.Daily(ctx, soldAt)
	require.NoError(t, err)
	require.Equal(t, 2, first.SalesCount)
	require.EqualValues(t, 1, port.calls.Load())

	second, err := svc.Daily(ctx, soldAt)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.EqualValues(t, 1, port.calls.Load())
}

func TestDailyWindowExcludesOtherDays(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	port := &fakeSalesPort{data: []sales.Sale{
		{PaymentMethod: "Efectivo", TotalAmount: 10000, SoldAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{PaymentMethod: "Efectivo", TotalAmount: 20000, SoldAt: time.Date(2026, 9, 1, 23, 59, 59, 0, time.UTC)},
		{PaymentMethod: "Efectivo", TotalAmount: 40000, SoldAt: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewService(port, client, time.Minute, testLogger())

	summary, err := svc.Daily(context.Background(), time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 2, summary.SalesCount)
	require.InDelta(t, 30000.0, summary.TotalRevenue, 0.001)
}

func TestRefreshDropsStaleCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	soldAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	port := &fakeSalesPort{data: []sales.Sale{
		{PaymentMethod: "Efectivo", TotalAmount: 18000, SoldAt: soldAt},
	}}
	svc := NewService(port, client, time.Minute, testLogger())
	ctx := context.Background()

	stale, err := svc.Daily(ctx, soldAt)
	require.NoError(t, err)
	require.Equal(t, 1, stale.SalesCount)

	port.data = append(port.data, sales.Sale{PaymentMethod: "Nequi", TotalAmount: 5000, SoldAt: soldAt})

	// Daily still serves the cached value; Refresh recomputes.
	cached, err := svc.Daily(ctx, soldAt)
	require.NoError(t, err)
	require.Equal(t, 1, cached.SalesCount)

	fresh, err := svc.Refresh(ctx, soldAt)
	require.NoError(t, err)
	require.Equal(t, 2, fresh.SalesCount)
}

func TestWriteCSV(t *testing.T) {
	summary := DailySummary{
		Date:           "2026-09-01",
		SalesCount:     2,
		TotalRevenue:   73650,
		TotalSurcharge: 2650,
		ByPaymentMethod: map[string]MethodBreakdown{
			"Tarjeta":  {Count: 1, Amount: 55650},
			"Efectivo": {Count: 1, Amount: 18000},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, summary))
	out := sb.String()

	require.Contains(t, out, "date,2026-09-01")
	require.Contains(t, out, "sales_count,2")
	require.Contains(t, out, "method:Efectivo")
	// Methods appear in sorted order.
	require.Less(t, strings.Index(out, "method:Efectivo"), strings.Index(out, "method:Tarjeta"))
	// es-CO grouping uses a dot for thousands and a comma for decimals.
	require.Contains(t, out, "73.650,00")
}
