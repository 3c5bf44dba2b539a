package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gallery-essence/essence-pos/internal/sales"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d.UTC()
}

func TestSummarizeEmptyDay(t *testing.T) {
	summary := Summarize(day(t, "2026-09-01"), nil)
	require.Equal(t, "2026-09-01", summary.Date)
	require.Zero(t, summary.SalesCount)
	require.InDelta(t, 0.0, summary.TotalRevenue, 0.001)
	require.Empty(t, summary.ByPaymentMethod)
}

func TestSummarizeBreakdownSumsToTotal(t *testing.T) {
	committed := []sales.Sale{
		{PaymentMethod: "Efectivo", TotalAmount: 18000},
		{PaymentMethod: "Tarjeta", TotalAmount: 55650, SurchargeAmount: 2650, DiscountAmount: 2000},
		{PaymentMethod: "Nequi", TotalAmount: 32000},
		{PaymentMethod: "Efectivo", TotalAmount: 7500},
	}

	summary := Summarize(day(t, "2026-09-01"), committed)
	require.Equal(t, 4, summary.SalesCount)
	require.InDelta(t, 113150.0, summary.TotalRevenue, 0.001)
	require.InDelta(t, 2000.0, summary.TotalDiscount, 0.001)
	require.InDelta(t, 2650.0, summary.TotalSurcharge, 0.001)

	require.Equal(t, 2, summary.ByPaymentMethod["Efectivo"].Count)
	require.InDelta(t, 25500.0, summary.ByPaymentMethod["Efectivo"].Amount, 0.001)
	require.Equal(t, 1, summary.ByPaymentMethod["Tarjeta"].Count)
	require.Equal(t, 1, summary.ByPaymentMethod["Nequi"].Count)

	methodCount := 0
	for _, mb := range summary.ByPaymentMethod {
		methodCount += mb.Count
	}
	require.Equal(t, summary.SalesCount, methodCount)
}

func TestSummarizeOrderInsensitive(t *testing.T) {
	committed := []sales.Sale{
		{PaymentMethod: "Efectivo", TotalAmount: 18000},
		{PaymentMethod: "Tarjeta", TotalAmount: 55650},
		{PaymentMethod: "Nequi", TotalAmount: 32000},
	}
	reversed := []sales.Sale{committed[2], committed[1], committed[0]}

	a := Summarize(day(t, "2026-09-01"), committed)
	b := Summarize(day(t, "2026-09-01"), reversed)
	require.Equal(t, a, b)
}
