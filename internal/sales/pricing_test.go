package sales

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gallery-essence/essence-pos/internal/catalog"
)

var testPricing = PricingConfig{
	CardPaymentMethod:         "Tarjeta",
	CardSurchargeRate:         0.05,
	ExtraFragranceCostPerGram: 500,
	DefaultBottleType:         "generico",
}

func TestPerfumeUnitPrice(t *testing.T) {
	rec := catalog.Recipe{BasePrice: 18000, PheromonePrice: 2000}

	require.InDelta(t, 18000.0, PerfumeUnitPrice(rec, false, 0, 500), 0.001)
	require.InDelta(t, 20000.0, PerfumeUnitPrice(rec, true, 0, 500), 0.001)
	require.InDelta(t, 20500.0, PerfumeUnitPrice(rec, false, 5, 500), 0.001)
	require.InDelta(t, 22500.0, PerfumeUnitPrice(rec, true, 5, 500), 0.001)
}

func TestCardSurchargeCaseInsensitive(t *testing.T) {
	for _, method := range []string{"Tarjeta", "tarjeta", "TARJETA", " tarjeta "} {
		surcharge, applied := testPricing.CardSurcharge(53000, method)
		require.True(t, applied, method)
		require.InDelta(t, 2650.0, surcharge, 0.001, method)
	}

	for _, method := range []string{"Efectivo", "Nequi", ""} {
		surcharge, applied := testPricing.CardSurcharge(53000, method)
		require.False(t, applied, method)
		require.InDelta(t, 0.0, surcharge, 0.001, method)
	}
}

func TestCardSurchargeRoundsToCents(t *testing.T) {
	surcharge, applied := testPricing.CardSurcharge(10001, "Tarjeta")
	require.True(t, applied)
	require.InDelta(t, 500.05, surcharge, 0.0001)
}

func TestTotals(t *testing.T) {
	items := []SaleItem{
		{LineTotal: 55000},
		{LineTotal: 12000},
	}

	subtotal, surcharge, total, applied := Totals(items, 2000, "Tarjeta", testPricing)
	require.InDelta(t, 65000.0, subtotal, 0.001)
	require.InDelta(t, 3250.0, surcharge, 0.001)
	require.InDelta(t, 68250.0, total, 0.001)
	require.True(t, applied)

	subtotal, surcharge, total, applied = Totals(items, 2000, "Efectivo", testPricing)
	require.InDelta(t, 65000.0, subtotal, 0.001)
	require.InDelta(t, 0.0, surcharge, 0.001)
	require.InDelta(t, 65000.0, total, 0.001)
	require.False(t, applied)
}

func TestTotalsOrderInsensitive(t *testing.T) {
	items := []SaleItem{{LineTotal: 18000}, {LineTotal: 55000}, {LineTotal: 7500}}
	reversed := []SaleItem{{LineTotal: 7500}, {LineTotal: 55000}, {LineTotal: 18000}}

	s1, c1, t1, _ := Totals(items, 1000, "Tarjeta", testPricing)
	s2, c2, t2, _ := Totals(reversed, 1000, "Tarjeta", testPricing)
	require.InDelta(t, s1, s2, 0.0001)
	require.InDelta(t, c1, c2, 0.0001)
	require.InDelta(t, t1, t2, 0.0001)
}
