package reports

import (
	"math"
	"time"

	"github.com/gallery-essence/essence-pos/internal/sales"
)

// MethodBreakdown aggregates sales for one payment method.
type MethodBreakdown struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// DailySummary aggregates committed sales for one calendar day (UTC).
type DailySummary struct {
	Date            string                     `json:"date"`
	SalesCount      int                        `json:"sales_count"`
	TotalRevenue    float64                    `json:"total_revenue"`
	TotalDiscount   float64                    `json:"total_discount"`
	TotalSurcharge  float64                    `json:"total_surcharge"`
	ByPaymentMethod map[string]MethodBreakdown `json:"by_payment_method"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summarize folds sales into a daily summary. The fold is associative and
// insensitive to input ordering; per-method counts sum to the total count.
func Summarize(day time.Time, committed []sales.Sale) DailySummary {
	summary := DailySummary{
		Date:            day.UTC().Format("2006-01-02"),
		ByPaymentMethod: make(map[string]MethodBreakdown),
	}
	for _, sale := range committed {
		summary.SalesCount++
		summary.TotalRevenue += sale.TotalAmount
		summary.TotalDiscount += sale.DiscountAmount
		summary.TotalSurcharge += sale.SurchargeAmount

		mb := summary.ByPaymentMethod[sale.PaymentMethod]
		mb.Count++
		mb.Amount += sale.TotalAmount
		summary.ByPaymentMethod[sale.PaymentMethod] = mb
	}
	summary.TotalRevenue = round2(summary.TotalRevenue)
	summary.TotalDiscount = round2(summary.TotalDiscount)
	summary.TotalSurcharge = round2(summary.TotalSurcharge)
	for method, mb := range summary.ByPaymentMethod {
		mb.Amount = round2(mb.Amount)
		summary.ByPaymentMethod[method] = mb
	}
	return summary
}
