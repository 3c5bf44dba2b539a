package reports

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteCSV writes the summary as a small key/value CSV. Amounts are
// formatted with Colombian grouping since receipts are issued in COP.
func WriteCSV(w io.Writer, summary DailySummary) error {
	cw := csv.NewWriter(w)
	p := message.NewPrinter(language.MustParse("es-CO"))

	rows := [][]string{
		{"date", summary.Date},
		{"sales_count", strconv.Itoa(summary.SalesCount)},
		{"total_revenue", p.Sprintf("%.2f", summary.TotalRevenue)},
		{"total_discount", p.Sprintf("%.2f", summary.TotalDiscount)},
		{"total_surcharge", p.Sprintf("%.2f", summary.TotalSurcharge)},
	}

	methods := make([]string, 0, len(summary.ByPaymentMethod))
	for method := range summary.ByPaymentMethod {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	for _, method := range methods {
		mb := summary.ByPaymentMethod[method]
		rows = append(rows, []string{"method:" + method, strconv.Itoa(mb.Count), p.Sprintf("%.2f", mb.Amount)})
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
