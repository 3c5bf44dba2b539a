package sales

import (
	"math"
	"strings"

	"github.com/gallery-essence/essence-pos/internal/catalog"
)

// PricingConfig carries the tunable pricing parameters. All amounts come
// from configuration so the shop can adjust them without a deploy.
type PricingConfig struct {
	CardPaymentMethod         string
	CardSurchargeRate         float64
	ExtraFragranceCostPerGram float64
	DefaultBottleType         string
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// PerfumeUnitPrice prices one custom bottle from its recipe plus the chosen
// extras: pheromone addition and extra fragrance grams.
func PerfumeUnitPrice(rec catalog.Recipe, hasPheromones bool, extraGrams, extraGramCost float64) float64 {
	price := rec.BasePrice
	if hasPheromones {
		price += rec.PheromonePrice
	}
	if extraGrams > 0 {
		price += extraGrams * extraGramCost
	}
	return roundCents(price)
}

// CardSurcharge returns the surcharge for the payment method. The method
// comparison against the configured card method is case-insensitive.
func (c PricingConfig) CardSurcharge(subtotal float64, method string) (float64, bool) {
	if !strings.EqualFold(strings.TrimSpace(method), c.CardPaymentMethod) {
		return 0, false
	}
	return roundCents(subtotal * c.CardSurchargeRate), true
}

// Totals folds resolved line items into the sale-level amounts:
// subtotal = sum(line_total) - discount, total = subtotal + surcharge.
func Totals(items []SaleItem, discount float64, method string, cfg PricingConfig) (subtotal, surcharge, total float64, applied bool) {
	var sum float64
	for _, it := range items {
		sum += it.LineTotal
	}
	subtotal = roundCents(sum - discount)
	surcharge, applied = cfg.CardSurcharge(subtotal, method)
	total = roundCents(subtotal + surcharge)
	return subtotal, surcharge, total, applied
}
