package inventory

import "time"

// PurchaseBatch records one bulk ingredient purchase and its derived
// per-millilitre cost.
type PurchaseBatch struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Description          *string   `json:"description,omitempty"`
	PurchaseUnitCost     float64   `json:"purchase_unit_cost"`
	PurchaseUnitVolumeML float64   `json:"purchase_unit_volume_ml"`
	CostPerML            float64   `json:"cost_per_ml"`
	CurrentStockML       float64   `json:"current_stock_ml"`
	PurchaseDate         time.Time `json:"purchase_date"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// CostPerUnitVolume derives the per-millilitre cost of a purchase.
// A non-positive volume yields 0 rather than a division error, so an
// unpriced or placeholder batch never poisons downstream estimates.
func CostPerUnitVolume(unitCost, volumeML float64) float64 {
	if volumeML <= 0 {
		return 0
	}
	return unitCost / volumeML
}
