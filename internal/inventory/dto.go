package inventory

import "time"

// CreatePurchaseBatchRequest is the payload for registering a purchase.
type CreatePurchaseBatchRequest struct {
	Name                 string     `json:"name" validate:"required"`
	Description          *string    `json:"description,omitempty"`
	PurchaseUnitCost     float64    `json:"purchase_unit_cost" validate:"gte=0"`
	PurchaseUnitVolumeML float64    `json:"purchase_unit_volume_ml" validate:"gte=0"`
	CurrentStockML       float64    `json:"current_stock_ml" validate:"gte=0"`
	PurchaseDate         *time.Time `json:"purchase_date,omitempty"`
}

// UpdatePurchaseBatchRequest carries a partial update; nil fields keep
// stored values.
type UpdatePurchaseBatchRequest struct {
	Name                 *string    `json:"name,omitempty"`
	Description          *string    `json:"description,omitempty"`
	PurchaseUnitCost     *float64   `json:"purchase_unit_cost,omitempty" validate:"omitempty,gte=0"`
	PurchaseUnitVolumeML *float64   `json:"purchase_unit_volume_ml,omitempty" validate:"omitempty,gte=0"`
	CurrentStockML       *float64   `json:"current_stock_ml,omitempty" validate:"omitempty,gte=0"`
	PurchaseDate         *time.Time `json:"purchase_date,omitempty"`
}

// ListPurchaseBatchesRequest filters the batch listing.
type ListPurchaseBatchesRequest struct {
	Name   string
	Limit  int
	Offset int
}
