package sales

import "time"

// CreateSaleItemRequest is one requested line before resolution.
type CreateSaleItemRequest struct {
	ProductType         string   `json:"product_type" validate:"required"`
	ItemName            string   `json:"item_name" validate:"required"`
	Quantity            int      `json:"quantity" validate:"required,gt=0"`
	UnitPrice           *float64 `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
	SizeML              *int     `json:"size_ml,omitempty" validate:"omitempty,gt=0"`
	FragranceType       *string  `json:"fragrance_type,omitempty"`
	BottleType          *string  `json:"bottle_type,omitempty"`
	HasPheromones       bool     `json:"has_pheromones"`
	ExtraFragranceGrams float64  `json:"extra_fragrance_grams" validate:"gte=0"`
}

// CreateSaleRequest is the payload for committing a sale.
type CreateSaleRequest struct {
	CustomerID     *int64                  `json:"customer_id,omitempty"`
	PaymentMethod  string                  `json:"payment_method" validate:"required"`
	DiscountAmount float64                 `json:"discount_amount" validate:"gte=0"`
	DiscountReason *string                 `json:"discount_reason,omitempty"`
	Notes          *string                 `json:"notes,omitempty"`
	Items          []CreateSaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ListSalesRequest filters the sale listing.
type ListSalesRequest struct {
	From       time.Time
	To         time.Time
	CustomerID *int64
	Limit      int
	Offset     int
}
