package sales

import (
	"time"

	"github.com/google/uuid"
)

// ProductType classifies a sale line.
type ProductType string

const (
	// ProductTypePerfume is a custom bottle composed from a recipe.
	ProductTypePerfume ProductType = "perfume"
	// ProductTypeFinished is a pre-made product sold as-is.
	ProductTypeFinished ProductType = "finished_product"
	// ProductTypeAccessory covers atomizers, boxes and similar add-ons.
	ProductTypeAccessory ProductType = "accessory"
)

// RecipeSnapshot freezes the ingredient quantities of the recipe used at
// sale time. Later recipe edits never alter committed sales.
type RecipeSnapshot struct {
	FragranceGrams       float64 `json:"fragrance_grams"`
	FijadorDrops         int     `json:"fijador_drops"`
	PotencializadorDrops int     `json:"potencializador_drops"`
	ConcentradoDrops     int     `json:"concentrado_drops"`
}

// Sale is one committed transaction with its line items.
type Sale struct {
	ID              int64      `json:"id"`
	PublicID        uuid.UUID  `json:"public_id"`
	CustomerID      *int64     `json:"customer_id,omitempty"`
	PaymentMethod   string     `json:"payment_method"`
	Subtotal        float64    `json:"subtotal"`
	DiscountAmount  float64    `json:"discount_amount"`
	DiscountReason  *string    `json:"discount_reason,omitempty"`
	SurchargeAmount float64    `json:"surcharge_amount"`
	CardSurcharge   bool       `json:"card_surcharge_applied"`
	TotalAmount     float64    `json:"total_amount"`
	Notes           *string    `json:"notes,omitempty"`
	SoldAt          time.Time  `json:"sold_at"`
	Items           []SaleItem `json:"items,omitempty"`
}

// SaleItem is one resolved line of a sale.
type SaleItem struct {
	ID                  int64           `json:"id"`
	SaleID              int64           `json:"sale_id"`
	LineOrder           int             `json:"line_order"`
	ProductType         ProductType     `json:"product_type"`
	RecipeID            *int64          `json:"recipe_id,omitempty"`
	ItemName            string          `json:"item_name"`
	SizeML              *int            `json:"size_ml,omitempty"`
	FragranceType       *string         `json:"fragrance_type,omitempty"`
	BottleType          *string         `json:"bottle_type,omitempty"`
	HasPheromones       bool            `json:"has_pheromones"`
	ExtraFragranceGrams float64         `json:"extra_fragrance_grams"`
	Quantity            int             `json:"quantity"`
	UnitPrice           float64         `json:"unit_price"`
	LineTotal           float64         `json:"line_total"`
	RecipeSnapshot      *RecipeSnapshot `json:"recipe_snapshot,omitempty"`
}
