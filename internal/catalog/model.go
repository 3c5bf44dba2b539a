package catalog

import "time"

// Recipe is a perfume formula for one bottle configuration. A configuration
// is the triple (size_ml, fragrance_type, bottle_type); at most one active
// recipe exists per triple.
type Recipe struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	SizeML               int       `json:"size_ml"`
	FragranceType        string    `json:"fragrance_type"`
	BottleType           string    `json:"bottle_type"`
	FragranceGrams       float64   `json:"fragrance_grams"`
	FijadorDrops         int       `json:"fijador_drops"`
	PotencializadorDrops int       `json:"potencializador_drops"`
	ConcentradoDrops     int       `json:"concentrado_drops"`
	BasePrice            float64   `json:"base_price"`
	PheromonePrice       float64   `json:"pheromone_addition_price"`
	EstimatedCost        *float64  `json:"estimated_cost,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Spec identifies the bottle configuration a recipe applies to.
type Spec struct {
	SizeML        int
	FragranceType string
	BottleType    string
}
