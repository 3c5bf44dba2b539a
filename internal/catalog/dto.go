package catalog

// CreateRecipeRequest is the payload for registering a new recipe.
type CreateRecipeRequest struct {
	Name                 string   `json:"name" validate:"required"`
	SizeML               int      `json:"size_ml" validate:"required,gt=0"`
	FragranceType        string   `json:"fragrance_type" validate:"required"`
	BottleType           string   `json:"bottle_type" validate:"required"`
	FragranceGrams       float64  `json:"fragrance_grams" validate:"gte=0"`
	FijadorDrops         int      `json:"fijador_drops" validate:"gte=0"`
	PotencializadorDrops int      `json:"potencializador_drops" validate:"gte=0"`
	ConcentradoDrops     int      `json:"concentrado_drops" validate:"gte=0"`
	BasePrice            float64  `json:"base_price" validate:"required,gt=0"`
	PheromonePrice       float64  `json:"pheromone_addition_price" validate:"gte=0"`
	EstimatedCost        *float64 `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`
}

// UpdateRecipeRequest carries a partial update; nil fields keep stored values.
type UpdateRecipeRequest struct {
	Name                 *string  `json:"name,omitempty"`
	SizeML               *int     `json:"size_ml,omitempty" validate:"omitempty,gt=0"`
	FragranceType        *string  `json:"fragrance_type,omitempty"`
	BottleType           *string  `json:"bottle_type,omitempty"`
	FragranceGrams       *float64 `json:"fragrance_grams,omitempty" validate:"omitempty,gte=0"`
	FijadorDrops         *int     `json:"fijador_drops,omitempty" validate:"omitempty,gte=0"`
	PotencializadorDrops *int     `json:"potencializador_drops,omitempty" validate:"omitempty,gte=0"`
	ConcentradoDrops     *int     `json:"concentrado_drops,omitempty" validate:"omitempty,gte=0"`
	BasePrice            *float64 `json:"base_price,omitempty" validate:"omitempty,gt=0"`
	PheromonePrice       *float64 `json:"pheromone_addition_price,omitempty" validate:"omitempty,gte=0"`
	EstimatedCost        *float64 `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`
	IsActive             *bool    `json:"is_active,omitempty"`
}

// ListRecipesRequest filters the recipe listing.
type ListRecipesRequest struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
