package catalog

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/gallery-essence/essence-pos/internal/shared"
)

// AuditPort records catalog mutations.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CostConfig carries ingredient cost parameters for the estimator.
type CostConfig struct {
	FragranceCostPerGram float64
}

// Service implements recipe catalog use cases.
type Service struct {
	repo  Repository
	audit AuditPort
	cost  CostConfig
}

// NewService constructs the catalog service. audit may be nil.
func NewService(repo Repository, audit AuditPort, cost CostConfig) *Service {
	return &Service{repo: repo, audit: audit, cost: cost}
}

// EstimateCost prices the ingredients of one bottle. Only the fragrance
// concentrate is costed for now.
// TODO: include fijador/potencializador/concentrado once drop costs are tracked.
func (s *Service) EstimateCost(rec Recipe) float64 {
	return math.Round(rec.FragranceGrams*s.cost.FragranceCostPerGram*100) / 100
}

// Find returns the single active recipe for the configuration.
func (s *Service) Find(ctx context.Context, spec Spec) (*Recipe, error) {
	return s.repo.FindActiveBySpec(ctx, spec)
}

// Get returns a recipe by id, active or not.
func (s *Service) Get(ctx context.Context, id int64) (*Recipe, error) {
	return s.repo.Get(ctx, id)
}

// List returns recipes with a total count for pagination.
func (s *Service) List(ctx context.Context, req ListRecipesRequest) ([]Recipe, int, error) {
	return s.repo.List(ctx, req)
}

// Create registers a recipe. New recipes are active; the insert is rejected
// when another active recipe covers the same configuration.
func (s *Service) Create(ctx context.Context, req CreateRecipeRequest) (*Recipe, error) {
	recipe := Recipe{
		Name:                 req.Name,
		SizeML:               req.SizeML,
		FragranceType:        req.FragranceType,
		BottleType:           req.BottleType,
		FragranceGrams:       req.FragranceGrams,
		FijadorDrops:         req.FijadorDrops,
		PotencializadorDrops: req.PotencializadorDrops,
		ConcentradoDrops:     req.ConcentradoDrops,
		BasePrice:            req.BasePrice,
		PheromonePrice:       req.PheromonePrice,
		EstimatedCost:        req.EstimatedCost,
		IsActive:             true,
	}
	if recipe.EstimatedCost == nil {
		est := s.EstimateCost(recipe)
		recipe.EstimatedCost = &est
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		spec := Spec{SizeML: recipe.SizeML, FragranceType: recipe.FragranceType, BottleType: recipe.BottleType}
		count, err := repo.CountActiveBySpec(ctx, spec, 0)
		if err != nil {
			return fmt.Errorf("check active recipe: %w", err)
		}
		if count > 0 {
			return ErrActiveExists
		}
		id, err = repo.Create(ctx, recipe)
		if err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies a partial update. When the update leaves the recipe active,
// the single-active-configuration check runs against the merged row inside
// the same transaction as the write.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRecipeRequest) (*Recipe, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get recipe: %w", err)
		}
		merged := mergeRecipe(*existing, req)
		if req.EstimatedCost == nil && merged.FragranceGrams != existing.FragranceGrams {
			est := s.EstimateCost(merged)
			merged.EstimatedCost = &est
		}
		if merged.IsActive {
			spec := Spec{SizeML: merged.SizeML, FragranceType: merged.FragranceType, BottleType: merged.BottleType}
			count, err := repo.CountActiveBySpec(ctx, spec, id)
			if err != nil {
				return fmt.Errorf("check active recipe: %w", err)
			}
			if count > 0 {
				return ErrActiveExists
			}
		}
		return repo.Update(ctx, id, merged)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Deactivate soft-deletes a recipe. Recipes are never hard-deleted so
// committed sales keep a resolvable reference.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get recipe: %w", err)
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "recipe.deactivate",
			Entity:   "recipe",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	return nil
}

// RefreshEstimatedCosts recomputes the estimated cost of every active recipe
// and returns how many rows changed.
func (s *Service) RefreshEstimatedCosts(ctx context.Context) (int, error) {
	recipes, _, err := s.repo.List(ctx, ListRecipesRequest{ActiveOnly: true})
	if err != nil {
		return 0, fmt.Errorf("list recipes: %w", err)
	}
	updated := 0
	for _, rec := range recipes {
		est := s.EstimateCost(rec)
		if rec.EstimatedCost != nil && *rec.EstimatedCost == est {
			continue
		}
		rec.EstimatedCost = &est
		if err := s.repo.Update(ctx, rec.ID, rec); err != nil {
			return updated, fmt.Errorf("refresh recipe %d: %w", rec.ID, err)
		}
		updated++
	}
	return updated, nil
}

func mergeRecipe(existing Recipe, req UpdateRecipeRequest) Recipe {
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.SizeML != nil {
		existing.SizeML = *req.SizeML
	}
	if req.FragranceType != nil {
		existing.FragranceType = *req.FragranceType
	}
	if req.BottleType != nil {
		existing.BottleType = *req.BottleType
	}
	if req.FragranceGrams != nil {
		existing.FragranceGrams = *req.FragranceGrams
	}
	if req.FijadorDrops != nil {
		existing.FijadorDrops = *req.FijadorDrops
	}
	if req.PotencializadorDrops != nil {
		existing.PotencializadorDrops = *req.PotencializadorDrops
	}
	if req.ConcentradoDrops != nil {
		existing.ConcentradoDrops = *req.ConcentradoDrops
	}
	if req.BasePrice != nil {
		existing.BasePrice = *req.BasePrice
	}
	if req.PheromonePrice != nil {
		existing.PheromonePrice = *req.PheromonePrice
	}
	if req.EstimatedCost != nil {
		existing.EstimatedCost = req.EstimatedCost
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	return existing
}
