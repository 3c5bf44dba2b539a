package inventory

import (
	"context"
	"fmt"
	"time"
)

// Service implements purchase batch use cases. The derived cost_per_ml is
// recomputed inside the same transaction as every write that touches the
// purchase cost or volume.
type Service struct {
	repo Repository
}

// NewService constructs the inventory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a purchase batch by id.
func (s *Service) Get(ctx context.Context, id int64) (*PurchaseBatch, error) {
	return s.repo.Get(ctx, id)
}

// List returns purchase batches newest first with a total count.
func (s *Service) List(ctx context.Context, req ListPurchaseBatchesRequest) ([]PurchaseBatch, int, error) {
	return s.repo.List(ctx, req)
}

// Create registers a purchase batch and derives its per-ml cost.
func (s *Service) Create(ctx context.Context, req CreatePurchaseBatchRequest) (*PurchaseBatch, error) {
	batch := PurchaseBatch{
		Name:                 req.Name,
		Description:          req.Description,
		PurchaseUnitCost:     req.PurchaseUnitCost,
		PurchaseUnitVolumeML: req.PurchaseUnitVolumeML,
		CurrentStockML:       req.CurrentStockML,
		PurchaseDate:         time.Now().UTC(),
	}
	if req.PurchaseDate != nil {
		batch.PurchaseDate = req.PurchaseDate.UTC()
	}
	batch.CostPerML = CostPerUnitVolume(batch.PurchaseUnitCost, batch.PurchaseUnitVolumeML)

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		id, err = repo.Create(ctx, batch)
		if err != nil {
			return fmt.Errorf("create purchase batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies a partial update. The per-ml cost is rederived from the
// merged row, so changing only the volume still uses the stored cost and
// vice versa.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePurchaseBatchRequest) (*PurchaseBatch, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get purchase batch: %w", err)
		}
		merged := *existing
		if req.Name != nil {
			merged.Name = *req.Name
		}
		if req.Description != nil {
			merged.Description = req.Description
		}
		if req.PurchaseUnitCost != nil {
			merged.PurchaseUnitCost = *req.PurchaseUnitCost
		}
		if req.PurchaseUnitVolumeML != nil {
			merged.PurchaseUnitVolumeML = *req.PurchaseUnitVolumeML
		}
		if req.CurrentStockML != nil {
			merged.CurrentStockML = *req.CurrentStockML
		}
		if req.PurchaseDate != nil {
			merged.PurchaseDate = req.PurchaseDate.UTC()
		}
		merged.CostPerML = CostPerUnitVolume(merged.PurchaseUnitCost, merged.PurchaseUnitVolumeML)
		return repo.Update(ctx, id, merged)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a purchase batch.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
