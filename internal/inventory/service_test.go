package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	batches map[int64]PurchaseBatch
	nextID  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{batches: make(map[int64]PurchaseBatch)}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*PurchaseBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *memoryRepo) List(ctx context.Context, req ListPurchaseBatchesRequest) ([]PurchaseBatch, int, error) {
	var out []PurchaseBatch
	for _, b := range r.batches {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Create(ctx context.Context, batch PurchaseBatch) (int64, error) {
	r.nextID++
	batch.ID = r.nextID
	r.batches[batch.ID] = batch
	return batch.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, batch PurchaseBatch) error {
	if _, ok := r.batches[id]; !ok {
		return ErrNotFound
	}
	batch.ID = id
	r.batches[id] = batch
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.batches[id]; !ok {
		return ErrNotFound
	}
	delete(r.batches, id)
	return nil
}

func TestCostPerUnitVolume(t *testing.T) {
	require.InDelta(t, 50.0, CostPerUnitVolume(50000, 1000), 0.0001)
	require.InDelta(t, 0.0, CostPerUnitVolume(50000, 0), 0.0001)
	require.InDelta(t, 0.0, CostPerUnitVolume(50000, -10), 0.0001)

	// The derived rate multiplied back by the volume recovers the cost.
	cost, volume := 123456.78, 750.0
	require.InDelta(t, cost, CostPerUnitVolume(cost, volume)*volume, 0.0001)
}

func TestCreateDerivesCostPerML(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	batch, err := svc.Create(ctx, CreatePurchaseBatchRequest{
		Name:                 "Alcohol 96",
		PurchaseUnitCost:     80000,
		PurchaseUnitVolumeML: 1000,
		CurrentStockML:       1000,
	})
	require.NoError(t, err)
	require.InDelta(t, 80.0, batch.CostPerML, 0.0001)
}

func TestCreateWithZeroVolumeClampsCost(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	batch, err := svc.Create(ctx, CreatePurchaseBatchRequest{
		Name:             "Placeholder batch",
		PurchaseUnitCost: 80000,
	})
	require.NoError(t, err)
	require.InDelta(t, 0.0, batch.CostPerML, 0.0001)
}

func TestPartialUpdateRecomputesWithStoredValues(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePurchaseBatchRequest{
		Name:                 "Alcohol 96",
		PurchaseUnitCost:     80000,
		PurchaseUnitVolumeML: 1000,
	})
	require.NoError(t, err)

	// Only the volume changes; the stored cost must feed the derivation.
	volume := 500.0
	updated, err := svc.Update(ctx, created.ID, UpdatePurchaseBatchRequest{PurchaseUnitVolumeML: &volume})
	require.NoError(t, err)
	require.InDelta(t, 160.0, updated.CostPerML, 0.0001)

	// Only the cost changes; the stored volume must feed the derivation.
	cost := 100000.0
	updated, err = svc.Update(ctx, created.ID, UpdatePurchaseBatchRequest{PurchaseUnitCost: &cost})
	require.NoError(t, err)
	require.InDelta(t, 200.0, updated.CostPerML, 0.0001)
}

func TestUpdateToZeroVolumeClampsCost(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePurchaseBatchRequest{
		Name:                 "Alcohol 96",
		PurchaseUnitCost:     80000,
		PurchaseUnitVolumeML: 1000,
	})
	require.NoError(t, err)

	volume := 0.0
	updated, err := svc.Update(ctx, created.ID, UpdatePurchaseBatchRequest{PurchaseUnitVolumeML: &volume})
	require.NoError(t, err)
	require.InDelta(t, 0.0, updated.CostPerML, 0.0001)
}

func TestUpdateMissingBatch(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	name := "ghost"
	_, err := svc.Update(ctx, 42, UpdatePurchaseBatchRequest{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}
