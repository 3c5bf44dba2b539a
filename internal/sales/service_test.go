package sales

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gallery-essence/essence-pos/internal/catalog"
	"github.com/gallery-essence/essence-pos/internal/sales/customers"
	"github.com/gallery-essence/essence-pos/internal/shared"
)

type memoryRepo struct {
	sales    map[int64]Sale
	items    map[int64][]SaleItem
	nextSale int64
	nextItem int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sales: make(map[int64]Sale), items: make(map[int64][]SaleItem)}
}

func (r *memoryRepo) runTx(ctx context.Context, repo Repository, fn func(context.Context, Repository) error) error {
	salesCopy := maps.Clone(r.sales)
	itemsCopy := maps.Clone(r.items)
	if err := fn(ctx, repo); err != nil {
		r.sales = salesCopy
		r.items = itemsCopy
		return err
	}
	return nil
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return r.runTx(ctx, r, fn)
}

func (r *memoryRepo) Create(ctx context.Context, sale Sale) (int64, error) {
	r.nextSale++
	sale.ID = r.nextSale
	r.sales[sale.ID] = sale
	return sale.ID, nil
}

func (r *memoryRepo) InsertItem(ctx context.Context, item SaleItem) (int64, error) {
	r.nextItem++
	item.ID = r.nextItem
	r.items[item.SaleID] = append(r.items[item.SaleID], item)
	return item.ID, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, ErrNotFound
	}
	sale.Items = append([]SaleItem(nil), r.items[id]...)
	return &sale, nil
}

func (r *memoryRepo) List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error) {
	var out []Sale
	for _, sale := range r.sales {
		out = append(out, sale)
	}
	return out, len(out), nil
}

func (r *memoryRepo) ListByRange(ctx context.Context, from, to time.Time) ([]Sale, error) {
	var out []Sale
	for _, sale := range r.sales {
		if !sale.SoldAt.Before(from) && sale.SoldAt.Before(to) {
			out = append(out, sale)
		}
	}
	return out, nil
}

// failingRepo aborts the transaction on a marker item name.
type failingRepo struct {
	*memoryRepo
}

func (r *failingRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return r.runTx(ctx, r, fn)
}

func (r *failingRepo) InsertItem(ctx context.Context, item SaleItem) (int64, error) {
	if item.ItemName == "boom" {
		return 0, errors.New("insert failed")
	}
	return r.memoryRepo.InsertItem(ctx, item)
}

type stubCatalog struct {
	recipes map[catalog.Spec]catalog.Recipe
}

func (c *stubCatalog) Find(ctx context.Context, spec catalog.Spec) (*catalog.Recipe, error) {
	rec, ok := c.recipes[spec]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &rec, nil
}

type stubCustomers struct {
	known map[int64]bool
}

func (c *stubCustomers) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	if !c.known[id] {
		return nil, customers.ErrNotFound
	}
	return &customers.Customer{ID: id, Name: "known"}, nil
}

type memoryIdem struct {
	keys map[string]bool
}

func (s *memoryIdem) CheckAndInsert(ctx context.Context, key, module string) error {
	if s.keys[key] {
		return shared.ErrIdempotencyConflict
	}
	s.keys[key] = true
	return nil
}

func (s *memoryIdem) Delete(ctx context.Context, key string) error {
	delete(s.keys, key)
	return nil
}

func spec30Traditional() catalog.Spec {
	return catalog.Spec{SizeML: 30, FragranceType: "tradicional", BottleType: "generico"}
}

func newTestService(repo Repository, cat *stubCatalog) *Service {
	return NewService(repo, cat, &stubCustomers{known: map[int64]bool{1: true}}, nil, nil, testPricing)
}

func defaultCatalog() *stubCatalog {
	return &stubCatalog{recipes: map[catalog.Spec]catalog.Recipe{
		spec30Traditional(): {
			ID:                   7,
			SizeML:               30,
			FragranceType:        "tradicional",
			BottleType:           "generico",
			FragranceGrams:       13,
			FijadorDrops:         15,
			PotencializadorDrops: 1,
			ConcentradoDrops:     3,
			BasePrice:            18000,
			PheromonePrice:       2000,
			IsActive:             true,
		},
		{SizeML: 100, FragranceType: "nicho", BottleType: "lujo"}: {
			ID:             9,
			SizeML:         100,
			FragranceType:  "nicho",
			BottleType:     "lujo",
			FragranceGrams: 34,
			BasePrice:      50000,
			PheromonePrice: 5000,
			IsActive:       true,
		},
	}}
}

func perfumeLine(sizeML int, fragrance string) CreateSaleItemRequest {
	return CreateSaleItemRequest{
		ProductType:   string(ProductTypePerfume),
		ItemName:      "Perfume personalizado",
		Quantity:      1,
		SizeML:        &sizeML,
		FragranceType: &fragrance,
	}
}

func TestCreateCashSaleNoSurcharge(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	sale, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{perfumeLine(30, "tradicional")},
	}, "")
	require.NoError(t, err)
	require.InDelta(t, 18000.0, sale.Subtotal, 0.001)
	require.InDelta(t, 0.0, sale.SurchargeAmount, 0.001)
	require.False(t, sale.CardSurcharge)
	require.InDelta(t, 18000.0, sale.TotalAmount, 0.001)
	require.Len(t, sale.Items, 1)
	require.NotNil(t, sale.Items[0].RecipeID)
	require.EqualValues(t, 7, *sale.Items[0].RecipeID)
}

func TestCreateCardSaleWithDiscountAndPheromones(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	bottle := "lujo"
	line := perfumeLine(100, "nicho")
	line.BottleType = &bottle
	line.HasPheromones = true

	sale, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod:  "tarjeta",
		DiscountAmount: 2000,
		Items:          []CreateSaleItemRequest{line},
	}, "")
	require.NoError(t, err)
	require.InDelta(t, 55000.0, sale.Items[0].UnitPrice, 0.001)
	require.InDelta(t, 53000.0, sale.Subtotal, 0.001)
	require.True(t, sale.CardSurcharge)
	require.InDelta(t, 2650.0, sale.SurchargeAmount, 0.001)
	require.InDelta(t, 55650.0, sale.TotalAmount, 0.001)
}

func TestCreateSaleExtraFragranceGrams(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	line := perfumeLine(30, "tradicional")
	line.ExtraFragranceGrams = 5

	sale, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{line},
	}, "")
	require.NoError(t, err)
	require.InDelta(t, 20500.0, sale.Items[0].UnitPrice, 0.001)
}

func TestCreateSaleDefaultsBottleType(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	// No bottle type on the line; the configured default must drive lookup.
	sale, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{perfumeLine(30, "tradicional")},
	}, "")
	require.NoError(t, err)
	require.NotNil(t, sale.Items[0].BottleType)
	require.Equal(t, "generico", *sale.Items[0].BottleType)
}

func TestSnapshotFrozenAgainstRecipeEdits(t *testing.T) {
	repo := newMemoryRepo()
	cat := defaultCatalog()
	svc := newTestService(repo, cat)
	ctx := context.Background()

	sale, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{perfumeLine(30, "tradicional")},
	}, "")
	require.NoError(t, err)
	require.NotNil(t, sale.Items[0].RecipeSnapshot)
	require.InDelta(t, 13.0, sale.Items[0].RecipeSnapshot.FragranceGrams, 0.001)
	require.Equal(t, 15, sale.Items[0].RecipeSnapshot.FijadorDrops)

	// Edit the recipe after the sale committed.
	rec := cat.recipes[spec30Traditional()]
	rec.FragranceGrams = 99
	rec.FijadorDrops = 99
	cat.recipes[spec30Traditional()] = rec

	stored, err := svc.Get(ctx, sale.ID)
	require.NoError(t, err)
	require.InDelta(t, 13.0, stored.Items[0].RecipeSnapshot.FragranceGrams, 0.001)
	require.Equal(t, 15, stored.Items[0].RecipeSnapshot.FijadorDrops)
}

func TestManualPriceFallbackWithoutRecipe(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	line := perfumeLine(50, "tradicional")

	// No active recipe and no manual price: the whole sale fails.
	_, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{line},
	}, "")
	require.ErrorIs(t, err, ErrPriceUnresolved)

	// A positive manual price resolves the line without a snapshot.
	price := 25000.0
	line.UnitPrice = &price
	sale, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{line},
	}, "")
	require.NoError(t, err)
	require.InDelta(t, 25000.0, sale.Items[0].UnitPrice, 0.001)
	require.Nil(t, sale.Items[0].RecipeID)
	require.Nil(t, sale.Items[0].RecipeSnapshot)
}

func TestFinishedProductRequiresUnitPrice(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items: []CreateSaleItemRequest{{
			ProductType: string(ProductTypeFinished),
			ItemName:    "Perfume sellado 100ml",
			Quantity:    2,
		}},
	}, "")
	require.ErrorIs(t, err, ErrMissingUnitPrice)

	price := 60000.0
	sale, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items: []CreateSaleItemRequest{{
			ProductType: string(ProductTypeFinished),
			ItemName:    "Perfume sellado 100ml",
			Quantity:    2,
			UnitPrice:   &price,
		}},
	}, "")
	require.NoError(t, err)
	require.InDelta(t, 120000.0, sale.Items[0].LineTotal, 0.001)
	require.InDelta(t, 120000.0, sale.TotalAmount, 0.001)
}

func TestUnknownProductTypeAbortsWholeSale(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items: []CreateSaleItemRequest{
			perfumeLine(30, "tradicional"),
			{ProductType: "mystery", ItemName: "???", Quantity: 1},
		},
	}, "")
	require.ErrorIs(t, err, ErrUnknownProductType)
	require.Empty(t, repo.sales)
}

func TestNonPositiveQuantityRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	line := perfumeLine(30, "tradicional")
	line.Quantity = 0
	_, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{line},
	}, "")
	require.ErrorIs(t, err, ErrInvalidQuantity)
	require.Empty(t, repo.sales)
}

func TestMissingCustomerAborts(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	ghost := int64(42)
	_, err := svc.Create(ctx, CreateSaleRequest{
		CustomerID:    &ghost,
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{perfumeLine(30, "tradicional")},
	}, "")
	require.ErrorIs(t, err, customers.ErrNotFound)
	require.Empty(t, repo.sales)
}

func TestDiscountLargerThanLinesRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod:  "Efectivo",
		DiscountAmount: 999999,
		Items:          []CreateSaleItemRequest{perfumeLine(30, "tradicional")},
	}, "")
	require.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestFailedInsertRollsBackSale(t *testing.T) {
	repo := &failingRepo{memoryRepo: newMemoryRepo()}
	svc := newTestService(repo, defaultCatalog())
	ctx := context.Background()

	price := 1000.0
	_, err := svc.Create(ctx, CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items: []CreateSaleItemRequest{
			perfumeLine(30, "tradicional"),
			{ProductType: string(ProductTypeAccessory), ItemName: "boom", Quantity: 1, UnitPrice: &price},
		},
	}, "")
	require.Error(t, err)
	require.Empty(t, repo.sales)
	require.Empty(t, repo.items)
}

func TestIdempotencyKeyRejectsDuplicates(t *testing.T) {
	repo := newMemoryRepo()
	idem := &memoryIdem{keys: make(map[string]bool)}
	svc := NewService(repo, defaultCatalog(), &stubCustomers{known: map[int64]bool{}}, nil, idem, testPricing)
	ctx := context.Background()

	req := CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{perfumeLine(30, "tradicional")},
	}

	_, err := svc.Create(ctx, req, "key-1")
	require.NoError(t, err)

	_, err = svc.Create(ctx, req, "key-1")
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
	require.Len(t, repo.sales, 1)
}

func TestIdempotencyKeyReleasedOnFailure(t *testing.T) {
	repo := &failingRepo{memoryRepo: newMemoryRepo()}
	idem := &memoryIdem{keys: make(map[string]bool)}
	svc := NewService(repo, defaultCatalog(), &stubCustomers{known: map[int64]bool{}}, nil, idem, testPricing)
	ctx := context.Background()

	price := 1000.0
	bad := CreateSaleRequest{
		PaymentMethod: "Efectivo",
		Items:         []CreateSaleItemRequest{{ProductType: string(ProductTypeAccessory), ItemName: "boom", Quantity: 1, UnitPrice: &price}},
	}
	_, err := svc.Create(ctx, bad, "key-2")
	require.Error(t, err)
	require.False(t, idem.keys["key-2"])

	// The same key works once the request is fixed.
	good := bad
	good.Items = []CreateSaleItemRequest{{ProductType: string(ProductTypeAccessory), ItemName: "Atomizador", Quantity: 1, UnitPrice: &price}}
	_, err = svc.Create(ctx, good, "key-2")
	require.NoError(t, err)
}
