package sales

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/gallery-essence/essence-pos/internal/catalog"
	"github.com/gallery-essence/essence-pos/internal/sales/customers"
	"github.com/gallery-essence/essence-pos/internal/shared"
)

var (
	// ErrUnknownProductType indicates a line with an unrecognised type.
	ErrUnknownProductType = errors.New("unknown product type")
	// ErrInvalidQuantity indicates a non-positive line quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrPriceUnresolved indicates a custom line with no matching active
	// recipe and no caller-supplied unit price.
	ErrPriceUnresolved = errors.New("no active recipe matches and no unit price given")
	// ErrMissingUnitPrice indicates a finished product or accessory line
	// without a unit price.
	ErrMissingUnitPrice = errors.New("unit price required")
	// ErrInvalidDiscount indicates a discount larger than the line total sum.
	ErrInvalidDiscount = errors.New("discount exceeds sum of line totals")
)

// CatalogPort resolves active recipes for custom perfume lines.
type CatalogPort interface {
	Find(ctx context.Context, spec catalog.Spec) (*catalog.Recipe, error)
}

// CustomerPort verifies referenced customers exist.
type CustomerPort interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// AuditPort records committed sales.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// IdempotencyPort guards against duplicate submissions.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// Service implements sale composition and pricing. Create resolves every
// line, applies the discount and card surcharge, and persists the sale
// atomically; nothing is written when any line fails to resolve.
type Service struct {
	repo      Repository
	catalog   CatalogPort
	customers CustomerPort
	audit     AuditPort
	idem      IdempotencyPort
	pricing   PricingConfig
	now       func() time.Time
}

// NewService constructs the sales service. audit and idem may be nil.
func NewService(repo Repository, catalogPort CatalogPort, customerPort CustomerPort, audit AuditPort, idem IdempotencyPort, pricing PricingConfig) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalogPort,
		customers: customerPort,
		audit:     audit,
		idem:      idem,
		pricing:   pricing,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create commits a sale. idemKey, when non-empty, makes retried submissions
// return a conflict instead of a duplicate sale.
func (s *Service) Create(ctx context.Context, req CreateSaleRequest, idemKey string) (*Sale, error) {
	if req.CustomerID != nil {
		if _, err := s.customers.Get(ctx, *req.CustomerID); err != nil {
			return nil, fmt.Errorf("verify customer: %w", err)
		}
	}

	items := make([]SaleItem, 0, len(req.Items))
	for i, itemReq := range req.Items {
		item, err := s.resolveItem(ctx, itemReq)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		item.LineOrder = i + 1
		items = append(items, item)
	}

	var lineSum float64
	for _, it := range items {
		lineSum += it.LineTotal
	}
	if req.DiscountAmount > lineSum {
		return nil, ErrInvalidDiscount
	}

	subtotal, surcharge, total, applied := Totals(items, req.DiscountAmount, req.PaymentMethod, s.pricing)

	sale := Sale{
		PublicID:        uuid.New(),
		CustomerID:      req.CustomerID,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        subtotal,
		DiscountAmount:  req.DiscountAmount,
		DiscountReason:  req.DiscountReason,
		SurchargeAmount: surcharge,
		CardSurcharge:   applied,
		TotalAmount:     total,
		Notes:           req.Notes,
		SoldAt:          s.now(),
	}

	if idemKey != "" && s.idem != nil {
		if err := s.idem.CheckAndInsert(ctx, idemKey, "sales"); err != nil {
			return nil, err
		}
	}

	var saleID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, sale)
		if err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		saleID = id
		for _, item := range items {
			item.SaleID = saleID
			if _, err := repo.InsertItem(ctx, item); err != nil {
				return fmt.Errorf("insert sale item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if idemKey != "" && s.idem != nil {
			_ = s.idem.Delete(ctx, idemKey)
		}
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "sale.create",
			Entity:   "sale",
			EntityID: strconv.FormatInt(saleID, 10),
			Meta: map[string]any{
				"payment_method": sale.PaymentMethod,
				"total_amount":   sale.TotalAmount,
				"items":          len(items),
			},
		})
	}

	return s.repo.Get(ctx, saleID)
}

// Get returns a sale with its items.
func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	return s.repo.Get(ctx, id)
}

// List returns sale headers with a total count.
func (s *Service) List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error) {
	return s.repo.List(ctx, req)
}

// ListByRange returns sale headers committed in [from, to).
func (s *Service) ListByRange(ctx context.Context, from, to time.Time) ([]Sale, error) {
	return s.repo.ListByRange(ctx, from, to)
}

func (s *Service) resolveItem(ctx context.Context, req CreateSaleItemRequest) (SaleItem, error) {
	if req.Quantity <= 0 {
		return SaleItem{}, ErrInvalidQuantity
	}
	item := SaleItem{
		ProductType:         ProductType(req.ProductType),
		ItemName:            req.ItemName,
		SizeML:              req.SizeML,
		FragranceType:       req.FragranceType,
		BottleType:          req.BottleType,
		HasPheromones:       req.HasPheromones,
		ExtraFragranceGrams: req.ExtraFragranceGrams,
		Quantity:            req.Quantity,
	}

	switch item.ProductType {
	case ProductTypePerfume:
		if err := s.resolvePerfume(ctx, &item, req); err != nil {
			return SaleItem{}, err
		}
	case ProductTypeFinished, ProductTypeAccessory:
		if req.UnitPrice == nil || *req.UnitPrice <= 0 {
			return SaleItem{}, ErrMissingUnitPrice
		}
		item.UnitPrice = *req.UnitPrice
	default:
		return SaleItem{}, fmt.Errorf("%q: %w", req.ProductType, ErrUnknownProductType)
	}

	item.LineTotal = roundCents(item.UnitPrice * float64(req.Quantity))
	return item, nil
}

// resolvePerfume prices a custom bottle from the active recipe for its
// configuration. Without size and fragrance, or when no active recipe
// matches, a caller-supplied positive unit price is required and no
// snapshot is taken.
func (s *Service) resolvePerfume(ctx context.Context, item *SaleItem, req CreateSaleItemRequest) error {
	if req.SizeML == nil || req.FragranceType == nil || *req.FragranceType == "" {
		if req.UnitPrice == nil || *req.UnitPrice <= 0 {
			return ErrPriceUnresolved
		}
		item.UnitPrice = *req.UnitPrice
		return nil
	}

	bottle := s.pricing.DefaultBottleType
	if req.BottleType != nil && *req.BottleType != "" {
		bottle = *req.BottleType
	}
	item.BottleType = &bottle

	spec := catalog.Spec{SizeML: *req.SizeML, FragranceType: *req.FragranceType, BottleType: bottle}
	rec, err := s.catalog.Find(ctx, spec)
	switch {
	case err == nil:
		item.RecipeID = &rec.ID
		item.RecipeSnapshot = &RecipeSnapshot{
			FragranceGrams:       rec.FragranceGrams,
			FijadorDrops:         rec.FijadorDrops,
			PotencializadorDrops: rec.PotencializadorDrops,
			ConcentradoDrops:     rec.ConcentradoDrops,
		}
		item.UnitPrice = PerfumeUnitPrice(*rec, req.HasPheromones, req.ExtraFragranceGrams, s.pricing.ExtraFragranceCostPerGram)
	case errors.Is(err, catalog.ErrNotFound):
		if req.UnitPrice == nil || *req.UnitPrice <= 0 {
			return ErrPriceUnresolved
		}
		item.UnitPrice = *req.UnitPrice
	default:
		return fmt.Errorf("find recipe: %w", err)
	}
	return nil
}
