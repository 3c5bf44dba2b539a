package sales

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gallery-essence/essence-pos/internal/platform/db"
)

// ErrNotFound indicates no sale matched the lookup.
var ErrNotFound = errors.New("sale not found")

// Repository is the persistence port for sales.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Create(ctx context.Context, sale Sale) (int64, error)
	InsertItem(ctx context.Context, item SaleItem) (int64, error)
	Get(ctx context.Context, id int64) (*Sale, error)
	List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]Sale, error)
}

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed sales repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const saleColumns = `id, public_id, customer_id, payment_method, subtotal, discount_amount, discount_reason, surcharge_amount, card_surcharge_applied, total_amount, notes, sold_at`

func scanSale(row pgx.Row) (*Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.PublicID, &s.CustomerID, &s.PaymentMethod, &s.Subtotal, &s.DiscountAmount, &s.DiscountReason, &s.SurchargeAmount, &s.CardSurcharge, &s.TotalAmount, &s.Notes, &s.SoldAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, sale Sale) (int64, error) {
	query := `INSERT INTO sales (public_id, customer_id, payment_method, subtotal, discount_amount, discount_reason, surcharge_amount, card_surcharge_applied, total_amount, notes, sold_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, sale.PublicID, sale.CustomerID, sale.PaymentMethod, sale.Subtotal, sale.DiscountAmount, sale.DiscountReason, sale.SurchargeAmount, sale.CardSurcharge, sale.TotalAmount, sale.Notes, sale.SoldAt).Scan(&id)
	return id, err
}

func (r *repository) InsertItem(ctx context.Context, item SaleItem) (int64, error) {
	var snapshot []byte
	if item.RecipeSnapshot != nil {
		var err error
		snapshot, err = json.Marshal(item.RecipeSnapshot)
		if err != nil {
			return 0, err
		}
	}
	query := `INSERT INTO sale_items (sale_id, line_order, product_type, recipe_id, item_name, size_ml, fragrance_type, bottle_type, has_pheromones, extra_fragrance_grams, quantity, unit_price, line_total, recipe_snapshot) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, item.SaleID, item.LineOrder, string(item.ProductType), item.RecipeID, item.ItemName, item.SizeML, item.FragranceType, item.BottleType, item.HasPheromones, item.ExtraFragranceGrams, item.Quantity, item.UnitPrice, item.LineTotal, snapshot).Scan(&id)
	return id, err
}

func (r *repository) Get(ctx context.Context, id int64) (*Sale, error) {
	sale, err := scanSale(r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, sale_id, line_order, product_type, recipe_id, item_name, size_ml, fragrance_type, bottle_type, has_pheromones, extra_fragrance_grams, quantity, unit_price, line_total, recipe_snapshot FROM sale_items WHERE sale_id = $1 ORDER BY line_order`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item SaleItem
		var productType string
		var snapshot []byte
		err := rows.Scan(&item.ID, &item.SaleID, &item.LineOrder, &productType, &item.RecipeID, &item.ItemName, &item.SizeML, &item.FragranceType, &item.BottleType, &item.HasPheromones, &item.ExtraFragranceGrams, &item.Quantity, &item.UnitPrice, &item.LineTotal, &snapshot)
		if err != nil {
			return nil, err
		}
		item.ProductType = ProductType(productType)
		if len(snapshot) > 0 {
			var snap RecipeSnapshot
			if err := json.Unmarshal(snapshot, &snap); err != nil {
				return nil, err
			}
			item.RecipeSnapshot = &snap
		}
		sale.Items = append(sale.Items, item)
	}
	return sale, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListSalesRequest) ([]Sale, int, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM sales WHERE 1=1`
	args := []any{}
	countArgs := []any{}
	argCount := 0

	addFilter := func(cond string, value any) {
		argCount++
		placeholder := "$" + strconv.Itoa(argCount)
		query += ` AND ` + cond + ` ` + placeholder
		countQuery += ` AND ` + cond + ` $` + strconv.Itoa(len(countArgs)+1)
		args = append(args, value)
		countArgs = append(countArgs, value)
	}

	if !req.From.IsZero() {
		addFilter("sold_at >=", req.From)
	}
	if !req.To.IsZero() {
		addFilter("sold_at <", req.To)
	}
	if req.CustomerID != nil {
		addFilter("customer_id =", *req.CustomerID)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY sold_at DESC, id DESC`
	if req.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, req.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := req.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

func (r *repository) ListByRange(ctx context.Context, from, to time.Time) ([]Sale, error) {
	rows, err := r.db.Query(ctx, `SELECT `+saleColumns+` FROM sales WHERE sold_at >= $1 AND sold_at < $2 ORDER BY sold_at`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
