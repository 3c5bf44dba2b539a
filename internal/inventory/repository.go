package inventory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gallery-essence/essence-pos/internal/platform/db"
)

// ErrNotFound indicates no purchase batch matched the lookup.
var ErrNotFound = errors.New("purchase batch not found")

// Repository is the persistence port for purchase batches.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*PurchaseBatch, error)
	List(ctx context.Context, req ListPurchaseBatchesRequest) ([]PurchaseBatch, int, error)
	Create(ctx context.Context, batch PurchaseBatch) (int64, error)
	Update(ctx context.Context, id int64, batch PurchaseBatch) error
	Delete(ctx context.Context, id int64) error
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

// NewRepository returns a pgx-backed purchase batch repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const batchColumns = `id, name, description, purchase_unit_cost, purchase_unit_volume_ml, cost_per_ml, current_stock_ml, purchase_date, created_at, updated_at`

func scanBatch(row pgx.Row) (*PurchaseBatch, error) {
	var b PurchaseBatch
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.PurchaseUnitCost, &b.PurchaseUnitVolumeML, &b.CostPerML, &b.CurrentStockML, &b.PurchaseDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*PurchaseBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM purchase_batches WHERE id = $1`
	return scanBatch(r.db.QueryRow(ctx, query, id))
}

func (r *repository) List(ctx context.Context, req ListPurchaseBatchesRequest) ([]PurchaseBatch, int, error) {
	query := `SELECT ` + batchColumns + ` FROM purchase_batches WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM purchase_batches WHERE 1=1`
	args := []any{}
	countArgs := []any{}
	argCount := 0

	if req.Name != "" {
		argCount++
		query += ` AND name ILIKE $` + strconv.Itoa(argCount)
		countQuery += ` AND name ILIKE $1`
		args = append(args, "%"+req.Name+"%")
		countArgs = append(countArgs, "%"+req.Name+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY purchase_date DESC, id DESC`
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

	var batches []PurchaseBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, 0, err
		}
		batches = append(batches, *b)
	}
	return batches, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, batch PurchaseBatch) (int64, error) {
	query := `INSERT INTO purchase_batches (name, description, purchase_unit_cost, purchase_unit_volume_ml, cost_per_ml, current_stock_ml, purchase_date, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, query, batch.Name, batch.Description, batch.PurchaseUnitCost, batch.PurchaseUnitVolumeML, batch.CostPerML, batch.CurrentStockML, batch.PurchaseDate, now, now).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, batch PurchaseBatch) error {
	query := `UPDATE purchase_batches SET name = $1, description = $2, purchase_unit_cost = $3, purchase_unit_volume_ml = $4, cost_per_ml = $5, current_stock_ml = $6, purchase_date = $7, updated_at = $8 WHERE id = $9`
	tag, err := r.db.Exec(ctx, query, batch.Name, batch.Description, batch.PurchaseUnitCost, batch.PurchaseUnitVolumeML, batch.CostPerML, batch.CurrentStockML, batch.PurchaseDate, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM purchase_batches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
