package customers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no customer matched the lookup.
var ErrNotFound = errors.New("customer not found")

// Repository is the persistence port for customers.
type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	Search(ctx context.Context, query string, limit int) ([]Customer, error)
	Create(ctx context.Context, customer Customer) (int64, error)
	Update(ctx context.Context, id int64, customer Customer) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns a pgx-backed customer repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const customerColumns = `id, name, whatsapp, email, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.WhatsApp, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.db.QueryRow(ctx, query, id))
}

func (r *repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name, id`
	args := []any{}
	argCount := 0
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

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	return customers, total, rows.Err()
}

func (r *repository) Search(ctx context.Context, query string, limit int) ([]Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	sql := `SELECT ` + customerColumns + ` FROM customers WHERE name ILIKE $1 OR whatsapp ILIKE $1 ORDER BY name, id LIMIT $2`
	rows, err := r.db.Query(ctx, sql, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *repository) Create(ctx context.Context, customer Customer) (int64, error) {
	query := `INSERT INTO customers (name, whatsapp, email, notes, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, query, customer.Name, customer.WhatsApp, customer.Email, customer.Notes, now, now).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, customer Customer) error {
	query := `UPDATE customers SET name = $1, whatsapp = $2, email = $3, notes = $4, updated_at = $5 WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, customer.Name, customer.WhatsApp, customer.Email, customer.Notes, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
