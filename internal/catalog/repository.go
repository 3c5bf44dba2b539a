package catalog

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

var (
	// ErrNotFound indicates no recipe matched the lookup.
	ErrNotFound = errors.New("recipe not found")
	// ErrActiveExists indicates a second active recipe for the same
	// configuration was rejected.
	ErrActiveExists = errors.New("active recipe already exists for configuration")
)

// Repository is the persistence port for recipes.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Recipe, error)
	FindActiveBySpec(ctx context.Context, spec Spec) (*Recipe, error)
	List(ctx context.Context, req ListRecipesRequest) ([]Recipe, int, error)
	Create(ctx context.Context, recipe Recipe) (int64, error)
	Update(ctx context.Context, id int64, recipe Recipe) error
	SetActive(ctx context.Context, id int64, active bool) error
	CountActiveBySpec(ctx context.Context, spec Spec, excludeID int64) (int, error)
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

// NewRepository returns a pgx-backed recipe repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const recipeColumns = `id, name, size_ml, fragrance_type, bottle_type, fragrance_grams, fijador_drops, potencializador_drops, concentrado_drops, base_price, pheromone_addition_price, estimated_cost, is_active, created_at, updated_at`

func scanRecipe(row pgx.Row) (*Recipe, error) {
	var rec Recipe
	err := row.Scan(&rec.ID, &rec.Name, &rec.SizeML, &rec.FragranceType, &rec.BottleType, &rec.FragranceGrams, &rec.FijadorDrops, &rec.PotencializadorDrops, &rec.ConcentradoDrops, &rec.BasePrice, &rec.PheromonePrice, &rec.EstimatedCost, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`
	return scanRecipe(r.db.QueryRow(ctx, query, id))
}

func (r *repository) FindActiveBySpec(ctx context.Context, spec Spec) (*Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE size_ml = $1 AND fragrance_type = $2 AND bottle_type = $3 AND is_active = TRUE`
	return scanRecipe(r.db.QueryRow(ctx, query, spec.SizeML, spec.FragranceType, spec.BottleType))
}

func (r *repository) List(ctx context.Context, req ListRecipesRequest) ([]Recipe, int, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM recipes WHERE 1=1`
	args := []any{}
	argCount := 0

	if req.ActiveOnly {
		query += ` AND is_active = TRUE`
		countQuery += ` AND is_active = TRUE`
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY size_ml, fragrance_type, bottle_type, id`
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

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, err
		}
		recipes = append(recipes, *rec)
	}
	return recipes, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, recipe Recipe) (int64, error) {
	query := `INSERT INTO recipes (name, size_ml, fragrance_type, bottle_type, fragrance_grams, fijador_drops, potencializador_drops, concentrado_drops, base_price, pheromone_addition_price, estimated_cost, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, query, recipe.Name, recipe.SizeML, recipe.FragranceType, recipe.BottleType, recipe.FragranceGrams, recipe.FijadorDrops, recipe.PotencializadorDrops, recipe.ConcentradoDrops, recipe.BasePrice, recipe.PheromonePrice, recipe.EstimatedCost, recipe.IsActive, now, now).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrActiveExists
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, recipe Recipe) error {
	query := `UPDATE recipes SET name = $1, size_ml = $2, fragrance_type = $3, bottle_type = $4, fragrance_grams = $5, fijador_drops = $6, potencializador_drops = $7, concentrado_drops = $8, base_price = $9, pheromone_addition_price = $10, estimated_cost = $11, is_active = $12, updated_at = $13 WHERE id = $14`
	tag, err := r.db.Exec(ctx, query, recipe.Name, recipe.SizeML, recipe.FragranceType, recipe.BottleType, recipe.FragranceGrams, recipe.FijadorDrops, recipe.PotencializadorDrops, recipe.ConcentradoDrops, recipe.BasePrice, recipe.PheromonePrice, recipe.EstimatedCost, recipe.IsActive, time.Now().UTC(), id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrActiveExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE recipes SET is_active = $1, updated_at = $2 WHERE id = $3`, active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CountActiveBySpec(ctx context.Context, spec Spec, excludeID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM recipes WHERE size_ml = $1 AND fragrance_type = $2 AND bottle_type = $3 AND is_active = TRUE AND id <> $4`, spec.SizeML, spec.FragranceType, spec.BottleType, excludeID).Scan(&count)
	return count, err
}
