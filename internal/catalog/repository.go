package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when an item id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateName is returned when an item name collides.
	ErrDuplicateName = errors.New("item name already exists")
)

const uniqueViolation = "23505"

// Repository persists catalog items.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, item Item) error
	Update(ctx context.Context, item Item) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Postgres-backed catalog repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const itemColumns = "id, name, description, category, price, image_url, available, created_at, updated_at"

func (r *repository) List(ctx context.Context) ([]Item, error) {
	query := fmt.Sprintf("SELECT %s FROM food_items ORDER BY category, name", itemColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Category,
			&item.Price, &item.ImageURL, &item.Available, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: rows: %w", err)
	}
	return items, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Item, error) {
	query := fmt.Sprintf("SELECT %s FROM food_items WHERE id = $1", itemColumns)
	var item Item
	err := r.pool.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name, &item.Description,
		&item.Category, &item.Price, &item.ImageURL, &item.Available, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get: %w", err)
	}
	return &item, nil
}

func (r *repository) Create(ctx context.Context, item Item) error {
	const query = `
		INSERT INTO food_items (id, name, description, category, price, image_url, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query, item.ID, item.Name, item.Description, item.Category,
		item.Price, item.ImageURL, item.Available, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("catalog: create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, item Item) error {
	const query = `
		UPDATE food_items
		SET name = $2, description = $3, category = $4, price = $5, image_url = $6, available = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, item.ID, item.Name, item.Description, item.Category,
		item.Price, item.ImageURL, item.Available, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("catalog: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
