package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an order id does not exist.
var ErrNotFound = errors.New("record not found")

const (
	// DefaultListLimit is the page size when no limit is requested.
	DefaultListLimit = 20
	// MaxListLimit caps how many orders a single listing may return.
	MaxListLimit = 100
)

// ListFilter narrows a listing query.
type ListFilter struct {
	Status *Status
	Limit  int
}

// Repository reads order records from the store. Timestamps are persisted
// as ISO-8601 strings by the upstream writer, possibly in mixed offsets;
// cutoff and ordering comparisons cast them to instants in SQL and the
// rows are re-parsed and validated here.
type Repository interface {
	Snapshot(ctx context.Context, cutoff *time.Time) (Snapshot, error)
	List(ctx context.Context, filter ListFilter) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Postgres-backed order repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = "id, item_name, item_count, item_price, address, status, created_ts"

// Snapshot pulls the full record set for aggregation, newest first,
// optionally bounded below by the cutoff. Rows that fail boundary
// validation are dropped and counted rather than failing the pull.
func (r *repository) Snapshot(ctx context.Context, cutoff *time.Time) (Snapshot, error) {
	query, args := snapshotQuery(cutoff)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return Snapshot{}, fmt.Errorf("orders: snapshot: %w", err)
	}
	defer rows.Close()

	return scanSnapshot(rows)
}

// snapshotQuery builds the snapshot pull. Timestamps are stored as
// ISO-8601 text in whatever offset the upstream writer used, so the
// cutoff must compare instants; a plain text comparison would order
// mixed-offset strings lexicographically and drop in-window records.
func snapshotQuery(cutoff *time.Time) (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM orders", orderColumns)
	var args []interface{}
	if cutoff != nil {
		query += " WHERE created_ts::timestamptz >= $1"
		args = append(args, cutoff.UTC())
	}
	query += " ORDER BY created_ts::timestamptz DESC"
	return query, args
}

// List returns the most recent orders for the listing page.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]Order, error) {
	limit := clampLimit(filter.Limit)

	var conditions []string
	var args []interface{}
	argPos := 1
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*filter.Status))
		argPos++
	}

	query := fmt.Sprintf("SELECT %s FROM orders", orderColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_ts::timestamptz DESC LIMIT $%d", argPos)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	snap, err := scanSnapshot(rows)
	if err != nil {
		return nil, err
	}
	return snap.Orders, nil
}

// Get fetches a single order by id.
func (r *repository) Get(ctx context.Context, id string) (*Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns)
	row := r.pool.QueryRow(ctx, query, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("orders: get: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("orders: get %s: %w", id, errMalformedRow)
	}
	return order, nil
}

var errMalformedRow = errors.New("malformed record")

// clampLimit normalises a requested page size: non-positive values fall
// back to the default, oversized values clamp to the maximum.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

func scanSnapshot(rows pgx.Rows) (Snapshot, error) {
	snap := Snapshot{Orders: make([]Order, 0, 64)}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return Snapshot{}, fmt.Errorf("orders: scan: %w", err)
		}
		if order == nil {
			snap.Skipped++
			continue
		}
		snap.Orders = append(snap.Orders, *order)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("orders: rows: %w", err)
	}
	return snap, nil
}

// scanOrder normalises one row into a typed Order. A nil order with a nil
// error marks a malformed row for the caller's skip counter.
func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o  Order
		ts string
	)
	if err := row.Scan(&o.ID, &o.ItemName, &o.ItemCount, &o.ItemPrice, &o.Address, &o.Status, &ts); err != nil {
		return nil, err
	}
	parsed, err := parseTimestamp(ts)
	if err != nil {
		return nil, nil
	}
	o.Timestamp = parsed
	if !o.Valid() {
		return nil, nil
	}
	return &o, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	// The upstream writer occasionally emits sub-second precision.
	return time.Parse(time.RFC3339Nano, value)
}
