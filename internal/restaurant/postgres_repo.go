package restaurant

import (
	"context"
	"errors"
	"time"

	"restaurantapi/internal/metrics"
	"restaurantapi/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Values(ctx context.Context, st query.Statement) (out []string, err error) {
	defer func(start time.Time) { metrics.ObserveQuery("values", start, err) }(time.Now())

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, st.SQL, st.Args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *PostgresRepo) List(ctx context.Context, st query.Statement) (out []Restaurant, err error) {
	defer func(start time.Time) { metrics.ObserveQuery("list", start, err) }(time.Now())

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, st.SQL, st.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByLocationID(ctx context.Context, locationID string) (rest Restaurant, err error) {
	defer func(start time.Time) {
		if errors.Is(err, ErrNotFound) {
			metrics.ObserveQuery("detail", start, nil)
			return
		}
		metrics.ObserveQuery("detail", start, err)
	}(time.Now())

	// location_id is unique together with name only; the oldest row wins.
	const sql = `SELECT ` + query.RestaurantColumns + `
		FROM restaurants
		WHERE location_id = $1
		ORDER BY id
		LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rest, err = scanRestaurant(r.db.QueryRow(timeoutCtx, sql, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Restaurant{}, ErrNotFound
		}
		return Restaurant{}, err
	}
	return rest, nil
}

// scanRestaurant reads the columns listed in query.RestaurantColumns.
func scanRestaurant(row pgx.Row) (Restaurant, error) {
	var (
		rest           Restaurant
		review, detail []byte
	)
	err := row.Scan(
		&rest.ID, &rest.LocationID, &rest.Name, &rest.Country, &rest.Category,
		&rest.Rating, &rest.ImageURL, &review, &detail,
		&rest.CreatedAt, &rest.UpdatedAt,
	)
	if err != nil {
		return Restaurant{}, err
	}
	rest.ReviewJSON = review
	rest.DetailJSON = detail
	return rest, nil
}
