package enrich

import (
	"context"
	"time"

	"restaurantapi/internal/metrics"
	"restaurantapi/internal/query"
	"restaurantapi/internal/restaurant"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var restaurantsID = query.JSONText{Column: "review_json", Path: restaurant.TripAdvisorIDPath}

type Repository interface {
	CreateRun(ctx context.Context, run *Run) (int64, error)
	UpdateRun(ctx context.Context, run *Run) error
	PendingRestaurants(ctx context.Context, limit int) ([]Candidate, error)
	// SetDetail reports whether the row was written. A row whose detail is
	// already present is left untouched.
	SetDetail(ctx context.Context, id int64, detail []byte) (bool, error)
}

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) (int64, error) {
	const sql = `
		INSERT INTO enrichment_runs (started_at, status, batch_size)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, sql, run.StartedAt, run.Status, run.BatchSize).Scan(&id)
	return id, err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE enrichment_runs SET
			finished_at = $1,
			status = $2,
			candidates = $3,
			fetched = $4,
			updated = $5,
			skipped = $6,
			failed = $7,
			error = $8
		WHERE id = $9`

	_, err := r.db.Exec(ctx, sql, run.FinishedAt, run.Status, run.Candidates, run.Fetched, run.Updated, run.Skipped, run.Failed, run.Error, run.ID)
	return err
}

func (r *PostgresRepo) PendingRestaurants(ctx context.Context, limit int) (out []Candidate, err error) {
	defer func(start time.Time) { metrics.ObserveQuery("enrich_pending", start, err) }(time.Now())

	ref := restaurantsID.SQL()
	sql := `
		SELECT id, name, ` + ref + `
		FROM restaurants
		WHERE detail_json IS NULL
		  AND ` + ref + ` IS NOT NULL
		ORDER BY id
		LIMIT $1`

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Candidate, error) {
		var c Candidate
		err := row.Scan(&c.ID, &c.Name, &c.RestaurantsID)
		return c, err
	})
}

func (r *PostgresRepo) SetDetail(ctx context.Context, id int64, detail []byte) (ok bool, err error) {
	defer func(start time.Time) { metrics.ObserveQuery("enrich_set_detail", start, err) }(time.Now())

	const sql = `
		UPDATE restaurants
		SET detail_json = $1::jsonb, updated_at = NOW()
		WHERE id = $2 AND detail_json IS NULL`

	tag, err := r.db.Exec(ctx, sql, string(detail), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
