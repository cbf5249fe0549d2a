package main

import (
	"context"
	"flag"

	"restaurantapi/internal/config"
	"restaurantapi/internal/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertSQL = `
	INSERT INTO restaurants (location_id, name, country, category, rating, image_url, review_json)
	VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
	ON CONFLICT ON CONSTRAINT unique_location_name DO NOTHING`

func main() {
	var (
		count = flag.Int("count", 500, "Number of restaurants to generate")
		seed  = flag.Int64("seed", 42, "Random seed")
		batch = flag.Int("batch", 250, "Rows per insert batch")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logging.Fatal().Err(err).Str("dsn", config.RedactDSN(cfg.DatabaseDSN)).Msg("failed to connect to database")
	}
	defer pool.Close()

	rows := generate(*seed, *count)
	logging.Info().Int("count", len(rows)).Int64("seed", *seed).Msg("generated restaurants")

	inserted, err := insert(ctx, pool, rows, *batch)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to insert restaurants")
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&total); err != nil {
		logging.Fatal().Err(err).Msg("count restaurants")
	}
	logging.Info().Int64("inserted", inserted).Int("total", total).Msg("seed finished")
}

func insert(ctx context.Context, pool *pgxpool.Pool, rows []seedRow, size int) (int64, error) {
	if size < 1 {
		size = 1
	}
	var inserted int64
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))

		b := &pgx.Batch{}
		for _, r := range rows[start:end] {
			b.Queue(insertSQL, r.LocationID, r.Name, r.Country, r.Category, r.Rating, r.ImageURL, string(r.ReviewJSON))
		}

		results := pool.SendBatch(ctx, b)
		for range rows[start:end] {
			tag, err := results.Exec()
			if err != nil {
				_ = results.Close()
				return inserted, err
			}
			inserted += tag.RowsAffected()
		}
		if err := results.Close(); err != nil {
			return inserted, err
		}
		logging.Debug().Int("done", end).Int("of", len(rows)).Msg("batch inserted")
	}
	return inserted, nil
}
