package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"restaurantapi/internal/config"
	"restaurantapi/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var errUsage = errors.New("usage")

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := checkArgs(*command, *name); err != nil {
		logging.Fatal().Err(err).Send()
	}

	dir := migrationsDir()
	if *command == "create" {
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			logging.Fatal().Err(err).Msg("failed to create migration")
		}
		logging.Info().Str("name", *name).Str("dir", dir).Msg("migration created")
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logging.Fatal().Err(err).Str("dsn", config.RedactDSN(cfg.DatabaseDSN)).Msg("failed to connect to database")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := migrate(db, *command, dir); err != nil {
		logging.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	logging.Info().Str("command", *command).Msg("migration finished")
}

func checkArgs(command, name string) error {
	switch command {
	case "up", "down", "status":
		return nil
	case "create":
		if name == "" {
			return fmt.Errorf("%w: -name is required for 'create'", errUsage)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q, use up, down, status or create", errUsage, command)
	}
}

func migrate(db *sql.DB, command, dir string) error {
	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}
