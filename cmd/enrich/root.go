package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"restaurantapi/internal/config"
	"restaurantapi/internal/enrich"
	"restaurantapi/internal/logging"
	"restaurantapi/internal/platform/tripadvisor"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

type options struct {
	batchSize  int
	rps        float64
	maxRetries int
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fetch TripAdvisor details for restaurants that have none",
		Long: `enrich selects restaurants whose detail document is still empty, fetches
getRestaurantDetailsV2 for each one and stores the result. Already enriched
rows are never overwritten.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, opts)
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, opts.dryRun)
		},
	}

	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Maximum restaurants per run (default ENRICH_BATCH_SIZE)")
	cmd.Flags().Float64Var(&opts.rps, "rps", 0, "Requests per second to RapidAPI (default ENRICH_RPS)")
	cmd.Flags().IntVar(&opts.maxRetries, "max-retries", 0, "Retries on 429/5xx (default ENRICH_MAX_RETRIES)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "List pending restaurants without calling the API")

	return cmd
}

// applyFlags overrides cfg with the flags the user actually set.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) {
	if cmd.Flags().Changed("batch-size") {
		cfg.EnrichBatchSize = opts.batchSize
	}
	if cmd.Flags().Changed("rps") {
		cfg.EnrichRPS = opts.rps
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.EnrichMaxRetries = opts.maxRetries
	}
}

func run(ctx context.Context, cfg *config.Config, dryRun bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.RapidAPIKey == "" && !dryRun {
		return fmt.Errorf("RAPIDAPI_KEY is required")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect %s: %w", config.RedactDSN(cfg.DatabaseDSN), err)
	}
	defer pool.Close()

	repo := enrich.NewPostgresRepo(pool)

	if dryRun {
		pending, err := repo.PendingRestaurants(ctx, cfg.EnrichBatchSize)
		if err != nil {
			return err
		}
		for _, c := range pending {
			logging.Info().Int64("id", c.ID).Str("name", c.Name).Str("restaurants_id", c.RestaurantsID).Msg("pending")
		}
		logging.Info().Int("pending", len(pending)).Msg("dry run finished")
		return nil
	}

	client := tripadvisor.NewClient(tripadvisor.Config{
		APIKey:     cfg.RapidAPIKey,
		Host:       cfg.RapidAPIHost,
		RPS:        cfg.EnrichRPS,
		MaxRetries: cfg.EnrichMaxRetries,
	})
	svc := enrich.NewService(client, repo, enrich.Config{BatchSize: cfg.EnrichBatchSize})

	result, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	logging.Info().Int64("run_id", result.ID).Int("updated", result.Updated).Msg("enrichment completed")
	return nil
}
