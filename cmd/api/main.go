package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurantapi/internal/config"
	"restaurantapi/internal/enrich"
	"restaurantapi/internal/favorite"
	"restaurantapi/internal/httpx"
	"restaurantapi/internal/logging"
	"restaurantapi/internal/platform/tripadvisor"
	"restaurantapi/internal/restaurant"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, cfg.DatabaseDSN)
	defer dbPool.Close()

	restaurantRepo := restaurant.NewPostgresRepo(dbPool, cfg.QueryTimeout)
	restaurantHandler := restaurant.NewHTTPHandler(restaurant.NewService(restaurantRepo))

	endpoint, err := favorite.ParseEndpoint(cfg.FavoritesWebhookURL)
	switch {
	case errors.Is(err, favorite.ErrNotConfigured):
		logging.Warn().Msg("FAVORITES_WEBHOOK_URL not set; favorite events will be rejected")
	case err != nil:
		logging.Fatal().Err(err).Msg("invalid FAVORITES_WEBHOOK_URL")
	default:
		logging.Info().Str("endpoint", endpoint.String()).Msg("favorites relay configured")
	}
	relay := favorite.NewRelay(endpoint, favorite.NewHTTPClient(cfg.FavoritesTimeout))

	taClient := tripadvisor.NewClient(tripadvisor.Config{
		APIKey:     cfg.RapidAPIKey,
		Host:       cfg.RapidAPIHost,
		RPS:        cfg.EnrichRPS,
		MaxRetries: cfg.EnrichMaxRetries,
	})
	enrichSvc := enrich.NewService(taClient, enrich.NewPostgresRepo(dbPool), enrich.Config{BatchSize: cfg.EnrichBatchSize})

	router := newRouter(routerDeps{
		Restaurants:    restaurantHandler,
		Favorites:      favorite.NewHTTPHandler(relay),
		Enrich:         enrich.NewHTTPHandler(enrichSvc, cfg.InternalSecret),
		Ping:           dbPool.Ping,
		RateLimiter:    httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		AllowedOrigins: cfg.AllowedOrigins(),
		MaxBodyBytes:   cfg.MaxBodyBytes,
		EnableHSTS:     cfg.EnableHSTS,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", cfg.Addr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func mustOpenDB(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logging.Fatal().Err(err).Str("dsn", config.RedactDSN(dsn)).Msg("cannot ping database")
	}
	logging.Info().Msg("database connection OK")
	return pool
}
