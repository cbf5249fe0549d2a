package enrich

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"restaurantapi/internal/logging"
	"restaurantapi/internal/metrics"
	"restaurantapi/internal/platform/tripadvisor"
)

var ErrAlreadyRunning = errors.New("enrichment already running")

type Config struct {
	BatchSize int
}

type Service struct {
	client DetailsClient
	repo   Repository
	cfg    Config
	now    func() time.Time

	running sync.Mutex
}

func NewService(client DetailsClient, repo Repository, cfg Config) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 3000
	}
	return &Service{client: client, repo: repo, cfg: cfg, now: time.Now}
}

// Run enriches up to BatchSize pending restaurants. Only one run executes at
// a time per Service; a second caller gets ErrAlreadyRunning.
func (s *Service) Run(ctx context.Context) (run *Run, err error) {
	if !s.running.TryLock() {
		return nil, ErrAlreadyRunning
	}
	defer s.running.Unlock()

	log := logging.Ctx(ctx).With().Str("component", "enrich").Logger()

	run = &Run{
		Status:    StatusRunning,
		BatchSize: s.cfg.BatchSize,
		StartedAt: s.now(),
	}
	runID, err := s.repo.CreateRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	run.ID = runID

	defer func() {
		now := s.now()
		run.FinishedAt = &now
		if err != nil && run.Error == "" {
			run.Error = err.Error()
		}

		if run.Error != "" {
			run.Status = StatusFailed
		} else {
			run.Status = StatusCompleted
		}
		// The caller's context may already be cancelled; the run row must
		// still leave RUNNING.
		if updateErr := s.repo.UpdateRun(context.WithoutCancel(ctx), run); updateErr != nil {
			log.Error().Err(updateErr).Int64("run_id", run.ID).Msg("failed to update enrichment run")
		}
		log.Info().
			Int64("run_id", run.ID).
			Str("status", run.Status).
			Int("candidates", run.Candidates).
			Int("updated", run.Updated).
			Int("skipped", run.Skipped).
			Int("failed", run.Failed).
			Msg("enrichment run finished")
	}()

	candidates, err := s.repo.PendingRestaurants(ctx, s.cfg.BatchSize)
	if err != nil {
		return run, fmt.Errorf("select pending restaurants: %w", err)
	}
	run.Candidates = len(candidates)
	if len(candidates) == 0 {
		log.Info().Msg("no restaurants pending enrichment")
		return run, nil
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return run, err
		}

		detail, err := s.client.RestaurantDetails(ctx, c.RestaurantsID)
		switch {
		case errors.Is(err, tripadvisor.ErrNotFound):
			run.Skipped++
			metrics.EnrichmentRestaurants.WithLabelValues("skipped").Inc()
			log.Debug().Int64("id", c.ID).Str("restaurants_id", c.RestaurantsID).Msg("no details available")
			continue
		case errors.Is(err, tripadvisor.ErrUnavailable):
			return run, err
		case err != nil:
			run.Failed++
			metrics.EnrichmentRestaurants.WithLabelValues("failed").Inc()
			log.Warn().Err(err).Int64("id", c.ID).Str("name", c.Name).Msg("fetch restaurant details")
			continue
		}
		run.Fetched++

		written, err := s.repo.SetDetail(ctx, c.ID, detail)
		if err != nil {
			run.Failed++
			metrics.EnrichmentRestaurants.WithLabelValues("failed").Inc()
			log.Warn().Err(err).Int64("id", c.ID).Msg("store restaurant details")
			continue
		}
		if !written {
			run.Skipped++
			metrics.EnrichmentRestaurants.WithLabelValues("skipped").Inc()
			continue
		}
		run.Updated++
		metrics.EnrichmentRestaurants.WithLabelValues("updated").Inc()
	}

	return run, nil
}
