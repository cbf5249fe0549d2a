// Package enrich fills restaurants.detail_json from the TripAdvisor details
// endpoint for rows that have not been enriched yet.
package enrich

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

type Run struct {
	ID         int64      `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     string     `json:"status"`
	BatchSize  int        `json:"batch_size"`
	Candidates int        `json:"candidates"`
	Fetched    int        `json:"fetched"`
	Updated    int        `json:"updated"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
}

// Candidate is a restaurant whose detail document is still missing.
type Candidate struct {
	ID            int64
	Name          string
	RestaurantsID string
}

type DetailsClient interface {
	RestaurantDetails(ctx context.Context, restaurantsID string) (json.RawMessage, error)
}
