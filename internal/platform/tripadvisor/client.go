// Package tripadvisor is a small client for the TripAdvisor travel API as
// published on RapidAPI.
package tripadvisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"restaurantapi/internal/logging"
	"restaurantapi/internal/metrics"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultHost = "tripadvisor16.p.rapidapi.com"
	breakerName = "tripadvisor-api"
)

var (
	ErrNotFound    = errors.New("restaurant details not found")
	ErrUnavailable = errors.New("tripadvisor unavailable")
)

type Config struct {
	APIKey     string
	Host       string
	RPS        float64
	MaxRetries int
	// BaseURL overrides https://<Host>.
	BaseURL string
}

type Client struct {
	httpClient *http.Client
	apiKey     string
	host       string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    func(attempt int) time.Duration
	cb         *gobreaker.CircuitBreaker[json.RawMessage]
}

func NewClient(cfg Config) *Client {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://" + cfg.Host
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     cfg.APIKey,
		host:       cfg.Host,
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.MaxRetries,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt-1)) * time.Second
		},
		cb: gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
			Name:        breakerName,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// A missing restaurant is an answer, not an outage.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log := logging.WithComponent("tripadvisor")
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
				metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			},
		}),
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

type detailsResponse struct {
	Status  bool            `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RestaurantDetails returns the data document of getRestaurantDetailsV2 for
// restaurantsID, e.g. "Restaurant_Review-g303506-d1234567-Reviews-Name".
func (c *Client) RestaurantDetails(ctx context.Context, restaurantsID string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("restaurantsId", restaurantsID)
	q.Set("currencyCode", "BRL")
	u := c.baseURL + "/api/v1/restaurant/getRestaurantDetailsV2?" + q.Encode()

	data, err := c.cb.Execute(func() (json.RawMessage, error) {
		var res detailsResponse
		if err := c.get(ctx, u, &res); err != nil {
			return nil, err
		}
		if !res.Status || len(res.Data) == 0 || string(res.Data) == "null" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, restaurantsID)
		}
		return res.Data, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return data, err
}

func (c *Client) get(ctx context.Context, u string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(c.backoff(i)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
		req.Header.Set("X-RapidAPI-Host", c.host)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		retry, err := decode(resp, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func decode(resp *http.Response, target any) (retry bool, err error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return false, json.NewDecoder(resp.Body).Decode(target)
	case resp.StatusCode == http.StatusNotFound:
		return false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	default:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
