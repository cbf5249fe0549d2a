package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurantapi_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurantapi_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurantapi_db_query_duration_seconds",
			Help:    "Duration of PostgreSQL statements",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurantapi_db_query_errors_total",
			Help: "Failed PostgreSQL statements",
		},
		[]string{"operation"},
	)

	// FavoriteRelayRequests outcome is one of forwarded, not_configured, failed, invalid.
	FavoriteRelayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurantapi_favorite_relay_requests_total",
			Help: "Favorite events received by the relay, by outcome",
		},
		[]string{"outcome"},
	)

	FavoriteRelayDownstreamStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurantapi_favorite_relay_downstream_status_total",
			Help: "HTTP status codes returned by the CRM webhook",
		},
		[]string{"code"},
	)

	// EnrichmentRestaurants result is one of updated, skipped, failed.
	EnrichmentRestaurants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurantapi_enrichment_restaurants_total",
			Help: "Restaurants processed by detail enrichment",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "restaurantapi_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// ObserveQuery records the duration of one statement and counts failures.
func ObserveQuery(operation string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency labelled by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
