package main

import (
	"context"
	"net/http"
	"time"

	"restaurantapi/internal/enrich"
	"restaurantapi/internal/favorite"
	"restaurantapi/internal/httpx"
	"restaurantapi/internal/metrics"
	"restaurantapi/internal/restaurant"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routerDeps struct {
	Restaurants *restaurant.HTTPHandler
	Favorites   *favorite.HTTPHandler
	Enrich      *enrich.HTTPHandler
	// Ping backs /readyz.
	Ping func(ctx context.Context) error

	RateLimiter    *httpx.RateLimitMiddleware
	AllowedOrigins []string
	MaxBodyBytes   int64
	EnableHSTS     bool
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(metrics.Middleware)
	r.Use(httpx.SecurityHeadersMiddleware(d.EnableHSTS))
	r.Use(httpx.CORSMiddleware(d.AllowedOrigins))
	r.Use(httpx.RequestSizeLimitMiddleware(d.MaxBodyBytes))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if d.Ping != nil {
			if err := d.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if d.Enrich != nil {
		r.Post("/internal/jobs/enrich", d.Enrich.Enrich)
	}

	public := func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Middleware)
		}
		r.Get("/countries", d.Restaurants.Countries)
		r.Get("/regions", d.Restaurants.Regions)
		r.Get("/categories", d.Restaurants.Categories)
		r.Get("/restaurants", d.Restaurants.List)
		r.Get("/restaurants/{externalId}", d.Restaurants.Detail)
		r.Get("/restaurants/{externalId}/text", d.Restaurants.DetailText)
		r.Post("/favorites", d.Favorites.Forward)
	}
	r.Group(public)
	r.Route("/api", public)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	return r
}
