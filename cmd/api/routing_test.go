package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurantapi/internal/enrich"
	"restaurantapi/internal/favorite"
	"restaurantapi/internal/logging"
	"restaurantapi/internal/query"
	"restaurantapi/internal/restaurant"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func testRouter(t *testing.T, repo restaurant.Repository, ping func(context.Context) error) http.Handler {
	t.Helper()
	return newRouter(testDeps(repo, ping))
}

func testDeps(repo restaurant.Repository, ping func(context.Context) error) routerDeps {
	return routerDeps{
		Restaurants:    restaurant.NewHTTPHandler(restaurant.NewService(repo)),
		Favorites:      favorite.NewHTTPHandler(favorite.NewRelay(favorite.Endpoint{}, nil)),
		Enrich:         enrich.NewHTTPHandler(enrich.NewService(nil, nil, enrich.Config{}), "secret"),
		Ping:           ping,
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxBodyBytes:   1 << 10,
	}
}

func TestRouting_RootAndAPIPrefix(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := restaurant.NewMockRepository(ctrl)
	repo.EXPECT().Values(gomock.Any(), gomock.Any()).Return([]string{"Brazil", "Chile"}, nil).Times(2)

	h := testRouter(t, repo, nil)

	for _, path := range []string{"/countries", "/api/countries"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `["Brazil","Chile"]`, w.Body.String(), path)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"), path)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"), path)
	}
}

func TestRouting_DetailPathParam(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := restaurant.NewMockRepository(ctrl)
	repo.EXPECT().GetByLocationID(gomock.Any(), "d123").Return(restaurant.Restaurant{}, restaurant.ErrNotFound)

	h := testRouter(t, repo, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/restaurants/d123", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouting_FavoritesUnconfigured(t *testing.T) {
	h := testRouter(t, restaurant.NewMockRepository(gomock.NewController(t)), nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/favorites", strings.NewReader(`{"favorited":true}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "RELAY_NOT_CONFIGURED")
}

func TestRouting_Health(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		h := testRouter(t, restaurant.NewMockRepository(gomock.NewController(t)), nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("readyz db down", func(t *testing.T) {
		ping := func(context.Context) error { return errors.New("refused") }
		h := testRouter(t, restaurant.NewMockRepository(gomock.NewController(t)), ping)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		h := testRouter(t, restaurant.NewMockRepository(gomock.NewController(t)), nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "go_goroutines")
	})
}

func TestRouting_EnrichRequiresSecret(t *testing.T) {
	h := testRouter(t, restaurant.NewMockRepository(gomock.NewController(t)), nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/internal/jobs/enrich", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouting_UnknownAndWrongMethod(t *testing.T) {
	h := testRouter(t, restaurant.NewMockRepository(gomock.NewController(t)), nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menus", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/countries", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouting_HSTSFollowsConfig(t *testing.T) {
	repo := restaurant.NewMockRepository(gomock.NewController(t))

	w := httptest.NewRecorder()
	testRouter(t, repo, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	deps := testDeps(repo, nil)
	deps.EnableHSTS = true
	w = httptest.NewRecorder()
	newRouter(deps).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestRouting_PanicIsRecoveredInsideAccessLog(t *testing.T) {
	var buf bytes.Buffer
	previous := logging.Logger()
	logging.SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { logging.SetLogger(previous) })

	repo := restaurant.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().Values(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, query.Statement) ([]string, error) { panic("kaboom") })

	w := httptest.NewRecorder()
	testRouter(t, repo, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/countries", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, buf.String(), `"message":"panic recovered"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
