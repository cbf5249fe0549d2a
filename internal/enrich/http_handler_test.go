package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurantapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHTTPHandler_Enrich(t *testing.T) {
	t.Run("rejects missing secret", func(t *testing.T) {
		mRepo := new(mockRepo)
		h := NewHTTPHandler(NewService(new(mockDetailsClient), mRepo, Config{}), "s3cret")

		w := httptest.NewRecorder()
		h.Enrich(w, httptest.NewRequest(http.MethodPost, "/internal/jobs/enrich", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mRepo.AssertNotCalled(t, "CreateRun", mock.Anything, mock.Anything)
	})

	t.Run("unconfigured secret rejects everything", func(t *testing.T) {
		mRepo := new(mockRepo)
		h := NewHTTPHandler(NewService(new(mockDetailsClient), mRepo, Config{}), "")

		r := httptest.NewRequest(http.MethodPost, "/internal/jobs/enrich", nil)
		r.Header.Set("X-Internal-Secret", "")
		w := httptest.NewRecorder()
		h.Enrich(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("runs with valid secret", func(t *testing.T) {
		mRepo := new(mockRepo)
		h := NewHTTPHandler(NewService(new(mockDetailsClient), mRepo, Config{BatchSize: 5}), "s3cret")

		mRepo.On("CreateRun", mock.Anything, mock.Anything).Return(int64(3), nil)
		mRepo.On("PendingRestaurants", mock.Anything, 5).Return([]Candidate{}, nil)
		mRepo.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		r := httptest.NewRequest(http.MethodPost, "/internal/jobs/enrich", nil)
		r.Header.Set("X-Internal-Secret", "s3cret")
		w := httptest.NewRecorder()
		h.Enrich(w, r)

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, res.Code)
		data := res.Body["data"].(map[string]any)
		assert.Equal(t, float64(3), data["id"])
		assert.Equal(t, StatusCompleted, data["status"])
	})

	t.Run("run failure", func(t *testing.T) {
		mRepo := new(mockRepo)
		h := NewHTTPHandler(NewService(new(mockDetailsClient), mRepo, Config{}), "s3cret")

		mRepo.On("CreateRun", mock.Anything, mock.Anything).Return(int64(0), context.DeadlineExceeded)

		r := httptest.NewRequest(http.MethodPost, "/internal/jobs/enrich", nil)
		r.Header.Set("X-Internal-Secret", "s3cret")
		w := httptest.NewRecorder()
		h.Enrich(w, r)

		res := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusInternalServerError, res.Code)
		assert.Equal(t, "ENRICH_FAILED", res.Body["error"].(map[string]any)["code"])
	})
}
