package enrich

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"restaurantapi/internal/httpx"
	"restaurantapi/internal/logging"
)

type HTTPHandler struct {
	svc    *Service
	secret string
}

func NewHTTPHandler(svc *Service, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, secret: secret}
}

// Enrich handles POST /internal/jobs/enrich. The route refuses every call
// while no secret is configured.
func (h *HTTPHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Internal-Secret")
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	run, err := h.svc.Run(r.Context())
	if err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			httpx.JSONError(w, r, http.StatusConflict, "ENRICH_RUNNING", "an enrichment run is already in progress", nil)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("enrichment run failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "ENRICH_FAILED", "enrichment run failed", nil)
		return
	}

	httpx.JSONSuccess(w, r, run, nil)
}
