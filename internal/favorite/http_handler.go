package favorite

import (
	"errors"
	"io"
	"net/http"

	"restaurantapi/internal/httpx"
	"restaurantapi/internal/logging"
)

type HTTPHandler struct {
	relay *Relay
}

func NewHTTPHandler(relay *Relay) *HTTPHandler {
	return &HTTPHandler{relay: relay}
}

// Forward handles POST /favorites. The downstream status, body and content
// type are written back as received.
func (h *HTTPHandler) Forward(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to read request body", nil)
		return
	}

	resp, err := h.relay.Forward(r.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPayload):
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Request body must be valid JSON", nil)
		case errors.Is(err, ErrNotConfigured):
			logging.Ctx(r.Context()).Error().Err(err).Msg("favorite relay not configured")
			httpx.JSONError(w, r, http.StatusInternalServerError, "RELAY_NOT_CONFIGURED", "Favorites relay is not configured", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "RELAY_FAILED", "Failed to forward favorite event", nil)
		}
		return
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}
