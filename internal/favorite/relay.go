package favorite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"restaurantapi/internal/jsonpath"
	"restaurantapi/internal/logging"
	"restaurantapi/internal/metrics"

	"github.com/goccy/go-json"
)

var (
	ErrRelay          = errors.New("favorites relay failed")
	ErrInvalidPayload = errors.New("favorite event is not valid JSON")
	// ErrResponseTooLarge wraps ErrRelay; a reply that cannot be relayed
	// whole is not relayed at all.
	ErrResponseTooLarge = fmt.Errorf("%w: downstream response too large", ErrRelay)
)

const (
	EventFavorited   = "restaurant.favorited"
	EventUnfavorited = "restaurant.unfavorited"
	EventToggled     = "restaurant.favorite_toggled"

	maxDownstreamBody = 4 << 20
)

var favoritedPath = jsonpath.MustParse("favorited")

// Response is the downstream reply, returned to the caller unchanged.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// envelope is the CRM's event schema. Data carries the client body verbatim.
type envelope struct {
	Type       string          `json:"type"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type Relay struct {
	endpoint Endpoint
	client   *http.Client
	now      func() time.Time
	maxBody  int64
}

// NewHTTPClient returns a client that never follows redirects, so a 3xx from
// the webhook is passed through like any other status.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// NewRelay accepts an unconfigured endpoint; Forward then fails fast.
func NewRelay(endpoint Endpoint, client *http.Client) *Relay {
	if client == nil {
		client = NewHTTPClient(10 * time.Second)
	}
	return &Relay{endpoint: endpoint, client: client, now: time.Now, maxBody: maxDownstreamBody}
}

// Forward wraps body in the CRM envelope and posts it exactly once.
func (r *Relay) Forward(ctx context.Context, body []byte) (Response, error) {
	log := logging.Ctx(ctx)

	if !r.endpoint.Configured() {
		metrics.FavoriteRelayRequests.WithLabelValues("not_configured").Inc()
		return Response{}, ErrNotConfigured
	}

	payload, eventType, err := r.wrap(body)
	if err != nil {
		metrics.FavoriteRelayRequests.WithLabelValues("invalid").Inc()
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		metrics.FavoriteRelayRequests.WithLabelValues("failed").Inc()
		return Response{}, fmt.Errorf("%w: build request: %w", ErrRelay, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth := r.endpoint.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		metrics.FavoriteRelayRequests.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("endpoint", r.endpoint.String()).Msg("favorite relay request failed")
		return Response{}, fmt.Errorf("%w: %w", ErrRelay, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBody+1))
	if err != nil {
		metrics.FavoriteRelayRequests.WithLabelValues("failed").Inc()
		return Response{}, fmt.Errorf("%w: read response: %w", ErrRelay, err)
	}
	if int64(len(respBody)) > r.maxBody {
		metrics.FavoriteRelayRequests.WithLabelValues("failed").Inc()
		log.Error().
			Str("endpoint", r.endpoint.String()).
			Int("status", resp.StatusCode).
			Int64("limit", r.maxBody).
			Msg("favorite relay response exceeds limit")
		return Response{}, ErrResponseTooLarge
	}

	metrics.FavoriteRelayRequests.WithLabelValues("forwarded").Inc()
	metrics.FavoriteRelayDownstreamStatus.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	log.Info().
		Str("endpoint", r.endpoint.String()).
		Str("type", eventType).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("favorite event forwarded")

	return Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

func (r *Relay) wrap(body []byte) ([]byte, string, error) {
	if !json.Valid(body) {
		return nil, "", ErrInvalidPayload
	}
	doc, err := jsonpath.Decode(body)
	if err != nil {
		return nil, "", ErrInvalidPayload
	}

	eventType := EventToggled
	if v, ok := favoritedPath.Lookup(doc); ok {
		if fav, isBool := v.(bool); isBool {
			eventType = EventUnfavorited
			if fav {
				eventType = EventFavorited
			}
		}
	}

	payload, err := json.Marshal(envelope{
		Type:       eventType,
		Source:     "restaurantapi",
		OccurredAt: r.now().UTC(),
		Data:       json.RawMessage(body),
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return payload, eventType, nil
}
