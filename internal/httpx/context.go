package httpx

import (
	"context"
	"net/http"

	"restaurantapi/internal/logging"
)

// ContextWithRequestID stores id for both RequestIDFrom and logging.Ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return logging.ContextWithRequestID(ctx, id)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	return logging.RequestIDFromContext(r.Context())
}
