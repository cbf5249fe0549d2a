package restaurant

import (
	"context"

	"restaurantapi/internal/query"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=restaurant

type Repository interface {
	// Values runs a single-column statement and returns its text values.
	Values(ctx context.Context, st query.Statement) ([]string, error)
	List(ctx context.Context, st query.Statement) ([]Restaurant, error)
	// GetByLocationID returns ErrNotFound when no row matches.
	GetByLocationID(ctx context.Context, locationID string) (Restaurant, error)
}
