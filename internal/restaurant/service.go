package restaurant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"restaurantapi/internal/jsonpath"
	"restaurantapi/internal/query"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Countries(ctx context.Context) ([]string, error) {
	return s.values(ctx, "list countries", query.CountriesStatement())
}

func (s *Service) Regions(ctx context.Context, country string) ([]string, error) {
	return s.values(ctx, "list regions", query.RegionsStatement(country))
}

// Categories is scoped to region when given, otherwise to country.
func (s *Service) Categories(ctx context.Context, country, region string) ([]string, error) {
	return s.values(ctx, "list categories", query.CategoriesStatement(country, region))
}

// values returns a sorted, deduplicated, never-nil slice regardless of the
// store's collation.
func (s *Service) values(ctx context.Context, op string, st query.Statement) ([]string, error) {
	vals, err := s.repo.Values(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataAccess, op, err)
	}
	out := make([]string, 0, len(vals))
	out = append(out, vals...)
	slices.Sort(out)
	return slices.Compact(out), nil
}

// List returns one page of restaurants matching sel. Country presence is the
// caller's concern.
func (s *Service) List(ctx context.Context, sel query.Selection) ([]Restaurant, error) {
	rows, err := s.repo.List(ctx, query.Compose(sel))
	if err != nil {
		return nil, fmt.Errorf("%w: list restaurants: %w", ErrDataAccess, err)
	}
	if rows == nil {
		rows = []Restaurant{}
	}
	return rows, nil
}

func (s *Service) Detail(ctx context.Context, locationID string) (Detail, error) {
	rest, err := s.get(ctx, locationID)
	if err != nil {
		return Detail{}, err
	}
	return Detail{DetailView: project(rest), Detail: rest.DetailJSON}, nil
}

func (s *Service) DetailText(ctx context.Context, locationID string) (DetailText, error) {
	rest, err := s.get(ctx, locationID)
	if err != nil {
		return DetailText{}, err
	}
	out := DetailText{DetailView: project(rest)}
	if len(rest.DetailJSON) > 0 {
		text := string(rest.DetailJSON)
		out.Detail = &text
	}
	return out, nil
}

func (s *Service) get(ctx context.Context, locationID string) (Restaurant, error) {
	rest, err := s.repo.GetByLocationID(ctx, locationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Restaurant{}, ErrNotFound
		}
		return Restaurant{}, fmt.Errorf("%w: get restaurant %s: %w", ErrDataAccess, locationID, err)
	}
	return rest, nil
}

// project flattens top-level columns with fields read from the documents.
// The detail overview fills in a missing name or rating.
func project(rest Restaurant) DetailView {
	v := DetailView{
		ID:         rest.ID,
		LocationID: rest.LocationID,
		Name:       rest.Name,
		Country:    rest.Country,
		Category:   rest.Category,
		Rating:     rest.Rating,
		ImageURL:   rest.ImageURL,
	}

	if region, ok := query.RegionPath.ScalarFromRaw(rest.ReviewJSON); ok {
		v.Region = &region
	}

	detail, err := jsonpath.Decode(rest.DetailJSON)
	if err != nil || detail == nil {
		return v
	}
	if addr, ok := AddressPath.Scalar(detail); ok {
		v.Address = &addr
	}
	if hood, ok := NeighborhoodPath.Scalar(detail); ok {
		v.Neighborhood = &hood
	}
	if v.Name == "" {
		if name, ok := OverviewNamePath.Scalar(detail); ok {
			v.Name = name
		}
	}
	if v.Rating == nil {
		if raw, ok := OverviewRatePath.Scalar(detail); ok {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				v.Rating = &rating
			}
		}
	}
	return v
}
