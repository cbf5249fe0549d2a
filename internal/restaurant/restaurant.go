package restaurant

import (
	"errors"
	"time"

	"restaurantapi/internal/jsonpath"

	"github.com/goccy/go-json"
)

var (
	ErrNotFound   = errors.New("restaurant not found")
	ErrDataAccess = errors.New("data access failed")
)

// Paths inside detail_json, as returned by getRestaurantDetailsV2.
var (
	AddressPath       = jsonpath.MustParse("location.address.address")
	NeighborhoodPath  = jsonpath.MustParse("location.neighborhood.text")
	OverviewNamePath  = jsonpath.MustParse("overview.name")
	OverviewRatePath  = jsonpath.MustParse("overview.rating")
	TripAdvisorIDPath = jsonpath.MustParse("restaurantsId")
)

// Restaurant is one stored row. ReviewJSON and DetailJSON are the raw
// documents; DetailJSON is nil until enrichment has run.
type Restaurant struct {
	ID         int64           `json:"id"`
	LocationID string          `json:"location_id"`
	Name       string          `json:"name"`
	Country    string          `json:"country"`
	Category   *string         `json:"category"`
	Rating     *float64        `json:"rating"`
	ImageURL   *string         `json:"image_url"`
	ReviewJSON json.RawMessage `json:"review_json"`
	DetailJSON json.RawMessage `json:"detail_json"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DetailView is the flattened projection shared by both detail variants.
type DetailView struct {
	ID           int64    `json:"id"`
	LocationID   string   `json:"location_id"`
	Name         string   `json:"name"`
	Country      string   `json:"country"`
	Category     *string  `json:"category"`
	Rating       *float64 `json:"rating"`
	ImageURL     *string  `json:"image_url"`
	Region       *string  `json:"region"`
	Address      *string  `json:"address"`
	Neighborhood *string  `json:"neighborhood"`
}

// Detail carries the detail document as structured JSON (null when absent).
type Detail struct {
	DetailView
	Detail json.RawMessage `json:"detail"`
}

// DetailText carries the detail document serialized as a JSON string.
type DetailText struct {
	DetailView
	Detail *string `json:"detail"`
}
