package restaurant

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"restaurantapi/internal/httpx"
	"restaurantapi/internal/logging"
	"restaurantapi/internal/query"

	"github.com/go-chi/chi/v5"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type scopeParams struct {
	Country string `query:"country" validate:"required"`
	Region  string `query:"region" validate:"max=200"`
}

type listParams struct {
	Country   string  `query:"country" validate:"required"`
	Region    string  `query:"region" validate:"max=200"`
	Category  string  `query:"category" validate:"max=200"`
	Name      string  `query:"name" validate:"max=200"`
	MinRating float64 `query:"minRating" validate:"gte=0,lte=5"`
	Page      int     `query:"page"`
}

// Countries handles GET /countries
func (h *HTTPHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.Countries(r.Context())
	if err != nil {
		h.internalError(w, r, err, "list countries")
		return
	}
	httpx.JSON(w, http.StatusOK, countries)
}

// Regions handles GET /regions?country=
func (h *HTTPHandler) Regions(w http.ResponseWriter, r *http.Request) {
	params := scopeParams{Country: strings.TrimSpace(r.URL.Query().Get("country"))}
	if details := httpx.ValidateStruct(params); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	regions, err := h.service.Regions(r.Context(), params.Country)
	if err != nil {
		h.internalError(w, r, err, "list regions")
		return
	}
	httpx.JSON(w, http.StatusOK, regions)
}

// Categories handles GET /categories?country=&region=
func (h *HTTPHandler) Categories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := scopeParams{
		Country: strings.TrimSpace(q.Get("country")),
		Region:  strings.TrimSpace(q.Get("region")),
	}
	if details := httpx.ValidateStruct(params); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	categories, err := h.service.Categories(r.Context(), params.Country, params.Region)
	if err != nil {
		h.internalError(w, r, err, "list categories")
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

// List handles GET /restaurants
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := listParams{
		Country:  strings.TrimSpace(q.Get("country")),
		Region:   strings.TrimSpace(q.Get("region")),
		Category: strings.TrimSpace(q.Get("category")),
		Name:     strings.TrimSpace(q.Get("name")),
	}

	if raw := q.Get("minRating"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters",
				[]httpx.ErrorDetail{{Field: "minRating", Message: "minRating must be a number"}})
			return
		}
		params.MinRating = val
	}

	params.Page = parsePage(q.Get("page"))

	if details := httpx.ValidateStruct(params); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	rows, err := h.service.List(r.Context(), query.Selection{
		Country:   params.Country,
		Region:    params.Region,
		Category:  params.Category,
		Name:      params.Name,
		MinRating: params.MinRating,
		Page:      params.Page,
	})
	if err != nil {
		h.internalError(w, r, err, "list restaurants")
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Detail handles GET /restaurants/{externalId}
func (h *HTTPHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := externalID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.Detail(r.Context(), id)
	if err != nil {
		h.detailError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

// DetailText handles GET /restaurants/{externalId}/text
func (h *HTTPHandler) DetailText(w http.ResponseWriter, r *http.Request) {
	id, ok := externalID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.DetailText(r.Context(), id)
	if err != nil {
		h.detailError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

// parsePage reads the page parameter. Missing or malformed values mean the
// first page; values too large for an int mean the last addressable page.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return query.MaxPage
		}
		return 1
	}
	return query.NormalizePage(page)
}

func externalID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("externalId")
	if id == "" {
		id = chi.URLParam(r, "externalId")
	}
	if id == "" || strings.Contains(id, "/") {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Restaurant not found", nil)
		return "", false
	}
	return id, true
}

func (h *HTTPHandler) detailError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Restaurant not found", nil)
		return
	}
	h.internalError(w, r, err, "get restaurant")
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error, op string) {
	logging.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
