package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// Catalog is the read side used by CatalogHandler.
type Catalog interface {
	ListPublished(ctx context.Context, page int) (*service.MovieList, error)
	MovieBySlug(ctx context.Context, slug string) (*service.MovieDetail, error)
	ActorByName(ctx context.Context, name string) (*service.ActorDetail, error)
	Filter(ctx context.Context, years []int, genres []uint64, page int) (*service.FilterResult, error)
	FilterCards(ctx context.Context, years []int, genres []uint64) ([]model.MovieCard, error)
}

// CatalogHandler serves the public pages.  MediaURL is the prefix clients
// put in front of stored poster and image references.
type CatalogHandler struct {
	Catalog  Catalog
	MediaURL string
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog Catalog, mediaURL string) *CatalogHandler {
	if catalog == nil {
		panic("nil catalog passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog, MediaURL: mediaURL}
}

// pageParam reads ?page=; absent means 1.  ok is false for anything that is
// not a positive integer.
func pageParam(c echo.Context) (page int, ok bool) {
	raw := c.QueryParam("page")
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// filterParams collects the repeatable year and genre parameters.  Values
// that are not numbers cannot match any movie and are dropped.
func filterParams(c echo.Context) (years []int, genres []uint64) {
	q := c.QueryParams()
	for _, raw := range q["year"] {
		if y, err := strconv.Atoi(raw); err == nil {
			years = append(years, y)
		}
	}
	for _, raw := range q["genre"] {
		if g, err := strconv.ParseUint(raw, 10, 64); err == nil {
			genres = append(genres, g)
		}
	}
	return years, genres
}

// ListMovies handles GET /.  It returns one page (three movies) of the
// published catalog with the genre and year sidebar.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	page, ok := pageParam(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid page"})
	}
	list, err := h.Catalog.ListPublished(c.Request().Context(), page)
	if errors.Is(err, service.ErrInvalidPage) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid page"})
	}
	if err != nil {
		return serverError(c, err, "list movies")
	}
	return c.JSON(http.StatusOK, struct {
		*service.MovieList
		MediaURL string `json:"media_url"`
	}{list, h.MediaURL})
}

// MovieDetail handles GET /:slug/.
func (h *CatalogHandler) MovieDetail(c echo.Context) error {
	d, err := h.Catalog.MovieBySlug(c.Request().Context(), c.Param("slug"))
	if errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	if err != nil {
		return serverError(c, err, "movie detail")
	}
	return c.JSON(http.StatusOK, struct {
		*service.MovieDetail
		MediaURL string `json:"media_url"`
	}{d, h.MediaURL})
}

// ActorDetail handles GET /actor/:name/.  The name arrives path-escaped
// when it holds characters outside the default encoding.
func (h *CatalogHandler) ActorDetail(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
	}
	d, err := h.Catalog.ActorByName(c.Request().Context(), name)
	if errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
	}
	if err != nil {
		return serverError(c, err, "actor detail")
	}
	return c.JSON(http.StatusOK, struct {
		*service.ActorDetail
		MediaURL string `json:"media_url"`
	}{d, h.MediaURL})
}

// FilterMovies handles GET /filter/?year=&genre=.  It returns two movies
// per page; "year" and "genre" in the response are query fragments that
// reproduce the selection in page links.
func (h *CatalogHandler) FilterMovies(c echo.Context) error {
	page, ok := pageParam(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid page"})
	}
	years, genres := filterParams(c)
	res, err := h.Catalog.Filter(c.Request().Context(), years, genres, page)
	if errors.Is(err, service.ErrInvalidPage) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid page"})
	}
	if err != nil {
		return serverError(c, err, "filter movies")
	}
	return c.JSON(http.StatusOK, struct {
		*service.FilterResult
		MediaURL string `json:"media_url"`
	}{res, h.MediaURL})
}

// FilterJSON handles GET /filter/json/.  Every match is returned as
// {"movies": [{"title","tagline","url","poster"}]} without pagination.
func (h *CatalogHandler) FilterJSON(c echo.Context) error {
	years, genres := filterParams(c)
	cards, err := h.Catalog.FilterCards(c.Request().Context(), years, genres)
	if err != nil {
		return serverError(c, err, "filter movies json")
	}
	if cards == nil {
		cards = []model.MovieCard{}
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": cards})
}
