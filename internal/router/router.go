package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/admin"
	"github.com/iliyamo/movie-catalog/internal/handler"
)

// RegisterRoutes registers the operational endpoints.  metrics serves the
// Prometheus exposition.
func RegisterRoutes(e *echo.Echo, metrics echo.HandlerFunc) {
	e.GET("/healthz", handler.Health)
	if metrics != nil {
		e.GET("/metrics", metrics)
	}
}

// RegisterPublic registers the catalog pages.  Static paths take precedence
// over /:slug/, so a movie cannot be reached under a slug such as "filter".
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler) {
	e.GET("/", h.ListMovies)
	e.GET("/filter/", h.FilterMovies)
	e.GET("/filter/json/", h.FilterJSON)
	e.GET("/actor/:name/", h.ActorDetail)
	e.GET("/:slug/", h.MovieDetail)
}

// RegisterForms registers the form endpoints.  limit guards the review and
// contact forms; the rating endpoint is left unlimited so its only answers
// stay 201 and 400.
func RegisterForms(e *echo.Echo, h *handler.SubmitHandler, limit echo.MiddlewareFunc) {
	e.POST("/review/:id/", h.AddReview, limit)
	e.POST("/contact/", h.Subscribe, limit)
	e.POST("/rating/", h.AddRating)
}

// RegisterAdmin mounts the back office under /admin.  Each bulk action of
// the registry gets its own static route.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, reg *admin.Registry) {
	g := e.Group("/admin")
	g.GET("/", h.Index)
	g.GET("/:entity/", h.List)
	g.POST("/:entity", h.Create)
	g.DELETE("/:entity/:id", h.Delete)
	for _, ent := range reg.Entities() {
		for _, action := range ent.Actions {
			g.POST("/"+ent.Name+"/"+action, h.Action(ent.Name, action))
		}
	}
}
