package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/admin"
	"github.com/iliyamo/movie-catalog/internal/validation"
)

// AdminOps is the back office service used by AdminHandler.
type AdminOps interface {
	List(ctx context.Context, entity, term string, filters map[string]string) ([]map[string]any, error)
	Create(ctx context.Context, entity string, decode func(any) error) (any, error)
	RunAction(ctx context.Context, entity, action string, ids []uint64) (int64, string, error)
	Delete(ctx context.Context, entity string, id uint64) error
}

// AdminHandler exposes the back office described by Registry.
type AdminHandler struct {
	Registry *admin.Registry
	Ops      AdminOps
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(reg *admin.Registry, ops AdminOps) *AdminHandler {
	if reg == nil || ops == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Registry: reg, Ops: ops}
}

// adminError maps back office errors to responses.
func adminError(c echo.Context, err error) error {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return validationFailed(c, verr)
	case errors.Is(err, admin.ErrUnknownEntity):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown entity"})
	case errors.Is(err, admin.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, admin.ErrNotCreatable):
		return c.JSON(http.StatusMethodNotAllowed, echo.Map{"error": err.Error()})
	case errors.Is(err, admin.ErrUnknownAction):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, admin.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return serverError(c, err, "admin")
}

// Index handles GET /admin/.
func (h *AdminHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"site_title":  h.Registry.SiteTitle,
		"site_header": h.Registry.SiteHeader,
		"entities":    h.Registry.Entities(),
	})
}

// List handles GET /admin/:entity/?q=&<filter>=.
func (h *AdminHandler) List(c echo.Context) error {
	entity := c.Param("entity")
	filters := map[string]string{}
	for k, v := range c.QueryParams() {
		if k != "q" && len(v) > 0 {
			filters[k] = v[0]
		}
	}
	rows, err := h.Ops.List(c.Request().Context(), entity, c.QueryParam("q"), filters)
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entity": entity, "items": rows})
}

// Create handles POST /admin/:entity with a JSON body.
func (h *AdminHandler) Create(c echo.Context) error {
	decode := func(v any) error {
		if err := c.Bind(v); err != nil {
			return validation.NewError("body", "invalid request body")
		}
		return nil
	}
	out, err := h.Ops.Create(c.Request().Context(), c.Param("entity"), decode)
	if err != nil {
		return adminError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// Action returns the handler of POST /admin/<entity>/<action> with body
// {"ids": [...]}.
func (h *AdminHandler) Action(entity, action string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body struct {
			IDs []uint64 `json:"ids"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
		}
		n, msg, err := h.Ops.RunAction(c.Request().Context(), entity, action, body.IDs)
		if err != nil {
			return adminError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"updated": n, "message": msg})
	}
}

// Delete handles DELETE /admin/:entity/:id.
func (h *AdminHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Ops.Delete(c.Request().Context(), c.Param("entity"), id); err != nil {
		return adminError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
