// Package handler exposes the HTTP endpoints of the catalog: the public
// listing, detail, actor and filter pages, the review, rating and contact
// forms, and the back office.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/validation"
)

// validationFailed renders field errors with status 400.
func validationFailed(c echo.Context, verr *validation.RequestValidationError) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "fields": verr.Fields()})
}

// serverError logs err and answers 500 without leaking it.
func serverError(c echo.Context, err error, msg string) error {
	logging.Ctx(c.Request().Context()).Error().Err(err).Str("route", c.Path()).Msg(msg)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// HTTPErrorHandler renders errors that reach echo, such as unmatched routes
// or disallowed methods, in the same {"error": ...} shape as the handlers.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	} else {
		logging.Ctx(c.Request().Context()).Error().Err(err).Str("route", c.Path()).Msg("unhandled error")
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"error": msg})
	}
	if err != nil {
		logging.Ctx(c.Request().Context()).Warn().Err(err).Msg("write error response")
	}
}
