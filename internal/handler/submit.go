package handler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/validation"
)

type ReviewSubmitter interface {
	Submit(ctx context.Context, movieID uint64, in service.ReviewInput) (*model.Review, *model.Movie, error)
}

type RatingSubmitter interface {
	Submit(ctx context.Context, movieID, starID uint64, ip string) (created bool, err error)
}

type ContactSubscriber interface {
	Subscribe(ctx context.Context, in service.ContactInput) (*model.Contact, error)
}

// SubmitHandler accepts the public forms.
type SubmitHandler struct {
	Reviews  ReviewSubmitter
	Ratings  RatingSubmitter
	Contacts ContactSubscriber
}

// NewSubmitHandler constructs a SubmitHandler.  All dependencies must be
// non-nil.
func NewSubmitHandler(reviews ReviewSubmitter, ratings RatingSubmitter, contacts ContactSubscriber) *SubmitHandler {
	if reviews == nil || ratings == nil || contacts == nil {
		panic("nil service passed to NewSubmitHandler")
	}
	return &SubmitHandler{Reviews: reviews, Ratings: ratings, Contacts: contacts}
}

// AddReview handles POST /review/:id/ with form fields email, name, text
// and an optional parent.  On success it redirects to the movie page.
func (h *SubmitHandler) AddReview(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || movieID == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	in := service.ReviewInput{
		Email: c.FormValue("email"),
		Name:  c.FormValue("name"),
		Text:  c.FormValue("text"),
	}
	if raw := strings.TrimSpace(c.FormValue("parent")); raw != "" {
		parent, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return validationFailed(c, validation.NewError("parent", "parent must be a review id"))
		}
		in.Parent = &parent
	}

	_, movie, err := h.Reviews.Submit(c.Request().Context(), movieID, in)
	var verr *validation.RequestValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case errors.As(err, &verr):
		return validationFailed(c, verr)
	case err != nil:
		return serverError(c, err, "add review")
	}
	return c.Redirect(http.StatusFound, "/"+movie.Slug+"/")
}

// AddRating handles POST /rating/ with form fields movie and star.  The
// answer is 201 or 400 with an empty body.
func (h *SubmitHandler) AddRating(c echo.Context) error {
	movieID, err1 := strconv.ParseUint(c.FormValue("movie"), 10, 64)
	starID, err2 := strconv.ParseUint(c.FormValue("star"), 10, 64)
	if err1 != nil || err2 != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	_, err := h.Ratings.Submit(c.Request().Context(), movieID, starID, ClientIP(c.Request()))
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return c.NoContent(http.StatusBadRequest)
	case err != nil:
		logging.Ctx(c.Request().Context()).Error().Err(err).Uint64("movie", movieID).Msg("add rating")
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.NoContent(http.StatusCreated)
}

// Subscribe handles POST /contact/ with form field email.
func (h *SubmitHandler) Subscribe(c echo.Context) error {
	contact, err := h.Contacts.Subscribe(c.Request().Context(), service.ContactInput{Email: c.FormValue("email")})
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return validationFailed(c, verr)
	case err != nil:
		return serverError(c, err, "subscribe")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": contact.ID})
}

// ClientIP returns the first entry of X-Forwarded-For when present and the
// host part of the connection address otherwise.  The forwarded value is
// taken as sent.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
