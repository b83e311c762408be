package service

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/iliyamo/movie-catalog/internal/metrics"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/validation"
)

// ReviewInput is the review form.  Parent is the id of the review being
// answered, nil for a top-level review.
type ReviewInput struct {
	Email  string  `form:"email" validate:"required,email,max=254"`
	Name   string  `form:"name" validate:"required,max=100"`
	Text   string  `form:"text" validate:"required,max=5000"`
	Parent *uint64 `form:"parent"`
}

// ReviewService appends reviews to movies.
type ReviewService struct {
	Movies  MovieStore
	Reviews ReviewStore
	policy  *bluemonday.Policy
}

// NewReviewService builds a ReviewService that strips markup from names and
// review bodies before storing them.
func NewReviewService(movies MovieStore, reviews ReviewStore) *ReviewService {
	return &ReviewService{Movies: movies, Reviews: reviews, policy: bluemonday.StrictPolicy()}
}

// clean removes every tag and returns the remaining plain text.
func (s *ReviewService) clean(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

// Submit validates in and stores it as a review of movieID.  It returns the
// stored review and the movie, whose slug callers redirect to.  Nothing is
// written when validation fails.  A parent must be a review of the same
// movie.
func (s *ReviewService) Submit(ctx context.Context, movieID uint64, in ReviewInput) (*model.Review, *model.Movie, error) {
	movie, err := s.Movies.GetByID(ctx, movieID)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if verr := validation.ValidateStruct(in); verr != nil {
		metrics.RecordReview("invalid")
		return nil, movie, verr
	}
	rv := &model.Review{
		Email:   strings.TrimSpace(in.Email),
		Name:    s.clean(in.Name),
		Text:    s.clean(in.Text),
		MovieID: movie.ID,
	}
	switch {
	case rv.Name == "":
		metrics.RecordReview("invalid")
		return nil, movie, validation.NewError("name", "name is required")
	case rv.Text == "":
		metrics.RecordReview("invalid")
		return nil, movie, validation.NewError("text", "text is required")
	}

	if in.Parent != nil {
		parent, err := s.Reviews.GetByID(ctx, *in.Parent)
		if errors.Is(err, repository.ErrReviewNotFound) || (err == nil && parent.MovieID != movie.ID) {
			metrics.RecordReview("invalid")
			return nil, movie, validation.NewError("parent", "parent must be a review of this movie")
		}
		if err != nil {
			return nil, nil, err
		}
		rv.ParentID = &parent.ID
	}

	if err := s.Reviews.Create(ctx, rv); err != nil {
		return nil, nil, err
	}
	if rv.ParentID != nil {
		metrics.RecordReview("reply")
	} else {
		metrics.RecordReview("created")
	}
	return rv, movie, nil
}
