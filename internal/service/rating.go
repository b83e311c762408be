package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/metrics"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/validation"
)

// MaxIPLength is the width of the stored client address.
const MaxIPLength = 45

// RatingService records star ratings, one per movie and client address.
type RatingService struct {
	Ratings RatingStore
}

// NewRatingService returns a RatingService backed by ratings.
func NewRatingService(ratings RatingStore) *RatingService {
	return &RatingService{Ratings: ratings}
}

// Submit stores starID as ip's rating of movieID, replacing an earlier one.
// Unknown movies or stars and an empty or over-long ip are reported as
// *validation.RequestValidationError.
func (s *RatingService) Submit(ctx context.Context, movieID, starID uint64, ip string) (created bool, err error) {
	switch {
	case movieID == 0:
		metrics.RecordRating("invalid")
		return false, validation.NewError("movie", "movie is required")
	case starID == 0:
		metrics.RecordRating("invalid")
		return false, validation.NewError("star", "star is required")
	case ip == "":
		metrics.RecordRating("invalid")
		return false, validation.NewError("ip", "client address is unknown")
	case len(ip) > MaxIPLength:
		metrics.RecordRating("invalid")
		return false, validation.NewError("ip", fmt.Sprintf("client address must be at most %d characters", MaxIPLength))
	}
	created, err = s.Ratings.Upsert(ctx, movieID, starID, ip)
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		metrics.RecordRating("invalid")
		return false, validation.NewError("movie", "select a valid movie")
	case errors.Is(err, repository.ErrStarNotFound):
		metrics.RecordRating("invalid")
		return false, validation.NewError("star", "select a valid star")
	case err != nil:
		return false, err
	}
	if created {
		metrics.RecordRating("created")
	} else {
		metrics.RecordRating("updated")
	}
	return created, nil
}
