package service

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// The interfaces below list what each service needs from the repositories;
// the repository structs satisfy them and tests substitute fakes.

type MovieStore interface {
	ListPublished(ctx context.Context, p repository.Page) ([]*model.Movie, int64, error)
	Filter(ctx context.Context, f repository.MovieFilter, p repository.Page) ([]*model.Movie, int64, error)
	FilterCards(ctx context.Context, f repository.MovieFilter) ([]model.MovieCard, error)
	PublishedYears(ctx context.Context) ([]int, error)
	GetBySlug(ctx context.Context, slug string) (*model.Movie, error)
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	Credits(ctx context.Context, movieID uint64) (directors, actors []*model.Actor, err error)
	Genres(ctx context.Context, movieID uint64) ([]*model.Genre, error)
	ListByActor(ctx context.Context, actorID uint64) (acted, directed []*model.Movie, err error)
}

type GenreStore interface {
	ListAll(ctx context.Context) ([]*model.Genre, error)
}

type YearStore interface {
	PublishedYears(ctx context.Context) ([]int, error)
}

type ActorStore interface {
	GetByName(ctx context.Context, name string) (*model.Actor, error)
}

type CategoryStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
}

type ShotStore interface {
	ListByMovie(ctx context.Context, movieID uint64) ([]*model.MovieShot, error)
}

type RatingStore interface {
	ListStars(ctx context.Context) ([]*model.RatingStar, error)
	Summary(ctx context.Context, movieID uint64) (model.RatingSummary, error)
	Upsert(ctx context.Context, movieID, starID uint64, ip string) (created bool, err error)
}

type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	GetByID(ctx context.Context, id uint64) (*model.Review, error)
	ListByMovie(ctx context.Context, movieID uint64) ([]*model.Review, error)
}

type ContactStore interface {
	Create(ctx context.Context, c *model.Contact) error
}
