package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
	"github.com/iliyamo/movie-catalog/internal/validation"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrNotCreatable  = errors.New("entity cannot be created here")
	ErrUnknownAction = errors.New("unknown action")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("slug already in use")
)

// ListLimit caps the rows returned by one listing.
const ListLimit = 100

type RowLister interface {
	ListRows(ctx context.Context, q repository.RowQuery, filterKeys []string) ([]map[string]any, error)
}

type CategoryWriter interface {
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uint64) error
}

type GenreWriter interface {
	Create(ctx context.Context, g *model.Genre) error
	Delete(ctx context.Context, id uint64) error
}

type ActorWriter interface {
	Create(ctx context.Context, a *model.Actor) error
	Delete(ctx context.Context, id uint64) error
}

type MovieWriter interface {
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	Create(ctx context.Context, m *model.Movie, rel repository.MovieRelations) error
	SetDraft(ctx context.Context, ids []uint64, draft bool) (int64, error)
	Delete(ctx context.Context, id uint64) error
}

type ShotWriter interface {
	Create(ctx context.Context, s *model.MovieShot) error
	Delete(ctx context.Context, id uint64) error
}

type StarWriter interface {
	CreateStar(ctx context.Context, s *model.RatingStar) error
	DeleteStar(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) error
}

type Deleter interface {
	Delete(ctx context.Context, id uint64) error
}

// Service executes back office operations for the entities of a Registry.
type Service struct {
	Registry   *Registry
	Rows       RowLister
	Categories CategoryWriter
	Genres     GenreWriter
	Actors     ActorWriter
	Movies     MovieWriter
	Shots      ShotWriter
	Ratings    StarWriter
	Reviews    Deleter
	Contacts   Deleter
}

// List returns the rows of entity projected on its list_display.  term is
// matched against search_fields, including columns of related tables; filters keyed by a list_filter column
// restrict by equality and other keys are ignored.
func (s *Service) List(ctx context.Context, entity, term string, filters map[string]string) ([]map[string]any, error) {
	e, ok := s.Registry.Lookup(entity)
	if !ok {
		return nil, ErrUnknownEntity
	}
	var keys []string
	for _, col := range e.ListFilter {
		if _, ok := filters[col]; ok {
			keys = append(keys, col)
		}
	}
	var (
		columns []string
		related []repository.RelatedField
	)
	for _, field := range e.SearchFields {
		rel, col, _ := e.searchField(field)
		if rel == nil {
			columns = append(columns, col)
			continue
		}
		related = append(related, repository.RelatedField{Column: rel.Column, Table: rel.Table, Field: col})
	}
	return s.Rows.ListRows(ctx, repository.RowQuery{
		Table:         e.Table,
		Columns:       e.ListDisplay,
		SearchColumns: columns,
		SearchRelated: related,
		Term:          term,
		Filters:       filters,
		Limit:         ListLimit,
	}, keys)
}

// RunAction applies a bulk action and returns the affected row count and
// the message shown to the operator.
func (s *Service) RunAction(ctx context.Context, entity, action string, ids []uint64) (int64, string, error) {
	e, ok := s.Registry.Lookup(entity)
	if !ok {
		return 0, "", ErrUnknownEntity
	}
	if !e.HasAction(action) {
		return 0, "", ErrUnknownAction
	}
	if len(ids) == 0 {
		return 0, "", validation.NewError("ids", "ids is required")
	}
	var draft bool
	switch action {
	case ActionPublish:
		draft = false
	case ActionUnpublish:
		draft = true
	default:
		return 0, "", ErrUnknownAction
	}
	n, err := s.Movies.SetDraft(ctx, ids, draft)
	if err != nil {
		return 0, "", err
	}
	return n, UpdatedMessage(n), nil
}

// UpdatedMessage renders the result line of a bulk update.
func UpdatedMessage(n int64) string {
	if n == 1 {
		return "1 post was updated"
	}
	return fmt.Sprintf("%d records have been updated", n)
}

// Delete removes one row of entity.  Related rows are nullified or
// cascaded by the repositories.
func (s *Service) Delete(ctx context.Context, entity string, id uint64) error {
	if _, ok := s.Registry.Lookup(entity); !ok {
		return ErrUnknownEntity
	}
	var del func(context.Context, uint64) error
	switch entity {
	case "categories":
		del = s.Categories.Delete
	case "genres":
		del = s.Genres.Delete
	case "actors":
		del = s.Actors.Delete
	case "movies":
		del = s.Movies.Delete
	case "movie-shots":
		del = s.Shots.Delete
	case "rating-stars":
		del = s.Ratings.DeleteStar
	case "ratings":
		del = s.Ratings.Delete
	case "reviews":
		del = s.Reviews.Delete
	case "contacts":
		del = s.Contacts.Delete
	default:
		return ErrUnknownEntity
	}
	return notFound(del(ctx, id))
}

func notFound(err error) error {
	for _, nf := range []error{
		repository.ErrCategoryNotFound, repository.ErrGenreNotFound, repository.ErrActorNotFound,
		repository.ErrMovieNotFound, repository.ErrShotNotFound, repository.ErrStarNotFound,
		repository.ErrRatingNotFound, repository.ErrReviewNotFound, repository.ErrContactNotFound,
	} {
		if errors.Is(err, nf) {
			return ErrNotFound
		}
	}
	return err
}

// Create decodes a payload for entity with decode, validates it and stores
// it.  Empty slugs are derived from the name or title.
func (s *Service) Create(ctx context.Context, entity string, decode func(any) error) (any, error) {
	e, ok := s.Registry.Lookup(entity)
	if !ok {
		return nil, ErrUnknownEntity
	}
	if !e.Creatable {
		return nil, ErrNotCreatable
	}
	switch entity {
	case "categories":
		var in CategoryInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.createCategory(ctx, in)
	case "genres":
		var in GenreInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.createGenre(ctx, in)
	case "actors":
		var in ActorInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.createActor(ctx, in)
	case "movies":
		var in MovieInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.createMovie(ctx, in)
	case "movie-shots":
		var in MovieShotInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		return s.createShot(ctx, in)
	case "rating-stars":
		var in RatingStarInput
		if err := decode(&in); err != nil {
			return nil, err
		}
		star := &model.RatingStar{Value: in.Value}
		if err := s.Ratings.CreateStar(ctx, star); err != nil {
			return nil, err
		}
		return star, nil
	}
	return nil, ErrNotCreatable
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description"`
	Slug        string `json:"url" validate:"required,max=160,slug"`
}

type GenreInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Slug        string `json:"url" validate:"required,max=160,slug"`
}

type ActorInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Age         uint16 `json:"age"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"max=255"`
}

type MovieInput struct {
	Title         string   `json:"title" validate:"required,max=100"`
	Tagline       string   `json:"tagline" validate:"max=100"`
	Description   string   `json:"description"`
	Poster        string   `json:"poster" validate:"max=255"`
	Year          uint16   `json:"year" validate:"gte=1888,lte=2100"`
	Country       string   `json:"country" validate:"max=30"`
	WorldPremiere string   `json:"world_premiere" validate:"required,datetime=2006-01-02"`
	Budget        uint64   `json:"budget"`
	FeesInUSA     uint64   `json:"fees_in_usa"`
	FeesInWorld   uint64   `json:"fees_in_world"`
	CategoryID    *uint64  `json:"category_id"`
	Slug          string   `json:"url" validate:"required,max=130,slug"`
	Draft         bool     `json:"draft"`
	DirectorIDs   []uint64 `json:"directors"`
	ActorIDs      []uint64 `json:"actors"`
	GenreIDs      []uint64 `json:"genres"`
}

type MovieShotInput struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"max=255"`
	MovieID     uint64 `json:"movie_id" validate:"required"`
}

type RatingStarInput struct {
	Value int16 `json:"value"`
}

func slugOr(slug, from string) string {
	if s := strings.TrimSpace(slug); s != "" {
		return s
	}
	return utils.MakeSlug(from)
}

// stored maps repository errors of a create to admin errors.
func stored(err error, field string) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	case errors.Is(err, repository.ErrInvalidReference):
		return validation.NewError(field, field+" refers to a missing record")
	}
	return err
}

func (s *Service) createCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	in.Slug = slugOr(in.Slug, in.Name)
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}
	c := &model.Category{Name: in.Name, Description: in.Description, Slug: in.Slug}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, stored(err, "url")
	}
	return c, nil
}

func (s *Service) createGenre(ctx context.Context, in GenreInput) (*model.Genre, error) {
	in.Slug = slugOr(in.Slug, in.Name)
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}
	g := &model.Genre{Name: in.Name, Description: in.Description, Slug: in.Slug}
	if err := s.Genres.Create(ctx, g); err != nil {
		return nil, stored(err, "url")
	}
	return g, nil
}

func (s *Service) createActor(ctx context.Context, in ActorInput) (*model.Actor, error) {
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}
	a := &model.Actor{Name: in.Name, Age: in.Age, Description: in.Description, Image: in.Image}
	if err := s.Actors.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) createMovie(ctx context.Context, in MovieInput) (*model.Movie, error) {
	in.Slug = slugOr(in.Slug, in.Title)
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}
	premiere, err := time.Parse("2006-01-02", in.WorldPremiere)
	if err != nil {
		return nil, validation.NewError("world_premiere", "world_premiere must be a date formatted as 2006-01-02")
	}
	if in.CategoryID != nil {
		if _, err := s.Categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, validation.NewError("category_id", "category_id refers to a missing record")
			}
			return nil, err
		}
	}
	m := &model.Movie{
		Title:         in.Title,
		Tagline:       in.Tagline,
		Description:   in.Description,
		Poster:        in.Poster,
		Year:          in.Year,
		Country:       in.Country,
		WorldPremiere: premiere,
		Budget:        in.Budget,
		FeesInUSA:     in.FeesInUSA,
		FeesInWorld:   in.FeesInWorld,
		CategoryID:    in.CategoryID,
		Slug:          in.Slug,
		Draft:         in.Draft,
	}
	rel := repository.MovieRelations{DirectorIDs: in.DirectorIDs, ActorIDs: in.ActorIDs, GenreIDs: in.GenreIDs}
	if err := s.Movies.Create(ctx, m, rel); err != nil {
		return nil, stored(err, "relations")
	}
	return m, nil
}

func (s *Service) createShot(ctx context.Context, in MovieShotInput) (*model.MovieShot, error) {
	if verr := validation.ValidateStruct(in); verr != nil {
		return nil, verr
	}
	if _, err := s.Movies.GetByID(ctx, in.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return nil, validation.NewError("movie_id", "movie_id refers to a missing record")
		}
		return nil, err
	}
	shot := &model.MovieShot{Title: in.Title, Description: in.Description, Image: in.Image, MovieID: in.MovieID}
	if err := s.Shots.Create(ctx, shot); err != nil {
		return nil, stored(err, "movie_id")
	}
	return shot, nil
}
