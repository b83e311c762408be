package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

const (
	// ListPageSize is the page size of the published listing.
	ListPageSize = 3
	// FilterPageSize is the page size of the filtered listing.
	FilterPageSize = 2
)

// QueryService serves the read-only public pages.
type QueryService struct {
	Movies     MovieStore
	Genres     GenreStore
	Actors     ActorStore
	Categories CategoryStore
	Shots      ShotStore
	Ratings    RatingStore
	Reviews    ReviewStore
}

// MovieList is one page of movies with the sidebar.
type MovieList struct {
	Movies     []*model.Movie `json:"movies"`
	Pagination Pagination     `json:"pagination"`
	Sidebar    Sidebar        `json:"sidebar"`
}

// FilterResult is one page of filtered movies.  Year and Genre repeat the
// applied filters as query string fragments ("year=2019&year=2020&") so
// page links keep the selection.
type FilterResult struct {
	MovieList
	Year  string `json:"year"`
	Genre string `json:"genre"`
}

// MovieDetail aggregates everything the detail page shows.
type MovieDetail struct {
	Movie     *model.Movie         `json:"movie"`
	Category  *model.Category      `json:"category"`
	Directors []*model.Actor       `json:"directors"`
	Actors    []*model.Actor       `json:"actors"`
	Genres    []*model.Genre       `json:"genres"`
	Shots     []*model.MovieShot   `json:"shots"`
	Reviews   []model.ReviewThread `json:"reviews"`
	Stars     []*model.RatingStar  `json:"stars"`
	Rating    model.RatingSummary  `json:"rating"`
	Sidebar   Sidebar              `json:"sidebar"`
}

// ActorDetail is an actor with the published movies they play in or direct.
type ActorDetail struct {
	Actor    *model.Actor   `json:"actor"`
	Acted    []*model.Movie `json:"acted"`
	Directed []*model.Movie `json:"directed"`
	Sidebar  Sidebar        `json:"sidebar"`
}

func (s *QueryService) sidebar(ctx context.Context) (Sidebar, error) {
	return BuildSidebar(ctx, s.Genres, s.Movies)
}

func (s *QueryService) page(ctx context.Context, page, size int,
	load func(repository.Page) ([]*model.Movie, int64, error)) (MovieList, error) {
	items, total, err := load(repository.Page{Number: page, Size: size})
	if err != nil {
		return MovieList{}, err
	}
	p, err := paginate(page, size, total)
	if err != nil {
		return MovieList{}, err
	}
	sb, err := s.sidebar(ctx)
	if err != nil {
		return MovieList{}, err
	}
	if items == nil {
		items = []*model.Movie{}
	}
	return MovieList{Movies: items, Pagination: p, Sidebar: sb}, nil
}

// ListPublished returns page (1-based) of the published movies.
func (s *QueryService) ListPublished(ctx context.Context, page int) (*MovieList, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	list, err := s.page(ctx, page, ListPageSize, func(p repository.Page) ([]*model.Movie, int64, error) {
		return s.Movies.ListPublished(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Filter returns page of the published movies released in one of years or
// tagged with one of genres.
func (s *QueryService) Filter(ctx context.Context, years []int, genres []uint64, page int) (*FilterResult, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	f := repository.MovieFilter{Years: years, GenreIDs: genres}
	list, err := s.page(ctx, page, FilterPageSize, func(p repository.Page) ([]*model.Movie, int64, error) {
		return s.Movies.Filter(ctx, f, p)
	})
	if err != nil {
		return nil, err
	}
	year, genre := FilterQuery(years, genres)
	return &FilterResult{MovieList: list, Year: year, Genre: genre}, nil
}

// FilterCards returns every match of the filter as cards.
func (s *QueryService) FilterCards(ctx context.Context, years []int, genres []uint64) ([]model.MovieCard, error) {
	return s.Movies.FilterCards(ctx, repository.MovieFilter{Years: years, GenreIDs: genres})
}

// FilterQuery renders the applied filters as query string fragments.
func FilterQuery(years []int, genres []uint64) (year, genre string) {
	var yb, gb strings.Builder
	for _, y := range years {
		yb.WriteString("year=" + strconv.Itoa(y) + "&")
	}
	for _, g := range genres {
		gb.WriteString("genre=" + strconv.FormatUint(g, 10) + "&")
	}
	return yb.String(), gb.String()
}

// MovieBySlug loads the detail page of a movie.  Drafts are returned.
func (s *QueryService) MovieBySlug(ctx context.Context, slug string) (*MovieDetail, error) {
	m, err := s.Movies.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrMovieNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d := &MovieDetail{Movie: m}
	if m.CategoryID != nil {
		cat, err := s.Categories.GetByID(ctx, *m.CategoryID)
		if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		d.Category = cat
	}
	if d.Directors, d.Actors, err = s.Movies.Credits(ctx, m.ID); err != nil {
		return nil, err
	}
	if d.Genres, err = s.Movies.Genres(ctx, m.ID); err != nil {
		return nil, err
	}
	if d.Shots, err = s.Shots.ListByMovie(ctx, m.ID); err != nil {
		return nil, err
	}
	reviews, err := s.Reviews.ListByMovie(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	d.Reviews = ThreadReviews(reviews)
	if d.Stars, err = s.Ratings.ListStars(ctx); err != nil {
		return nil, err
	}
	if d.Rating, err = s.Ratings.Summary(ctx, m.ID); err != nil {
		return nil, err
	}
	if d.Sidebar, err = s.sidebar(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// ThreadReviews groups reviews into top-level reviews, those without a
// parent, each followed by its direct replies.  Input order (by id) is
// kept.
func ThreadReviews(reviews []*model.Review) []model.ReviewThread {
	replies := make(map[uint64][]model.Review)
	for _, rv := range reviews {
		if rv.ParentID != nil {
			replies[*rv.ParentID] = append(replies[*rv.ParentID], *rv)
		}
	}
	out := []model.ReviewThread{}
	for _, rv := range reviews {
		if rv.ParentID != nil {
			continue
		}
		th := model.ReviewThread{Review: *rv, Replies: replies[rv.ID]}
		if th.Replies == nil {
			th.Replies = []model.Review{}
		}
		out = append(out, th)
	}
	return out
}

// ActorByName loads the actor page.  With duplicate names the oldest
// record wins.
func (s *QueryService) ActorByName(ctx context.Context, name string) (*ActorDetail, error) {
	a, err := s.Actors.GetByName(ctx, name)
	if errors.Is(err, repository.ErrActorNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d := &ActorDetail{Actor: a}
	if d.Acted, d.Directed, err = s.Movies.ListByActor(ctx, a.ID); err != nil {
		return nil, err
	}
	if d.Acted == nil {
		d.Acted = []*model.Movie{}
	}
	if d.Directed == nil {
		d.Directed = []*model.Movie{}
	}
	if d.Sidebar, err = s.sidebar(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// ListGenres returns every genre.
func (s *QueryService) ListGenres(ctx context.Context) ([]*model.Genre, error) {
	return s.Genres.ListAll(ctx)
}

// ListPublishedYears returns the distinct years of published movies.
func (s *QueryService) ListPublishedYears(ctx context.Context) ([]int, error) {
	return s.Movies.PublishedYears(ctx)
}
