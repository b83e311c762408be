package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

var errStore = errors.New("store unavailable")

// fakeCatalog is an in-memory stand-in for the movie, genre, actor,
// category, shot, rating and review repositories.
type fakeCatalog struct {
	mu         sync.Mutex
	movies     []*model.Movie
	genres     []*model.Genre
	movieGenre map[uint64][]uint64
	actors     []*model.Actor
	categories map[uint64]*model.Category
	stars      map[uint64]int16
	ratings    []model.Rating
	reviews    []*model.Review
	failYears  bool
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		movieGenre: map[uint64][]uint64{},
		categories: map[uint64]*model.Category{},
		stars:      map[uint64]int16{1: 1, 2: 2, 3: 3, 4: 4, 5: 5},
	}
}

func (f *fakeCatalog) addMovie(id uint64, slug string, year uint16, draft bool, genres ...uint64) *model.Movie {
	m := &model.Movie{ID: id, Title: slug, Slug: slug, Year: year, Draft: draft}
	f.movies = append(f.movies, m)
	f.movieGenre[id] = genres
	return m
}

func window(all []*model.Movie, p repository.Page) []*model.Movie {
	if p.Number-1 > len(all)/p.Size {
		return nil
	}
	start := (p.Number - 1) * p.Size
	if start >= len(all) {
		return nil
	}
	end := start + p.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (f *fakeCatalog) published() []*model.Movie {
	var out []*model.Movie
	for _, m := range f.movies {
		if !m.Draft {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeCatalog) ListPublished(_ context.Context, p repository.Page) ([]*model.Movie, int64, error) {
	all := f.published()
	return window(all, p), int64(len(all)), nil
}

func (f *fakeCatalog) match(flt repository.MovieFilter) []*model.Movie {
	var out []*model.Movie
	for _, m := range f.published() {
		hit := false
		for _, y := range flt.Years {
			if int(m.Year) == y {
				hit = true
			}
		}
		for _, g := range flt.GenreIDs {
			for _, mg := range f.movieGenre[m.ID] {
				if g == mg {
					hit = true
				}
			}
		}
		if hit {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeCatalog) Filter(_ context.Context, flt repository.MovieFilter, p repository.Page) ([]*model.Movie, int64, error) {
	all := f.match(flt)
	return window(all, p), int64(len(all)), nil
}

func (f *fakeCatalog) FilterCards(_ context.Context, flt repository.MovieFilter) ([]model.MovieCard, error) {
	out := []model.MovieCard{}
	for _, m := range f.match(flt) {
		out = append(out, model.MovieCard{Title: m.Title, Tagline: m.Tagline, Slug: m.Slug, Poster: m.Poster})
	}
	return out, nil
}

func (f *fakeCatalog) PublishedYears(context.Context) ([]int, error) {
	if f.failYears {
		return nil, errStore
	}
	seen := map[int]bool{}
	var out []int
	for _, m := range f.published() {
		if !seen[int(m.Year)] {
			seen[int(m.Year)] = true
			out = append(out, int(m.Year))
		}
	}
	sort.Ints(out)
	return out, nil
}

func (f *fakeCatalog) GetBySlug(_ context.Context, slug string) (*model.Movie, error) {
	for _, m := range f.movies {
		if m.Slug == slug {
			return m, nil
		}
	}
	return nil, repository.ErrMovieNotFound
}

func (f *fakeCatalog) GetByID(_ context.Context, id uint64) (*model.Movie, error) {
	for _, m := range f.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repository.ErrMovieNotFound
}

func (f *fakeCatalog) Credits(context.Context, uint64) ([]*model.Actor, []*model.Actor, error) {
	return []*model.Actor{}, f.actors, nil
}

func (f *fakeCatalog) Genres(_ context.Context, movieID uint64) ([]*model.Genre, error) {
	var out []*model.Genre
	for _, id := range f.movieGenre[movieID] {
		for _, g := range f.genres {
			if g.ID == id {
				out = append(out, g)
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListByActor(context.Context, uint64) ([]*model.Movie, []*model.Movie, error) {
	return f.published(), nil, nil
}

func (f *fakeCatalog) ListAll(context.Context) ([]*model.Genre, error) { return f.genres, nil }

func (f *fakeCatalog) GetByName(_ context.Context, name string) (*model.Actor, error) {
	for _, a := range f.actors {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, repository.ErrActorNotFound
}

type fakeCategories struct{ *fakeCatalog }

func (f fakeCategories) GetByID(_ context.Context, id uint64) (*model.Category, error) {
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, repository.ErrCategoryNotFound
}

type fakeShots struct{}

func (fakeShots) ListByMovie(context.Context, uint64) ([]*model.MovieShot, error) {
	return []*model.MovieShot{}, nil
}

type fakeRatings struct{ *fakeCatalog }

func (f fakeRatings) ListStars(context.Context) ([]*model.RatingStar, error) {
	var out []*model.RatingStar
	for id, v := range f.stars {
		out = append(out, &model.RatingStar{ID: id, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

func (f fakeRatings) Summary(_ context.Context, movieID uint64) (model.RatingSummary, error) {
	var s model.RatingSummary
	var sum float64
	for _, r := range f.ratings {
		if r.MovieID == movieID {
			s.Votes++
			sum += float64(f.stars[r.StarID])
		}
	}
	if s.Votes > 0 {
		s.Average = sum / float64(s.Votes)
	}
	return s, nil
}

func (f fakeRatings) Upsert(_ context.Context, movieID, starID uint64, ip string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.GetByID(context.Background(), movieID); err != nil {
		return false, err
	}
	if _, ok := f.stars[starID]; !ok {
		return false, repository.ErrStarNotFound
	}
	for i := range f.ratings {
		if f.ratings[i].MovieID == movieID && f.ratings[i].IP == ip {
			f.ratings[i].StarID = starID
			return false, nil
		}
	}
	f.ratings = append(f.ratings, model.Rating{ID: uint64(len(f.ratings) + 1), IP: ip, StarID: starID, MovieID: movieID})
	return true, nil
}

type fakeReviews struct{ *fakeCatalog }

func (f fakeReviews) Create(_ context.Context, rv *model.Review) error {
	rv.ID = uint64(len(f.reviews) + 1)
	f.reviews = append(f.reviews, rv)
	return nil
}

func (f fakeReviews) GetByID(_ context.Context, id uint64) (*model.Review, error) {
	for _, rv := range f.reviews {
		if rv.ID == id {
			return rv, nil
		}
	}
	return nil, repository.ErrReviewNotFound
}

func (f fakeReviews) ListByMovie(_ context.Context, movieID uint64) ([]*model.Review, error) {
	var out []*model.Review
	for _, rv := range f.reviews {
		if rv.MovieID == movieID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func newQueryService(f *fakeCatalog) *QueryService {
	return &QueryService{
		Movies:     f,
		Genres:     f,
		Actors:     f,
		Categories: fakeCategories{f},
		Shots:      fakeShots{},
		Ratings:    fakeRatings{f},
		Reviews:    fakeReviews{f},
	}
}
