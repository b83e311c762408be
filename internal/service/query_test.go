package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func slugs(movies []*model.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Slug
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		total   int64
		want    Pagination
		wantErr bool
	}{
		{name: "empty first page", page: 1, total: 0, want: Pagination{Page: 1, PageSize: 3, NumPages: 1}},
		{name: "middle page", page: 2, total: 7, want: Pagination{Page: 2, PageSize: 3, Total: 7, NumPages: 3, HasNext: true, HasPrevious: true}},
		{name: "last page", page: 3, total: 7, want: Pagination{Page: 3, PageSize: 3, Total: 7, NumPages: 3, HasPrevious: true}},
		{name: "exact multiple", page: 2, total: 6, want: Pagination{Page: 2, PageSize: 3, Total: 6, NumPages: 2, HasPrevious: true}},
		{name: "past the end", page: 4, total: 7, wantErr: true},
		{name: "second page of empty list", page: 2, total: 0, wantErr: true},
		{name: "zero", page: 0, total: 7, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := paginate(tt.page, 3, tt.total)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListPublishedExcludesDrafts(t *testing.T) {
	f := newFakeCatalog()
	f.addMovie(1, "alien", 1979, false)
	f.addMovie(2, "draft", 2030, true)
	f.addMovie(3, "heat", 1995, false)
	f.addMovie(4, "joker", 2019, false)
	f.addMovie(5, "tenet", 2020, false)
	svc := newQueryService(f)

	first, err := svc.ListPublished(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"alien", "heat", "joker"}, slugs(first.Movies))
	assert.Equal(t, int64(4), first.Pagination.Total)
	assert.True(t, first.Pagination.HasNext)
	assert.Equal(t, []int{1979, 1995, 2019, 2020}, first.Sidebar.Years)

	second, err := svc.ListPublished(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"tenet"}, slugs(second.Movies))

	_, err = svc.ListPublished(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = svc.ListPublished(context.Background(), math.MaxInt)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = svc.Filter(context.Background(), []int{2019}, nil, math.MaxInt)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestListPublishedEmptyCatalog(t *testing.T) {
	list, err := newQueryService(newFakeCatalog()).ListPublished(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, list.Movies)
	assert.Empty(t, list.Movies)
	assert.NotNil(t, list.Sidebar.Genres)
	assert.NotNil(t, list.Sidebar.Years)
}

func TestFilterIsUnionWithoutDuplicates(t *testing.T) {
	f := newFakeCatalog()
	f.genres = []*model.Genre{{ID: 1, Name: "Drama", Slug: "drama"}, {ID: 2, Name: "Comedy", Slug: "comedy"}}
	f.addMovie(1, "a2018", 2018, false, 1)
	f.addMovie(2, "a2019", 2019, false, 1, 2)
	f.addMovie(3, "a2021", 2021, false)
	f.addMovie(4, "hidden", 2019, true, 1)
	svc := newQueryService(f)

	res, err := svc.Filter(context.Background(), []int{2019, 2020}, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2019"}, slugs(res.Movies))
	assert.Equal(t, "year=2019&year=2020&", res.Year)
	assert.Equal(t, "", res.Genre)

	res, err = svc.Filter(context.Background(), []int{2019}, []uint64{1}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2018", "a2019"}, slugs(res.Movies))
	assert.Equal(t, int64(2), res.Pagination.Total)
	assert.Equal(t, "genre=1&", res.Genre)

	res, err = svc.Filter(context.Background(), nil, nil, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Movies)
}

func TestFilterCards(t *testing.T) {
	f := newFakeCatalog()
	f.addMovie(1, "joker", 2019, false)
	cards, err := newQueryService(f).FilterCards(context.Background(), []int{2019}, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.MovieCard{{Title: "joker", Slug: "joker"}}, cards)
}

func TestMovieBySlug(t *testing.T) {
	f := newFakeCatalog()
	cat := uint64(9)
	m := f.addMovie(1, "heat", 1995, true, 1)
	m.CategoryID = &cat
	f.categories[9] = &model.Category{ID: 9, Name: "Films", Slug: "films"}
	f.genres = []*model.Genre{{ID: 1, Name: "Crime", Slug: "crime"}}
	parent := uint64(1)
	f.reviews = []*model.Review{
		{ID: 1, Name: "Ann", Text: "Great", MovieID: 1},
		{ID: 2, Name: "Bob", Text: "Agreed", MovieID: 1, ParentID: &parent},
		{ID: 3, Name: "Cid", Text: "Long", MovieID: 1},
	}
	f.ratings = []model.Rating{{ID: 1, IP: "a", StarID: 4, MovieID: 1}, {ID: 2, IP: "b", StarID: 5, MovieID: 1}}
	svc := newQueryService(f)

	d, err := svc.MovieBySlug(context.Background(), "heat")
	require.NoError(t, err)
	assert.Equal(t, "films", d.Category.Slug)
	assert.Len(t, d.Genres, 1)
	require.Len(t, d.Reviews, 2)
	assert.Equal(t, uint64(1), d.Reviews[0].ID)
	require.Len(t, d.Reviews[0].Replies, 1)
	assert.Equal(t, "Bob", d.Reviews[0].Replies[0].Name)
	assert.Empty(t, d.Reviews[1].Replies)
	assert.Len(t, d.Stars, 5)
	assert.Equal(t, int64(2), d.Rating.Votes)
	assert.InDelta(t, 4.5, d.Rating.Average, 0.001)

	_, err = svc.MovieBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieBySlugDanglingCategory(t *testing.T) {
	f := newFakeCatalog()
	cat := uint64(42)
	f.addMovie(1, "heat", 1995, false).CategoryID = &cat

	d, err := newQueryService(f).MovieBySlug(context.Background(), "heat")
	require.NoError(t, err)
	assert.Nil(t, d.Category)
}

func TestActorByName(t *testing.T) {
	f := newFakeCatalog()
	f.actors = []*model.Actor{{ID: 1, Name: "Al Pacino"}}
	f.addMovie(1, "heat", 1995, false)
	svc := newQueryService(f)

	d, err := svc.ActorByName(context.Background(), "Al Pacino")
	require.NoError(t, err)
	assert.Equal(t, []string{"heat"}, slugs(d.Acted))
	assert.NotNil(t, d.Directed)

	_, err = svc.ActorByName(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuildSidebarPropagatesErrors(t *testing.T) {
	f := newFakeCatalog()
	f.failYears = true
	_, err := BuildSidebar(context.Background(), f, f)
	assert.ErrorIs(t, err, errStore)
}

func TestThreadReviewsKeepsDirectRepliesOnly(t *testing.T) {
	one, two := uint64(1), uint64(2)
	threads := ThreadReviews([]*model.Review{
		{ID: 1, Text: "top"},
		{ID: 2, Text: "reply", ParentID: &one},
		{ID: 3, Text: "reply to reply", ParentID: &two},
	})
	require.Len(t, threads, 1)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, "reply", threads[0].Replies[0].Text)
}
