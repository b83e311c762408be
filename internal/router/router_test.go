package router

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/admin"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/validation"
)

type stubCatalog struct {
	list     *service.MovieList
	listErr  error
	detail   map[string]*service.MovieDetail
	actor    map[string]*service.ActorDetail
	filtered *service.FilterResult
	cards    []model.MovieCard

	gotYears  []int
	gotGenres []uint64
	gotPage   int
}

func (s *stubCatalog) ListPublished(_ context.Context, page int) (*service.MovieList, error) {
	s.gotPage = page
	if s.listErr != nil {
		return nil, s.listErr
	}
	if page > s.list.Pagination.NumPages {
		return nil, service.ErrInvalidPage
	}
	return s.list, nil
}

func (s *stubCatalog) MovieBySlug(_ context.Context, slug string) (*service.MovieDetail, error) {
	if d, ok := s.detail[slug]; ok {
		return d, nil
	}
	return nil, service.ErrNotFound
}

func (s *stubCatalog) ActorByName(_ context.Context, name string) (*service.ActorDetail, error) {
	if d, ok := s.actor[name]; ok {
		return d, nil
	}
	return nil, service.ErrNotFound
}

func (s *stubCatalog) Filter(_ context.Context, years []int, genres []uint64, page int) (*service.FilterResult, error) {
	s.gotYears, s.gotGenres, s.gotPage = years, genres, page
	if page > 1 {
		return nil, service.ErrInvalidPage
	}
	return s.filtered, nil
}

func (s *stubCatalog) FilterCards(_ context.Context, years []int, genres []uint64) ([]model.MovieCard, error) {
	s.gotYears, s.gotGenres = years, genres
	return s.cards, nil
}

type stubReviews struct {
	got   service.ReviewInput
	movie *model.Movie
	err   error
}

func (s *stubReviews) Submit(_ context.Context, movieID uint64, in service.ReviewInput) (*model.Review, *model.Movie, error) {
	s.got = in
	if s.err != nil {
		return nil, nil, s.err
	}
	if s.movie == nil || s.movie.ID != movieID {
		return nil, nil, service.ErrNotFound
	}
	return &model.Review{ID: 1, MovieID: movieID, Name: in.Name, Text: in.Text}, s.movie, nil
}

type stubRatings struct {
	ip  string
	err error
}

func (s *stubRatings) Submit(_ context.Context, movieID, starID uint64, ip string) (bool, error) {
	s.ip = ip
	if s.err != nil {
		return false, s.err
	}
	if starID > 5 {
		return false, validation.NewError("star", "unknown rating star")
	}
	return true, nil
}

type stubContacts struct{}

func (stubContacts) Subscribe(_ context.Context, in service.ContactInput) (*model.Contact, error) {
	if !strings.Contains(in.Email, "@") {
		return nil, validation.NewError("email", "email must be a valid email address")
	}
	return &model.Contact{ID: 7, Email: in.Email}, nil
}

type stubAdmin struct {
	actionIDs []uint64
	deleted   uint64
}

func (s *stubAdmin) List(_ context.Context, entity, term string, filters map[string]string) ([]map[string]any, error) {
	if entity != "movies" {
		return nil, admin.ErrUnknownEntity
	}
	return []map[string]any{{"id": 1, "title": term, "draft": filters["draft"]}}, nil
}

func (s *stubAdmin) Create(_ context.Context, entity string, decode func(any) error) (any, error) {
	if entity == "ratings" {
		return nil, admin.ErrNotCreatable
	}
	var in admin.GenreInput
	if err := decode(&in); err != nil {
		return nil, err
	}
	return &model.Genre{ID: 3, Name: in.Name, Slug: in.Slug}, nil
}

func (s *stubAdmin) RunAction(_ context.Context, entity, action string, ids []uint64) (int64, string, error) {
	s.actionIDs = ids
	return int64(len(ids)), "2 records were updated", nil
}

func (s *stubAdmin) Delete(_ context.Context, entity string, id uint64) error {
	if id == 404 {
		return admin.ErrNotFound
	}
	s.deleted = id
	return nil
}

type fixture struct {
	e        *echo.Echo
	catalog  *stubCatalog
	reviews  *stubReviews
	ratings  *stubRatings
	admin    *stubAdmin
	limitHit int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		catalog: &stubCatalog{
			list: &service.MovieList{
				Movies:     []*model.Movie{{ID: 1, Title: "Alpha", Slug: "alpha"}},
				Pagination: service.Pagination{Page: 1, PageSize: service.ListPageSize, Total: 1, NumPages: 1},
			},
			detail: map[string]*service.MovieDetail{
				"alpha": {Movie: &model.Movie{ID: 1, Title: "Alpha", Slug: "alpha"}},
			},
			actor: map[string]*service.ActorDetail{
				"Jane Doe": {Actor: &model.Actor{ID: 2, Name: "Jane Doe"}},
			},
			filtered: &service.FilterResult{Year: "year=2019&"},
			cards:    []model.MovieCard{{Title: "Alpha", Tagline: "first", Slug: "alpha", Poster: "movies/alpha.jpg"}},
		},
		reviews: &stubReviews{movie: &model.Movie{ID: 1, Slug: "alpha"}},
		ratings: &stubRatings{},
		admin:   &stubAdmin{},
	}
	limit := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			f.limitHit++
			return next(c)
		}
	}

	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	RegisterRoutes(e, func(c echo.Context) error { return c.String(http.StatusOK, "# metrics") })
	RegisterPublic(e, handler.NewCatalogHandler(f.catalog, "/media/"))
	RegisterForms(e, handler.NewSubmitHandler(f.reviews, f.ratings, stubContacts{}), limit)
	reg := admin.Default()
	RegisterAdmin(e, handler.NewAdminHandler(reg, f.admin), reg)
	f.e = e
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestOperationalRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(get("/healthz"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = f.do(get("/metrics"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListMovies(t *testing.T) {
	f := newFixture(t)

	rec := f.do(get("/"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "/media/", body["media_url"])
	assert.Len(t, body["movies"], 1)
	assert.Equal(t, 1, f.catalog.gotPage)

	f.do(get("/?page=2"))
	assert.Equal(t, 2, f.catalog.gotPage)
}

func TestListMoviesPageErrors(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(get("/?page=abc")).Code)
	assert.Equal(t, http.StatusNotFound, f.do(get("/?page=0")).Code)

	f.catalog.listErr = service.ErrInvalidPage
	assert.Equal(t, http.StatusNotFound, f.do(get("/?page=9")).Code)

	f.catalog.listErr = nil
	assert.Equal(t, http.StatusNotFound, f.do(get("/?page=9223372036854775807")).Code)
	assert.Equal(t, math.MaxInt, f.catalog.gotPage)
	assert.Equal(t, http.StatusNotFound, f.do(get("/filter/?year=2019&page=9223372036854775807")).Code)
	assert.Equal(t, http.StatusNotFound, f.do(get("/?page=99999999999999999999")).Code)

	f.catalog.listErr = errors.New("connection refused")
	rec := f.do(get("/"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "database error", decode(t, rec)["error"])
}

func TestMovieDetail(t *testing.T) {
	f := newFixture(t)

	rec := f.do(get("/alpha/"))
	require.Equal(t, http.StatusOK, rec.Code)
	movie := decode(t, rec)["movie"].(map[string]any)
	assert.Equal(t, "alpha", movie["url"])

	assert.Equal(t, http.StatusNotFound, f.do(get("/missing/")).Code)
}

func TestActorDetail(t *testing.T) {
	f := newFixture(t)

	rec := f.do(get("/actor/Jane%20Doe/"))
	require.Equal(t, http.StatusOK, rec.Code)
	actor := decode(t, rec)["actor"].(map[string]any)
	assert.Equal(t, "Jane Doe", actor["name"])

	assert.Equal(t, http.StatusNotFound, f.do(get("/actor/Nobody/")).Code)
}

func TestFilterRouteWinsOverSlug(t *testing.T) {
	f := newFixture(t)

	rec := f.do(get("/filter/?year=2019&genre=4&genre=x&year=old"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{2019}, f.catalog.gotYears)
	assert.Equal(t, []uint64{4}, f.catalog.gotGenres)
	assert.Equal(t, "year=2019&", decode(t, rec)["year"])

	assert.Equal(t, http.StatusNotFound, f.do(get("/filter/?year=2019&page=2")).Code)
}

func TestFilterJSONShape(t *testing.T) {
	f := newFixture(t)

	rec := f.do(get("/filter/json/?year=2019"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"movies":[{"title":"Alpha","tagline":"first","url":"alpha","poster":"movies/alpha.jpg"}]}`,
		rec.Body.String())

	f.catalog.cards = nil
	rec = f.do(get("/filter/json/"))
	assert.JSONEq(t, `{"movies":[]}`, rec.Body.String())
}

func TestAddReviewRedirects(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/review/1/", url.Values{
		"email":  {"a@b.co"},
		"name":   {"Ann"},
		"text":   {"Great"},
		"parent": {"5"},
	}))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/alpha/", rec.Header().Get(echo.HeaderLocation))
	require.NotNil(t, f.reviews.got.Parent)
	assert.Equal(t, uint64(5), *f.reviews.got.Parent)
	assert.Equal(t, 1, f.limitHit)
}

func TestAddReviewErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/review/1/", url.Values{"parent": {"x"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "parent")

	assert.Equal(t, http.StatusNotFound, f.do(postForm("/review/9/", url.Values{})).Code)
	assert.Equal(t, http.StatusNotFound, f.do(postForm("/review/abc/", url.Values{})).Code)

	f.reviews.err = validation.NewError("text", "text is required")
	rec = f.do(postForm("/review/1/", url.Values{"email": {"a@b.co"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "validation_error", body["error"])
	assert.Contains(t, body["fields"], "text")
}

func TestAddRatingAnswersWithEmptyBody(t *testing.T) {
	f := newFixture(t)

	req := postForm("/rating/", url.Values{"movie": {"1"}, "star": {"4"}})
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := f.do(req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "203.0.113.9", f.ratings.ip)
	assert.Zero(t, f.limitHit)

	for _, form := range []url.Values{
		{"movie": {"1"}, "star": {"9"}},
		{"movie": {"1"}},
		{"movie": {"x"}, "star": {"1"}},
	} {
		rec = f.do(postForm("/rating/", form))
		assert.Equal(t, http.StatusBadRequest, rec.Code, form.Encode())
		assert.Empty(t, rec.Body.String())
	}

	f.ratings.err = errors.New("deadlock")
	rec = f.do(postForm("/rating/", url.Values{"movie": {"1"}, "star": {"1"}}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postForm("/contact/", url.Values{"email": {"a@b.co"}}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 7, decode(t, rec)["id"])

	rec = f.do(postForm("/contact/", url.Values{"email": {"nope"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 2, f.limitHit)
}

func TestUnknownRouteRendersJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(get("/no/such/path"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec), "error")
}

func TestAdminRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(get("/admin/"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Movie Catalog", decode(t, rec)["site_title"])

	rec = f.do(get("/admin/movies/?q=alp&draft=true"))
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "alp", items[0].(map[string]any)["title"])
	assert.Equal(t, "true", items[0].(map[string]any)["draft"])

	assert.Equal(t, http.StatusNotFound, f.do(get("/admin/widgets/")).Code)

	rec = f.do(postJSON("/admin/movies/publish", `{"ids":[1,2]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint64{1, 2}, f.admin.actionIDs)
	assert.Equal(t, "2 records were updated", decode(t, rec)["message"])

	rec = f.do(postJSON("/admin/genres", `{"name":"Drama","url":"drama"}`))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(postJSON("/admin/ratings", `{}`)).Code)

	req := httptest.NewRequest(http.MethodDelete, "/admin/reviews/12", nil)
	assert.Equal(t, http.StatusNoContent, f.do(req).Code)
	assert.Equal(t, uint64(12), f.admin.deleted)

	req = httptest.NewRequest(http.MethodDelete, "/admin/reviews/404", nil)
	assert.Equal(t, http.StatusNotFound, f.do(req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/admin/reviews/zero", nil)
	assert.Equal(t, http.StatusBadRequest, f.do(req).Code)
}
