package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieRepo encapsulates all database queries related to movies and their
// many-to-many links to actors, directors and genres.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieColumns = `m.id, m.title, m.tagline, m.description, m.poster, m.year, m.country,
	m.world_premiere, m.budget, m.fees_in_usa, m.fees_in_world, m.category_id, m.url, m.draft`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(s rowScanner) (*model.Movie, error) {
	var (
		m        model.Movie
		category sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.Title, &m.Tagline, &m.Description, &m.Poster, &m.Year, &m.Country,
		&m.WorldPremiere, &m.Budget, &m.FeesInUSA, &m.FeesInWorld, &category, &m.Slug, &m.Draft); err != nil {
		return nil, err
	}
	if category.Valid {
		id := uint64(category.Int64)
		m.CategoryID = &id
	}
	return &m, nil
}

func collectMovies(rows *sql.Rows) ([]*model.Movie, error) {
	defer rows.Close()
	var out []*model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// pageOfMovies counts the rows matching cond and loads the requested page,
// both inside one snapshot.  A page past the last one loads nothing.
func (r *MovieRepo) pageOfMovies(ctx context.Context, cond string, args []any, p Page) ([]*model.Movie, int64, error) {
	var (
		items []*model.Movie
		total int64
	)
	err := snapshot(ctx, r.db, func(q queryer) error {
		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies m WHERE `+cond, args...).Scan(&total); err != nil {
			return err
		}
		if p.beyond(total) {
			return nil
		}
		dataArgs := append(append([]any{}, args...), p.limit(), p.offset())
		rows, err := q.QueryContext(ctx,
			`SELECT `+movieColumns+` FROM movies m WHERE `+cond+` ORDER BY m.id LIMIT ? OFFSET ?`,
			dataArgs...)
		if err != nil {
			return err
		}
		items, err = collectMovies(rows)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListPublished returns one page of non-draft movies ordered by id along
// with the total number of non-draft movies.
func (r *MovieRepo) ListPublished(ctx context.Context, p Page) ([]*model.Movie, int64, error) {
	return r.pageOfMovies(ctx, "m.draft = FALSE", nil, p)
}

// MovieFilter selects movies released in one of Years or tagged with one of
// GenreIDs.  An empty set contributes no matches.
type MovieFilter struct {
	Years    []int
	GenreIDs []uint64
}

// condition renders the filter as a WHERE clause over alias m.  Genre
// membership is tested with a subquery so a movie matching several genres
// is still returned once.
func (f MovieFilter) condition() (string, []any) {
	var (
		preds []string
		args  []any
	)
	if len(f.Years) > 0 {
		preds = append(preds, "m.year IN ("+placeholders(len(f.Years))+")")
		for _, y := range f.Years {
			args = append(args, y)
		}
	}
	if len(f.GenreIDs) > 0 {
		preds = append(preds, "m.id IN (SELECT mg.movie_id FROM movie_genres mg WHERE mg.genre_id IN ("+placeholders(len(f.GenreIDs))+"))")
		args = append(args, uint64Args(f.GenreIDs)...)
	}
	if len(preds) == 0 {
		return "m.draft = FALSE AND 1 = 0", nil
	}
	return "m.draft = FALSE AND (" + strings.Join(preds, " OR ") + ")", args
}

// Filter returns one page of published movies matching f.
func (r *MovieRepo) Filter(ctx context.Context, f MovieFilter, p Page) ([]*model.Movie, int64, error) {
	cond, args := f.condition()
	return r.pageOfMovies(ctx, cond, args, p)
}

// FilterCards returns every published movie matching f projected to the
// fields exposed by the JSON filter endpoint.
func (r *MovieRepo) FilterCards(ctx context.Context, f MovieFilter) ([]model.MovieCard, error) {
	cond, args := f.condition()
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.title, m.tagline, m.url, m.poster FROM movies m WHERE `+cond+` ORDER BY m.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.MovieCard{}
	for rows.Next() {
		var c model.MovieCard
		if err := rows.Scan(&c.Title, &c.Tagline, &c.Slug, &c.Poster); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PublishedYears returns the distinct release years of non-draft movies in
// ascending order.
func (r *MovieRepo) PublishedYears(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT year FROM movies WHERE draft = FALSE ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBySlug fetches a movie by its unique slug.  Drafts are returned too.
func (r *MovieRepo) GetBySlug(ctx context.Context, slug string) (*model.Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies m WHERE m.url = ?`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMovieNotFound
	}
	return m, err
}

// GetByID fetches a movie by primary key.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies m WHERE m.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMovieNotFound
	}
	return m, err
}

// Credits lists the directors and actors linked to a movie.
func (r *MovieRepo) Credits(ctx context.Context, movieID uint64) (directors, actors []*model.Actor, err error) {
	if directors, err = r.people(ctx, "movie_directors", movieID); err != nil {
		return nil, nil, err
	}
	if actors, err = r.people(ctx, "movie_actors", movieID); err != nil {
		return nil, nil, err
	}
	return directors, actors, nil
}

func (r *MovieRepo) people(ctx context.Context, joinTable string, movieID uint64) ([]*model.Actor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.name, a.age, a.description, a.image
		 FROM actors a JOIN `+joinTable+` j ON j.actor_id = a.id
		 WHERE j.movie_id = ? ORDER BY a.id`, movieID)
	if err != nil {
		return nil, err
	}
	return collectActors(rows)
}

// Genres lists the genres linked to a movie.
func (r *MovieRepo) Genres(ctx context.Context, movieID uint64) ([]*model.Genre, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.url
		 FROM genres g JOIN movie_genres mg ON mg.genre_id = g.id
		 WHERE mg.movie_id = ? ORDER BY g.id`, movieID)
	if err != nil {
		return nil, err
	}
	return collectGenres(rows)
}

// MovieRelations carries the many-to-many links written with a new movie.
type MovieRelations struct {
	DirectorIDs []uint64
	ActorIDs    []uint64
	GenreIDs    []uint64
}

// Create inserts a movie and its links in one transaction and populates
// m.ID.  A duplicate slug yields ErrConflict and an unknown category,
// person or genre ErrInvalidReference.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie, rel MovieRelations) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	var category any
	if m.CategoryID != nil {
		category = *m.CategoryID
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO movies (title, tagline, description, poster, year, country, world_premiere,
		 budget, fees_in_usa, fees_in_world, category_id, url, draft)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Tagline, m.Description, m.Poster, m.Year, m.Country, m.WorldPremiere,
		m.Budget, m.FeesInUSA, m.FeesInWorld, category, m.Slug, m.Draft)
	if err != nil {
		return mapDriverError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	links := []struct {
		table, column string
		ids           []uint64
	}{
		{"movie_directors", "actor_id", rel.DirectorIDs},
		{"movie_actors", "actor_id", rel.ActorIDs},
		{"movie_genres", "genre_id", rel.GenreIDs},
	}
	for _, l := range links {
		if err = insertLinksTx(ctx, tx, l.table, l.column, m.ID, l.ids); err != nil {
			return err
		}
	}
	return nil
}

// insertLinksTx writes (movie_id, column) pairs into a join table.
func insertLinksTx(ctx context.Context, tx *sql.Tx, table, column string, movieID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf("INSERT INTO %s (movie_id, %s) VALUES ", table, column)
	args := make([]any, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, movieID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return mapDriverError(err)
}

// SetDraft flips the draft flag of the given movies and returns the number
// of rows changed.
func (r *MovieRepo) SetDraft(ctx context.Context, ids []uint64, draft bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := append([]any{draft}, uint64Args(ids)...)
	res, err := r.db.ExecContext(ctx,
		`UPDATE movies SET draft = ? WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a movie together with its shots, ratings, reviews and
// links.  Replies on other movies that point at one of the removed reviews
// are kept with their parent cleared.  The deletion occurs within a
// transaction to maintain integrity.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM movies WHERE id = ? FOR UPDATE`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrMovieNotFound
		}
		return err
	}
	steps := []string{
		`DELETE FROM movie_shots WHERE movie_id = ?`,
		`DELETE FROM ratings WHERE movie_id = ?`,
		`UPDATE reviews c JOIN reviews p ON p.id = c.parent_id SET c.parent_id = NULL WHERE p.movie_id = ?`,
		`DELETE FROM reviews WHERE movie_id = ?`,
		`DELETE FROM movie_directors WHERE movie_id = ?`,
		`DELETE FROM movie_actors WHERE movie_id = ?`,
		`DELETE FROM movie_genres WHERE movie_id = ?`,
		`DELETE FROM movies WHERE id = ?`,
	}
	for _, q := range steps {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}

// ListByActor returns the published movies an actor plays in and the ones
// the actor directs.
func (r *MovieRepo) ListByActor(ctx context.Context, actorID uint64) (acted, directed []*model.Movie, err error) {
	if acted, err = r.byPerson(ctx, "movie_actors", actorID); err != nil {
		return nil, nil, err
	}
	if directed, err = r.byPerson(ctx, "movie_directors", actorID); err != nil {
		return nil, nil, err
	}
	return acted, directed, nil
}

func (r *MovieRepo) byPerson(ctx context.Context, joinTable string, actorID uint64) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies m JOIN `+joinTable+` j ON j.movie_id = m.id
		 WHERE j.actor_id = ? AND m.draft = FALSE ORDER BY m.id`, actorID)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}
