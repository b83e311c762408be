package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieShotRepo encapsulates queries on movie stills.
type MovieShotRepo struct {
	db *sql.DB
}

// NewMovieShotRepo constructs a MovieShotRepo with the provided DB handle.
func NewMovieShotRepo(db *sql.DB) *MovieShotRepo {
	return &MovieShotRepo{db: db}
}

// ListByMovie returns the stills of a movie ordered by id.
func (r *MovieShotRepo) ListByMovie(ctx context.Context, movieID uint64) ([]*model.MovieShot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, image, movie_id FROM movie_shots WHERE movie_id = ? ORDER BY id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.MovieShot
	for rows.Next() {
		s := new(model.MovieShot)
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Image, &s.MovieID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a still for an existing movie.
func (r *MovieShotRepo) Create(ctx context.Context, s *model.MovieShot) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movie_shots (title, description, image, movie_id) VALUES (?, ?, ?, ?)`,
		s.Title, s.Description, s.Image, s.MovieID)
	if err != nil {
		return mapDriverError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Delete removes a single still.
func (r *MovieShotRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movie_shots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShotNotFound
	}
	return nil
}
