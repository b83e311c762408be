package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// GenreRepo encapsulates queries on genres.
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo constructs a GenreRepo with the provided DB handle.
func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

func collectGenres(rows *sql.Rows) ([]*model.Genre, error) {
	defer rows.Close()
	var out []*model.Genre
	for rows.Next() {
		g := new(model.Genre)
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Slug); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every genre ordered by id.
func (r *GenreRepo) ListAll(ctx context.Context) ([]*model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, url FROM genres ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectGenres(rows)
}

// Create inserts a genre.  A duplicate slug yields ErrConflict.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO genres (name, description, url) VALUES (?, ?, ?)`, g.Name, g.Description, g.Slug)
	if err != nil {
		return mapDriverError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// Delete removes a genre and its movie links.  Movies are kept.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM movie_genres WHERE genre_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrGenreNotFound
	}
	return err
}
