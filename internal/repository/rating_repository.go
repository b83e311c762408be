package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// RatingRepo provides access to rating_stars and ratings.  A client
// address keeps a single rating per movie; Upsert enforces this without a
// unique key by serialising writers on the movie row.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo returns a new RatingRepo bound to the given database.
func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// ListStars returns the selectable star values ordered by value.
func (r *RatingRepo) ListStars(ctx context.Context) ([]*model.RatingStar, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, value FROM rating_stars ORDER BY value, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.RatingStar
	for rows.Next() {
		s := new(model.RatingStar)
		if err := rows.Scan(&s.ID, &s.Value); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStar inserts a star value.
func (r *RatingRepo) CreateStar(ctx context.Context, s *model.RatingStar) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO rating_stars (value) VALUES (?)`, s.Value)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// DeleteStar removes a star value and every rating that used it.
func (r *RatingRepo) DeleteStar(ctx context.Context, id uint64) (err error) {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM ratings WHERE star_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM rating_stars WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrStarNotFound
	}
	return err
}

// Upsert stores starID as the rating of ip for movieID.  When a row for
// (movieID, ip) exists its star is overwritten, otherwise a row is
// inserted; created reports which happened.
//
// The movie row is locked with SELECT ... FOR UPDATE first, so concurrent
// submissions for the same movie run one after another and converge on a
// single row carrying the last star written.  ErrMovieNotFound and
// ErrStarNotFound are returned for unknown references.
func (r *RatingRepo) Upsert(ctx context.Context, movieID, starID uint64, ip string) (created bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	var locked uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM movies WHERE id = ? FOR UPDATE`, movieID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrMovieNotFound
		}
		return false, err
	}
	var star uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM rating_stars WHERE id = ?`, starID).Scan(&star); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrStarNotFound
		}
		return false, err
	}

	var ratingID uint64
	lookupErr := tx.QueryRowContext(ctx,
		`SELECT id FROM ratings WHERE movie_id = ? AND ip = ? ORDER BY id LIMIT 1`, movieID, ip).Scan(&ratingID)
	switch {
	case errors.Is(lookupErr, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `INSERT INTO ratings (ip, star_id, movie_id) VALUES (?, ?, ?)`, ip, starID, movieID)
		return err == nil, err
	case lookupErr != nil:
		err = lookupErr
		return false, err
	}
	_, err = tx.ExecContext(ctx, `UPDATE ratings SET star_id = ? WHERE id = ?`, starID, ratingID)
	return false, err
}

// GetByMovieAndIP returns the rating ip gave to movieID.
func (r *RatingRepo) GetByMovieAndIP(ctx context.Context, movieID uint64, ip string) (*model.Rating, error) {
	var rt model.Rating
	err := r.db.QueryRowContext(ctx,
		`SELECT id, ip, star_id, movie_id FROM ratings WHERE movie_id = ? AND ip = ? ORDER BY id LIMIT 1`, movieID, ip).
		Scan(&rt.ID, &rt.IP, &rt.StarID, &rt.MovieID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Summary returns the vote count and the average star value of a movie.
func (r *RatingRepo) Summary(ctx context.Context, movieID uint64) (model.RatingSummary, error) {
	var (
		s   model.RatingSummary
		avg sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(s.value) FROM ratings r JOIN rating_stars s ON s.id = r.star_id WHERE r.movie_id = ?`,
		movieID).Scan(&s.Votes, &avg)
	if err != nil {
		return model.RatingSummary{}, err
	}
	if avg.Valid {
		s.Average = avg.Float64
	}
	return s, nil
}

// Delete removes a single rating.
func (r *RatingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ratings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRatingNotFound
	}
	return nil
}
