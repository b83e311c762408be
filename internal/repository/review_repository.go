package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ReviewRepo encapsulates queries on reviews.  Reviews form a tree through
// parent_id; removing a review never removes its replies.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo constructs a ReviewRepo with the provided DB handle.
func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func scanReview(s rowScanner) (*model.Review, error) {
	var (
		rv     model.Review
		parent sql.NullInt64
	)
	if err := s.Scan(&rv.ID, &rv.Email, &rv.Name, &rv.Text, &parent, &rv.MovieID); err != nil {
		return nil, err
	}
	if parent.Valid {
		id := uint64(parent.Int64)
		rv.ParentID = &id
	}
	return &rv, nil
}

// Create inserts a review and populates its ID.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	var parent any
	if rv.ParentID != nil {
		parent = *rv.ParentID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (email, name, text, parent_id, movie_id) VALUES (?, ?, ?, ?, ?)`,
		rv.Email, rv.Name, rv.Text, parent, rv.MovieID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// GetByID fetches a review by primary key.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*model.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx,
		`SELECT id, email, name, text, parent_id, movie_id FROM reviews WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	return rv, err
}

// ListByMovie returns every review of a movie ordered by id.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]*model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, name, text, parent_id, movie_id FROM reviews WHERE movie_id = ? ORDER BY id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a review.  Its replies stay in place with parent_id
// cleared.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if _, err = tx.ExecContext(ctx, `UPDATE reviews SET parent_id = NULL WHERE parent_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrReviewNotFound
	}
	return err
}
