package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ActorRepo encapsulates queries on actors.  Directors are stored in the
// same table.
type ActorRepo struct {
	db *sql.DB
}

// NewActorRepo constructs an ActorRepo with the provided DB handle.
func NewActorRepo(db *sql.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

func collectActors(rows *sql.Rows) ([]*model.Actor, error) {
	defer rows.Close()
	var out []*model.Actor
	for rows.Next() {
		a := new(model.Actor)
		if err := rows.Scan(&a.ID, &a.Name, &a.Age, &a.Description, &a.Image); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByName fetches an actor by display name.  Names are not unique; when
// several actors share a name the one with the lowest id wins.
func (r *ActorRepo) GetByName(ctx context.Context, name string) (*model.Actor, error) {
	const q = `SELECT id, name, age, description, image FROM actors WHERE name = ? ORDER BY id LIMIT 1`
	var a model.Actor
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&a.ID, &a.Name, &a.Age, &a.Description, &a.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new actor and populates its ID.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO actors (name, age, description, image) VALUES (?, ?, ?, ?)`,
		a.Name, a.Age, a.Description, a.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// Delete removes an actor and its acting and directing credits.
func (r *ActorRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM movie_actors WHERE actor_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM movie_directors WHERE actor_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM actors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrActorNotFound
	}
	return err
}
