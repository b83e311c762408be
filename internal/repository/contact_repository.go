package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ContactRepo stores newsletter subscriptions.
type ContactRepo struct {
	db *sql.DB
}

// NewContactRepo constructs a ContactRepo with the provided DB handle.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// Create inserts a subscription stamped with c.CreatedAt.
func (r *ContactRepo) Create(ctx context.Context, c *model.Contact) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (email, created_at) VALUES (?, ?)`, c.Email, c.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Delete removes a subscription.
func (r *ContactRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContactNotFound
	}
	return nil
}
