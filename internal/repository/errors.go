// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when an insert violates a unique key, such as a
// second movie with the same slug.  Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrActorNotFound    = errors.New("actor not found")
	ErrMovieNotFound    = errors.New("movie not found")
	ErrShotNotFound     = errors.New("movie shot not found")
	ErrStarNotFound     = errors.New("rating star not found")
	ErrRatingNotFound   = errors.New("rating not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrContactNotFound  = errors.New("contact not found")
)

// ErrInvalidReference is returned when a foreign key points at a missing
// row, such as a movie linked to an unknown genre.
var ErrInvalidReference = errors.New("invalid reference")

const (
	mysqlDuplicateEntry  = 1062 // ER_DUP_ENTRY
	mysqlNoReferencedRow = 1452 // ER_NO_REFERENCED_ROW_2
)

// mapDriverError maps duplicate keys to ErrConflict and dangling foreign
// keys to ErrInvalidReference.  Any other error is returned unchanged.
func mapDriverError(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlDuplicateEntry:
		return ErrConflict
	case mysqlNoReferencedRow:
		return ErrInvalidReference
	}
	return err
}
