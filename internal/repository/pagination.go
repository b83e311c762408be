package repository

import (
	"context"
	"database/sql"
	"math"
	"strings"
)

// Page selects a window of an ordered result.  Number is 1-based.
type Page struct {
	Number int
	Size   int
}

func (p Page) limit() int {
	if p.Size < 1 {
		return 1
	}
	return p.Size
}

func (p Page) offset() int {
	if p.Number < 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.limit() {
		return math.MaxInt
	}
	return (p.Number - 1) * p.limit()
}

// beyond reports whether no row of a total-row result falls on p.  The
// first page of an empty result is not beyond it.
func (p Page) beyond(total int64) bool {
	if p.Number <= 1 {
		return false
	}
	last := (total - 1) / int64(p.limit())
	return total <= 0 || int64(p.Number-1) > last
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// snapshot runs fn inside a read-only REPEATABLE READ transaction so a
// COUNT and the page query that follows it see the same rows.
func snapshot(ctx context.Context, db *sql.DB, fn func(q queryer) error) (err error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
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
	return fn(tx)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func uint64Args(ids []uint64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
