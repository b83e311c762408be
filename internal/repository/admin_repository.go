package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// RowQuery describes a back office listing.  Table, Columns, SearchColumns
// and the keys of Filters are identifiers taken from the admin registry,
// never from the request; only Term and the filter values are user input
// and they are always bound as arguments.
type RowQuery struct {
	Table         string
	Columns       []string
	SearchColumns []string
	SearchRelated []RelatedField
	Term          string
	Filters       map[string]string
	Limit         int
}

// RelatedField is a column of another table reached through the foreign
// key Column of the listed table, e.g. categories.name via category_id.
type RelatedField struct {
	Column string
	Table  string
	Field  string
}

// AdminRepo runs the generic listing queries of the back office.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo constructs an AdminRepo with the provided DB handle.
func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// build renders the SELECT for q.  Filter keys are emitted in the order of
// keys so the statement is deterministic.
func (q RowQuery) build(keys []string) (string, []any) {
	var (
		where []string
		args  []any
	)
	if term := strings.TrimSpace(q.Term); term != "" && len(q.SearchColumns)+len(q.SearchRelated) > 0 {
		var ors []string
		for _, c := range q.SearchColumns {
			ors = append(ors, c+" LIKE ?")
			args = append(args, "%"+term+"%")
		}
		for _, rf := range q.SearchRelated {
			ors = append(ors, rf.Column+" IN (SELECT id FROM "+rf.Table+" WHERE "+rf.Field+" LIKE ?)")
			args = append(args, "%"+term+"%")
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}
	for _, k := range keys {
		where = append(where, k+" = ?")
		args = append(args, q.Filters[k])
	}
	query := "SELECT " + strings.Join(q.Columns, ", ") + " FROM " + q.Table
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}
	return query, args
}

// ListRows returns the selected columns as column → value maps.  Byte
// slices are converted to strings and times to RFC 3339.
func (r *AdminRepo) ListRows(ctx context.Context, q RowQuery, filterKeys []string) ([]map[string]any, error) {
	query, args := q.build(filterKeys)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []map[string]any{}
	vals := make([]any, len(q.Columns))
	ptrs := make([]any, len(q.Columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(q.Columns))
		for i, col := range q.Columns {
			switch v := vals[i].(type) {
			case []byte:
				row[col] = string(v)
			case time.Time:
				row[col] = v.Format(time.RFC3339)
			default:
				row[col] = v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
