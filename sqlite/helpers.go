package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// timestamp formats t the way every time column stores it: UTC RFC3339 with
// whole seconds, so lexical order matches chronological order.
func timestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// parseTimestamp parses a stored time column, naming the column on failure.
func parseTimestamp(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// where collects equality conditions for the optional filter fields.
type where struct {
	conds []string
	args  []any
}

// eq adds "column = value" when value is set.
func (w *where) eq(column string, value *string) {
	if value == nil {
		return
	}
	w.conds = append(w.conds, column+" = ?")
	w.args = append(w.args, *value)
}

// writeTo appends the WHERE clause, if any, to query.
func (w *where) writeTo(query *strings.Builder) {
	if len(w.conds) == 0 {
		return
	}
	query.WriteString(" WHERE ")
	query.WriteString(strings.Join(w.conds, " AND "))
}

// appendPagination appends LIMIT and OFFSET clauses when they are positive.
// SQLite requires a LIMIT before OFFSET, so an offset alone uses LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
