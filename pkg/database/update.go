package database

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// Update builds a partial UPDATE statement. Only columns explicitly set are
// written, so absent fields keep their stored values.
type Update struct {
	table string
	sets  []string
	args  []interface{}
}

// NewUpdate starts an update of table
func NewUpdate(table string) *Update {
	return &Update{table: table}
}

// Set writes column = value
func (u *Update) Set(column string, value interface{}) *Update {
	u.sets = append(u.sets, column+" = ?")
	u.args = append(u.args, value)
	return u
}

// SetExpr writes column = expr, where expr may reference the current row
func (u *Update) SetExpr(column, expr string, args ...interface{}) *Update {
	u.sets = append(u.sets, column+" = "+expr)
	u.args = append(u.args, args...)
	return u
}

// Empty reports whether no column was set
func (u *Update) Empty() bool {
	return len(u.sets) == 0
}

// Build renders UPDATE ... SET ... WHERE <filter> RETURNING <returning>
func (u *Update) Build(f *Filter, returning string) (string, []interface{}) {
	query := "UPDATE " + u.table + " SET " + strings.Join(u.sets, ", ") + f.Clause()
	if returning != "" {
		query += " RETURNING " + returning
	}

	args := make([]interface{}, 0, len(u.args)+len(f.args))
	args = append(args, u.args...)
	args = append(args, f.args...)

	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// SetOptional writes column only when v is non-nil
func SetOptional[T any](u *Update, column string, v *T) *Update {
	if v == nil {
		return u
	}
	return u.Set(column, *v)
}
