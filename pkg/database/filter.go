package database

import (
	"strings"

	"github.com/algoaura/dashboard-backend/pkg/tenant"
	"github.com/jmoiron/sqlx"
)

// Filter builds a WHERE clause whose first condition is always the tenant
// predicate. Conditions use ? placeholders and are rebound to $n on Build.
type Filter struct {
	conds []string
	args  []interface{}
}

// NewFilter starts a filter restricted to rows whose ownerColumn matches the scope.
// An unscoped filter adds no predicate; a zero scope matches nothing.
func NewFilter(scope tenant.Scope, ownerColumn string) *Filter {
	return NewFilterExpr(scope, ownerColumn+" = ?")
}

// NewFilterExpr is NewFilter for rows owned indirectly. expr must contain
// exactly one ? which receives the admin id, e.g.
//
//	EXISTS (SELECT 1 FROM contacts c WHERE c.id = l.user_id AND c.assigned_admin_id = ?)
func NewFilterExpr(scope tenant.Scope, expr string) *Filter {
	f := &Filter{}
	if scope.IsUnscoped() {
		return f
	}
	if adminID, ok := scope.AdminID(); ok {
		return f.Where(expr, adminID)
	}
	return f.Where("FALSE")
}

// Where appends a condition joined with AND
func (f *Filter) Where(cond string, args ...interface{}) *Filter {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
	return f
}

// WhereIf appends the condition only when ok is true
func (f *Filter) WhereIf(ok bool, cond string, args ...interface{}) *Filter {
	if !ok {
		return f
	}
	return f.Where(cond, args...)
}

// Search adds a case-insensitive substring match OR-ed across columns.
// An empty term adds nothing.
func (f *Filter) Search(term string, columns ...string) *Filter {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return f
	}

	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE ?"
		args[i] = pattern
	}
	return f.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// Clause renders " WHERE a AND b", or "" when there are no conditions
func (f *Filter) Clause() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// Args returns the bind arguments of the conditions in order
func (f *Filter) Args() []interface{} {
	return f.args
}

// Build wraps the clause between head and tail and rebinds the placeholders.
// extra arguments bind to placeholders in tail (LIMIT ? OFFSET ?).
func (f *Filter) Build(head, tail string, extra ...interface{}) (string, []interface{}) {
	query := head + f.Clause()
	if tail != "" {
		query += " " + tail
	}

	args := make([]interface{}, 0, len(f.args)+len(extra))
	args = append(args, f.args...)
	args = append(args, extra...)

	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
