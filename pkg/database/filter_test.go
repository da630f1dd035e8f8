package database_test

import (
	"testing"

	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
	"github.com/stretchr/testify/assert"
)

func TestNewFilter_ScopePredicate(t *testing.T) {
	tests := []struct {
		name      string
		scope     tenant.Scope
		wantQuery string
		wantArgs  []interface{}
	}{
		{
			name:      "scoped admin filters by owner",
			scope:     tenant.Scoped(2),
			wantQuery: "SELECT id FROM contacts WHERE assigned_admin_id = $1",
			wantArgs:  []interface{}{int64(2)},
		},
		{
			name:      "unscoped adds no predicate",
			scope:     tenant.Unscoped(),
			wantQuery: "SELECT id FROM contacts",
			wantArgs:  []interface{}{},
		},
		{
			name:      "zero scope matches nothing",
			scope:     tenant.Scope{},
			wantQuery: "SELECT id FROM contacts WHERE FALSE",
			wantArgs:  []interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := database.NewFilter(tt.scope, "assigned_admin_id").Build("SELECT id FROM contacts", "")
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilter_ScopeComesFirst(t *testing.T) {
	query, args := database.NewFilter(tenant.Scoped(5), "c.assigned_admin_id").
		Where("c.id = ?", int64(10)).
		Build("SELECT c.id FROM contacts c", "")

	assert.Equal(t, "SELECT c.id FROM contacts c WHERE c.assigned_admin_id = $1 AND c.id = $2", query)
	assert.Equal(t, []interface{}{int64(5), int64(10)}, args)
}

func TestFilter_SearchAndPaging(t *testing.T) {
	query, args := database.NewFilter(tenant.Scoped(1), "assigned_admin_id").
		Search("  ravi ", "name", "phone").
		Build("SELECT * FROM contacts", "ORDER BY created_at DESC LIMIT ? OFFSET ?", 51, 0)

	assert.Equal(t,
		"SELECT * FROM contacts WHERE assigned_admin_id = $1 AND (name ILIKE $2 OR phone ILIKE $3) ORDER BY created_at DESC LIMIT $4 OFFSET $5",
		query)
	assert.Equal(t, []interface{}{int64(1), "%ravi%", "%ravi%", 51, 0}, args)
}

func TestFilter_SearchEscapesWildcards(t *testing.T) {
	_, args := database.NewFilter(tenant.Unscoped(), "admin_id").
		Search("50%_off", "name").
		Build("SELECT * FROM catalog_items", "")

	assert.Equal(t, []interface{}{`%50\%\_off%`}, args)
}

func TestFilter_EmptySearchIgnored(t *testing.T) {
	query, _ := database.NewFilter(tenant.Unscoped(), "admin_id").
		Search("   ", "name").
		WhereIf(false, "status = ?", "active").
		Build("SELECT * FROM orders", "")

	assert.Equal(t, "SELECT * FROM orders", query)
}

func TestNewFilterExpr_IndirectOwnership(t *testing.T) {
	query, args := database.NewFilterExpr(tenant.Scoped(3),
		"EXISTS (SELECT 1 FROM contacts c WHERE c.id = l.user_id AND c.assigned_admin_id = ?)").
		Where("l.status = ?", "pending").
		Build("SELECT l.* FROM leads l", "")

	assert.Equal(t,
		"SELECT l.* FROM leads l WHERE EXISTS (SELECT 1 FROM contacts c WHERE c.id = l.user_id AND c.assigned_admin_id = $1) AND l.status = $2",
		query)
	assert.Equal(t, []interface{}{int64(3), "pending"}, args)
}
