package database_test

import (
	"testing"

	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
	"github.com/stretchr/testify/assert"
)

func TestUpdate_OnlyWritesSetColumns(t *testing.T) {
	name := "Ravi"
	var email *string

	u := database.NewUpdate("contacts")
	database.SetOptional(u, "name", &name)
	database.SetOptional(u, "email", email)

	f := database.NewFilter(tenant.Scoped(2), "assigned_admin_id").Where("id = ?", int64(9))
	query, args := u.Build(f, "id, name")

	assert.Equal(t, "UPDATE contacts SET name = $1 WHERE assigned_admin_id = $2 AND id = $3 RETURNING id, name", query)
	assert.Equal(t, []interface{}{"Ravi", int64(2), int64(9)}, args)
}

func TestUpdate_SetExpr(t *testing.T) {
	u := database.NewUpdate("orders").
		Set("status", "packed").
		SetExpr("notes", "notes || ?::jsonb", `[{"message":"hi"}]`)

	query, args := u.Build(database.NewFilter(tenant.Unscoped(), "admin_id").Where("id = ?", int64(1)), "")

	assert.Equal(t, "UPDATE orders SET status = $1, notes = notes || $2::jsonb WHERE id = $3", query)
	assert.Equal(t, []interface{}{"packed", `[{"message":"hi"}]`, int64(1)}, args)
}

func TestUpdate_Empty(t *testing.T) {
	u := database.NewUpdate("tasks")
	assert.True(t, u.Empty())

	database.SetOptional[string](u, "status", nil)
	assert.True(t, u.Empty())

	u.Set("status", "open")
	assert.False(t, u.Empty())
}
