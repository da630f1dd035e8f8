// Package repository is the tenant-scoped query layer. Every read and write
// takes a tenant.Scope and compiles it into the statement itself.
package repository

import (
	"database/sql"
	"fmt"

	"github.com/algoaura/dashboard-backend/pkg/errors"
)

// requireAffected turns a write that matched no row into NotFound
func requireAffected(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return errors.NotFound(resource)
	}
	return nil
}

func isAll(v string) bool {
	return v == "" || v == "all"
}
