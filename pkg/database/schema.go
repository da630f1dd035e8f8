package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL of the dashboard tables
func Schema() string {
	return schemaSQL
}

// Migrate applies the embedded schema. Statements are idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	db.logger.Info().Msg("database schema applied")
	return nil
}
