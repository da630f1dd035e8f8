// Package testutil holds test helpers for the dashboard backend: a
// testcontainers PostgreSQL loaded with the dashboard schema, sqlmock
// wrappers, fixtures and HTTP helpers.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// dashboardTables lists every table Truncate clears, parents first
const dashboardTables = "admins, contacts, messages, leads, tasks, appointments, orders, catalog_items"

type PostgresContainer struct {
	*postgres.PostgresContainer
	DSN string
}

type PostgresContainerConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Startup  time.Duration
}

func DefaultPostgresConfig() PostgresContainerConfig {
	return PostgresContainerConfig{
		Image:    "postgres:15-alpine",
		Database: "dashboard_test",
		Username: "test",
		Password: "test",
		Startup:  60 * time.Second,
	}
}

// NewPostgresContainer starts PostgreSQL and waits for the second
// "ready" log line, which the image prints after its init scripts.
func NewPostgresContainer(ctx context.Context, cfg PostgresContainerConfig) (*PostgresContainer, error) {
	def := DefaultPostgresConfig()
	or := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	if cfg.Startup <= 0 {
		cfg.Startup = def.Startup
	}

	c, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(or(cfg.Image, def.Image)),
		postgres.WithDatabase(or(cfg.Database, def.Database)),
		postgres.WithUsername(or(cfg.Username, def.Username)),
		postgres.WithPassword(or(cfg.Password, def.Password)),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(cfg.Startup),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("postgres connection string: %w", err)
	}
	return &PostgresContainer{PostgresContainer: c, DSN: dsn}, nil
}

func (c *PostgresContainer) Connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect to test database: %w", err)
	}
	return db, nil
}

// ApplySchema runs the same DDL as dashboard-migrate
func (c *PostgresContainer) ApplySchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, database.Schema()); err != nil {
		return fmt.Errorf("apply dashboard schema: %w", err)
	}
	return nil
}

// Truncate empties the dashboard tables and restarts id sequences
func Truncate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, "TRUNCATE "+dashboardTables+" RESTART IDENTITY CASCADE"); err != nil {
		return fmt.Errorf("truncate dashboard tables: %w", err)
	}
	return nil
}
