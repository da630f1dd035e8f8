package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/algoaura/dashboard-backend/pkg/config"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	connectAttempts = 5
	pingTimeout     = 3 * time.Second
	healthTimeout   = time.Second
)

// DB is the shared Postgres pool
type DB struct {
	*sqlx.DB
	logger *logger.Logger
}

// New opens the pool described by cfg and pings it. The database often
// starts alongside the API, so the ping is retried with a growing pause.
func New(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempt, err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready, retrying")
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("connected to database")

	return Wrap(db, log), nil
}

// Wrap adapts an existing sqlx handle, e.g. a sqlmock connection in tests
func Wrap(db *sqlx.DB, log *logger.Logger) *DB {
	return &DB{
		DB:     db,
		logger: log,
	}
}

// Close closes the pool
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health pings the database and reports pool usage for /health
func (db *DB) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	stats := db.Stats()
	status := map[string]string{
		"status":           "up",
		"open_connections": strconv.Itoa(stats.OpenConnections),
		"in_use":           strconv.Itoa(stats.InUse),
	}
	if err := db.PingContext(ctx); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
	}
	return status
}
