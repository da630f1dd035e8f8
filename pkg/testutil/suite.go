package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/jmoiron/sqlx"
)

// One PostgreSQL container is shared by every integration test in a package
var (
	shared     *PostgresContainer
	sharedDB   *sqlx.DB
	sharedOnce sync.Once
	sharedErr  error
)

// IntegrationSuite holds a migrated database and fixture helpers.
// Build it once in TestMain, call Reset at the top of each test and
// TerminateContainer after m.Run.
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if sharedErr == nil {
			sharedDB, sharedErr = shared.Connect(ctx)
		}
	})
	if sharedErr != nil {
		return nil, sharedErr
	}

	if err := shared.ApplySchema(ctx, sharedDB); err != nil {
		return nil, err
	}

	log := logger.New("test", "test")
	return &IntegrationSuite{
		Container: shared,
		RawDB:     sharedDB,
		DB:        database.Wrap(sharedDB, log),
		Fixtures:  NewFixtureFactory(),
		Logger:    log,
	}, nil
}

// Reset empties every dashboard table
func (s *IntegrationSuite) Reset(t *testing.T) {
	t.Helper()
	if err := Truncate(context.Background(), s.RawDB); err != nil {
		t.Fatalf("failed to reset database: %v", err)
	}
}

// CreateAdmin inserts a and returns it with its id set
func (s *IntegrationSuite) CreateAdmin(t *testing.T, a AdminFixture) AdminFixture {
	t.Helper()
	if err := InsertAdmin(context.Background(), s.RawDB, &a); err != nil {
		t.Fatal(err)
	}
	return a
}

// CreateContact inserts c and returns it with its id set
func (s *IntegrationSuite) CreateContact(t *testing.T, c ContactFixture) ContactFixture {
	t.Helper()
	if err := InsertContact(context.Background(), s.RawDB, &c); err != nil {
		t.Fatal(err)
	}
	return c
}

func TerminateContainer(ctx context.Context) {
	if shared != nil {
		_ = shared.Terminate(ctx)
	}
}
