package testutil

import (
	"context"
	"database/sql/driver"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/jmoiron/sqlx"
)

// MockDB pairs a sqlx handle with its sqlmock controller. Expect* methods
// match SQL literally, so tests can paste fragments of the real query.
type MockDB struct {
	DB   *sqlx.DB
	Mock sqlmock.Sqlmock
}

func NewMockDB(t *testing.T) *MockDB {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return &MockDB{DB: sqlx.NewDb(raw, "postgres"), Mock: mock}
}

// Database returns the handle repositories are built with
func (m *MockDB) Database() *database.DB {
	return database.Wrap(m.DB, logger.New("test", "test"))
}

func (m *MockDB) Close() error { return m.DB.Close() }

func (m *MockDB) ExpectQuery(sql string) *sqlmock.ExpectedQuery {
	return m.Mock.ExpectQuery(regexp.QuoteMeta(sql))
}

func (m *MockDB) ExpectExec(sql string) *sqlmock.ExpectedExec {
	return m.Mock.ExpectExec(regexp.QuoteMeta(sql))
}

func (m *MockDB) ExpectBegin() *sqlmock.ExpectedBegin       { return m.Mock.ExpectBegin() }
func (m *MockDB) ExpectCommit() *sqlmock.ExpectedCommit     { return m.Mock.ExpectCommit() }
func (m *MockDB) ExpectRollback() *sqlmock.ExpectedRollback { return m.Mock.ExpectRollback() }

// ExpectAdvisoryLock expects database.LockXact(key)
func (m *MockDB) ExpectAdvisoryLock(key int64) *sqlmock.ExpectedExec {
	return m.ExpectExec("SELECT pg_advisory_xact_lock($1)").
		WithArgs(key).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	if err := m.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func MockRows(columns ...string) *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

// AnyString matches string or []byte arguments such as bcrypt hashes
// and jsonb documents
type AnyString struct{}

func (AnyString) Match(v driver.Value) bool {
	switch v.(type) {
	case string, []byte:
		return true
	}
	return false
}

// PublishedEvent is one call recorded by MockPublisher
type PublishedEvent struct {
	Type    string
	Payload interface{}
}

// MockPublisher is an in-memory messaging.EventPublisher. Publish records
// the call and then returns Err.
type MockPublisher struct {
	Err error

	mu     sync.Mutex
	events []PublishedEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(_ context.Context, eventType string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{Type: eventType, Payload: payload})
	return m.Err
}

// Events returns a snapshot of the recorded calls
func (m *MockPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.events...)
}

func (m *MockPublisher) AssertEventPublished(t *testing.T, eventType string) {
	t.Helper()
	for _, e := range m.Events() {
		if e.Type == eventType {
			return
		}
	}
	t.Errorf("expected event %q to be published, got %+v", eventType, m.Events())
}

func (m *MockPublisher) AssertNoEventsPublished(t *testing.T) {
	t.Helper()
	if events := m.Events(); len(events) > 0 {
		t.Errorf("expected no events, got %d: %+v", len(events), events)
	}
}
