package repository_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
	"github.com/algoaura/dashboard-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contactCols = []string{"id", "phone", "name", "email", "assigned_admin_id", "automation_disabled", "created_at", "updated_at"}
	catalogCols = []string{"id", "admin_id", "item_type", "name", "category", "description", "price_label",
		"duration_value", "duration_unit", "duration_minutes", "quantity_value", "quantity_unit",
		"details_prompt", "keywords", "is_active", "sort_order", "is_bookable", "created_at", "updated_at"}
	orderCols = []string{"id", "admin_id", "order_number", "customer_name", "customer_phone", "customer_email",
		"channel", "status", "fulfillment_status", "delivery_method", "delivery_address", "items", "notes",
		"assigned_to", "placed_at", "payment_total", "payment_paid", "payment_status", "payment_method",
		"payment_currency", "payment_notes", "created_at", "updated_at"}
)

func contactValues(id, adminID int64) []driver.Value {
	now := time.Now()
	return []driver.Value{id, "9990000001", "Ravi", nil, adminID, false, now, now}
}

func newMockDB(t *testing.T) *testutil.MockDB {
	t.Helper()
	db := testutil.NewMockDB(t)
	t.Cleanup(func() { db.Close() })
	return db
}

// =============================================================================
// Contacts
// =============================================================================

func TestContactRepository_ListScopesToOwner(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewContactRepository(db.Database())

	db.ExpectQuery("FROM contacts WHERE assigned_admin_id = $1 AND (name ILIKE $2 OR phone ILIKE $3 OR email ILIKE $4) ORDER BY created_at DESC, id DESC LIMIT $5 OFFSET $6").
		WithArgs(int64(7), "%ravi%", "%ravi%", "%ravi%", 51, 0).
		WillReturnRows(testutil.MockRows(contactCols...).AddRow(contactValues(1, 7)...))

	contacts, err := repo.List(context.Background(), tenant.Scoped(7), repository.ContactFilter{
		Search:     "ravi",
		Pagination: httputil.Pagination{Limit: 50},
	})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, int64(7), contacts[0].AssignedAdminID)
	db.ExpectationsWereMet(t)
}

func TestContactRepository_ListUnscopedHasNoPredicate(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewContactRepository(db.Database())

	db.ExpectQuery("FROM contacts ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2").
		WithArgs(3, 2).
		WillReturnRows(testutil.MockRows(contactCols...).
			AddRow(contactValues(1, 7)...).
			AddRow(contactValues(2, 8)...))

	contacts, err := repo.List(context.Background(), tenant.Unscoped(), repository.ContactFilter{
		Pagination: httputil.Pagination{Limit: 2, Offset: 2},
	})
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
	db.ExpectationsWereMet(t)
}

func TestContactRepository_ZeroScopeMatchesNothing(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewContactRepository(db.Database())

	db.ExpectQuery("FROM contacts WHERE FALSE ORDER BY").
		WithArgs(51, 0).
		WillReturnRows(testutil.MockRows(contactCols...))

	contacts, err := repo.List(context.Background(), tenant.Scope{}, repository.ContactFilter{
		Pagination: httputil.Pagination{Limit: 50},
	})
	require.NoError(t, err)
	assert.Empty(t, contacts)
	db.ExpectationsWereMet(t)
}

func TestContactRepository_ForeignContactIsNotFound(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewContactRepository(db.Database())

	db.ExpectQuery("FROM contacts WHERE assigned_admin_id = $1 AND id = $2").
		WithArgs(int64(2), int64(10)).
		WillReturnRows(testutil.MockRows(contactCols...))

	_, err := repo.GetByID(context.Background(), 10, tenant.Scoped(2))
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	db.ExpectationsWereMet(t)
}

func TestContactRepository_UpdateWritesOnlySetFields(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewContactRepository(db.Database())

	db.ExpectQuery("UPDATE contacts SET automation_disabled = $1 WHERE assigned_admin_id = $2 AND id = $3 RETURNING").
		WithArgs(true, int64(7), int64(3)).
		WillReturnRows(testutil.MockRows(contactCols...).AddRow(contactValues(3, 7)...))

	disabled := true
	contact, err := repo.Update(context.Background(), 3, tenant.Scoped(7), &repository.ContactPatch{AutomationDisabled: &disabled})
	require.NoError(t, err)
	assert.Equal(t, int64(3), contact.ID)
	db.ExpectationsWereMet(t)
}

func TestContactRepository_DeleteForeignIsNotFound(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewContactRepository(db.Database())

	db.ExpectExec("DELETE FROM contacts WHERE assigned_admin_id = $1 AND id = $2").
		WithArgs(int64(2), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 10, tenant.Scoped(2))
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	db.ExpectationsWereMet(t)
}

func TestContactRepository_UnscopedWritesHaveNoOwnerPredicate(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewContactRepository(db.Database())

	db.ExpectQuery("UPDATE contacts SET name = $1 WHERE id = $2 RETURNING").
		WithArgs("Ravi K", int64(10)).
		WillReturnRows(testutil.MockRows(contactCols...).AddRow(contactValues(10, 2)...))
	db.ExpectExec("DELETE FROM contacts WHERE id = $1").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	name := "Ravi K"
	contact, err := repo.Update(context.Background(), 10, tenant.Unscoped(), &repository.ContactPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(2), contact.AssignedAdminID)

	require.NoError(t, repo.Delete(context.Background(), 10, tenant.Unscoped()))
	db.ExpectationsWereMet(t)
}

// =============================================================================
// Messages, leads, tasks
// =============================================================================

func TestMessageRepository_AdvanceStatus(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewMessageRepository(db.Database())

	db.ExpectExec("UPDATE messages SET status = $1").
		WithArgs(domain.MessageRead, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	db.ExpectExec("UPDATE messages SET status = $1").
		WithArgs(domain.MessageDelivered, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	moved, err := repo.AdvanceStatus(context.Background(), 9, domain.MessageRead)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.AdvanceStatus(context.Background(), 9, domain.MessageDelivered)
	require.NoError(t, err)
	assert.False(t, moved)
	db.ExpectationsWereMet(t)
}

func TestMessageRepository_ThreadBefore(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewMessageRepository(db.Database())
	before := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	db.ExpectQuery("FROM messages m WHERE m.admin_id = $1 AND m.user_id = $2 AND m.created_at < $3 ORDER BY m.created_at DESC, m.id DESC LIMIT $4 OFFSET $5").
		WithArgs(int64(4), int64(12), before, 21, 0).
		WillReturnRows(testutil.MockRows("id", "user_id", "admin_id", "message_text", "message_type", "status", "created_at").
			AddRow(int64(1), int64(12), int64(4), "hello", "incoming", "sent", before.Add(-time.Hour)))

	messages, err := repo.ListThread(context.Background(), 12, tenant.Scoped(4), repository.ThreadFilter{
		Before:     &before,
		Pagination: httputil.Pagination{Limit: 20},
	})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].MessageText)
	db.ExpectationsWereMet(t)
}

func TestLeadRepository_ListScopesThroughContact(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewLeadRepository(db.Database())

	db.ExpectQuery("WHERE EXISTS (SELECT 1 FROM contacts oc WHERE oc.id = l.user_id AND oc.assigned_admin_id = $1) AND l.status = $2 ORDER BY l.created_at DESC, l.id DESC LIMIT $3 OFFSET $4").
		WithArgs(int64(3), domain.LeadPending, 51, 0).
		WillReturnRows(testutil.MockRows("id"))

	leads, err := repo.List(context.Background(), tenant.Scoped(3), repository.LeadFilter{
		Status:     domain.LeadPending,
		Pagination: httputil.Pagination{Limit: 50},
	})
	require.NoError(t, err)
	assert.Empty(t, leads)
	db.ExpectationsWereMet(t)
}

func TestTaskRepository_UpdateForeignIsNotFound(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewTaskRepository(db.Database())
	status := domain.TaskCompleted

	db.ExpectExec("UPDATE tasks t SET status = $1 WHERE EXISTS (SELECT 1 FROM contacts oc WHERE oc.id = t.user_id AND oc.assigned_admin_id = $2) AND t.id = $3").
		WithArgs(status, int64(3), int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 40, tenant.Scoped(3), &repository.TaskPatch{Status: &status})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	db.ExpectationsWereMet(t)
}

// =============================================================================
// Orders and catalog
// =============================================================================

func TestOrderRepository_UpdateAppendsNote(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewOrderRepository(db.Database())
	now := time.Now()
	status := domain.OrderConfirmed
	note := domain.NewOrderNote("Called customer", "Asha", now)

	db.ExpectQuery("UPDATE orders SET status = $1, notes = notes || $2::jsonb WHERE admin_id = $3 AND id = $4 RETURNING").
		WithArgs(status, testutil.AnyString{}, int64(1), int64(5)).
		WillReturnRows(testutil.MockRows(orderCols...).AddRow(
			int64(5), int64(1), "WA-1", "Meera", nil, nil,
			"WhatsApp", status, domain.FulfillmentUnfulfilled, nil, nil,
			[]byte(`[{"name":"Tea","quantity":2,"price":120}]`),
			[]byte(`[{"id":"n1","message":"Called customer","author":"Asha","created_at":"2026-01-02T00:00:00Z"}]`),
			nil, now, nil, []byte("0.00"), domain.PaymentPending, nil,
			"INR", nil, now, now,
		))

	order, err := repo.Update(context.Background(), 5, tenant.Scoped(1), &repository.OrderPatch{Status: &status}, &note)
	require.NoError(t, err)
	require.Len(t, order.Notes, 1)
	assert.Equal(t, "Asha", order.Notes[0].Author)
	assert.Equal(t, domain.Amount("0.00"), order.PaymentPaid)
	assert.Nil(t, order.PaymentTotal)
	assert.Equal(t, domain.Amount("240"), domain.OrderTotal(order.Items))
	db.ExpectationsWereMet(t)
}

func TestOrderRepository_CountNew(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewOrderRepository(db.Database())

	db.ExpectQuery("SELECT COUNT(*) FROM orders WHERE admin_id = $1 AND status = $2").
		WithArgs(int64(6), domain.OrderNew).
		WillReturnRows(testutil.MockRows("count").AddRow(4))

	count, err := repo.CountNew(context.Background(), tenant.Scoped(6))
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	db.ExpectationsWereMet(t)
}

func TestCatalogRepository_ListFilters(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewCatalogRepository(db.Database())

	db.ExpectQuery("FROM catalog_items WHERE admin_id = $1 AND item_type = $2 AND is_active = TRUE ORDER BY sort_order ASC, name ASC, id ASC LIMIT $3 OFFSET $4").
		WithArgs(int64(2), domain.ItemService, 201, 0).
		WillReturnRows(testutil.MockRows(catalogCols...))

	items, err := repo.List(context.Background(), tenant.Scoped(2), repository.CatalogFilter{
		Type:       domain.ItemService,
		Status:     domain.CatalogActive,
		Pagination: httputil.Pagination{Limit: 200},
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	db.ExpectationsWereMet(t)
}

func TestCatalogRepository_DuplicateIsInactiveCopy(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewCatalogRepository(db.Database())
	now := time.Now()

	db.ExpectQuery("name || ' (Copy)'").
		WithArgs(int64(2), int64(11)).
		WillReturnRows(testutil.MockRows(catalogCols...).AddRow(
			int64(12), int64(2), domain.ItemService, "Kundli Reading (Copy)", nil, nil, nil,
			60, "minutes", 60, nil, nil,
			nil, []byte("{vedic,chart}"), false, 0, true, now, now,
		))

	item, err := repo.Duplicate(context.Background(), 11, tenant.Scoped(2))
	require.NoError(t, err)
	assert.Equal(t, "Kundli Reading (Copy)", item.Name)
	assert.False(t, item.IsActive)
	assert.Equal(t, []string{"vedic", "chart"}, []string(item.Keywords))
	db.ExpectationsWereMet(t)
}

func TestCatalogRepository_DuplicateForeignIsNotFound(t *testing.T) {
	db := newMockDB(t)
	repo := repository.NewCatalogRepository(db.Database())

	db.ExpectQuery("FROM catalog_items WHERE admin_id = $1 AND id = $2 RETURNING").
		WithArgs(int64(2), int64(99)).
		WillReturnRows(testutil.MockRows(catalogCols...))

	_, err := repo.Duplicate(context.Background(), 99, tenant.Scoped(2))
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	db.ExpectationsWereMet(t)
}
