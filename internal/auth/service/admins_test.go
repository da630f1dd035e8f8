package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/algoaura/dashboard-backend/internal/auth/domain"
	"github.com/algoaura/dashboard-backend/internal/auth/events"
	"github.com/algoaura/dashboard-backend/internal/auth/repository"
	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/algoaura/dashboard-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminService(t *testing.T) (*AdminService, *testutil.MockDB, *testutil.MockPublisher) {
	t.Helper()

	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	log := logger.New("test", "test")
	pub := testutil.NewMockPublisher()
	svc := NewAdminService(
		repository.NewAdminRepository(mockDB.Database()),
		events.NewAdminEventPublisher(pub, nil, log),
		log,
	)
	return svc, mockDB, pub
}

func superAdminContext(id int64) context.Context {
	return actor.WithActor(context.Background(), &actor.Actor{ID: id, Name: "ROOT", Tier: actor.TierSuperAdmin})
}

func TestAdminService_List(t *testing.T) {
	svc, db, _ := newAdminService(t)

	db.ExpectQuery("FROM admins WHERE (name ILIKE $1 OR phone ILIKE $2 OR email ILIKE $3) ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5").
		WithArgs("%asha%", "%asha%", "%asha%", 3, 0).
		WillReturnRows(adminRow(3, "active").AddRow(adminRowValues(2)...).AddRow(adminRowValues(1)...))

	page, err := svc.List(context.Background(), repository.ListFilter{
		Search:     "asha",
		Status:     "bogus",
		Pagination: httputil.Pagination{Limit: 2},
	})
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.True(t, page.Meta.HasMore)
	require.NotNil(t, page.Meta.NextOffset)
	assert.Equal(t, 2, *page.Meta.NextOffset)
	db.ExpectationsWereMet(t)
}

func TestAdminService_UpdateActivates(t *testing.T) {
	svc, db, pub := newAdminService(t)
	status := domain.StatusActive

	db.ExpectQuery("UPDATE admins SET status = $1 WHERE id = $2 RETURNING").
		WithArgs("active", int64(4)).
		WillReturnRows(adminRow(4, "active"))

	admin, err := svc.Update(superAdminContext(1), 4, &repository.Patch{Status: &status})
	require.NoError(t, err)
	assert.True(t, admin.IsActive())

	pub.AssertEventPublished(t, messaging.EventAdminUpdated)
	event := pub.Events()[0].Payload.(messaging.AdminEvent)
	assert.Equal(t, int64(1), event.ActorID)
	assert.Equal(t, domain.StatusActive, event.Fields["status"])
	db.ExpectationsWereMet(t)
}

func TestAdminService_UpdateRejectsUnknownTier(t *testing.T) {
	svc, db, pub := newAdminService(t)
	tier := domain.Tier("owner")

	_, err := svc.Update(superAdminContext(1), 4, &repository.Patch{AdminTier: &tier})

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "must be one of: super_admin, client_admin", appErr.Details["admin_tier"])
	pub.AssertNoEventsPublished(t)
	db.ExpectationsWereMet(t)
}

func TestAdminService_EmptyPatchReadsBack(t *testing.T) {
	svc, db, pub := newAdminService(t)

	db.ExpectQuery("FROM admins WHERE id = $1").WithArgs(int64(4)).WillReturnRows(adminRow(4, "inactive"))

	admin, err := svc.Update(superAdminContext(1), 4, &repository.Patch{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), admin.ID)
	pub.AssertNoEventsPublished(t)
}

func TestAdminService_Delete(t *testing.T) {
	t.Run("cannot delete yourself", func(t *testing.T) {
		svc, db, _ := newAdminService(t)

		err := svc.Delete(superAdminContext(1), 1)
		require.Error(t, err)
		assert.Equal(t, "You cannot delete your own account", err.Error())
		db.ExpectationsWereMet(t)
	})

	t.Run("missing admin", func(t *testing.T) {
		svc, db, pub := newAdminService(t)
		db.ExpectExec("DELETE FROM admins WHERE id = $1").WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.Delete(superAdminContext(1), 8)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
		pub.AssertNoEventsPublished(t)
	})

	t.Run("deletes and publishes", func(t *testing.T) {
		svc, db, pub := newAdminService(t)
		db.ExpectExec("DELETE FROM admins WHERE id = $1").WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.Delete(superAdminContext(1), 8))
		pub.AssertEventPublished(t, messaging.EventAdminDeleted)
		db.ExpectationsWereMet(t)
	})
}
