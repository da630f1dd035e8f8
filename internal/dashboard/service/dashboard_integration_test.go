//go:build integration

package service_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/algoaura/dashboard-backend/internal/dashboard/events"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/internal/dashboard/service"
	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/phone"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
	"github.com/algoaura/dashboard-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	ctx := context.Background()
	var err error

	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		panic("failed to create integration suite: " + err.Error())
	}

	code := m.Run()
	testutil.TerminateContainer(ctx)
	os.Exit(code)
}

func asAdmin(a testutil.AdminFixture) context.Context {
	act := &actor.Actor{ID: a.ID, Name: a.Name, Tier: a.AdminTier, BusinessType: a.BusinessType}
	ctx := actor.WithActor(context.Background(), act)
	return tenant.WithScope(ctx, act.Scope())
}

func newContactService() *service.ContactService {
	return service.NewContactService(
		repository.NewContactRepository(suite.DB),
		repository.NewLeadRepository(suite.DB),
		phone.NewValidator(phone.DefaultRegion),
		events.NewPublisher(testutil.NewMockPublisher(), nil, suite.Logger),
		suite.Logger,
	)
}

func newAppointmentService() *service.AppointmentService {
	return service.NewAppointmentService(
		repository.NewContactRepository(suite.DB),
		repository.NewAppointmentRepository(suite.DB),
		events.NewPublisher(testutil.NewMockPublisher(), nil, suite.Logger),
		nil,
		suite.Logger,
	)
}

// ============================================================================
// TENANT ISOLATION
// ============================================================================

func TestContacts_IsolatedBetweenAdmins(t *testing.T) {
	suite.Reset(t)
	svc := newContactService()

	owner := suite.CreateAdmin(t, suite.Fixtures.Admin())
	other := suite.CreateAdmin(t, suite.Fixtures.Admin())
	super := suite.CreateAdmin(t, suite.Fixtures.SuperAdmin())

	mine := suite.CreateContact(t, suite.Fixtures.Contact(owner.ID))
	theirs := suite.CreateContact(t, suite.Fixtures.Contact(other.ID))

	page, err := svc.List(asAdmin(owner), repository.ContactFilter{Pagination: httputil.Pagination{Limit: 50}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, mine.ID, page.Items[0].ID)

	_, err = svc.Get(asAdmin(owner), theirs.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = svc.Delete(asAdmin(owner), theirs.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	page, err = svc.List(asAdmin(super), repository.ContactFilter{Pagination: httputil.Pagination{Limit: 50}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	// A super admin reads and writes across tenants
	got, err := svc.Get(asAdmin(super), theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.AssignedAdminID)

	name := "Renamed by super"
	updated, err := svc.Update(asAdmin(super), theirs.ID, &repository.ContactPatch{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, updated.Name)
	assert.Equal(t, name, *updated.Name)
	assert.Equal(t, other.ID, updated.AssignedAdminID)

	require.NoError(t, svc.Delete(asAdmin(super), theirs.ID))
	_, err = svc.Get(asAdmin(other), theirs.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

// ============================================================================
// DOUBLE BOOKING
// ============================================================================

func TestAppointments_DoubleBookingConflicts(t *testing.T) {
	suite.Reset(t)
	svc := newAppointmentService()

	owner := suite.CreateAdmin(t, suite.Fixtures.Admin())
	first := suite.CreateContact(t, suite.Fixtures.Contact(owner.ID))
	second := suite.CreateContact(t, suite.Fixtures.Contact(owner.ID))
	ctx := asAdmin(owner)

	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, &service.CreateAppointmentRequest{
		UserID: first.ID, StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &service.CreateAppointmentRequest{
		UserID: second.ID, StartTime: start, EndTime: start.Add(30 * time.Minute),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
	assert.Contains(t, err.Error(), "This time slot is already booked")

	// Another admin may use the same slot
	rival := suite.CreateAdmin(t, suite.Fixtures.Admin())
	theirs := suite.CreateContact(t, suite.Fixtures.Contact(rival.ID))
	_, err = svc.Create(asAdmin(rival), &service.CreateAppointmentRequest{
		UserID: theirs.ID, StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)
}

// ============================================================================
// LOAD MORE
// ============================================================================

func TestContacts_LoadMoreVisitsEveryRowOnce(t *testing.T) {
	suite.Reset(t)
	svc := newContactService()

	owner := suite.CreateAdmin(t, suite.Fixtures.Admin())
	for i := 0; i < 120; i++ {
		suite.CreateContact(t, suite.Fixtures.Contact(owner.ID))
	}
	ctx := asAdmin(owner)

	seen := make(map[int64]bool)
	offset, pages := 0, 0
	for {
		page, err := svc.List(ctx, repository.ContactFilter{Pagination: httputil.Pagination{Limit: 50, Offset: offset}})
		require.NoError(t, err)
		pages++

		for _, c := range page.Items {
			assert.False(t, seen[c.ID], "contact %d returned twice", c.ID)
			seen[c.ID] = true
		}
		if !page.Meta.HasMore {
			assert.Nil(t, page.Meta.NextOffset)
			break
		}
		offset = *page.Meta.NextOffset
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 120)
}
