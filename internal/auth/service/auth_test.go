package service

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/algoaura/dashboard-backend/internal/auth/domain"
	"github.com/algoaura/dashboard-backend/internal/auth/events"
	"github.com/algoaura/dashboard-backend/internal/auth/jwt"
	"github.com/algoaura/dashboard-backend/internal/auth/repository"
	"github.com/algoaura/dashboard-backend/pkg/config"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/algoaura/dashboard-backend/pkg/phone"
	"github.com/algoaura/dashboard-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var accountColumns = []string{
	"id", "name", "phone", "email", "admin_tier", "status", "business_category", "business_type",
	"profession", "profession_request", "access_expires_at", "created_at", "updated_at", "password_hash",
}

type authFixture struct {
	svc       *AuthService
	db        *testutil.MockDB
	publisher *testutil.MockPublisher
	jwt       *jwt.Manager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	db := mockDB.Database()
	log := logger.New("test", "test")
	pub := testutil.NewMockPublisher()
	manager := jwt.NewManager(&config.SessionConfig{
		Secret: "test-secret",
		Expiry: 7 * 24 * time.Hour,
		Issuer: "dashboard",
	})

	svc := NewAuthService(
		db,
		repository.NewAdminRepository(db),
		manager,
		phone.NewValidator(phone.DefaultRegion),
		events.NewAdminEventPublisher(pub, nil, log),
		nil,
		log,
	)

	return &authFixture{svc: svc, db: mockDB, publisher: pub, jwt: manager}
}

func (f *authFixture) expectSignupChecks(phoneTaken, emailTaken bool, superAdmins int) {
	f.db.ExpectBegin()
	f.db.ExpectAdvisoryLock(signupLockKey)
	f.db.ExpectQuery("EXISTS (SELECT 1 FROM admins WHERE phone = $1)").
		WithArgs("9876543210", "asha@example.com").
		WillReturnRows(testutil.MockRows("phone", "email").AddRow(phoneTaken, emailTaken))
	if phoneTaken || emailTaken {
		f.db.ExpectRollback()
		return
	}
	f.db.ExpectQuery("SELECT COUNT(*) FROM admins WHERE admin_tier = $1").
		WithArgs("super_admin").
		WillReturnRows(testutil.MockRows("count").AddRow(superAdmins))
}

func signupRequest() *SignupRequest {
	return &SignupRequest{
		Name:             "  asha   rao ",
		Phone:            "98765 43210",
		Password:         "secret-pass",
		Email:            " Asha@Example.com ",
		BusinessCategory: "Astrology",
		BusinessType:     "consulting",
	}
}

// ============================================================================
// SIGNUP
// ============================================================================

func TestSignup_FirstAdminBecomesActiveSuperAdmin(t *testing.T) {
	f := newAuthFixture(t)
	now := time.Now()

	f.expectSignupChecks(false, false, 0)
	f.db.ExpectQuery("INSERT INTO admins").
		WithArgs("ASHA RAO", "9876543210", "asha@example.com", testutil.AnyString{}, "super_admin", "active", "Astrology", "both").
		WillReturnRows(testutil.MockRows("id", "profession", "created_at", "updated_at").AddRow(1, "astrology", now, now))
	f.db.ExpectCommit()

	result, err := f.svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Admin.ID)
	assert.Equal(t, domain.TierSuperAdmin, result.Admin.AdminTier)
	assert.Equal(t, domain.StatusActive, result.Admin.Status)
	assert.Equal(t, domain.BusinessBoth, result.Admin.BusinessType)
	assert.False(t, result.RequiresActivation)
	require.NotNil(t, result.Session)

	claims, err := f.jwt.Validate(result.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)

	f.publisher.AssertEventPublished(t, messaging.EventAdminSignedUp)
	f.db.ExpectationsWereMet(t)
}

func TestSignup_LaterAdminRequiresActivation(t *testing.T) {
	f := newAuthFixture(t)
	now := time.Now()

	f.expectSignupChecks(false, false, 1)
	f.db.ExpectQuery("INSERT INTO admins").
		WithArgs("ASHA RAO", "9876543210", "asha@example.com", testutil.AnyString{}, "client_admin", "inactive", "Astrology", "both").
		WillReturnRows(testutil.MockRows("id", "profession", "created_at", "updated_at").AddRow(2, "astrology", now, now))
	f.db.ExpectCommit()

	result, err := f.svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.TierClientAdmin, result.Admin.AdminTier)
	assert.Equal(t, domain.StatusInactive, result.Admin.Status)
	assert.True(t, result.RequiresActivation)
	assert.Nil(t, result.Session)
	f.db.ExpectationsWereMet(t)
}

func TestSignup_DuplicateReportsCollidingFields(t *testing.T) {
	f := newAuthFixture(t)
	f.expectSignupChecks(true, false, 0)

	_, err := f.svc.Signup(context.Background(), signupRequest())
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.StatusCode)
	assert.Equal(t, "An account with this phone or email already exists", appErr.Message)
	assert.Equal(t, map[string]bool{"phone": true, "email": false}, appErr.Fields)

	f.publisher.AssertNoEventsPublished(t)
	f.db.ExpectationsWereMet(t)
}

func TestSignup_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignupRequest)
	}{
		{"missing name", func(r *SignupRequest) { r.Name = "   " }},
		{"phone without digits", func(r *SignupRequest) { r.Phone = "call me" }},
		{"missing password", func(r *SignupRequest) { r.Password = "" }},
		{"missing category", func(r *SignupRequest) { r.BusinessCategory = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			req := signupRequest()
			tt.mutate(req)

			_, err := f.svc.Signup(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrBadRequest))
			assert.Contains(t, err.Error(), "Valid name, phone, password, and business category are required")
			f.db.ExpectationsWereMet(t)
		})
	}
}

func TestSignup_RejectsInvalidEmail(t *testing.T) {
	f := newAuthFixture(t)
	req := signupRequest()
	req.Email = "not-an-email"

	_, err := f.svc.Signup(context.Background(), req)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "email")
}

// ============================================================================
// LOGIN
// ============================================================================

func accountRow(t *testing.T, id int64, status string, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	return testutil.MockRows(accountColumns...).AddRow(
		id, "ASHA RAO", "9876543210", "asha@example.com", "client_admin", status, "Astrology", "both",
		"astrology", nil, nil, now, now, string(hash),
	)
}

func TestLogin(t *testing.T) {
	t.Run("active admin gets a session", func(t *testing.T) {
		f := newAuthFixture(t)
		f.db.ExpectQuery("FROM admins").
			WithArgs("9876543210", "").
			WillReturnRows(accountRow(t, 5, "active", "secret-pass"))

		admin, session, err := f.svc.Login(context.Background(), &LoginRequest{Phone: "98765-43210", Password: "secret-pass"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), admin.ID)
		require.NotNil(t, session)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.db.ExpectQuery("FROM admins").
			WithArgs("", "asha@example.com").
			WillReturnRows(accountRow(t, 5, "active", "secret-pass"))

		_, _, err := f.svc.Login(context.Background(), &LoginRequest{Email: "ASHA@example.com", Password: "nope"})
		assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newAuthFixture(t)
		f.db.ExpectQuery("FROM admins").
			WithArgs("9876543210", "").
			WillReturnRows(testutil.MockRows(accountColumns...))

		_, _, err := f.svc.Login(context.Background(), &LoginRequest{Phone: "9876543210", Password: "secret-pass"})
		assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
	})

	t.Run("inactive admin", func(t *testing.T) {
		f := newAuthFixture(t)
		f.db.ExpectQuery("FROM admins").
			WithArgs("9876543210", "").
			WillReturnRows(accountRow(t, 6, "inactive", "secret-pass"))

		_, _, err := f.svc.Login(context.Background(), &LoginRequest{Phone: "9876543210", Password: "secret-pass"})
		assert.True(t, errors.Is(err, errors.ErrInactiveAccount))
	})

	t.Run("no identifier", func(t *testing.T) {
		f := newAuthFixture(t)
		_, _, err := f.svc.Login(context.Background(), &LoginRequest{Password: "secret-pass"})
		assert.True(t, errors.Is(err, errors.ErrBadRequest))
	})
}

// ============================================================================
// SESSION RESOLUTION
// ============================================================================

func adminRowValues(id int64, status ...string) []driver.Value {
	s := "active"
	if len(status) > 0 {
		s = status[0]
	}
	now := time.Now()
	return []driver.Value{
		id, "ASHA RAO", "9876543210", nil, "client_admin", s, "Astrology", "product",
		"astrology", nil, nil, now, now,
	}
}

func adminRow(id int64, status string) *sqlmock.Rows {
	return testutil.MockRows(accountColumns[:len(accountColumns)-1]...).AddRow(adminRowValues(id, status)...)
}

func TestResolve(t *testing.T) {
	t.Run("active admin", func(t *testing.T) {
		f := newAuthFixture(t)
		token, _, err := f.jwt.Issue(&domain.Admin{ID: 9})
		require.NoError(t, err)

		f.db.ExpectQuery("FROM admins WHERE id = $1").WithArgs(int64(9)).WillReturnRows(adminRow(9, "active"))

		admin, err := f.svc.Resolve(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, int64(9), admin.ID)
		assert.Equal(t, domain.BusinessProduct, admin.BusinessType)
	})

	t.Run("missing token", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Resolve(context.Background(), "")
		assert.True(t, errors.Is(err, errors.ErrUnauthorized))
	})

	t.Run("tampered token", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Resolve(context.Background(), "abc.def.ghi")
		assert.True(t, errors.Is(err, errors.ErrUnauthorized))
	})

	t.Run("deleted admin", func(t *testing.T) {
		f := newAuthFixture(t)
		token, _, err := f.jwt.Issue(&domain.Admin{ID: 9})
		require.NoError(t, err)

		f.db.ExpectQuery("FROM admins WHERE id = $1").WithArgs(int64(9)).WillReturnRows(testutil.MockRows(accountColumns[:len(accountColumns)-1]...))

		_, err = f.svc.Resolve(context.Background(), token)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})

	t.Run("inactive admin", func(t *testing.T) {
		f := newAuthFixture(t)
		token, _, err := f.jwt.Issue(&domain.Admin{ID: 9})
		require.NoError(t, err)

		f.db.ExpectQuery("FROM admins WHERE id = $1").WithArgs(int64(9)).WillReturnRows(adminRow(9, "inactive"))

		_, err = f.svc.Resolve(context.Background(), token)
		assert.True(t, errors.Is(err, errors.ErrUnauthorized))
	})
}
