package service

import (
	"context"
	"strings"
	"time"

	"github.com/algoaura/dashboard-backend/internal/auth/domain"
	"github.com/algoaura/dashboard-backend/internal/auth/events"
	"github.com/algoaura/dashboard-backend/internal/auth/jwt"
	"github.com/algoaura/dashboard-backend/internal/auth/repository"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/metrics"
	"github.com/algoaura/dashboard-backend/pkg/phone"
	"golang.org/x/crypto/bcrypt"
)

// signupLockKey serializes tier assignment across concurrent signups
const signupLockKey int64 = 0x5349474e5550

const (
	msgSignupRequired = "Valid name, phone, password, and business category are required"
	msgAccountExists  = "An account with this phone or email already exists"
)

// AuthService handles signup, login and session resolution
type AuthService struct {
	db         *database.DB
	repo       *repository.AdminRepository
	jwtManager *jwt.Manager
	phones     *phone.Validator
	events     *events.AdminEventPublisher
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	db *database.DB,
	repo *repository.AdminRepository,
	jwtManager *jwt.Manager,
	phones *phone.Validator,
	eventPublisher *events.AdminEventPublisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		db:         db,
		repo:       repo,
		jwtManager: jwtManager,
		phones:     phones,
		events:     eventPublisher,
		metrics:    m,
		logger:     log,
	}
}

// SignupRequest represents a signup request
type SignupRequest struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Password         string `json:"password"`
	Email            string `json:"email" validate:"omitempty,email,max=255"`
	BusinessCategory string `json:"business_category" validate:"max=120"`
	BusinessType     string `json:"business_type"`
}

// Session is a signed token and its expiry
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SignupResult is the outcome of a signup. Session is nil when the account
// needs activation by a super admin.
type SignupResult struct {
	Admin              *domain.Admin `json:"user"`
	RequiresActivation bool          `json:"requires_activation"`
	Session            *Session      `json:"-"`
}

// Signup registers an admin. The first admin while no super admin exists
// becomes an active super admin; every later admin waits for activation.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error) {
	account, err := s.newAccount(req)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}
	account.PasswordHash = string(hash)

	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		if err := database.LockXact(ctx, s.db.Q(ctx), signupLockKey); err != nil {
			return err
		}

		var email string
		if account.Email != nil {
			email = *account.Email
		}
		phoneTaken, emailTaken, err := s.repo.FindConflicts(ctx, account.Phone, email)
		if err != nil {
			return err
		}
		if phoneTaken || emailTaken {
			return errors.ConflictFields(msgAccountExists, map[string]bool{
				"phone": phoneTaken,
				"email": emailTaken,
			})
		}

		supers, err := s.repo.CountSuperAdmins(ctx)
		if err != nil {
			return err
		}
		if supers == 0 {
			account.AdminTier = domain.TierSuperAdmin
			account.Status = domain.StatusActive
		}

		return s.repo.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	admin := &account.Admin
	s.metrics.RecordSignup(string(admin.AdminTier))
	s.events.PublishSignedUp(ctx, admin)
	s.logger.Info().
		Int64("admin_id", admin.ID).
		Str("admin_tier", string(admin.AdminTier)).
		Msg("admin signed up")

	result := &SignupResult{Admin: admin, RequiresActivation: !admin.IsActive()}
	if admin.IsActive() {
		session, err := s.issue(admin)
		if err != nil {
			return nil, err
		}
		result.Session = session
	}
	return result, nil
}

// newAccount sanitizes a signup request into an inactive client admin
func (s *AuthService) newAccount(req *SignupRequest) (*domain.Account, error) {
	name := strings.ToUpper(strings.Join(strings.Fields(req.Name), " "))
	category := strings.TrimSpace(req.BusinessCategory)
	digits := phone.Sanitize(req.Phone)

	if name == "" || digits == "" || req.Password == "" || category == "" {
		return nil, errors.BadRequest(msgSignupRequired)
	}

	normalized, err := s.phones.Normalize(digits)
	if err != nil {
		return nil, errors.ValidationMessage("Enter a valid phone number", map[string]string{
			"phone": "must be a valid phone number",
		})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}

	account := &domain.Account{
		Admin: domain.Admin{
			Name:             name,
			Phone:            normalized,
			AdminTier:        domain.TierClientAdmin,
			Status:           domain.StatusInactive,
			BusinessCategory: &category,
			BusinessType:     domain.ParseBusinessType(strings.ToLower(strings.TrimSpace(req.BusinessType))),
		},
	}
	if req.Email != "" {
		email := req.Email
		account.Email = &email
	}
	return account, nil
}

// LoginRequest represents a login request. Either phone or email identifies the admin.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a session for an active admin
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*domain.Admin, *Session, error) {
	if err := httputil.Validate(req); err != nil {
		return nil, nil, err
	}

	digits := phone.Sanitize(req.Phone)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if digits == "" && email == "" {
		return nil, nil, errors.BadRequest("Phone or email is required")
	}

	account, err := s.repo.GetAccountByLogin(ctx, digits, email)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			s.metrics.RecordLoginAttempt("invalid")
			return nil, nil, errors.InvalidCredentials()
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordLoginAttempt("invalid")
		return nil, nil, errors.InvalidCredentials()
	}

	if !account.IsActive() {
		s.metrics.RecordLoginAttempt("inactive")
		return nil, nil, errors.InactiveAccount()
	}

	session, err := s.issue(&account.Admin)
	if err != nil {
		return nil, nil, err
	}

	s.metrics.RecordLoginAttempt("success")
	return &account.Admin, session, nil
}

// Resolve maps a session token to its active admin. A token whose admin no
// longer exists yields NotFound so callers can clear the cookie; every other
// rejection is Unauthorized.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Admin, error) {
	if token == "" {
		return nil, errors.Unauthorized("Unauthorized")
	}

	claims, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil, errors.Unauthorized("Unauthorized")
	}

	adminID, err := claims.AdminID()
	if err != nil {
		return nil, errors.Unauthorized("Unauthorized")
	}

	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("admin_id", adminID).Msg("failed to load session admin")
		return nil, errors.Unauthorized("Unauthorized")
	}

	if !admin.IsActive() {
		return nil, errors.Unauthorized("Unauthorized")
	}

	return admin, nil
}

// SessionExpiry is the lifetime of issued sessions
func (s *AuthService) SessionExpiry() time.Duration {
	return s.jwtManager.Expiry()
}

func (s *AuthService) issue(admin *domain.Admin) (*Session, error) {
	token, expiresAt, err := s.jwtManager.Issue(admin)
	if err != nil {
		s.logger.Error().Err(err).Int64("admin_id", admin.ID).Msg("failed to sign session token")
		return nil, errors.Internal("failed to create session")
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}
