package jwt

import (
	stderrors "errors"
	"strconv"
	"time"

	"github.com/algoaura/dashboard-backend/internal/auth/domain"
	"github.com/algoaura/dashboard-backend/pkg/config"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the session token claims. Subject is the admin id.
type Claims struct {
	jwt.RegisteredClaims
	Name      string `json:"name"`
	AdminTier string `json:"admin_tier"`
}

// AdminID parses the subject
func (c *Claims) AdminID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.TokenInvalid()
	}
	return id, nil
}

// Manager handles JWT operations
type Manager struct {
	config *config.SessionConfig
	now    func() time.Time
}

// NewManager creates a new JWT manager
func NewManager(cfg *config.SessionConfig) *Manager {
	return &Manager{config: cfg, now: time.Now}
}

// Issue signs a session token for the admin
func (m *Manager) Issue(admin *domain.Admin) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.config.Expiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   strconv.FormatInt(admin.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Name:      admin.Name,
		AdminTier: string(admin.AdminTier),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Validate checks signature, issuer and expiry and returns the claims
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.TokenInvalid()
		}
		return []byte(m.config.Secret), nil
	},
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.TokenExpired()
		}
		return nil, errors.TokenInvalid()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.TokenInvalid()
	}

	return claims, nil
}

// Expiry returns the session lifetime
func (m *Manager) Expiry() time.Duration {
	return m.config.Expiry
}
