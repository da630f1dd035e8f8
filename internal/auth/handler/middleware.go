package handler

import (
	"context"
	"net/http"

	"github.com/algoaura/dashboard-backend/internal/auth/domain"
	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
)

// SessionResolver maps a session token to its admin
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Admin, error)
}

// Middleware guards the dashboard API with the session cookie
type Middleware struct {
	resolver SessionResolver
	cookies  *Cookies
	logger   *logger.Logger
}

// NewMiddleware creates the session middleware
func NewMiddleware(resolver SessionResolver, cookies *Cookies, log *logger.Logger) *Middleware {
	return &Middleware{
		resolver: resolver,
		cookies:  cookies,
		logger:   log,
	}
}

// RequireAuth rejects requests without a valid session. On success the
// admin is available as the request actor together with its tenant scope.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, err := m.resolver.Resolve(r.Context(), m.cookies.Token(r))
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				m.cookies.Clear(w)
			}
			httputil.Error(w, errors.Unauthorized("Unauthorized"))
			return
		}

		act := admin.Actor()
		r = httputil.WithActor(r, act)
		r = r.WithContext(tenant.WithScope(r.Context(), act.Scope()))

		next.ServeHTTP(w, r)
	})
}

// RequireSuperAdmin rejects client admins. It must run after RequireAuth.
func (m *Middleware) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actor.FromContext(r.Context()).IsSuperAdmin() {
			httputil.Error(w, errors.Forbidden("Forbidden"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
