package handler

import (
	"net/http"

	"github.com/algoaura/dashboard-backend/internal/auth/domain"
	"github.com/algoaura/dashboard-backend/internal/auth/service"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

// AuthHandler handles the /api/auth endpoints. Their errors use the legacy
// {error, fields} body.
type AuthHandler struct {
	service *service.AuthService
	cookies *Cookies
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.AuthService, cookies *Cookies, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		cookies: cookies,
		logger:  log,
	}
}

type userResponse struct {
	User *domain.Admin `json:"user"`
}

// Signup handles admin registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLegacy(w, err)
		return
	}

	result, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		h.logFailure(r, err, "signup failed")
		httputil.ErrorLegacy(w, err)
		return
	}

	if result.Session != nil {
		h.cookies.Set(w, result.Session.Token, result.Session.ExpiresAt)
	}

	httputil.Raw(w, http.StatusOK, result)
}

// Login handles admin login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLegacy(w, err)
		return
	}

	admin, session, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.logFailure(r, err, "login failed")
		httputil.ErrorLegacy(w, err)
		return
	}

	h.cookies.Set(w, session.Token, session.ExpiresAt)
	httputil.Raw(w, http.StatusOK, userResponse{User: admin})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	httputil.Raw(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the signed-in admin
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin, err := h.service.Resolve(r.Context(), h.cookies.Token(r))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			h.cookies.Clear(w)
		}
		httputil.ErrorLegacy(w, errors.Unauthorized("Unauthorized"))
		return
	}

	httputil.Raw(w, http.StatusOK, userResponse{User: admin})
}

func (h *AuthHandler) logFailure(r *http.Request, err error, msg string) {
	var appErr *errors.AppError
	if errors.As(err, &appErr) && appErr.StatusCode < http.StatusInternalServerError {
		h.logger.Debug().Str("code", appErr.Code).Msg(msg)
		return
	}
	h.logger.Error().Err(err).Str("request_id", httputil.GetRequestID(r.Context())).Msg(msg)
}
