package handler

import (
	"net/http"
	"time"

	"github.com/algoaura/dashboard-backend/pkg/config"
)

// Cookies writes and clears the session cookie
type Cookies struct {
	name   string
	secure bool
}

// NewCookies creates the session cookie writer
func NewCookies(cfg *config.SessionConfig) *Cookies {
	name := cfg.CookieName
	if name == "" {
		name = "auth_token"
	}
	return &Cookies{name: name, secure: cfg.Secure}
}

// Name returns the cookie name
func (c *Cookies) Name() string {
	return c.name
}

// Token reads the session token from the request
func (c *Cookies) Token(r *http.Request) string {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Set writes the session cookie until expiresAt
func (c *Cookies) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
