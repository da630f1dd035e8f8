package handler

import "github.com/go-chi/chi/v5"

// Routes mounts the public session endpoints under /api/auth
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)
}

// Routes mounts the super admin endpoints under /api/admins
func (h *AdminHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
