package handler

import (
	"net/http"
	"strconv"

	"github.com/algoaura/dashboard-backend/internal/auth/repository"
	"github.com/algoaura/dashboard-backend/internal/auth/service"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// AdminHandler handles admin management endpoints
type AdminHandler struct {
	service *service.AdminService
	logger  *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(svc *service.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		logger:  log,
	}
}

// List lists admins
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), repository.ListFilter{
		Search:     httputil.ParseSearch(q),
		Status:     httputil.ParseStatus(q, "all"),
		Pagination: httputil.ParsePagination(q, httputil.DefaultLimit, httputil.MaxLimit),
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.List(w, page, httputil.CacheUsers)
}

// Update changes an admin's tier, status or profession
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := adminID(w, r)
	if !ok {
		return
	}

	var patch repository.Patch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.Error(w, err)
		return
	}

	admin, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, admin)
}

// Delete deletes an admin
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := adminID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"id": id})
}

func adminID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.Error(w, errors.BadRequest("Invalid admin id"))
		return 0, false
	}
	return id, true
}
