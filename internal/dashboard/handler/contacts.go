package handler

import (
	"net/http"

	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/internal/dashboard/service"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

// ContactHandler handles contact endpoints under /api/users
type ContactHandler struct {
	service *service.ContactService
	logger  *logger.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(svc *service.ContactService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  log,
	}
}

// List lists contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), repository.ContactFilter{
		Search:     httputil.ParseSearch(q),
		Pagination: httputil.ParsePagination(q, httputil.DefaultLimit, httputil.MaxLimit),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.List(w, page, httputil.CacheUsers)
}

// Create creates a contact
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateContactRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	contact, err := h.service.Create(r.Context(), &req)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.Created(w, contact)
}

// Get gets a contact
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	contact, err := h.service.Get(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, contact)
}

// Update updates a contact
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	var patch repository.ContactPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.Error(w, err)
		return
	}

	contact, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, contact)
}

// Delete deletes a contact
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"id": id})
}

// Requirements lists the leads of a contact
func (h *ContactHandler) Requirements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	q := r.URL.Query()
	page, err := h.service.Requirements(r.Context(), id, repository.LeadFilter{
		Pagination: httputil.ParsePagination(q, httputil.DefaultLimit, httputil.MaxLimit),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.List(w, page, httputil.CacheDefault)
}
