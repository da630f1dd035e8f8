package handler

import (
	"net/http"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/internal/dashboard/service"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

// LeadHandler handles requirement endpoints
type LeadHandler struct {
	service *service.LeadService
	logger  *logger.Logger
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(svc *service.LeadService, log *logger.Logger) *LeadHandler {
	return &LeadHandler{
		service: svc,
		logger:  log,
	}
}

// List lists requirements
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), repository.LeadFilter{
		Status:     httputil.ParseStatus(q, domain.FilterAll),
		Search:     httputil.ParseSearch(q),
		Pagination: httputil.ParsePagination(q, httputil.DefaultLimit, httputil.MaxLimit),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.List(w, page, httputil.CacheDefault)
}

// Update updates a requirement
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "requirement")
	if !ok {
		return
	}

	var patch repository.LeadPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.Error(w, err)
		return
	}

	lead, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, lead)
}
