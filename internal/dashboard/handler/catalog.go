package handler

import (
	"net/http"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/internal/dashboard/service"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

// CatalogHandler handles catalog endpoints
type CatalogHandler struct {
	service *service.CatalogService
	logger  *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(svc *service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  log,
	}
}

// List lists catalog items
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), repository.CatalogFilter{
		Type:       q.Get("type"),
		Status:     httputil.ParseStatus(q, domain.FilterAll),
		Search:     httputil.ParseSearch(q, "search", "q"),
		Pagination: httputil.ParsePagination(q, httputil.CatalogDefaultLimit, httputil.CatalogMaxLimit),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.List(w, page, httputil.CacheCatalog)
}

// Create creates a catalog item
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req repository.CatalogPatch
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	item, err := h.service.Create(r.Context(), &req)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.Created(w, item)
}

// Get gets a catalog item
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "catalog item")
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// Update applies a partial update to a catalog item
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "catalog item")
	if !ok {
		return
	}

	var patch repository.CatalogPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.Error(w, err)
		return
	}

	item, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// Delete deletes a catalog item
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "catalog item")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"id": id})
}

// Duplicate copies a catalog item as an inactive draft
func (h *CatalogHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "catalog item")
	if !ok {
		return
	}

	item, err := h.service.Duplicate(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.Created(w, item)
}
