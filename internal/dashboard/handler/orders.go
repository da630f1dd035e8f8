package handler

import (
	"net/http"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/internal/dashboard/service"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	service *service.OrderService
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(svc *service.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  log,
	}
}

// List lists orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), repository.OrderFilter{
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

// Count returns the number of new orders
func (h *OrderHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountNew(r.Context())
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.Raw(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   count,
	})
}

// Create creates an order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.Created(w, order)
}

// Get gets an order
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order")
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, order)
}

// Update updates an order or appends a note to it
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "order")
	if !ok {
		return
	}

	var patch repository.OrderPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.Error(w, err)
		return
	}

	order, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, order)
}
