package handler

import (
	"net/http"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/internal/dashboard/service"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

// AppointmentHandler handles appointment endpoints
type AppointmentHandler struct {
	service *service.AppointmentService
	logger  *logger.Logger
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(svc *service.AppointmentService, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: svc,
		logger:  log,
	}
}

// List lists appointments
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), repository.AppointmentFilter{
		Status:     httputil.ParseStatus(q, domain.FilterAll),
		From:       httputil.ParseTime(q, "from"),
		To:         httputil.ParseTime(q, "to"),
		Search:     httputil.ParseSearch(q),
		Pagination: httputil.ParsePagination(q, httputil.DefaultLimit, httputil.MaxLimit),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.List(w, page, httputil.CacheDefault)
}

// Create books an appointment
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAppointmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	appt, err := h.service.Create(r.Context(), &req)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.Created(w, appt)
}

// Get gets an appointment
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, appt)
}

// Update updates an appointment
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var patch repository.AppointmentPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.Error(w, err)
		return
	}

	appt, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, appt)
}

// Delete deletes an appointment
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"id": id})
}
