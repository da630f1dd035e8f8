package handler

import (
	"net/http"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/internal/dashboard/service"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	service *service.TaskService
	logger  *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(svc *service.TaskService, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		service: svc,
		logger:  log,
	}
}

// List lists tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), repository.TaskFilter{
		Status:     httputil.ParseStatus(q, domain.FilterAll),
		Priority:   q.Get("priority"),
		Search:     httputil.ParseSearch(q),
		Pagination: httputil.ParsePagination(q, httputil.DefaultLimit, httputil.MaxLimit),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.List(w, page, httputil.CacheDefault)
}

// Create creates a task
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), &req)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.Created(w, task)
}

// Update updates a task
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "task")
	if !ok {
		return
	}

	var patch repository.TaskPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.Error(w, err)
		return
	}

	task, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, task)
}

// Delete deletes a task
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "task")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"id": id})
}
