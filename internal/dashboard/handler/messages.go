package handler

import (
	"net/http"

	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/internal/dashboard/service"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

// MessageHandler handles conversation endpoints
type MessageHandler struct {
	service *service.MessageService
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(svc *service.MessageService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: svc,
		logger:  log,
	}
}

// Thread lists a contact's messages, newest first
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	q := r.URL.Query()
	page, err := h.service.Thread(r.Context(), id, repository.ThreadFilter{
		Before:     httputil.ParseTime(q, "before"),
		Pagination: httputil.ParsePagination(q, httputil.DefaultLimit, httputil.MaxLimit),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.List(w, page, httputil.CacheMessages)
}

// Send stores an outgoing message
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	var req service.SendMessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	msg, err := h.service.Send(r.Context(), id, &req)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.Created(w, msg)
}

// Inbox lists the latest messages across contacts
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.Inbox(r.Context(), repository.InboxFilter{
		Search:     httputil.ParseSearch(q),
		Pagination: httputil.ParsePagination(q, httputil.DefaultLimit, httputil.MaxLimit),
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	httputil.List(w, page, httputil.CacheMessages)
}
