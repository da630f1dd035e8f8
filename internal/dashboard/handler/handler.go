// Package handler exposes the dashboard over HTTP. Handlers decode, call the
// service and write the envelope; every rule lives in the service layer.
package handler

import (
	"net/http"
	"strconv"

	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// pathID parses the {id} URL parameter, answering 400 when it is not a positive integer
func pathID(w http.ResponseWriter, r *http.Request, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.Error(w, errors.BadRequest("Invalid "+resource+" id"))
		return 0, false
	}
	return id, true
}

// fail writes err, logging anything that is not an expected AppError
func fail(log *logger.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode >= http.StatusInternalServerError {
		scoped := log.WithRequestID(httputil.GetRequestID(r.Context()))
		if a := actor.FromContext(r.Context()); a != nil {
			scoped = scoped.WithAdminID(a.ID)
		}
		scoped.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	httputil.Error(w, err)
}
