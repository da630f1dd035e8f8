package httputil

import (
	"context"
	"net/http"
	"time"

	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader is accepted from the client and echoed on every response
const RequestIDHeader = "X-Request-ID"

// RequestID keeps a client supplied X-Request-ID or assigns a UUID. The id
// is stored under chi's request id key, so middleware.GetReqID and the
// event publisher see the same value.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}

// Logger writes one access log line per request. 5xx responses log at
// error level. The admin id is included once the session middleware
// further down the chain has resolved it through WithActor.
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			slot := &actorSlot{}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), actorSlotKey{}, slot)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := log.Info()
			if status >= http.StatusInternalServerError {
				event = log.Error()
			}
			if slot.actor != nil {
				event = event.Int64("admin_id", slot.actor.ID)
			}
			event.
				Str("request_id", GetRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}

// Recoverer turns a handler panic into the standard JSON 500
func Recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.WithRequestID(GetRequestID(r.Context())).Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type actorSlotKey struct{}

type actorSlot struct {
	actor *actor.Actor
}

// WithActor attaches the authenticated admin to the request context and
// makes it visible to the access log.
func WithActor(r *http.Request, a *actor.Actor) *http.Request {
	if slot, ok := r.Context().Value(actorSlotKey{}).(*actorSlot); ok {
		slot.actor = a
	}
	return r.WithContext(actor.WithActor(r.Context(), a))
}
