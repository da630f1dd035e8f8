package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen string
	h := httputil.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", seen)
}

func TestRecoverer_ReturnsJSON500(t *testing.T) {
	log := logger.New("test", "test")
	h := httputil.Recoverer(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal Server Error"}`, rr.Body.String())
}

func TestWithActor_VisibleDownstream(t *testing.T) {
	log := logger.New("test", "test")
	var got *actor.Actor

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = actor.FromContext(r.Context())
	})
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, httputil.WithActor(r, &actor.Actor{ID: 5, Name: "Asha"}))
		})
	}

	h := httputil.Logger(log)(auth(inner))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if assert.NotNil(t, got) {
		assert.Equal(t, int64(5), got.ID)
	}
}
