package httputil_test

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Unauthorized(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.Error(rr, errors.Unauthorized("Unauthorized"))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, rr.Body.String())
}

func TestError_ConflictWithFields(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.Error(rr, errors.ConflictFields("taken", map[string]bool{"phone": true, "email": false}))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"taken","fields":{"phone":true,"email":false}}`, rr.Body.String())
}

func TestError_UnknownErrorIs500WithMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.Error(rr, stderrors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"pq: connection refused"}`, rr.Body.String())
}

func TestErrorLegacy(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.ErrorLegacy(rr, errors.BadRequest("Valid name, phone, password, and business category are required"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Valid name, phone, password, and business category are required"}`, rr.Body.String())
}

func TestList_EnvelopeAndCache(t *testing.T) {
	rr := httptest.NewRecorder()
	page := httputil.NewPage([]string{"a", "b", "c"}, httputil.Pagination{Limit: 2, Offset: 0})
	httputil.List(rr, page, httputil.CacheUsers)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "private, max-age=10, stale-while-revalidate=30", rr.Header().Get("Cache-Control"))
	assert.JSONEq(t,
		`{"success":true,"data":["a","b"],"meta":{"limit":2,"offset":0,"hasMore":true,"nextOffset":2}}`,
		rr.Body.String())
}

func TestList_EmptyKeepsDataArray(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.List(rr, httputil.NewPage[string](nil, httputil.Pagination{Limit: 50}), httputil.CacheCatalog)

	assert.Equal(t, "private, max-age=30, stale-while-revalidate=120", rr.Header().Get("Cache-Control"))
	assert.JSONEq(t,
		`{"success":true,"data":[],"meta":{"limit":50,"offset":0,"hasMore":false,"nextOffset":null}}`,
		rr.Body.String())
}

func TestCachePolicies(t *testing.T) {
	assert.Equal(t, "private, max-age=5, stale-while-revalidate=15", httputil.CacheMessages.Header())
	assert.Equal(t, "private, max-age=10, stale-while-revalidate=30", httputil.CacheDefault.Header())
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var body struct {
		Message string `json:"message"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi","admin_id":2}`))
	err := httputil.DecodeJSON(req, &body)
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi"}`))
	require.NoError(t, httputil.DecodeJSON(req, &body))
	assert.Equal(t, "hi", body.Message)
}
