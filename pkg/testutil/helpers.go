package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SessionCookie is the cookie name the auth middleware reads by default
const SessionCookie = "auth_token"

// NewHTTPRequest builds a handler request, JSON-encoding body when present
func NewHTTPRequest(method, path string, body interface{}) *http.Request {
	var r io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// WithCookie attaches a cookie to req and returns it
func WithCookie(req *http.Request, name, value string) *http.Request {
	req.AddCookie(&http.Cookie{Name: name, Value: value})
	return req
}

// WithSession attaches token as the session cookie
func WithSession(req *http.Request, token string) *http.Request {
	return WithCookie(req, SessionCookie, token)
}

func ExecuteRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// AssertStatus fails with the response body so mismatches are readable
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status code. Body: %s", rr.Body.String())
}

// AssertErrorBody checks status and the {"success":false,"error":...} envelope
func AssertErrorBody(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	AssertStatus(t, rr, status)

	var body struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	ParseJSONBody(t, rr, &body)
	require.NotNil(t, body.Success, "missing success flag")
	assert.False(t, *body.Success)
	assert.Equal(t, message, body.Error)
}

func ParseJSONBody(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), target), "failed to parse response body: %s", rr.Body.String())
}
