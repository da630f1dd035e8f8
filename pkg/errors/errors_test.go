package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *errors.AppError
		status int
		target error
	}{
		{"not found", errors.NotFound("contact"), http.StatusNotFound, errors.ErrNotFound},
		{"unauthorized", errors.Unauthorized("Unauthorized"), http.StatusUnauthorized, errors.ErrUnauthorized},
		{"forbidden", errors.Forbidden("Forbidden"), http.StatusForbidden, errors.ErrForbidden},
		{"bad request", errors.BadRequest("Invalid user id"), http.StatusBadRequest, errors.ErrBadRequest},
		{"conflict", errors.Conflict("slot taken"), http.StatusConflict, errors.ErrConflict},
		{"validation", errors.Validation(map[string]string{"name": "required"}), http.StatusBadRequest, errors.ErrValidation},
		{"inactive", errors.InactiveAccount(), http.StatusForbidden, errors.ErrInactiveAccount},
		{"token expired", errors.TokenExpired(), http.StatusUnauthorized, errors.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.True(t, errors.Is(tt.err, tt.target))
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	assert.Equal(t, "appointment not found", errors.NotFound("appointment").Message)
}

func TestConflictFields(t *testing.T) {
	err := errors.ConflictFields("An account with this phone or email already exists", map[string]bool{
		"phone": true,
		"email": false,
	})

	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.True(t, err.Fields["phone"])
	assert.False(t, err.Fields["email"])
}

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update contact: %w", errors.NotFound("contact"))

	var appErr *errors.AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.True(t, stderrors.Is(wrapped, errors.ErrNotFound))
}

func TestWrap_ErrorString(t *testing.T) {
	err := errors.Wrap(stderrors.New("connection reset"), "DB_ERROR", "query failed", http.StatusInternalServerError)
	assert.Equal(t, "query failed: connection reset", err.Error())
}
