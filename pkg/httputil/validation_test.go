package httputil_test

import (
	"testing"

	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type colour string

func init() {
	if err := httputil.RegisterEnum("test_colour", []string{"red", "green"}); err != nil {
		panic(err)
	}
}

type paintRequest struct {
	Name   string  `json:"name" validate:"required"`
	Colour *colour `json:"colour" validate:"omitempty,test_colour"`
}

func TestValidate_JSONFieldNames(t *testing.T) {
	err := httputil.Validate(&paintRequest{})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "this field is required", appErr.Details["name"])
}

func TestRegisterEnum(t *testing.T) {
	red := colour("red")
	assert.NoError(t, httputil.Validate(&paintRequest{Name: "door", Colour: &red}))
	assert.NoError(t, httputil.Validate(&paintRequest{Name: "door"}))

	blue := colour("blue")
	err := httputil.Validate(&paintRequest{Name: "door", Colour: &blue})
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "must be one of: red, green", appErr.Details["colour"])
}
