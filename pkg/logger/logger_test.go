package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestLogger_ScopedFields(t *testing.T) {
	t.Setenv(LevelEnv, "")
	var buf bytes.Buffer
	log := NewWithWriter("dashboard-api", "production", &buf)

	log.WithRequestID("req-1").WithAdminID(7).WithComponent("orders").Info().Msg("order updated")

	line := decodeLine(t, &buf)
	assert.Equal(t, "dashboard-api", line["service"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, float64(7), line["admin_id"])
	assert.Equal(t, "orders", line["component"])
	assert.Equal(t, "order updated", line["message"])
}

func TestLogger_EmptyScopeValuesAreOmitted(t *testing.T) {
	t.Setenv(LevelEnv, "")
	var buf bytes.Buffer
	log := NewWithWriter("dashboard-api", "production", &buf)

	log.WithRequestID("").WithAdminID(0).WithCorrelationID("").Info().Msg("startup")

	line := decodeLine(t, &buf)
	assert.NotContains(t, line, "request_id")
	assert.NotContains(t, line, "admin_id")
	assert.NotContains(t, line, "correlation_id")
}

func TestLogger_Levels(t *testing.T) {
	t.Run("production drops debug", func(t *testing.T) {
		t.Setenv(LevelEnv, "")
		var buf bytes.Buffer
		NewWithWriter("svc", "production", &buf).Debug().Msg("noise")
		assert.Zero(t, buf.Len())
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv(LevelEnv, "warn")
		var buf bytes.Buffer
		log := NewWithWriter("svc", "production", &buf)
		log.Info().Msg("skipped")
		assert.Zero(t, buf.Len())
		log.Warn().Msg("kept")
		assert.Equal(t, "warn", decodeLine(t, &buf)["level"])
	})
}
