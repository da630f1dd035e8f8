package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEnvironment(t *testing.T) {
	tests := map[string]string{
		"":             EnvDevelopment,
		"development":  EnvDevelopment,
		"local":        EnvDevelopment,
		"TEST":         EnvTest,
		" staging ":    EnvStaging,
		"stage":        EnvStaging,
		"Production":   EnvProduction,
		"prod":         EnvProduction,
		"preview-1234": EnvDevelopment,
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeEnvironment(in), "input %q", in)
	}
}

func TestIsProductionLike(t *testing.T) {
	assert.True(t, IsProductionLike("production"))
	assert.True(t, IsProductionLike("prod"))
	assert.True(t, IsProductionLike("staging"))
	assert.False(t, IsProductionLike("development"))
	assert.False(t, IsProductionLike("test"))
	assert.False(t, IsProductionLike(""))
}
