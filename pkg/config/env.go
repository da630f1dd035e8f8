package config

import "strings"

// Deployment environments
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// NormalizeEnvironment maps env onto one of the known environments.
// Short forms are accepted; anything unrecognised is development.
func NormalizeEnvironment(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", EnvProduction:
		return EnvProduction
	case "stage", EnvStaging:
		return EnvStaging
	case EnvTest:
		return EnvTest
	default:
		return EnvDevelopment
	}
}

// IsProductionLike reports whether env requires explicit secrets and
// non-local infrastructure
func IsProductionLike(env string) bool {
	switch NormalizeEnvironment(env) {
	case EnvStaging, EnvProduction:
		return true
	default:
		return false
	}
}
