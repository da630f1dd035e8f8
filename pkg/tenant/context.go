package tenant

import (
	"context"
	"errors"
)

// contextKey is a private type for context keys to prevent collisions
type contextKey string

const scopeKey contextKey = "tenant_scope"

var (
	// ErrNoTenantInContext is returned when tenant context is missing
	ErrNoTenantInContext = errors.New("no tenant in context")
)

// WithScope adds the caller's tenant scope to the context.
// This should be called by the session middleware after resolving the admin.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey, s)
}

// FromContext extracts the tenant scope from context
// Returns ErrNoTenantInContext if no usable scope is present
func FromContext(ctx context.Context) (Scope, error) {
	s, ok := ctx.Value(scopeKey).(Scope)
	if !ok || s.IsZero() {
		return Scope{}, ErrNoTenantInContext
	}
	return s, nil
}

// MustFromContext extracts the tenant scope and panics if not found
// Use only behind the session middleware where a missing scope is a programming error
func MustFromContext(ctx context.Context) Scope {
	s, err := FromContext(ctx)
	if err != nil {
		panic("tenant scope not found in context")
	}
	return s
}
