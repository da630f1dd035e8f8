// Package service applies the dashboard's business rules on top of the
// tenant-scoped repositories. Every operation reads the caller and its
// scope from the request context.
package service

import (
	"context"
	"strings"

	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
)

// caller returns the authenticated admin and its scope
func caller(ctx context.Context) (*actor.Actor, tenant.Scope, error) {
	a := actor.FromContext(ctx)
	scope, err := tenant.FromContext(ctx)
	if a == nil || err != nil {
		return nil, tenant.Scope{}, errors.Unauthorized("Unauthorized")
	}
	return a, scope, nil
}

// trimmed returns nil for nil or blank strings, otherwise the trimmed value
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
