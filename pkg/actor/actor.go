// Package actor carries the authenticated admin performing a request. The
// session middleware stores it; services read it to derive the tenant
// scope and to attribute order notes.
package actor

import (
	"context"
	"strconv"

	"github.com/algoaura/dashboard-backend/pkg/tenant"
)

// TierSuperAdmin is the admin tier that lifts tenant scoping
const TierSuperAdmin = "super_admin"

type Actor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	// Tier is super_admin or client_admin
	Tier string `json:"admin_tier"`
	// BusinessType gates which catalog item types the admin may manage
	BusinessType string `json:"business_type"`
}

func (a *Actor) IsSuperAdmin() bool {
	return a != nil && a.Tier == TierSuperAdmin
}

// Scope returns the tenant scope the actor may query. A nil actor gets
// the zero scope, which matches nothing.
func (a *Actor) Scope() tenant.Scope {
	if a == nil {
		return tenant.Scope{}
	}
	return tenant.ForAdmin(a.ID, a.IsSuperAdmin())
}

// DisplayName is the author recorded on notes: the admin's name, or
// "Admin #<id>" for accounts without one.
func (a *Actor) DisplayName() string {
	switch {
	case a == nil:
		return "System"
	case a.Name != "":
		return a.Name
	default:
		return "Admin #" + strconv.FormatInt(a.ID, 10)
	}
}

type ctxKey struct{}

// FromContext returns the actor stored by WithActor, or nil
func FromContext(ctx context.Context) *Actor {
	a, _ := ctx.Value(ctxKey{}).(*Actor)
	return a
}

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}
