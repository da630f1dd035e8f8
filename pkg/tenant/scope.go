// Package tenant models which admin's rows a caller may touch.
//
// Every query against tenant-owned tables takes a Scope. A Scope is either
// bound to one admin (client admins) or lifted (super admins). The zero
// value matches nothing, so a call site that forgets to build a Scope
// returns empty results instead of another tenant's data.
package tenant

import "strconv"

type scopeKind uint8

const (
	kindNone scopeKind = iota
	kindScoped
	kindUnscoped
)

// Scope is the tenant filter threaded through the query layer
type Scope struct {
	kind    scopeKind
	adminID int64
}

// Scoped restricts queries to rows owned by adminID
func Scoped(adminID int64) Scope {
	if adminID <= 0 {
		return Scope{}
	}
	return Scope{kind: kindScoped, adminID: adminID}
}

// Unscoped lifts the tenant filter. Only super admins get one.
func Unscoped() Scope {
	return Scope{kind: kindUnscoped}
}

// ForAdmin derives the scope of an authenticated admin
func ForAdmin(adminID int64, superAdmin bool) Scope {
	if superAdmin {
		return Unscoped()
	}
	return Scoped(adminID)
}

// IsUnscoped reports whether the scope sees every tenant
func (s Scope) IsUnscoped() bool {
	return s.kind == kindUnscoped
}

// IsZero reports whether the scope was never initialised
func (s Scope) IsZero() bool {
	return s.kind == kindNone
}

// AdminID returns the owning admin for a scoped filter
func (s Scope) AdminID() (int64, bool) {
	if s.kind != kindScoped {
		return 0, false
	}
	return s.adminID, true
}

// Allows reports whether a row owned by ownerID is visible through the scope
func (s Scope) Allows(ownerID int64) bool {
	switch s.kind {
	case kindUnscoped:
		return true
	case kindScoped:
		return s.adminID == ownerID
	default:
		return false
	}
}

func (s Scope) String() string {
	switch s.kind {
	case kindUnscoped:
		return "unscoped"
	case kindScoped:
		return "admin:" + strconv.FormatInt(s.adminID, 10)
	default:
		return "none"
	}
}
