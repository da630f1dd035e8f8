package domain

import (
	"time"

	"github.com/algoaura/dashboard-backend/pkg/actor"
)

// Tier is the admin's access level
type Tier string

const (
	TierSuperAdmin  Tier = "super_admin"
	TierClientAdmin Tier = "client_admin"
)

// Tiers lists every valid tier
var Tiers = []string{string(TierSuperAdmin), string(TierClientAdmin)}

// Status gates whether an admin may sign in
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Statuses lists every valid status
var Statuses = []string{string(StatusActive), string(StatusInactive)}

// BusinessType decides which catalog item types an admin may sell
type BusinessType string

const (
	BusinessProduct BusinessType = "product"
	BusinessService BusinessType = "service"
	BusinessBoth    BusinessType = "both"
)

// ParseBusinessType normalizes s, falling back to both
func ParseBusinessType(s string) BusinessType {
	switch bt := BusinessType(s); bt {
	case BusinessProduct, BusinessService, BusinessBoth:
		return bt
	default:
		return BusinessBoth
	}
}

// Admin is the tenant root. It never carries the password hash.
type Admin struct {
	ID                int64        `db:"id" json:"id"`
	Name              string       `db:"name" json:"name"`
	Phone             string       `db:"phone" json:"phone"`
	Email             *string      `db:"email" json:"email"`
	AdminTier         Tier         `db:"admin_tier" json:"admin_tier"`
	Status            Status       `db:"status" json:"status"`
	BusinessCategory  *string      `db:"business_category" json:"business_category"`
	BusinessType      BusinessType `db:"business_type" json:"business_type"`
	Profession        string       `db:"profession" json:"profession"`
	ProfessionRequest *string      `db:"profession_request" json:"profession_request,omitempty"`
	AccessExpiresAt   *time.Time   `db:"access_expires_at" json:"access_expires_at"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the admin may hold a session
func (a *Admin) IsActive() bool {
	return a.Status == StatusActive
}

// IsSuperAdmin reports whether the admin sees every tenant
func (a *Admin) IsSuperAdmin() bool {
	return a.AdminTier == TierSuperAdmin
}

// Actor projects the admin into the request actor
func (a *Admin) Actor() *actor.Actor {
	act := &actor.Actor{
		ID:           a.ID,
		Name:         a.Name,
		Tier:         string(a.AdminTier),
		BusinessType: string(a.BusinessType),
	}
	if a.Email != nil {
		act.Email = *a.Email
	}
	return act
}

// Account is an admin together with its credentials
type Account struct {
	Admin
	PasswordHash string `db:"password_hash" json:"-"`
}
