package domain

import (
	"strings"

	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/errors"
)

// Business types an admin may run
const (
	BusinessProduct = "product"
	BusinessService = "service"
	BusinessBoth    = "both"
)

// NormalizeBusinessType lowercases v, falling back to both for unknown values
func NormalizeBusinessType(v string) string {
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case BusinessProduct, BusinessService, BusinessBoth:
		return v
	default:
		return BusinessBoth
	}
}

// HasProductAccess reports whether a may sell products
func HasProductAccess(a *actor.Actor) bool {
	if a.IsSuperAdmin() {
		return true
	}
	bt := NormalizeBusinessType(businessType(a))
	return bt == BusinessProduct || bt == BusinessBoth
}

// HasServiceAccess reports whether a may offer services
func HasServiceAccess(a *actor.Actor) bool {
	if a.IsSuperAdmin() {
		return true
	}
	bt := NormalizeBusinessType(businessType(a))
	return bt == BusinessService || bt == BusinessBoth
}

// CheckItemTypeAccess rejects catalog item types outside the admin's business
func CheckItemTypeAccess(a *actor.Actor, itemType string) error {
	var ok bool
	switch itemType {
	case ItemProduct:
		ok = HasProductAccess(a)
	case ItemService:
		ok = HasServiceAccess(a)
	}
	if !ok {
		return errors.ValidationMessage("This item type is not available for your business", map[string]string{
			"item_type": "not available for business type " + NormalizeBusinessType(businessType(a)),
		})
	}
	return nil
}

func businessType(a *actor.Actor) string {
	if a == nil {
		return ""
	}
	return a.BusinessType
}
