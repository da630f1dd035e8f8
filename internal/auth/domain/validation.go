package domain

import "github.com/algoaura/dashboard-backend/pkg/httputil"

func init() {
	httputil.RegisterEnum("admin_tier", Tiers)
	httputil.RegisterEnum("admin_status", Statuses)
}
