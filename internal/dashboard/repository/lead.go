package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
)

// Lead is a requirement captured from a contact's conversation
type Lead struct {
	ID                 int64     `db:"id" json:"id"`
	UserID             int64     `db:"user_id" json:"user_id"`
	RequirementText    string    `db:"requirement_text" json:"requirement_text"`
	Category           *string   `db:"category" json:"category"`
	ReasonOfContacting *string   `db:"reason_of_contacting" json:"reason_of_contacting"`
	Status             string    `db:"status" json:"status"`
	ContactName        *string   `db:"contact_name" json:"name"`
	ContactPhone       string    `db:"contact_phone" json:"phone"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// LeadPatch holds the lead fields a PATCH may change
type LeadPatch struct {
	Status             *string `json:"status" validate:"omitempty,lead_status"`
	Category           *string `json:"category" validate:"omitempty,max=120"`
	ReasonOfContacting *string `json:"reason_of_contacting"`
}

// LeadFilter narrows the lead list. Status "all" or "" disables the status filter.
type LeadFilter struct {
	Status    string
	Search    string
	ContactID *int64
	httputil.Pagination
}

const leadSelect = `
	SELECT l.id, l.user_id, l.requirement_text, l.category, l.reason_of_contacting,
	       l.status, c.name AS contact_name, c.phone AS contact_phone,
	       l.created_at, l.updated_at
	FROM leads l
	JOIN contacts c ON c.id = l.user_id`

// LeadRepository handles lead persistence
type LeadRepository struct {
	db *database.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *database.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// leadScope restricts leads to those whose contact the scope owns
func leadScope(scope tenant.Scope) *database.Filter {
	return database.NewFilterExpr(scope,
		"EXISTS (SELECT 1 FROM contacts oc WHERE oc.id = l.user_id AND oc.assigned_admin_id = ?)")
}

// List lists leads, newest first
func (r *LeadRepository) List(ctx context.Context, scope tenant.Scope, filter LeadFilter) ([]Lead, error) {
	f := leadScope(scope).
		WhereIf(!isAll(filter.Status), "l.status = ?", filter.Status).
		Search(filter.Search, "l.requirement_text", "l.category", "c.name", "c.phone")
	if filter.ContactID != nil {
		f.Where("l.user_id = ?", *filter.ContactID)
	}

	query, args := f.Build(leadSelect,
		`ORDER BY l.created_at DESC, l.id DESC LIMIT ? OFFSET ?`,
		filter.Probe(), filter.Offset,
	)

	leads := []Lead{}
	if err := r.db.Q(ctx).SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// GetByID gets a lead by ID
func (r *LeadRepository) GetByID(ctx context.Context, id int64, scope tenant.Scope) (*Lead, error) {
	query, args := leadScope(scope).
		Where("l.id = ?", id).
		Build(leadSelect, "")

	var l Lead
	if err := r.db.Q(ctx).GetContext(ctx, &l, query, args...); err != nil {
		return nil, database.MapError(err, "requirement")
	}
	return &l, nil
}

// Update applies a partial update
func (r *LeadRepository) Update(ctx context.Context, id int64, scope tenant.Scope, patch *LeadPatch) (*Lead, error) {
	u := database.NewUpdate("leads l")
	database.SetOptional(u, "status", patch.Status)
	database.SetOptional(u, "category", patch.Category)
	database.SetOptional(u, "reason_of_contacting", patch.ReasonOfContacting)
	if u.Empty() {
		return r.GetByID(ctx, id, scope)
	}

	query, args := u.Build(leadScope(scope).Where("l.id = ?", id), "l.id")

	result, err := r.db.Q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, database.MapError(err, "requirement")
	}
	if err := requireAffected(result, "requirement"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id, scope)
}
