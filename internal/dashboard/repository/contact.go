package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
)

// Contact is a WhatsApp customer owned by one admin
type Contact struct {
	ID                 int64     `db:"id" json:"id"`
	Phone              string    `db:"phone" json:"phone"`
	Name               *string   `db:"name" json:"name"`
	Email              *string   `db:"email" json:"email"`
	AssignedAdminID    int64     `db:"assigned_admin_id" json:"assigned_admin_id"`
	AutomationDisabled bool      `db:"automation_disabled" json:"automation_disabled"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// ContactPatch holds the contact fields a PATCH may change
type ContactPatch struct {
	Name               *string `json:"name" validate:"omitempty,max=255"`
	Email              *string `json:"email" validate:"omitempty,email,max=255"`
	AutomationDisabled *bool   `json:"automation_disabled"`
	AssignedAdminID    *int64  `json:"assigned_admin_id" validate:"omitempty,gt=0"`
}

// ContactFilter narrows the contact list
type ContactFilter struct {
	Search string
	httputil.Pagination
}

const contactColumns = `id, phone, name, email, assigned_admin_id, automation_disabled, created_at, updated_at`

// ContactRepository handles contact persistence
type ContactRepository struct {
	db *database.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *database.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func contactScope(scope tenant.Scope) *database.Filter {
	return database.NewFilter(scope, "assigned_admin_id")
}

// List lists contacts, newest first
func (r *ContactRepository) List(ctx context.Context, scope tenant.Scope, filter ContactFilter) ([]Contact, error) {
	query, args := contactScope(scope).
		Search(filter.Search, "name", "phone", "email").
		Build(
			`SELECT `+contactColumns+` FROM contacts`,
			`ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
			filter.Probe(), filter.Offset,
		)

	contacts := []Contact{}
	if err := r.db.Q(ctx).SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// GetByID gets a contact by ID
func (r *ContactRepository) GetByID(ctx context.Context, id int64, scope tenant.Scope) (*Contact, error) {
	query, args := contactScope(scope).
		Where("id = ?", id).
		Build(`SELECT `+contactColumns+` FROM contacts`, "")

	var c Contact
	if err := r.db.Q(ctx).GetContext(ctx, &c, query, args...); err != nil {
		return nil, database.MapError(err, "contact")
	}
	return &c, nil
}

// Create creates a new contact
func (r *ContactRepository) Create(ctx context.Context, c *Contact) error {
	query := `
		INSERT INTO contacts (phone, name, email, assigned_admin_id, automation_disabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Q(ctx).QueryRowxContext(ctx, query,
		c.Phone, c.Name, c.Email, c.AssignedAdminID, c.AutomationDisabled,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return database.MapError(err, "contact")
}

// Upsert returns the contact with phone, creating it under adminID when it
// does not exist. An existing contact keeps its owner and gains a name only
// when it had none.
func (r *ContactRepository) Upsert(ctx context.Context, adminID int64, phone string, name *string) (*Contact, error) {
	query := `
		INSERT INTO contacts (phone, name, assigned_admin_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone) DO UPDATE
			SET name = COALESCE(contacts.name, EXCLUDED.name)
		RETURNING ` + contactColumns

	var c Contact
	if err := r.db.Q(ctx).GetContext(ctx, &c, query, phone, name, adminID); err != nil {
		return nil, database.MapError(err, "contact")
	}
	return &c, nil
}

// Update applies a partial update
func (r *ContactRepository) Update(ctx context.Context, id int64, scope tenant.Scope, patch *ContactPatch) (*Contact, error) {
	u := database.NewUpdate("contacts")
	database.SetOptional(u, "name", patch.Name)
	database.SetOptional(u, "email", patch.Email)
	database.SetOptional(u, "automation_disabled", patch.AutomationDisabled)
	database.SetOptional(u, "assigned_admin_id", patch.AssignedAdminID)
	if u.Empty() {
		return r.GetByID(ctx, id, scope)
	}

	query, args := u.Build(contactScope(scope).Where("id = ?", id), contactColumns)

	var c Contact
	if err := r.db.Q(ctx).GetContext(ctx, &c, query, args...); err != nil {
		return nil, database.MapError(err, "contact")
	}
	return &c, nil
}

// Delete deletes a contact with its messages, leads, tasks and appointments
func (r *ContactRepository) Delete(ctx context.Context, id int64, scope tenant.Scope) error {
	query, args := contactScope(scope).
		Where("id = ?", id).
		Build(`DELETE FROM contacts`, "")

	result, err := r.db.Q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return requireAffected(result, "contact")
}
