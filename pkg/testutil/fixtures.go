package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plain password of every admin fixture
const DefaultPassword = "password123"

// AdminFixture represents test admin data
type AdminFixture struct {
	ID               int64
	Name             string
	Phone            string
	Email            *string
	PasswordHash     string
	AdminTier        string
	Status           string
	BusinessCategory string
	BusinessType     string
	Profession       string
	CreatedAt        time.Time
}

// ContactFixture represents test contact data
type ContactFixture struct {
	ID              int64
	Phone           string
	Name            *string
	Email           *string
	AssignedAdminID int64
	CreatedAt       time.Time
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Admin creates an active client admin fixture with defaults
func (f *FixtureFactory) Admin(opts ...func(*AdminFixture)) AdminFixture {
	seq := f.nextSeq()
	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	email := fmt.Sprintf("admin%d@test.dashboard.in", seq)

	admin := AdminFixture{
		Name:             fmt.Sprintf("ADMIN %d", seq),
		Phone:            fmt.Sprintf("98%08d", seq),
		Email:            &email,
		PasswordHash:     string(hash),
		AdminTier:        "client_admin",
		Status:           "active",
		BusinessCategory: "Astrology",
		BusinessType:     "both",
		Profession:       "astrology",
		CreatedAt:        time.Now(),
	}

	for _, opt := range opts {
		opt(&admin)
	}

	return admin
}

// SuperAdmin creates an active super admin fixture
func (f *FixtureFactory) SuperAdmin(opts ...func(*AdminFixture)) AdminFixture {
	return f.Admin(append([]func(*AdminFixture){WithTier("super_admin")}, opts...)...)
}

// WithTier sets the admin tier
func WithTier(tier string) func(*AdminFixture) {
	return func(a *AdminFixture) {
		a.AdminTier = tier
	}
}

// WithAdminStatus sets the admin status
func WithAdminStatus(status string) func(*AdminFixture) {
	return func(a *AdminFixture) {
		a.Status = status
	}
}

// WithBusinessType sets the admin business type
func WithBusinessType(businessType string) func(*AdminFixture) {
	return func(a *AdminFixture) {
		a.BusinessType = businessType
	}
}

// WithPassword sets the admin password (hashed)
func WithPassword(password string) func(*AdminFixture) {
	return func(a *AdminFixture) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		a.PasswordHash = string(hash)
	}
}

// Contact creates a contact fixture owned by adminID
func (f *FixtureFactory) Contact(adminID int64, opts ...func(*ContactFixture)) ContactFixture {
	seq := f.nextSeq()
	name := fmt.Sprintf("Contact %d", seq)

	contact := ContactFixture{
		Phone:           fmt.Sprintf("99%08d", seq),
		Name:            &name,
		AssignedAdminID: adminID,
		CreatedAt:       time.Now(),
	}

	for _, opt := range opts {
		opt(&contact)
	}

	return contact
}

// WithContactPhone sets the contact phone
func WithContactPhone(phone string) func(*ContactFixture) {
	return func(c *ContactFixture) {
		c.Phone = phone
	}
}

// InsertAdmin writes the fixture and fills in its generated id
func InsertAdmin(ctx context.Context, db *sqlx.DB, a *AdminFixture) error {
	err := db.QueryRowxContext(ctx, `
		INSERT INTO admins (name, phone, email, password_hash, admin_tier, status,
			business_category, business_type, profession)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		a.Name, a.Phone, a.Email, a.PasswordHash, a.AdminTier, a.Status,
		a.BusinessCategory, a.BusinessType, a.Profession,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert admin fixture: %w", err)
	}
	return nil
}

// InsertContact writes the fixture and fills in its generated id
func InsertContact(ctx context.Context, db *sqlx.DB, c *ContactFixture) error {
	err := db.QueryRowxContext(ctx, `
		INSERT INTO contacts (phone, name, email, assigned_admin_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		c.Phone, c.Name, c.Email, c.AssignedAdminID,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contact fixture: %w", err)
	}
	return nil
}
