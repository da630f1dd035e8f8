package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/algoaura/dashboard-backend/internal/auth/domain"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
)

const adminColumns = `id, name, phone, email, admin_tier, status, business_category, business_type,
	profession, profession_request, access_expires_at, created_at, updated_at`

// AdminRepository handles admin persistence
type AdminRepository struct {
	db *database.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByID gets an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	var admin domain.Admin
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	if err := r.db.Q(ctx).GetContext(ctx, &admin, query, id); err != nil {
		return nil, database.MapError(err, "admin")
	}
	return &admin, nil
}

// GetAccountByLogin gets an admin with its password hash by phone or email.
// Either value may be empty.
func (r *AdminRepository) GetAccountByLogin(ctx context.Context, phone, email string) (*domain.Account, error) {
	if phone == "" && email == "" {
		return nil, errors.NotFound("admin")
	}

	var account domain.Account
	query := `SELECT ` + adminColumns + `, password_hash FROM admins
		WHERE ($1 <> '' AND phone = $1) OR ($2 <> '' AND LOWER(email) = LOWER($2))
		ORDER BY id
		LIMIT 1`

	if err := r.db.Q(ctx).GetContext(ctx, &account, query, phone, email); err != nil {
		return nil, database.MapError(err, "admin")
	}
	return &account, nil
}

// FindConflicts reports whether phone or email is already registered
func (r *AdminRepository) FindConflicts(ctx context.Context, phone, email string) (phoneTaken, emailTaken bool, err error) {
	query := `SELECT
		EXISTS (SELECT 1 FROM admins WHERE phone = $1),
		$2 <> '' AND EXISTS (SELECT 1 FROM admins WHERE LOWER(email) = LOWER($2))`

	err = r.db.Q(ctx).QueryRowxContext(ctx, query, phone, email).Scan(&phoneTaken, &emailTaken)
	if err != nil {
		return false, false, fmt.Errorf("failed to check admin conflicts: %w", err)
	}
	return phoneTaken, emailTaken, nil
}

// CountSuperAdmins counts admins with the super_admin tier
func (r *AdminRepository) CountSuperAdmins(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM admins WHERE admin_tier = $1`

	if err := r.db.Q(ctx).GetContext(ctx, &count, query, domain.TierSuperAdmin); err != nil {
		return 0, fmt.Errorf("failed to count super admins: %w", err)
	}
	return count, nil
}

// Create creates a new admin and fills its generated fields
func (r *AdminRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO admins (name, phone, email, password_hash, admin_tier, status, business_category, business_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, profession, created_at, updated_at
	`

	err := r.db.Q(ctx).QueryRowxContext(ctx, query,
		account.Name,
		account.Phone,
		account.Email,
		account.PasswordHash,
		account.AdminTier,
		account.Status,
		account.BusinessCategory,
		account.BusinessType,
	).Scan(&account.ID, &account.Profession, &account.CreatedAt, &account.UpdatedAt)

	return database.MapError(err, "admin")
}

// ListFilter narrows the admin list
type ListFilter struct {
	Search string
	Status string
	httputil.Pagination
}

// List lists admins, newest first, probing one row past the limit
func (r *AdminRepository) List(ctx context.Context, filter ListFilter) ([]domain.Admin, error) {
	f := database.NewFilter(tenant.Unscoped(), "id").
		Search(filter.Search, "name", "phone", "email").
		WhereIf(filter.Status != "" && filter.Status != "all", "status = ?", filter.Status)

	query, args := f.Build(
		`SELECT `+adminColumns+` FROM admins`,
		`ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		filter.Probe(), filter.Offset,
	)

	admins := []domain.Admin{}
	if err := r.db.Q(ctx).SelectContext(ctx, &admins, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// Patch holds the admin fields a super admin may change
type Patch struct {
	AdminTier  *domain.Tier   `json:"admin_tier" validate:"omitempty,admin_tier"`
	Status     *domain.Status `json:"status" validate:"omitempty,admin_status"`
	Profession *string        `json:"profession" validate:"omitempty,max=64"`
}

// Update applies a partial update and returns the stored admin
func (r *AdminRepository) Update(ctx context.Context, id int64, patch *Patch) (*domain.Admin, error) {
	u := database.NewUpdate("admins")
	database.SetOptional(u, "admin_tier", patch.AdminTier)
	database.SetOptional(u, "status", patch.Status)
	if patch.Profession != nil {
		u.Set("profession", strings.ToLower(strings.TrimSpace(*patch.Profession)))
	}
	if u.Empty() {
		return r.GetByID(ctx, id)
	}

	query, args := u.Build(database.NewFilter(tenant.Unscoped(), "id").Where("id = ?", id), adminColumns)

	var admin domain.Admin
	if err := r.db.Q(ctx).GetContext(ctx, &admin, query, args...); err != nil {
		return nil, database.MapError(err, "admin")
	}
	return &admin, nil
}

// Delete deletes an admin. Everything the admin owns cascades.
func (r *AdminRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Q(ctx).ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if rows == 0 {
		return errors.NotFound("admin")
	}
	return nil
}
