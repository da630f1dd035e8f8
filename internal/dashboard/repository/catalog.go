package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
	"github.com/lib/pq"
)

// CatalogItem is a product or service an admin offers
type CatalogItem struct {
	ID              int64          `db:"id" json:"id"`
	AdminID         int64          `db:"admin_id" json:"admin_id"`
	ItemType        string         `db:"item_type" json:"item_type"`
	Name            string         `db:"name" json:"name"`
	Category        *string        `db:"category" json:"category"`
	Description     *string        `db:"description" json:"description"`
	PriceLabel      *string        `db:"price_label" json:"price_label"`
	DurationValue   *int           `db:"duration_value" json:"duration_value"`
	DurationUnit    *string        `db:"duration_unit" json:"duration_unit"`
	DurationMinutes *int           `db:"duration_minutes" json:"duration_minutes"`
	QuantityValue   *float64       `db:"quantity_value" json:"quantity_value"`
	QuantityUnit    *string        `db:"quantity_unit" json:"quantity_unit"`
	DetailsPrompt   *string        `db:"details_prompt" json:"details_prompt"`
	Keywords        pq.StringArray `db:"keywords" json:"keywords"`
	IsActive        bool           `db:"is_active" json:"is_active"`
	SortOrder       int            `db:"sort_order" json:"sort_order"`
	IsBookable      bool           `db:"is_bookable" json:"is_bookable"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// CatalogPatch holds the catalog fields a PUT may change. Type is accepted
// as an alias of ItemType.
type CatalogPatch struct {
	ItemType        *string   `json:"item_type" validate:"omitempty,item_type"`
	Type            *string   `json:"type"`
	Name            *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Category        *string   `json:"category" validate:"omitempty,max=120"`
	Description     *string   `json:"description"`
	PriceLabel      *string   `json:"price_label" validate:"omitempty,max=120"`
	DurationValue   *int      `json:"duration_value" validate:"omitempty,gte=0"`
	DurationUnit    *string   `json:"duration_unit" validate:"omitempty,duration_unit"`
	DurationMinutes *int      `json:"duration_minutes" validate:"omitempty,gte=0"`
	QuantityValue   *float64  `json:"quantity_value" validate:"omitempty,gte=0"`
	QuantityUnit    *string   `json:"quantity_unit" validate:"omitempty,quantity_unit"`
	DetailsPrompt   *string   `json:"details_prompt"`
	Keywords        *[]string `json:"keywords" validate:"omitempty,dive,max=64"`
	IsActive        *bool     `json:"is_active"`
	SortOrder       *int      `json:"sort_order"`
	IsBookable      *bool     `json:"is_bookable"`

	// ClearDuration nulls the duration columns, used when an item becomes a product
	ClearDuration bool `json:"-"`
}

// CatalogFilter narrows the catalog list
type CatalogFilter struct {
	Type   string
	Status string
	Search string
	httputil.Pagination
}

const catalogColumns = `id, admin_id, item_type, name, category, description, price_label,
	duration_value, duration_unit, duration_minutes, quantity_value, quantity_unit,
	details_prompt, keywords, is_active, sort_order, is_bookable, created_at, updated_at`

// CatalogRepository handles catalog item persistence
type CatalogRepository struct {
	db *database.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func catalogScope(scope tenant.Scope) *database.Filter {
	return database.NewFilter(scope, "admin_id")
}

// List lists catalog items in display order
func (r *CatalogRepository) List(ctx context.Context, scope tenant.Scope, filter CatalogFilter) ([]CatalogItem, error) {
	f := catalogScope(scope).
		WhereIf(!isAll(filter.Type), "item_type = ?", filter.Type).
		Search(filter.Search, "name", "category", "description", "price_label", "array_to_string(keywords, ' ')")
	switch filter.Status {
	case domain.CatalogActive:
		f.Where("is_active = TRUE")
	case domain.CatalogInactive:
		f.Where("is_active = FALSE")
	}

	query, args := f.Build(`SELECT `+catalogColumns+` FROM catalog_items`,
		`ORDER BY sort_order ASC, name ASC, id ASC LIMIT ? OFFSET ?`,
		filter.Probe(), filter.Offset,
	)

	items := []CatalogItem{}
	if err := r.db.Q(ctx).SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	return items, nil
}

// GetByID gets a catalog item by ID
func (r *CatalogRepository) GetByID(ctx context.Context, id int64, scope tenant.Scope) (*CatalogItem, error) {
	query, args := catalogScope(scope).
		Where("id = ?", id).
		Build(`SELECT `+catalogColumns+` FROM catalog_items`, "")

	var item CatalogItem
	if err := r.db.Q(ctx).GetContext(ctx, &item, query, args...); err != nil {
		return nil, database.MapError(err, "catalog item")
	}
	return &item, nil
}

// Create creates a new catalog item
func (r *CatalogRepository) Create(ctx context.Context, item *CatalogItem) error {
	if item.Keywords == nil {
		item.Keywords = pq.StringArray{}
	}

	query := `
		INSERT INTO catalog_items (
			admin_id, item_type, name, category, description, price_label,
			duration_value, duration_unit, duration_minutes, quantity_value, quantity_unit,
			details_prompt, keywords, is_active, sort_order, is_bookable
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Q(ctx).QueryRowxContext(ctx, query,
		item.AdminID, item.ItemType, item.Name, item.Category, item.Description, item.PriceLabel,
		item.DurationValue, item.DurationUnit, item.DurationMinutes, item.QuantityValue, item.QuantityUnit,
		item.DetailsPrompt, item.Keywords, item.IsActive, item.SortOrder, item.IsBookable,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	return database.MapError(err, "catalog item")
}

// Update applies a partial update
func (r *CatalogRepository) Update(ctx context.Context, id int64, scope tenant.Scope, patch *CatalogPatch) (*CatalogItem, error) {
	u := database.NewUpdate("catalog_items")
	database.SetOptional(u, "item_type", patch.ItemType)
	database.SetOptional(u, "name", patch.Name)
	database.SetOptional(u, "category", patch.Category)
	database.SetOptional(u, "description", patch.Description)
	database.SetOptional(u, "price_label", patch.PriceLabel)
	if patch.ClearDuration {
		u.Set("duration_value", nil).Set("duration_unit", nil).Set("duration_minutes", nil)
	} else {
		database.SetOptional(u, "duration_value", patch.DurationValue)
		database.SetOptional(u, "duration_unit", patch.DurationUnit)
		database.SetOptional(u, "duration_minutes", patch.DurationMinutes)
	}
	database.SetOptional(u, "quantity_value", patch.QuantityValue)
	database.SetOptional(u, "quantity_unit", patch.QuantityUnit)
	database.SetOptional(u, "details_prompt", patch.DetailsPrompt)
	if patch.Keywords != nil {
		u.Set("keywords", pq.StringArray(*patch.Keywords))
	}
	database.SetOptional(u, "is_active", patch.IsActive)
	database.SetOptional(u, "sort_order", patch.SortOrder)
	database.SetOptional(u, "is_bookable", patch.IsBookable)
	if u.Empty() {
		return r.GetByID(ctx, id, scope)
	}

	query, args := u.Build(catalogScope(scope).Where("id = ?", id), catalogColumns)

	var item CatalogItem
	if err := r.db.Q(ctx).GetContext(ctx, &item, query, args...); err != nil {
		return nil, database.MapError(err, "catalog item")
	}
	return &item, nil
}

// Delete deletes a catalog item
func (r *CatalogRepository) Delete(ctx context.Context, id int64, scope tenant.Scope) error {
	query, args := catalogScope(scope).
		Where("id = ?", id).
		Build(`DELETE FROM catalog_items`, "")

	result, err := r.db.Q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}
	return requireAffected(result, "catalog item")
}

// Duplicate copies an item the scope owns. The copy is always inactive and
// named "<name> (Copy)".
func (r *CatalogRepository) Duplicate(ctx context.Context, id int64, scope tenant.Scope) (*CatalogItem, error) {
	query, args := catalogScope(scope).
		Where("id = ?", id).
		Build(`
			INSERT INTO catalog_items (
				admin_id, item_type, name, category, description, price_label,
				duration_value, duration_unit, duration_minutes, quantity_value, quantity_unit,
				details_prompt, keywords, is_active, sort_order, is_bookable
			)
			SELECT admin_id, item_type, name || ' (Copy)', category, description, price_label,
				duration_value, duration_unit, duration_minutes, quantity_value, quantity_unit,
				details_prompt, keywords, FALSE, sort_order, is_bookable
			FROM catalog_items`,
			`RETURNING `+catalogColumns,
		)

	var item CatalogItem
	if err := r.db.Q(ctx).GetContext(ctx, &item, query, args...); err != nil {
		return nil, database.MapError(err, "catalog item")
	}
	return &item, nil
}
