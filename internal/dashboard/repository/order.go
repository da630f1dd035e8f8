package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/tenant"
)

// Order is a customer order taken over WhatsApp. Status, payment and
// fulfillment move independently.
type Order struct {
	ID                int64                               `db:"id" json:"id"`
	AdminID           int64                               `db:"admin_id" json:"admin_id"`
	OrderNumber       *string                             `db:"order_number" json:"order_number"`
	CustomerName      *string                             `db:"customer_name" json:"customer_name"`
	CustomerPhone     *string                             `db:"customer_phone" json:"customer_phone"`
	CustomerEmail     *string                             `db:"customer_email" json:"customer_email"`
	Channel           string                              `db:"channel" json:"channel"`
	Status            string                              `db:"status" json:"status"`
	FulfillmentStatus string                              `db:"fulfillment_status" json:"fulfillment_status"`
	DeliveryMethod    *string                             `db:"delivery_method" json:"delivery_method"`
	DeliveryAddress   *string                             `db:"delivery_address" json:"delivery_address"`
	Items             database.JSONList[domain.OrderItem] `db:"items" json:"items"`
	Notes             database.JSONList[domain.OrderNote] `db:"notes" json:"notes"`
	AssignedTo        *string                             `db:"assigned_to" json:"assigned_to"`
	PlacedAt          time.Time                           `db:"placed_at" json:"placed_at"`
	PaymentTotal      *domain.Amount                      `db:"payment_total" json:"payment_total"`
	PaymentPaid       domain.Amount                       `db:"payment_paid" json:"payment_paid"`
	PaymentStatus     string                              `db:"payment_status" json:"payment_status"`
	PaymentMethod     *string                             `db:"payment_method" json:"payment_method"`
	PaymentCurrency   string                              `db:"payment_currency" json:"payment_currency"`
	PaymentNotes      domain.PaymentNotes                 `db:"payment_notes" json:"payment_notes"`
	CreatedAt         time.Time                           `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time                           `db:"updated_at" json:"updated_at"`
}

// OrderPatch holds the order fields a PATCH may change. Note appends an
// entry to the order's notes instead of replacing them.
type OrderPatch struct {
	CustomerName      *string              `json:"customer_name" validate:"omitempty,max=255"`
	CustomerPhone     *string              `json:"customer_phone" validate:"omitempty,max=32"`
	CustomerEmail     *string              `json:"customer_email" validate:"omitempty,email,max=255"`
	Status            *string              `json:"status" validate:"omitempty,order_status"`
	FulfillmentStatus *string              `json:"fulfillment_status" validate:"omitempty,fulfillment_status"`
	PaymentStatus     *string              `json:"payment_status" validate:"omitempty,payment_status"`
	DeliveryMethod    *string              `json:"delivery_method" validate:"omitempty,max=64"`
	DeliveryAddress   *string              `json:"delivery_address"`
	AssignedTo        *string              `json:"assigned_to" validate:"omitempty,max=255"`
	Items             *[]domain.OrderItem  `json:"items" validate:"omitempty,dive"`
	PaymentTotal      *domain.Amount       `json:"payment_total" validate:"omitempty,amount"`
	PaymentPaid       *domain.Amount       `json:"payment_paid" validate:"omitempty,amount"`
	PaymentMethod     *string              `json:"payment_method" validate:"omitempty,max=32"`
	PaymentNotes      *domain.PaymentNotes `json:"payment_notes"`
	Note              *string              `json:"note" validate:"omitempty,min=1,max=2000"`
}

// OrderFilter narrows the order list
type OrderFilter struct {
	Status string
	Search string
	httputil.Pagination
}

const orderColumns = `id, admin_id, order_number, customer_name, customer_phone, customer_email,
	channel, status, fulfillment_status, delivery_method, delivery_address, items, notes,
	assigned_to, placed_at, payment_total, payment_paid, payment_status, payment_method,
	payment_currency, payment_notes, created_at, updated_at`

// OrderRepository handles order persistence
type OrderRepository struct {
	db *database.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func orderScope(scope tenant.Scope) *database.Filter {
	return database.NewFilter(scope, "admin_id")
}

// List lists orders, most recently placed first
func (r *OrderRepository) List(ctx context.Context, scope tenant.Scope, filter OrderFilter) ([]Order, error) {
	query, args := orderScope(scope).
		WhereIf(!isAll(filter.Status), "status = ?", filter.Status).
		Search(filter.Search, "order_number", "customer_name", "customer_phone", "customer_email").
		Build(`SELECT `+orderColumns+` FROM orders`,
			`ORDER BY placed_at DESC, id DESC LIMIT ? OFFSET ?`,
			filter.Probe(), filter.Offset,
		)

	orders := []Order{}
	if err := r.db.Q(ctx).SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID gets an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id int64, scope tenant.Scope) (*Order, error) {
	query, args := orderScope(scope).
		Where("id = ?", id).
		Build(`SELECT `+orderColumns+` FROM orders`, "")

	var o Order
	if err := r.db.Q(ctx).GetContext(ctx, &o, query, args...); err != nil {
		return nil, database.MapError(err, "order")
	}
	return &o, nil
}

// CountNew counts orders still in status new
func (r *OrderRepository) CountNew(ctx context.Context, scope tenant.Scope) (int, error) {
	query, args := orderScope(scope).
		Where("status = ?", domain.OrderNew).
		Build(`SELECT COUNT(*) FROM orders`, "")

	var count int
	if err := r.db.Q(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// Create creates a new order
func (r *OrderRepository) Create(ctx context.Context, o *Order) error {
	if o.Channel == "" {
		o.Channel = "WhatsApp"
	}
	if o.Status == "" {
		o.Status = domain.OrderNew
	}
	if o.FulfillmentStatus == "" {
		o.FulfillmentStatus = domain.FulfillmentUnfulfilled
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = domain.PaymentPending
	}
	if o.PaymentPaid == "" {
		o.PaymentPaid = "0"
	}
	if o.PaymentCurrency == "" {
		o.PaymentCurrency = "INR"
	}
	if o.PlacedAt.IsZero() {
		o.PlacedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO orders (
			admin_id, order_number, customer_name, customer_phone, customer_email,
			channel, status, fulfillment_status, delivery_method, delivery_address,
			items, notes, assigned_to, placed_at,
			payment_total, payment_paid, payment_status, payment_method, payment_currency, payment_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Q(ctx).QueryRowxContext(ctx, query,
		o.AdminID, o.OrderNumber, o.CustomerName, o.CustomerPhone, o.CustomerEmail,
		o.Channel, o.Status, o.FulfillmentStatus, o.DeliveryMethod, o.DeliveryAddress,
		o.Items, o.Notes, o.AssignedTo, o.PlacedAt,
		o.PaymentTotal, o.PaymentPaid, o.PaymentStatus, o.PaymentMethod, o.PaymentCurrency, o.PaymentNotes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)

	return database.MapError(err, "order")
}

// Update applies a partial update. note, when set, is appended to the notes.
func (r *OrderRepository) Update(ctx context.Context, id int64, scope tenant.Scope, patch *OrderPatch, note *domain.OrderNote) (*Order, error) {
	u := database.NewUpdate("orders")
	database.SetOptional(u, "customer_name", patch.CustomerName)
	database.SetOptional(u, "customer_phone", patch.CustomerPhone)
	database.SetOptional(u, "customer_email", patch.CustomerEmail)
	database.SetOptional(u, "status", patch.Status)
	database.SetOptional(u, "fulfillment_status", patch.FulfillmentStatus)
	database.SetOptional(u, "payment_status", patch.PaymentStatus)
	database.SetOptional(u, "delivery_method", patch.DeliveryMethod)
	database.SetOptional(u, "delivery_address", patch.DeliveryAddress)
	database.SetOptional(u, "assigned_to", patch.AssignedTo)
	database.SetOptional(u, "payment_total", patch.PaymentTotal)
	database.SetOptional(u, "payment_paid", patch.PaymentPaid)
	database.SetOptional(u, "payment_method", patch.PaymentMethod)
	database.SetOptional(u, "payment_notes", patch.PaymentNotes)
	if patch.Items != nil {
		u.Set("items", database.JSONList[domain.OrderItem](*patch.Items))
	}
	if note != nil {
		u.SetExpr("notes", "notes || ?::jsonb", database.JSONList[domain.OrderNote]{*note})
	}
	if u.Empty() {
		return r.GetByID(ctx, id, scope)
	}

	query, args := u.Build(orderScope(scope).Where("id = ?", id), orderColumns)

	var o Order
	if err := r.db.Q(ctx).GetContext(ctx, &o, query, args...); err != nil {
		return nil, database.MapError(err, "order")
	}
	return &o, nil
}
