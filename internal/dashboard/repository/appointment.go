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

// Appointment is a booked time slot of an admin with a contact
type Appointment struct {
	ID              int64               `db:"id" json:"id"`
	UserID          int64               `db:"user_id" json:"user_id"`
	AdminID         int64               `db:"admin_id" json:"admin_id"`
	Profession      *string             `db:"profession" json:"profession"`
	AppointmentType *string             `db:"appointment_type" json:"appointment_type"`
	StartTime       time.Time           `db:"start_time" json:"start_time"`
	EndTime         time.Time           `db:"end_time" json:"end_time"`
	Status          string              `db:"status" json:"status"`
	PaymentTotal    *domain.Amount      `db:"payment_total" json:"payment_total"`
	PaymentPaid     domain.Amount       `db:"payment_paid" json:"payment_paid"`
	PaymentMethod   *string             `db:"payment_method" json:"payment_method"`
	PaymentCurrency string              `db:"payment_currency" json:"payment_currency"`
	PaymentNotes    domain.PaymentNotes `db:"payment_notes" json:"payment_notes"`
	ContactName     *string             `db:"contact_name" json:"user_name"`
	ContactPhone    string              `db:"contact_phone" json:"user_phone"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`
}

// AppointmentPatch holds the appointment fields a PATCH may change
type AppointmentPatch struct {
	Profession      *string              `json:"profession" validate:"omitempty,max=64"`
	AppointmentType *string              `json:"appointment_type" validate:"omitempty,max=120"`
	StartTime       *time.Time           `json:"start_time"`
	EndTime         *time.Time           `json:"end_time"`
	Status          *string              `json:"status" validate:"omitempty,appointment_status"`
	PaymentTotal    *domain.Amount       `json:"payment_total" validate:"omitempty,amount"`
	PaymentPaid     *domain.Amount       `json:"payment_paid" validate:"omitempty,amount"`
	PaymentMethod   *string              `json:"payment_method" validate:"omitempty,max=32"`
	PaymentCurrency *string              `json:"payment_currency" validate:"omitempty,len=3"`
	PaymentNotes    *domain.PaymentNotes `json:"payment_notes"`
}

// AppointmentFilter narrows the appointment list
type AppointmentFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Search string
	httputil.Pagination
}

const appointmentSelect = `
	SELECT a.id, a.user_id, a.admin_id, a.profession, a.appointment_type,
	       a.start_time, a.end_time, a.status,
	       a.payment_total, a.payment_paid, a.payment_method, a.payment_currency, a.payment_notes,
	       c.name AS contact_name, c.phone AS contact_phone,
	       a.created_at, a.updated_at
	FROM appointments a
	JOIN contacts c ON c.id = a.user_id`

// AppointmentRepository handles appointment persistence
type AppointmentRepository struct {
	db *database.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *database.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func appointmentScope(scope tenant.Scope) *database.Filter {
	return database.NewFilter(scope, "a.admin_id")
}

// List lists appointments, latest start first
func (r *AppointmentRepository) List(ctx context.Context, scope tenant.Scope, filter AppointmentFilter) ([]Appointment, error) {
	f := appointmentScope(scope).
		WhereIf(!isAll(filter.Status), "a.status = ?", filter.Status).
		Search(filter.Search, "c.name", "c.phone", "a.appointment_type", "a.profession")
	if filter.From != nil {
		f.Where("a.start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		f.Where("a.start_time <= ?", *filter.To)
	}

	query, args := f.Build(appointmentSelect,
		`ORDER BY a.start_time DESC, a.id DESC LIMIT ? OFFSET ?`,
		filter.Probe(), filter.Offset,
	)

	appointments := []Appointment{}
	if err := r.db.Q(ctx).SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// GetByID gets an appointment by ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64, scope tenant.Scope) (*Appointment, error) {
	query, args := appointmentScope(scope).
		Where("a.id = ?", id).
		Build(appointmentSelect, "")

	var a Appointment
	if err := r.db.Q(ctx).GetContext(ctx, &a, query, args...); err != nil {
		return nil, database.MapError(err, "appointment")
	}
	return &a, nil
}

// Create books an appointment. A taken (admin_id, start_time) slot is a Conflict.
func (r *AppointmentRepository) Create(ctx context.Context, a *Appointment) error {
	a.Status = domain.AppointmentBooked
	if a.PaymentPaid == "" {
		a.PaymentPaid = "0"
	}
	if a.PaymentCurrency == "" {
		a.PaymentCurrency = "INR"
	}

	query := `
		INSERT INTO appointments (
			user_id, admin_id, profession, appointment_type, start_time, end_time, status,
			payment_total, payment_paid, payment_method, payment_currency, payment_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Q(ctx).QueryRowxContext(ctx, query,
		a.UserID, a.AdminID, a.Profession, a.AppointmentType, a.StartTime, a.EndTime, a.Status,
		a.PaymentTotal, a.PaymentPaid, a.PaymentMethod, a.PaymentCurrency, a.PaymentNotes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	return database.MapError(err, "appointment")
}

// Update applies a partial update
func (r *AppointmentRepository) Update(ctx context.Context, id int64, scope tenant.Scope, patch *AppointmentPatch) (*Appointment, error) {
	u := database.NewUpdate("appointments a")
	database.SetOptional(u, "profession", patch.Profession)
	database.SetOptional(u, "appointment_type", patch.AppointmentType)
	database.SetOptional(u, "start_time", patch.StartTime)
	database.SetOptional(u, "end_time", patch.EndTime)
	database.SetOptional(u, "status", patch.Status)
	database.SetOptional(u, "payment_total", patch.PaymentTotal)
	database.SetOptional(u, "payment_paid", patch.PaymentPaid)
	database.SetOptional(u, "payment_method", patch.PaymentMethod)
	database.SetOptional(u, "payment_currency", patch.PaymentCurrency)
	database.SetOptional(u, "payment_notes", patch.PaymentNotes)
	if u.Empty() {
		return r.GetByID(ctx, id, scope)
	}

	query, args := u.Build(appointmentScope(scope).Where("a.id = ?", id), "a.id")

	result, err := r.db.Q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, database.MapError(err, "appointment")
	}
	if err := requireAffected(result, "appointment"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id, scope)
}

// Delete deletes an appointment
func (r *AppointmentRepository) Delete(ctx context.Context, id int64, scope tenant.Scope) error {
	query, args := appointmentScope(scope).
		Where("a.id = ?", id).
		Build(`DELETE FROM appointments a`, "")

	result, err := r.db.Q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return requireAffected(result, "appointment")
}
