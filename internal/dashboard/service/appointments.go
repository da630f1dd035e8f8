package service

import (
	"context"
	"time"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/events"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/algoaura/dashboard-backend/pkg/metrics"
)

// CreateAppointmentRequest is the body of POST /api/appointments
type CreateAppointmentRequest struct {
	UserID          int64                `json:"user_id" validate:"required,gt=0"`
	Profession      *string              `json:"profession" validate:"omitempty,max=64"`
	AppointmentType *string              `json:"appointment_type" validate:"omitempty,max=120"`
	StartTime       time.Time            `json:"start_time" validate:"required"`
	EndTime         time.Time            `json:"end_time" validate:"required"`
	PaymentTotal    *domain.Amount       `json:"payment_total" validate:"omitempty,amount"`
	PaymentPaid     *domain.Amount       `json:"payment_paid" validate:"omitempty,amount"`
	PaymentMethod   *string              `json:"payment_method" validate:"omitempty,max=32"`
	PaymentCurrency *string              `json:"payment_currency" validate:"omitempty,len=3"`
	PaymentNotes    *domain.PaymentNotes `json:"payment_notes"`
}

// AppointmentService books and manages appointments
type AppointmentService struct {
	contacts     *repository.ContactRepository
	appointments *repository.AppointmentRepository
	events       *events.Publisher
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	contacts *repository.ContactRepository,
	appointments *repository.AppointmentRepository,
	eventPublisher *events.Publisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *AppointmentService {
	return &AppointmentService{
		contacts:     contacts,
		appointments: appointments,
		events:       eventPublisher,
		metrics:      m,
		logger:       log,
	}
}

func checkTimeOrder(start, end time.Time) error {
	if !start.Before(end) {
		return errors.ValidationMessage("Start time must be before end time", map[string]string{
			"end_time": "must be after start_time",
		})
	}
	return nil
}

// List returns one page of appointments
func (s *AppointmentService) List(ctx context.Context, filter repository.AppointmentFilter) (httputil.Page[repository.Appointment], error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return httputil.Page[repository.Appointment]{}, err
	}
	filter.Status = httputil.OneOf(filter.Status, domain.AppointmentStatuses, domain.FilterAll)

	rows, err := s.appointments.List(ctx, scope, filter)
	if err != nil {
		return httputil.Page[repository.Appointment]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}

// Get returns an appointment
func (s *AppointmentService) Get(ctx context.Context, id int64) (*repository.Appointment, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.appointments.GetByID(ctx, id, scope)
}

// Create books a slot for a contact the caller owns. The appointment belongs
// to the contact's admin and starts booked.
func (s *AppointmentService) Create(ctx context.Context, req *CreateAppointmentRequest) (*repository.Appointment, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}
	if err := checkTimeOrder(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetByID(ctx, req.UserID, scope)
	if err != nil {
		return nil, err
	}

	appt := &repository.Appointment{
		UserID:          contact.ID,
		AdminID:         contact.AssignedAdminID,
		Profession:      trimmed(req.Profession),
		AppointmentType: trimmed(req.AppointmentType),
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		PaymentMethod:   trimmed(req.PaymentMethod),
		ContactName:     contact.Name,
		ContactPhone:    contact.Phone,
	}
	if req.PaymentNotes != nil {
		appt.PaymentNotes = *req.PaymentNotes
	}
	appt.PaymentTotal = domain.ResolvePaymentTotal(appt.PaymentNotes, req.PaymentTotal)
	if req.PaymentPaid != nil {
		appt.PaymentPaid = *req.PaymentPaid
	}
	if req.PaymentCurrency != nil {
		appt.PaymentCurrency = *req.PaymentCurrency
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			s.metrics.RecordBookingConflict()
		}
		return nil, err
	}

	s.events.PublishAppointment(ctx, messaging.EventAppointmentBooked, appt, nil)
	return appt, nil
}

// Update changes an appointment. Structured payment notes with services
// replace the total with the services' sum.
func (s *AppointmentService) Update(ctx context.Context, id int64, patch *repository.AppointmentPatch) (*repository.Appointment, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := httputil.Validate(patch); err != nil {
		return nil, err
	}

	if patch.StartTime != nil || patch.EndTime != nil {
		start, end := patch.StartTime, patch.EndTime
		if start == nil || end == nil {
			current, err := s.appointments.GetByID(ctx, id, scope)
			if err != nil {
				return nil, err
			}
			if start == nil {
				start = &current.StartTime
			}
			if end == nil {
				end = &current.EndTime
			}
		}
		if err := checkTimeOrder(*start, *end); err != nil {
			return nil, err
		}
	}
	if patch.PaymentNotes != nil {
		patch.PaymentTotal = domain.ResolvePaymentTotal(*patch.PaymentNotes, patch.PaymentTotal)
	}

	appt, err := s.appointments.Update(ctx, id, scope, patch)
	if err != nil {
		if errors.Is(err, errors.ErrConflict) {
			s.metrics.RecordBookingConflict()
		}
		return nil, err
	}

	changes := make(map[string]any)
	if patch.Status != nil {
		changes["status"] = *patch.Status
	}
	if patch.StartTime != nil || patch.EndTime != nil {
		changes["start_time"] = appt.StartTime
		changes["end_time"] = appt.EndTime
	}
	if patch.PaymentTotal != nil || patch.PaymentPaid != nil {
		changes["payment_total"] = appt.PaymentTotal
		changes["payment_paid"] = appt.PaymentPaid
	}
	s.events.PublishAppointment(ctx, messaging.EventAppointmentUpdated, appt, changes)
	return appt, nil
}

// Delete removes an appointment
func (s *AppointmentService) Delete(ctx context.Context, id int64) error {
	_, scope, err := caller(ctx)
	if err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, id, scope); err != nil {
		return err
	}

	s.events.PublishAppointmentDeleted(ctx, id)
	return nil
}
