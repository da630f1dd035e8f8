package service

import (
	"context"
	"strings"

	"github.com/algoaura/dashboard-backend/internal/dashboard/events"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/phone"
)

// CreateContactRequest is the body of POST /api/users
type CreateContactRequest struct {
	Phone           string  `json:"phone" validate:"required,max=32"`
	Name            *string `json:"name" validate:"omitempty,max=255"`
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	AssignedAdminID *int64  `json:"assigned_admin_id" validate:"omitempty,gt=0"`
}

// ContactService manages an admin's contacts
type ContactService struct {
	contacts *repository.ContactRepository
	leads    *repository.LeadRepository
	phones   *phone.Validator
	events   *events.Publisher
	logger   *logger.Logger
}

// NewContactService creates a new contact service
func NewContactService(
	contacts *repository.ContactRepository,
	leads *repository.LeadRepository,
	phones *phone.Validator,
	eventPublisher *events.Publisher,
	log *logger.Logger,
) *ContactService {
	return &ContactService{
		contacts: contacts,
		leads:    leads,
		phones:   phones,
		events:   eventPublisher,
		logger:   log,
	}
}

// List returns one page of the caller's contacts
func (s *ContactService) List(ctx context.Context, filter repository.ContactFilter) (httputil.Page[repository.Contact], error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return httputil.Page[repository.Contact]{}, err
	}

	rows, err := s.contacts.List(ctx, scope, filter)
	if err != nil {
		return httputil.Page[repository.Contact]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}

// Get returns a contact the caller owns
func (s *ContactService) Get(ctx context.Context, id int64) (*repository.Contact, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.contacts.GetByID(ctx, id, scope)
}

// Create adds a contact owned by the caller. Super admins may assign it to another admin.
func (s *ContactService) Create(ctx context.Context, req *CreateContactRequest) (*repository.Contact, error) {
	a, _, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	req.Phone = phone.Sanitize(req.Phone)
	if req.Email != nil {
		lower := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &lower
	}
	req.Email = trimmed(req.Email)
	req.Name = trimmed(req.Name)
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.phones.Normalize(req.Phone); err != nil {
		return nil, errors.ValidationMessage("Invalid phone number", map[string]string{"phone": err.Error()})
	}

	owner := a.ID
	if req.AssignedAdminID != nil {
		if !a.IsSuperAdmin() {
			return nil, errors.Forbidden("Forbidden")
		}
		owner = *req.AssignedAdminID
	}

	contact := &repository.Contact{
		Phone:           req.Phone,
		Name:            req.Name,
		Email:           req.Email,
		AssignedAdminID: owner,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}

	s.events.PublishContactCreated(ctx, contact)
	s.logger.Info().Int64("contact_id", contact.ID).Int64("admin_id", owner).Msg("contact created")
	return contact, nil
}

// Update changes a contact the caller owns. Only super admins may reassign it.
func (s *ContactService) Update(ctx context.Context, id int64, patch *repository.ContactPatch) (*repository.Contact, error) {
	a, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := httputil.Validate(patch); err != nil {
		return nil, err
	}
	if patch.AssignedAdminID != nil && !a.IsSuperAdmin() {
		return nil, errors.Forbidden("Forbidden")
	}

	contact, err := s.contacts.Update(ctx, id, scope, patch)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	if patch.Name != nil {
		changes["name"] = *patch.Name
	}
	if patch.Email != nil {
		changes["email"] = *patch.Email
	}
	if patch.AutomationDisabled != nil {
		changes["automation_disabled"] = *patch.AutomationDisabled
	}
	if patch.AssignedAdminID != nil {
		changes["assigned_admin_id"] = *patch.AssignedAdminID
	}
	if len(changes) > 0 {
		s.events.PublishContactUpdated(ctx, contact, changes)
	}
	return contact, nil
}

// Delete removes a contact with its history
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	_, scope, err := caller(ctx)
	if err != nil {
		return err
	}
	if err := s.contacts.Delete(ctx, id, scope); err != nil {
		return err
	}

	s.events.PublishContactDeleted(ctx, id)
	return nil
}

// Requirements lists the leads captured for one contact
func (s *ContactService) Requirements(ctx context.Context, id int64, filter repository.LeadFilter) (httputil.Page[repository.Lead], error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return httputil.Page[repository.Lead]{}, err
	}
	if _, err := s.contacts.GetByID(ctx, id, scope); err != nil {
		return httputil.Page[repository.Lead]{}, err
	}

	filter.ContactID = &id
	rows, err := s.leads.List(ctx, scope, filter)
	if err != nil {
		return httputil.Page[repository.Lead]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}
