package service

import (
	"context"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
)

// LeadService manages captured requirements
type LeadService struct {
	leads *repository.LeadRepository
}

// NewLeadService creates a new lead service
func NewLeadService(leads *repository.LeadRepository) *LeadService {
	return &LeadService{leads: leads}
}

// List returns one page of leads. Unknown status values list everything.
func (s *LeadService) List(ctx context.Context, filter repository.LeadFilter) (httputil.Page[repository.Lead], error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return httputil.Page[repository.Lead]{}, err
	}
	filter.Status = httputil.OneOf(filter.Status, domain.LeadStatuses, domain.FilterAll)

	rows, err := s.leads.List(ctx, scope, filter)
	if err != nil {
		return httputil.Page[repository.Lead]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}

// Update changes a lead's status or classification
func (s *LeadService) Update(ctx context.Context, id int64, patch *repository.LeadPatch) (*repository.Lead, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := httputil.Validate(patch); err != nil {
		return nil, err
	}
	return s.leads.Update(ctx, id, scope, patch)
}
