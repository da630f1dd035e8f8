package service

import (
	"context"

	"github.com/algoaura/dashboard-backend/internal/auth/domain"
	"github.com/algoaura/dashboard-backend/internal/auth/events"
	"github.com/algoaura/dashboard-backend/internal/auth/repository"
	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
)

// AdminService handles admin management by super admins
type AdminService struct {
	repo   *repository.AdminRepository
	events *events.AdminEventPublisher
	logger *logger.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(repo *repository.AdminRepository, eventPublisher *events.AdminEventPublisher, log *logger.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		events: eventPublisher,
		logger: log,
	}
}

// List returns one page of admins
func (s *AdminService) List(ctx context.Context, filter repository.ListFilter) (httputil.Page[domain.Admin], error) {
	filter.Status = httputil.OneOf(filter.Status, domain.Statuses, "all")

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return httputil.Page[domain.Admin]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}

// Update changes an admin's tier, status or profession
func (s *AdminService) Update(ctx context.Context, id int64, patch *repository.Patch) (*domain.Admin, error) {
	if err := httputil.Validate(patch); err != nil {
		return nil, err
	}

	admin, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	if patch.AdminTier != nil {
		changes["admin_tier"] = *patch.AdminTier
	}
	if patch.Status != nil {
		changes["status"] = *patch.Status
	}
	if patch.Profession != nil {
		changes["profession"] = admin.Profession
	}
	if len(changes) > 0 {
		s.events.PublishUpdated(ctx, admin, changes)
	}

	return admin, nil
}

// Delete removes an admin and everything it owns. Admins cannot delete themselves.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	if a := actor.FromContext(ctx); a != nil && a.ID == id {
		return errors.BadRequest("You cannot delete your own account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.PublishDeleted(ctx, id)
	s.logger.Info().Int64("admin_id", id).Msg("admin deleted")
	return nil
}
