package service

import (
	"context"
	"strings"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/events"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/errors"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/lib/pq"
)

// CatalogService manages an admin's products and services
type CatalogService struct {
	catalog *repository.CatalogRepository
	events  *events.Publisher
	logger  *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog *repository.CatalogRepository, eventPublisher *events.Publisher, log *logger.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		events:  eventPublisher,
		logger:  log,
	}
}

func invalidItemType() error {
	return errors.ValidationMessage("Invalid item type.", map[string]string{
		"item_type": "must be one of: service, product",
	})
}

func nameRequired() error {
	return errors.ValidationMessage("Name is required.", map[string]string{
		"name": "is required",
	})
}

// foldItemType moves the type alias into item_type and normalizes it.
// It reports false when a supplied type is not a known item type.
func foldItemType(req *repository.CatalogPatch) bool {
	if req.ItemType == nil {
		req.ItemType = req.Type
	}
	req.Type = nil
	if req.ItemType == nil {
		return true
	}
	t := domain.NormalizeItemType(*req.ItemType)
	if t == "" {
		return false
	}
	req.ItemType = &t
	return true
}

func cleanKeywords(raw []string) pq.StringArray {
	out := pq.StringArray{}
	for _, k := range raw {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// List returns one page of catalog items. Unknown type or status values list everything.
func (s *CatalogService) List(ctx context.Context, filter repository.CatalogFilter) (httputil.Page[repository.CatalogItem], error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return httputil.Page[repository.CatalogItem]{}, err
	}
	filter.Type = httputil.OneOf(domain.NormalizeItemType(filter.Type), domain.ItemTypes, domain.FilterAll)
	filter.Status = httputil.OneOf(filter.Status, domain.CatalogVisibility, domain.FilterAll)

	rows, err := s.catalog.List(ctx, scope, filter)
	if err != nil {
		return httputil.Page[repository.CatalogItem]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}

// Get returns a catalog item
func (s *CatalogService) Get(ctx context.Context, id int64) (*repository.CatalogItem, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.catalog.GetByID(ctx, id, scope)
}

// Create adds a catalog item owned by the caller. Services get their duration
// in minutes derived from value and unit; products never carry a duration and
// are never bookable.
func (s *CatalogService) Create(ctx context.Context, req *repository.CatalogPatch) (*repository.CatalogItem, error) {
	a, _, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if !foldItemType(req) || req.ItemType == nil {
		return nil, invalidItemType()
	}
	req.Name = trimmed(req.Name)
	if req.Name == nil {
		return nil, nameRequired()
	}
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}
	if err := domain.CheckItemTypeAccess(a, *req.ItemType); err != nil {
		return nil, err
	}

	item := &repository.CatalogItem{
		AdminID:       a.ID,
		ItemType:      *req.ItemType,
		Name:          *req.Name,
		Category:      trimmed(req.Category),
		Description:   trimmed(req.Description),
		PriceLabel:    trimmed(req.PriceLabel),
		QuantityValue: req.QuantityValue,
		QuantityUnit:  req.QuantityUnit,
		DetailsPrompt: trimmed(req.DetailsPrompt),
		Keywords:      pq.StringArray{},
		IsActive:      true,
	}
	if req.Keywords != nil {
		item.Keywords = cleanKeywords(*req.Keywords)
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if item.ItemType == domain.ItemService {
		item.DurationValue = req.DurationValue
		item.DurationUnit = req.DurationUnit
		item.DurationMinutes = req.DurationMinutes
		if req.DurationValue != nil && req.DurationUnit != nil {
			minutes := domain.ToMinutes(*req.DurationValue, *req.DurationUnit)
			item.DurationMinutes = &minutes
		}
		if req.IsBookable != nil {
			item.IsBookable = *req.IsBookable
		}
	}

	if err := s.catalog.Create(ctx, item); err != nil {
		return nil, err
	}

	s.events.PublishCatalogItem(ctx, messaging.EventCatalogItemCreated, item)
	return item, nil
}

// Update applies a partial update, re-deriving the duration and bookability
// rules against the item's resulting type.
func (s *CatalogService) Update(ctx context.Context, id int64, patch *repository.CatalogPatch) (*repository.CatalogItem, error) {
	a, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if !foldItemType(patch) {
		return nil, invalidItemType()
	}
	if patch.Name != nil {
		if patch.Name = trimmed(patch.Name); patch.Name == nil {
			return nil, nameRequired()
		}
	}
	if err := httputil.Validate(patch); err != nil {
		return nil, err
	}

	current, err := s.catalog.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if err := applyCatalogRules(a, current, patch); err != nil {
		return nil, err
	}
	if patch.Keywords != nil {
		cleaned := []string(cleanKeywords(*patch.Keywords))
		patch.Keywords = &cleaned
	}

	item, err := s.catalog.Update(ctx, id, scope, patch)
	if err != nil {
		return nil, err
	}

	s.events.PublishCatalogItem(ctx, messaging.EventCatalogItemUpdated, item)
	return item, nil
}

func applyCatalogRules(a *actor.Actor, current *repository.CatalogItem, patch *repository.CatalogPatch) error {
	itemType := current.ItemType
	if patch.ItemType != nil {
		itemType = *patch.ItemType
		if itemType != current.ItemType {
			if err := domain.CheckItemTypeAccess(a, itemType); err != nil {
				return err
			}
		}
	}

	if itemType == domain.ItemProduct {
		notBookable := false
		patch.ClearDuration = true
		patch.IsBookable = &notBookable
		return nil
	}

	if patch.DurationValue == nil && patch.DurationUnit == nil {
		return nil
	}
	value, unit := patch.DurationValue, patch.DurationUnit
	if value == nil {
		value = current.DurationValue
	}
	if unit == nil {
		unit = current.DurationUnit
	}
	if value != nil && unit != nil {
		minutes := domain.ToMinutes(*value, *unit)
		patch.DurationMinutes = &minutes
	}
	return nil
}

// Delete removes a catalog item
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	_, scope, err := caller(ctx)
	if err != nil {
		return err
	}
	if err := s.catalog.Delete(ctx, id, scope); err != nil {
		return err
	}

	s.events.PublishCatalogItemDeleted(ctx, id)
	return nil
}

// Duplicate copies an item. The copy starts inactive.
func (s *CatalogService) Duplicate(ctx context.Context, id int64) (*repository.CatalogItem, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.catalog.Duplicate(ctx, id, scope)
	if err != nil {
		return nil, err
	}

	s.events.PublishCatalogItem(ctx, messaging.EventCatalogItemCreated, item)
	s.logger.Info().Int64("item_id", item.ID).Int64("source_id", id).Msg("catalog item duplicated")
	return item, nil
}
