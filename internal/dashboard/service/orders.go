package service

import (
	"context"
	"strings"
	"time"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/events"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/google/uuid"
)

// CreateOrderRequest is the body of POST /api/orders
type CreateOrderRequest struct {
	OrderNumber       *string              `json:"order_number" validate:"omitempty,max=64"`
	CustomerName      *string              `json:"customer_name" validate:"omitempty,max=255"`
	CustomerPhone     *string              `json:"customer_phone" validate:"omitempty,max=32"`
	CustomerEmail     *string              `json:"customer_email" validate:"omitempty,email,max=255"`
	Channel           string               `json:"channel" validate:"max=32"`
	Status            string               `json:"status" validate:"omitempty,order_status"`
	FulfillmentStatus string               `json:"fulfillment_status" validate:"omitempty,fulfillment_status"`
	PaymentStatus     string               `json:"payment_status" validate:"omitempty,payment_status"`
	DeliveryMethod    *string              `json:"delivery_method" validate:"omitempty,max=64"`
	DeliveryAddress   *string              `json:"delivery_address"`
	Items             []domain.OrderItem   `json:"items" validate:"dive"`
	AssignedTo        *string              `json:"assigned_to" validate:"omitempty,max=255"`
	PlacedAt          *time.Time           `json:"placed_at"`
	PaymentTotal      *domain.Amount       `json:"payment_total" validate:"omitempty,amount"`
	PaymentPaid       *domain.Amount       `json:"payment_paid" validate:"omitempty,amount"`
	PaymentMethod     *string              `json:"payment_method" validate:"omitempty,max=32"`
	PaymentCurrency   *string              `json:"payment_currency" validate:"omitempty,len=3"`
	PaymentNotes      *domain.PaymentNotes `json:"payment_notes"`
}

// OrderService manages WhatsApp orders
type OrderService struct {
	orders *repository.OrderRepository
	events *events.Publisher
	logger *logger.Logger
	now    func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(orders *repository.OrderRepository, eventPublisher *events.Publisher, log *logger.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		events: eventPublisher,
		logger: log,
		now:    time.Now,
	}
}

// newOrderNumber returns a short human readable order reference
func newOrderNumber() string {
	return "WA-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// List returns one page of orders
func (s *OrderService) List(ctx context.Context, filter repository.OrderFilter) (httputil.Page[repository.Order], error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return httputil.Page[repository.Order]{}, err
	}
	filter.Status = httputil.OneOf(filter.Status, domain.OrderStatuses, domain.FilterAll)

	rows, err := s.orders.List(ctx, scope, filter)
	if err != nil {
		return httputil.Page[repository.Order]{}, err
	}
	return httputil.NewPage(rows, filter.Pagination), nil
}

// Get returns an order
func (s *OrderService) Get(ctx context.Context, id int64) (*repository.Order, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id, scope)
}

// CountNew counts the caller's orders waiting for confirmation
func (s *OrderService) CountNew(ctx context.Context) (int, error) {
	_, scope, err := caller(ctx)
	if err != nil {
		return 0, err
	}
	return s.orders.CountNew(ctx, scope)
}

// Create records an order owned by the caller. Without an explicit total the
// total comes from the payment services, then from the items.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*repository.Order, error) {
	a, _, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}

	order := &repository.Order{
		AdminID:           a.ID,
		OrderNumber:       trimmed(req.OrderNumber),
		CustomerName:      trimmed(req.CustomerName),
		CustomerPhone:     trimmed(req.CustomerPhone),
		CustomerEmail:     trimmed(req.CustomerEmail),
		Channel:           strings.TrimSpace(req.Channel),
		Status:            req.Status,
		FulfillmentStatus: req.FulfillmentStatus,
		PaymentStatus:     req.PaymentStatus,
		DeliveryMethod:    trimmed(req.DeliveryMethod),
		DeliveryAddress:   trimmed(req.DeliveryAddress),
		Items:             database.JSONList[domain.OrderItem](req.Items),
		Notes:             database.JSONList[domain.OrderNote]{},
		AssignedTo:        trimmed(req.AssignedTo),
		PaymentMethod:     trimmed(req.PaymentMethod),
	}
	if order.OrderNumber == nil {
		number := newOrderNumber()
		order.OrderNumber = &number
	}
	if req.PlacedAt != nil {
		order.PlacedAt = req.PlacedAt.UTC()
	} else {
		order.PlacedAt = s.now().UTC()
	}
	if req.PaymentNotes != nil {
		order.PaymentNotes = *req.PaymentNotes
	}
	order.PaymentTotal = domain.ResolvePaymentTotal(order.PaymentNotes, req.PaymentTotal)
	if order.PaymentTotal == nil && len(req.Items) > 0 {
		total := domain.OrderTotal(req.Items)
		order.PaymentTotal = &total
	}
	if req.PaymentPaid != nil {
		order.PaymentPaid = *req.PaymentPaid
	}
	if req.PaymentCurrency != nil {
		order.PaymentCurrency = *req.PaymentCurrency
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.events.PublishOrder(ctx, messaging.EventOrderCreated, order, nil)
	s.logger.Info().Int64("order_id", order.ID).Int64("admin_id", order.AdminID).Msg("order created")
	return order, nil
}

// Update changes an order. A note in the patch is appended with the caller
// as author. Status, payment and fulfillment are not cross-checked.
func (s *OrderService) Update(ctx context.Context, id int64, patch *repository.OrderPatch) (*repository.Order, error) {
	a, scope, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if patch.Note != nil {
		patch.Note = trimmed(patch.Note)
	}
	if err := httputil.Validate(patch); err != nil {
		return nil, err
	}
	if patch.PaymentNotes != nil {
		patch.PaymentTotal = domain.ResolvePaymentTotal(*patch.PaymentNotes, patch.PaymentTotal)
	}

	var note *domain.OrderNote
	if patch.Note != nil {
		n := domain.NewOrderNote(*patch.Note, a.DisplayName(), s.now())
		note = &n
	}

	order, err := s.orders.Update(ctx, id, scope, patch, note)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	if patch.Status != nil {
		changes["status"] = *patch.Status
	}
	if patch.PaymentStatus != nil {
		changes["payment_status"] = *patch.PaymentStatus
	}
	if patch.FulfillmentStatus != nil {
		changes["fulfillment_status"] = *patch.FulfillmentStatus
	}
	if note != nil {
		changes["note"] = note.ID
	}
	if len(changes) > 0 {
		s.events.PublishOrder(ctx, messaging.EventOrderUpdated, order, changes)
	}
	return order, nil
}
