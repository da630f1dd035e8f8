// Package events publishes the dashboard's domain events. Publishing never
// fails a request: errors are logged and counted.
package events

import (
	"context"

	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/actor"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/algoaura/dashboard-backend/pkg/metrics"
)

// Publisher publishes dashboard entity events
type Publisher struct {
	publisher messaging.EventPublisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewPublisher creates a new dashboard event publisher
func NewPublisher(publisher messaging.EventPublisher, m *metrics.Metrics, log *logger.Logger) *Publisher {
	return &Publisher{
		publisher: publisher,
		metrics:   m,
		logger:    log,
	}
}

// PublishContactCreated publishes a contact created event
func (p *Publisher) PublishContactCreated(ctx context.Context, c *repository.Contact) {
	p.publish(ctx, messaging.EventContactCreated, c.AssignedAdminID, messaging.ContactEvent{
		ContactID: c.ID,
		AdminID:   c.AssignedAdminID,
		Phone:     c.Phone,
		ActorID:   actorID(ctx),
	})
}

// PublishContactUpdated publishes a contact updated event with the changed fields
func (p *Publisher) PublishContactUpdated(ctx context.Context, c *repository.Contact, changes map[string]any) {
	p.publish(ctx, messaging.EventContactUpdated, c.AssignedAdminID, messaging.ContactEvent{
		ContactID: c.ID,
		AdminID:   c.AssignedAdminID,
		Fields:    changes,
		ActorID:   actorID(ctx),
	})
}

// PublishContactDeleted publishes a contact deleted event
func (p *Publisher) PublishContactDeleted(ctx context.Context, contactID int64) {
	p.publish(ctx, messaging.EventContactDeleted, actorID(ctx), messaging.ContactEvent{
		ContactID: contactID,
		ActorID:   actorID(ctx),
	})
}

// PublishMessageSent asks the WhatsApp gateway to deliver an outgoing message
func (p *Publisher) PublishMessageSent(ctx context.Context, m *repository.Message, phone string) {
	p.publish(ctx, messaging.EventMessageSent, m.AdminID, messaging.MessageSentEvent{
		MessageID: m.ID,
		ContactID: m.UserID,
		AdminID:   m.AdminID,
		Phone:     phone,
		Text:      m.MessageText,
		CreatedAt: m.CreatedAt,
	})
}

// PublishAppointment publishes an appointment event of the given type
func (p *Publisher) PublishAppointment(ctx context.Context, eventType string, a *repository.Appointment, changes map[string]any) {
	p.publish(ctx, eventType, a.AdminID, messaging.AppointmentEvent{
		AppointmentID: a.ID,
		AdminID:       a.AdminID,
		ContactID:     a.UserID,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Status:        a.Status,
		Fields:        changes,
	})
}

// PublishAppointmentDeleted publishes an appointment deleted event
func (p *Publisher) PublishAppointmentDeleted(ctx context.Context, appointmentID int64) {
	p.publish(ctx, messaging.EventAppointmentDeleted, actorID(ctx), messaging.AppointmentEvent{
		AppointmentID: appointmentID,
		AdminID:       actorID(ctx),
	})
}

// PublishOrder publishes an order event of the given type
func (p *Publisher) PublishOrder(ctx context.Context, eventType string, o *repository.Order, changes map[string]any) {
	var number string
	if o.OrderNumber != nil {
		number = *o.OrderNumber
	}
	p.publish(ctx, eventType, o.AdminID, messaging.OrderEvent{
		OrderID:           o.ID,
		AdminID:           o.AdminID,
		OrderNumber:       number,
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		Fields:            changes,
	})
}

// PublishCatalogItem publishes a catalog event of the given type
func (p *Publisher) PublishCatalogItem(ctx context.Context, eventType string, item *repository.CatalogItem) {
	p.publish(ctx, eventType, item.AdminID, messaging.CatalogItemEvent{
		ItemID:   item.ID,
		AdminID:  item.AdminID,
		ItemType: item.ItemType,
		Name:     item.Name,
		IsActive: item.IsActive,
	})
}

// PublishCatalogItemDeleted publishes a catalog item deleted event
func (p *Publisher) PublishCatalogItemDeleted(ctx context.Context, itemID int64) {
	p.publish(ctx, messaging.EventCatalogItemDeleted, actorID(ctx), messaging.CatalogItemEvent{
		ItemID:  itemID,
		AdminID: actorID(ctx),
	})
}

func (p *Publisher) publish(ctx context.Context, eventType string, adminID int64, data interface{}) {
	err := p.publisher.Publish(ctx, eventType, data)
	p.metrics.RecordEventPublished(eventType, err)
	if err != nil {
		p.logger.Error().Err(err).Int64("admin_id", adminID).Str("event_type", eventType).Msg("failed to publish dashboard event")
	}
}

func actorID(ctx context.Context) int64 {
	if a := actor.FromContext(ctx); a != nil {
		return a.ID
	}
	return 0
}
