package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventPublisher is what services publish domain events through
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// Publisher writes persistent JSON events to a topic exchange, routed by
// event type.
type Publisher struct {
	rmq      *RabbitMQ
	exchange string
	source   string
	logger   *logger.Logger
}

func NewPublisher(rmq *RabbitMQ, exchange, source string, log *logger.Logger) (*Publisher, error) {
	if err := rmq.DeclareExchange(exchange); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &Publisher{rmq: rmq, exchange: exchange, source: source, logger: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	correlationID := CorrelationID(ctx)

	event, err := NewEvent(eventType, p.source, correlationID, data)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	msg, err := toPublishing(event)
	if err != nil {
		return err
	}

	// Channel() is read per call so publishes after a reconnect use the new channel
	if err := p.rmq.Channel().PublishWithContext(ctx, p.exchange, eventType, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	p.logger.WithCorrelationID(correlationID).Debug().
		Str("event_type", eventType).
		Str("event_id", event.ID).
		Msg("event published")
	return nil
}

func toPublishing(event *Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     event.ID,
		CorrelationId: event.CorrelationID,
		Timestamp:     event.Timestamp,
		Type:          event.Type,
		Body:          body,
	}, nil
}

// NopPublisher drops events. Used when RabbitMQ is disabled.
type NopPublisher struct {
	logger *logger.Logger
}

func NewNopPublisher(log *logger.Logger) *NopPublisher {
	return &NopPublisher{logger: log}
}

func (p *NopPublisher) Publish(_ context.Context, eventType string, _ interface{}) error {
	if p.logger != nil {
		p.logger.Debug().Str("event_type", eventType).Msg("event dropped, broker disabled")
	}
	return nil
}

type correlationKey struct{}

// WithCorrelationID stores the id events published under ctx will carry
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationKey{}, correlationID)
}

// CorrelationID returns the id set by WithCorrelationID, falling back to
// the HTTP request id so events raised by a request can be traced to it.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		return id
	}
	return middleware.GetReqID(ctx)
}
