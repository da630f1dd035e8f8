package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/algoaura/dashboard-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MaxDeliveryAttempts bounds redelivery of an event whose handler keeps
// failing; after that it is dead-lettered.
const MaxDeliveryAttempts = 3

type MessageHandler func(ctx context.Context, event *Event) error

// Outcome decides how a delivery is settled
type Outcome int

const (
	OutcomeAck Outcome = iota
	OutcomeRequeue
	// OutcomeReject routes the delivery to the dead letter exchange
	OutcomeReject
)

type binding struct {
	exchange string
	pattern  string
}

// Consumer reads one queue and dispatches events to handlers by type.
// Events without a handler are acknowledged and dropped.
type Consumer struct {
	rmq      *RabbitMQ
	queue    string
	bindings []binding
	handlers map[string]MessageHandler
	logger   *logger.Logger
}

func NewConsumer(rmq *RabbitMQ, queue string, log *logger.Logger) (*Consumer, error) {
	if err := rmq.DeclareQueue(queue); err != nil {
		return nil, err
	}
	return newConsumer(rmq, queue, log), nil
}

func newConsumer(rmq *RabbitMQ, queue string, log *logger.Logger) *Consumer {
	return &Consumer{
		rmq:      rmq,
		queue:    queue,
		handlers: make(map[string]MessageHandler),
		logger:   log.WithComponent("consumer"),
	}
}

// Subscribe binds the queue to exchange for routing keys matching pattern.
// Bindings are replayed by Restart.
func (c *Consumer) Subscribe(exchange, pattern string) error {
	if err := c.rmq.DeclareExchange(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	b := binding{exchange: exchange, pattern: pattern}
	if err := c.bind(b); err != nil {
		return err
	}
	c.bindings = append(c.bindings, b)

	c.logger.Info().
		Str("queue", c.queue).
		Str("exchange", exchange).
		Str("routing_key", pattern).
		Msg("queue bound")
	return nil
}

func (c *Consumer) bind(b binding) error {
	if err := c.rmq.BindQueue(c.queue, b.exchange, b.pattern); err != nil {
		return fmt.Errorf("failed to bind %s to %s: %w", c.queue, b.exchange, err)
	}
	return nil
}

func (c *Consumer) RegisterHandler(eventType string, handler MessageHandler) {
	c.handlers[eventType] = handler
}

// Start consumes with manual acknowledgement until ctx ends or the
// channel closes. Call Restart after a reconnect.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.rmq.Channel().Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", c.queue, err)
	}
	c.logger.Info().Str("queue", c.queue).Msg("consumer started")

	go func() {
		defer func() { c.logger.Info().Str("queue", c.queue).Msg("consumer stopped") }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-deliveries:
				if !ok {
					return
				}
				c.settle(msg, c.Process(ctx, msg.Body, getRetryCount(msg)))
			}
		}
	}()
	return nil
}

// Restart redeclares the queue, replays its bindings and consumes again
func (c *Consumer) Restart(ctx context.Context) error {
	if err := c.rmq.DeclareQueue(c.queue); err != nil {
		return err
	}
	for _, b := range c.bindings {
		if err := c.bind(b); err != nil {
			return err
		}
	}
	return c.Start(ctx)
}

// Process decodes body and runs the handler for its type. retryCount is
// the number of earlier failed deliveries of the same message.
func (c *Consumer) Process(ctx context.Context, body []byte, retryCount int) Outcome {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error().Err(err).Str("queue", c.queue).Msg("dropping undecodable event")
		return OutcomeReject
	}

	log := c.logger.WithCorrelationID(event.CorrelationID)
	handler, ok := c.handlers[event.Type]
	if !ok {
		log.Debug().Str("event_type", event.Type).Msg("no handler for event type")
		return OutcomeAck
	}

	err := handler(WithCorrelationID(ctx, event.CorrelationID), &event)
	if err == nil {
		return OutcomeAck
	}

	failed := log.Error().
		Err(err).
		Str("event_type", event.Type).
		Str("event_id", event.ID).
		Int("retry_count", retryCount)
	if retryCount >= MaxDeliveryAttempts {
		failed.Msg("event failed too often, dead-lettering")
		return OutcomeReject
	}
	failed.Msg("event failed, requeueing")
	return OutcomeRequeue
}

func (c *Consumer) settle(msg amqp.Delivery, outcome Outcome) {
	var err error
	switch outcome {
	case OutcomeAck:
		err = msg.Ack(false)
	case OutcomeRequeue:
		err = msg.Nack(false, true)
	default:
		err = msg.Reject(false)
	}
	if err != nil {
		c.logger.Error().Err(err).Str("queue", c.queue).Msg("failed to settle delivery")
	}
}

// getRetryCount reads the quorum queue x-delivery-count header, falling
// back to x-death counts for messages that went through a dead letter cycle.
func getRetryCount(msg amqp.Delivery) int {
	if n, ok := msg.Headers["x-delivery-count"].(int64); ok {
		return int(n)
	}

	deaths, _ := msg.Headers["x-death"].([]interface{})
	for _, death := range deaths {
		if d, ok := death.(amqp.Table); ok {
			if count, ok := d["count"].(int64); ok {
				return int(count)
			}
		}
	}
	return 0
}
