package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/algoaura/dashboard-backend/pkg/config"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

var errClosed = errors.New("rabbitmq: connection closed by owner")

// RabbitMQ owns one connection and one channel. Both are replaced on
// reconnect, so callers must go through Channel() instead of caching it.
type RabbitMQ struct {
	cfg    *config.RabbitMQConfig
	logger *logger.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

func New(cfg *config.RabbitMQConfig, log *logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{cfg: cfg, logger: log.WithComponent("rabbitmq")}
	if err := r.dial(); err != nil {
		return nil, err
	}
	return r, nil
}

// dial must be called with mu held, or before r is shared.
func (r *RabbitMQ) dial() error {
	conn, err := amqp.Dial(r.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err == nil {
		err = ch.Qos(r.cfg.PrefetchCount, 0, false)
	}
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to prepare channel: %w", err)
	}

	r.conn, r.channel = conn, ch
	r.logger.Info().Int("prefetch", r.cfg.PrefetchCount).Msg("connected to RabbitMQ")
	return nil
}

func (r *RabbitMQ) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

// Close shuts the connection down for good; Watch stops reconnecting.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to close channel")
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	r.logger.Info().Msg("RabbitMQ connection closed")
	return nil
}

func (r *RabbitMQ) Health() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.conn == nil || r.conn.IsClosed() {
		return map[string]string{"status": "down", "error": "connection closed"}
	}
	return map[string]string{"status": "up"}
}

// DeclareExchange declares a durable topic exchange
func (r *RabbitMQ) DeclareExchange(name string) error {
	return r.Channel().ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil)
}

// DeclareQueue declares name as a durable quorum queue together with its
// dead letter queue dlq.<name>. Quorum queues stamp x-delivery-count on
// requeued deliveries, which bounds redelivery of failing events.
func (r *RabbitMQ) DeclareQueue(name string) error {
	ch := r.Channel()
	dlq := "dlq." + name

	if err := ch.ExchangeDeclare(ExchangeDeadLetter, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s: %w", ExchangeDeadLetter, err)
	}
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s: %w", dlq, err)
	}
	if err := ch.QueueBind(dlq, "#", ExchangeDeadLetter, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s: %w", dlq, err)
	}

	_, err := ch.QueueDeclare(name, true, false, false, false, amqp.Table{
		amqp.QueueTypeArg:        amqp.QueueTypeQuorum,
		"x-dead-letter-exchange": ExchangeDeadLetter,
	})
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	return nil
}

func (r *RabbitMQ) BindQueue(queue, exchange, pattern string) error {
	return r.Channel().QueueBind(queue, pattern, exchange, false, nil)
}

// Watch reconnects in the background each time the broker drops the
// connection, until ctx ends or Close is called. onReconnect runs after
// every successful reconnect so consumers can resubscribe.
func (r *RabbitMQ) Watch(ctx context.Context, onReconnect func(context.Context) error) {
	go func() {
		for {
			r.mu.RLock()
			lost := r.conn.NotifyClose(make(chan *amqp.Error, 1))
			r.mu.RUnlock()

			select {
			case <-ctx.Done():
				return
			case reason := <-lost:
				if reason == nil && r.isClosed() {
					return
				}
				r.logger.Warn().Interface("reason", reason).Msg("RabbitMQ connection lost")
			}

			if err := r.Reconnect(ctx); err != nil {
				r.logger.Error().Err(err).Msg("giving up on RabbitMQ")
				return
			}
			if onReconnect == nil {
				continue
			}
			if err := onReconnect(ctx); err != nil {
				r.logger.Error().Err(err).Msg("failed to restore RabbitMQ topology")
			}
		}
	}()
}

func (r *RabbitMQ) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// Reconnect dials up to MaxRetries times, ReconnectDelay apart
func (r *RabbitMQ) Reconnect(ctx context.Context) error {
	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return errClosed
		}
		err := r.dial()
		r.mu.Unlock()
		if err == nil {
			return nil
		}

		r.logger.Warn().Err(err).Int("attempt", attempt).Msg("reconnection attempt failed")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cfg.ReconnectDelay):
		}
	}
	return fmt.Errorf("failed to reconnect after %d attempts", r.cfg.MaxRetries)
}
