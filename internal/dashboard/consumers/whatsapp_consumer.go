package consumers

import (
	"context"
	"strings"

	"github.com/algoaura/dashboard-backend/internal/dashboard/domain"
	"github.com/algoaura/dashboard-backend/internal/dashboard/repository"
	"github.com/algoaura/dashboard-backend/pkg/config"
	"github.com/algoaura/dashboard-backend/pkg/database"
	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/algoaura/dashboard-backend/pkg/metrics"
	"github.com/algoaura/dashboard-backend/pkg/phone"
)

// WhatsAppEventHandler stores inbound WhatsApp traffic (testable without RabbitMQ)
type WhatsAppEventHandler struct {
	db       *database.DB
	contacts *repository.ContactRepository
	messages *repository.MessageRepository
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewWhatsAppEventHandler creates a new handler
func NewWhatsAppEventHandler(db *database.DB, contacts *repository.ContactRepository, messages *repository.MessageRepository, m *metrics.Metrics, log *logger.Logger) *WhatsAppEventHandler {
	return &WhatsAppEventHandler{
		db:       db,
		contacts: contacts,
		messages: messages,
		metrics:  m,
		logger:   log.WithComponent("whatsapp-consumer"),
	}
}

// HandleEvent dispatches an inbound event by type
func (h *WhatsAppEventHandler) HandleEvent(ctx context.Context, event *messaging.Event) error {
	switch event.Type {
	case messaging.EventWhatsAppMessageReceived:
		return h.handleMessageReceived(ctx, event)
	case messaging.EventWhatsAppMessageStatus:
		return h.handleMessageStatus(ctx, event)
	default:
		h.logger.Warn().Str("event_type", event.Type).Msg("unknown event type received")
		return nil
	}
}

// WhatsAppConsumer consumes gateway events from the whatsapp.events exchange
type WhatsAppConsumer struct {
	consumer *messaging.Consumer
	handler  *WhatsAppEventHandler
	logger   *logger.Logger
}

// NewWhatsAppConsumer declares the inbound queue and registers the handlers
func NewWhatsAppConsumer(rmq *messaging.RabbitMQ, cfg *config.RabbitMQConfig, handler *WhatsAppEventHandler, log *logger.Logger) (*WhatsAppConsumer, error) {
	exchange := cfg.InboundExchange
	if exchange == "" {
		exchange = messaging.ExchangeWhatsAppEvents
	}

	consumer, err := messaging.NewConsumer(rmq, cfg.InboundQueue, log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(exchange, "whatsapp.message.#"); err != nil {
		return nil, err
	}

	consumer.RegisterHandler(messaging.EventWhatsAppMessageReceived, handler.HandleEvent)
	consumer.RegisterHandler(messaging.EventWhatsAppMessageStatus, handler.HandleEvent)

	return &WhatsAppConsumer{
		consumer: consumer,
		handler:  handler,
		logger:   log,
	}, nil
}

// Start starts consuming messages
func (c *WhatsAppConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

// Restart resumes consuming after a reconnect
func (c *WhatsAppConsumer) Restart(ctx context.Context) error {
	return c.consumer.Restart(ctx)
}

// handleMessageReceived upserts the sender as a contact and stores the
// message in the contact's thread. Payloads that can never be stored are
// logged and acknowledged.
func (h *WhatsAppEventHandler) handleMessageReceived(ctx context.Context, event *messaging.Event) (err error) {
	defer func() { h.metrics.RecordInbound(event.Type, err) }()

	var data messaging.WhatsAppMessageReceived
	if err := event.UnmarshalData(&data); err != nil {
		h.logger.Error().Err(err).Str("event_id", event.ID).Msg("failed to unmarshal WhatsAppMessageReceived")
		return nil
	}

	digits := phone.Sanitize(data.Phone)
	text := strings.TrimSpace(data.Text)
	if data.AdminID <= 0 || digits == "" || text == "" {
		h.logger.Warn().
			Str("event_id", event.ID).
			Int64("admin_id", data.AdminID).
			Msg("inbound message missing admin, phone or text, skipping")
		return nil
	}

	var name *string
	if n := strings.TrimSpace(data.Name); n != "" {
		name = &n
	}

	var msg *repository.Message
	err = h.db.WithTx(ctx, func(ctx context.Context) error {
		contact, err := h.contacts.Upsert(ctx, data.AdminID, digits, name)
		if err != nil {
			return err
		}

		msg = &repository.Message{
			UserID:      contact.ID,
			AdminID:     data.AdminID,
			MessageText: text,
			MessageType: domain.MessageIncoming,
			Status:      domain.MessageDelivered,
		}
		return h.messages.Create(ctx, msg)
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Int64("admin_id", data.AdminID).
			Msg("failed to store inbound message")
		return err
	}

	h.metrics.RecordMessage(domain.MessageIncoming)

	h.logger.Info().
		Int64("message_id", msg.ID).
		Int64("contact_id", msg.UserID).
		Int64("admin_id", data.AdminID).
		Msg("inbound message stored")

	return nil
}

// handleMessageStatus moves an outgoing message forward along
// sent, delivered and read. Stale or unknown receipts are ignored.
func (h *WhatsAppEventHandler) handleMessageStatus(ctx context.Context, event *messaging.Event) (err error) {
	defer func() { h.metrics.RecordInbound(event.Type, err) }()

	var data messaging.WhatsAppMessageStatus
	if err := event.UnmarshalData(&data); err != nil {
		h.logger.Error().Err(err).Str("event_id", event.ID).Msg("failed to unmarshal WhatsAppMessageStatus")
		return nil
	}

	if data.MessageID <= 0 || !domain.AdvancesMessageStatus(domain.MessageSent, data.Status) {
		h.logger.Debug().
			Int64("message_id", data.MessageID).
			Str("status", data.Status).
			Msg("ignoring status receipt")
		return nil
	}

	advanced, err := h.messages.AdvanceStatus(ctx, data.MessageID, data.Status)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("message_id", data.MessageID).
			Msg("failed to advance message status")
		return err
	}

	h.logger.Debug().
		Int64("message_id", data.MessageID).
		Str("status", data.Status).
		Bool("advanced", advanced).
		Msg("message status receipt processed")

	return nil
}
