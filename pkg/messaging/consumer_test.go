package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/algoaura/dashboard-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsumer() *Consumer {
	return newConsumer(nil, "dashboard.whatsapp-inbound", logger.New("test", "test"))
}

func encodeEvent(t *testing.T, eventType string, data interface{}) []byte {
	t.Helper()
	event, err := NewEvent(eventType, "whatsapp-gateway", "corr-1", data)
	require.NoError(t, err)
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func TestProcess_DispatchesByType(t *testing.T) {
	c := newTestConsumer()

	var got WhatsAppMessageReceived
	var correlation string
	c.RegisterHandler(EventWhatsAppMessageReceived, func(ctx context.Context, event *Event) error {
		correlation = CorrelationID(ctx)
		return event.UnmarshalData(&got)
	})

	body := encodeEvent(t, EventWhatsAppMessageReceived, WhatsAppMessageReceived{AdminID: 1, Phone: "9999900001", Text: "hi"})

	assert.Equal(t, OutcomeAck, c.Process(context.Background(), body, 0))
	assert.Equal(t, int64(1), got.AdminID)
	assert.Equal(t, "hi", got.Text)
	assert.Equal(t, "corr-1", correlation)
}

func TestProcess_UnknownTypeIsAcked(t *testing.T) {
	c := newTestConsumer()
	body := encodeEvent(t, "whatsapp.typing", map[string]string{})

	assert.Equal(t, OutcomeAck, c.Process(context.Background(), body, 0))
}

func TestProcess_MalformedIsRejected(t *testing.T) {
	c := newTestConsumer()

	assert.Equal(t, OutcomeReject, c.Process(context.Background(), []byte("{not json"), 0))
}

func TestProcess_FailuresRequeueUntilLimit(t *testing.T) {
	c := newTestConsumer()
	c.RegisterHandler(EventWhatsAppMessageStatus, func(ctx context.Context, event *Event) error {
		return errors.New("database unavailable")
	})
	body := encodeEvent(t, EventWhatsAppMessageStatus, WhatsAppMessageStatus{MessageID: 7, Status: "read"})

	assert.Equal(t, OutcomeRequeue, c.Process(context.Background(), body, 0))
	assert.Equal(t, OutcomeRequeue, c.Process(context.Background(), body, MaxDeliveryAttempts-1))
	assert.Equal(t, OutcomeReject, c.Process(context.Background(), body, MaxDeliveryAttempts))
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 0, getRetryCount(amqp.Delivery{}))

	msg := amqp.Delivery{Headers: amqp.Table{
		"x-death": []interface{}{amqp.Table{"count": int64(2)}},
	}}
	assert.Equal(t, 2, getRetryCount(msg))

	requeued := amqp.Delivery{Headers: amqp.Table{"x-delivery-count": int64(1)}}
	assert.Equal(t, 1, getRetryCount(requeued))
}
