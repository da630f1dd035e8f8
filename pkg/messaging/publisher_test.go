package messaging_test

import (
	"context"
	"testing"
	"time"

	"github.com/algoaura/dashboard-backend/pkg/logger"
	"github.com/algoaura/dashboard-backend/pkg/messaging"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopPublisher_DropsEvents(t *testing.T) {
	var p messaging.EventPublisher = messaging.NewNopPublisher(logger.New("test", "test"))

	err := p.Publish(context.Background(), messaging.EventContactCreated, messaging.ContactEvent{ContactID: 1})
	assert.NoError(t, err)
}

func TestNewEvent_Envelope(t *testing.T) {
	event, err := messaging.NewEvent(messaging.EventOrderUpdated, "dashboard-api", "req-9", messaging.OrderEvent{
		OrderID: 12, AdminID: 3, Status: "confirmed", PaymentStatus: "pending", FulfillmentStatus: "delivered",
	})
	require.NoError(t, err)

	_, err = uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, "order.updated", event.Type)
	assert.Equal(t, "req-9", event.CorrelationID)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Minute)

	var data messaging.OrderEvent
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, int64(12), data.OrderID)
	assert.Equal(t, "delivered", data.FulfillmentStatus)
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, messaging.CorrelationID(context.Background()))

	fromRequest := context.WithValue(context.Background(), middleware.RequestIDKey, "host/abc-000001")
	assert.Equal(t, "host/abc-000001", messaging.CorrelationID(fromRequest))

	explicit := messaging.WithCorrelationID(fromRequest, "corr-7")
	assert.Equal(t, "corr-7", messaging.CorrelationID(explicit))
}
