package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the dashboard
const (
	// Contact events
	EventContactCreated = "contact.created"
	EventContactUpdated = "contact.updated"
	EventContactDeleted = "contact.deleted"

	// Message events
	EventMessageSent = "message.sent"

	// Appointment events
	EventAppointmentBooked  = "appointment.booked"
	EventAppointmentUpdated = "appointment.updated"
	EventAppointmentDeleted = "appointment.deleted"

	// Order events
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"

	// Catalog events
	EventCatalogItemCreated = "catalog.item.created"
	EventCatalogItemUpdated = "catalog.item.updated"
	EventCatalogItemDeleted = "catalog.item.deleted"

	// Admin events
	EventAdminSignedUp = "admin.signed_up"
	EventAdminUpdated  = "admin.updated"
	EventAdminDeleted  = "admin.deleted"
)

// Event types consumed from the WhatsApp gateway
const (
	EventWhatsAppMessageReceived = "whatsapp.message.received"
	EventWhatsAppMessageStatus   = "whatsapp.message.status"
)

// Exchange names
const (
	ExchangeDashboardEvents = "dashboard.events"
	ExchangeWhatsAppEvents  = "whatsapp.events"
	ExchangeDeadLetter      = "dlx.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Contact Events

// ContactEvent is published when a contact is created, updated or deleted
type ContactEvent struct {
	ContactID int64          `json:"contact_id"`
	AdminID   int64          `json:"admin_id"`
	Phone     string         `json:"phone,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"` // Changed fields on update
	ActorID   int64          `json:"actor_id"`
}

// MessageSentEvent is published when an outgoing message is stored.
// The WhatsApp gateway delivers it and reports back with a status event.
type MessageSentEvent struct {
	MessageID int64     `json:"message_id"`
	ContactID int64     `json:"contact_id"`
	AdminID   int64     `json:"admin_id"`
	Phone     string    `json:"phone"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Appointment Events

// AppointmentEvent is published on appointment writes
type AppointmentEvent struct {
	AppointmentID int64          `json:"appointment_id"`
	AdminID       int64          `json:"admin_id"`
	ContactID     int64          `json:"contact_id"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       time.Time      `json:"end_time"`
	Status        string         `json:"status"`
	Fields        map[string]any `json:"fields,omitempty"`
}

// Order Events

// OrderEvent is published on order writes
type OrderEvent struct {
	OrderID           int64          `json:"order_id"`
	AdminID           int64          `json:"admin_id"`
	OrderNumber       string         `json:"order_number,omitempty"`
	Status            string         `json:"status"`
	PaymentStatus     string         `json:"payment_status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	Fields            map[string]any `json:"fields,omitempty"`
}

// Catalog Events

// CatalogItemEvent is published on catalog writes
type CatalogItemEvent struct {
	ItemID   int64  `json:"item_id"`
	AdminID  int64  `json:"admin_id"`
	ItemType string `json:"item_type,omitempty"`
	Name     string `json:"name,omitempty"`
	IsActive bool   `json:"is_active"`
}

// Admin Events

// AdminEvent is published on signup and on admin management writes
type AdminEvent struct {
	AdminID   int64          `json:"admin_id"`
	Name      string         `json:"name,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	AdminTier string         `json:"admin_tier,omitempty"`
	Status    string         `json:"status,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	ActorID   int64          `json:"actor_id,omitempty"`
}

// WhatsApp Events

// WhatsAppMessageReceived is an inbound customer message routed to an admin's number
type WhatsAppMessageReceived struct {
	AdminID    int64     `json:"admin_id"`
	Phone      string    `json:"phone"`
	Name       string    `json:"name,omitempty"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// WhatsAppMessageStatus reports delivery progress of an outgoing message
type WhatsAppMessageStatus struct {
	MessageID int64  `json:"message_id"`
	Status    string `json:"status"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.NewString()
}
