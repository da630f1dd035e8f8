// Package domain holds the dashboard's state values and the rules that apply
// to them independently of storage.
package domain

// Appointment statuses. New appointments start booked; every status can be
// set directly afterwards.
const (
	AppointmentBooked    = "booked"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Order lifecycle statuses
const (
	OrderNew            = "new"
	OrderConfirmed      = "confirmed"
	OrderProcessing     = "processing"
	OrderPacked         = "packed"
	OrderOutForDelivery = "out_for_delivery"
	OrderFulfilled      = "fulfilled"
	OrderCancelled      = "cancelled"
	OrderRefunded       = "refunded"
)

// Payment statuses shared by orders
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Fulfillment statuses. Fulfillment moves independently of payment.
const (
	FulfillmentUnfulfilled = "unfulfilled"
	FulfillmentPacked      = "packed"
	FulfillmentShipped     = "shipped"
	FulfillmentDelivered   = "delivered"
	FulfillmentCancelled   = "cancelled"
)

// Lead statuses
const (
	LeadPending    = "pending"
	LeadInProgress = "in_progress"
	LeadCompleted  = "completed"
)

// Task priorities and statuses
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	TaskOpen      = "open"
	TaskAssigned  = "assigned"
	TaskCompleted = "completed"
)

// Message directions and delivery statuses
const (
	MessageIncoming = "incoming"
	MessageOutgoing = "outgoing"

	MessageSent      = "sent"
	MessageDelivered = "delivered"
	MessageRead      = "read"
)

// Catalog item types
const (
	ItemService = "service"
	ItemProduct = "product"
)

// Catalog visibility filter values
const (
	CatalogActive   = "active"
	CatalogInactive = "inactive"
)

// FilterAll disables a list filter dimension
const FilterAll = "all"

var (
	AppointmentStatuses = []string{AppointmentBooked, AppointmentCompleted, AppointmentCancelled}
	OrderStatuses       = []string{OrderNew, OrderConfirmed, OrderProcessing, OrderPacked, OrderOutForDelivery, OrderFulfilled, OrderCancelled, OrderRefunded}
	PaymentStatuses     = []string{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}
	FulfillmentStatuses = []string{FulfillmentUnfulfilled, FulfillmentPacked, FulfillmentShipped, FulfillmentDelivered, FulfillmentCancelled}
	LeadStatuses        = []string{LeadPending, LeadInProgress, LeadCompleted}
	TaskPriorities      = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	TaskStatuses        = []string{TaskOpen, TaskAssigned, TaskCompleted}
	ItemTypes           = []string{ItemService, ItemProduct}
	CatalogVisibility   = []string{CatalogActive, CatalogInactive}
)

var messageStatusRank = map[string]int{
	MessageSent:      1,
	MessageDelivered: 2,
	MessageRead:      3,
}

// AdvancesMessageStatus reports whether a message may move from current to
// next. Delivery receipts only move forward.
func AdvancesMessageStatus(current, next string) bool {
	n, ok := messageStatusRank[next]
	if !ok {
		return false
	}
	return n > messageStatusRank[current]
}
