package domain

import (
	"github.com/algoaura/dashboard-backend/pkg/httputil"
	"github.com/go-playground/validator/v10"
)

func init() {
	httputil.RegisterEnum("appointment_status", AppointmentStatuses)
	httputil.RegisterEnum("order_status", OrderStatuses)
	httputil.RegisterEnum("payment_status", PaymentStatuses)
	httputil.RegisterEnum("fulfillment_status", FulfillmentStatuses)
	httputil.RegisterEnum("item_type", ItemTypes)
	httputil.RegisterEnum("duration_unit", DurationUnits)
	httputil.RegisterEnum("quantity_unit", QuantityUnits)
	httputil.RegisterEnum("lead_status", LeadStatuses)
	httputil.RegisterEnum("task_priority", TaskPriorities)
	httputil.RegisterEnum("task_status", TaskStatuses)

	httputil.RegisterCustomValidation("amount", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || Amount(v).Valid()
	})
}
