package handler

import "github.com/go-chi/chi/v5"

// Handlers groups the dashboard resource handlers for mounting
type Handlers struct {
	Contacts     *ContactHandler
	Messages     *MessageHandler
	Leads        *LeadHandler
	Tasks        *TaskHandler
	Appointments *AppointmentHandler
	Orders       *OrderHandler
	Catalog      *CatalogHandler
}

// Mount registers the authenticated dashboard routes under /api
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.Contacts.List)
		r.Post("/", h.Contacts.Create)
		r.Get("/{id}", h.Contacts.Get)
		r.Patch("/{id}", h.Contacts.Update)
		r.Delete("/{id}", h.Contacts.Delete)
		r.Get("/{id}/messages", h.Messages.Thread)
		r.Post("/{id}/messages", h.Messages.Send)
		r.Get("/{id}/requirements", h.Contacts.Requirements)
	})

	r.Get("/messages", h.Messages.Inbox)

	r.Route("/requirements", func(r chi.Router) {
		r.Get("/", h.Leads.List)
		r.Patch("/{id}", h.Leads.Update)
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", h.Appointments.List)
		r.Post("/", h.Appointments.Create)
		r.Get("/{id}", h.Appointments.Get)
		r.Patch("/{id}", h.Appointments.Update)
		r.Delete("/{id}", h.Appointments.Delete)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.Orders.List)
		r.Post("/", h.Orders.Create)
		r.Get("/count", h.Orders.Count)
		r.Get("/{id}", h.Orders.Get)
		r.Patch("/{id}", h.Orders.Update)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", h.Catalog.List)
		r.Post("/", h.Catalog.Create)
		r.Get("/{id}", h.Catalog.Get)
		r.Put("/{id}", h.Catalog.Update)
		r.Delete("/{id}", h.Catalog.Delete)
		r.Post("/{id}/duplicate", h.Catalog.Duplicate)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.Tasks.List)
		r.Post("/", h.Tasks.Create)
		r.Patch("/{id}", h.Tasks.Update)
		r.Delete("/{id}", h.Tasks.Delete)
	})
}
