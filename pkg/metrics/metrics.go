package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Business metrics
	LoginAttempts    *prometheus.CounterVec
	AdminsSignedUp   *prometheus.CounterVec
	MessagesStored   *prometheus.CounterVec
	BookingConflicts prometheus.Counter
	EventsPublished  *prometheus.CounterVec
	InboundHandled   *prometheus.CounterVec
}

// New creates a Metrics instance registered on its own registry, together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry registers the metrics on reg
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
			},
			[]string{"method", "route"},
		),

		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // success, invalid, inactive
		),
		AdminsSignedUp: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_admins_signed_up_total",
				Help: "Total number of admin signups",
			},
			[]string{"tier"},
		),
		MessagesStored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_messages_stored_total",
				Help: "Total number of messages stored",
			},
			[]string{"type"}, // incoming, outgoing
		),
		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_booking_conflicts_total",
			Help: "Appointment bookings rejected because the slot was taken",
		}),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_events_published_total",
				Help: "Domain events handed to the broker",
			},
			[]string{"event_type", "result"},
		),
		InboundHandled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_inbound_events_total",
				Help: "Inbound WhatsApp events processed",
			},
			[]string{"event_type", "result"},
		),
	}
}

// Registry returns the registry the metrics live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and response size. Requests are
// labelled with the chi route pattern, not the raw path, to bound cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
		m.HTTPResponseSize.WithLabelValues(r.Method, route).Observe(float64(ww.BytesWritten()))
	})
}

// RecordLoginAttempt counts a login by outcome
func (m *Metrics) RecordLoginAttempt(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

// RecordSignup counts a signup by assigned tier
func (m *Metrics) RecordSignup(tier string) {
	if m == nil {
		return
	}
	m.AdminsSignedUp.WithLabelValues(tier).Inc()
}

// RecordMessage counts a stored message by direction
func (m *Metrics) RecordMessage(messageType string) {
	if m == nil {
		return
	}
	m.MessagesStored.WithLabelValues(messageType).Inc()
}

// RecordBookingConflict counts a rejected double booking
func (m *Metrics) RecordBookingConflict() {
	if m == nil {
		return
	}
	m.BookingConflicts.Inc()
}

// RecordEventPublished counts a published domain event
func (m *Metrics) RecordEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType, result(err)).Inc()
}

// RecordInbound counts a processed inbound event
func (m *Metrics) RecordInbound(eventType string, err error) {
	if m == nil {
		return
	}
	m.InboundHandled.WithLabelValues(eventType, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
