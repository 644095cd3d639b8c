package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking and review flows.
type BookingMetrics struct {
	bookingsCreated    *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	statusTransitions  *prometheus.CounterVec
	storeErrors        *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total appointments booked through the public form",
		}, []string{"consultation_type"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "bookings",
			Name:      "validation_failures_total",
			Help:      "Total booking submissions rejected by field validation",
		}, []string{"field"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "status_transitions_total",
			Help:      "Total admin status transitions",
		}, []string{"from", "to"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "store_errors_total",
			Help:      "Total record store errors by classification",
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsCreated, m.validationFailures, m.statusTransitions, m.storeErrors)
	return m
}

func (m *BookingMetrics) ObserveBookingCreated(consultationType string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(consultationType).Inc()
}

func (m *BookingMetrics) ObserveValidationFailure(field string) {
	if m == nil {
		return
	}
	if field == "" {
		field = "unknown"
	}
	m.validationFailures.WithLabelValues(field).Inc()
}

func (m *BookingMetrics) ObserveStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveStoreError(kind string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(kind).Inc()
}
