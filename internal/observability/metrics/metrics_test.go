package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveBookingCreated("General Consultation")
	m.ObserveValidationFailure("patient_email")
	m.ObserveValidationFailure("")
	m.ObserveStatusTransition("pending", "confirmed")
	m.ObserveStoreError("slot_taken")
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveBookingCreated("Follow-up")
	m.ObserveValidationFailure("patient_name")
	m.ObserveStatusTransition("pending", "cancelled")
	m.ObserveStoreError("connectivity")
}
