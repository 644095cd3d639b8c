package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/oakwell-health/clinic-booking/internal/appointments"
	"github.com/oakwell-health/clinic-booking/pkg/logging"
)

// BookingNotifier sends confirmation email to the patient and an alert
// to the clinic inbox when a booking request is received. Sends are
// best-effort: a failure is logged and never fails the booking.
type BookingNotifier struct {
	email       EmailSender
	clinicInbox string
	logger      *logging.Logger
	timeout     time.Duration
}

// NewBookingNotifier creates a notifier. email may be nil, in which
// case every notification is skipped.
func NewBookingNotifier(email EmailSender, clinicInbox string, logger *logging.Logger) *BookingNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingNotifier{
		email:       email,
		clinicInbox: clinicInbox,
		logger:      logger,
		timeout:     10 * time.Second,
	}
}

// BookingReceived dispatches both notifications for a new appointment.
// It is safe to call in a goroutine; a fresh timeout context is used
// so the caller's request context can expire independently.
func (n *BookingNotifier) BookingReceived(appt *appointments.Appointment) {
	if n == nil || n.email == nil || appt == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	patientMsg := EmailMessage{
		To:      appt.PatientEmail,
		ToName:  appt.PatientName,
		Subject: "We received your appointment request",
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe've received your appointment request.\n\nDate: %s\nTime: %s\nConsultation: %s\n\nYou will receive a confirmation email once the clinic reviews your request.\n",
			appt.PatientName, appt.AppointmentDate, appt.AppointmentTime, appt.ConsultationType,
		),
	}
	if err := n.email.Send(ctx, patientMsg); err != nil {
		n.logger.Error("booking confirmation email failed", "error", err, "appointment_id", appt.ID)
	}

	if n.clinicInbox == "" {
		return
	}
	clinicMsg := EmailMessage{
		To:      n.clinicInbox,
		Subject: fmt.Sprintf("New appointment request: %s %s", appt.AppointmentDate, appt.AppointmentTime),
		Body: fmt.Sprintf(
			"New booking request.\n\nPatient: %s\nEmail: %s\nPhone: %s\nDate: %s\nTime: %s\nConsultation: %s\nStatus: %s\n",
			appt.PatientName, appt.PatientEmail, appt.PatientPhone,
			appt.AppointmentDate, appt.AppointmentTime, appt.ConsultationType, appt.Status,
		),
	}
	if err := n.email.Send(ctx, clinicMsg); err != nil {
		n.logger.Error("clinic booking alert email failed", "error", err, "appointment_id", appt.ID)
	}
}
