package appointments

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every lifecycle status in display order.
func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// timeSlots is the fixed half-hour grid offered for every bookable day.
var timeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	"15:00", "15:30", "16:00", "16:30",
}

// consultationTypes is the fixed set of consultation categories.
var consultationTypes = []string{
	"General Consultation",
	"Follow-up",
	"Specialist Consultation",
	"Emergency",
}

// TimeSlots returns a copy of the bookable time slot labels.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// ConsultationTypes returns a copy of the consultation categories.
func ConsultationTypes() []string {
	out := make([]string, len(consultationTypes))
	copy(out, consultationTypes)
	return out
}

// ValidTimeSlot reports whether t is one of the fixed slots.
func ValidTimeSlot(t string) bool {
	for _, s := range timeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// ValidConsultationType reports whether c is in the enumerated set.
func ValidConsultationType(c string) bool {
	for _, t := range consultationTypes {
		if t == c {
			return true
		}
	}
	return false
}

// Appointment is a patient-requested consultation slot with a
// lifecycle status. Only status is mutated after creation; there is no
// deletion path.
type Appointment struct {
	ID               string    `json:"id"`
	PatientName      string    `json:"patient_name"`
	PatientEmail     string    `json:"patient_email"`
	PatientPhone     string    `json:"patient_phone"`
	AppointmentDate  string    `json:"appointment_date"`
	AppointmentTime  string    `json:"appointment_time"`
	ConsultationType string    `json:"consultation_type"`
	Status           Status    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BookingRequest is the raw booking form input. Status is deliberately
// absent: a new appointment is always created pending.
type BookingRequest struct {
	PatientName      string `json:"patient_name"`
	PatientEmail     string `json:"patient_email"`
	PatientPhone     string `json:"patient_phone"`
	ConsultationType string `json:"consultation_type"`
	AppointmentDate  string `json:"appointment_date"`
	AppointmentTime  string `json:"appointment_time"`
	Notes            string `json:"notes"`
}

// NewAppointment is the fully-normalized, store-ready record produced
// from a valid BookingRequest.
type NewAppointment struct {
	PatientName      string
	PatientEmail     string
	PatientPhone     string
	AppointmentDate  string
	AppointmentTime  string
	ConsultationType string
	Notes            string
	Status           Status
}

// DateString formats t's own calendar fields as YYYY-MM-DD. The date
// is taken from t's location, never from a serialized instant, so it
// cannot shift across a midnight boundary when the process runs in a
// different time zone.
func DateString(t time.Time) string {
	year, month, day := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// parseDate accepts a plain calendar date or a full RFC3339 timestamp
// (as date pickers tend to submit) and re-expresses it as a local
// calendar date string.
func parseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingDate
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return DateString(t), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return DateString(t), nil
	}
	return "", fmt.Errorf("%w: unrecognized date %q", ErrMissingDate, raw)
}

// Validate checks every field of the request against the booking
// rules. Availability (weekend/past-date) is checked against now.
func (r *BookingRequest) Validate(now time.Time) error {
	if len(strings.TrimSpace(r.PatientName)) < 2 {
		return ErrNameTooShort
	}
	email := strings.TrimSpace(r.PatientEmail)
	if email == "" {
		return ErrInvalidEmail
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	if len(strings.TrimSpace(r.PatientPhone)) < 8 {
		return ErrPhoneTooShort
	}
	if !ValidConsultationType(r.ConsultationType) {
		return ErrInvalidConsultationType
	}
	dateStr, err := parseDate(r.AppointmentDate)
	if err != nil {
		return err
	}
	if !SelectableDateString(dateStr, now) {
		return ErrDateUnavailable
	}
	if strings.TrimSpace(r.AppointmentTime) == "" || !ValidTimeSlot(r.AppointmentTime) {
		return ErrInvalidTimeSlot
	}
	return nil
}

// Record validates the request and builds the normalized store-ready
// record. Date, time and type presence is re-checked here as a second
// gate against partially-filled input reaching the store.
func (r *BookingRequest) Record(now time.Time) (*NewAppointment, error) {
	if err := r.Validate(now); err != nil {
		return nil, err
	}

	// Second presence gate before the record is built.
	if strings.TrimSpace(r.AppointmentDate) == "" {
		return nil, ErrMissingDate
	}
	if strings.TrimSpace(r.AppointmentTime) == "" {
		return nil, ErrInvalidTimeSlot
	}
	if strings.TrimSpace(r.ConsultationType) == "" {
		return nil, ErrInvalidConsultationType
	}

	dateStr, err := parseDate(r.AppointmentDate)
	if err != nil {
		return nil, err
	}

	return &NewAppointment{
		PatientName:      strings.TrimSpace(r.PatientName),
		PatientEmail:     strings.ToLower(strings.TrimSpace(r.PatientEmail)),
		PatientPhone:     strings.TrimSpace(r.PatientPhone),
		AppointmentDate:  dateStr,
		AppointmentTime:  r.AppointmentTime,
		ConsultationType: r.ConsultationType,
		Notes:            strings.TrimSpace(r.Notes),
		Status:           StatusPending,
	}, nil
}
