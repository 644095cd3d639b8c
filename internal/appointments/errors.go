package appointments

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Validation errors are field-scoped and block submission before any
// store call is made.
var (
	// ErrNameTooShort is returned when the patient name has fewer than 2 characters
	ErrNameTooShort = errors.New("name must be at least 2 characters")

	// ErrInvalidEmail is returned when the patient email is not a valid address
	ErrInvalidEmail = errors.New("please enter a valid email")

	// ErrPhoneTooShort is returned when the phone number has fewer than 8 characters
	ErrPhoneTooShort = errors.New("please enter a valid phone number")

	// ErrInvalidConsultationType is returned when the consultation type is not in the enumerated set
	ErrInvalidConsultationType = errors.New("please select a consultation type")

	// ErrMissingDate is returned when no appointment date was supplied
	ErrMissingDate = errors.New("please select a date")

	// ErrDateUnavailable is returned for weekend or past dates
	ErrDateUnavailable = errors.New("selected date is not available for booking")

	// ErrInvalidTimeSlot is returned when the time is not one of the fixed half-hour slots
	ErrInvalidTimeSlot = errors.New("please select a time")

	// ErrInvalidStatus is returned when a status value is not one of the four lifecycle statuses
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrNotFound is returned when an appointment id does not exist
	ErrNotFound = errors.New("appointment not found")
)

// Store errors, classified from the underlying driver error.
var (
	ErrSlotTaken        = errors.New("appointment slot already taken")
	ErrTableMissing     = errors.New("appointments table not found")
	ErrPermissionDenied = errors.New("permission denied by database")
	ErrConnectivity     = errors.New("database unreachable")
)

// Postgres error codes the classifier recognizes.
const (
	pgUniqueViolation       = "23505"
	pgUndefinedTable        = "42P01"
	pgInsufficientPrivilege = "42501"
)

// ClassifyStoreError maps a driver error onto one of the store error
// sentinels, wrapping the original for diagnostics. Unrecognized errors
// pass through unchanged.
func ClassifyStoreError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrSlotTaken, pgErr.Message)
		case pgUndefinedTable:
			return fmt.Errorf("%w: %s", ErrTableMissing, pgErr.Message)
		case pgInsufficientPrivilege:
			return fmt.Errorf("%w: %s", ErrPermissionDenied, pgErr.Message)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "network") {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	if strings.Contains(msg, "permission") {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	return err
}

// UserMessage renders a store or validation error as the human-readable
// notification shown to the patient or staff member.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSlotTaken):
		return "This appointment slot may already be taken."
	case errors.Is(err, ErrTableMissing):
		return "Database table not found. Please contact support."
	case errors.Is(err, ErrPermissionDenied):
		return "Permission denied. Please check database settings."
	case errors.Is(err, ErrConnectivity):
		return "Network error. Please check your connection."
	case errors.Is(err, ErrNotFound):
		return "Appointment not found."
	default:
		return fmt.Sprintf("Failed to book appointment: %s", err.Error())
	}
}

// ValidationField names the form field a validation error belongs to,
// or "" for non-validation errors.
func ValidationField(err error) string {
	switch {
	case errors.Is(err, ErrNameTooShort):
		return "patient_name"
	case errors.Is(err, ErrInvalidEmail):
		return "patient_email"
	case errors.Is(err, ErrPhoneTooShort):
		return "patient_phone"
	case errors.Is(err, ErrInvalidConsultationType):
		return "consultation_type"
	case errors.Is(err, ErrMissingDate), errors.Is(err, ErrDateUnavailable):
		return "appointment_date"
	case errors.Is(err, ErrInvalidTimeSlot):
		return "appointment_time"
	default:
		return ""
	}
}
