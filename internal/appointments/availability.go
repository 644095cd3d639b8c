package appointments

import "time"

// SelectableDate reports whether d may be booked: today or later, and
// not a Saturday or Sunday. Time-of-day is zeroed on both sides before
// comparison.
func SelectableDate(d, now time.Time) bool {
	day := startOfDay(d)
	today := startOfDay(now)
	if day.Before(today) {
		return false
	}
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// SelectableDateString applies the availability policy to a YYYY-MM-DD
// string. Malformed dates are never selectable.
func SelectableDateString(date string, now time.Time) bool {
	d, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return false
	}
	return SelectableDate(d, now)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// BookingOptions describes what the booking form may offer. Slots are
// a static list independent of date, consultation type, or existing
// bookings; double-booking is only caught by the store's unique slot
// constraint at insert time.
type BookingOptions struct {
	TimeSlots         []string `json:"time_slots"`
	ConsultationTypes []string `json:"consultation_types"`
	MinDate           string   `json:"min_date"`
	ClosedWeekdays    []string `json:"closed_weekdays"`
}

// Options returns the current booking options, with MinDate set to the
// local calendar date of now.
func Options(now time.Time) BookingOptions {
	return BookingOptions{
		TimeSlots:         TimeSlots(),
		ConsultationTypes: ConsultationTypes(),
		MinDate:           DateString(now),
		ClosedWeekdays:    []string{time.Saturday.String(), time.Sunday.String()},
	}
}
