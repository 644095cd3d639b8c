package appointments

import "strings"

// StatusFilterAll passes every record through the status filter.
const StatusFilterAll = "all"

// ListFilter is applied in memory over an already-fetched snapshot,
// as a conjunction of a status filter and a free-text filter.
type ListFilter struct {
	// Status is one of the four lifecycle statuses, or "all"/"" for no
	// status filtering.
	Status string
	// Search matches case-insensitively against patient name or email,
	// and as a raw substring against the phone number.
	Search string
}

// Apply returns the records passing both filters, preserving input
// order. The input slice is never mutated.
func (f ListFilter) Apply(records []Appointment) []Appointment {
	out := make([]Appointment, 0, len(records))
	for _, rec := range records {
		if f.matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (f ListFilter) matches(rec Appointment) bool {
	if f.Status != "" && f.Status != StatusFilterAll && string(rec.Status) != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(rec.PatientName), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.PatientEmail), needle) {
		return true
	}
	// Phone numbers have no case; match the raw input.
	return strings.Contains(rec.PatientPhone, f.Search)
}
