package appointments

// DashboardStats is a recent-snapshot summary: every count is computed
// over the bounded batch of most recently created appointments, not
// the whole table.
type DashboardStats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// Summarize scans the batch and tallies per-status counts plus the
// number of appointments whose date string equals today exactly.
func Summarize(records []Appointment, today string) DashboardStats {
	stats := DashboardStats{Total: len(records)}
	for _, rec := range records {
		if rec.AppointmentDate == today {
			stats.Today++
		}
		switch rec.Status {
		case StatusPending:
			stats.Pending++
		case StatusConfirmed:
			stats.Confirmed++
		case StatusCompleted:
			stats.Completed++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}
