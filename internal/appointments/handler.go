package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oakwell-health/clinic-booking/internal/observability/metrics"
	"github.com/oakwell-health/clinic-booking/pkg/logging"
)

// Notifier is told about accepted bookings; sends are best-effort.
type Notifier interface {
	BookingReceived(appt *Appointment)
}

// Handler handles HTTP requests for the booking form and the admin
// review views.
type Handler struct {
	repo        Repository
	metrics     *metrics.BookingMetrics
	notifier    Notifier
	logger      *logging.Logger
	listSnap    *Snapshot
	recentSnap  *Snapshot
	recentLimit int
	now         func() time.Time
}

// NewHandler creates an appointments handler. notifier and m may be nil.
func NewHandler(repo Repository, m *metrics.BookingMetrics, notifier Notifier, recentLimit int, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &Handler{
		repo:        repo,
		metrics:     m,
		notifier:    notifier,
		logger:      logger,
		listSnap:    NewSnapshot(),
		recentSnap:  NewSnapshot(),
		recentLimit: recentLimit,
		now:         time.Now,
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	// Validation happens entirely before any store call.
	if err := req.Validate(h.now()); err != nil {
		field := ValidationField(err)
		h.metrics.ObserveValidationFailure(field)
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: field})
		return
	}

	appt, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		h.metrics.ObserveStoreError(storeErrorKind(err))
		respondJSON(w, storeErrorStatus(err), errorResponse{Error: UserMessage(err)})
		return
	}

	h.logger.Info("appointment booked",
		"id", appt.ID,
		"date", appt.AppointmentDate,
		"time", appt.AppointmentTime,
		"consultation_type", appt.ConsultationType,
	)
	h.metrics.ObserveBookingCreated(appt.ConsultationType)

	if h.notifier != nil {
		go h.notifier.BookingReceived(appt)
	}

	respondJSON(w, http.StatusCreated, appt)
}

// GetOptions handles GET /api/bookings/options: the static slot list
// and the calendar policy the form needs to disable dates.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Options(h.now()))
}

// ListAppointmentsResponse is the response for the admin list view.
type ListAppointmentsResponse struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
}

// ListAppointments handles GET /admin/api/appointments?status=&q=.
// The full ordered set is fetched into the snapshot; filters apply in
// memory over that snapshot.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	records, err := h.listSnap.Refresh(r.Context(), h.repo.List)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		h.metrics.ObserveStoreError(storeErrorKind(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load appointments"})
		return
	}

	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("q"),
	}
	filtered := filter.Apply(records)

	respondJSON(w, http.StatusOK, ListAppointmentsResponse{
		Appointments: filtered,
		Count:        len(filtered),
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /admin/api/appointments/{id}/status. The
// update touches only the status field; the refreshed full list is
// returned so the view reflects the store, not an optimistic guess.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid appointment id"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	previous := h.previousStatus(id)

	if err := h.repo.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			respondJSON(w, http.StatusNotFound, errorResponse{Error: UserMessage(err)})
			return
		}
		h.logger.Error("failed to update appointment status", "error", err, "id", id)
		h.metrics.ObserveStoreError(storeErrorKind(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to update appointment"})
		return
	}

	h.logger.Info("appointment status updated", "id", id, "from", previous, "to", status)
	h.metrics.ObserveStatusTransition(previous, string(status))

	// Full refetch after the targeted update; the response carries the
	// refreshed list rather than an optimistic local mutation.
	records, err := h.listSnap.Refresh(r.Context(), h.repo.List)
	if err != nil {
		h.logger.Error("refetch after status update failed", "error", err)
		respondJSON(w, http.StatusOK, ListAppointmentsResponse{
			Appointments: h.listSnap.Records(),
			Count:        len(h.listSnap.Records()),
		})
		return
	}
	respondJSON(w, http.StatusOK, ListAppointmentsResponse{
		Appointments: records,
		Count:        len(records),
	})
}

// DashboardResponse is the recent-snapshot summary for the dashboard.
type DashboardResponse struct {
	Stats  DashboardStats `json:"stats"`
	Recent []Appointment  `json:"recent_appointments"`
}

// recentDisplayCount is how many of the fetched batch the dashboard
// lists below the stat cards.
const recentDisplayCount = 5

// Dashboard handles GET /admin/api/dashboard. Counts are computed over
// the bounded recent batch only, never the whole table.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	records, err := h.recentSnap.Refresh(r.Context(), func(ctx context.Context) ([]Appointment, error) {
		return h.repo.ListRecent(ctx, h.recentLimit)
	})
	if err != nil {
		h.logger.Error("failed to load dashboard data", "error", err)
		h.metrics.ObserveStoreError(storeErrorKind(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load dashboard"})
		return
	}

	stats := Summarize(records, DateString(h.now()))

	recent := records
	if len(recent) > recentDisplayCount {
		recent = recent[:recentDisplayCount]
	}

	respondJSON(w, http.StatusOK, DashboardResponse{Stats: stats, Recent: recent})
}

// previousStatus reports the status the snapshot last saw for id, for
// transition logging. "unknown" when the record was never fetched.
func (h *Handler) previousStatus(id string) string {
	for _, rec := range h.listSnap.Records() {
		if rec.ID == id {
			return string(rec.Status)
		}
	}
	for _, rec := range h.recentSnap.Records() {
		if rec.ID == id {
			return string(rec.Status)
		}
	}
	return "unknown"
}

func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return http.StatusConflict
	case errors.Is(err, ErrConnectivity):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNameTooShort),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrPhoneTooShort),
		errors.Is(err, ErrInvalidConsultationType),
		errors.Is(err, ErrMissingDate),
		errors.Is(err, ErrDateUnavailable),
		errors.Is(err, ErrInvalidTimeSlot):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func storeErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, ErrTableMissing):
		return "table_missing"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrConnectivity):
		return "connectivity"
	default:
		return "unknown"
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
