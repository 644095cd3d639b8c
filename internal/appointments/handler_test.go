package appointments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu    sync.Mutex
	appts []*Appointment
	done  chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 8)}
}

func (n *recordingNotifier) BookingReceived(appt *Appointment) {
	n.mu.Lock()
	n.appts = append(n.appts, appt)
	n.mu.Unlock()
	n.done <- struct{}{}
}

func (n *recordingNotifier) wait(t *testing.T) *Appointment {
	t.Helper()
	select {
	case <-n.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("notifier was never called")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.appts[len(n.appts)-1]
}

func newHandlerFixture() (*Handler, *InMemoryRepository, *recordingNotifier, http.Handler) {
	repo := newTestRepo()
	notifier := newRecordingNotifier()
	h := NewHandler(repo, nil, notifier, 10, nil)
	h.now = func() time.Time { return testNow }

	r := chi.NewRouter()
	r.Post("/api/bookings", h.CreateBooking)
	r.Get("/api/bookings/options", h.GetOptions)
	r.Get("/admin/api/appointments", h.ListAppointments)
	r.Patch("/admin/api/appointments/{id}/status", h.UpdateStatus)
	r.Get("/admin/api/dashboard", h.Dashboard)
	return h, repo, notifier, r
}

func bookingBody(mutate func(*BookingRequest)) *bytes.Buffer {
	req := validRequest()
	if mutate != nil {
		mutate(req)
	}
	buf := &bytes.Buffer{}
	_ = json.NewEncoder(buf).Encode(req)
	return buf
}

func TestCreateBookingReturnsCreatedAppointment(t *testing.T) {
	_, _, notifier, router := newHandlerFixture()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/bookings", bookingBody(nil)))

	require.Equal(t, http.StatusCreated, rr.Code)

	var appt Appointment
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&appt))
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, StatusPending, appt.Status)

	sent := notifier.wait(t)
	assert.Equal(t, appt.ID, sent.ID)
}

func TestCreateBookingValidationErrorNamesField(t *testing.T) {
	_, _, _, router := newHandlerFixture()

	body := bookingBody(func(r *BookingRequest) { r.PatientEmail = "nope" })
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/bookings", body))

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "patient_email", resp.Field)
	assert.Equal(t, ErrInvalidEmail.Error(), resp.Error)
}

func TestCreateBookingMalformedJSON(t *testing.T) {
	_, _, _, router := newHandlerFixture()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBufferString("{")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateBookingSlotConflictIs409(t *testing.T) {
	_, _, _, router := newHandlerFixture()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/bookings", bookingBody(nil)))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/bookings", bookingBody(func(r *BookingRequest) {
		r.PatientName = "Maria Santos"
		r.PatientEmail = "maria@clinic.example"
	})))

	require.Equal(t, http.StatusConflict, rr.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "This appointment slot may already be taken.", resp.Error)
}

func TestCreateBookingIgnoresClientStatus(t *testing.T) {
	_, _, _, router := newHandlerFixture()

	// A status field in the payload has no matching request field and
	// must not leak into the stored record.
	payload := []byte(`{
		"patient_name": "Jo Lee",
		"patient_email": "jo@x.com",
		"patient_phone": "5551234567",
		"consultation_type": "Follow-up",
		"appointment_date": "2025-03-10",
		"appointment_time": "11:00",
		"status": "confirmed"
	}`)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewBuffer(payload)))

	require.Equal(t, http.StatusCreated, rr.Code)

	var appt Appointment
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&appt))
	assert.Equal(t, StatusPending, appt.Status)
}

func TestGetOptions(t *testing.T) {
	_, _, _, router := newHandlerFixture()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/bookings/options", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var opts BookingOptions
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&opts))
	assert.Equal(t, "2025-03-05", opts.MinDate)
	assert.Len(t, opts.TimeSlots, 16)
}

func seedAppointments(t *testing.T, router http.Handler, n int) []Appointment {
	t.Helper()
	created := make([]Appointment, 0, n)
	for i := 0; i < n; i++ {
		body := bookingBody(func(r *BookingRequest) {
			r.AppointmentTime = TimeSlots()[i]
			r.PatientName = fmt.Sprintf("Patient %d", i)
			r.PatientEmail = fmt.Sprintf("p%d@x.com", i)
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/bookings", body))
		require.Equal(t, http.StatusCreated, rr.Code)
		var appt Appointment
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&appt))
		created = append(created, appt)
	}
	return created
}

func TestListAppointmentsWithFilters(t *testing.T) {
	_, _, _, router := newHandlerFixture()
	seedAppointments(t, router, 3)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/api/appointments", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ListAppointmentsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Count)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/api/appointments?q=patient+1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Patient 1", resp.Appointments[0].PatientName)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/api/appointments?status=completed", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Count)
}

func TestUpdateStatusReturnsRefreshedList(t *testing.T) {
	_, _, _, router := newHandlerFixture()
	created := seedAppointments(t, router, 2)

	body := bytes.NewBufferString(`{"status": "confirmed"}`)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/admin/api/appointments/"+created[0].ID+"/status", body))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ListAppointmentsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, 2, resp.Count)

	statusByID := map[string]Status{}
	for _, rec := range resp.Appointments {
		statusByID[rec.ID] = rec.Status
	}
	assert.Equal(t, StatusConfirmed, statusByID[created[0].ID])
	assert.Equal(t, StatusPending, statusByID[created[1].ID])
}

func TestUpdateStatusRejectsBadInput(t *testing.T) {
	_, _, _, router := newHandlerFixture()
	created := seedAppointments(t, router, 1)

	// Non-UUID id.
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/admin/api/appointments/not-a-uuid/status",
		bytes.NewBufferString(`{"status": "confirmed"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown status value.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/admin/api/appointments/"+created[0].ID+"/status",
		bytes.NewBufferString(`{"status": "archived"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateStatusUnknownAppointmentIs404(t *testing.T) {
	_, _, _, router := newHandlerFixture()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch,
		"/admin/api/appointments/b6f6ed54-1111-4222-8333-444455556666/status",
		bytes.NewBufferString(`{"status": "confirmed"}`)))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDashboardSummarizesRecentBatch(t *testing.T) {
	h, _, _, router := newHandlerFixture()
	h.recentLimit = 10
	seedAppointments(t, router, 7)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/api/dashboard", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp DashboardResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 7, resp.Stats.Total)
	assert.Equal(t, 7, resp.Stats.Pending)
	assert.Equal(t, 0, resp.Stats.Today)
	assert.Len(t, resp.Recent, recentDisplayCount)
}
