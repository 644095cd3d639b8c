package appointments

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage
type Repository interface {
	// Create validates and inserts a new appointment; status is always
	// forced to pending regardless of any client-supplied value.
	Create(ctx context.Context, req *BookingRequest) (*Appointment, error)
	// List returns every appointment ordered by appointment_date
	// ascending, then appointment_time ascending.
	List(ctx context.Context) ([]Appointment, error)
	// ListRecent returns up to limit appointments ordered by created_at
	// descending.
	ListRecent(ctx context.Context, limit int) ([]Appointment, error)
	// UpdateStatus changes only the status field of the identified
	// appointment.
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// InMemoryRepository is a Repository backed by process memory, used in
// tests and when no database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Appointment
	order []string // ids in insertion order
	now   func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID: make(map[string]*Appointment),
		now:  time.Now,
	}
}

// Create validates, normalizes, and stores a new pending appointment.
// The unique slot constraint of the real store is mirrored here.
func (r *InMemoryRepository) Create(ctx context.Context, req *BookingRequest) (*Appointment, error) {
	record, err := req.Record(r.now())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.AppointmentDate == record.AppointmentDate && existing.AppointmentTime == record.AppointmentTime {
			return nil, fmt.Errorf("%w: %s %s", ErrSlotTaken, record.AppointmentDate, record.AppointmentTime)
		}
	}

	now := r.now().UTC()
	appt := &Appointment{
		ID:               uuid.New().String(),
		PatientName:      record.PatientName,
		PatientEmail:     record.PatientEmail,
		PatientPhone:     record.PatientPhone,
		AppointmentDate:  record.AppointmentDate,
		AppointmentTime:  record.AppointmentTime,
		ConsultationType: record.ConsultationType,
		Status:           record.Status,
		Notes:            record.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	r.byID[appt.ID] = appt
	r.order = append(r.order, appt.ID)
	return cloneAppointment(appt), nil
}

// List returns all appointments ordered by date then time.
func (r *InMemoryRepository) List(ctx context.Context) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.byID))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	return out, nil
}

// ListRecent returns the newest appointments first, bounded by limit.
func (r *InMemoryRepository) ListRecent(ctx context.Context, limit int) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.byID))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, *r.byID[r.order[i]])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateStatus changes the status of a stored appointment.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	appt.Status = status
	appt.UpdatedAt = r.now().UTC()
	return nil
}

func cloneAppointment(a *Appointment) *Appointment {
	c := *a
	return &c
}
