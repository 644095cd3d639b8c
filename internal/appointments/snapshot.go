package appointments

import (
	"context"
	"sync"
)

// Snapshot holds the most recently fetched copy of appointment records
// used for in-memory filtering and summary counts. Each refresh is
// stamped with a request generation so a slow fetch that resolves late
// cannot overwrite the result of a newer one.
type Snapshot struct {
	mu      sync.Mutex
	seq     uint64
	applied uint64
	records []Appointment
}

// NewSnapshot returns an empty snapshot holder.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Refresh runs the loader and installs its result unless a
// later-issued refresh already completed. It returns the snapshot
// contents current after this call.
func (s *Snapshot) Refresh(ctx context.Context, load func(context.Context) ([]Appointment, error)) ([]Appointment, error) {
	s.mu.Lock()
	s.seq++
	gen := s.seq
	s.mu.Unlock()

	records, err := load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen > s.applied {
		s.applied = gen
		s.records = cloneRecords(records)
	}
	return cloneRecords(s.records), nil
}

// Records returns a copy of the current snapshot contents.
func (s *Snapshot) Records() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.records)
}

func cloneRecords(records []Appointment) []Appointment {
	out := make([]Appointment, len(records))
	copy(out, records)
	return out
}
