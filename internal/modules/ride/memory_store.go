// README: In-memory ride store with the same conditional-update semantics as
// the PostgreSQL store. Used for local runs without a database and in tests.
package ride

import (
	"context"
	"sort"
	"sync"
	"time"

	"mobiurban/internal/types"
)

type MemoryStore struct {
	mu     sync.Mutex
	rides  map[types.ID]*Ride
	events []Event
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rides: make(map[types.ID]*Ride), nextID: 1}
}

func (s *MemoryStore) Create(_ context.Context, r *Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.rides[r.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id types.ID) (*Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rides[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) ListByStatus(_ context.Context, status Status) ([]*Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Ride
	for _, r := range s.rides {
		if r.Status == status {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ListByPassenger(_ context.Context, passengerID types.ID) ([]*Ride, error) {
	return s.listBy(func(r *Ride) bool { return r.PassengerID == passengerID })
}

func (s *MemoryStore) ListByDriver(_ context.Context, driverID types.ID) ([]*Ride, error) {
	return s.listBy(func(r *Ride) bool { return r.DriverID != nil && *r.DriverID == driverID })
}

func (s *MemoryStore) listBy(match func(*Ride) bool) ([]*Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Ride
	for _, r := range s.rides {
		if match(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateStatus applies the transition only if the stored status and version
// still match, mirroring the SQL conditional update.
func (s *MemoryStore) UpdateStatus(_ context.Context, upd StatusUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rides[upd.RideID]
	if !ok {
		return false, ErrNotFound
	}
	if r.Status != upd.From || r.StatusVersion != upd.FromVersion {
		return false, nil
	}

	now := time.Now()
	r.Status = upd.To
	r.StatusVersion++
	if upd.DriverID != nil {
		d := *upd.DriverID
		r.DriverID = &d
	}
	if upd.FinalFare != nil {
		m := *upd.FinalFare
		r.FinalFare = &m
	}
	if upd.CancelReason != nil {
		reason := *upd.CancelReason
		r.CancelReason = &reason
	}
	switch upd.To {
	case StatusAccepted:
		r.AcceptedAt = &now
	case StatusInProgress:
		r.StartedAt = &now
	case StatusCompleted:
		r.CompletedAt = &now
	case StatusCancelled:
		r.CancelledAt = &now
	}
	return true, nil
}

func (s *MemoryStore) AppendEvent(_ context.Context, e *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	cp.ID = s.nextID
	s.nextID++
	s.events = append(s.events, cp)
	return nil
}

// Events returns a copy of the recorded transition log.
func (s *MemoryStore) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *MemoryStore) HasActiveByPassenger(_ context.Context, passengerID types.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rides {
		if r.PassengerID == passengerID && !IsTerminal(r.Status) {
			return true, nil
		}
	}
	return false, nil
}
