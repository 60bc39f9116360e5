// README: In-memory review store for local runs and tests.
package reviews

import (
	"context"
	"sync"

	"mobiurban/internal/types"
)

type MemoryStore struct {
	mu      sync.RWMutex
	reviews []Review
	nextID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Create(_ context.Context, r *Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID
	s.nextID++
	s.reviews = append(s.reviews, *r)
	return nil
}

func (s *MemoryStore) GetByRide(_ context.Context, rideID types.ID) (*Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.reviews {
		if s.reviews[i].RideID == rideID {
			cp := s.reviews[i]
			return &cp, nil
		}
	}
	return nil, ErrReviewNotFound
}

func (s *MemoryStore) ListByDriver(_ context.Context, driverID types.ID) ([]*Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Review
	for i := len(s.reviews) - 1; i >= 0; i-- {
		if s.reviews[i].DriverID == driverID {
			cp := s.reviews[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) AverageByDriver(_ context.Context, driverID types.ID) (float64, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, count := 0, 0
	for i := range s.reviews {
		if s.reviews[i].DriverID == driverID {
			sum += s.reviews[i].Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}
