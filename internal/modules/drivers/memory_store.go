package drivers

import (
	"context"
	"sync"
	"time"

	"mobiurban/internal/types"
)

// MemoryProfileStore backs the driver registry when no database is
// configured. Safe for concurrent use.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[types.ID]*Profile
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{profiles: make(map[types.ID]*Profile)}
}

func (s *MemoryProfileStore) Upsert(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *MemoryProfileStore) Get(_ context.Context, id types.ID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryProfileStore) ListByIDs(_ context.Context, ids []types.ID) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Profile
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryProfileStore) SetOnline(_ context.Context, id types.ID, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return ErrProfileNotFound
	}
	p.Online = online
	p.LastSeen = time.Now()
	return nil
}

func (s *MemoryProfileStore) UpdateRating(_ context.Context, id types.ID, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return ErrProfileNotFound
	}
	p.Rating = rating
	return nil
}
