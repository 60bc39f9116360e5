package drivers

import (
	"context"
	"sort"
	"sync"

	"github.com/mmcloughlin/geohash"

	"mobiurban/internal/modules/location"
	"mobiurban/internal/types"
)

// geohashPrecision 5 gives ~4.9km cells; a cell plus its neighbors covers
// any radius up to roughly that size, and larger radii fall back to a full
// scan of the bucketed entries anyway since the map is small.
const geohashPrecision = 5

type memoryEntry struct {
	driverID types.ID
	coord    types.Coordinate
	hash     string
}

// MemoryIndex is a process-local GeoIndex bucketed by geohash cell.
type MemoryIndex struct {
	mu      sync.RWMutex
	drivers map[types.ID]*memoryEntry
	buckets map[string]map[types.ID]struct{}
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		drivers: make(map[types.ID]*memoryEntry),
		buckets: make(map[string]map[types.ID]struct{}),
	}
}

func (s *MemoryIndex) Update(_ context.Context, driverID types.ID, c types.Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.drivers[driverID]; ok {
		delete(s.buckets[prev.hash], driverID)
	}
	h := geohash.EncodeWithPrecision(c.Lat, c.Lng, geohashPrecision)
	s.drivers[driverID] = &memoryEntry{driverID: driverID, coord: c, hash: h}
	if s.buckets[h] == nil {
		s.buckets[h] = make(map[types.ID]struct{})
	}
	s.buckets[h][driverID] = struct{}{}
	return nil
}

func (s *MemoryIndex) Remove(_ context.Context, driverID types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.drivers[driverID]; ok {
		delete(s.buckets[prev.hash], driverID)
		delete(s.drivers, driverID)
	}
	return nil
}

func (s *MemoryIndex) Nearby(_ context.Context, center types.Coordinate, radiusKm float64) ([]Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Position
	for _, id := range s.candidateIDs(center, radiusKm) {
		e := s.drivers[id]
		d := location.DistanceKm(center, e.coord)
		if d <= radiusKm {
			out = append(out, Position{DriverID: e.driverID, Coordinate: e.coord, DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].DriverID < out[j].DriverID
	})
	return out, nil
}

func (s *MemoryIndex) candidateIDs(center types.Coordinate, radiusKm float64) []types.ID {
	// A cell plus its eight neighbors only bounds small radii; beyond that
	// every entry is a candidate.
	if radiusKm > 4.9 {
		ids := make([]types.ID, 0, len(s.drivers))
		for id := range s.drivers {
			ids = append(ids, id)
		}
		return ids
	}

	h := geohash.EncodeWithPrecision(center.Lat, center.Lng, geohashPrecision)
	cells := append(geohash.Neighbors(h), h)
	var ids []types.ID
	for _, cell := range cells {
		for id := range s.buckets[cell] {
			ids = append(ids, id)
		}
	}
	return ids
}
