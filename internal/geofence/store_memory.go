package geofence

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"trailguard/internal/geo"
	"trailguard/pkg/sentinel"
)

// MemoryStore is an in-memory Store for unit tests and local development.
// Containment runs on the stored ring instead of PostGIS.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	fences map[int64]*Geofence
}

// NewMemory constructs an empty in-memory geofence store.
func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1, fences: map[int64]*Geofence{}}
}

func (s *MemoryStore) Create(_ context.Context, gf *Geofence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gf.ID = s.nextID
	s.nextID++
	cp := *gf
	s.fences[gf.ID] = &cp
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Geofence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Geofence, 0, len(s.fences))
	for _, gf := range s.fences {
		out = append(out, *gf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fences[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.fences, id)
	return nil
}

func (s *MemoryStore) ListGeoJSON(ctx context.Context) ([]GeoJSONRow, error) {
	fences, _ := s.List(ctx)
	out := make([]GeoJSONRow, 0, len(fences))
	for _, gf := range fences {
		geometry, err := json.Marshal(map[string]any{
			"type":        "Polygon",
			"coordinates": [][][]float64{gf.Ring.Coordinates()},
		})
		if err != nil {
			continue
		}
		out = append(out, GeoJSONRow{ID: gf.ID, Name: gf.Name, RiskLevel: gf.RiskLevel, Geometry: geometry})
	}
	return out, nil
}

func (s *MemoryStore) FindActiveContaining(_ context.Context, pt geo.Point) ([]Geofence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Geofence
	for _, gf := range s.fences {
		if gf.Active && gf.Ring.Contains(pt) {
			out = append(out, *gf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// RiskOf reports the risk level of a stored geofence. Used by the in-memory
// alert store to emulate the risk filter join.
func (s *MemoryStore) RiskOf(_ context.Context, id int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gf, ok := s.fences[id]
	if !ok {
		return "", false
	}
	return string(gf.RiskLevel), true
}

var _ Store = (*MemoryStore)(nil)
