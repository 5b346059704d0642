package alert

import (
	"context"
	"sort"
	"sync"
	"time"

	"trailguard/pkg/sentinel"
)

// GeofenceRiskLookup resolves a geofence id to its risk level. The in-memory
// store uses it to emulate the risk filter join; the geofence MemoryStore
// satisfies it.
type GeofenceRiskLookup interface {
	RiskOf(ctx context.Context, id int64) (string, bool)
}

// MemoryStore is an in-memory Store for unit tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	alerts map[int64]*Alert
	risks  GeofenceRiskLookup
}

// NewMemory constructs an empty in-memory alert store. risks may be nil when
// the risk filter is not exercised.
func NewMemory(risks GeofenceRiskLookup) *MemoryStore {
	return &MemoryStore{nextID: 1, alerts: map[int64]*Alert{}, risks: risks}
}

func (s *MemoryStore) Create(_ context.Context, a *Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID
	s.nextID++
	if a.TS.IsZero() {
		a.TS = time.Now()
	}
	if a.Status == "" {
		a.Status = StatusNew
	}
	cp := *a
	s.alerts[a.ID] = &cp
	return nil
}

func (s *MemoryStore) List(ctx context.Context, filter ListFilter) ([]Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Alert
	for _, a := range s.alerts {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Risk != nil {
			if a.GeofenceID == nil || s.risks == nil {
				continue
			}
			risk, ok := s.risks.RiskOf(ctx, *a.GeofenceID)
			if !ok || risk != *filter.Risk {
				continue
			}
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id int64, status Status) (*Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	a.Status = status
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) HasRecentBreach(_ context.Context, userID *int64, geofenceID int64, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts {
		if a.Type != TypeGeofenceBreach || a.Status == StatusResolved {
			continue
		}
		if a.GeofenceID == nil || *a.GeofenceID != geofenceID {
			continue
		}
		if !sameUser(a.UserID, userID) {
			continue
		}
		if a.TS.Before(since) {
			continue
		}
		return true, nil
	}
	return false, nil
}

// sameUser mirrors SQL's IS NOT DISTINCT FROM: two NULLs match.
func sameUser(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

var _ Store = (*MemoryStore)(nil)
