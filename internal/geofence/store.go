package geofence

import (
	"context"

	"trailguard/internal/geo"
)

// Store persists geofences. Implementations return pkg/sentinel errors for
// factual states.
type Store interface {
	Create(ctx context.Context, gf *Geofence) error
	List(ctx context.Context) ([]Geofence, error)
	Delete(ctx context.Context, id int64) error
	ListGeoJSON(ctx context.Context) ([]GeoJSONRow, error)
	// FindActiveContaining returns the active geofences whose polygon contains
	// the point, boundary included.
	FindActiveContaining(ctx context.Context, pt geo.Point) ([]Geofence, error)
}
