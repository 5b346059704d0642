package alert

import (
	"context"
	"time"
)

// Store persists alerts. Implementations return pkg/sentinel errors for
// factual states.
type Store interface {
	Create(ctx context.Context, a *Alert) error
	List(ctx context.Context, filter ListFilter) ([]Alert, error)
	// UpdateStatus sets the status unconditionally and returns the updated row.
	UpdateStatus(ctx context.Context, id int64, status Status) (*Alert, error)
	// HasRecentBreach reports whether a non-resolved geofence_breach alert
	// exists for the (user, geofence) pair at or after since. A nil userID
	// matches rows whose user id is NULL.
	HasRecentBreach(ctx context.Context, userID *int64, geofenceID int64, since time.Time) (bool, error)
}
