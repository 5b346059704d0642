package location

import (
	"context"
	"time"

	"trailguard/internal/alert"
	"trailguard/internal/geo"
	"trailguard/internal/geofence"
	"trailguard/internal/platform/config"
	"trailguard/internal/platform/metrics"
	dErrors "trailguard/pkg/domain-errors"
	"trailguard/pkg/tx"
)

// GeofenceFinder is the slice of the geofence store the ingest flow needs.
type GeofenceFinder interface {
	FindActiveContaining(ctx context.Context, pt geo.Point) ([]geofence.Geofence, error)
}

// AlertStore is the slice of the alert store the ingest flow needs.
type AlertStore interface {
	Create(ctx context.Context, a *alert.Alert) error
	HasRecentBreach(ctx context.Context, userID *int64, geofenceID int64, since time.Time) (bool, error)
}

// Service implements location ingestion with geofence-breach detection. The
// whole flow runs in one transaction: the location insert, the containment
// query, the dedup checks, and the alert inserts commit together.
//
// The dedup check and the alert insert are not atomic as a unit; two
// concurrent ingests for the same user inside the window can both create
// alerts. The application adds no locking on top of the database defaults.
type Service struct {
	locations Store
	geofences GeofenceFinder
	alerts    AlertStore
	runner    tx.Runner
	metrics   *metrics.Metrics
	now       func() time.Time
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithClock sets the clock used for the dedup window. For tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs the ingestion service.
func NewService(locations Store, geofences GeofenceFinder, alerts AlertStore, runner tx.Runner, m *metrics.Metrics, opts ...ServiceOption) *Service {
	s := &Service{
		locations: locations,
		geofences: geofences,
		alerts:    alerts,
		runner:    runner,
		metrics:   m,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest persists the point and returns the breach alerts it produced (empty
// when the point is outside every active geofence or every breach was
// deduplicated). Ingestion itself never fails because of alerting: the
// location row is part of the same transaction, so the only way to lose it is
// a database failure that fails the whole request.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) ([]alert.Alert, error) {
	source := SourceWeb
	if req.Source != "" {
		parsed, ok := ParseSource(req.Source)
		if !ok {
			return nil, dErrors.New(dErrors.CodeBadRequest, "invalid source")
		}
		source = parsed
	}

	pt := geo.Point{Lng: req.Lng, Lat: req.Lat}
	created := []alert.Alert{}

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		loc := &Location{UserID: req.UserID, Point: pt, Speed: req.Speed, Source: source}
		if err := s.locations.Insert(ctx, loc); err != nil {
			return err
		}

		fences, err := s.geofences.FindActiveContaining(ctx, pt)
		if err != nil {
			return err
		}

		windowStart := s.now().UTC().Add(-config.BreachDedupWindow)
		for _, gf := range fences {
			exists, err := s.alerts.HasRecentBreach(ctx, req.UserID, gf.ID, windowStart)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			severity := 1
			if gf.RiskLevel == geofence.RiskHigh {
				severity = 2
			}
			gfID := gf.ID
			a := &alert.Alert{
				Type:       alert.TypeGeofenceBreach,
				UserID:     req.UserID,
				GeofenceID: &gfID,
				Point:      &pt,
				Severity:   severity,
				Status:     alert.StatusNew,
			}
			if err := s.alerts.Create(ctx, a); err != nil {
				return err
			}
			created = append(created, *a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementLocationsIngested()
	for range created {
		s.metrics.IncrementAlertsCreated(string(alert.TypeGeofenceBreach))
	}
	return created, nil
}
