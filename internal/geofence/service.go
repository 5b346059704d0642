package geofence

import (
	"context"
	"errors"

	"trailguard/internal/geo"
	dErrors "trailguard/pkg/domain-errors"
	"trailguard/pkg/sentinel"
)

// Service implements geofence management. Only the first (outer) ring of the
// submitted coordinates is used.
type Service struct {
	store Store
}

// NewService constructs the geofence service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates the polygon and stores it active.
func (s *Service) Create(ctx context.Context, name string, risk RiskLevel, coordinates [][][]float64) (*Geofence, error) {
	if len(coordinates) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid polygon coordinates")
	}
	ring, err := geo.RingFromCoordinates(coordinates[0])
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid polygon coordinates")
	}

	gf := &Geofence{Name: name, RiskLevel: risk, Ring: ring, Active: true}
	if err := s.store.Create(ctx, gf); err != nil {
		return nil, err
	}
	return gf, nil
}

// List returns all geofences, active or not.
func (s *Service) List(ctx context.Context) ([]Geofence, error) {
	return s.store.List(ctx)
}

// Delete removes the geofence row. No soft delete.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "not found")
		}
		return err
	}
	return nil
}

// Feature is a GeoJSON Feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   any            `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ExportGeoJSON maps each geofence to a Feature. Rows whose geometry failed
// to serialize were already skipped by the store.
func (s *Service) ExportGeoJSON(ctx context.Context) (*FeatureCollection, error) {
	rows, err := s.store.ListGeoJSON(ctx)
	if err != nil {
		return nil, err
	}
	fc := &FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(rows))}
	for _, row := range rows {
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Geometry: row.Geometry,
			Properties: map[string]any{
				"id":         row.ID,
				"name":       row.Name,
				"risk_level": string(row.RiskLevel),
			},
		})
	}
	return fc, nil
}
