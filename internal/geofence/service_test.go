package geofence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "trailguard/pkg/domain-errors"
)

type GeofenceServiceSuite struct {
	suite.Suite
	store   *MemoryStore
	service *Service
}

func TestGeofenceServiceSuite(t *testing.T) {
	suite.Run(t, new(GeofenceServiceSuite))
}

func (s *GeofenceServiceSuite) SetupTest() {
	s.store = NewMemory()
	s.service = NewService(s.store)
}

var squareCoords = [][][]float64{{
	{77.0, 12.0}, {78.0, 12.0}, {78.0, 13.0}, {77.0, 13.0}, {77.0, 12.0},
}}

func (s *GeofenceServiceSuite) TestCreate() {
	ctx := context.Background()

	s.Run("stores the first ring active", func() {
		gf, err := s.service.Create(ctx, "old town", RiskHigh, squareCoords)
		s.Require().NoError(err)
		s.NotZero(gf.ID)
		s.True(gf.Active)
		s.Equal(RiskHigh, gf.RiskLevel)
		s.Len(gf.Ring, 4)
	})

	s.Run("extra rings are ignored", func() {
		withHole := append(squareCoords, [][]float64{
			{77.4, 12.4}, {77.6, 12.4}, {77.6, 12.6}, {77.4, 12.4},
		})
		gf, err := s.service.Create(ctx, "with hole", RiskLow, withHole)
		s.Require().NoError(err)
		s.Len(gf.Ring, 4)
	})

	s.Run("empty coordinates rejected", func() {
		_, err := s.service.Create(ctx, "empty", RiskLow, nil)
		s.Require().Error(err)
		s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
		s.Contains(err.Error(), "invalid polygon coordinates")
	})

	s.Run("degenerate ring rejected", func() {
		_, err := s.service.Create(ctx, "line", RiskLow, [][][]float64{{
			{0, 0}, {1, 1}, {0, 0},
		}})
		s.Require().Error(err)
		s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
	})
}

func (s *GeofenceServiceSuite) TestDelete() {
	ctx := context.Background()
	gf, err := s.service.Create(ctx, "doomed", RiskLow, squareCoords)
	s.Require().NoError(err)

	s.Run("removes existing geofence", func() {
		s.Require().NoError(s.service.Delete(ctx, gf.ID))
		fences, err := s.service.List(ctx)
		s.Require().NoError(err)
		s.Empty(fences)
	})

	s.Run("unknown id fails with not found", func() {
		err := s.service.Delete(ctx, 9999)
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func (s *GeofenceServiceSuite) TestExportGeoJSON() {
	ctx := context.Background()
	_, err := s.service.Create(ctx, "zone a", RiskMedium, squareCoords)
	s.Require().NoError(err)

	fc, err := s.service.ExportGeoJSON(ctx)
	s.Require().NoError(err)
	s.Equal("FeatureCollection", fc.Type)
	s.Require().Len(fc.Features, 1)

	feature := fc.Features[0]
	s.Equal("Feature", feature.Type)
	s.Equal("zone a", feature.Properties["name"])
	s.Equal("medium", feature.Properties["risk_level"])

	raw, err := json.Marshal(feature.Geometry)
	s.Require().NoError(err)

	var geom struct {
		Type        string        `json:"type"`
		Coordinates [][][]float64 `json:"coordinates"`
	}
	s.Require().NoError(json.Unmarshal(raw, &geom))
	s.Equal("Polygon", geom.Type)
	s.Require().Len(geom.Coordinates, 1)
	// Exported rings are closed: first vertex repeated at the end.
	ring := geom.Coordinates[0]
	s.Equal(ring[0], ring[len(ring)-1])
}
