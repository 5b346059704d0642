package geofence

import (
	"encoding/json"

	"trailguard/internal/geo"
)

// RiskLevel classifies how dangerous a zone is. High-risk breaches produce
// severity-2 alerts.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseRiskLevel validates a risk level string.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), true
	}
	return "", false
}

// Geofence is a named polygon with a risk level. Only existence is modeled:
// no versioning, no overlap resolution, no update operation.
type Geofence struct {
	ID        int64
	Name      string
	RiskLevel RiskLevel
	Ring      geo.Ring // populated on create and by the memory store; list reads skip it
	Active    bool
}

// GeoJSONRow is one geofence with its geometry already serialized by the
// store (PostGIS ST_AsGeoJSON, or marshalled from the in-memory ring).
type GeoJSONRow struct {
	ID        int64
	Name      string
	RiskLevel RiskLevel
	Geometry  json.RawMessage
}
