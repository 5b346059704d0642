package alert

import (
	"time"

	"trailguard/internal/geo"
)

// Type discriminates alert kinds.
type Type string

const (
	TypePanic          Type = "panic"
	TypeGeofenceBreach Type = "geofence_breach"
)

// Status is the alert triage state. Any authorized caller may set any status
// directly; no transition order is enforced.
type Status string

const (
	StatusNew      Status = "new"
	StatusAck      Status = "ack"
	StatusResolved Status = "resolved"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNew, StatusAck, StatusResolved:
		return Status(s), true
	}
	return "", false
}

// Alert is a stored incident. Breach alerts carry the geofence and the
// ingested point; user and geofence ids are nullable.
type Alert struct {
	ID         int64
	Type       Type
	UserID     *int64
	GeofenceID *int64
	TS         time.Time
	Point      *geo.Point
	Severity   int
	Status     Status
	Details    map[string]any
}

// ListFilter narrows List results. Nil fields mean "no filter"; callers are
// expected to have validated the values.
type ListFilter struct {
	Status *Status
	Risk   *string
	Offset int
	Limit  int
}
