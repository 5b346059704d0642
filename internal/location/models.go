package location

import (
	"time"

	"trailguard/internal/geo"
)

// Source tags where a location sample originated.
type Source string

const (
	SourceWeb      Source = "web"
	SourceMobile   Source = "mobile"
	SourceWearable Source = "wearable"
)

// ParseSource validates a source string.
func ParseSource(s string) (Source, bool) {
	switch Source(s) {
	case SourceWeb, SourceMobile, SourceWearable:
		return Source(s), true
	}
	return "", false
}

// Location is one ingested point. Rows are never mutated or deleted.
type Location struct {
	ID     int64
	UserID *int64
	TS     time.Time
	Point  geo.Point
	Speed  *int
	Source Source
}

// IngestRequest is the ingest endpoint body. Coordinates are SRID 4326
// degrees; no reprojection happens anywhere.
type IngestRequest struct {
	UserID *int64  `json:"user_id"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Speed  *int    `json:"speed"`
	Source string  `json:"source"`
}
