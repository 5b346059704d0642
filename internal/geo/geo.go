// Package geo holds the small amount of geometry the application handles
// itself: coordinate validation, WKT construction for PostGIS, and a
// containment test for the in-memory stores. Production containment checks run
// inside PostGIS; everything here stays in SRID 4326 lng/lat degrees with no
// reprojection.
package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a lng/lat coordinate pair (GeoJSON axis order).
type Point struct {
	Lng float64
	Lat float64
}

// Ring is a polygon's outer ring. It is stored open (first point not
// repeated); Closed appends the closing point when serializing.
type Ring []Point

// RingFromCoordinates validates a [[lng,lat], ...] coordinate list and builds
// a Ring. A trailing closing point equal to the first is tolerated and
// dropped. At least three distinct vertices are required.
func RingFromCoordinates(coords [][]float64) (Ring, error) {
	ring := make(Ring, 0, len(coords))
	for _, pair := range coords {
		if len(pair) != 2 {
			return nil, fmt.Errorf("coordinate must be a [lng, lat] pair, got %d values", len(pair))
		}
		ring = append(ring, Point{Lng: pair[0], Lat: pair[1]})
	}
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil, fmt.Errorf("polygon ring needs at least 3 points, got %d", len(ring))
	}
	return ring, nil
}

// Closed returns the ring with the first point appended at the end.
func (r Ring) Closed() Ring {
	if len(r) == 0 {
		return r
	}
	return append(append(Ring{}, r...), r[0])
}

// Coordinates returns the closed ring as nested [[lng,lat], ...] slices for
// GeoJSON serialization.
func (r Ring) Coordinates() [][]float64 {
	closed := r.Closed()
	out := make([][]float64, len(closed))
	for i, p := range closed {
		out[i] = []float64{p.Lng, p.Lat}
	}
	return out
}

// WKT renders the ring as a POLYGON in well-known text for ST_GeomFromText.
func (r Ring) WKT() string {
	var b strings.Builder
	b.WriteString("POLYGON((")
	for i, p := range r.Closed() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatCoord(p.Lng))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Lat))
	}
	b.WriteString("))")
	return b.String()
}

// WKT renders the point in well-known text.
func (p Point) WKT() string {
	return "POINT(" + formatCoord(p.Lng) + " " + formatCoord(p.Lat) + ")"
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Contains reports whether the point lies inside or on the boundary of the
// ring. Ray casting with an explicit boundary check, mirroring the
// boundary-inclusive intersection test the database performs.
func (r Ring) Contains(p Point) bool {
	if len(r) < 3 {
		return false
	}
	closed := r.Closed()
	for i := 0; i < len(closed)-1; i++ {
		if onSegment(closed[i], closed[i+1], p) {
			return true
		}
	}

	inside := false
	for i := 0; i < len(closed)-1; i++ {
		a, b := closed[i], closed[i+1]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := a.Lng + (p.Lat-a.Lat)/(b.Lat-a.Lat)*(b.Lng-a.Lng)
			if p.Lng < x {
				inside = !inside
			}
		}
	}
	return inside
}

const eps = 1e-12

func onSegment(a, b, p Point) bool {
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	if cross > eps || cross < -eps {
		return false
	}
	dot := (p.Lng-a.Lng)*(b.Lng-a.Lng) + (p.Lat-a.Lat)*(b.Lat-a.Lat)
	if dot < 0 {
		return false
	}
	lenSq := (b.Lng-a.Lng)*(b.Lng-a.Lng) + (b.Lat-a.Lat)*(b.Lat-a.Lat)
	return dot <= lenSq
}
