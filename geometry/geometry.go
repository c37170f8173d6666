// Package geometry declares the interfaces the core expects from an
// external geometry collaborator. No production implementation lives
// here: per spec.md §1, points/linestrings/CRS transforms are out of
// scope for the core and are supplied by the host application (e.g. a
// go-geom or orb-backed adapter). NullEngine below is a minimal stand-in.
package geometry

import "math"

// Point is a single lat/lon coordinate (WGS84-equivalent CRS).
type Point struct {
	X float64
	Y float64
}

// LineString is an ordered polyline of points.
type LineString struct {
	Points []Point
}

// Engine is the contract the roadway/transit editors use for geometric
// operations. It is supplied by the caller; the core never constructs
// one of its own.
type Engine interface {
	// FromPoints builds a LineString from ordered points.
	FromPoints(points []Point) LineString

	// LengthMeters returns the length of a LineString in meters.
	LengthMeters(ls LineString) float64

	// LengthMiles returns the length of a LineString in miles.
	LengthMiles(ls LineString) float64

	// ParallelOffset returns a new LineString offset from ls by the
	// given signed number of meters using whatever side-of-road
	// convention the engine's underlying primitive uses. The core
	// never infers a side; see SPEC_FULL.md Open Question on ML_*
	// offset direction.
	ParallelOffset(ls LineString, meters float64) (LineString, error)

	// PointInPolygon filters points to those inside the boundary.
	PointInPolygon(points []Point, boundary LineString) []Point

	// Reproject transforms a LineString between CRSes identified by
	// EPSG code or a recognized name (e.g. "EPSG:4326").
	Reproject(ls LineString, from, to string) (LineString, error)
}

// NullEngine is a deterministic, dependency-free Engine used by tests
// and as a safe zero-value default. It treats X/Y as lon/lat degrees on
// a sphere (haversine lengths; offsets shift Y by meters converted to
// degrees of latitude), which is fine for small test fixtures and not
// suitable for production geometry.
type NullEngine struct{}

func (NullEngine) FromPoints(points []Point) LineString {
	return LineString{Points: append([]Point(nil), points...)}
}

func (NullEngine) LengthMeters(ls LineString) float64 {
	return haversineLength(ls) * 1000
}

func (NullEngine) LengthMiles(ls LineString) float64 {
	return haversineLength(ls) * 0.621371
}

func (NullEngine) ParallelOffset(ls LineString, meters float64) (LineString, error) {
	// Not a real parallel-offset; nudges every vertex by a fixed
	// fraction of a degree proportional to meters so that ML_geometry
	// is distinguishable from the base geometry in tests.
	const metersPerDegree = 111320.0
	delta := meters / metersPerDegree
	out := make([]Point, len(ls.Points))
	for i, p := range ls.Points {
		out[i] = Point{X: p.X, Y: p.Y + delta}
	}
	return LineString{Points: out}, nil
}

func (NullEngine) PointInPolygon(points []Point, boundary LineString) []Point {
	var in []Point
	for _, p := range points {
		if pointInRing(p, boundary.Points) {
			in = append(in, p)
		}
	}
	return in
}

func (NullEngine) Reproject(ls LineString, from, to string) (LineString, error) {
	return ls, nil
}

func haversineLength(ls LineString) float64 {
	const earthRadiusKm = 6371.0088
	total := 0.0
	for i := 1; i < len(ls.Points); i++ {
		total += haversine(ls.Points[i-1], ls.Points[i], earthRadiusKm)
	}
	return total
}

func haversine(a, b Point, radiusKm float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	lat1, lat2 := toRad(a.Y), toRad(b.Y)
	dLat := lat2 - lat1
	dLon := toRad(b.X) - toRad(a.X)
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * radiusKm * math.Asin(math.Sqrt(h))
}

// pointInRing implements a standard ray-casting test.
func pointInRing(p Point, ring []Point) bool {
	if len(ring) < 3 {
		return false
	}
	inside := false
	j := len(ring) - 1
	for i := range ring {
		pi, pj := ring[i], ring[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			slope := (p.X-pi.X)*(pj.Y-pi.Y) - (pj.X-pi.X)*(p.Y-pi.Y)
			if slope == 0 {
				return true
			}
			if (slope < 0) != (pj.Y < pi.Y) {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
