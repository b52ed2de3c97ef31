// Package geo holds the read-only map geometry and the pure functions that turn it into
// screen-space paths: projection, path building, colour assignment and hit testing.
package geo

const (
	KindPolygon      = "Polygon"
	KindMultiPolygon = "MultiPolygon"
)

// LonLat is one vertex in degrees. Lon in [-180,180], Lat in [-90,90].
type LonLat struct {
	Lon float64
	Lat float64
}

// Ring is an implicitly closed sequence of vertices.
type Ring []LonLat

// Polygon is a list of rings, outer ring first, holes after.
type Polygon []Ring

// Region is a named area. A GeoJSON Polygon yields one Polygon, a MultiPolygon one per part.
type Region struct {
	Name     string
	Kind     string
	Polygons []Polygon
}

// Outer returns the outer ring of every polygon, skipping polygons without rings.
func (r Region) Outer() []Ring {
	out := make([]Ring, 0, len(r.Polygons))
	for _, p := range r.Polygons {
		if len(p) == 0 {
			continue
		}
		out = append(out, p[0])
	}
	return out
}

// Bounds returns minLon, minLat, maxLon, maxLat over the outer rings.
// ok is false when the region has no vertices.
func (r Region) Bounds() (b [4]float64, ok bool) {
	b = [4]float64{180, 90, -180, -90}
	for _, ring := range r.Outer() {
		for _, pt := range ring {
			ok = true
			if pt.Lon < b[0] {
				b[0] = pt.Lon
			}
			if pt.Lat < b[1] {
				b[1] = pt.Lat
			}
			if pt.Lon > b[2] {
				b[2] = pt.Lon
			}
			if pt.Lat > b[3] {
				b[3] = pt.Lat
			}
		}
	}
	return b, ok
}

// RegionPath pairs a region name with its projected path.
type RegionPath struct {
	Name string
	Path *Path
}
