package geo

import "math"

// MaxMercatorLat is the Web Mercator latitude bound (the square-world limit).
const MaxMercatorLat = 85.05112878

// Point is a screen-space coordinate in device pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the size of the drawing surface in device pixels.
type Viewport struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

// Project maps a geographic coordinate to screen space. Latitude is not clamped: at ±90 the
// tangent diverges and the result is ±Inf.
func Project(lon, lat, width, height, zoom, offsetX, offsetY float64) (float64, float64) {
	x := (lon+180)*(width/360)*zoom + offsetX
	y := height/2 - (width*math.Log(math.Tan(math.Pi/4+(lat*math.Pi/180)/2)))/(2*math.Pi)*zoom + offsetY
	return x, y
}

// ClampLatitude limits lat to ±MaxMercatorLat.
func ClampLatitude(lat float64) float64 {
	if lat > MaxMercatorLat {
		return MaxMercatorLat
	}
	if lat < -MaxMercatorLat {
		return -MaxMercatorLat
	}
	return lat
}

// Projection carries everything Project needs besides the vertex itself.
type Projection struct {
	Viewport      Viewport
	Zoom          float64
	Offset        Point
	ClampLatitude bool
}

// Point projects one vertex.
func (p Projection) Point(v LonLat) Point {
	lat := v.Lat
	if p.ClampLatitude {
		lat = ClampLatitude(lat)
	}
	x, y := Project(v.Lon, lat, p.Viewport.Width, p.Viewport.Height, p.Zoom, p.Offset.X, p.Offset.Y)
	return Point{X: x, Y: y}
}

// Unproject inverts Point for a finite screen coordinate.
func (p Projection) Unproject(pt Point) LonLat {
	w := p.Viewport.Width
	lon := (pt.X-p.Offset.X)/(p.Zoom*(w/360)) - 180
	m := (p.Viewport.Height/2 - (pt.Y - p.Offset.Y)) * 2 * math.Pi / (w * p.Zoom)
	lat := (2*math.Atan(math.Exp(m)) - math.Pi/2) * 180 / math.Pi
	return LonLat{Lon: lon, Lat: lat}
}
