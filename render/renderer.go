// Package render draws the region list for a view onto a Surface and returns the paths it
// built, which the caller publishes for hit testing.
package render

import (
	"image/color"
	"time"

	"geomap/api/geo"
	"geomap/api/metrics"
)

// Surface is a 2-D drawing target. Fill uses the nonzero winding rule.
type Surface interface {
	Size() (width, height int)
	Clear(c color.Color)
	Fill(p *geo.Path, c color.Color)
	Stroke(p *geo.Path, c color.Color, width float64)
}

type Style struct {
	Background   color.RGBA
	Highlight    color.RGBA
	Outline      color.RGBA
	OutlineWidth float64
}

var DefaultStyle = Style{
	Background:   color.RGBA{0xf0, 0xf0, 0xf0, 0xff},
	Highlight:    color.RGBA{0xff, 0xcc, 0x00, 0xff},
	Outline:      color.RGBA{0x44, 0x44, 0x44, 0xff},
	OutlineWidth: 1,
}

// Frame is everything a render depends on besides the regions.
type Frame struct {
	Viewport geo.Viewport
	Zoom     float64
	Offset   geo.Point
	Selected string
}

type Renderer struct {
	regions []geo.Region
	style   Style
	clamp   bool
}

type Option func(*Renderer)

// WithClampLatitude limits latitudes to the Mercator range before projecting.
func WithClampLatitude(on bool) Option { return func(r *Renderer) { r.clamp = on } }

func New(regions []geo.Region, opts ...Option) *Renderer {
	r := &Renderer{regions: regions, style: DefaultStyle}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Renderer) Projection(f Frame) geo.Projection {
	return geo.Projection{Viewport: f.Viewport, Zoom: f.Zoom, Offset: f.Offset, ClampLatitude: r.clamp}
}

// Render clears dst, fills and outlines every region in order and returns the new paths.
// A nil dst only builds paths. When dst is set its size overrides f.Viewport.
func (r *Renderer) Render(dst Surface, f Frame) []geo.RegionPath {
	start := time.Now()
	defer func() {
		metrics.RenderDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if dst != nil {
		w, h := dst.Size()
		f.Viewport = geo.Viewport{Width: float64(w), Height: float64(h)}
	}
	paths := geo.BuildPaths(r.regions, r.Projection(f))
	if dst == nil {
		return paths
	}

	dst.Clear(r.style.Background)
	for _, rp := range paths {
		if rp.Path.Empty() {
			continue
		}
		dst.Fill(rp.Path, r.FillColor(rp.Name, f.Selected))
		dst.Stroke(rp.Path, r.style.Outline, r.style.OutlineWidth)
	}
	return paths
}

// FillColor is the highlight for the selected region and the name hash colour otherwise.
func (r *Renderer) FillColor(name, selected string) color.RGBA {
	if selected != "" && name == selected {
		return r.style.Highlight
	}
	return geo.ColorOf(name).RGBA()
}
