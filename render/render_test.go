package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"testing"

	"geomap/api/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(name string, lon, lat, half float64) geo.Region {
	return geo.Region{Name: name, Kind: geo.KindPolygon, Polygons: []geo.Polygon{{geo.Ring{
		{Lon: lon - half, Lat: lat - half},
		{Lon: lon + half, Lat: lat - half},
		{Lon: lon + half, Lat: lat + half},
		{Lon: lon - half, Lat: lat + half},
	}}}}
}

type recorder struct {
	w, h  int
	calls []string
}

func (r *recorder) Size() (int, int)    { return r.w, r.h }
func (r *recorder) Clear(c color.Color) { r.calls = append(r.calls, fmt.Sprintf("clear %v", c)) }
func (r *recorder) Fill(_ *geo.Path, c color.Color) {
	r.calls = append(r.calls, fmt.Sprintf("fill %v", c))
}
func (r *recorder) Stroke(_ *geo.Path, c color.Color, w float64) {
	r.calls = append(r.calls, fmt.Sprintf("stroke %v %g", c, w))
}

func TestRenderOrderAndHighlight(t *testing.T) {
	regions := []geo.Region{square("France", 0, 0, 10), square("Peru", 60, 0, 10)}
	r := New(regions)
	rec := &recorder{w: 800, h: 450}

	paths := r.Render(rec, Frame{Zoom: 1, Selected: "Peru"})
	require.Len(t, paths, 2)
	assert.Equal(t, "France", paths[0].Name)
	assert.Equal(t, "Peru", paths[1].Name)

	require.Len(t, rec.calls, 5)
	assert.Equal(t, fmt.Sprintf("clear %v", DefaultStyle.Background), rec.calls[0])
	assert.Equal(t, fmt.Sprintf("fill %v", geo.ColorOf("France").RGBA()), rec.calls[1])
	assert.Equal(t, fmt.Sprintf("stroke %v 1", DefaultStyle.Outline), rec.calls[2])
	assert.Equal(t, fmt.Sprintf("fill %v", DefaultStyle.Highlight), rec.calls[3])
}

func TestRenderIsIdempotent(t *testing.T) {
	r := New([]geo.Region{square("France", 0, 0, 10)})
	f := Frame{Zoom: 1.5, Offset: geo.Point{X: 12, Y: -7}}

	a := r.Render(&recorder{w: 640, h: 480}, f)
	b := r.Render(&recorder{w: 640, h: 480}, f)
	assert.Equal(t, a[0].Path.Segments(), b[0].Path.Segments())
}

func TestRenderWithoutSurfaceBuildsPaths(t *testing.T) {
	r := New([]geo.Region{square("France", 0, 0, 10)})
	paths := r.Render(nil, Frame{Viewport: geo.Viewport{Width: 800, Height: 450}, Zoom: 1})
	require.Len(t, paths, 1)

	name, ok := geo.HitTest(400, 225, paths)
	assert.True(t, ok)
	assert.Equal(t, "France", name)
}

func TestRenderSurfaceSizeWins(t *testing.T) {
	r := New([]geo.Region{square("France", 0, 0, 10)})
	paths := r.Render(&recorder{w: 360, h: 200}, Frame{Viewport: geo.Viewport{Width: 800, Height: 450}, Zoom: 1})
	_, ok := geo.HitTest(180, 100, paths)
	assert.True(t, ok)
}

func TestEmptySelectionNeverHighlights(t *testing.T) {
	r := New(nil)
	assert.Equal(t, geo.ColorOf("").RGBA(), r.FillColor("", ""))
	assert.Equal(t, DefaultStyle.Highlight, r.FillColor("Peru", "Peru"))
}

func TestRasterPixels(t *testing.T) {
	r := New([]geo.Region{square("France", 0, 0, 10)})
	dst := NewRaster(800, 450)
	r.Render(dst, Frame{Zoom: 1, Selected: "France"})

	img := dst.Image()
	assert.Equal(t, DefaultStyle.Highlight, img.RGBAAt(400, 225))
	assert.Equal(t, DefaultStyle.Background, img.RGBAAt(5, 5))

	var buf bytes.Buffer
	require.NoError(t, dst.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, decoded.Bounds().Dx())
}
