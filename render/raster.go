package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"geomap/api/geo"

	"golang.org/x/image/vector"
)

// Raster is an in-memory RGBA Surface backed by an anti-aliasing rasterizer.
type Raster struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

func NewRaster(width, height int) *Raster {
	return &Raster{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		z:   vector.NewRasterizer(width, height),
	}
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Clear(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (r *Raster) Fill(p *geo.Path, c color.Color) {
	r.reset()
	for _, sub := range p.Subpaths() {
		if len(sub) < 3 {
			continue
		}
		r.z.MoveTo(float32(sub[0].X), float32(sub[0].Y))
		for _, pt := range sub[1:] {
			r.z.LineTo(float32(pt.X), float32(pt.Y))
		}
		r.z.ClosePath()
	}
	r.flush(c)
}

// Stroke outlines every sub-path, including its closing edge, as a band of quads.
func (r *Raster) Stroke(p *geo.Path, c color.Color, width float64) {
	if width <= 0 {
		return
	}
	half := width / 2
	r.reset()
	for _, sub := range p.Subpaths() {
		n := len(sub)
		if n < 2 {
			continue
		}
		for i := 0; i < n; i++ {
			a, b := sub[i], sub[(i+1)%n]
			dx, dy := b.X-a.X, b.Y-a.Y
			l := math.Hypot(dx, dy)
			if l < 1e-6 {
				continue
			}
			nx, ny := -dy/l*half, dx/l*half
			r.z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
			r.z.LineTo(float32(a.X-nx), float32(a.Y-ny))
			r.z.LineTo(float32(b.X-nx), float32(b.Y-ny))
			r.z.LineTo(float32(b.X+nx), float32(b.Y+ny))
			r.z.ClosePath()
		}
	}
	r.flush(c)
}

func (r *Raster) EncodePNG(w io.Writer) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, r.img)
}

func (r *Raster) reset() {
	w, h := r.Size()
	r.z.Reset(w, h)
	r.z.DrawOp = draw.Over
}

func (r *Raster) flush(c color.Color) {
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}
