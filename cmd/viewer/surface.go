package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"geomap/api/geo"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// screenSurface draws geo paths onto an ebiten image with GPU triangles.
type screenSurface struct {
	dst *ebiten.Image
	vs  []ebiten.Vertex
	is  []uint16
}

func (s *screenSurface) Size() (int, int) {
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s *screenSurface) Clear(c color.Color) { s.dst.Fill(c) }

func (s *screenSurface) Fill(p *geo.Path, c color.Color) {
	vp := toVectorPath(p)
	s.vs, s.is = vp.AppendVerticesAndIndicesForFilling(s.vs[:0], s.is[:0])
	s.draw(c, ebiten.NonZero)
}

func (s *screenSurface) Stroke(p *geo.Path, c color.Color, width float64) {
	vp := toVectorPath(p)
	op := &vector.StrokeOptions{Width: float32(width), LineJoin: vector.LineJoinRound}
	s.vs, s.is = vp.AppendVerticesAndIndicesForStroke(s.vs[:0], s.is[:0], op)
	s.draw(c, ebiten.FillAll)
}

func (s *screenSurface) draw(c color.Color, rule ebiten.FillRule) {
	if len(s.is) == 0 {
		return
	}
	r, g, b, a := c.RGBA()
	for i := range s.vs {
		s.vs[i].SrcX = 1
		s.vs[i].SrcY = 1
		s.vs[i].ColorR = float32(r) / 0xffff
		s.vs[i].ColorG = float32(g) / 0xffff
		s.vs[i].ColorB = float32(b) / 0xffff
		s.vs[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{FillRule: rule, AntiAlias: true}
	s.dst.DrawTriangles(s.vs, s.is, whiteSubImage, op)
}

func toVectorPath(p *geo.Path) *vector.Path {
	var vp vector.Path
	for _, seg := range p.Segments() {
		switch seg.Op {
		case geo.OpMoveTo:
			vp.MoveTo(float32(seg.Pt.X), float32(seg.Pt.Y))
		case geo.OpLineTo:
			vp.LineTo(float32(seg.Pt.X), float32(seg.Pt.Y))
		case geo.OpClose:
			vp.Close()
		}
	}
	return &vp
}
