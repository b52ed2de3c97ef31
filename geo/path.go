package geo

import "math"

// Op is a single drawing primitive.
type Op uint8

const (
	OpMoveTo Op = iota
	OpLineTo
	OpClose
)

// Segment is one recorded primitive. Close carries no coordinates.
type Segment struct {
	Op Op
	Pt Point
}

// Path is a screen-space shape made of closed sub-paths, recorded in drawing order.
type Path struct {
	segs []Segment
}

func (p *Path) MoveTo(x, y float64) { p.segs = append(p.segs, Segment{Op: OpMoveTo, Pt: Point{x, y}}) }
func (p *Path) LineTo(x, y float64) { p.segs = append(p.segs, Segment{Op: OpLineTo, Pt: Point{x, y}}) }
func (p *Path) Close()              { p.segs = append(p.segs, Segment{Op: OpClose}) }

// Segments returns the recorded primitives. Callers must not modify the slice.
func (p *Path) Segments() []Segment {
	if p == nil {
		return nil
	}
	return p.segs
}

// Empty reports whether nothing was recorded.
func (p *Path) Empty() bool { return p == nil || len(p.segs) == 0 }

// Subpaths splits the path into vertex lists, one per MoveTo.
func (p *Path) Subpaths() [][]Point {
	var (
		out [][]Point
		cur []Point
	)
	for _, s := range p.Segments() {
		switch s.Op {
		case OpMoveTo:
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = []Point{s.Pt}
		case OpLineTo:
			cur = append(cur, s.Pt)
		case OpClose:
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// BuildPath traces the outer ring of every polygon of r into one path, each ring closed on
// its own. Interior rings are not traced. Vertices that project to a non-finite point are
// skipped; the first surviving vertex of a ring opens the sub-path.
func BuildPath(r Region, proj Projection) *Path {
	p := &Path{}
	for _, ring := range r.Outer() {
		started := false
		for _, v := range ring {
			pt := proj.Point(v)
			if !finite(pt.X) || !finite(pt.Y) {
				continue
			}
			if !started {
				p.MoveTo(pt.X, pt.Y)
				started = true
				continue
			}
			p.LineTo(pt.X, pt.Y)
		}
		if started {
			p.Close()
		}
	}
	return p
}

// BuildPaths builds one RegionPath per region, preserving region order.
func BuildPaths(regions []Region, proj Projection) []RegionPath {
	out := make([]RegionPath, 0, len(regions))
	for _, r := range regions {
		out = append(out, RegionPath{Name: r.Name, Path: BuildPath(r, proj)})
	}
	return out
}

func finite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }
