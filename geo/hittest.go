package geo

// Contains reports whether (x, y) lies inside the path under the nonzero winding rule.
// Every sub-path is treated as closed.
func (p *Path) Contains(x, y float64) bool {
	winding := 0
	for _, sub := range p.Subpaths() {
		n := len(sub)
		if n < 3 {
			continue
		}
		for i := 0; i < n; i++ {
			a := sub[i]
			b := sub[(i+1)%n]
			if a.Y <= y {
				if b.Y > y && cross(a, b, x, y) > 0 {
					winding++
				}
			} else if b.Y <= y && cross(a, b, x, y) < 0 {
				winding--
			}
		}
	}
	return winding != 0
}

// cross is positive when (x, y) is left of the edge a->b.
func cross(a, b Point, x, y float64) float64 {
	return (b.X-a.X)*(y-a.Y) - (x-a.X)*(b.Y-a.Y)
}

// HitTest returns the first region, in stored order, whose path contains (x, y).
func HitTest(x, y float64, paths []RegionPath) (string, bool) {
	for _, rp := range paths {
		if rp.Path.Contains(x, y) {
			return rp.Name, true
		}
	}
	return "", false
}
