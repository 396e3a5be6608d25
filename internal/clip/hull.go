// Package clip restricts an overlay to the area its samples cover.
package clip

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ConvexHull returns the convex hull of pts as a closed,
// counter-clockwise ring (Andrew's monotone chain). Collinear points are
// dropped. pts is not modified.
func ConvexHull(pts []orb.Point) orb.Ring {
	points := append([]orb.Point(nil), pts...)
	sort.Slice(points, func(i, j int) bool {
		if points[i][0] == points[j][0] {
			return points[i][1] < points[j][1]
		}
		return points[i][0] < points[j][0]
	})

	// drop duplicates
	uniq := points[:0]
	for i, p := range points {
		if i == 0 || !p.Equal(points[i-1]) {
			uniq = append(uniq, p)
		}
	}
	points = uniq

	n := len(points)
	if n <= 2 {
		return closed(points)
	}

	cross := func(o, a, b orb.Point) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	lower := make([]orb.Point, 0, n)
	for _, p := range points {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]orb.Point, 0, n)
	for i := n - 1; i >= 0; i-- {
		p := points[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return closed(append(lower[:len(lower)-1], upper[:len(upper)-1]...))
}

func closed(pts []orb.Point) orb.Ring {
	r := orb.Ring(append([]orb.Point(nil), pts...))
	if len(r) > 0 && !r.Closed() {
		r = append(r, r[0])
	}
	return r
}

// vertices returns the ring without its closing point.
func vertices(h orb.Ring) []orb.Point {
	if len(h) > 1 && h.Closed() {
		return h[:len(h)-1]
	}
	return h
}

// Degenerate reports whether h encloses no area: fewer than three
// distinct vertices, or all of them on one line.
func Degenerate(h orb.Ring) bool {
	if len(vertices(h)) < 3 {
		return true
	}
	return math.Abs(planar.Area(h)) == 0
}

// Dilate grows h by moving every vertex d further away from the area
// centroid. A larger d always yields a ring containing the smaller one.
// Degenerate rings and d <= 0 are returned unchanged.
func Dilate(h orb.Ring, d float64) orb.Ring {
	if d <= 0 || Degenerate(h) {
		return closed(h)
	}

	c, _ := planar.CentroidArea(h)
	vs := vertices(h)
	out := make([]orb.Point, len(vs))
	for i, p := range vs {
		dx, dy := p[0]-c[0], p[1]-c[1]
		l := math.Hypot(dx, dy)
		if l == 0 {
			out[i] = p
			continue
		}
		out[i] = orb.Point{p[0] + dx/l*d, p[1] + dy/l*d}
	}
	return closed(out)
}

// Contains reports whether p lies inside h or on its boundary.
func Contains(h orb.Ring, p orb.Point) bool {
	return planar.RingContains(h, p) || onBoundary(h, p)
}

func onBoundary(h orb.Ring, p orb.Point) bool {
	const eps = 1e-9
	for i := 0; i+1 < len(h); i++ {
		a, b := h[i], h[i+1]
		cross := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
		if math.Abs(cross) > eps*math.Max(1, planar.Distance(a, b)) {
			continue
		}
		if p[0] >= math.Min(a[0], b[0])-eps && p[0] <= math.Max(a[0], b[0])+eps &&
			p[1] >= math.Min(a[1], b[1])-eps && p[1] <= math.Max(a[1], b[1])+eps {
			return true
		}
	}
	return false
}
