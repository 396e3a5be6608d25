package grid

import (
	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/paulmach/orb"
)

// BoundsOf returns the bounding rectangle of pts padded by margin on
// every side. An empty slice yields an empty bound around the origin.
func BoundsOf(pts []sample.Point, margin float64) orb.Bound {
	if len(pts) == 0 {
		return orb.Bound{}
	}

	b := orb.Bound{Min: pts[0].Pos(), Max: pts[0].Pos()}
	for _, p := range pts[1:] {
		b = b.Extend(p.Pos())
	}

	return b.Pad(margin)
}

// FitAspect grows the shorter side of b around its centre so that the
// rectangle has the aspect ratio of a w×h image.
func FitAspect(b orb.Bound, w, h int) orb.Bound {
	if w <= 0 || h <= 0 {
		return b
	}

	dx := b.Max.X() - b.Min.X()
	dy := b.Max.Y() - b.Min.Y()
	if dx <= 0 && dy <= 0 {
		return b
	}

	wanted := float64(w) / float64(h)
	if dy > 0 && dx/dy < wanted {
		dx = dy * wanted
	} else {
		dy = dx / wanted
	}

	c := b.Center()
	return orb.Bound{
		Min: orb.Point{c.X() - dx/2, c.Y() - dy/2},
		Max: orb.Point{c.X() + dx/2, c.Y() + dy/2},
	}
}
