package clip

import (
	"image"

	"github.com/paulmach/orb"
)

// Transform is an axis aligned world to pixel mapping:
// px = x*ScaleX + OffsetX, py = y*ScaleY + OffsetY.
type Transform struct {
	ScaleX, ScaleY   float64
	OffsetX, OffsetY float64
}

// NewTransform maps b onto r with north up: b.Min.X lands on the left
// edge of r and b.Max.Y on the top edge. A zero-width axis collapses onto
// the middle of r.
func NewTransform(b orb.Bound, r image.Rectangle) Transform {
	var t Transform

	if dx := b.Max.X() - b.Min.X(); dx > 0 {
		t.ScaleX = float64(r.Dx()) / dx
		t.OffsetX = float64(r.Min.X) - b.Min.X()*t.ScaleX
	} else {
		t.OffsetX = float64(r.Min.X) + float64(r.Dx())/2
	}

	if dy := b.Max.Y() - b.Min.Y(); dy > 0 {
		t.ScaleY = -float64(r.Dy()) / dy
		t.OffsetY = float64(r.Min.Y) - b.Max.Y()*t.ScaleY
	} else {
		t.OffsetY = float64(r.Min.Y) + float64(r.Dy())/2
	}

	return t
}

func (t Transform) Apply(p orb.Point) orb.Point {
	return orb.Point{p[0]*t.ScaleX + t.OffsetX, p[1]*t.ScaleY + t.OffsetY}
}

func (t Transform) ApplyRing(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[i] = t.Apply(p)
	}
	return out
}
