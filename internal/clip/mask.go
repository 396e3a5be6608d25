package clip

import (
	"image"
	"image/color"
	"math"

	"github.com/paulmach/orb"
	orbclip "github.com/paulmach/orb/clip"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// reach is how far the cut-out extends past the hull, in pixels. Any
// pixel holding a point of the hull keeps part of its coverage.
const reach = math.Sqrt2 / 2

// NewMask rasterises the part of r outside hull, where hull is given in
// pixel coordinates. Mask alpha is the coverage of the outside region:
// 0 well inside the hull, 255 outside it, in between along the edge.
// The cut-out is the hull grown by half a pixel diagonal, so no pixel
// containing a hull point is cleared completely.
// Degenerate hulls give a nil mask, meaning no clipping.
func NewMask(hull orb.Ring, r image.Rectangle) *image.Alpha {
	if Degenerate(hull) || r.Empty() {
		return nil
	}
	hull = outset(hull, reach)

	w, h := float32(r.Dx()), float32(r.Dy())
	frame := orb.Bound{
		Min: orb.Point{float64(r.Min.X), float64(r.Min.Y)},
		Max: orb.Point{float64(r.Max.X), float64(r.Max.Y)},
	}

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Src

	// the frame, positive winding in pixel space
	z.MoveTo(0, 0)
	z.LineTo(w, 0)
	z.LineTo(w, h)
	z.LineTo(0, h)
	z.ClosePath()

	// the hull, cut out with the opposite winding
	inside := orbclip.Ring(frame, closed(hull))
	if len(vertices(inside)) >= 3 {
		vs := vertices(inside)
		if signedArea(vs) > 0 {
			vs = reversed(vs)
		}
		z.MoveTo(float32(vs[0][0])-float32(r.Min.X), float32(vs[0][1])-float32(r.Min.Y))
		for _, p := range vs[1:] {
			z.LineTo(float32(p[0])-float32(r.Min.X), float32(p[1])-float32(r.Min.Y))
		}
		z.ClosePath()
	}

	mask := image.NewAlpha(r)
	z.Draw(mask, r, image.Opaque, image.Point{})
	return mask
}

// outset returns the convex hull of h grown by d in every direction. The
// round corners are approximated by an octagon circumscribing the circle
// of radius d around every vertex.
func outset(h orb.Ring, d float64) orb.Ring {
	vs := vertices(h)
	radius := d / math.Cos(math.Pi/8)

	pts := make([]orb.Point, 0, 8*len(vs))
	for _, p := range vs {
		for k := 0; k < 8; k++ {
			a := math.Pi/8 + float64(k)*math.Pi/4
			pts = append(pts, orb.Point{p[0] + radius*math.Cos(a), p[1] + radius*math.Sin(a)})
		}
	}
	return ConvexHull(pts)
}

// signedArea is the shoelace area in pixel space, positive for the
// frame's winding.
func signedArea(vs []orb.Point) float64 {
	var a float64
	for i := range vs {
		j := (i + 1) % len(vs)
		a += vs[i][0]*vs[j][1] - vs[j][0]*vs[i][1]
	}
	return a / 2
}

func reversed(vs []orb.Point) []orb.Point {
	out := make([]orb.Point, len(vs))
	for i, p := range vs {
		out[len(vs)-1-i] = p
	}
	return out
}

// Apply clears dst where mask is set, scaling every pixel's alpha by
// the inverse of the mask coverage. A nil mask leaves dst untouched.
func Apply(dst draw.Image, mask *image.Alpha) {
	if mask == nil {
		return
	}
	r := dst.Bounds().Intersect(mask.Bounds())

	switch img := dst.(type) {
	case *image.NRGBA:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m := mask.AlphaAt(x, y).A
				if m == 0 {
					continue
				}
				i := img.PixOffset(x, y)
				img.Pix[i+3] = scale8(img.Pix[i+3], m)
			}
		}
	case *image.RGBA:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m := mask.AlphaAt(x, y).A
				if m == 0 {
					continue
				}
				i := img.PixOffset(x, y)
				for c := 0; c < 4; c++ {
					img.Pix[i+c] = scale8(img.Pix[i+c], m)
				}
			}
		}
	default:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m := mask.AlphaAt(x, y).A
				if m == 0 {
					continue
				}
				cr, cg, cb, ca := dst.At(x, y).RGBA()
				k := uint32(255 - m)
				dst.Set(x, y, color.RGBA64{
					R: uint16(cr * k / 255),
					G: uint16(cg * k / 255),
					B: uint16(cb * k / 255),
					A: uint16(ca * k / 255),
				})
			}
		}
	}
}

// scale8 returns v*(255-m)/255, rounded.
func scale8(v, m uint8) uint8 {
	return uint8((uint32(v)*uint32(255-m) + 127) / 255)
}
