// Package raster paints normalised grids through a colormap and scales
// the result onto the output frame.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/gruppe-adler/bathy-utils/internal/colormap"
	"github.com/gruppe-adler/bathy-utils/internal/grid"
	"golang.org/x/image/draw"
)

// Colorize paints n into an N×N image, one pixel per cell. Row 0 of the
// grid is the southern edge, so it lands on the bottom image row. Empty
// cells stay fully transparent.
func Colorize(n *grid.Normalized, cm colormap.Colormap, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n.N, n.N))

	for row := 0; row < n.N; row++ {
		y := n.N - 1 - row
		for col := 0; col < n.N; col++ {
			v := n.At(row, col)
			if math.IsNaN(v) {
				continue
			}
			c := cm.At(v)
			img.SetNRGBA(col, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha})
		}
	}

	return img
}

// Resampler scales src onto the whole of dst.
type Resampler interface {
	Scale(dst draw.Image, src image.Image, op draw.Op)
}

// interpolator wraps the golang.org/x/image/draw kernels, which write
// into dst without an intermediate surface.
type interpolator struct {
	k draw.Interpolator
}

func (r interpolator) Scale(dst draw.Image, src image.Image, op draw.Op) {
	r.k.Scale(dst, dst.Bounds(), src, src.Bounds(), op, nil)
}

// mitchell is the Mitchell-Netravali cubic with B = C = 1/3.
var mitchell = &draw.Kernel{Support: 2, At: func(t float64) float64 {
	if t < 1 {
		return (7*t*t*t - 12*t*t + 16.0/3) / 6
	}
	return (-7.0/3*t*t*t + 12*t*t - 20*t + 32.0/3) / 6
}}

// lanczos3 is the Lanczos windowed sinc with three lobes.
var lanczos3 = &draw.Kernel{Support: 3, At: func(t float64) float64 {
	if t == 0 {
		return 1
	}
	x := math.Pi * t
	return 3 * math.Sin(x) * math.Sin(x/3) / (x * x)
}}

var (
	Bicubic           Resampler = interpolator{draw.CatmullRom}
	MitchellNetravali Resampler = interpolator{mitchell}
	Lanczos           Resampler = interpolator{lanczos3}
	NearestNeighbor   Resampler = interpolator{draw.NearestNeighbor}
	CatmullRom        Resampler = interpolator{draw.CatmullRom}
	BiLinear          Resampler = interpolator{draw.BiLinear}
)

var resamplers = map[string]Resampler{
	"bicubic":    Bicubic,
	"mitchell":   MitchellNetravali,
	"lanczos":    Lanczos,
	"nearest":    NearestNeighbor,
	"catmullrom": CatmullRom,
	"bilinear":   BiLinear,
}

// ResamplerByName returns the resampler called name. An empty name
// selects Bicubic.
func ResamplerByName(name string) (Resampler, error) {
	if name == "" {
		return Bicubic, nil
	}
	r, ok := resamplers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown resampler: %s", name)
	}
	return r, nil
}

// Upscale resamples src onto dst.Bounds(), writing into dst directly.
// draw.Src replaces the frame, draw.Over composes onto it.
func Upscale(src image.Image, dst draw.Image, r Resampler, op draw.Op) {
	if dst.Bounds().Empty() || src.Bounds().Empty() {
		return
	}
	if r == nil {
		r = Bicubic
	}
	r.Scale(dst, src, op)
}

// Clear makes every pixel of dst fully transparent.
func Clear(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
}
