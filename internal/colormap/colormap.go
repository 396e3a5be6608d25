// Package colormap maps normalised values in [0, 1] to colours.
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Colormap turns a normalised value into a colour.
type Colormap interface {
	Name() string
	At(t float64) color.RGBA
}

// Interpolated blends linearly in RGB between colours placed at
// increasing stops. Values below the first stop take the first colour
// (or Under when set) and values above the last stop the last colour
// (or Over).
type Interpolated struct {
	name   string
	stops  []float64
	colors []colorful.Color

	Under *color.RGBA
	Over  *color.RGBA
}

var errStops = errors.New("colormap needs matching, non-decreasing stops")

// New returns an interpolated colormap. stops and colors must have the
// same non-zero length and stops must not decrease.
func New(name string, stops []float64, colors []color.RGBA) (*Interpolated, error) {
	if len(stops) == 0 || len(stops) != len(colors) {
		return nil, errStops
	}
	for i := 1; i < len(stops); i++ {
		if stops[i] < stops[i-1] || math.IsNaN(stops[i]) {
			return nil, errStops
		}
	}

	cm := &Interpolated{
		name:   name,
		stops:  append([]float64(nil), stops...),
		colors: make([]colorful.Color, len(colors)),
	}
	for i, c := range colors {
		cm.colors[i] = toColorful(c)
	}
	return cm, nil
}

func mustNew(name string, stops []float64, colors ...color.RGBA) *Interpolated {
	cm, err := New(name, stops, colors)
	if err != nil {
		panic(fmt.Sprintf("colormap %s: %v", name, err))
	}
	return cm
}

func (cm *Interpolated) Name() string {
	return cm.name
}

// Stops returns a copy of the stop positions.
func (cm *Interpolated) Stops() []float64 {
	return append([]float64(nil), cm.stops...)
}

func (cm *Interpolated) At(t float64) color.RGBA {
	last := len(cm.stops) - 1
	switch {
	case math.IsNaN(t):
		return color.RGBA{}
	case t < cm.stops[0]:
		if cm.Under != nil && t < 0 {
			return *cm.Under
		}
		return fromColorful(cm.colors[0])
	case t >= cm.stops[last]:
		if cm.Over != nil && t > 1 {
			return *cm.Over
		}
		return fromColorful(cm.colors[last])
	}

	i := sort.Search(last, func(i int) bool { return cm.stops[i+1] > t })
	lo, hi := cm.stops[i], cm.stops[i+1]
	return fromColorful(cm.colors[i].BlendRgb(cm.colors[i+1], (t-lo)/(hi-lo)))
}

// Invert returns cm with its colours reversed over the same stops.
func Invert(cm Colormap) Colormap {
	if ip, ok := cm.(*Interpolated); ok {
		inv := &Interpolated{
			name:   "Inverted " + ip.name,
			stops:  ip.Stops(),
			colors: make([]colorful.Color, len(ip.colors)),
			Under:  ip.Over,
			Over:   ip.Under,
		}
		for i := range ip.colors {
			inv.colors[i] = toColorful(ip.At(ip.stops[len(ip.stops)-1-i]))
		}
		return inv
	}
	return inverted{cm}
}

type inverted struct {
	cm Colormap
}

func (i inverted) Name() string {
	return "Inverted " + i.cm.Name()
}

func (i inverted) At(t float64) color.RGBA {
	return i.cm.At(1 - t)
}

// ParseHex parses a "#rrggbb" colour.
func ParseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	return fromColorful(c), nil
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
