// Package sample collects scattered measurements into a planar frame
// around a reference location.
package sample

import (
	"math"
	"sync"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Point is a scalar measurement at a planar offset (metres east/north)
// from the reference location.
type Point struct {
	X, Y  float64
	Value float64
}

// Pos returns the planar position of the point.
func (p Point) Pos() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Fix is a raw geographic measurement.
type Fix struct {
	Lat, Lon float64
	Value    float64
}

// Accumulator collects samples into parallel x, y and value slices. It
// is safe to keep adding while another goroutine takes snapshots.
type Accumulator struct {
	ref  orb.Point
	proj Projection

	mu      sync.Mutex
	xs      []float64
	ys      []float64
	vs      []float64
	skipped int
}

// NewAccumulator returns an accumulator projecting fixes around ref
// (orb.Point{lon, lat}). A nil projection selects Equirectangular.
func NewAccumulator(ref orb.Point, proj Projection) *Accumulator {
	if proj == nil {
		proj = Equirectangular{}
	}
	return &Accumulator{ref: ref, proj: proj}
}

// Reference returns the reference location.
func (a *Accumulator) Reference() orb.Point {
	return a.ref
}

// Projection returns the projection used for fixes.
func (a *Accumulator) Projection() Projection {
	return a.proj
}

// Add projects fix and appends it. Fixes with a non-finite component or
// an invalid geographic position are skipped and false is returned.
func (a *Accumulator) Add(fix Fix) bool {
	if !finite(fix.Lat, fix.Lon, fix.Value) || !s2.LatLngFromDegrees(fix.Lat, fix.Lon).IsValid() {
		a.skip()
		return false
	}

	x, y := a.proj.Forward(a.ref, orb.Point{fix.Lon, fix.Lat})
	return a.AddPoint(x, y, fix.Value)
}

// AddPoint appends an already projected sample.
func (a *Accumulator) AddPoint(x, y, v float64) bool {
	if !finite(x, y, v) {
		a.skip()
		return false
	}

	a.mu.Lock()
	a.xs = append(a.xs, x)
	a.ys = append(a.ys, y)
	a.vs = append(a.vs, v)
	a.mu.Unlock()
	return true
}

func (a *Accumulator) skip() {
	a.mu.Lock()
	a.skipped++
	a.mu.Unlock()
}

// Len returns the number of accepted samples.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.xs)
}

// Skipped returns the number of rejected samples.
func (a *Accumulator) Skipped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.skipped
}

// Snapshot returns a copy of the accepted samples in insertion order.
func (a *Accumulator) Snapshot() []Point {
	a.mu.Lock()
	defer a.mu.Unlock()

	pts := make([]Point, len(a.xs))
	for i := range a.xs {
		pts[i] = Point{X: a.xs[i], Y: a.ys[i], Value: a.vs[i]}
	}
	return pts
}

// Positions returns the planar positions of pts.
func Positions(pts []Point) []orb.Point {
	pos := make([]orb.Point, len(pts))
	for i, p := range pts {
		pos[i] = p.Pos()
	}
	return pos
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
