// Package grid bins scattered samples into a square grid and rescales
// the cell means for colormap lookup.
package grid

import (
	"context"
	"errors"
	"math"
	"runtime"

	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidGridSize is returned for grids smaller than 1×1.
var ErrInvalidGridSize = errors.New("grid size must be at least 1")

// Cell holds the running mean of the samples that fell into it.
type Cell struct {
	Mean  float64
	Count int
}

// Empty reports whether no sample contributed to the cell.
func (c Cell) Empty() bool {
	return c.Count == 0
}

func (c *Cell) add(v float64) {
	c.Mean = (float64(c.Count)*c.Mean + v) / float64(c.Count+1)
	c.Count++
}

func (c *Cell) merge(o Cell) {
	if o.Count == 0 {
		return
	}
	n := c.Count + o.Count
	c.Mean = (float64(c.Count)*c.Mean + float64(o.Count)*o.Mean) / float64(n)
	c.Count = n
}

// Grid is an N×N discretisation of Bound. Row 0 is the southern edge and
// column 0 the western edge.
type Grid struct {
	N     int
	Bound orb.Bound
	Cells []Cell
}

func newGrid(n int, b orb.Bound) *Grid {
	return &Grid{N: n, Bound: b, Cells: make([]Cell, n*n)}
}

// Cell returns the cell at (row, col).
func (g *Grid) Cell(row, col int) Cell {
	return g.Cells[row*g.N+col]
}

// Value returns the mean at (row, col), or NaN for an empty cell.
func (g *Grid) Value(row, col int) float64 {
	c := g.Cells[row*g.N+col]
	if c.Empty() {
		return math.NaN()
	}
	return c.Mean
}

// CellSize returns the width and height of one cell.
func (g *Grid) CellSize() (w, h float64) {
	return (g.Bound.Max.X() - g.Bound.Min.X()) / float64(g.N),
		(g.Bound.Max.Y() - g.Bound.Min.Y()) / float64(g.N)
}

// Index returns the (row, col) that p falls into, clamped to the grid.
func (g *Grid) Index(p orb.Point) (row, col int) {
	cw, ch := g.CellSize()
	return index(p.Y(), g.Bound.Min.Y(), ch, g.N), index(p.X(), g.Bound.Min.X(), cw, g.N)
}

func index(v, min, size float64, n int) int {
	if size <= 0 {
		return 0
	}
	i := int(math.Floor((v - min) / size))
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// NonEmpty returns the number of cells holding at least one sample.
func (g *Grid) NonEmpty() int {
	n := 0
	for _, c := range g.Cells {
		if !c.Empty() {
			n++
		}
	}
	return n
}

// Range returns the smallest and largest cell mean. ok is false when
// every cell is empty.
func (g *Grid) Range() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, c := range g.Cells {
		if c.Empty() {
			continue
		}
		ok = true
		if c.Mean < min {
			min = c.Mean
		}
		if c.Mean > max {
			max = c.Mean
		}
	}
	return min, max, ok
}

// Discretize bins pts into an n×n grid over b, averaging the values of
// samples sharing a cell. Points on or past the far edges land in the
// last row/column.
func Discretize(pts []sample.Point, n int, b orb.Bound) (*Grid, error) {
	if n < 1 {
		return nil, ErrInvalidGridSize
	}

	g := newGrid(n, b)
	g.bin(pts)
	return g, nil
}

func (g *Grid) bin(pts []sample.Point) {
	for _, p := range pts {
		row, col := g.Index(p.Pos())
		g.Cells[row*g.N+col].add(p.Value)
	}
}

// minShard is the smallest number of points worth a goroutine.
const minShard = 4096

// DiscretizeParallel is Discretize with the points sharded across up to
// workers goroutines (NumCPU when workers <= 0). Shard grids are merged
// by count-weighted mean, so the result matches Discretize up to
// floating-point summation order.
func DiscretizeParallel(ctx context.Context, pts []sample.Point, n int, b orb.Bound, workers int) (*Grid, error) {
	if n < 1 {
		return nil, ErrInvalidGridSize
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if max := (len(pts) + minShard - 1) / minShard; workers > max {
		workers = max
	}
	if workers <= 1 {
		return Discretize(pts, n, b)
	}

	shards := make([]*Grid, workers)
	size := (len(pts) + workers - 1) / workers

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo, hi := w*size, min((w+1)*size, len(pts))
		shards[w] = newGrid(n, b)
		shard := shards[w]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			shard.bin(pts[lo:hi])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g := shards[0]
	for _, s := range shards[1:] {
		for i, c := range s.Cells {
			g.Cells[i].merge(c)
		}
	}
	return g, nil
}
