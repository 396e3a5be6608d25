package grid

import "math"

// Normalized holds grid values rescaled to [0, 1]. Empty cells are NaN.
type Normalized struct {
	N      int
	Values []float64
	Min    float64
	Max    float64
}

// At returns the normalised value at (row, col).
func (n *Normalized) At(row, col int) float64 {
	return n.Values[row*n.N+col]
}

// Normalize rescales every non-empty cell linearly from [min, max] of
// the grid onto [0, 1]. When all cells share one value the range is
// degenerate and every non-empty cell maps to 0.
func Normalize(g *Grid) *Normalized {
	min, max, ok := g.Range()
	out := &Normalized{N: g.N, Values: make([]float64, len(g.Cells)), Min: min, Max: max}
	if !ok {
		out.Min, out.Max = math.NaN(), math.NaN()
	}

	span := max - min
	for i, c := range g.Cells {
		switch {
		case c.Empty():
			out.Values[i] = math.NaN()
		case span <= 0:
			out.Values[i] = 0
		case math.IsInf(span, 1):
			// the range of two finite extremes can overflow, halving cannot
			out.Values[i] = clamp01((c.Mean/2 - min/2) / (max/2 - min/2))
		default:
			out.Values[i] = clamp01((c.Mean - min) / span)
		}
	}
	return out
}

// Invert maps every non-empty value v to 1-v, so deeper soundings take
// the high end of the colormap.
func (n *Normalized) Invert() {
	for i, v := range n.Values {
		if !math.IsNaN(v) {
			n.Values[i] = 1 - v
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
