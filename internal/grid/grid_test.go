package grid

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/paulmach/orb"
)

var square = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

func TestDiscretizeUniform(t *testing.T) {
	pts := []sample.Point{
		{X: 0, Y: 0, Value: 1},
		{X: 10, Y: 0, Value: 2},
		{X: 0, Y: 10, Value: 3},
		{X: 10, Y: 10, Value: 4},
	}

	g, err := Discretize(pts, 2, square)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		row, col int
		mean     float64
		norm     float64
	}{
		{0, 0, 1, 0},
		{0, 1, 2, 1.0 / 3},
		{1, 0, 3, 2.0 / 3},
		{1, 1, 4, 1},
	}

	n := Normalize(g)
	for _, tt := range tests {
		c := g.Cell(tt.row, tt.col)
		if c.Count != 1 || c.Mean != tt.mean {
			t.Errorf("cell(%d,%d) = %+v, want mean %v count 1", tt.row, tt.col, c, tt.mean)
		}
		if got := n.At(tt.row, tt.col); math.Abs(got-tt.norm) > 1e-12 {
			t.Errorf("normalized(%d,%d) = %v, want %v", tt.row, tt.col, got, tt.norm)
		}
	}
}

func TestDiscretizeCollision(t *testing.T) {
	pts := []sample.Point{
		{X: 1, Y: 1, Value: 10},
		{X: 1.2, Y: 1.2, Value: 20},
	}

	g, err := Discretize(pts, 2, square)
	if err != nil {
		t.Fatal(err)
	}

	c := g.Cell(0, 0)
	if c.Count != 2 || c.Mean != 15 {
		t.Errorf("cell(0,0) = %+v, want mean 15 count 2", c)
	}
	if g.NonEmpty() != 1 {
		t.Errorf("NonEmpty() = %d, want 1", g.NonEmpty())
	}
	if !math.IsNaN(g.Value(1, 1)) {
		t.Errorf("Value(1,1) = %v, want NaN", g.Value(1, 1))
	}
}

func TestDiscretizeClampsOutOfBounds(t *testing.T) {
	pts := []sample.Point{
		{X: -5, Y: -5, Value: 1},
		{X: 50, Y: 50, Value: 2},
		{X: 50, Y: -1, Value: 3},
	}

	g, err := Discretize(pts, 4, square)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		row, col int
		want     float64
	}{
		{0, 0, 1},
		{3, 3, 2},
		{0, 3, 3},
	}
	for _, tt := range tests {
		if got := g.Value(tt.row, tt.col); got != tt.want {
			t.Errorf("Value(%d,%d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestDiscretizeInvalidSize(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := Discretize(nil, n, square); !errors.Is(err, ErrInvalidGridSize) {
			t.Errorf("Discretize(n=%d) error = %v, want ErrInvalidGridSize", n, err)
		}
		if _, err := DiscretizeParallel(context.Background(), nil, n, square, 2); !errors.Is(err, ErrInvalidGridSize) {
			t.Errorf("DiscretizeParallel(n=%d) error = %v, want ErrInvalidGridSize", n, err)
		}
	}
}

func TestDiscretizeDegenerateBound(t *testing.T) {
	pts := []sample.Point{{X: 3, Y: 3, Value: 7}, {X: 3, Y: 3, Value: 9}}
	b := orb.Bound{Min: orb.Point{3, 3}, Max: orb.Point{3, 3}}

	g, err := Discretize(pts, 5, b)
	if err != nil {
		t.Fatal(err)
	}
	if c := g.Cell(0, 0); c.Count != 2 || c.Mean != 8 {
		t.Errorf("cell(0,0) = %+v, want mean 8 count 2", c)
	}
}

func randomPoints(r *rand.Rand, n int) []sample.Point {
	pts := make([]sample.Point, n)
	for i := range pts {
		pts[i] = sample.Point{X: r.Float64() * 10, Y: r.Float64() * 10, Value: r.Float64()*100 - 50}
	}
	return pts
}

func TestDiscretizeIsOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	pts := randomPoints(r, 500)

	a, err := Discretize(pts, 8, square)
	if err != nil {
		t.Fatal(err)
	}

	shuffled := append([]sample.Point(nil), pts...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	b, err := Discretize(shuffled, 8, square)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Cells {
		if a.Cells[i].Count != b.Cells[i].Count {
			t.Fatalf("cell %d count = %d, want %d", i, b.Cells[i].Count, a.Cells[i].Count)
		}
		if math.Abs(a.Cells[i].Mean-b.Cells[i].Mean) > 1e-9 {
			t.Errorf("cell %d mean = %v, want %v", i, b.Cells[i].Mean, a.Cells[i].Mean)
		}
	}
}

func TestDiscretizeParallelMatchesSerial(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	pts := randomPoints(r, 5*minShard)

	want, err := Discretize(pts, 16, square)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DiscretizeParallel(context.Background(), pts, 16, square, 4)
	if err != nil {
		t.Fatal(err)
	}

	for i := range want.Cells {
		if got.Cells[i].Count != want.Cells[i].Count {
			t.Fatalf("cell %d count = %d, want %d", i, got.Cells[i].Count, want.Cells[i].Count)
		}
		if math.Abs(got.Cells[i].Mean-want.Cells[i].Mean) > 1e-9 {
			t.Errorf("cell %d mean = %v, want %v", i, got.Cells[i].Mean, want.Cells[i].Mean)
		}
	}
}

func TestDiscretizeParallelCancelled(t *testing.T) {
	pts := randomPoints(rand.New(rand.NewSource(3)), 4*minShard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := DiscretizeParallel(ctx, pts, 4, square, 4); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNormalizeRange(t *testing.T) {
	pts := randomPoints(rand.New(rand.NewSource(4)), 300)
	g, err := Discretize(pts, 10, square)
	if err != nil {
		t.Fatal(err)
	}

	n := Normalize(g)
	sawZero, sawOne := false, false
	for i, v := range n.Values {
		if g.Cells[i].Empty() {
			if !math.IsNaN(v) {
				t.Errorf("empty cell %d normalized to %v, want NaN", i, v)
			}
			continue
		}
		if v < 0 || v > 1 {
			t.Errorf("cell %d normalized to %v, outside [0,1]", i, v)
		}
		sawZero = sawZero || v == 0
		sawOne = sawOne || v == 1
	}
	if !sawZero || !sawOne {
		t.Errorf("normalized range does not reach both ends: zero=%v one=%v", sawZero, sawOne)
	}

	n.Invert()
	for i, v := range n.Values {
		if !g.Cells[i].Empty() && (v < 0 || v > 1) {
			t.Errorf("inverted cell %d = %v, outside [0,1]", i, v)
		}
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	pts := []sample.Point{{X: 1, Y: 1, Value: 5}, {X: 9, Y: 9, Value: 5}}
	g, err := Discretize(pts, 2, square)
	if err != nil {
		t.Fatal(err)
	}

	n := Normalize(g)
	if n.At(0, 0) != 0 || n.At(1, 1) != 0 {
		t.Errorf("degenerate range normalized to %v, %v, want 0", n.At(0, 0), n.At(1, 1))
	}
	if !math.IsNaN(n.At(0, 1)) {
		t.Errorf("empty cell = %v, want NaN", n.At(0, 1))
	}
}

func TestNormalizeHugeRange(t *testing.T) {
	pts := []sample.Point{
		{X: 1, Y: 1, Value: -1e308},
		{X: 9, Y: 9, Value: 1e308},
		{X: 1, Y: 9, Value: 0},
	}
	g, err := Discretize(pts, 2, square)
	if err != nil {
		t.Fatal(err)
	}

	n := Normalize(g)
	if got := n.At(0, 0); got != 0 {
		t.Errorf("minimum normalized to %v, want 0", got)
	}
	if got := n.At(1, 1); got != 1 {
		t.Errorf("maximum normalized to %v, want 1", got)
	}
	for i, v := range n.Values {
		if g.Cells[i].Empty() {
			continue
		}
		if math.IsNaN(v) || v < 0 || v > 1 {
			t.Errorf("cell %d normalized to %v", i, v)
		}
		if g.Cells[i].Mean == 0 && v != 0.5 {
			t.Errorf("midpoint normalized to %v, want 0.5", v)
		}
	}
}

func TestNormalizeEmptyGrid(t *testing.T) {
	g, err := Discretize(nil, 3, square)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := g.Range(); ok {
		t.Errorf("Range() ok on empty grid")
	}
	for i, v := range Normalize(g).Values {
		if !math.IsNaN(v) {
			t.Errorf("cell %d = %v, want NaN", i, v)
		}
	}
}

func TestBoundsOf(t *testing.T) {
	pts := []sample.Point{{X: -3, Y: 2}, {X: 4, Y: -1}, {X: 0, Y: 6}}

	got := BoundsOf(pts, 25)
	want := orb.Bound{Min: orb.Point{-28, -26}, Max: orb.Point{29, 31}}
	if !got.Equal(want) {
		t.Errorf("BoundsOf() = %v, want %v", got, want)
	}

	if b := BoundsOf(nil, 25); !b.Equal(orb.Bound{}) {
		t.Errorf("BoundsOf(nil) = %v, want empty bound", b)
	}
}

func TestFitAspect(t *testing.T) {
	tests := []struct {
		name string
		in   orb.Bound
		w, h int
		want orb.Bound
	}{
		{
			name: "widen",
			in:   orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}},
			w:    200, h: 100,
			want: orb.Bound{Min: orb.Point{-5, 0}, Max: orb.Point{15, 10}},
		},
		{
			name: "heighten",
			in:   orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}},
			w:    100, h: 200,
			want: orb.Bound{Min: orb.Point{0, -5}, Max: orb.Point{10, 15}},
		},
		{
			name: "flat line",
			in:   orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{8, 0}},
			w:    4, h: 2,
			want: orb.Bound{Min: orb.Point{0, -2}, Max: orb.Point{8, 2}},
		},
		{
			name: "already fitted",
			in:   orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{4, 3}},
			w:    1024, h: 768,
			want: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{4, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitAspect(tt.in, tt.w, tt.h)
			for i := 0; i < 2; i++ {
				if math.Abs(got.Min[i]-tt.want.Min[i]) > 1e-9 || math.Abs(got.Max[i]-tt.want.Max[i]) > 1e-9 {
					t.Fatalf("FitAspect() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
