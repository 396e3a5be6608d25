package dem

import (
	"math"

	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/paulmach/orb"
)

// DefaultNoDataValue is written for empty cells.
const DefaultNoDataValue = -9999

// EsriASCIIRaster represents a ESRI ASCII Grid. Data[0] is the northern
// row.
type EsriASCIIRaster struct {
	Ncols, Nrows     uint
	Xcenter, Ycenter *float64
	Xcorner, Ycorner *float64
	CellSize         float64

	// DX and DY replace CellSize for rasters with non-square cells.
	DX, DY float64

	NoDataValue float64
	Data        [][]float64
}

// Dims returns the dimensions of the grid.
func (raster EsriASCIIRaster) Dims() (c, r uint) {
	return raster.Ncols, raster.Nrows
}

// Z returns the value of a grid value at (c, r).
// It will panic if c or r are out of bounds for the grid.
func (raster EsriASCIIRaster) Z(c, r uint) float64 {
	return raster.Data[r][c]
}

func (raster EsriASCIIRaster) cellSize() (dx, dy float64) {
	if raster.DX > 0 && raster.DY > 0 {
		return raster.DX, raster.DY
	}
	return raster.CellSize, raster.CellSize
}

// X returns the coordinate of the centre of column c.
func (raster EsriASCIIRaster) X(c uint) float64 {
	dx, _ := raster.cellSize()
	switch {
	case raster.Xcenter != nil:
		return *raster.Xcenter + float64(c)*dx
	case raster.Xcorner != nil:
		return *raster.Xcorner + (float64(c)+0.5)*dx
	}
	return (float64(c) + 0.5) * dx
}

// Y returns the coordinate of the centre of row r, counted from the
// northern edge.
func (raster EsriASCIIRaster) Y(r uint) float64 {
	_, dy := raster.cellSize()
	fromSouth := float64(raster.Nrows-1-r)
	switch {
	case raster.Ycenter != nil:
		return *raster.Ycenter + fromSouth*dy
	case raster.Ycorner != nil:
		return *raster.Ycorner + (fromSouth+0.5)*dy
	}
	return (fromSouth + 0.5) * dy
}

// IsNoData reports whether z marks a missing value.
func (raster EsriASCIIRaster) IsNoData(z float64) bool {
	return z == raster.NoDataValue || math.IsNaN(z) || math.IsInf(z, 0)
}

// Samples returns one point per cell centre that holds a value.
func (raster EsriASCIIRaster) Samples() []sample.Point {
	var pts []sample.Point
	for r := uint(0); r < raster.Nrows; r++ {
		for c := uint(0); c < raster.Ncols; c++ {
			z := raster.Z(c, r)
			if raster.IsNoData(z) {
				continue
			}
			pts = append(pts, sample.Point{X: raster.X(c), Y: raster.Y(r), Value: z})
		}
	}
	return pts
}

// Bound returns the outer edges of the raster.
func (raster EsriASCIIRaster) Bound() orb.Bound {
	if raster.Nrows == 0 || raster.Ncols == 0 {
		return orb.Bound{}
	}
	dx, dy := raster.cellSize()
	minX := raster.X(0) - dx/2
	minY := raster.Y(raster.Nrows-1) - dy/2
	return orb.Bound{
		Min: orb.Point{minX, minY},
		Max: orb.Point{minX + float64(raster.Ncols)*dx, minY + float64(raster.Nrows)*dy},
	}
}
