package dem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gruppe-adler/bathy-utils/internal/grid"
	"github.com/klauspost/compress/gzip"
)

// FromGrid converts the cell means of g into a raster. Empty cells
// become NODATA.
func FromGrid(g *grid.Grid) EsriASCIIRaster {
	n := uint(g.N)
	xll, yll := g.Bound.Min.X(), g.Bound.Min.Y()
	dx, dy := g.CellSize()

	raster := EsriASCIIRaster{
		Ncols:       n,
		Nrows:       n,
		Xcorner:     &xll,
		Ycorner:     &yll,
		NoDataValue: DefaultNoDataValue,
		Data:        make([][]float64, n),
	}
	if dx == dy {
		raster.CellSize = dx
	} else {
		raster.DX, raster.DY = dx, dy
	}

	for r := uint(0); r < n; r++ {
		row := make([]float64, n)
		gridRow := int(n - 1 - r)
		for c := range row {
			if cell := g.Cell(gridRow, c); !cell.Empty() {
				row[c] = cell.Mean
			} else {
				row[c] = raster.NoDataValue
			}
		}
		raster.Data[r] = row
	}

	return raster
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Write encodes the raster as ESRI ASCII grid.
func (raster EsriASCIIRaster) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "ncols %d\n", raster.Ncols)
	fmt.Fprintf(bw, "nrows %d\n", raster.Nrows)
	if raster.Xcenter != nil {
		fmt.Fprintf(bw, "xllcenter %s\n", formatFloat(*raster.Xcenter))
	} else if raster.Xcorner != nil {
		fmt.Fprintf(bw, "xllcorner %s\n", formatFloat(*raster.Xcorner))
	}
	if raster.Ycenter != nil {
		fmt.Fprintf(bw, "yllcenter %s\n", formatFloat(*raster.Ycenter))
	} else if raster.Ycorner != nil {
		fmt.Fprintf(bw, "yllcorner %s\n", formatFloat(*raster.Ycorner))
	}
	if raster.DX > 0 && raster.DY > 0 {
		fmt.Fprintf(bw, "dx %s\n", formatFloat(raster.DX))
		fmt.Fprintf(bw, "dy %s\n", formatFloat(raster.DY))
	} else {
		fmt.Fprintf(bw, "cellsize %s\n", formatFloat(raster.CellSize))
	}
	fmt.Fprintf(bw, "NODATA_value %s\n", formatFloat(raster.NoDataValue))

	fields := make([]string, raster.Ncols)
	for _, row := range raster.Data {
		for c, z := range row {
			fields[c] = formatFloat(z)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteFile writes the raster to path, gzip compressed if path ends in
// .gz.
func (raster EsriASCIIRaster) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err := raster.Write(w); err != nil {
		f.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
