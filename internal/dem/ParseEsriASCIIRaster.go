package dem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// ParseEsriASCIIRaster reads an ESRI ASCII grid. CELLSIZE may be
// replaced by a DX/DY pair for non-square cells; NODATA_VALUE is
// optional.
func ParseEsriASCIIRaster(reader io.Reader) (EsriASCIIRaster, error) {

	raster := EsriASCIIRaster{NoDataValue: DefaultNoDataValue}
	remainingHeaders := []string{"NCOLS", "NROWS", "XLLCENTER", "XLLCORNER", "YLLCENTER", "YLLCORNER", "CELLSIZE", "DX", "DY", "NODATA_VALUE"}
	stillIsHeader := true
	rowIndex := uint(0)
	var esriData [][]float64

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		// first field as upper case
		keyword := strings.ToUpper(fields[0])

		if stillIsHeader && slices.Contains(remainingHeaders, keyword) {
			remainingHeaders = remove(remainingHeaders, keyword)

			// there can either be corner or center not both
			switch keyword {
			case "XLLCENTER", "YLLCENTER":
				remainingHeaders = remove(remainingHeaders, "XLLCORNER", "YLLCORNER")
			case "XLLCORNER", "YLLCORNER":
				remainingHeaders = remove(remainingHeaders, "XLLCENTER", "YLLCENTER")
			case "CELLSIZE":
				remainingHeaders = remove(remainingHeaders, "DX", "DY")
			case "DX", "DY":
				remainingHeaders = remove(remainingHeaders, "CELLSIZE")
			}

			if err := parseHeaderLine(fields, &raster); err != nil {
				return raster, err
			}
			continue
		}

		if stillIsHeader { // this is the first data line, if stillIsHeader is true
			// NODATA_VALUE is optional
			remainingHeaders = remove(remainingHeaders, "NODATA_VALUE")

			if len(remainingHeaders) > 0 {
				return raster, fmt.Errorf("DEM is missing headers: %s", strings.Join(remainingHeaders, ", "))
			}
			if raster.Ncols == 0 || raster.Nrows == 0 {
				return raster, errors.New("DEM has no cells")
			}

			stillIsHeader = false
			esriData = make([][]float64, raster.Nrows)
		}

		row, err := parseDataLine(fields, raster.Ncols)
		if err != nil {
			return raster, fmt.Errorf("DEM row %d: %w", rowIndex+1, err)
		}

		esriData[rowIndex] = row
		rowIndex++

		if rowIndex >= raster.Nrows {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return raster, err
	}
	if rowIndex < raster.Nrows {
		return raster, fmt.Errorf("DEM has %d rows, header says %d", rowIndex, raster.Nrows)
	}

	raster.Data = esriData

	return raster, nil
}

func parseHeaderLine(fields []string, grid *EsriASCIIRaster) error {
	if len(fields) != 2 {
		return errors.New("header line must have exactly two fields")
	}

	keyword := strings.ToUpper(fields[0])
	switch keyword {
	case "NCOLS", "NROWS":
		i, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return err
		}
		if keyword == "NCOLS" {
			grid.Ncols = uint(i)
		} else {
			grid.Nrows = uint(i)
		}
		return nil
	}

	f, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return err
	}

	switch keyword {
	case "XLLCENTER":
		grid.Xcenter = &f
	case "XLLCORNER":
		grid.Xcorner = &f
	case "YLLCENTER":
		grid.Ycenter = &f
	case "YLLCORNER":
		grid.Ycorner = &f
	case "CELLSIZE", "DX", "DY":
		if f <= 0.0 {
			return fmt.Errorf("%s must be greater than 0", keyword)
		}
		switch keyword {
		case "CELLSIZE":
			grid.CellSize = f
		case "DX":
			grid.DX = f
		case "DY":
			grid.DY = f
		}
	case "NODATA_VALUE":
		grid.NoDataValue = f
	default:
		return fmt.Errorf("unknown header keyword: %s", fields[0])
	}

	return nil
}

func parseDataLine(fields []string, cols uint) ([]float64, error) {
	row := make([]float64, cols)

	if uint(len(fields)) < cols {
		return row, errors.New("data row is too short")
	}

	for i := uint(0); i < cols; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return row, err
		}
		row[i] = f
	}

	return row, nil
}

// remove removes strings from an array
func remove(arr []string, elements ...string) []string {
	var remaining []string

	for _, e := range arr {
		if !slices.Contains(elements, e) {
			remaining = append(remaining, e)
		}
	}

	return remaining
}
