package colormap

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrUnknownFormat is returned by Load for unsupported file extensions.
	ErrUnknownFormat = errors.New("unknown colormap format")

	// ErrColorModel is returned for CPT files not using the RGB model.
	ErrColorModel = errors.New("only RGB colour model CPT files are supported")
)

const (
	actTable    = 768
	actCount    = 772
	actOutliers = 778
)

// ParseACT reads an Adobe colour table. The 768 byte table holds 256
// RGB triples. A 772 byte file adds the number of colours in use and a
// transparency index (ignored), and a 778 byte GCT file adds an under
// and an over colour.
func ParseACT(name string, r io.Reader) (*Interpolated, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(b) < actTable {
		return nil, fmt.Errorf("%s: colour table has %d bytes, want at least %d", name, len(b), actTable)
	}

	n := 256
	if len(b) >= actCount {
		if c := int(binary.BigEndian.Uint16(b[actTable:])); c != 0 && c < n {
			n = c
		}
	}

	colors := make([]color.RGBA, n)
	stops := make([]float64, n)
	for i := range colors {
		colors[i] = rgb(b[3*i], b[3*i+1], b[3*i+2])
		if n > 1 {
			stops[i] = float64(i) / float64(n-1)
		}
	}

	cm, err := New(name, stops, colors)
	if err != nil {
		return nil, err
	}
	if len(b) >= actOutliers {
		under := rgb(b[actCount], b[actCount+1], b[actCount+2])
		over := rgb(b[actCount+3], b[actCount+4], b[actCount+5])
		cm.Under, cm.Over = &under, &over
	}
	return cm, nil
}

func fields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

func parseRGB(parts []string) (color.RGBA, error) {
	var c [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return color.RGBA{}, err
		}
		if v < 0 || v > 255 {
			return color.RGBA{}, fmt.Errorf("colour component %d out of range", v)
		}
		c[i] = uint8(v)
	}
	return rgb(c[0], c[1], c[2]), nil
}

// ParseCPT reads a GMT colour palette. Each slice line
// "z0 r g b z1 r g b" contributes two stops. Stops are rescaled from
// [min z, max z] onto [0, 1]. B and F lines set the under and over
// colours; N lines and annotation columns are ignored.
func ParseCPT(name string, r io.Reader) (*Interpolated, error) {
	var (
		zs          []float64
		colors      []color.RGBA
		under, over *color.RGBA
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line[0] == '#' {
			l := strings.ReplaceAll(strings.TrimSpace(strings.TrimLeft(line, "#")), " ", "")
			if strings.HasPrefix(strings.ToUpper(l), "COLOR_MODEL") && !strings.EqualFold(l, "COLOR_MODEL=RGB") {
				return nil, fmt.Errorf("%s: %w", name, ErrColorModel)
			}
			continue
		}

		parts := fields(line)
		switch parts[0] {
		case "B", "b", "F", "f", "N", "n":
			if len(parts) < 4 {
				continue
			}
			c, err := parseRGB(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			switch strings.ToUpper(parts[0]) {
			case "B":
				under = &c
			case "F":
				over = &c
			}
			continue
		}

		if len(parts) < 8 {
			continue
		}
		for _, off := range []int{0, 4} {
			z, err := strconv.ParseFloat(parts[off], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			c, err := parseRGB(parts[off+1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			zs = append(zs, z)
			colors = append(colors, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(zs) == 0 {
		return nil, fmt.Errorf("%s: no colour slices", name)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, z := range zs {
		lo, hi = math.Min(lo, z), math.Max(hi, z)
	}
	stops := make([]float64, len(zs))
	for i, z := range zs {
		if hi > lo {
			stops[i] = (z - lo) / (hi - lo)
		}
	}

	cm, err := New(name, stops, colors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	cm.Under, cm.Over = under, over
	return cm, nil
}

// ParseRGBTable reads a plain table of "r g b" rows, either 0-255
// integers or 0-1 fractions, spread evenly over [0, 1]. Comments and
// header lines such as "ncolors=256" are skipped.
func ParseRGBTable(name string, r io.Reader) (*Interpolated, error) {
	var rows [][3]float64
	fractional := true

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' || strings.Contains(line, "=") {
			continue
		}
		parts := fields(line)
		if len(parts) < 3 {
			continue
		}

		var row [3]float64
		ok := true
		for i := 0; i < 3 && ok; i++ {
			v, err := strconv.ParseFloat(parts[i], 64)
			if err != nil || v < 0 || v > 255 {
				ok = false
				continue
			}
			row[i] = v
			if v > 1 {
				fractional = false
			}
		}
		if ok {
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no colours", name)
	}

	scale := 1.0
	if fractional {
		scale = 255
	}
	colors := make([]color.RGBA, len(rows))
	stops := make([]float64, len(rows))
	for i, row := range rows {
		colors[i] = rgb(
			uint8(math.Round(row[0]*scale)),
			uint8(math.Round(row[1]*scale)),
			uint8(math.Round(row[2]*scale)),
		)
		if len(rows) > 1 {
			stops[i] = float64(i) / float64(len(rows)-1)
		}
	}
	return New(name, stops, colors)
}

// Load reads a colormap file, picking the parser from the extension
// (.cpt, .act, .gct or .rgb). The colormap is named after the file.
func Load(path string) (*Interpolated, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var parse func(string, io.Reader) (*Interpolated, error)
	switch ext {
	case ".cpt":
		parse = ParseCPT
	case ".act", ".gct":
		parse = ParseACT
	case ".rgb":
		parse = ParseRGBTable
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(name, bytes.NewReader(b))
}
