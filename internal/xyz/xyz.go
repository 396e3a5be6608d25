// Package xyz reads scattered samples from plain text tables with one
// "a b z" triple per line.
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/klauspost/compress/gzip"
)

// Columns is the order of the two position columns.
type Columns int

const (
	// YXZ is "northing easting value" (or "lat lon value").
	YXZ Columns = iota
	// XYZ is "easting northing value" (or "lon lat value").
	XYZ
)

func (c Columns) String() string {
	if c == XYZ {
		return "xyz"
	}
	return "yxz"
}

// ParseColumns parses "yxz" or "xyz".
func ParseColumns(s string) (Columns, error) {
	switch strings.ToLower(s) {
	case "", "yxz":
		return YXZ, nil
	case "xyz":
		return XYZ, nil
	}
	return 0, fmt.Errorf("unknown column order: %s", s)
}

// ParseError reports a malformed line.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Options controls decoding.
type Options struct {
	Columns Columns

	// Lenient skips malformed lines instead of failing.
	Lenient bool
}

// Triple is one decoded line with X east (or longitude) and Y north (or
// latitude).
type Triple struct {
	X, Y, Z float64
}

// Decoder reads triples from a text stream.
type Decoder struct {
	scanner *bufio.Scanner
	opts    Options
	line    int
	skipped int
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader, opts Options) *Decoder {
	return &Decoder{scanner: bufio.NewScanner(r), opts: opts}
}

// Skipped returns the number of malformed lines skipped in lenient mode.
func (d *Decoder) Skipped() int {
	return d.skipped
}

// Decode returns the next triple, or io.EOF at the end of the input.
func (d *Decoder) Decode() (Triple, error) {
	for d.scanner.Scan() {
		d.line++
		line := strings.TrimSpace(d.scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		t, reason := d.parse(line)
		if reason == "" {
			return t, nil
		}
		if d.opts.Lenient {
			d.skipped++
			continue
		}
		return Triple{}, &ParseError{Line: d.line, Reason: reason}
	}
	if err := d.scanner.Err(); err != nil {
		return Triple{}, err
	}
	return Triple{}, io.EOF
}

func (d *Decoder) parse(line string) (Triple, string) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) < 3 {
		return Triple{}, fmt.Sprintf("want 3 columns, got %d", len(fields))
	}

	var v [3]float64
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Triple{}, fmt.Sprintf("column %d: %q is not a number", i+1, fields[i])
		}
		v[i] = f
	}

	if d.opts.Columns == XYZ {
		return Triple{X: v[0], Y: v[1], Z: v[2]}, ""
	}
	return Triple{X: v[1], Y: v[0], Z: v[2]}, ""
}

// ReadAll decodes every triple from r.
func ReadAll(r io.Reader, opts Options) ([]Triple, int, error) {
	d := NewDecoder(r, opts)
	var out []Triple
	for {
		t, err := d.Decode()
		if err == io.EOF {
			return out, d.Skipped(), nil
		}
		if err != nil {
			return out, d.Skipped(), err
		}
		out = append(out, t)
	}
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g gzipFile) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

// bufferedFile keeps the peeked bytes of a file.
type bufferedFile struct {
	*bufio.Reader
	file *os.File
}

func (b bufferedFile) Close() error {
	return b.file.Close()
}

// Open opens path for reading, decompressing gzip input on the fly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, err
		}
		return gzipFile{Reader: gz, file: f}, nil
	}
	return bufferedFile{Reader: br, file: f}, nil
}

// ReadFile decodes the (optionally gzip compressed) file at path.
func ReadFile(path string, opts Options) ([]Triple, int, error) {
	r, err := Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	ts, skipped, err := ReadAll(r, opts)
	if err != nil {
		return nil, skipped, fmt.Errorf("%s: %w", path, err)
	}
	return ts, skipped, nil
}

// Fill adds ts to acc. Geographic triples are projected around the
// accumulator's reference; planar ones are taken as metres.
func Fill(acc *sample.Accumulator, ts []Triple, geographic bool) (added int) {
	for _, t := range ts {
		var ok bool
		if geographic {
			ok = acc.Add(sample.Fix{Lat: t.Y, Lon: t.X, Value: t.Z})
		} else {
			ok = acc.AddPoint(t.X, t.Y, t.Z)
		}
		if ok {
			added++
		}
	}
	return added
}
