package xyz

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/klauspost/compress/gzip"
	"github.com/paulmach/orb"
)

const soundings = `# northing easting depth
41.1850 -8.7045 12.5
41.1851,-8.7046,13

41.1852	-8.7047	13.5	extra
`

func TestReadAll(t *testing.T) {
	tests := []struct {
		name    string
		columns Columns
		first   Triple
	}{
		{"yxz", YXZ, Triple{X: -8.7045, Y: 41.1850, Z: 12.5}},
		{"xyz", XYZ, Triple{X: 41.1850, Y: -8.7045, Z: 12.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, skipped, err := ReadAll(strings.NewReader(soundings), Options{Columns: tt.columns})
			if err != nil {
				t.Fatal(err)
			}
			if len(ts) != 3 || skipped != 0 {
				t.Fatalf("got %d triples, %d skipped, want 3 and 0", len(ts), skipped)
			}
			if ts[0] != tt.first {
				t.Errorf("first = %+v, want %+v", ts[0], tt.first)
			}
			if ts[2].Z != 13.5 {
				t.Errorf("third Z = %v, want 13.5", ts[2].Z)
			}
		})
	}
}

func TestReadAllMalformed(t *testing.T) {
	in := "1 2 3\n4 five 6\n7 8\n9 10 11\n"

	_, _, err := ReadAll(strings.NewReader(in), Options{})
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("ParseError.Line = %d, want 2", perr.Line)
	}

	ts, skipped, err := ReadAll(strings.NewReader(in), Options{Lenient: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 2 || skipped != 2 {
		t.Errorf("lenient: got %d triples, %d skipped, want 2 and 2", len(ts), skipped)
	}
}

func TestParseColumns(t *testing.T) {
	for in, want := range map[string]Columns{"": YXZ, "YXZ": YXZ, "xyz": XYZ} {
		if got, err := ParseColumns(in); err != nil || got != want {
			t.Errorf("ParseColumns(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseColumns("zxy"); err == nil {
		t.Errorf("expected error for zxy")
	}
}

func TestReadFileGzip(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "soundings.xyz")
	if err := os.WriteFile(plain, []byte(soundings), 0o644); err != nil {
		t.Fatal(err)
	}

	packed := filepath.Join(dir, "soundings.xyz.gz")
	f, err := os.Create(packed)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(soundings)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, packed} {
		ts, _, err := ReadFile(path, Options{})
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if len(ts) != 3 {
			t.Errorf("%s: %d triples, want 3", path, len(ts))
		}
	}
}

func TestFill(t *testing.T) {
	ts := []Triple{{X: -8.7045, Y: 41.1850, Z: 12.5}, {X: -8.7046, Y: 95, Z: 1}}

	geo := sample.NewAccumulator(orb.Point{-8.7045, 41.1850}, nil)
	if n := Fill(geo, ts, true); n != 1 {
		t.Errorf("geographic Fill added %d, want 1", n)
	}
	if p := geo.Snapshot()[0]; p.X != 0 || p.Y != 0 {
		t.Errorf("reference fix projected to (%v, %v), want origin", p.X, p.Y)
	}

	planar := sample.NewAccumulator(orb.Point{}, nil)
	if n := Fill(planar, ts, false); n != 2 {
		t.Errorf("planar Fill added %d, want 2", n)
	}
}
