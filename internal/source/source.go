// Package source loads sample files into an accumulator.
package source

import (
	"fmt"
	"strings"

	"github.com/gruppe-adler/bathy-utils/internal/config"
	"github.com/gruppe-adler/bathy-utils/internal/coverage"
	"github.com/gruppe-adler/bathy-utils/internal/dem"
	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/gruppe-adler/bathy-utils/internal/xyz"
	"github.com/paulmach/orb"
)

// Source is a loaded sample file.
type Source struct {
	Path    string
	Samples *sample.Accumulator

	// Geographic is set when the samples were projected from lon/lat.
	Geographic bool

	// Malformed counts lines skipped by a lenient reader.
	Malformed int
}

// Unproject returns the mapping from planar offsets to the input's
// coordinates.
func (s *Source) Unproject() coverage.Unproject {
	if s.Geographic {
		return coverage.Geographic(s.Samples)
	}
	return coverage.Planar
}

// IsDEM reports whether path names an Esri ASCII raster.
func IsDEM(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".asc") || strings.HasSuffix(lower, ".asc.gz")
}

// Load reads path. Esri ASCII rasters are taken as planar; everything
// else is read as an XYZ table according to cfg.
func Load(path string, cfg config.Render) (*Source, error) {
	if IsDEM(path) {
		raster, err := dem.Read(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		acc := sample.NewAccumulator(orb.Point{}, nil)
		for _, p := range raster.Samples() {
			acc.AddPoint(p.X, p.Y, p.Value)
		}
		return &Source{Path: path, Samples: acc}, nil
	}

	ts, malformed, err := xyz.ReadFile(path, cfg.XYZ())
	if err != nil {
		return nil, err
	}

	acc, err := cfg.NewAccumulator(Center(ts))
	if err != nil {
		return nil, err
	}
	xyz.Fill(acc, ts, cfg.Geographic)

	return &Source{Path: path, Samples: acc, Geographic: cfg.Geographic, Malformed: malformed}, nil
}

// Center returns the centre of the bounding box of ts as
// orb.Point{x, y}.
func Center(ts []xyz.Triple) orb.Point {
	if len(ts) == 0 {
		return orb.Point{}
	}
	b := orb.Bound{Min: orb.Point{ts[0].X, ts[0].Y}, Max: orb.Point{ts[0].X, ts[0].Y}}
	for _, t := range ts[1:] {
		b = b.Extend(orb.Point{t.X, t.Y})
	}
	return b.Center()
}
