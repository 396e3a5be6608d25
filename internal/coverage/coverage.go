// Package coverage exports the surveyed area of a render as GeoJSON.
package coverage

import (
	"fmt"
	"os"

	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Unproject maps a planar offset back to output coordinates.
type Unproject func(x, y float64) orb.Point

// Planar keeps planar coordinates as they are.
func Planar(x, y float64) orb.Point {
	return orb.Point{x, y}
}

// Geographic returns an Unproject turning offsets around acc's reference
// back into lon/lat.
func Geographic(acc *sample.Accumulator) Unproject {
	ref, proj := acc.Reference(), acc.Projection()
	return func(x, y float64) orb.Point {
		return proj.Inverse(ref, x, y)
	}
}

// Build returns a collection holding the coverage polygon (if hull is
// not empty) followed by one point feature per sample.
func Build(hull orb.Ring, pts []sample.Point, unproject Unproject) *geojson.FeatureCollection {
	if unproject == nil {
		unproject = Planar
	}
	fc := geojson.NewFeatureCollection()

	if len(hull) > 0 {
		ring := make(orb.Ring, len(hull))
		for i, p := range hull {
			ring[i] = unproject(p[0], p[1])
		}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["kind"] = "coverage"
		f.Properties["samples"] = len(pts)
		fc.Append(f)
	}

	for _, p := range pts {
		f := geojson.NewFeature(unproject(p.X, p.Y))
		f.Properties["kind"] = "sample"
		f.Properties["value"] = p.Value
		fc.Append(f)
	}

	return fc
}

// WriteFile writes fc to path.
func WriteFile(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding coverage: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
