// Package render implements the render command: one overlay image and
// its companion files from a sample file.
package render

import (
	"context"
	"image"
	"path"

	"github.com/gruppe-adler/bathy-utils/internal/colormap"
	"github.com/gruppe-adler/bathy-utils/internal/config"
	"github.com/gruppe-adler/bathy-utils/internal/coverage"
	"github.com/gruppe-adler/bathy-utils/internal/dem"
	"github.com/gruppe-adler/bathy-utils/internal/log"
	"github.com/gruppe-adler/bathy-utils/internal/overlay"
	"github.com/gruppe-adler/bathy-utils/internal/preview"
	"github.com/gruppe-adler/bathy-utils/internal/source"
	"github.com/gruppe-adler/bathy-utils/internal/terrainrgb"
)

// Output file names.
const (
	OverlayFile  = "overlay"
	HeightFile   = "height.png"
	GridFile     = "grid.asc"
	CoverageFile = "coverage.geojson"
)

// Overlay renders the samples of src into a width×height frame. The
// returned frame carries the image.
func Overlay(ctx context.Context, src *source.Source, cfg config.Render, width, height int, logger *log.Logger) (*overlay.Frame, error) {
	reg, err := colormap.NewRegistry(4)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(reg, logger)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	frame, err := overlay.Generate(ctx, src.Samples.Snapshot(), opts, img)
	if err != nil {
		return nil, err
	}
	frame.Image = img
	return frame, nil
}

// WriteImages writes the overlay and, when sizes is not empty, its
// previews. It returns the written paths.
func WriteImages(dir string, frame *overlay.Frame, sizes []uint) ([]string, error) {
	return preview.Write(dir, OverlayFile, frame.Image, sizes)
}

// WriteGrid writes the cell means as a Terrain-RGB height image (depths
// as negative heights) and as an Esri ASCII raster. Frames without
// samples have no grid and write nothing.
func WriteGrid(dir string, frame *overlay.Frame) error {
	if frame.Grid == nil {
		return nil
	}
	if err := preview.SaveImage(path.Join(dir, HeightFile), terrainrgb.HeightImage(frame.Grid, 0, -1)); err != nil {
		return err
	}
	return dem.FromGrid(frame.Grid).WriteFile(path.Join(dir, GridFile))
}

// WriteCoverage writes the coverage hull and the samples as GeoJSON in
// the coordinates of the input.
func WriteCoverage(dir string, frame *overlay.Frame, src *source.Source) error {
	fc := coverage.Build(frame.Hull, src.Samples.Snapshot(), src.Unproject())
	return coverage.WriteFile(path.Join(dir, CoverageFile), fc)
}
