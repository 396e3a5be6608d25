package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gruppe-adler/bathy-utils/internal/config"
	"github.com/gruppe-adler/bathy-utils/internal/dem"
	"github.com/gruppe-adler/bathy-utils/internal/overlay"
	"github.com/gruppe-adler/bathy-utils/internal/source"
	"github.com/paulmach/orb/geojson"
)

// soundings writes a ring of samples around the origin, depth growing
// with the angle.
func soundings(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < 64; i++ {
		a := 2 * math.Pi * float64(i) / 64
		fmt.Fprintf(&b, "%f %f %f\n", 100*math.Sin(a), 100*math.Cos(a), 5+float64(i))
	}
	path := filepath.Join(t.TempDir(), "soundings.xyz")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRender(t *testing.T) {
	cfg := config.Default()
	cfg.GridSize = 20

	src, err := source.Load(soundings(t), cfg)
	if err != nil {
		t.Fatal(err)
	}

	frame, err := Overlay(context.Background(), src, cfg, 64, 48, nil)
	if err != nil {
		t.Fatal(err)
	}
	if frame.Image == nil || frame.Image.Bounds().Dx() != 64 || frame.Image.Bounds().Dy() != 48 {
		t.Fatalf("unexpected image %v", frame.Image)
	}
	if frame.Min < 5 || frame.Max > 68 || frame.Min >= frame.Max {
		t.Errorf("range = %v..%v, want within 5..68", frame.Min, frame.Max)
	}

	dir := t.TempDir()
	written, err := WriteImages(dir, frame, []uint{16})
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Errorf("wrote %v, want overlay and one preview", written)
	}
	if err := WriteGrid(dir, frame); err != nil {
		t.Fatal(err)
	}
	if err := WriteCoverage(dir, frame, src); err != nil {
		t.Fatal(err)
	}

	raster, err := dem.Read(filepath.Join(dir, GridFile))
	if err != nil {
		t.Fatal(err)
	}
	if raster.Ncols != 20 || raster.Nrows != 20 {
		t.Errorf("grid.asc is %dx%d, want 20x20", raster.Ncols, raster.Nrows)
	}
	if _, err := os.Stat(filepath.Join(dir, HeightFile)); err != nil {
		t.Error(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, CoverageFile))
	if err != nil {
		t.Fatal(err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 65 {
		t.Errorf("coverage has %d features, want hull and 64 samples", len(fc.Features))
	}
}

func TestRenderCancelled(t *testing.T) {
	cfg := config.Default()
	src, err := source.Load(soundings(t), cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Overlay(ctx, src, cfg, 32, 32, nil); !errors.Is(err, overlay.ErrCancelled) {
		t.Errorf("error = %v, want ErrCancelled", err)
	}
}

func TestWriteGridEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := WriteGrid(dir, &overlay.Frame{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, GridFile)); !os.IsNotExist(err) {
		t.Errorf("grid.asc written for an empty frame")
	}
}
