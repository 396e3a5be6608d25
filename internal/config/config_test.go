package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/gruppe-adler/bathy-utils/internal/colormap"
	"github.com/gruppe-adler/bathy-utils/internal/raster"
	"github.com/gruppe-adler/bathy-utils/internal/xyz"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestRead(t *testing.T) {
	path := writeConfig(t, `{"gridSize": 50, "colormap": "Hot", "reference": {"latitude": 41.18, "longitude": -8.7}}`)

	r, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if r.GridSize != 50 || r.Colormap != "Hot" {
		t.Errorf("got gridSize %d colormap %s", r.GridSize, r.Colormap)
	}
	if r.Width != 1024 || r.Dilation != 10 || !r.Clip {
		t.Errorf("missing fields lost their defaults: %+v", r)
	}
	if r.Reference == nil || r.Reference.Point()[0] != -8.7 {
		t.Errorf("reference = %+v", r.Reference)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `{"gridSize": `},
		{"unknown field", `{"gridsize": 10, "frobnicate": true}`},
		{"invalid value", `{"gridSize": 0}`},
		{"unknown colormap", `{"colormap": "Plasma"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(writeConfig(t, tt.content)); err == nil {
				t.Errorf("expected error")
			}
		})
	}

	if _, err := Read(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Render)
	}{
		{"grid", func(r *Render) { r.GridSize = -1 }},
		{"size", func(r *Render) { r.Height = 0 }},
		{"margin", func(r *Render) { r.Margin = -1 }},
		{"dilation", func(r *Render) { r.Dilation = -5 }},
		{"resampler", func(r *Render) { r.Resampler = "sinc" }},
		{"projection", func(r *Render) { r.Projection = "mercator" }},
		{"columns", func(r *Render) { r.Columns = "zyx" }},
		{"log level", func(r *Render) { r.LogLevel = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Default()
			tt.modify(&r)
			if err := r.Validate(); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.json")
	want := Default()
	want.Colormap = "Sidescan"
	want.Geographic = true
	if err := want.Write(path); err != nil {
		t.Fatal(err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestOptions(t *testing.T) {
	reg, err := colormap.NewRegistry(4)
	if err != nil {
		t.Fatal(err)
	}

	r := Default()
	r.Colormap = "hot"
	r.Resampler = "nearest"
	r.Clip = false

	opts, err := r.Options(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Colormap != colormap.Hot {
		t.Errorf("colormap = %s, want Hot", opts.Colormap.Name())
	}
	if opts.Resampler != raster.NearestNeighbor {
		t.Errorf("resampler not nearest")
	}
	if opts.Clip || opts.GridSize != 100 {
		t.Errorf("got %+v", opts)
	}

	r.ColormapFile = filepath.Join(t.TempDir(), "missing.cpt")
	if _, err := r.Options(reg, nil); err == nil {
		t.Errorf("expected error for missing colormap file")
	}
}

func TestOptionsRegistersColormapFile(t *testing.T) {
	reg, err := colormap.NewRegistry(4)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "sea.cpt")
	if err := os.WriteFile(path, []byte("0\t0 0 0\t10\t255 0 0\n10\t255 0 0\t20\t255 255 255\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := Default()
	r.ColormapFile = path
	opts, err := r.Options(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Colormap.Name() != "sea" {
		t.Errorf("colormap = %s, want sea", opts.Colormap.Name())
	}
	if reg.Get("sea") != opts.Colormap {
		t.Errorf("colormap file not registered")
	}

	found := false
	for _, n := range reg.Names() {
		found = found || n == "sea"
	}
	if !found {
		t.Errorf("Names() = %v, missing sea", reg.Names())
	}
}

func TestXYZ(t *testing.T) {
	r := Default()
	r.Columns = "xyz"
	r.Lenient = true
	if got := r.XYZ(); got != (xyz.Options{Columns: xyz.XYZ, Lenient: true}) {
		t.Errorf("XYZ() = %+v", got)
	}
}

func TestFlags(t *testing.T) {
	path := writeConfig(t, `{"gridSize": 50, "colormap": "Hot", "dilation": 3}`)

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := NewFlags(fs)
	if err := fs.Parse([]string{"-config", path, "-dilation", "7", "-noclip", "-alpha", "300"}); err != nil {
		t.Fatal(err)
	}

	r, err := f.Load()
	if err != nil {
		t.Fatal(err)
	}
	if r.GridSize != 50 || r.Colormap != "Hot" {
		t.Errorf("config file values lost: %+v", r)
	}
	if r.Dilation != 7 || r.Clip || r.Alpha != 255 {
		t.Errorf("flags not applied: %+v", r)
	}
}
