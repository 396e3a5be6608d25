// Package config reads render.json, the settings shared by the render,
// tiles and serve commands.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gruppe-adler/bathy-utils/internal/colormap"
	"github.com/gruppe-adler/bathy-utils/internal/log"
	"github.com/gruppe-adler/bathy-utils/internal/overlay"
	"github.com/gruppe-adler/bathy-utils/internal/raster"
	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/gruppe-adler/bathy-utils/internal/xyz"
	"github.com/paulmach/orb"
)

// Reference is the origin of the planar frame for geographic input.
type Reference struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Point returns the reference as orb.Point{lon, lat}.
func (r Reference) Point() orb.Point {
	return orb.Point{r.Longitude, r.Latitude}
}

// Render represents the structure of a render.json
type Render struct {
	GridSize     int        `json:"gridSize"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	Alpha        uint8      `json:"alpha"`
	Colormap     string     `json:"colormap"`
	ColormapFile string     `json:"colormapFile,omitempty"`
	Invert       bool       `json:"invert"`
	Margin       float64    `json:"margin"`
	FitAspect    bool       `json:"fitAspect"`
	Clip         bool       `json:"clip"`
	Dilation     float64    `json:"dilation"`
	Resampler    string     `json:"resampler"`
	Projection   string     `json:"projection"`
	Reference    *Reference `json:"reference,omitempty"`
	Columns      string     `json:"columns"`
	Geographic   bool       `json:"geographic"`
	Lenient      bool       `json:"lenient"`
	Workers      int        `json:"workers"`
	LogLevel     string     `json:"logLevel"`
	LogDir       string     `json:"logDir,omitempty"`
}

// Default returns the settings used when render.json leaves a field out.
func Default() Render {
	return Render{
		GridSize:   100,
		Width:      1024,
		Height:     768,
		Alpha:      255,
		Colormap:   "Jet",
		Margin:     25,
		FitAspect:  true,
		Clip:       true,
		Dilation:   10,
		Resampler:  "bicubic",
		Projection: "equirectangular",
		Columns:    "yxz",
		LogLevel:   "info",
	}
}

// Read render.json from given path. Fields missing from the file keep
// their default.
func Read(path string) (Render, error) {
	val := Default()

	jsonFile, err := os.Open(path)
	if err != nil {
		return val, err
	}
	defer jsonFile.Close()

	dec := json.NewDecoder(jsonFile)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&val); err != nil {
		return val, fmt.Errorf("%s: %w", path, err)
	}

	return val, val.Validate()
}

// Write writes r to path as indented JSON.
func (r Render) Write(path string) error {
	bytes, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0o644)
}

// Validate reports every invalid field.
func (r Render) Validate() error {
	var errs []error

	if r.GridSize < 1 {
		errs = append(errs, fmt.Errorf("gridSize must be positive, got %d", r.GridSize))
	}
	if r.Width < 1 || r.Height < 1 {
		errs = append(errs, fmt.Errorf("width and height must be positive, got %dx%d", r.Width, r.Height))
	}
	if r.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin must not be negative, got %v", r.Margin))
	}
	if r.Dilation < 0 {
		errs = append(errs, fmt.Errorf("dilation must not be negative, got %v", r.Dilation))
	}
	if r.ColormapFile == "" {
		if _, ok := colormap.Lookup(r.Colormap); !ok {
			errs = append(errs, fmt.Errorf("unknown colormap: %s", r.Colormap))
		}
	}
	if _, err := raster.ResamplerByName(r.Resampler); err != nil {
		errs = append(errs, err)
	}
	if _, err := sample.ProjectionByName(r.Projection); err != nil {
		errs = append(errs, err)
	}
	if _, err := xyz.ParseColumns(r.Columns); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(r.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level: %s", r.LogLevel))
	}

	return errors.Join(errs...)
}

// XYZ returns the reader options for sample files.
func (r Render) XYZ() xyz.Options {
	cols, _ := xyz.ParseColumns(r.Columns)
	return xyz.Options{Columns: cols, Lenient: r.Lenient}
}

// Options resolves the overlay options. Colormap files are loaded
// through reg and registered there under their file name.
func (r Render) Options(reg *colormap.Registry, logger *log.Logger) (overlay.Options, error) {
	opts := overlay.DefaultOptions()

	opts.GridSize = r.GridSize
	opts.Alpha = r.Alpha
	opts.Invert = r.Invert
	opts.Margin = r.Margin
	opts.FitAspect = r.FitAspect
	opts.Clip = r.Clip
	opts.Dilation = r.Dilation
	opts.Workers = r.Workers
	opts.Logger = logger

	if r.ColormapFile != "" {
		cm, err := reg.Load(r.ColormapFile)
		if err != nil {
			return opts, err
		}
		reg.Register(cm)
		opts.Colormap = cm
	} else {
		opts.Colormap = reg.Get(r.Colormap)
	}

	res, err := raster.ResamplerByName(r.Resampler)
	if err != nil {
		return opts, err
	}
	opts.Resampler = res

	return opts, nil
}

// NewAccumulator returns an accumulator for the configured projection.
// Without a configured reference, fallback is used.
func (r Render) NewAccumulator(fallback orb.Point) (*sample.Accumulator, error) {
	proj, err := sample.ProjectionByName(r.Projection)
	if err != nil {
		return nil, err
	}
	ref := fallback
	if r.Reference != nil {
		ref = r.Reference.Point()
	}
	return sample.NewAccumulator(ref, proj), nil
}
