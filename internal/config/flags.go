package config

import (
	"flag"
)

// Flags registers the render settings on fs. After fs.Parse, Load reads
// the -config file (if any) and applies every flag given on the command
// line on top of it.
type Flags struct {
	fs     *flag.FlagSet
	path   string
	val    Render
	alpha  uint
	noClip bool
}

// NewFlags registers the shared render flags on fs.
func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs, val: Default()}
	f.alpha = uint(f.val.Alpha)

	fs.StringVar(&f.path, "config", "", "Path to render.json (optional)")
	fs.IntVar(&f.val.GridSize, "grid", f.val.GridSize, "Number of grid cells per axis")
	fs.IntVar(&f.val.Width, "width", f.val.Width, "Output width in pixels")
	fs.IntVar(&f.val.Height, "height", f.val.Height, "Output height in pixels")
	fs.UintVar(&f.alpha, "alpha", f.alpha, "Opacity of covered pixels (0-255)")
	fs.StringVar(&f.val.Colormap, "colormap", f.val.Colormap, "Name of a built-in colormap")
	fs.StringVar(&f.val.ColormapFile, "colormap-file", "", "Path to a .cpt, .act or .rgb colormap")
	fs.BoolVar(&f.val.Invert, "invert", false, "Invert the colormap")
	fs.Float64Var(&f.val.Margin, "margin", f.val.Margin, "Margin around the samples")
	fs.Float64Var(&f.val.Dilation, "dilation", f.val.Dilation, "Outward dilation of the coverage hull")
	fs.BoolVar(&f.noClip, "noclip", false, "Do not clip to the coverage hull")
	fs.StringVar(&f.val.Resampler, "resampler", f.val.Resampler, "Upscaling kernel (bicubic, mitchell, lanczos, catmullrom, bilinear, nearest)")
	fs.StringVar(&f.val.Projection, "projection", f.val.Projection, "Projection of geographic input (equirectangular, haversine)")
	fs.StringVar(&f.val.Columns, "columns", f.val.Columns, "Column order of XYZ input (yxz, xyz)")
	fs.BoolVar(&f.val.Geographic, "geographic", false, "XYZ input holds latitude/longitude")
	fs.BoolVar(&f.val.Lenient, "lenient", false, "Skip malformed XYZ lines")
	fs.IntVar(&f.val.Workers, "workers", 0, "Binning goroutines (0 = serial)")
	fs.StringVar(&f.val.LogLevel, "log-level", f.val.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&f.val.LogDir, "log-dir", "", "Directory of the log file")

	return f
}

// Load returns the effective settings.
func (f *Flags) Load() (Render, error) {
	r := Default()
	if f.path != "" {
		var err error
		if r, err = Read(f.path); err != nil {
			return r, err
		}
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "grid":
			r.GridSize = f.val.GridSize
		case "width":
			r.Width = f.val.Width
		case "height":
			r.Height = f.val.Height
		case "alpha":
			r.Alpha = uint8(min(f.alpha, 255))
		case "colormap":
			r.Colormap = f.val.Colormap
			r.ColormapFile = ""
		case "colormap-file":
			r.ColormapFile = f.val.ColormapFile
		case "invert":
			r.Invert = f.val.Invert
		case "margin":
			r.Margin = f.val.Margin
		case "dilation":
			r.Dilation = f.val.Dilation
		case "noclip":
			r.Clip = !f.noClip
		case "resampler":
			r.Resampler = f.val.Resampler
		case "projection":
			r.Projection = f.val.Projection
		case "columns":
			r.Columns = f.val.Columns
		case "geographic":
			r.Geographic = f.val.Geographic
		case "lenient":
			r.Lenient = f.val.Lenient
		case "workers":
			r.Workers = f.val.Workers
		case "log-level":
			r.LogLevel = f.val.LogLevel
		case "log-dir":
			r.LogDir = f.val.LogDir
		}
	})

	return r, r.Validate()
}
