// Package overlay runs the full sample to image pipeline and keeps the
// latest rendered frame per display region.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gruppe-adler/bathy-utils/internal/clip"
	"github.com/gruppe-adler/bathy-utils/internal/colormap"
	"github.com/gruppe-adler/bathy-utils/internal/grid"
	"github.com/gruppe-adler/bathy-utils/internal/log"
	"github.com/gruppe-adler/bathy-utils/internal/raster"
	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/paulmach/orb"
	"golang.org/x/image/draw"
)

var (
	// ErrCancelled is returned when a render is cancelled before it
	// writes its output.
	ErrCancelled = errors.New("render cancelled")

	// ErrSuperseded is returned for renders replaced by a newer one.
	ErrSuperseded = errors.New("render superseded")
)

// Options controls one render.
type Options struct {
	GridSize  int
	Alpha     uint8
	Colormap  colormap.Colormap
	Invert    bool
	Margin    float64
	FitAspect bool
	Clip      bool
	Dilation  float64
	Resampler raster.Resampler
	Op        draw.Op
	Workers   int
	Logger    *log.Logger
}

// DefaultOptions returns the options of a plain bathymetry overlay.
func DefaultOptions() Options {
	return Options{
		GridSize:  100,
		Alpha:     255,
		Colormap:  colormap.Jet,
		Margin:    25,
		FitAspect: true,
		Clip:      true,
		Dilation:  10,
		Resampler: raster.Bicubic,
		Op:        draw.Src,
	}
}

// Frame describes a finished render.
type Frame struct {
	Generation uint64

	// Image is set when the frame owns its pixels (Renderer output).
	Image *image.NRGBA

	Bound     orb.Bound
	Transform clip.Transform
	Min, Max  float64
	Grid      *grid.Grid

	// Colormap maps Min to Max onto the rendered colours. It is the
	// inverse of the configured colormap for inverted renders.
	Colormap colormap.Colormap

	// Hull is the dilated coverage area in world coordinates, PixelHull
	// the same ring in frame pixels. Both are nil without clipping.
	Hull      orb.Ring
	PixelHull orb.Ring

	// Samples are the points the frame was rendered from.
	Samples []sample.Point

	Points  int
	Elapsed time.Duration
}

// Empty reports whether the frame was rendered from zero samples.
func (f *Frame) Empty() bool {
	return f == nil || f.Points == 0
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}

// Generate renders pts onto dst. Nothing is written to dst until every
// cancellation point has passed, so a cancelled render leaves dst as it
// was and returns ErrCancelled.
func Generate(ctx context.Context, pts []sample.Point, opts Options, dst draw.Image) (*Frame, error) {
	start := time.Now()
	logger := opts.Logger

	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	frameRect := dst.Bounds()
	if len(pts) == 0 {
		if opts.Op == draw.Src {
			raster.Clear(dst)
		}
		logger.Debug("rendered empty frame")
		return &Frame{Elapsed: time.Since(start)}, nil
	}

	b := grid.BoundsOf(pts, opts.Margin)
	if opts.FitAspect {
		b = grid.FitAspect(b, frameRect.Dx(), frameRect.Dy())
	}

	g, err := grid.DiscretizeParallel(ctx, pts, opts.GridSize, b, opts.Workers)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	if err != nil {
		return nil, err
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	norm := grid.Normalize(g)
	if opts.Invert {
		norm.Invert()
	}
	cm := opts.Colormap
	if cm == nil {
		cm = colormap.Jet
	}
	legend := cm
	if opts.Invert {
		legend = colormap.Invert(cm)
	}
	small := raster.Colorize(norm, cm, opts.Alpha)
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	frame := &Frame{
		Bound:     b,
		Transform: clip.NewTransform(b, frameRect),
		Min:       norm.Min,
		Max:       norm.Max,
		Grid:      g,
		Colormap:  legend,
		Samples:   pts,
		Points:    len(pts),
	}

	var mask *image.Alpha
	if opts.Clip {
		hull := clip.ConvexHull(sample.Positions(pts))
		if clip.Degenerate(hull) {
			logger.Debug("coverage hull is degenerate, not clipping", "points", len(pts))
		} else {
			frame.Hull = clip.Dilate(hull, opts.Dilation)
			frame.PixelHull = frame.Transform.ApplyRing(frame.Hull)
			mask = clip.NewMask(frame.PixelHull, frameRect)
		}
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	if opts.Op == draw.Src {
		raster.Upscale(small, dst, opts.Resampler, draw.Src)
		clip.Apply(dst, mask)
	} else {
		layer := image.NewNRGBA(frameRect)
		raster.Upscale(small, layer, opts.Resampler, draw.Src)
		clip.Apply(layer, mask)
		draw.Draw(dst, frameRect, layer, frameRect.Min, opts.Op)
	}

	frame.Elapsed = time.Since(start)
	logger.Debug("rendered frame",
		"points", frame.Points,
		"cells", g.NonEmpty(),
		"min", frame.Min,
		"max", frame.Max,
		"elapsed", frame.Elapsed)
	return frame, nil
}
