package overlay

import (
	"context"
	"errors"
	"image"
	"runtime"
	"sort"
	"sync"

	"github.com/gruppe-adler/bathy-utils/internal/log"
	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"golang.org/x/sync/semaphore"
)

// maxRenders bounds the number of renders running at once across all
// renderers.
var (
	maxRenders  = int64(runtime.GOMAXPROCS(0))
	renderSlots = semaphore.NewWeighted(maxRenders)
)

// Renderer regenerates the overlay of one display region. Starting a
// new render cancels the one in flight; only the newest generation is
// ever published.
type Renderer struct {
	width, height int
	opts          Options
	log           *log.Logger

	base context.Context
	stop context.CancelFunc

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	latest *Frame
}

// NewRenderer returns a renderer producing width×height frames.
func NewRenderer(width, height int, opts Options) *Renderer {
	base, cancel := context.WithCancel(context.Background())
	return &Renderer{
		width:  width,
		height: height,
		opts:   opts,
		log:    opts.Logger,
		base:   base,
		stop:   cancel,
	}
}

// Job is a render started by Regenerate.
type Job struct {
	Generation uint64

	done  chan struct{}
	frame *Frame
	err   error
}

// Done is closed once the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx is done. A job that lost
// to a newer generation returns ErrSuperseded.
func (j *Job) Wait(ctx context.Context) (*Frame, error) {
	select {
	case <-j.done:
		return j.frame, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Regenerate starts rendering pts, cancelling any render in flight.
// pts must not be modified afterwards; pass an Accumulator snapshot.
func (r *Renderer) Regenerate(pts []sample.Point) *Job {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(r.base)
	r.cancel = cancel
	r.mu.Unlock()

	job := &Job{Generation: gen, done: make(chan struct{})}
	go func() {
		defer close(job.done)
		defer cancel()
		job.frame, job.err = r.run(ctx, gen, pts)
	}()
	return job
}

func (r *Renderer) run(ctx context.Context, gen uint64, pts []sample.Point) (*Frame, error) {
	if err := renderSlots.Acquire(ctx, 1); err != nil {
		return nil, r.stale(gen, ErrCancelled)
	}
	defer renderSlots.Release(1)

	buf := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	frame, err := Generate(ctx, pts, r.opts, buf)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			err = r.stale(gen, err)
		}
		r.log.Debug("render dropped", "generation", gen, "error", err)
		return nil, err
	}
	frame.Generation = gen
	frame.Image = buf

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		r.log.Debug("render superseded", "generation", gen, "newest", r.gen)
		return nil, ErrSuperseded
	}
	r.latest = frame
	r.log.Info("published frame", "generation", gen, "points", frame.Points, "elapsed", frame.Elapsed)
	return frame, nil
}

// stale turns err into ErrSuperseded when gen is no longer the newest
// generation.
func (r *Renderer) stale(gen uint64, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return ErrSuperseded
	}
	return err
}

// Latest returns the last published frame, or nil.
func (r *Renderer) Latest() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// Generation returns the number of renders started so far.
func (r *Renderer) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Close cancels any render in flight. Later calls to Regenerate finish
// with ErrCancelled.
func (r *Renderer) Close() {
	r.stop()
}

// Region pairs the samples of a display region with its renderer.
type Region struct {
	Name    string
	Samples *sample.Accumulator
	*Renderer
}

// Refresh renders a snapshot of the region's samples.
func (g *Region) Refresh() *Job {
	return g.Regenerate(g.Samples.Snapshot())
}

// Regions holds one Region per name, created on first use.
type Regions struct {
	width, height int
	opts          Options
	newSamples    func(name string) *sample.Accumulator

	mu      sync.Mutex
	regions map[string]*Region
}

// NewRegions returns a region set. newSamples creates the accumulator
// for a new region.
func NewRegions(width, height int, opts Options, newSamples func(name string) *sample.Accumulator) *Regions {
	return &Regions{
		width:      width,
		height:     height,
		opts:       opts,
		newSamples: newSamples,
		regions:    map[string]*Region{},
	}
}

// Get returns the region called name, creating it if needed.
func (rs *Regions) Get(name string) *Region {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if g, ok := rs.regions[name]; ok {
		return g
	}
	opts := rs.opts
	opts.Logger = rs.opts.Logger.With("region", name)
	g := &Region{
		Name:     name,
		Samples:  rs.newSamples(name),
		Renderer: NewRenderer(rs.width, rs.height, opts),
	}
	rs.regions[name] = g
	return g
}

// Lookup returns the region called name if it exists.
func (rs *Regions) Lookup(name string) (*Region, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	g, ok := rs.regions[name]
	return g, ok
}

// Names returns the region names, sorted.
func (rs *Regions) Names() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	names := make([]string, 0, len(rs.regions))
	for n := range rs.regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close cancels every region's render in flight.
func (rs *Regions) Close() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, g := range rs.regions {
		g.Close()
	}
}
