// Package server serves live overlays of named display regions over
// HTTP.
package server

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gruppe-adler/bathy-utils/internal/colormap"
	"github.com/gruppe-adler/bathy-utils/internal/config"
	"github.com/gruppe-adler/bathy-utils/internal/coverage"
	"github.com/gruppe-adler/bathy-utils/internal/log"
	"github.com/gruppe-adler/bathy-utils/internal/overlay"
	"github.com/gruppe-adler/bathy-utils/internal/sample"
	"github.com/paulmach/orb"
)

// maxBodySize limits sample uploads.
const maxBodySize = 64 << 20

// Server holds the regions rendered by the HTTP handlers.
type Server struct {
	cfg       config.Render
	colormaps *colormap.Registry
	regions   *overlay.Regions
	log       *log.Logger
}

// New returns a server rendering cfg.Width×cfg.Height overlays.
// Geographic input needs a configured reference, as regions are created
// before their first sample arrives.
func New(cfg config.Render, logger *log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Geographic && cfg.Reference == nil {
		return nil, errors.New("geographic input needs a reference")
	}

	reg, err := colormap.NewRegistry(16)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(reg, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, colormaps: reg, log: logger}
	s.regions = overlay.NewRegions(cfg.Width, cfg.Height, opts, func(name string) *sample.Accumulator {
		acc, _ := cfg.NewAccumulator(orb.Point{})
		return acc
	})
	return s, nil
}

// unproject maps planar offsets of acc back to input coordinates.
func (s *Server) unproject(acc *sample.Accumulator) coverage.Unproject {
	if s.cfg.Geographic {
		return coverage.Geographic(acc)
	}
	return coverage.Planar
}

// Router returns the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/health", s.health)
	r.GET("/colormaps", s.listColormaps)

	regions := r.Group("/regions")
	{
		regions.GET("", s.listRegions)
		regions.PUT("/:region/samples", s.putSamples)
		regions.GET("/:region/overlay.png", s.getOverlay)
		regions.GET("/:region/coverage", s.getCoverage)
	}

	return r
}

// Close cancels every render in flight.
func (s *Server) Close() {
	s.regions.Close()
}
