package server

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gruppe-adler/bathy-utils/internal/coverage"
	"github.com/gruppe-adler/bathy-utils/internal/overlay"
	"github.com/gruppe-adler/bathy-utils/internal/xyz"
)

// GET /health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"regions": len(s.regions.Names()),
	})
}

// GET /colormaps
func (s *Server) listColormaps(c *gin.Context) {
	success(c, http.StatusOK, s.colormaps.Names())
}

// GET /regions
func (s *Server) listRegions(c *gin.Context) {
	success(c, http.StatusOK, s.regions.Names())
}

// samplesResult is the response of PUT /regions/:region/samples.
type samplesResult struct {
	Generation uint64   `json:"generation"`
	Accepted   int      `json:"accepted"`
	Malformed  int      `json:"malformed"`
	Samples    int      `json:"samples"`
	Published  bool     `json:"published"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	ElapsedMs  int64    `json:"elapsedMs,omitempty"`
}

// PUT /regions/:region/samples adds the XYZ lines of the body to the
// region and starts a new render. With ?wait=true the response waits
// for that render.
func (s *Server) putSamples(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	ts, malformed, err := xyz.ReadAll(body, s.cfg.XYZ())
	if err != nil {
		var perr *xyz.ParseError
		if errors.As(err, &perr) {
			fail(c, http.StatusBadRequest, perr.Error())
			return
		}
		c.Error(err)
		fail(c, http.StatusBadRequest, "could not read samples")
		return
	}

	region := s.regions.Get(c.Param("region"))
	accepted := xyz.Fill(region.Samples, ts, s.cfg.Geographic)
	job := region.Refresh()

	res := samplesResult{
		Generation: job.Generation,
		Accepted:   accepted,
		Malformed:  malformed,
		Samples:    region.Samples.Len(),
	}

	if wait, _ := strconv.ParseBool(c.Query("wait")); !wait {
		success(c, http.StatusAccepted, res)
		return
	}

	frame, err := job.Wait(c.Request.Context())
	switch {
	case errors.Is(err, overlay.ErrSuperseded):
		// a newer upload owns the next frame
		success(c, http.StatusOK, res)
		return
	case err != nil:
		c.Error(err)
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	res.Published = true
	if !frame.Empty() {
		res.Min, res.Max = &frame.Min, &frame.Max
	}
	res.ElapsedMs = frame.Elapsed.Milliseconds()
	success(c, http.StatusOK, res)
}

func (s *Server) latest(c *gin.Context) (*overlay.Region, *overlay.Frame, bool) {
	region, ok := s.regions.Lookup(c.Param("region"))
	if !ok {
		fail(c, http.StatusNotFound, "unknown region")
		return nil, nil, false
	}
	frame := region.Latest()
	if frame == nil {
		fail(c, http.StatusNotFound, "no frame rendered yet")
		return nil, nil, false
	}
	return region, frame, true
}

// GET /regions/:region/overlay.png
func (s *Server) getOverlay(c *gin.Context) {
	_, frame, ok := s.latest(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.Image); err != nil {
		c.Error(err)
		fail(c, http.StatusInternalServerError, "could not encode overlay")
		return
	}

	c.Header("X-Generation", strconv.FormatUint(frame.Generation, 10))
	if !frame.Empty() {
		c.Header("X-Value-Min", strconv.FormatFloat(frame.Min, 'g', -1, 64))
		c.Header("X-Value-Max", strconv.FormatFloat(frame.Max, 'g', -1, 64))
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// GET /regions/:region/coverage
func (s *Server) getCoverage(c *gin.Context) {
	region, frame, ok := s.latest(c)
	if !ok {
		return
	}

	fc := coverage.Build(frame.Hull, frame.Samples, s.unproject(region.Samples))
	data, err := fc.MarshalJSON()
	if err != nil {
		c.Error(err)
		fail(c, http.StatusInternalServerError, "could not encode coverage")
		return
	}

	c.Header("X-Generation", strconv.FormatUint(frame.Generation, 10))
	c.Data(http.StatusOK, "application/geo+json", data)
}
