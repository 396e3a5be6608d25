package server

import (
	"encoding/json"
	"fmt"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gruppe-adler/bathy-utils/internal/config"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T, cfg config.Render) *Server {
	t.Helper()
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

func smallConfig() config.Render {
	cfg := config.Default()
	cfg.Width, cfg.Height = 64, 48
	cfg.GridSize = 16
	cfg.Columns = "xyz"
	return cfg
}

// ring returns XYZ lines on a circle of radius 100 around the origin.
func ring(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		fmt.Fprintf(&b, "%f %f %d\n", 100*math.Cos(a), 100*math.Sin(a), i)
	}
	return b.String()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndColormaps(t *testing.T) {
	r := newServer(t, smallConfig()).Router()

	w := do(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("GET /health = %d %s", w.Code, w.Body)
	}

	w = do(t, r, http.MethodGet, "/colormaps", "")
	var res struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, n := range res.Data {
		found = found || n == "Jet"
	}
	if !found {
		t.Errorf("GET /colormaps = %v, missing Jet", res.Data)
	}
}

func TestPutSamplesWait(t *testing.T) {
	r := newServer(t, smallConfig()).Router()

	w := do(t, r, http.MethodPut, "/regions/leixoes/samples?wait=true", ring(32))
	if w.Code != http.StatusOK {
		t.Fatalf("PUT = %d %s", w.Code, w.Body)
	}
	var res struct {
		Data samplesResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Data.Published || res.Data.Accepted != 32 || res.Data.Generation != 1 {
		t.Errorf("result = %+v", res.Data)
	}
	if res.Data.Min == nil || res.Data.Max == nil || *res.Data.Min >= *res.Data.Max {
		t.Errorf("range = %v..%v", res.Data.Min, res.Data.Max)
	}

	w = do(t, r, http.MethodGet, "/regions/leixoes/overlay.png", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("GET overlay = %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if w.Header().Get("X-Generation") != "1" {
		t.Errorf("X-Generation = %q", w.Header().Get("X-Generation"))
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("overlay is %v, want 64x48", b)
	}

	w = do(t, r, http.MethodGet, "/regions/leixoes/coverage", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET coverage = %d", w.Code)
	}
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 33 {
		t.Errorf("coverage has %d features, want 33", len(fc.Features))
	}
	if _, ok := fc.Features[0].Geometry.(orb.Polygon); !ok {
		t.Errorf("first feature is %T, want polygon", fc.Features[0].Geometry)
	}

	w = do(t, r, http.MethodGet, "/regions", "")
	if !strings.Contains(w.Body.String(), "leixoes") {
		t.Errorf("GET /regions = %s", w.Body)
	}
}

func TestCoverageMatchesPublishedFrame(t *testing.T) {
	s := newServer(t, smallConfig())
	r := s.Router()

	if w := do(t, r, http.MethodPut, "/regions/a/samples?wait=true", ring(16)); w.Code != http.StatusOK {
		t.Fatalf("PUT = %d %s", w.Code, w.Body)
	}

	// accepted but not rendered yet
	region, ok := s.regions.Lookup("a")
	if !ok {
		t.Fatal("region a missing")
	}
	region.Samples.AddPoint(500, 500, 99)

	w := do(t, r, http.MethodGet, "/regions/a/coverage", "")
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 17 {
		t.Errorf("coverage has %d features, want the hull and the 16 rendered samples", len(fc.Features))
	}
}

func TestPutSamplesAsync(t *testing.T) {
	r := newServer(t, smallConfig()).Router()

	w := do(t, r, http.MethodPut, "/regions/a/samples", ring(8))
	if w.Code != http.StatusAccepted {
		t.Errorf("PUT = %d, want 202", w.Code)
	}
}

func TestPutSamplesMalformed(t *testing.T) {
	r := newServer(t, smallConfig()).Router()

	w := do(t, r, http.MethodPut, "/regions/a/samples", "1 2 3\nnot a sample\n")
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "line 2") {
		t.Errorf("PUT = %d %s, want 400 naming line 2", w.Code, w.Body)
	}

	cfg := smallConfig()
	cfg.Lenient = true
	r = newServer(t, cfg).Router()
	w = do(t, r, http.MethodPut, "/regions/a/samples", "1 2 3\nnot a sample\n")
	if w.Code != http.StatusAccepted || !strings.Contains(w.Body.String(), `"malformed":1`) {
		t.Errorf("lenient PUT = %d %s", w.Code, w.Body)
	}
}

func TestUnknownRegion(t *testing.T) {
	r := newServer(t, smallConfig()).Router()

	for _, target := range []string{"/regions/nowhere/overlay.png", "/regions/nowhere/coverage"} {
		if w := do(t, r, http.MethodGet, target, ""); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", target, w.Code)
		}
	}
}

func TestGeographicNeedsReference(t *testing.T) {
	cfg := smallConfig()
	cfg.Geographic = true
	if _, err := New(cfg, nil); err == nil {
		t.Errorf("expected error without reference")
	}

	cfg.Reference = &config.Reference{Latitude: 41.18, Longitude: -8.7}
	r := newServer(t, cfg).Router()
	w := do(t, r, http.MethodPut, "/regions/a/samples?wait=1", "-8.701 41.181 5\n-8.699 41.181 6\n-8.7 41.179 7\n")
	if w.Code != http.StatusOK {
		t.Fatalf("PUT = %d %s", w.Code, w.Body)
	}

	w = do(t, r, http.MethodGet, "/regions/a/coverage", "")
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	p := fc.Features[len(fc.Features)-1].Geometry.(orb.Point)
	if math.Abs(p[0]+8.7) > 1e-9 || math.Abs(p[1]-41.179) > 1e-9 {
		t.Errorf("last sample = %v, want [-8.7 41.179]", p)
	}
}
