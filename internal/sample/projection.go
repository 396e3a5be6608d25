package sample

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Projection converts geographic positions (orb.Point{lon, lat}) into
// planar offsets in metres from a reference, x east and y north.
type Projection interface {
	Forward(ref, p orb.Point) (x, y float64)
	Inverse(ref orb.Point, x, y float64) orb.Point
}

// Equirectangular is a local tangent plane approximation around the
// reference. Good for survey-sized areas.
type Equirectangular struct{}

func (Equirectangular) Forward(ref, p orb.Point) (x, y float64) {
	lat0 := s1.Angle(ref[1]) * s1.Degree
	dLat := (s1.Angle(p[1]) - s1.Angle(ref[1])) * s1.Degree
	dLon := ((s1.Angle(p[0]) - s1.Angle(ref[0])) * s1.Degree).Normalized()

	x = orb.EarthRadius * dLon.Radians() * math.Cos(lat0.Radians())
	y = orb.EarthRadius * dLat.Radians()
	return x, y
}

func (Equirectangular) Inverse(ref orb.Point, x, y float64) orb.Point {
	lat0 := s1.Angle(ref[1]) * s1.Degree
	dLat := s1.Angle(y / orb.EarthRadius)
	dLon := s1.Angle(x / (orb.EarthRadius * math.Cos(lat0.Radians())))

	return orb.Point{ref[0] + dLon.Degrees(), ref[1] + dLat.Degrees()}
}

// Haversine places each fix at its great-circle distance from the
// reference along the initial bearing.
type Haversine struct{}

func (Haversine) Forward(ref, p orb.Point) (x, y float64) {
	d := geo.DistanceHaversine(ref, p)
	if d == 0 {
		return 0, 0
	}
	b := (s1.Angle(geo.Bearing(ref, p)) * s1.Degree).Radians()
	return d * math.Sin(b), d * math.Cos(b)
}

func (Haversine) Inverse(ref orb.Point, x, y float64) orb.Point {
	d := math.Hypot(x, y)
	if d == 0 {
		return ref
	}
	b := s1.Angle(math.Atan2(x, y)).Degrees()
	return geo.PointAtBearingAndDistance(ref, b, d)
}

// ProjectionByName returns the projection called name (equirectangular
// or haversine, case-insensitive).
func ProjectionByName(name string) (Projection, error) {
	switch strings.ToLower(name) {
	case "", "equirectangular", "ltp":
		return Equirectangular{}, nil
	case "haversine", "geodesic":
		return Haversine{}, nil
	}
	return nil, fmt.Errorf("unknown projection: %s", name)
}
