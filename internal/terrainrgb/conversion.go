package terrainrgb

import (
	"image/color"
	"math"
)

/*
	The Mapbox Terrain-RGB Tiles use the following equation to decode
	height values from rgb.

	height = -10000 + ((R * 256 * 256 + G * 256 + B) * 0.1)

	To make things easier we'll replace (R * 256 * 256 + G * 256 + B) with x to get the following equation:
	height = -10000 + (x * 0.1)
	now we can solve the equation for x and get:
	x = 10 * height + 100000

	To get the r, g and b value from x we'll use a little trick:
	We could write (R * 256 * 256 + G * 256 + B) as (R * 256^2 + G * 256^1 + B * 256^0)
	That should ring a bell for every computer scientist. Looks a awful lot like a numeral system conversion from Base256
	So we'll just convert x to as Base256 number. Position 2 will be r, position 1 will be g and position 0 will be b
*/

// maxX is the largest value three bytes can hold.
const maxX = 1<<24 - 1

// HeightToRgb calculates rgb values from height. Heights outside the
// encodable range (-10000 m to about 1667721 m) are clamped.
func HeightToRgb(height float64) color.RGBA {
	x := int64(math.Round(10*height + 100000))
	if x < 0 {
		x = 0
	}
	if x > maxX {
		x = maxX
	}

	b := uint8(x % 256)
	x = x / 256

	g := uint8(x % 256)
	x = x / 256

	r := uint8(x % 256)

	return color.RGBA{
		R: r,
		G: g,
		B: b,
		A: 255,
	}
}

// RgbToHeight calculates height from given rgb values
func RgbToHeight(c color.RGBA) float64 {
	x := int64(c.R)*256*256 + int64(c.G)*256 + int64(c.B)

	return -10000.0 + (float64(x) * 0.1)
}
