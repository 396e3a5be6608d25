// Package terrainrgb encodes grid means as Mapbox Terrain-RGB pixels.
package terrainrgb

import (
	"image"

	"github.com/gruppe-adler/bathy-utils/internal/grid"
)

// HeightImage encodes every non-empty cell of g as a Terrain-RGB pixel,
// north up. The encoded height is offset + scale*mean, so a scale of -1
// turns depths into (negative) heights. Empty cells stay transparent.
func HeightImage(g *grid.Grid, offset, scale float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.N, g.N))

	for row := 0; row < g.N; row++ {
		y := g.N - 1 - row
		for col := 0; col < g.N; col++ {
			c := g.Cell(row, col)
			if c.Empty() {
				continue
			}
			px := HeightToRgb(offset + scale*c.Mean)
			i := img.PixOffset(col, y)
			img.Pix[i+0] = px.R
			img.Pix[i+1] = px.G
			img.Pix[i+2] = px.B
			img.Pix[i+3] = 255
		}
	}

	return img
}
