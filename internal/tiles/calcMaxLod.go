package tiles

import (
	"image"
	"math"
)

// TileSize is the edge length of a tile in pixels.
const TileSize = 256

// CalcMaxLodFromImage calculates maximum LOD based on the larger side of
// img, so that the deepest level does not upscale.
func CalcMaxLodFromImage(img image.Image) uint8 {
	w := float64(max(img.Bounds().Dx(), img.Bounds().Dy()))
	if w <= TileSize {
		return 0
	}

	tilesPerRowCol := math.Ceil(w / TileSize)

	return uint8(math.Ceil(math.Log2(tilesPerRowCol)))
}
