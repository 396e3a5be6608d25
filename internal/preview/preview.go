// Package preview writes PNG images and their downscaled variants.
package preview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path"

	"github.com/nfnt/resize"
)

// Sizes are the preview heights written by default.
var Sizes = []uint{128, 256, 512, 1024}

// Write saves img as <dir>/<name>.png plus one <name>_<size>.png per
// size, scaled to that height. Sizes not smaller than the image are
// skipped. It returns the written paths.
func Write(dir, name string, img image.Image, sizes []uint) ([]string, error) {
	original := path.Join(dir, name+".png")
	if err := SaveImage(original, img); err != nil {
		return nil, err
	}
	written := []string{original}

	height := img.Bounds().Dy()
	width := img.Bounds().Dx()

	for _, size := range sizes {
		if int(size) >= height || height == 0 {
			continue
		}

		factor := float64(size) / float64(height)
		w := max(uint(float64(width)*factor), 1)

		scaled := resize.Resize(w, size, img, resize.MitchellNetravali)
		p := path.Join(dir, fmt.Sprintf("%s_%d.png", name, size))
		if err := SaveImage(p, scaled); err != nil {
			return written, err
		}
		written = append(written, p)
	}

	return written, nil
}

// SaveImage encodes img as PNG at path.
func SaveImage(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
