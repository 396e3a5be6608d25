package tiles

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/gruppe-adler/bathy-utils/internal/mbtiles"
	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
)

// Sink receives encoded tiles addressed in the XYZ scheme.
type Sink interface {
	Put(z, x, y int, data []byte) error
}

// Directory writes tiles to <dir>/<z>/<x>/<y>.png.
type Directory string

func (d Directory) Put(z, x, y int, data []byte) error {
	dirPath := path.Join(string(d), strconv.Itoa(z), strconv.Itoa(x))
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path.Join(dirPath, fmt.Sprintf("%d.png", y)), data, 0o644)
}

// MBTiles writes tiles into an MBTiles file.
type MBTiles struct {
	*mbtiles.MBTiles
}

func (m MBTiles) Put(z, x, y int, data []byte) error {
	return m.InsertTile(z, x, y, data)
}

// Options controls tile generation.
type Options struct {
	// SkipEmpty leaves out tiles without a single visible pixel.
	SkipEmpty bool

	// Workers bounds the tiles encoded at once. Zero means one per CPU.
	Workers int
}

// BuildTileSet splits img into 2^lod × 2^lod tiles, scales each one to
// TileSize and hands it to sink.
func BuildTileSet(ctx context.Context, lod uint8, img *image.NRGBA, sink Sink, opts Options) (written int, err error) {
	tilesPerRowCol := 1 << lod

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	tileWidth := width / tilesPerRowCol
	tileHeight := height / tilesPerRowCol

	// remaining pixels go to the first cols / rows
	widthRemainder := width % tilesPerRowCol
	heightRemainder := height % tilesPerRowCol

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var count atomic.Int64

	for col := 0; col < tilesPerRowCol; col++ {
		for row := 0; row < tilesPerRowCol; row++ {
			x := img.Bounds().Min.X + tileWidth*col + min(col, widthRemainder)
			y := img.Bounds().Min.Y + tileHeight*row + min(row, heightRemainder)
			w := tileWidth
			h := tileHeight
			if col < widthRemainder {
				w++
			}
			if row < heightRemainder {
				h++
			}
			if w == 0 || h == 0 {
				continue
			}
			rect := image.Rect(x, y, x+w, y+h)

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				sub := img.SubImage(rect).(*image.NRGBA)
				if opts.SkipEmpty && transparent(sub) {
					return nil
				}
				data, err := createTile(sub)
				if err != nil {
					return fmt.Errorf("tile %d/%d/%d: %w", lod, col, row, err)
				}
				if err := sink.Put(int(lod), col, row, data); err != nil {
					return fmt.Errorf("tile %d/%d/%d: %w", lod, col, row, err)
				}
				count.Add(1)
				return nil
			})
		}
	}

	err = g.Wait()
	return int(count.Load()), err
}

// BuildPyramid builds every level from 0 to maxLod.
func BuildPyramid(ctx context.Context, maxLod uint8, img *image.NRGBA, sink Sink, opts Options) (written int, err error) {
	for lod := uint8(0); lod <= maxLod; lod++ {
		n, err := BuildTileSet(ctx, lod, img, sink, opts)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func createTile(sub *image.NRGBA) ([]byte, error) {
	img := resize.Resize(TileSize, TileSize, sub, resize.MitchellNetravali)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func transparent(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0 {
				return false
			}
		}
	}
	return true
}
