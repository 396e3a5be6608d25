package tiles

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gruppe-adler/bathy-utils/internal/config"
	bathylog "github.com/gruppe-adler/bathy-utils/internal/log"
	"github.com/gruppe-adler/bathy-utils/internal/mbtiles"
	"github.com/gruppe-adler/bathy-utils/internal/overlay"
	"github.com/gruppe-adler/bathy-utils/internal/render"
	"github.com/gruppe-adler/bathy-utils/internal/source"
	"github.com/gruppe-adler/bathy-utils/internal/tilejson"
	"github.com/gruppe-adler/bathy-utils/internal/validate"
	"github.com/paulmach/orb"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory or .mbtiles file")
	inputPtr := flagSet.String("in", "", "Path to sample file (.xyz, .asc, optionally .gz)")
	namePtr := flagSet.String("name", "", "Name of the tile set (defaults to the input file name)")
	skipEmptyPtr := flagSet.Bool("skip-empty", true, "Leave out fully transparent tiles")
	flags := config.NewFlags(flagSet)

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := flags.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := validate.InputFile(*inputPtr); err != nil {
		log.Fatal(err)
	}
	if err := validate.TileOutput(*outputPtr); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Validated input and output")

	name := *namePtr
	if name == "" {
		name = DefaultName(*inputPtr)
	}

	logger := bathylog.New(cfg.LogLevel, cfg.LogDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// load samples
	timer = time.Now()
	fmt.Println("▶️  Loading samples")
	src, err := source.Load(*inputPtr, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Loaded", src.Samples.Len(), "samples in", time.Now().Sub(timer).String())

	// render a square overlay, tiles are square
	timer = time.Now()
	fmt.Println("▶️  Rendering overlay")
	size := max(cfg.Width, cfg.Height)
	frame, err := render.Overlay(ctx, src, cfg, size, size, logger)
	if errors.Is(err, overlay.ErrCancelled) {
		fmt.Println("✖️  Rendering cancelled")
		os.Exit(130)
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Rendered overlay in", time.Now().Sub(timer).String())

	// calculate max LOD
	maxLod := CalcMaxLodFromImage(frame.Image)
	fmt.Println("ℹ️  Calculated max lod:", maxLod)

	meta := TileJSON(name, cfg, frame, src, maxLod)

	var sink Sink = Directory(*outputPtr)
	if validate.IsMBTiles(*outputPtr) {
		m, err := mbtiles.Open(*outputPtr, name, "png")
		if err != nil {
			log.Fatal(err)
		}
		defer m.Close()
		if err := m.InsertMeta(Metadata(meta)); err != nil {
			log.Fatal(err)
		}
		sink = MBTiles{m}
	}

	// build tiles
	timer = time.Now()
	fmt.Println("▶️  Building tiles")
	opts := Options{SkipEmpty: *skipEmptyPtr, Workers: cfg.Workers}
	for lod := uint8(0); lod <= maxLod; lod++ {
		timer2 := time.Now()
		n, err := BuildTileSet(ctx, lod, frame.Image, sink, opts)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("    ✔️  Finished", n, "tiles for LOD", lod, "in", time.Now().Sub(timer2).String())
	}
	fmt.Println("✔️  Built overlay tiles in", time.Now().Sub(timer).String())

	// write tile.json
	if !validate.IsMBTiles(*outputPtr) {
		timer = time.Now()
		fmt.Println("▶️  Creating tile.json")
		if err := tilejson.Write(*outputPtr, meta); err != nil {
			log.Fatal(err)
		}
		fmt.Println("✔️  Created tile.json in", time.Now().Sub(timer).String())
	}

	logger.Info("tiles finished", "name", name, "maxLod", maxLod, "elapsed", time.Since(start))
	fmt.Printf("\n    🎉  Finished in %s\n", time.Now().Sub(start).String())
}

// DefaultName derives a tile set name from the input file name.
func DefaultName(inputPath string) string {
	name := filepath.Base(inputPath)
	for {
		ext := filepath.Ext(name)
		if ext == "" || ext == name {
			return name
		}
		name = strings.TrimSuffix(name, ext)
	}
}

// TileJSON describes the tiles of frame. Bounds are only set for
// geographic input.
func TileJSON(name string, cfg config.Render, frame *overlay.Frame, src *source.Source, maxLod uint8) tilejson.TileJSON {
	t := tilejson.New(name, fmt.Sprintf("%s bathymetry overlay", name), maxLod)

	if !frame.Empty() {
		t.Legend = &tilejson.Legend{Colormap: cfg.Colormap, Min: frame.Min, Max: frame.Max}
		if frame.Colormap != nil {
			t.Legend.Colormap = frame.Colormap.Name()
		} else if cfg.ColormapFile != "" {
			t.Legend.Colormap = filepath.Base(cfg.ColormapFile)
		}
		if src.Geographic {
			unproject := src.Unproject()
			sw := unproject(frame.Bound.Min[0], frame.Bound.Min[1])
			ne := unproject(frame.Bound.Max[0], frame.Bound.Max[1])
			t = t.WithBound(orb.Bound{Min: sw, Max: ne})
		}
	}

	return t
}

// Metadata returns the MBTiles metadata entries for t.
func Metadata(t tilejson.TileJSON) map[string]string {
	meta := map[string]string{
		"name":    t.Name,
		"format":  "png",
		"minzoom": strconv.Itoa(int(t.Minzoom)),
		"maxzoom": strconv.Itoa(int(t.Maxzoom)),
	}
	if t.Description != "" {
		meta["description"] = t.Description
	}
	if len(t.Bounds) == 4 {
		meta["bounds"] = joinFloats(t.Bounds)
	}
	if len(t.Center) == 3 {
		meta["center"] = joinFloats(t.Center)
	}
	if t.Legend != nil {
		if legend, err := json.Marshal(t.Legend); err == nil {
			meta["json"] = fmt.Sprintf(`{"legend":%s}`, legend)
		}
	}
	return meta
}

func joinFloats(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
