package render

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gruppe-adler/bathy-utils/internal/config"
	bathylog "github.com/gruppe-adler/bathy-utils/internal/log"
	"github.com/gruppe-adler/bathy-utils/internal/overlay"
	"github.com/gruppe-adler/bathy-utils/internal/preview"
	"github.com/gruppe-adler/bathy-utils/internal/source"
	"github.com/gruppe-adler/bathy-utils/internal/validate"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to sample file (.xyz, .asc, optionally .gz)")
	previewsPtr := flagSet.Bool("previews", false, "Also write downscaled previews of the overlay")
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
	if err := validate.OutputDirectory(*outputPtr); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Validated input and output")

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
	if n := src.Samples.Skipped() + src.Malformed; n > 0 {
		fmt.Println("ℹ️  Skipped", n, "invalid samples")
	}
	logger.Info("loaded samples", "path", src.Path, "samples", src.Samples.Len(), "skipped", src.Samples.Skipped(), "malformed", src.Malformed)

	// render overlay
	timer = time.Now()
	fmt.Println("▶️  Rendering overlay")
	frame, err := Overlay(ctx, src, cfg, cfg.Width, cfg.Height, logger)
	if errors.Is(err, overlay.ErrCancelled) {
		fmt.Println("✖️  Rendering cancelled")
		os.Exit(130)
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Rendered overlay in", time.Now().Sub(timer).String())
	if !frame.Empty() {
		fmt.Printf("ℹ️  Value range: %g to %g\n", frame.Min, frame.Max)
	}

	// write images
	timer = time.Now()
	fmt.Println("▶️  Writing images")
	var sizes []uint
	if *previewsPtr {
		sizes = preview.Sizes
	}
	if _, err := WriteImages(*outputPtr, frame, sizes); err != nil {
		log.Fatal(err)
	}
	if err := WriteGrid(*outputPtr, frame); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Wrote images in", time.Now().Sub(timer).String())

	// write coverage
	timer = time.Now()
	fmt.Println("▶️  Writing coverage")
	if err := WriteCoverage(*outputPtr, frame, src); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Wrote coverage in", time.Now().Sub(timer).String())

	logger.Info("render finished", "elapsed", time.Since(start))
	fmt.Printf("\n    🎉  Finished in %s\n", time.Now().Sub(start).String())
}
