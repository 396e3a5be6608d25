package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gruppe-adler/bathy-utils/internal/config"
	bathylog "github.com/gruppe-adler/bathy-utils/internal/log"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	start := time.Now()

	addrPtr := flagSet.String("addr", ":8080", "Address to listen on")
	flags := config.NewFlags(flagSet)

	flagSet.Parse(os.Args[2:])

	cfg, err := flags.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := bathylog.New(cfg.LogLevel, cfg.LogDir)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s, err := New(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	srv := &http.Server{
		Addr:              *addrPtr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Println("▶️  Listening on", *addrPtr)
	logger.Info("listening", "addr", *addrPtr, "width", cfg.Width, "height", cfg.Height)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}

	logger.Info("server stopped", "uptime", time.Since(start))
	fmt.Printf("\n    🎉  Stopped after %s\n", time.Now().Sub(start).String())
}
