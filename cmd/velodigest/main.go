package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"VeloDigest/internal/app"
	"VeloDigest/internal/config"
	"VeloDigest/internal/logging"
)

func main() {
	daemon := flag.Bool("daemon", false, "keep refreshing on the configured interval")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *daemon {
		err = application.Serve(ctx)
	} else {
		err = application.Run(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
