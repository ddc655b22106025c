// Command slidecastd runs the slidecast daemon: the worker pool and the
// HTTP API that the slidecast CLI talks to.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"slidecast/internal/config"
	"slidecast/internal/daemon"
	"slidecast/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to ~/.config/slidecast/config.toml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "slidecastd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, path, exists, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	if !exists {
		logger.Info("no config file found, using defaults", logging.String("path", path))
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return d.Run(ctx)
}
